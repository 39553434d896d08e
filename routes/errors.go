/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errMissingUploadFile = errors.New("missing upload file")
	errInvalidNumber     = errors.New("invalid numeric value")
)
