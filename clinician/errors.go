/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package clinician

import "errors"

var (
	ErrNameTooShort       = errors.New("name must be at least 5 characters")
	ErrInstitutionMissing = errors.New("institution is required")
	ErrUnknownRole        = errors.New("role must be nurse or doctor")
)
