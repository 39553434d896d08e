/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package predict

import (
	"errors"
	"fmt"
)

// ErrInvalidResponseFormat is returned when the batch endpoint answers 200
// with anything other than a JSON array.
var ErrInvalidResponseFormat = errors.New("invalid response format from server")

// APIError carries the human-readable failure message for a non-2xx response,
// taken from the service's structured detail when present, else the HTTP
// status line.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("API request failed with status %d", e.StatusCode)
}
