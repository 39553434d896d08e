/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package clinician

import (
	"encoding/json"
	"strings"
	"time"
)

// Role is the operator's declared role. The session is a trust-on-input
// label, not a security boundary; the role is still constrained to the two
// values the workflow understands.
type Role string

const (
	RoleNurse  Role = "nurse"
	RoleDoctor Role = "doctor"
)

// Record identifies the clinician operating the workflow for the lifetime of
// the browser session. It is exclusively client-owned; there is no
// server-side mirror.
type Record struct {
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	Institution string `json:"institution"`
	Timestamp   string `json:"timestamp"`
}

// NewRecord validates the intake fields, trims them and stamps the record
// with the creation time in RFC 3339.
func NewRecord(name string, role Role, institution string) (Record, error) {
	rec := Record{
		Name:        strings.TrimSpace(name),
		Role:        role,
		Institution: strings.TrimSpace(institution),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Validate checks the intake rules: a trimmed name of at least five
// characters, a non-empty institution and a known role.
func (r Record) Validate() error {
	if len(strings.TrimSpace(r.Name)) < 5 {
		return ErrNameTooShort
	}
	if strings.TrimSpace(r.Institution) == "" {
		return ErrInstitutionMissing
	}
	if r.Role != RoleNurse && r.Role != RoleDoctor {
		return ErrUnknownRole
	}
	return nil
}

// DecodeRecord deserializes a stored record. Unknown fields are dropped at
// this boundary rather than trusted, and a payload that is malformed or fails
// validation yields nil: the guard only cares about presence, so "garbage"
// and "absent" are deliberately the same answer.
func DecodeRecord(data []byte) *Record {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil
	}
	if err := rec.Validate(); err != nil {
		return nil
	}
	return &rec
}
