/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"

	"github.com/flamego/session"

	"github.com/humaidq/medidash/clinician"
	"github.com/humaidq/medidash/predict"
)

// sessionRecordStore adapts the flamego session to clinician.Store, keeping
// the record JSON-encoded under the fixed key the way the browser client kept
// it in local storage. The record is always read and replaced whole.
type sessionRecordStore struct {
	s session.Session
}

// RecordStore returns the clinician record store backing the given session.
func RecordStore(s session.Session) clinician.Store {
	return sessionRecordStore{s: s}
}

func (st sessionRecordStore) Get() *clinician.Record {
	raw, ok := st.s.Get(clinician.RecordKey).(string)
	if !ok {
		return nil
	}
	return clinician.DecodeRecord([]byte(raw))
}

func (st sessionRecordStore) Set(rec clinician.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	st.s.Set(clinician.RecordKey, string(data))
	return nil
}

func (st sessionRecordStore) Clear() error {
	st.s.Delete(clinician.RecordKey)
	return nil
}

// lastPredictionKey is the session key the most recent successful prediction
// lives under. The vitals are kept with the verdict so the result card and
// trajectory chart can be rebuilt after a redirect.
const lastPredictionKey = "lastPrediction"

type storedPrediction struct {
	Record predict.PatientRecord    `json:"record"`
	Result predict.PredictionResult `json:"result"`
}

func storeLastPrediction(s session.Session, record predict.PatientRecord, result predict.PredictionResult) error {
	data, err := json.Marshal(storedPrediction{Record: record, Result: result})
	if err != nil {
		return err
	}
	s.Set(lastPredictionKey, string(data))
	return nil
}

// lastPrediction returns the session's most recent successful prediction, or
// nil when there is none or the stored payload does not decode.
func lastPrediction(s session.Session) *storedPrediction {
	raw, ok := s.Get(lastPredictionKey).(string)
	if !ok {
		return nil
	}

	var stored storedPrediction
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil
	}
	return &stored
}
