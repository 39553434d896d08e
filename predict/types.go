/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package predict

// Sex is the patient sex as the prediction service expects it (lowercase).
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// PatientRecord holds one patient's intake vitals and the fixed six-point
// biomarker series (days 0 through 5, in day order).
type PatientRecord struct {
	Age              float64 `json:"age"`
	Sex              Sex     `json:"sex"`
	WeightKg         float64 `json:"weight_kg"`
	BaselineSeverity float64 `json:"baseline_severity"`
	BiomarkerDay0    float64 `json:"biomarker_day0"`
	BiomarkerDay1    float64 `json:"biomarker_day1"`
	BiomarkerDay2    float64 `json:"biomarker_day2"`
	BiomarkerDay3    float64 `json:"biomarker_day3"`
	BiomarkerDay4    float64 `json:"biomarker_day4"`
	BiomarkerDay5    float64 `json:"biomarker_day5"`
}

// Biomarkers returns the series in day order for charting.
func (p PatientRecord) Biomarkers() [6]float64 {
	return [6]float64{
		p.BiomarkerDay0,
		p.BiomarkerDay1,
		p.BiomarkerDay2,
		p.BiomarkerDay3,
		p.BiomarkerDay4,
		p.BiomarkerDay5,
	}
}

// PredictionResult is the service's verdict for a single patient. It is not
// validated client-side; the service owns the field semantics.
type PredictionResult struct {
	Prediction            string  `json:"prediction"`
	ProbabilityOfResponse float64 `json:"probability_of_response"`
	DoseIntensity         float64 `json:"dose_intensity"`
	AlertClinician        bool    `json:"alert_clinician"`
	Message               string  `json:"message"`
}

// BatchResult is one row of a batch prediction, keyed by the patient ID the
// service assigned to the input row.
type BatchResult struct {
	PatientID             string  `json:"patient_id"`
	Prediction            string  `json:"prediction"`
	ProbabilityOfResponse float64 `json:"probability_of_response"`
	DoseIntensity         float64 `json:"dose_intensity"`
	AlertClinician        bool    `json:"alert_clinician"`
	Message               string  `json:"message"`
}
