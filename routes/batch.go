/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/google/uuid"

	"github.com/humaidq/medidash/predict"
)

// csvTemplate is the fixed example file offered for download; it matches the
// legacy snake_case header form the normalizer understands.
const csvTemplate = `age,sex,weight_kg,baseline_severity,biomarker_day0,biomarker_day1,biomarker_day2,biomarker_day3,biomarker_day4,biomarker_day5
45,M,75.5,7,10.2,9.8,9.0,8.2,7.5,6.8
52,F,68.0,8,5.1,5.3,5.4,5.5,5.6,5.7`

// batchRow is a BatchResult decorated with the display fields the results
// table needs.
type batchRow struct {
	predict.BatchResult
	Probability string
	DoseDisplay string
	LowDose     bool
}

// BatchUpload submits an uploaded patient cohort CSV for batch prediction
// and renders one result row per input row, in input order.
func BatchUpload(c flamego.Context, s session.Session, t template.Template, data template.Data, client *predict.Client) {
	file, header, err := c.Request().FormFile("file")
	if err != nil {
		logger.Warn("Batch upload without file", "error", err)
		SetErrorFlash(s, errMissingUploadFile.Error())
		c.Redirect("/dashboard?mode=batch", http.StatusSeeOther)
		return
	}
	defer file.Close()

	uploadID := uuid.NewString()
	logger.Info("Processing batch upload", "upload_id", uploadID, "file", header.Filename, "size", header.Size)

	results, err := client.PredictBatch(c.Request().Context(), header.Filename, file)
	if err != nil {
		logger.Error("Batch prediction failed", "upload_id", uploadID, "error", err)
		SetErrorFlash(s, "Error processing file: "+err.Error())
		c.Redirect("/dashboard?mode=batch", http.StatusSeeOther)
		return
	}

	logger.Info("Batch upload complete", "upload_id", uploadID, "rows", len(results))

	rows := make([]batchRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, batchRow{
			BatchResult: r,
			Probability: formatProbability(r.ProbabilityOfResponse),
			DoseDisplay: formatDose(r.DoseIntensity),
			LowDose:     isLowDose(r.DoseIntensity),
		})
	}

	data["Mode"] = "batch"
	data["Form"] = defaultVitals()
	data["BatchResults"] = rows
	t.HTML(http.StatusOK, "dashboard")
}

// DownloadCSVTemplate serves the fixed two-row example CSV.
func DownloadCSVTemplate(c flamego.Context) {
	header := c.ResponseWriter().Header()
	header.Set("Content-Type", "text/csv; charset=utf-8")
	header.Set("Content-Disposition", `attachment; filename="patient_data_template.csv"`)

	c.ResponseWriter().WriteHeader(http.StatusOK)
	if _, err := c.ResponseWriter().Write([]byte(csvTemplate)); err != nil {
		logger.Error("Failed to write CSV template", "error", err)
	}
}
