/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/medidash/predict"
)

// lowDoseThreshold is the dose intensity (mg/kg) below which a result is
// flagged as a low dose in the result card.
const lowDoseThreshold = 6.0

// Dashboard renders the prediction workflow: the single-patient vitals form
// or the batch upload view, selected by the mode query parameter. The last
// successful prediction of this session is re-rendered with the form, so a
// failed submission redirecting back here shows its flash notice next to the
// result that was already on screen.
func Dashboard(c flamego.Context, s session.Session, t template.Template, data template.Data, fl session.Flash) {
	mode := c.Query("mode")
	if mode != "batch" {
		mode = "single"
	}

	data["Mode"] = mode
	data["Form"] = defaultVitals()
	data["Flash"] = fl

	if mode == "single" {
		if prior := lastPrediction(s); prior != nil {
			renderResult(data, prior.Record, prior.Result)
		}
	}

	t.HTML(http.StatusOK, "dashboard")
}

// Predict submits the vitals form to the prediction service and renders the
// result card with the biomarker trajectory chart. Failures re-render the
// form with a notice; the result previously on screen is never replaced by a
// failure.
func Predict(c flamego.Context, s session.Session, t template.Template, data template.Data, client *predict.Client) {
	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/dashboard", http.StatusSeeOther)
		return
	}

	record, err := parseVitalsForm(c.Request().Form)
	if err != nil {
		SetErrorFlash(s, "Invalid patient vitals: "+err.Error())
		c.Redirect("/dashboard", http.StatusSeeOther)
		return
	}

	result, err := client.Predict(c.Request().Context(), record)
	if err != nil {
		logger.Error("Prediction request failed", "error", err)
		SetErrorFlash(s, "Prediction failed: "+err.Error())
		c.Redirect("/dashboard", http.StatusSeeOther)
		return
	}

	if err := storeLastPrediction(s, record, *result); err != nil {
		logger.Error("Failed to store prediction in session", "error", err)
	}

	data["Mode"] = "single"
	renderResult(data, record, *result)
	t.HTML(http.StatusOK, "dashboard")
}

// renderResult fills the template data for the result card from a verdict and
// the vitals that produced it.
func renderResult(data template.Data, record predict.PatientRecord, result predict.PredictionResult) {
	data["Form"] = record
	data["Result"] = result
	data["Probability"] = formatProbability(result.ProbabilityOfResponse)
	data["DoseDisplay"] = formatDose(result.DoseIntensity)
	data["LowDose"] = isLowDose(result.DoseIntensity)

	chart, err := biomarkerChart(record.Biomarkers())
	if err != nil {
		logger.Error("Failed to render trajectory chart", "error", err)
		return
	}
	data["Chart"] = htmltemplate.HTML(chart)
}

// defaultVitals pre-fills the form with a representative heavy patient, the
// same example the intake form has always shown.
func defaultVitals() predict.PatientRecord {
	return predict.PatientRecord{
		Age:              65,
		Sex:              predict.SexMale,
		WeightKg:         95,
		BaselineSeverity: 7,
		BiomarkerDay0:    50,
		BiomarkerDay1:    52,
		BiomarkerDay2:    55,
		BiomarkerDay3:    54,
		BiomarkerDay4:    58,
		BiomarkerDay5:    60,
	}
}

func parseVitalsForm(form url.Values) (predict.PatientRecord, error) {
	var rec predict.PatientRecord

	fields := []struct {
		name string
		dst  *float64
	}{
		{"age", &rec.Age},
		{"weight_kg", &rec.WeightKg},
		{"baseline_severity", &rec.BaselineSeverity},
		{"biomarker_day0", &rec.BiomarkerDay0},
		{"biomarker_day1", &rec.BiomarkerDay1},
		{"biomarker_day2", &rec.BiomarkerDay2},
		{"biomarker_day3", &rec.BiomarkerDay3},
		{"biomarker_day4", &rec.BiomarkerDay4},
		{"biomarker_day5", &rec.BiomarkerDay5},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(form.Get(f.name), 64)
		if err != nil {
			return predict.PatientRecord{}, fmt.Errorf("%s: %w", f.name, errInvalidNumber)
		}
		*f.dst = v
	}

	rec.Sex = predict.Sex(form.Get("sex"))

	return rec, nil
}

// formatProbability renders a response probability as a percentage with one
// decimal, e.g. 0.22 becomes "22.0%".
func formatProbability(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// formatDose renders a dose intensity in mg/kg with two decimals.
func formatDose(doseIntensity float64) string {
	return fmt.Sprintf("%.2f", doseIntensity)
}

func isLowDose(doseIntensity float64) bool {
	return doseIntensity < lowDoseThreshold
}

// biomarkerChart renders the six-day biomarker series as a line chart.
func biomarkerChart(series [6]float64) (string, error) {
	xAxis := make([]string, 0, len(series))
	yData := make([]opts.LineData, 0, len(series))
	for day, value := range series {
		xAxis = append(xAxis, "Day "+strconv.Itoa(day))
		yData = append(yData, opts.LineData{Value: value})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Biomarker Trajectory (mg/L)",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
	)

	line.SetXAxis(xAxis).
		AddSeries("Biomarker", yData).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(true),
			}),
			charts.WithMarkPointNameTypeItemOpts(
				opts.MarkPointNameTypeItem{Name: "Max", Type: "max"},
				opts.MarkPointNameTypeItem{Name: "Min", Type: "min"},
			),
		)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
