// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/humaidq/medidash/predict"
)

func performMultipartPOST(
	t *testing.T,
	h http.Handler,
	path, filename, content string,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestBatchUploadRendersRows(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"patient_id":"P-001","prediction":"Responder","probability_of_response":0.91,"dose_intensity":8.0},
			{"patient_id":"P-002","prediction":"Non-Responder","probability_of_response":0.14,"dose_intensity":4.5,"alert_clinician":true}
		]`)
	}))
	defer srv.Close()

	s := newTestSession()
	tpl := &testTemplate{}
	data := newTemplateData()
	f := newDashboardTestApp(s, tpl, data, predict.NewClient(srv.URL), FlashMessage{})

	rec := performMultipartPOST(t, f, "/dashboard/batch", "cohort.csv", "Age,Sex\n45,M\n")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if !tpl.called || tpl.name != "dashboard" {
		t.Fatalf("expected dashboard render, got %#v", tpl)
	}

	if data["Mode"] != "batch" {
		t.Fatalf("Mode = %v", data["Mode"])
	}

	rows, ok := data["BatchResults"].([]batchRow)
	if !ok {
		t.Fatalf("BatchResults has type %T", data["BatchResults"])
	}

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	if rows[0].PatientID != "P-001" || rows[0].Probability != "91.0%" || rows[0].LowDose {
		t.Fatalf("unexpected first row: %#v", rows[0])
	}

	if rows[1].Probability != "14.0%" || rows[1].DoseDisplay != "4.50" || !rows[1].LowDose {
		t.Fatalf("unexpected second row: %#v", rows[1])
	}

	if !rows[1].AlertClinician {
		t.Fatal("alert flag lost in second row")
	}
}

func TestBatchUploadMissingFile(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	tpl := &testTemplate{}
	f := newDashboardTestApp(s, tpl, newTemplateData(), predict.NewClient("http://127.0.0.1:0"), FlashMessage{})

	rec := performFormPOST(t, f, "/dashboard/batch", url.Values{"other": {"field"}})
	assertRedirect(t, rec, "/dashboard?mode=batch")
	assertFlash(t, s, FlashError, "missing upload file")

	if tpl.called {
		t.Fatal("missing upload should not render the dashboard")
	}
}

func TestBatchUploadServiceError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"CSV is missing required columns"}`)
	}))
	defer srv.Close()

	s := newTestSession()
	f := newDashboardTestApp(s, &testTemplate{}, newTemplateData(), predict.NewClient(srv.URL), FlashMessage{})

	rec := performMultipartPOST(t, f, "/dashboard/batch", "cohort.csv", "bogus\n")
	assertRedirect(t, rec, "/dashboard?mode=batch")
	assertFlash(t, s, FlashError, "Error processing file: CSV is missing required columns")
}

func TestBatchUploadMalformedServiceBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"oops"}`)
	}))
	defer srv.Close()

	s := newTestSession()
	f := newDashboardTestApp(s, &testTemplate{}, newTemplateData(), predict.NewClient(srv.URL), FlashMessage{})

	rec := performMultipartPOST(t, f, "/dashboard/batch", "cohort.csv", "Age\n45\n")
	assertRedirect(t, rec, "/dashboard?mode=batch")
	assertFlash(t, s, FlashError, "Error processing file: invalid response format from server")
}

func TestDownloadCSVTemplate(t *testing.T) {
	t.Parallel()

	f := newDashboardTestApp(newTestSession(), &testTemplate{}, newTemplateData(), nil, FlashMessage{})

	rec := performGET(t, f, "/dashboard/template.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if got := rec.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Fatalf("Content-Type = %q", got)
	}

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="patient_data_template.csv"` {
		t.Fatalf("Content-Disposition = %q", got)
	}

	body := rec.Body.String()
	if body != csvTemplate {
		t.Fatalf("body = %q", body)
	}

	// Two example rows under the legacy snake_case header.
	if got := len(strings.Split(body, "\n")); got != 3 {
		t.Fatalf("template has %d lines, want 3", got)
	}
}
