// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/flamego/flamego"

	"github.com/humaidq/medidash/predict"
)

func newStatusTestApp(m *predict.Monitor) *flamego.Flame {
	f := flamego.New()
	f.Use(func(c flamego.Context) {
		c.Map(m)
		c.Next()
	})

	f.Get("/api/status", APIStatus)
	f.Post("/api/status/retry", APIStatusRetry)

	return f
}

func decodeStatusBody(t *testing.T, body []byte) string {
	t.Helper()

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode status body %q: %v", body, err)
	}

	return resp.Status
}

func TestAPIStatus(t *testing.T) {
	t.Parallel()

	// Not started: the monitor reports its initial state.
	m := predict.NewMonitor(predict.NewClient("http://127.0.0.1:0"), time.Hour)
	f := newStatusTestApp(m)

	rec := performGET(t, f, "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}

	if got := decodeStatusBody(t, rec.Body.Bytes()); got != "checking" {
		t.Fatalf("status body = %q, want %q", got, "checking")
	}
}

func TestAPIStatusRetry(t *testing.T) {
	t.Parallel()

	m := predict.NewMonitor(predict.NewClient("http://127.0.0.1:0"), time.Hour)
	f := newStatusTestApp(m)

	rec := performFormPOST(t, f, "/api/status/retry", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}

	if got := decodeStatusBody(t, rec.Body.Bytes()); got != "checking" {
		t.Fatalf("status body = %q, want %q", got, "checking")
	}
}
