/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"net/http"

	"github.com/flamego/flamego"

	"github.com/humaidq/medidash/predict"
)

type statusResponse struct {
	Status predict.Status `json:"status"`
}

// APIStatus reports the monitor's current view of service availability for
// the status widget.
func APIStatus(c flamego.Context, m *predict.Monitor) {
	writeStatus(c, http.StatusOK, m.Status())
}

// APIStatusRetry forces an immediate availability re-check outside the
// normal polling cadence and re-phases the cadence from now.
func APIStatusRetry(c flamego.Context, m *predict.Monitor) {
	m.Retry()
	writeStatus(c, http.StatusAccepted, predict.StatusChecking)
}

func writeStatus(c flamego.Context, httpStatus int, status predict.Status) {
	w := c.ResponseWriter()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(statusResponse{Status: status}); err != nil {
		logger.Error("Failed to encode status response", "error", err)
	}
}
