/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package predict

import "strings"

// legacyPrefix marks a header row written in the snake_case form that older
// export tooling produced. Detection is case-sensitive on purpose: a file
// whose header matches neither convention is forwarded untouched rather than
// guessed at.
const legacyPrefix = "biomarker_day"

var legacyHeaderNames = map[string]string{
	"age":               "Age",
	"sex":               "Sex",
	"weight_kg":         "Weight_Kg",
	"baseline_severity": "Baseline_Severity",
}

// NormalizeHeader rewrites a CSV payload's header row from the legacy
// snake_case form to the canonical capitalized form the prediction service
// expects. Only the header row is touched; every other byte of the payload is
// returned exactly as received. The second return reports whether a rewrite
// happened.
func NormalizeHeader(content string) (string, bool) {
	header := content
	rest := ""
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		header = content[:idx]
		rest = content[idx:]
	}

	trimmedHeader := strings.TrimSuffix(header, "\r")

	tokens := strings.Split(trimmedHeader, ",")
	needsRewrite := false
	for _, tok := range tokens {
		if strings.HasPrefix(strings.TrimSpace(tok), legacyPrefix) {
			needsRewrite = true
			break
		}
	}
	if !needsRewrite {
		return content, false
	}

	renamed := make([]string, len(tokens))
	for i, tok := range tokens {
		name := strings.TrimSpace(tok)
		switch {
		case strings.HasPrefix(name, legacyPrefix):
			renamed[i] = "Biomarker_Day" + strings.TrimPrefix(name, legacyPrefix)
		default:
			if canonical, ok := legacyHeaderNames[name]; ok {
				renamed[i] = canonical
			} else {
				renamed[i] = name
			}
		}
	}

	newHeader := strings.Join(renamed, ",")
	if strings.HasSuffix(header, "\r") {
		newHeader += "\r"
	}

	return newHeader + rest, true
}
