/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/medidash/clinician"
)

// LandingForm renders the entry screen with the sign-in form. An already
// signed-in clinician is sent straight to the workflow.
func LandingForm(c flamego.Context, s session.Session, t template.Template, data template.Data, fl session.Flash) {
	if RecordStore(s).Get() != nil {
		c.Redirect(sanitizeNextPath(c.Query("next")), http.StatusSeeOther)
		return
	}

	data["Next"] = c.Query("next")
	data["Role"] = string(clinician.RoleNurse)
	data["Flash"] = fl
	t.HTML(http.StatusOK, "landing")
}

// Login validates the intake form and creates the session record. Validation
// failures re-render the form inline with the entered values; they are not
// errors. The last login always wins, overwriting any prior session.
func Login(c flamego.Context, s session.Session, t template.Template, data template.Data) {
	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	form := c.Request().Form
	name := form.Get("name")
	role := clinician.Role(strings.TrimSpace(form.Get("role")))
	institution := form.Get("institution")

	rec, err := clinician.NewRecord(name, role, institution)
	if err != nil {
		data["ValidationError"] = err.Error()
		data["Name"] = name
		data["Role"] = string(role)
		data["Institution"] = institution
		data["Next"] = form.Get("next")
		t.HTML(http.StatusOK, "landing")
		return
	}

	if err := RecordStore(s).Set(rec); err != nil {
		logger.Error("Failed to store session record", "error", err)
		SetErrorFlash(s, "Failed to sign in")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	c.Redirect(sanitizeNextPath(form.Get("next")), http.StatusSeeOther)
}

// Logout destroys the session record and returns to the entry screen. The
// 303 redirect keeps the destroyed session out of back-navigation.
func Logout(s session.Session, c flamego.Context) {
	if err := RecordStore(s).Clear(); err != nil {
		logger.Error("Failed to clear session record", "error", err)
	}
	s.Delete(lastPredictionKey)
	c.Redirect("/", http.StatusSeeOther)
}

// RequireClinician is the guard middleware for the protected workflow. It
// re-checks presence of the session record on every request and redirects to
// the entry screen, preserving the attempted destination best-effort.
func RequireClinician(s session.Session, c flamego.Context) {
	if RecordStore(s).Get() == nil {
		next := c.Request().URL.Path
		if q := c.Request().URL.RawQuery; q != "" {
			next += "?" + q
		}
		logAccessDenied(c, s, "no_session", http.StatusSeeOther, "/")
		c.Redirect("/?next="+url.QueryEscape(next), http.StatusSeeOther)
		return
	}
	c.Next()
}

// ClinicianContextInjector loads the session record into template data.
func ClinicianContextInjector() flamego.Handler {
	return func(s session.Session, data template.Data) {
		rec := RecordStore(s).Get()
		if rec == nil {
			data["IsAuthenticated"] = false
			return
		}
		data["IsAuthenticated"] = true
		data["Clinician"] = rec
	}
}

// sanitizeNextPath constrains a post-login destination to a local absolute
// path, defaulting to the workflow.
func sanitizeNextPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "/dashboard"
	}

	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		if u.Path == "" {
			return "/"
		}
		raw = u.RequestURI()
	}

	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/dashboard"
	}
	if strings.ContainsAny(raw, "\r\n") {
		return "/dashboard"
	}

	return raw
}
