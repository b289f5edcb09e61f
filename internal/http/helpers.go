package http

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// parseYear extracts the year query parameter. An absent or invalid
// value defaults to the current year; "all" selects every year.
func parseYear(r *http.Request) int {
	v := strings.TrimSpace(r.URL.Query().Get("year"))
	if v == "all" {
		return 0
	}
	if y, err := strconv.Atoi(v); err == nil && y > 0 {
		return y
	}
	return time.Now().Year()
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func writeErrorDiv(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

func writeSuccessDiv(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + template.HTMLEscapeString(msg) + `</div>`))
}

func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, remember bool) {
	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	// Remember-me keeps the cookie for the token lifetime; otherwise it
	// lives for the browser session only.
	if remember {
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
