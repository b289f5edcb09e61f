package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"financas/internal/auth"
	"financas/internal/services"
	"financas/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := memory.New()
	ledger := services.NewLedgerService(st, nil)
	advisor := services.NewAdvisorService(st, nil, 0)
	sessions := auth.NewManager(st, "test-secret-test-secret", time.Hour)

	s := NewServer(":0", ledger, advisor, sessions)
	t.Cleanup(func() { s.cacheManager.Stop(); s.rateLimiter.stop() })
	return s
}

// signUp registers a fresh account and returns its session cookie.
func signUp(t *testing.T, s *Server, email string) *http.Cookie {
	t.Helper()
	form := url.Values{
		"name":     {"Teste"},
		"email":    {email},
		"password": {"Senha123"},
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie after register")
	return nil
}

func postForm(s *Server, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func get(s *Server, path string, cookie *http.Cookie, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	if rec := get(s, "/healthz", nil, false); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
	if rec := get(s, "/readyz", nil, false); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d", rec.Code)
	}
}

func TestUnauthenticatedRedirects(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/", nil, false)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("GET / = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q", loc)
	}

	// HTMX partials get a client-side redirect instead.
	rec = get(s, "/ui/tips", nil, true)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("GET /ui/tips = %d, want 401", rec.Code)
	}
	if rec.Header().Get("HX-Redirect") != "/login" {
		t.Error("missing HX-Redirect header")
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
	}{
		{
			name:       "invalid email",
			form:       url.Values{"name": {"x"}, "email": {"not-an-email"}, "password": {"Senha123"}},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "weak password",
			form:       url.Values{"name": {"x"}, "email": {"a@b.com"}, "password": {"fraca"}},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(s, "/register", tt.form, nil)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), `class="error"`) {
				t.Errorf("body = %s, want error div", rec.Body.String())
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	signUp(t, s, "dup@teste.com")

	form := url.Values{"name": {"x"}, "email": {"dup@teste.com"}, "password": {"Senha123"}}
	rec := postForm(s, "/register", form, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer(t)
	signUp(t, s, "user@teste.com")

	form := url.Values{"email": {"user@teste.com"}, "password": {"Errada123"}}
	rec := postForm(s, "/login", form, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCreateAndListTransaction(t *testing.T) {
	s := newTestServer(t)
	cookie := signUp(t, s, "user@teste.com")

	form := url.Values{
		"month":    {"Janeiro"},
		"year":     {"2026"},
		"category": {"Mercado"},
		"type":     {"Despesa"},
		"value":    {"150,50"},
	}
	rec := postForm(s, "/transactions", form, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("create = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("HX-Trigger") != "transactions:changed" {
		t.Error("missing HX-Trigger")
	}

	rec = get(s, "/ui/transactions?year=2026", cookie, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Mercado") || !strings.Contains(body, "150.50") {
		t.Errorf("list partial missing transaction: %s", body)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t)
	cookie := signUp(t, s, "user@teste.com")

	form := url.Values{
		"month":    {"Janeiro"},
		"year":     {"2026"},
		"category": {"Mercado"},
		"type":     {"Despesa"},
		"value":    {"abc"},
	}
	if rec := postForm(s, "/transactions", form, cookie); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad value status = %d", rec.Code)
	}

	form.Set("value", "10,00")
	form.Set("month", "January")
	if rec := postForm(s, "/transactions", form, cookie); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad month status = %d", rec.Code)
	}
}

func TestRecurringTransaction(t *testing.T) {
	s := newTestServer(t)
	cookie := signUp(t, s, "user@teste.com")

	form := url.Values{
		"month":    {"Novembro"},
		"year":     {"2025"},
		"category": {"Aluguel"},
		"type":     {"Despesa"},
		"value":    {"1200"},
		"repeat":   {"3"},
	}
	rec := postForm(s, "/transactions", form, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("create = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Third occurrence rolls into Janeiro 2026.
	rec = get(s, "/ui/transactions?year=2026", cookie, true)
	if !strings.Contains(rec.Body.String(), "Janeiro") {
		t.Errorf("2026 listing missing rolled entry: %s", rec.Body.String())
	}
}

func TestUpdateTransaction(t *testing.T) {
	s := newTestServer(t)
	cookie := signUp(t, s, "user@teste.com")

	form := url.Values{
		"month":    {"Janeiro"},
		"year":     {"2026"},
		"category": {"Mercado"},
		"type":     {"Despesa"},
		"value":    {"100"},
	}
	if rec := postForm(s, "/transactions", form, cookie); rec.Code != http.StatusOK {
		t.Fatalf("create = %d", rec.Code)
	}

	body := get(s, "/ui/transactions?year=2026", cookie, true).Body.String()
	idx := strings.Index(body, `name="id" value="`)
	if idx < 0 {
		t.Fatalf("no id field in listing: %s", body)
	}
	rest := body[idx+len(`name="id" value="`):]
	id := rest[:strings.Index(rest, `"`)]

	rec := postForm(s, "/transactions/update", url.Values{
		"id":       {id},
		"category": {"Feira"},
		"value":    {"80,00"},
	}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d, body = %s", rec.Code, rec.Body.String())
	}

	body = get(s, "/ui/transactions?year=2026", cookie, true).Body.String()
	if !strings.Contains(body, "Feira") || !strings.Contains(body, "80.00") {
		t.Errorf("listing missing updated fields: %s", body)
	}

	rec = postForm(s, "/transactions/update", url.Values{
		"id":    {"mem:999"},
		"value": {"10"},
	}, cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update missing id = %d, want 404", rec.Code)
	}
}

func TestDeleteMissIsOK(t *testing.T) {
	s := newTestServer(t)
	cookie := signUp(t, s, "user@teste.com")

	rec := postForm(s, "/transactions/delete", url.Values{"id": {"mem:999"}}, cookie)
	if rec.Code != http.StatusOK {
		t.Errorf("delete miss = %d, want 200", rec.Code)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	s := newTestServer(t)
	alice := signUp(t, s, "alice@teste.com")
	bob := signUp(t, s, "bob@teste.com")

	form := url.Values{
		"month":    {"Janeiro"},
		"year":     {"2026"},
		"category": {"Salário"},
		"type":     {"Receita"},
		"value":    {"5000"},
	}
	if rec := postForm(s, "/transactions", form, alice); rec.Code != http.StatusOK {
		t.Fatalf("create = %d", rec.Code)
	}

	rec := get(s, "/ui/transactions?year=2026", bob, true)
	if strings.Contains(rec.Body.String(), "Salário") {
		t.Error("bob can see alice's transactions")
	}
}

func TestSetPaidRoundTrip(t *testing.T) {
	s := newTestServer(t)
	cookie := signUp(t, s, "user@teste.com")

	form := url.Values{
		"month":    {"Janeiro"},
		"year":     {"2026"},
		"category": {"Luz"},
		"type":     {"Despesa"},
		"value":    {"200"},
	}
	if rec := postForm(s, "/transactions", form, cookie); rec.Code != http.StatusOK {
		t.Fatalf("create = %d", rec.Code)
	}

	// Grab the id from the listing.
	body := get(s, "/ui/transactions?year=2026", cookie, true).Body.String()
	idx := strings.Index(body, `name="id" value="`)
	if idx < 0 {
		t.Fatalf("no id field in listing: %s", body)
	}
	rest := body[idx+len(`name="id" value="`):]
	id := rest[:strings.Index(rest, `"`)]

	rec := postForm(s, "/transactions/paid", url.Values{"id": {id}, "paid": {"true"}}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("paid = %d, body = %s", rec.Code, rec.Body.String())
	}

	if !strings.Contains(get(s, "/ui/transactions?year=2026", cookie, true).Body.String(), "✓") {
		t.Error("listing does not show paid state")
	}

	rec = postForm(s, "/transactions/paid", url.Values{"id": {"mem:999"}, "paid": {"true"}}, cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("paid on missing id = %d, want 404", rec.Code)
	}
}

func TestAnnualSummaryPartial(t *testing.T) {
	s := newTestServer(t)
	cookie := signUp(t, s, "user@teste.com")

	form := url.Values{
		"month":    {"Março"},
		"year":     {"2026"},
		"category": {"Salário"},
		"type":     {"Receita"},
		"value":    {"8000"},
	}
	if rec := postForm(s, "/transactions", form, cookie); rec.Code != http.StatusOK {
		t.Fatalf("create = %d", rec.Code)
	}

	rec := get(s, "/ui/annual-summary?year=2026", cookie, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary = %d", rec.Code)
	}
	body := rec.Body.String()
	// All twelve months render even with a single active month.
	for _, m := range []string{"Janeiro", "Junho", "Dezembro"} {
		if !strings.Contains(body, m) {
			t.Errorf("summary missing %s", m)
		}
	}
	if !strings.Contains(body, "8000.00") {
		t.Errorf("summary missing revenue: %s", body)
	}
}

func TestTipsPartial(t *testing.T) {
	s := newTestServer(t)
	cookie := signUp(t, s, "user@teste.com")

	rec := get(s, "/ui/tips", cookie, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("tips = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<li>") {
		t.Errorf("tips partial empty: %s", rec.Body.String())
	}
}

func TestCacheInvalidationOnMutation(t *testing.T) {
	s := newTestServer(t)
	cookie := signUp(t, s, "user@teste.com")

	// Prime the summary cache with an empty year.
	if rec := get(s, "/ui/annual-summary?year=2026", cookie, true); rec.Code != http.StatusOK {
		t.Fatalf("summary = %d", rec.Code)
	}

	form := url.Values{
		"month":    {"Janeiro"},
		"year":     {"2026"},
		"category": {"Salário"},
		"type":     {"Receita"},
		"value":    {"8000"},
	}
	if rec := postForm(s, "/transactions", form, cookie); rec.Code != http.StatusOK {
		t.Fatalf("create = %d", rec.Code)
	}

	body := get(s, "/ui/annual-summary?year=2026", cookie, true).Body.String()
	if !strings.Contains(body, "8000.00") {
		t.Error("summary still served from stale cache after mutation")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	s := newTestServer(t)
	cookie := signUp(t, s, "user@teste.com")

	rec := postForm(s, "/logout", url.Values{}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("logout = %d, want 303", rec.Code)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie not cleared")
	}
}
