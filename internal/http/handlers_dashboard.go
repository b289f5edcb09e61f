package http

import (
	"log/slog"
	"net/http"
	"time"

	"financas/internal/core"
)

// handleIndex renders the dashboard shell; the panels load themselves
// through the /ui partial endpoints.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	name := ""
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if user, err := s.sessions.CurrentUser(r.Context(), cookie.Value); err == nil {
			name = user.Name
		}
	}

	now := time.Now()
	data := struct {
		Name         string
		Months       [12]core.Month
		Types        []core.TransactionType
		CurrentMonth core.Month
		CurrentYear  int
	}{
		Name:         name,
		Months:       core.Months,
		Types:        []core.TransactionType{core.Receita, core.Despesa, core.Investimento},
		CurrentMonth: core.Months[int(now.Month())-1],
		CurrentYear:  now.Year(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleTransactionsPartial renders the transaction table for a year.
func (s *Server) handleTransactionsPartial(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	year := parseYear(r)

	txs, err := s.ledger.List(r.Context(), owner, year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err, "year", year)
		writeErrorDiv(w, http.StatusInternalServerError, "Erro ao carregar transações")
		return
	}

	data := struct{ Transactions []core.Transaction }{Transactions: txs}
	if err := s.templates.ExecuteTemplate(w, "transactions.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Transactions template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleSummaryPartial renders the twelve-month totals table.
func (s *Server) handleSummaryPartial(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	year := parseYear(r)
	if year == 0 {
		year = time.Now().Year()
	}

	key := s.summaryKey(owner, year)
	summary, ok := s.summaryCache.Get(key)
	if !ok {
		var err error
		summary, err = s.advisor.AnnualSummary(r.Context(), owner, year)
		if err != nil {
			slog.ErrorContext(r.Context(), "Annual summary error", "error", err, "year", year)
			writeErrorDiv(w, http.StatusInternalServerError, "Erro ao carregar resumo")
			return
		}
		s.summaryCache.Set(key, summary)
	}

	if err := s.templates.ExecuteTemplate(w, "summary.html", summary); err != nil {
		slog.ErrorContext(r.Context(), "Summary template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
