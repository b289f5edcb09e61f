package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
	"financas/internal/store"
)

// validationError reports whether err is one of the domain validation
// sentinels that should surface as a 422 with its message.
func validationError(err error) bool {
	return errors.Is(err, core.ErrInvalidMonth) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidYear) ||
		errors.Is(err, core.ErrNegativeValue) ||
		errors.Is(err, core.ErrInvalidValue) ||
		errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrUnpaidWithDate)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorDiv(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	owner := ownerID(r)

	value, err := core.ParseValue(r.Form.Get("value"))
	if err != nil {
		writeErrorDiv(w, http.StatusUnprocessableEntity, "Valor inválido")
		return
	}

	year := time.Now().Year()
	if v := strings.TrimSpace(r.Form.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}

	repeat := 1
	if v := strings.TrimSpace(r.Form.Get("repeat")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			repeat = n
		}
	}
	if repeat > 60 {
		writeErrorDiv(w, http.StatusUnprocessableEntity, "Repetição máxima de 60 meses")
		return
	}

	tx := core.Transaction{
		Month:       core.Month(sanitizeInput(r.Form.Get("month"))),
		Year:        year,
		Category:    sanitizeInput(r.Form.Get("category")),
		Type:        core.TransactionType(sanitizeInput(r.Form.Get("type"))),
		Value:       value,
		Observation: sanitizeInput(r.Form.Get("observation")),
	}

	created, err := s.ledger.AddRecurring(r.Context(), owner, tx, repeat)
	if err != nil {
		if validationError(err) {
			writeErrorDiv(w, http.StatusUnprocessableEntity, "Dados inválidos: "+err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Transaction create error", "error", err, "category", tx.Category)
		writeErrorDiv(w, http.StatusInternalServerError, "Erro ao salvar transação")
		return
	}

	s.invalidateOwner(owner)
	w.Header().Set("HX-Trigger", "transactions:changed")
	if len(created) == 1 {
		writeSuccessDiv(w, fmt.Sprintf("Transação registrada: %s (%s %d)", tx.Category, tx.Month, tx.Year))
		return
	}
	writeSuccessDiv(w, fmt.Sprintf("Transação registrada em %d meses a partir de %s %d", len(created), tx.Month, tx.Year))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorDiv(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	owner := ownerID(r)
	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeErrorDiv(w, http.StatusUnprocessableEntity, "Transação não informada")
		return
	}

	// Only fields present in the form are touched.
	var upd core.TransactionUpdate
	if _, ok := r.Form["month"]; ok {
		m := core.Month(sanitizeInput(r.Form.Get("month")))
		upd.Month = &m
	}
	if _, ok := r.Form["year"]; ok {
		y, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("year")))
		if err != nil {
			writeErrorDiv(w, http.StatusUnprocessableEntity, "Ano inválido")
			return
		}
		upd.Year = &y
	}
	if _, ok := r.Form["category"]; ok {
		c := sanitizeInput(r.Form.Get("category"))
		upd.Category = &c
	}
	if _, ok := r.Form["type"]; ok {
		t := core.TransactionType(sanitizeInput(r.Form.Get("type")))
		upd.Type = &t
	}
	if _, ok := r.Form["value"]; ok {
		v, err := core.ParseValue(r.Form.Get("value"))
		if err != nil {
			writeErrorDiv(w, http.StatusUnprocessableEntity, "Valor inválido")
			return
		}
		upd.Value = &v
	}
	if _, ok := r.Form["observation"]; ok {
		o := sanitizeInput(r.Form.Get("observation"))
		upd.Observation = &o
	}

	if err := s.ledger.Update(r.Context(), owner, id, upd); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeErrorDiv(w, http.StatusNotFound, "Transação não encontrada")
		case validationError(err):
			writeErrorDiv(w, http.StatusUnprocessableEntity, "Dados inválidos: "+err.Error())
		default:
			slog.ErrorContext(r.Context(), "Transaction update error", "error", err, "id", id)
			writeErrorDiv(w, http.StatusInternalServerError, "Erro ao atualizar transação")
		}
		return
	}

	s.invalidateOwner(owner)
	w.Header().Set("HX-Trigger", "transactions:changed")
	writeSuccessDiv(w, "Transação atualizada")
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorDiv(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	owner := ownerID(r)
	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeErrorDiv(w, http.StatusUnprocessableEntity, "Transação não informada")
		return
	}

	// A miss is not an error; the record is gone either way.
	removed, err := s.ledger.Delete(r.Context(), owner, id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "id", id)
		writeErrorDiv(w, http.StatusInternalServerError, "Erro ao excluir transação")
		return
	}

	if removed {
		s.invalidateOwner(owner)
	}
	w.Header().Set("HX-Trigger", "transactions:changed")
	writeSuccessDiv(w, "Transação excluída")
}

func (s *Server) handleSetPaid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorDiv(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	owner := ownerID(r)
	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeErrorDiv(w, http.StatusUnprocessableEntity, "Transação não informada")
		return
	}
	paid := r.Form.Get("paid") == "true"

	if err := s.ledger.SetPaid(r.Context(), owner, id, paid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErrorDiv(w, http.StatusNotFound, "Transação não encontrada")
			return
		}
		slog.ErrorContext(r.Context(), "Transaction paid toggle error", "error", err, "id", id)
		writeErrorDiv(w, http.StatusInternalServerError, "Erro ao atualizar pagamento")
		return
	}

	s.invalidateOwner(owner)
	w.Header().Set("HX-Trigger", "transactions:changed")
	if paid {
		writeSuccessDiv(w, "Transação marcada como paga")
		return
	}
	writeSuccessDiv(w, "Transação marcada como não paga")
}
