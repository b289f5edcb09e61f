package http

import (
	"errors"
	"log/slog"
	"net/http"

	"financas/internal/auth"
	"financas/internal/store"
)

// handleLogin serves the login page on GET and authenticates on POST.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderLoginPage(w, r, "")
	case http.MethodPost:
		s.handleLoginSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderLoginPage(w http.ResponseWriter, r *http.Request, errMsg string) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct{ Error string }{Error: errMsg}
	if err := s.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Login template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeErrorDiv(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")
	remember := r.Form.Get("remember") == "true"

	token, err := s.sessions.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeErrorDiv(w, http.StatusUnauthorized, "Email ou senha incorretos")
			return
		}
		slog.ErrorContext(r.Context(), "Login error", "error", err)
		writeErrorDiv(w, http.StatusInternalServerError, "Erro ao entrar. Tente novamente.")
		return
	}

	setSessionCookie(w, token, s.sessions.TokenTTL(), remember)
	w.Header().Set("HX-Redirect", "/")
	w.WriteHeader(http.StatusOK)
}

// handleRegister creates an account and signs the new user in.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorDiv(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")

	if _, err := s.sessions.Register(r.Context(), email, password, name); err != nil {
		var weak *auth.WeakPasswordError
		switch {
		case errors.Is(err, auth.ErrInvalidEmail):
			writeErrorDiv(w, http.StatusUnprocessableEntity, "Email inválido")
		case errors.As(err, &weak):
			writeErrorDiv(w, http.StatusUnprocessableEntity, weak.Reason)
		case errors.Is(err, store.ErrEmailTaken):
			writeErrorDiv(w, http.StatusConflict, "Este email já está cadastrado")
		default:
			slog.ErrorContext(r.Context(), "Register error", "error", err)
			writeErrorDiv(w, http.StatusInternalServerError, "Erro ao criar conta. Tente novamente.")
		}
		return
	}

	token, err := s.sessions.Login(r.Context(), email, password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Post-register login error", "error", err)
		writeErrorDiv(w, http.StatusInternalServerError, "Conta criada, faça login para continuar")
		return
	}

	setSessionCookie(w, token, s.sessions.TokenTTL(), false)
	w.Header().Set("HX-Redirect", "/")
	w.WriteHeader(http.StatusOK)
}

// handleLogout drops the session cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
