// Package http serves the web dashboard: HTML pages, HTMX partials and
// the form endpoints that mutate the ledger. All handlers behind the
// login gate receive the owner id through the request context.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"financas/internal/cache"
	"financas/internal/core"
	"financas/internal/store"
	appweb "financas/web"
)

// Ledger is the transaction surface the handlers depend on.
type Ledger interface {
	AddRecurring(ctx context.Context, ownerID string, tx core.Transaction, repeat int) ([]core.Transaction, error)
	List(ctx context.Context, ownerID string, year int) ([]core.Transaction, error)
	Update(ctx context.Context, ownerID, id string, upd core.TransactionUpdate) error
	Delete(ctx context.Context, ownerID, id string) (bool, error)
	SetPaid(ctx context.Context, ownerID, id string, paid bool) error
}

// Advisor produces the summary and tips partial data.
type Advisor interface {
	AnnualSummary(ctx context.Context, ownerID string, year int) (core.AnnualSummary, error)
	Tips(ctx context.Context, ownerID string) ([]string, error)
}

// Sessions is the auth surface: registration, login and token checks.
type Sessions interface {
	Register(ctx context.Context, email, password, name string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(token string) (string, error)
	CurrentUser(ctx context.Context, token string) (store.User, error)
	TokenTTL() time.Duration
}

type Server struct {
	http.Server
	templates   *template.Template
	ledger      Ledger
	advisor     Advisor
	sessions    Sessions
	rateLimiter *rateLimiter

	// Per-owner caches for the read-mostly partials. Keys are prefixed
	// with the owner id so a mutation can invalidate one owner only.
	summaryCache *cache.LRUCache[core.AnnualSummary]
	tipsCache    *cache.LRUCache[[]string]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, ledger Ledger, advisor Advisor, sessions Sessions) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:       ledger,
		advisor:      advisor,
		sessions:     sessions,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[core.AnnualSummary](200, 5*time.Minute),
		tipsCache:    cache.NewLRUCache[[]string](200, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.tipsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/register", s.withSecurityHeaders(s.handleRegister))
	mux.HandleFunc("/logout", s.withSecurityHeaders(s.handleLogout))

	mux.HandleFunc("/", s.withSecurityHeaders(s.requireLogin(s.handleIndex)))
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.requireLogin(s.handleCreateTransaction)))
	mux.HandleFunc("/transactions/update", s.withSecurityHeaders(s.requireLogin(s.handleUpdateTransaction)))
	mux.HandleFunc("/transactions/delete", s.withSecurityHeaders(s.requireLogin(s.handleDeleteTransaction)))
	mux.HandleFunc("/transactions/paid", s.withSecurityHeaders(s.requireLogin(s.handleSetPaid)))

	// UI partials
	mux.HandleFunc("/ui/transactions", s.withSecurityHeaders(s.requireLogin(s.handleTransactionsPartial)))
	mux.HandleFunc("/ui/annual-summary", s.withSecurityHeaders(s.requireLogin(s.handleSummaryPartial)))
	mux.HandleFunc("/ui/tips", s.withSecurityHeaders(s.requireLogin(s.handleTipsPartial)))

	return s
}

// Shutdown stops the HTTP server and the background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) summaryKey(ownerID string, year int) string {
	return ownerID + ":summary:" + strconv.Itoa(year)
}

func (s *Server) tipsKey(ownerID string) string {
	return ownerID + ":tips"
}

// invalidateOwner drops every cached partial for one owner. Called
// after any ledger mutation.
func (s *Server) invalidateOwner(ownerID string) {
	s.summaryCache.DeletePrefix(ownerID + ":")
	s.tipsCache.DeletePrefix(ownerID + ":")
}
