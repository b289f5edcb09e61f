package http

import (
	"log/slog"
	"net/http"
)

// handleTipsPartial renders the advice list. Tips cover all years, so
// the cache key carries the owner only.
func (s *Server) handleTipsPartial(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)

	key := s.tipsKey(owner)
	tips, ok := s.tipsCache.Get(key)
	if !ok {
		var err error
		tips, err = s.advisor.Tips(r.Context(), owner)
		if err != nil {
			slog.ErrorContext(r.Context(), "Tips error", "error", err)
			writeErrorDiv(w, http.StatusInternalServerError, "Erro ao carregar dicas")
			return
		}
		s.tipsCache.Set(key, tips)
	}

	data := struct{ Tips []string }{Tips: tips}
	if err := s.templates.ExecuteTemplate(w, "tips.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Tips template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
