package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"tethysbook/internal/db"
	"tethysbook/internal/engine"
)

// ProbeLister lists served book moves.
type ProbeLister interface {
	RecentProbes(ctx context.Context, limit int) ([]db.ProbeRow, error)
}

type Handler struct {
	player *engine.Player
	probes ProbeLister
	log    zerolog.Logger
}

// NewHandler builds the HTTP handler. probes may be nil.
func NewHandler(player *engine.Player, probes ProbeLister, log zerolog.Logger) *Handler {
	return &Handler{player: player, probes: probes, log: log}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /api/book", h.handleBookExplorer)
	mux.HandleFunc("GET /api/book/tree", h.handleOpeningTree)
	mux.HandleFunc("GET /api/options", h.handleOptions)
	mux.HandleFunc("POST /api/options", h.handleOptionSet)
	mux.HandleFunc("GET /api/probes", h.handleProbes)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
