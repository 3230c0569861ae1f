package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"tethysbook/internal/engine"
)

func (h *Handler) handleOpeningTree(w http.ResponseWriter, r *http.Request) {
	const maxPlies = 8

	q := r.URL.Query()
	plies, err := strconv.Atoi(q.Get("plies"))
	if err != nil || plies <= 0 {
		plies = 4
	}
	if plies > maxPlies {
		plies = maxPlies
	}
	minWeight, _ := strconv.Atoi(q.Get("min_weight"))

	pos := chess.StartingPosition()
	if fen := strings.TrimSpace(q.Get("fen")); fen != "" {
		opt, err := chess.FEN(fen)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid FEN")
			return
		}
		pos = chess.NewGame(opt).Position()
	}

	tree, err := buildOpeningTree(h.player, pos, plies, minWeight)
	if err != nil {
		if errors.Is(err, engine.ErrNoBook) {
			writeError(w, http.StatusServiceUnavailable, "no opening book configured")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tree)
}
