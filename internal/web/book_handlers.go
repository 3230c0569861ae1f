package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"tethysbook/internal/book"
	"tethysbook/internal/engine"
)

type BookMoveView struct {
	UCI     string  `json:"uci"`
	SAN     string  `json:"san,omitempty"`
	Weight  int     `json:"weight"`
	Percent float64 `json:"percent"`
	NextFEN string  `json:"next_fen,omitempty"`
}

type BookView struct {
	FEN    string         `json:"fen"`
	Key    string         `json:"key"`
	Moves  []BookMoveView `json:"moves"`
	Line   []string       `json:"line,omitempty"`
	Board  [][]SquareView `json:"board"`
	Arrows []ArrowView    `json:"arrows,omitempty"`
	Pick   string         `json:"pick,omitempty"`
}

func (h *Handler) handleBookExplorer(w http.ResponseWriter, r *http.Request) {
	fen := strings.TrimSpace(r.URL.Query().Get("fen"))
	pos := chess.StartingPosition()
	if fen != "" {
		opt, err := chess.FEN(fen)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid FEN")
			return
		}
		pos = chess.NewGame(opt).Position()
	}

	moves, err := h.player.Moves(pos)
	if err != nil {
		if errors.Is(err, engine.ErrNoBook) {
			writeError(w, http.StatusServiceUnavailable, "no opening book configured")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	total := 0
	for _, mv := range moves {
		total += mv.Weight
	}
	view := BookView{
		FEN:    pos.String(),
		Key:    fmt.Sprintf("%016x", book.Key(pos)),
		Moves:  moveViews(pos, moves, total),
		Board:  boardFromPosition(pos),
		Arrows: arrowsFromMoves(moves, total),
	}
	if line, _ := strconv.ParseBool(r.URL.Query().Get("line")); line {
		view.Line, _ = h.player.BookLine(pos)
	}
	if pick, _ := strconv.ParseBool(r.URL.Query().Get("pick")); pick {
		if mv, ok := h.player.BookMove(r.Context(), pos); ok {
			view.Pick = chess.UCINotation{}.Encode(pos, mv)
		}
	}
	writeJSON(w, http.StatusOK, view)
}

func moveViews(pos *chess.Position, moves []book.MoveWeight, total int) []BookMoveView {
	out := make([]BookMoveView, 0, len(moves))
	for _, mv := range moves {
		view := BookMoveView{UCI: mv.UCI, Weight: mv.Weight}
		if total > 0 {
			view.Percent = float64(mv.Weight) * 100 / float64(total)
		}
		decoded, err := chess.UCINotation{}.Decode(pos, mv.UCI)
		if err == nil {
			view.SAN = chess.AlgebraicNotation{}.Encode(pos, decoded)
			view.NextFEN = pos.Update(decoded).String()
		}
		out = append(out, view)
	}
	return out
}
