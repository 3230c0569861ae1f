package web

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"tethysbook/internal/book"
)

type SquareView struct {
	Square string `json:"square"`
	Piece  string `json:"piece,omitempty"`
	Glyph  string `json:"glyph,omitempty"`
	Light  bool   `json:"light"`
}

type ArrowView struct {
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Opacity float64 `json:"opacity"`
}

func boardFromPosition(pos *chess.Position) [][]SquareView {
	board := make([][]SquareView, 0, 8)
	b := pos.Board()

	for r := chess.Rank8; r >= chess.Rank1; r-- {
		row := make([]SquareView, 0, 8)
		for f := chess.FileA; f <= chess.FileH; f++ {
			sq := chess.NewSquare(f, r)
			p := b.Piece(sq)
			glyph := pieceGlyph(p)
			piece := pieceCode(p)
			square := fmt.Sprintf("%c%d", 'a'+byte(f), int(r)+1)

			// a1 is dark.
			light := (int(f)+int(r))%2 == 1
			row = append(row, SquareView{Square: square, Piece: piece, Glyph: glyph, Light: light})
		}
		board = append(board, row)
	}
	return board
}

func pieceGlyph(p chess.Piece) string {
	if p == chess.NoPiece {
		return ""
	}

	isWhite := p.Color() == chess.White
	switch p.Type() {
	case chess.King:
		if isWhite {
			return "♔"
		}
		return "♚"
	case chess.Queen:
		if isWhite {
			return "♕"
		}
		return "♛"
	case chess.Rook:
		if isWhite {
			return "♖"
		}
		return "♜"
	case chess.Bishop:
		if isWhite {
			return "♗"
		}
		return "♝"
	case chess.Knight:
		if isWhite {
			return "♘"
		}
		return "♞"
	case chess.Pawn:
		if isWhite {
			return "♙"
		}
		return "♟"
	default:
		return ""
	}
}

func pieceCode(p chess.Piece) string {
	if p == chess.NoPiece {
		return ""
	}
	letter := ""
	switch p.Type() {
	case chess.King:
		letter = "k"
	case chess.Queen:
		letter = "q"
	case chess.Rook:
		letter = "r"
	case chess.Bishop:
		letter = "b"
	case chess.Knight:
		letter = "n"
	case chess.Pawn:
		letter = "p"
	default:
		return ""
	}
	if p.Color() == chess.White {
		return strings.ToUpper(letter)
	}
	return letter
}

// arrowsFromMoves places one arrow per book move on a 0..8 grid with rank 8
// at the top, more opaque for heavier moves.
func arrowsFromMoves(moves []book.MoveWeight, total int) []ArrowView {
	if len(moves) == 0 {
		return nil
	}
	out := make([]ArrowView, 0, len(moves))
	for _, mv := range moves {
		if len(mv.UCI) < 4 {
			continue
		}
		x1, y1, ok1 := squareCenter(mv.UCI[0], mv.UCI[1])
		x2, y2, ok2 := squareCenter(mv.UCI[2], mv.UCI[3])
		if !ok1 || !ok2 {
			continue
		}
		opacity := 0.35
		if total > 0 {
			opacity = 0.25 + 0.65*float64(mv.Weight)/float64(total)
		}
		out = append(out, ArrowView{X1: x1, Y1: y1, X2: x2, Y2: y2, Opacity: opacity})
	}
	return out
}

func squareCenter(file, rank byte) (float64, float64, bool) {
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, 0, false
	}
	x := float64(file-'a') + 0.5
	y := 8 - float64(rank-'1') - 0.5
	return x, y, true
}
