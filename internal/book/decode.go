package book

import "github.com/notnil/chess"

// decodeMove resolves pm against the legal moves of pos. A king moving onto
// a rook of its own colour is read as castling towards that rook.
func decodeMove(pos *chess.Position, pm PackedMove) (*chess.Move, bool) {
	from, to, promo := pm.From(), pm.To(), pm.Promo()

	board := pos.Board()
	king, rook := board.Piece(from), board.Piece(to)
	if king.Type() == chess.King && rook.Type() == chess.Rook && king.Color() == rook.Color() {
		file := 6
		if to.File() < from.File() {
			file = 2
		}
		to = square(file, int(from.Rank()))
	}

	for _, mv := range pos.ValidMoves() {
		if mv.S1() == from && mv.S2() == to && mv.Promo() == promo {
			return mv, true
		}
	}
	return nil, false
}
