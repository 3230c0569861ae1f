package book

import "github.com/notnil/chess"

const (
	castleOffset    = 768
	enPassantOffset = 772
	turnOffset      = 780
)

// Key returns the polyglot key of pos. It is unrelated to pos.Hash().
func Key(pos *chess.Position) uint64 {
	return pieceKey(pos.Board()) ^ castleKey(pos.CastleRights()) ^ enPassantKey(pos) ^ turnKey(pos.Turn())
}

func pieceKey(board *chess.Board) uint64 {
	var key uint64
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := board.Piece(sq)
		if p == chess.NoPiece {
			continue
		}
		kind := 2 * pieceIndex(p.Type())
		if p.Color() == chess.White {
			kind++
		}
		key ^= random64[64*kind+8*int(sq.Rank())+int(sq.File())]
	}
	return key
}

func pieceIndex(pt chess.PieceType) int {
	switch pt {
	case chess.Pawn:
		return 0
	case chess.Knight:
		return 1
	case chess.Bishop:
		return 2
	case chess.Rook:
		return 3
	case chess.Queen:
		return 4
	default:
		return 5
	}
}

func castleKey(cr chess.CastleRights) uint64 {
	var key uint64
	if cr.CanCastle(chess.White, chess.KingSide) {
		key ^= random64[castleOffset]
	}
	if cr.CanCastle(chess.White, chess.QueenSide) {
		key ^= random64[castleOffset+1]
	}
	if cr.CanCastle(chess.Black, chess.KingSide) {
		key ^= random64[castleOffset+2]
	}
	if cr.CanCastle(chess.Black, chess.QueenSide) {
		key ^= random64[castleOffset+3]
	}
	return key
}

// enPassantKey only counts the en passant file when a pawn of the side to
// move can actually capture onto it.
func enPassantKey(pos *chess.Position) uint64 {
	ep := pos.EnPassantSquare()
	if ep == chess.NoSquare {
		return 0
	}
	turn := pos.Turn()
	rank := int(ep.Rank()) - 1
	if turn == chess.Black {
		rank = int(ep.Rank()) + 1
	}
	if rank < 0 || rank > 7 {
		return 0
	}
	file := int(ep.File())
	board := pos.Board()
	for _, f := range [2]int{file - 1, file + 1} {
		if f < 0 || f > 7 {
			continue
		}
		p := board.Piece(square(f, rank))
		if p.Type() == chess.Pawn && p.Color() == turn {
			return random64[enPassantOffset+file]
		}
	}
	return 0
}

func turnKey(c chess.Color) uint64 {
	if c == chess.White {
		return random64[turnOffset]
	}
	return 0
}

func square(file, rank int) chess.Square {
	return chess.NewSquare(chess.File(file), chess.Rank(rank))
}
