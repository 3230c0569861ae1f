package book

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/notnil/chess"
)

// RecordSize is the size of one on-disk book entry.
const RecordSize = 16

// Record is one book entry. On disk it is stored big-endian as
// key(8) move(2) weight(2) learn(4), sorted ascending by key.
type Record struct {
	Key    uint64
	Move   PackedMove
	Weight uint16
	Learn  uint32
}

func decodeRecord(buf []byte) Record {
	return Record{
		Key:    binary.BigEndian.Uint64(buf[0:8]),
		Move:   PackedMove(binary.BigEndian.Uint16(buf[8:10])),
		Weight: binary.BigEndian.Uint16(buf[10:12]),
		Learn:  binary.BigEndian.Uint32(buf[12:16]),
	}
}

// AppendBinary appends the on-disk form of r to buf.
func (r Record) AppendBinary(buf []byte) []byte {
	buf = binary.BigEndian.AppendUint64(buf, r.Key)
	buf = binary.BigEndian.AppendUint16(buf, uint16(r.Move))
	buf = binary.BigEndian.AppendUint16(buf, r.Weight)
	return binary.BigEndian.AppendUint32(buf, r.Learn)
}

// WriteRecords writes recs in the order given. Sorting is the caller's job.
func WriteRecords(w io.Writer, recs []Record) error {
	buf := make([]byte, 0, RecordSize*len(recs))
	for _, r := range recs {
		buf = r.AppendBinary(buf)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// PackedMove is the 16-bit book move: to in bits 0-5, from in bits 6-11,
// promotion in bits 12-14. Castling is stored as king takes own rook.
type PackedMove uint16

func (m PackedMove) To() chess.Square {
	return chess.Square(m & 0x3f)
}

func (m PackedMove) From() chess.Square {
	return chess.Square((m >> 6) & 0x3f)
}

// Promo returns chess.NoPieceType when the move is not a promotion.
func (m PackedMove) Promo() chess.PieceType {
	switch (m >> 12) & 0x7 {
	case 1:
		return chess.Knight
	case 2:
		return chess.Bishop
	case 3:
		return chess.Rook
	case 4:
		return chess.Queen
	default:
		return chess.NoPieceType
	}
}

func (m PackedMove) String() string {
	s := m.From().String() + m.To().String()
	if p := m.Promo(); p != chess.NoPieceType {
		s += p.String()
	}
	return s
}

// EncodeMove packs m as-is. Castling moves keep the king's destination.
func EncodeMove(m *chess.Move) PackedMove {
	var promo uint16
	switch m.Promo() {
	case chess.Knight:
		promo = 1
	case chess.Bishop:
		promo = 2
	case chess.Rook:
		promo = 3
	case chess.Queen:
		promo = 4
	}
	return PackedMove(promo<<12 | uint16(m.S1())<<6 | uint16(m.S2()))
}

// EncodeBookMove packs m the way book files store it: castling moves
// become the king moving onto its own rook.
func EncodeBookMove(m *chess.Move) PackedMove {
	pm := EncodeMove(m)
	if !m.HasTag(chess.KingSideCastle) && !m.HasTag(chess.QueenSideCastle) {
		return pm
	}
	rookFile := 7
	if m.HasTag(chess.QueenSideCastle) {
		rookFile = 0
	}
	rook := square(rookFile, int(m.S1().Rank()))
	return pm&^0x3f | PackedMove(rook)
}
