package book

import (
	"bytes"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackedMoveFields(t *testing.T) {
	// e2e4: to=28, from=12
	e2e4 := PackedMove(4 | 3<<3 | 4<<6 | 1<<9)
	assert.Equal(t, chess.E2, e2e4.From())
	assert.Equal(t, chess.E4, e2e4.To())
	assert.Equal(t, chess.NoPieceType, e2e4.Promo())
	assert.Equal(t, "e2e4", e2e4.String())

	d7d5 := PackedMove(3 | 4<<3 | 3<<6 | 6<<9)
	assert.Equal(t, chess.D7, d7d5.From())
	assert.Equal(t, chess.D5, d7d5.To())

	promo := PackedMove(uint16(chess.B8) | uint16(chess.A7)<<6 | 4<<12)
	assert.Equal(t, chess.Queen, promo.Promo())
	assert.Equal(t, "a7b8q", promo.String())
}

func TestRecordLayout(t *testing.T) {
	r := Record{Key: 0x0102030405060708, Move: 0x0a0b, Weight: 0x0c0d, Learn: 0x0e0f1011}
	buf := r.AppendBinary(nil)
	require.Len(t, buf, RecordSize)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11}, buf)
	assert.Equal(t, r, decodeRecord(buf))

	var w bytes.Buffer
	require.NoError(t, WriteRecords(&w, []Record{r, r}))
	assert.Equal(t, 2*RecordSize, w.Len())
}

func TestDecodeRoundTrip(t *testing.T) {
	fens := []string{
		startFEN,
		castleFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
	}
	for _, fen := range fens {
		pos := position(t, fen)
		for _, mv := range pos.ValidMoves() {
			pm := EncodeBookMove(mv)
			got, ok := decodeMove(pos, pm)
			require.True(t, ok, "%s: %s", fen, mv)
			assert.Equal(t, mv.String(), got.String(), fen)

			castle := mv.HasTag(chess.KingSideCastle) || mv.HasTag(chess.QueenSideCastle)
			if !castle {
				assert.Equal(t, pm, EncodeMove(got), "%s: %s", fen, mv)
			}
		}
	}
}

func TestEncodeBookMoveCastling(t *testing.T) {
	pos := position(t, castleFEN)
	tests := map[string]string{"e1g1": "e1h1", "e1c1": "e1a1"}
	for native, stored := range tests {
		mv := uciMove(t, pos, native)
		assert.Equal(t, stored, EncodeBookMove(mv).String())
		assert.Equal(t, native, EncodeMove(mv).String())
	}
}
