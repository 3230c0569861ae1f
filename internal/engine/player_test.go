package engine

import (
	"bytes"
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tethysbook/internal/book"
	"tethysbook/internal/db"
	"tethysbook/internal/options"
)

type memStore struct {
	mu     sync.Mutex
	saved  map[string]string
	probes []db.Probe
}

func (s *memStore) SaveOption(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		s.saved = make(map[string]string)
	}
	s.saved[name] = value
	return nil
}

func (s *memStore) RecordProbe(_ context.Context, p db.Probe) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes = append(s.probes, p)
	return int64(len(s.probes)), nil
}

// writeLine writes a book holding one move per ply of line from the start position.
func writeLine(t *testing.T, line ...string) string {
	t.Helper()
	var recs []book.Record
	pos := chess.StartingPosition()
	for _, s := range line {
		mv, err := chess.UCINotation{}.Decode(pos, s)
		require.NoError(t, err)
		recs = append(recs, book.Record{Key: book.Key(pos), Move: book.EncodeBookMove(mv), Weight: 1})
		pos = pos.Update(mv)
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Key < recs[j].Key })

	var buf bytes.Buffer
	require.NoError(t, book.WriteRecords(&buf, recs))
	path := filepath.Join(t.TempDir(), "book.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func newTestPlayer(t *testing.T, path string) (*Player, *memStore) {
	t.Helper()
	reg := options.Defaults()
	require.NoError(t, reg.Set(options.BookFile, path))
	store := &memStore{}
	p := NewPlayer(reg, store, zerolog.Nop(), book.WithRand(rand.New(rand.NewPCG(1, 1))))
	t.Cleanup(func() { _ = p.Close() })
	return p, store
}

func TestBookMoveNeedsOwnBook(t *testing.T) {
	p, store := newTestPlayer(t, writeLine(t, "e2e4"))
	ctx := context.Background()

	_, ok := p.BookMove(ctx, chess.StartingPosition())
	assert.False(t, ok)

	require.NoError(t, p.Options().Set(options.OwnBook, "true"))
	mv, ok := p.BookMove(ctx, chess.StartingPosition())
	require.True(t, ok)
	assert.Equal(t, "e2e4", mv.String())

	require.Len(t, store.probes, 1)
	assert.Equal(t, "e2e4", store.probes[0].MoveUCI)
	assert.Equal(t, book.Key(chess.StartingPosition()), store.probes[0].Key)
	assert.Equal(t, "true", store.saved[options.OwnBook])
}

func TestBookFileChangeReopens(t *testing.T) {
	p, store := newTestPlayer(t, writeLine(t, "e2e4"))
	ctx := context.Background()
	require.NoError(t, p.Options().Set(options.OwnBook, "true"))

	mv, ok := p.BookMove(ctx, chess.StartingPosition())
	require.True(t, ok)
	assert.Equal(t, "e2e4", mv.String())

	other := writeLine(t, "c2c4")
	require.NoError(t, p.Options().Set(options.BookFile, other))
	assert.Equal(t, other, store.saved[options.BookFile])

	mv, ok = p.BookMove(ctx, chess.StartingPosition())
	require.True(t, ok)
	assert.Equal(t, "c2c4", mv.String())

	require.NoError(t, p.Options().Set(options.BookFile, filepath.Join(t.TempDir(), "missing.bin")))
	_, ok = p.BookMove(ctx, chess.StartingPosition())
	assert.False(t, ok)
}

func TestBookLineAndMoves(t *testing.T) {
	p, _ := newTestPlayer(t, writeLine(t, "e2e4", "e7e5", "g1f3", "b8c6"))

	line, err := p.BookLine(chess.StartingPosition())
	require.NoError(t, err)
	assert.Equal(t, []string{"e2e4", "e7e5", "g1f3", "b8c6"}, line)

	require.NoError(t, p.Options().Set(options.BookMaxPlies, "2"))
	line, err = p.BookLine(chess.StartingPosition())
	require.NoError(t, err)
	assert.Equal(t, []string{"e2e4", "e7e5"}, line)

	moves, err := p.Moves(chess.StartingPosition())
	require.NoError(t, err)
	assert.Equal(t, []book.MoveWeight{{UCI: "e2e4", Weight: 1}}, moves)
}

func TestMovesWithoutBook(t *testing.T) {
	p, _ := newTestPlayer(t, filepath.Join(t.TempDir(), "missing.bin"))
	_, err := p.Moves(chess.StartingPosition())
	assert.ErrorIs(t, err, ErrNoBook)
	_, err = p.BookLine(chess.StartingPosition())
	assert.ErrorIs(t, err, ErrNoBook)
}

func TestBookMoveConcurrent(t *testing.T) {
	p, _ := newTestPlayer(t, writeLine(t, "d2d4"))
	require.NoError(t, p.Options().Set(options.OwnBook, "true"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				mv, ok := p.BookMove(context.Background(), chess.StartingPosition())
				if assert.True(t, ok) {
					assert.Equal(t, "d2d4", mv.String())
				}
			}
		}()
	}
	wg.Wait()
}
