package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tethysbook/internal/options"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tethys.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOptionsPersist(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SaveOption(ctx, options.BookFile, "/books/main.bin"))
	require.NoError(t, s.SaveOption(ctx, options.OwnBook, "true"))
	require.NoError(t, s.SaveOption(ctx, options.OwnBook, "false"))
	require.NoError(t, s.SaveOption(ctx, options.BookMaxPlies, "9999"))
	require.NoError(t, s.SaveOption(ctx, "Hash", "64"))

	reg := options.Defaults()
	require.NoError(t, s.LoadOptions(ctx, reg, zerolog.Nop()))
	assert.Equal(t, "/books/main.bin", reg.String(options.BookFile))
	assert.False(t, reg.Bool(options.OwnBook))
	assert.Equal(t, 16, reg.Int(options.BookMaxPlies))

	stored, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "64", stored["Hash"])
}

func TestRecentProbes(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, mv := range []string{"e2e4", "d2d4", "c2c4"} {
		_, err := s.RecordProbe(ctx, Probe{FEN: "startpos", Key: 0x463b96181691fc9c, BookPath: "book.bin", MoveUCI: mv, PickBest: mv == "d2d4"})
		require.NoError(t, err)
	}

	rows, err := s.RecentProbes(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "c2c4", rows[0].MoveUCI)
	assert.Equal(t, "d2d4", rows[1].MoveUCI)
	assert.True(t, rows[1].PickBest)
	assert.Equal(t, "463b96181691fc9c", rows[0].Key)
}
