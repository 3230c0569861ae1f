package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tethysbook/internal/book"
	"tethysbook/internal/db"
	"tethysbook/internal/engine"
	"tethysbook/internal/options"
)

type stubProbes struct{ rows []db.ProbeRow }

func (s stubProbes) RecentProbes(_ context.Context, limit int) ([]db.ProbeRow, error) {
	if limit > 0 && limit < len(s.rows) {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func startBook(t *testing.T) string {
	t.Helper()
	pos := chess.StartingPosition()
	key := book.Key(pos)
	var recs []book.Record
	for _, m := range []struct {
		uci    string
		weight uint16
	}{{"e2e4", 3}, {"d2d4", 1}} {
		mv, err := chess.UCINotation{}.Decode(pos, m.uci)
		require.NoError(t, err)
		recs = append(recs, book.Record{Key: key, Move: book.EncodeBookMove(mv), Weight: m.weight})
	}
	var buf bytes.Buffer
	require.NoError(t, book.WriteRecords(&buf, recs))
	path := filepath.Join(t.TempDir(), "book.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func newServer(t *testing.T, bookPath string, probes ProbeLister) (*httptest.Server, *engine.Player) {
	t.Helper()
	reg := options.Defaults()
	require.NoError(t, reg.Set(options.BookFile, bookPath))
	p := engine.NewPlayer(reg, nil, zerolog.Nop())
	t.Cleanup(func() { _ = p.Close() })

	mux := http.NewServeMux()
	NewHandler(p, probes, zerolog.Nop()).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, p
}

func TestBookExplorer(t *testing.T) {
	srv, p := newServer(t, startBook(t), nil)
	require.NoError(t, p.Options().Set(options.OwnBook, "true"))

	resp, err := http.Get(srv.URL + "/api/book?line=1&pick=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view BookView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "463b96181691fc9c", view.Key)
	require.Len(t, view.Moves, 2)
	assert.Equal(t, "e2e4", view.Moves[0].UCI)
	assert.Equal(t, "e4", view.Moves[0].SAN)
	assert.InDelta(t, 75.0, view.Moves[0].Percent, 1e-9)
	assert.InDelta(t, 25.0, view.Moves[1].Percent, 1e-9)
	assert.NotEmpty(t, view.Moves[1].NextFEN)
	require.Len(t, view.Line, 1)
	assert.Contains(t, []string{"e2e4", "d2d4"}, view.Pick)
}

func TestBookExplorerErrors(t *testing.T) {
	srv, _ := newServer(t, filepath.Join(t.TempDir(), "missing.bin"), nil)

	resp, err := http.Get(srv.URL + "/api/book")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/book?fen=" + url.QueryEscape("not a fen"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOptionsAPI(t *testing.T) {
	srv, p := newServer(t, "book.bin", nil)

	post := func(name, value string) int {
		resp, err := http.PostForm(srv.URL+"/api/options", url.Values{"name": {name}, "value": {value}})
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusNoContent, post("Best Book Move", "true"))
	assert.Equal(t, http.StatusBadRequest, post("Book Max Plies", "1000"))
	assert.Equal(t, http.StatusNotFound, post("Threads", "4"))
	assert.True(t, p.Options().Bool(options.BestBookMove))

	resp, err := http.Get(srv.URL + "/api/options")
	require.NoError(t, err)
	defer resp.Body.Close()
	var opts []OptionView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&opts))
	require.Len(t, opts, 4)
	assert.Equal(t, "Best Book Move", opts[1].Name)
	assert.Equal(t, "true", opts[1].Value)
	require.NotNil(t, opts[3].Max)
	assert.Equal(t, 256, *opts[3].Max)
}

func TestProbesAndHealth(t *testing.T) {
	srv, _ := newServer(t, "book.bin", stubProbes{rows: []db.ProbeRow{{ID: 2, MoveUCI: "d2d4"}, {ID: 1, MoveUCI: "e2e4"}}})

	resp, err := http.Get(srv.URL + "/api/probes?limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	var rows []db.ProbeRow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "d2d4", rows[0].MoveUCI)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(body))
}

func TestBookExplorerBoardAndArrows(t *testing.T) {
	srv, _ := newServer(t, startBook(t), nil)

	resp, err := http.Get(srv.URL + "/api/book")
	require.NoError(t, err)
	defer resp.Body.Close()
	var view BookView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))

	require.Len(t, view.Board, 8)
	assert.Equal(t, "a8", view.Board[0][0].Square)
	assert.Equal(t, "r", view.Board[0][0].Piece)
	assert.Equal(t, "K", view.Board[7][4].Piece)
	assert.False(t, view.Board[7][0].Light)

	require.Len(t, view.Arrows, 2)
	a := view.Arrows[0]
	assert.Equal(t, [4]float64{4.5, 6.5, 4.5, 4.5}, [4]float64{a.X1, a.Y1, a.X2, a.Y2})
	assert.InDelta(t, 0.4875, a.Opacity, 1e-9)
}

func TestOpeningTree(t *testing.T) {
	start := chess.StartingPosition()
	var recs []book.Record
	add := func(pos *chess.Position, uci string, weight uint16) *chess.Position {
		mv, err := chess.UCINotation{}.Decode(pos, uci)
		require.NoError(t, err)
		recs = append(recs, book.Record{Key: book.Key(pos), Move: book.EncodeBookMove(mv), Weight: weight})
		return pos.Update(mv)
	}
	e4 := add(start, "e2e4", 5)
	add(start, "d2d4", 9)
	add(start, "a2a3", 1)
	add(e4, "c7c5", 4)
	add(e4, "e7e5", 6)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Key < recs[j].Key })

	var buf bytes.Buffer
	require.NoError(t, book.WriteRecords(&buf, recs))
	path := filepath.Join(t.TempDir(), "tree.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	srv, _ := newServer(t, path, nil)
	resp, err := http.Get(srv.URL + "/api/book/tree?plies=3&min_weight=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tree OpeningTree
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tree))
	assert.Equal(t, 4, tree.Nodes)
	require.Len(t, tree.Root.Children, 2)
	assert.Equal(t, "d2d4", tree.Root.Children[0].Move)
	assert.Equal(t, "e2e4", tree.Root.Children[1].Move)
	replies := tree.Root.Children[1].Children
	require.Len(t, replies, 2)
	assert.Equal(t, "e7e5", replies[0].Move)
	assert.Equal(t, 4, replies[1].Weight)
}
