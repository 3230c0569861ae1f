package book

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

// Book is a read-only polyglot book probed straight from disk. Records must
// be sorted by key; this is trusted, not verified, and an unsorted file just
// yields wrong or missing moves.
//
// A Book is not safe for concurrent use.
type Book struct {
	f    *os.File
	path string
	n    int64 // number of whole records

	rng *rand.Rand
	log zerolog.Logger
}

type Option func(*Book)

// WithRand sets the generator used for weighted selection.
func WithRand(r *rand.Rand) Option {
	return func(b *Book) { b.rng = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(b *Book) { b.log = l }
}

func New(opts ...Option) *Book {
	b := &Book{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		seed := uint64(time.Now().UnixNano())
		b.rng = rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
	}
	return b
}

// Load opens the book at path.
func Load(path string, opts ...Option) (*Book, error) {
	b := New(opts...)
	if err := b.Open(path); err != nil {
		return nil, err
	}
	return b, nil
}

// Open closes any open file and opens path. On failure the book is left closed.
func (b *Book) Open(path string) error {
	_ = b.Close()
	if path == "" {
		return errors.New("open book: empty path")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open book: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat book: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return fmt.Errorf("open book: %s is a directory", path)
	}
	b.f = f
	b.path = path
	b.n = info.Size() / RecordSize
	return nil
}

func (b *Book) Close() error {
	if b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	b.path = ""
	b.n = 0
	return err
}

// Path returns the path of the open file, or "" when closed.
func (b *Book) Path() string {
	return b.path
}

// Len returns the number of records in the open file.
func (b *Book) Len() int64 {
	return b.n
}

func (b *Book) readRecord(idx int64, buf []byte) (Record, error) {
	if _, err := b.f.ReadAt(buf[:RecordSize], idx*RecordSize); err != nil {
		return Record{}, fmt.Errorf("read record %d: %w", idx, err)
	}
	return decodeRecord(buf), nil
}

// findFirst returns the byte offset of the first record whose key is >= key,
// or the offset just past the last record.
func (b *Book) findFirst(key uint64) (int64, error) {
	var buf [RecordSize]byte
	lo, hi := int64(0), b.n
	for lo < hi {
		mid := lo + (hi-lo)/2
		r, err := b.readRecord(mid, buf[:])
		if err != nil {
			return 0, err
		}
		if r.Key < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo * RecordSize, nil
}

// entries returns the run of records stored under key, in file order.
func (b *Book) entries(key uint64) ([]Record, error) {
	if b.f == nil {
		return nil, nil
	}
	off, err := b.findFirst(key)
	if err != nil {
		return nil, err
	}
	var (
		out []Record
		buf [RecordSize]byte
	)
	for idx := off / RecordSize; idx < b.n; idx++ {
		r, err := b.readRecord(idx, buf[:])
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if r.Key != key {
			break
		}
		out = append(out, r)
	}
	return out, nil
}

// Probe returns a legal book move for pos from the book at path. The file is
// kept open between calls and reopened only when path changes. Any failure,
// including a missing file or an entry that is not legal in pos, returns false.
func (b *Book) Probe(pos *chess.Position, path string, pickBest bool) (*chess.Move, bool) {
	if path != b.path || b.f == nil {
		if err := b.Open(path); err != nil {
			b.log.Debug().Err(err).Str("path", path).Msg("book unavailable")
			return nil, false
		}
	}
	return b.probe(pos, pickBest)
}

func (b *Book) probe(pos *chess.Position, pickBest bool) (*chess.Move, bool) {
	key := Key(pos)
	recs, err := b.entries(key)
	if err != nil {
		b.log.Warn().Err(err).Str("path", b.path).Msg("book read failed")
		return nil, false
	}
	if len(recs) == 0 {
		return nil, false
	}
	r := pick(recs, pickBest, b.rng)
	mv, ok := decodeMove(pos, r.Move)
	if !ok {
		b.log.Debug().
			Str("fen", pos.String()).
			Str("move", r.Move.String()).
			Msg("book move not legal in position")
		return nil, false
	}
	return mv, true
}

// Lookup picks a weighted-random move from the open book and returns it in
// UCI notation.
func (b *Book) Lookup(pos *chess.Position) (string, bool) {
	mv, ok := b.probe(pos, false)
	if !ok {
		return "", false
	}
	return chess.UCINotation{}.Encode(pos, mv), true
}

type MoveWeight struct {
	UCI    string
	Weight int
}

// Moves lists the legal book moves for pos in file order.
func (b *Book) Moves(pos *chess.Position) []MoveWeight {
	recs, err := b.entries(Key(pos))
	if err != nil {
		b.log.Warn().Err(err).Str("path", b.path).Msg("book read failed")
		return nil
	}
	out := make([]MoveWeight, 0, len(recs))
	for _, r := range recs {
		mv, ok := decodeMove(pos, r.Move)
		if !ok {
			continue
		}
		out = append(out, MoveWeight{UCI: chess.UCINotation{}.Encode(pos, mv), Weight: int(r.Weight)})
	}
	return out
}

// maxLinePlies bounds Line when no limit is given; books can cycle.
const maxLinePlies = 256

// Line follows weighted-random book moves from start for at most maxPlies plies.
func (b *Book) Line(start *chess.Position, maxPlies int) []string {
	if maxPlies <= 0 || maxPlies > maxLinePlies {
		maxPlies = maxLinePlies
	}
	line := make([]string, 0, 8)
	pos := start
	for len(line) < maxPlies {
		mv, ok := b.probe(pos, false)
		if !ok {
			break
		}
		line = append(line, chess.UCINotation{}.Encode(pos, mv))
		pos = pos.Update(mv)
	}
	return line
}
