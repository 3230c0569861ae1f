package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"tethysbook/internal/book"
	"tethysbook/internal/db"
	"tethysbook/internal/options"
)

// ErrNoBook is returned when the configured book cannot be opened.
var ErrNoBook = errors.New("no opening book available")

// Store persists option changes and served book moves.
type Store interface {
	SaveOption(ctx context.Context, name, value string) error
	RecordProbe(ctx context.Context, p db.Probe) (int64, error)
}

// Player answers book queries using the book options of a registry. All
// access to the underlying book is serialized.
type Player struct {
	reg   *options.Registry
	store Store
	log   zerolog.Logger

	bookMu sync.Mutex
	book   *book.Book
}

// NewPlayer wires p to reg. store may be nil.
func NewPlayer(reg *options.Registry, store Store, log zerolog.Logger, bookOpts ...book.Option) *Player {
	bookOpts = append([]book.Option{book.WithLogger(log)}, bookOpts...)
	p := &Player{
		reg:   reg,
		store: store,
		log:   log,
		book:  book.New(bookOpts...),
	}
	for _, opt := range reg.List() {
		_ = reg.OnChange(opt.Name, p.optionChanged)
	}
	return p
}

func (p *Player) optionChanged(opt options.Option) {
	if opt.Name == options.BookFile {
		p.bookMu.Lock()
		_ = p.book.Close()
		p.bookMu.Unlock()
		p.log.Info().Str("path", opt.Value).Msg("book file changed")
	}
	if p.store == nil || opt.Type == options.Button {
		return
	}
	if err := p.store.SaveOption(context.Background(), opt.Name, opt.Value); err != nil {
		p.log.Error().Err(err).Str("option", opt.Name).Msg("save option failed")
	}
}

func (p *Player) Options() *options.Registry {
	return p.reg
}

// BookMove returns the book move for pos when OwnBook is enabled.
func (p *Player) BookMove(ctx context.Context, pos *chess.Position) (*chess.Move, bool) {
	if !p.reg.Bool(options.OwnBook) {
		return nil, false
	}
	path := p.reg.String(options.BookFile)
	best := p.reg.Bool(options.BestBookMove)

	p.bookMu.Lock()
	mv, ok := p.book.Probe(pos, path, best)
	p.bookMu.Unlock()
	if !ok {
		return nil, false
	}

	if p.store != nil {
		probe := db.Probe{
			FEN:      pos.String(),
			Key:      book.Key(pos),
			BookPath: path,
			MoveUCI:  chess.UCINotation{}.Encode(pos, mv),
			PickBest: best,
		}
		if _, err := p.store.RecordProbe(ctx, probe); err != nil {
			p.log.Warn().Err(err).Msg("record probe failed")
		}
	}
	return mv, true
}

// Moves lists the legal book moves for pos from the configured book file.
func (p *Player) Moves(pos *chess.Position) ([]book.MoveWeight, error) {
	p.bookMu.Lock()
	defer p.bookMu.Unlock()
	if err := p.openLocked(); err != nil {
		return nil, err
	}
	return p.book.Moves(pos), nil
}

// BookLine follows the book from start for at most "Book Max Plies" plies.
func (p *Player) BookLine(start *chess.Position) ([]string, error) {
	p.bookMu.Lock()
	defer p.bookMu.Unlock()
	if err := p.openLocked(); err != nil {
		return nil, err
	}
	maxPlies := p.reg.Int(options.BookMaxPlies)
	if maxPlies == 0 {
		return nil, nil
	}
	return p.book.Line(start, maxPlies), nil
}

func (p *Player) openLocked() error {
	path := p.reg.String(options.BookFile)
	if p.book.Path() == path && path != "" {
		return nil
	}
	if err := p.book.Open(path); err != nil {
		p.log.Debug().Err(err).Msg("book unavailable")
		return ErrNoBook
	}
	return nil
}

func (p *Player) Close() error {
	p.bookMu.Lock()
	defer p.bookMu.Unlock()
	return p.book.Close()
}
