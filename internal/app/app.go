package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"tethysbook/internal/config"
	"tethysbook/internal/db"
	"tethysbook/internal/engine"
	"tethysbook/internal/options"
	"tethysbook/internal/web"
)

type App struct {
	store  *db.Store
	player *engine.Player
	mux    *http.ServeMux

	closeOnce sync.Once
}

func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	reg := options.Defaults()
	if err := store.LoadOptions(context.Background(), reg, log); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load options: %w", err)
	}
	if err := applyOverrides(reg, cfg); err != nil {
		_ = store.Close()
		return nil, err
	}

	player := engine.NewPlayer(reg, store, log)
	mux := http.NewServeMux()
	web.NewHandler(player, store, log).RegisterRoutes(mux)

	log.Info().
		Str("book", reg.String(options.BookFile)).
		Bool("own_book", reg.Bool(options.OwnBook)).
		Bool("best_move", reg.Bool(options.BestBookMove)).
		Msg("book options loaded")

	return &App{
		store:  store,
		player: player,
		mux:    mux,
	}, nil
}

// applyOverrides sets options from the environment without persisting them.
func applyOverrides(reg *options.Registry, cfg config.Config) error {
	if cfg.BookPath != "" {
		if err := reg.Set(options.BookFile, cfg.BookPath); err != nil {
			return fmt.Errorf("TETHYS_BOOK_PATH: %w", err)
		}
	}
	if cfg.OwnBook != "" {
		if err := reg.Set(options.OwnBook, cfg.OwnBook); err != nil {
			return fmt.Errorf("TETHYS_OWN_BOOK: %w", err)
		}
	}
	return nil
}

func (a *App) Router() http.Handler {
	return a.mux
}

func (a *App) Player() *engine.Player {
	return a.player
}

func (a *App) Close() {
	a.closeOnce.Do(func() {
		_ = a.player.Close()
		_ = a.store.Close()
	})
}
