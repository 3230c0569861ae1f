package db

import (
	"context"

	"github.com/rs/zerolog"

	"tethysbook/internal/options"
)

// Settings returns every stored option value keyed by option name.
func (s *Store) Settings(ctx context.Context) (map[string]string, error) {
	rows := []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}{}
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT key, CAST(value AS TEXT) AS value
		FROM settings
	`); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// SaveOption upserts one option value.
func (s *Store) SaveOption(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, name, value)
	return err
}

// LoadOptions applies stored values to reg. Unknown names and values the
// registry rejects are skipped.
func (s *Store) LoadOptions(ctx context.Context, reg *options.Registry, log zerolog.Logger) error {
	stored, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	for _, opt := range reg.List() {
		value, ok := stored[opt.Name]
		if !ok || opt.Type == options.Button {
			continue
		}
		if err := reg.Set(opt.Name, value); err != nil {
			log.Warn().Err(err).Str("option", opt.Name).Msg("skipping stored option")
		}
	}
	return nil
}
