package db

import (
	"context"
	"fmt"
)

// RecordProbe stores a move served from the book.
func (s *Store) RecordProbe(ctx context.Context, p Probe) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO book_probes (fen, book_key, book_path, move_uci, pick_best)
		VALUES (?, ?, ?, ?, ?)
	`, p.FEN, fmt.Sprintf("%016x", p.Key), p.BookPath, p.MoveUCI, p.PickBest)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecentProbes returns the latest served moves, newest first.
func (s *Store) RecentProbes(ctx context.Context, limit int) ([]ProbeRow, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []ProbeRow
	if err := s.db.SelectContext(ctx, &out, `
		SELECT id, probed_at, fen, book_key, book_path, move_uci, pick_best
		FROM book_probes
		ORDER BY id DESC
		LIMIT ?
	`, limit); err != nil {
		return nil, err
	}
	return out, nil
}
