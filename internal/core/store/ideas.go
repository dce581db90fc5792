package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// IdeaRecord is a saved generation row.
type IdeaRecord struct {
	ID         string
	Theme      string
	Tone       string
	Platform   string
	Title      string
	ResultJSON string
	CreatedAt  time.Time
}

// InsertIdea stores rec and evicts the oldest rows beyond keep. A keep of
// zero or less disables eviction.
func (s *Store) InsertIdea(ctx context.Context, rec IdeaRecord, keep int) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("idea id is required")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin idea insert: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO saved_ideas (id, theme, tone, platform, title, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Theme, rec.Tone, rec.Platform, rec.Title, rec.ResultJSON, rec.CreatedAt.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("store idea: %w", err)
	}

	if keep > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM saved_ideas WHERE id NOT IN (
				SELECT id FROM saved_ideas ORDER BY created_at DESC, id DESC LIMIT ?
			)
		`, keep)
		if err != nil {
			return fmt.Errorf("evict old ideas: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit idea: %w", err)
	}
	return nil
}

// ListIdeas returns saved ideas newest first.
func (s *Store) ListIdeas(ctx context.Context) ([]IdeaRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, theme, tone, platform, title, result_json, created_at
		FROM saved_ideas ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var out []IdeaRecord
	for rows.Next() {
		rec, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return out, nil
}

// GetIdea returns one saved idea by id.
func (s *Store) GetIdea(ctx context.Context, id string) (IdeaRecord, error) {
	if s == nil || s.DB == nil {
		return IdeaRecord{}, errors.New("store is not initialized")
	}

	row := s.DB.QueryRowContext(ctx, `
		SELECT id, theme, tone, platform, title, result_json, created_at
		FROM saved_ideas WHERE id = ?
	`, id)
	rec, err := scanIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return IdeaRecord{}, ErrNotFound
	}
	return rec, err
}

// ClearIdeas deletes all saved ideas and reports how many were removed.
func (s *Store) ClearIdeas(ctx context.Context) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM saved_ideas`)
	if err != nil {
		return 0, fmt.Errorf("clear ideas: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear ideas: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdea(row rowScanner) (IdeaRecord, error) {
	var (
		rec     IdeaRecord
		created int64
	)
	if err := row.Scan(&rec.ID, &rec.Theme, &rec.Tone, &rec.Platform, &rec.Title, &rec.ResultJSON, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return IdeaRecord{}, err
		}
		return IdeaRecord{}, fmt.Errorf("scan idea: %w", err)
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	return rec, nil
}
