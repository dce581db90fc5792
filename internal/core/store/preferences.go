package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// GetPreference returns the stored value for key.
func (s *Store) GetPreference(ctx context.Context, key string) (string, error) {
	if s == nil || s.DB == nil {
		return "", errors.New("store is not initialized")
	}

	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load preference %s: %w", key, err)
	}
	return value, nil
}

// ListPreferences returns every stored preference.
func (s *Store) ListPreferences(ctx context.Context) (map[string]string, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return out, nil
}

// SetPreferences upserts values in one transaction. An empty value deletes
// the key.
func (s *Store) SetPreferences(ctx context.Context, values map[string]string, updatedAt time.Time) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin preferences update: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck // no-op after commit

	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			return errors.New("preference key is required")
		}
		if value == "" {
			if _, err := tx.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key); err != nil {
				return fmt.Errorf("delete preference %s: %w", key, err)
			}
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO preferences (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at
		`, key, value, updatedAt.UTC().Unix())
		if err != nil {
			return fmt.Errorf("store preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit preferences: %w", err)
	}
	return nil
}
