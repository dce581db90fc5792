package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nextgenai/nextgen/internal/core/store"
	"github.com/nextgenai/nextgen/internal/metrics"
	"github.com/nextgenai/nextgen/internal/studio"
)

// SQLStore keeps preferences in the libsql store.
type SQLStore struct {
	db    *store.Store
	limit int
	now   func() time.Time
}

// NewSQLStore wraps an opened and migrated store.
func NewSQLStore(db *store.Store, historyLimit int) *SQLStore {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &SQLStore{db: db, limit: historyLimit, now: time.Now}
}

func (s *SQLStore) Load(ctx context.Context) (Preferences, error) {
	values, err := s.db.ListPreferences(ctx)
	if err != nil {
		return Preferences{}, err
	}
	consent, err := ParseConsent(values[keyConsent])
	if err != nil {
		// Unknown stored values read as unset.
		consent = ConsentUnset
	}
	return Preferences{Username: values[keyUsername], CookieConsent: consent}, nil
}

func (s *SQLStore) Save(ctx context.Context, p Preferences) error {
	return s.db.SetPreferences(ctx, p.values(), s.now())
}

func (s *SQLStore) SaveIdea(ctx context.Context, idea Idea) (Idea, error) {
	idea, err := prepareIdea(idea, s.now)
	if err != nil {
		return Idea{}, err
	}
	payload, err := json.Marshal(idea.Result)
	if err != nil {
		return Idea{}, fmt.Errorf("encode idea: %w", err)
	}

	err = s.db.InsertIdea(ctx, store.IdeaRecord{
		ID:         idea.ID,
		Theme:      idea.Theme,
		Tone:       idea.Tone,
		Platform:   idea.Platform,
		Title:      idea.Result.Title,
		ResultJSON: string(payload),
		CreatedAt:  idea.CreatedAt,
	}, s.limit)
	if err != nil {
		return Idea{}, err
	}
	metrics.RecordIdeaSaved(idea.Platform)
	return idea, nil
}

func (s *SQLStore) ListIdeas(ctx context.Context) ([]Idea, error) {
	records, err := s.db.ListIdeas(ctx)
	if err != nil {
		return nil, err
	}
	ideas := make([]Idea, 0, len(records))
	for _, rec := range records {
		idea, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

func (s *SQLStore) GetIdea(ctx context.Context, id string) (Idea, error) {
	rec, err := s.db.GetIdea(ctx, strings.TrimSpace(id))
	if errors.Is(err, store.ErrNotFound) {
		return Idea{}, ErrIdeaNotFound
	}
	if err != nil {
		return Idea{}, err
	}
	return fromRecord(rec)
}

func (s *SQLStore) ClearIdeas(ctx context.Context) (int, error) {
	n, err := s.db.ClearIdeas(ctx)
	return int(n), err
}

func fromRecord(rec store.IdeaRecord) (Idea, error) {
	var result studio.Result
	if err := json.Unmarshal([]byte(rec.ResultJSON), &result); err != nil {
		return Idea{}, fmt.Errorf("decode idea %s: %w", rec.ID, err)
	}
	return Idea{
		ID:        rec.ID,
		Theme:     rec.Theme,
		Tone:      rec.Tone,
		Platform:  rec.Platform,
		Result:    result,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func prepareIdea(idea Idea, now func() time.Time) (Idea, error) {
	idea.Theme = strings.TrimSpace(idea.Theme)
	if idea.Theme == "" {
		return Idea{}, errors.New("idea theme is required")
	}
	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now().UTC()
	}
	return idea, nil
}
