//go:build cgo

package prefs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgenai/nextgen/internal/config"
	"github.com/nextgenai/nextgen/internal/core/store"
	"github.com/nextgenai/nextgen/internal/studio"
)

func newSQLStore(t *testing.T, limit int) *SQLStore {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(ctx, config.StoreConfig{Driver: "libsql", Path: "file:" + t.TempDir() + "/prefs.db"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))
	return NewSQLStore(db, limit)
}

func TestSQLStorePreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t, 10)

	prefs, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Preferences{}, prefs)

	require.NoError(t, s.Save(ctx, Preferences{Username: "ada", CookieConsent: ConsentDeclined}))
	prefs, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Preferences{Username: "ada", CookieConsent: ConsentDeclined}, prefs)

	require.NoError(t, s.Save(ctx, Preferences{Username: "ada"}))
	prefs, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ConsentUnset, prefs.CookieConsent)
}

func TestSQLStoreIdeas(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t, 2)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	result := studio.Result{
		Script:        "**Hook**",
		Title:         "Creeper Chaos",
		Description:   "desc",
		Tags:          []string{"minecraft"},
		Hashtags:      []string{"#minecraft"},
		ThumbnailIdea: "Steve",
	}
	var last Idea
	for i := 0; i < 3; i++ {
		saved, err := s.SaveIdea(ctx, Idea{Theme: fmt.Sprintf("theme %d", i), Tone: "funny", Platform: "Shorts", Result: result})
		require.NoError(t, err)
		last = saved
	}

	ideas, err := s.ListIdeas(ctx)
	require.NoError(t, err)
	require.Len(t, ideas, 2)
	assert.Equal(t, last.ID, ideas[0].ID)
	assert.Equal(t, result, ideas[0].Result)

	got, err := s.GetIdea(ctx, last.ID)
	require.NoError(t, err)
	assert.Equal(t, "theme 2", got.Theme)

	_, err = s.GetIdea(ctx, "missing")
	require.ErrorIs(t, err, ErrIdeaNotFound)

	n, err := s.ClearIdeas(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
