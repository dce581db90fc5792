package prefs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgenai/nextgen/internal/studio"
)

func TestParseConsent(t *testing.T) {
	for input, want := range map[string]Consent{
		"accept":   ConsentAccepted,
		"Accepted": ConsentAccepted,
		"decline":  ConsentDeclined,
		"":         ConsentUnset,
	} {
		got, err := ParseConsent(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseConsent("maybe")
	require.Error(t, err)
}

func TestMemoryStorePreferences(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	prefs, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Preferences{}, prefs)

	require.NoError(t, store.Save(ctx, Preferences{Username: "  ada ", CookieConsent: ConsentAccepted}))

	prefs, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada", prefs.Username)
	assert.Equal(t, ConsentAccepted, prefs.CookieConsent)
}

func TestMemoryStoreHistoryCap(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(3)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := store.SaveIdea(ctx, Idea{
			ID:        fmt.Sprintf("idea-%d", i),
			Theme:     fmt.Sprintf("theme %d", i),
			Tone:      "funny",
			Platform:  "Shorts",
			Result:    studio.Result{Title: fmt.Sprintf("title %d", i)},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	ideas, err := store.ListIdeas(ctx)
	require.NoError(t, err)
	require.Len(t, ideas, 3)
	assert.Equal(t, "idea-4", ideas[0].ID)
	assert.Equal(t, "idea-2", ideas[2].ID)

	_, err = store.GetIdea(ctx, "idea-0")
	require.ErrorIs(t, err, ErrIdeaNotFound)

	got, err := store.GetIdea(ctx, "idea-3")
	require.NoError(t, err)
	assert.Equal(t, "title 3", got.Result.Title)

	n, err := store.ClearIdeas(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSaveIdeaAssignsIDAndTimestamp(t *testing.T) {
	store := NewMemoryStore(10)

	idea, err := store.SaveIdea(context.Background(), Idea{Theme: "  Minecraft funny short  "})
	require.NoError(t, err)
	assert.NotEmpty(t, idea.ID)
	assert.False(t, idea.CreatedAt.IsZero())
	assert.Equal(t, "Minecraft funny short", idea.Theme)

	_, err = store.SaveIdea(context.Background(), Idea{Theme: "   "})
	require.Error(t, err)
}
