package prefs

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nextgenai/nextgen/internal/metrics"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.Mutex
	prefs Preferences
	ideas []Idea // oldest first
	limit int
	now   func() time.Time
}

// NewMemoryStore returns an empty store capped at historyLimit ideas.
func NewMemoryStore(historyLimit int) *MemoryStore {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &MemoryStore{limit: historyLimit, now: time.Now}
}

func (m *MemoryStore) Load(ctx context.Context) (Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs, nil
}

func (m *MemoryStore) Save(ctx context.Context, p Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Username = strings.TrimSpace(p.Username)
	m.prefs = p
	return nil
}

func (m *MemoryStore) SaveIdea(ctx context.Context, idea Idea) (Idea, error) {
	idea, err := prepareIdea(idea, m.now)
	if err != nil {
		return Idea{}, err
	}

	m.mu.Lock()
	m.ideas = append(m.ideas, idea)
	sort.SliceStable(m.ideas, func(i, j int) bool {
		return m.ideas[i].CreatedAt.Before(m.ideas[j].CreatedAt)
	})
	if over := len(m.ideas) - m.limit; over > 0 {
		m.ideas = append([]Idea(nil), m.ideas[over:]...)
	}
	m.mu.Unlock()

	metrics.RecordIdeaSaved(idea.Platform)
	return idea, nil
}

func (m *MemoryStore) ListIdeas(ctx context.Context) ([]Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Idea, 0, len(m.ideas))
	for i := len(m.ideas) - 1; i >= 0; i-- {
		out = append(out, m.ideas[i])
	}
	return out, nil
}

func (m *MemoryStore) GetIdea(ctx context.Context, id string) (Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id = strings.TrimSpace(id)
	for _, idea := range m.ideas {
		if idea.ID == id {
			return idea, nil
		}
	}
	return Idea{}, ErrIdeaNotFound
}

func (m *MemoryStore) ClearIdeas(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.ideas)
	m.ideas = nil
	return n, nil
}
