package prompt

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry provides access to prompt definitions.
type Registry interface {
	Get(slug string) (*Prompt, error)
	List() []*Prompt
}

// InMemoryRegistry stores prompts by slug.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	prompts map[string]*Prompt
}

// NewRegistry builds a registry from prompts.
func NewRegistry(prompts []*Prompt) (*InMemoryRegistry, error) {
	reg := &InMemoryRegistry{prompts: make(map[string]*Prompt)}
	for _, p := range prompts {
		if p == nil {
			continue
		}
		slug := strings.TrimSpace(p.Config.Slug)
		if slug == "" {
			return nil, fmt.Errorf("prompt missing slug")
		}
		if _, ok := reg.prompts[slug]; ok {
			return nil, fmt.Errorf("duplicate prompt slug: %s", slug)
		}
		reg.prompts[slug] = p
	}
	return reg, nil
}

// Put adds p, replacing any prompt with the same slug.
func (r *InMemoryRegistry) Put(p *Prompt) {
	if r == nil || p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts[strings.TrimSpace(p.Config.Slug)] = p
}

// Get returns the prompt for the slug.
func (r *InMemoryRegistry) Get(slug string) (*Prompt, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry not configured")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("prompt slug is required")
	}
	r.mu.RLock()
	p, ok := r.prompts[slug]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("prompt %q not found", slug)
	}
	return p, nil
}

// List returns prompts sorted by slug.
func (r *InMemoryRegistry) List() []*Prompt {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.prompts))
	for slug := range r.prompts {
		keys = append(keys, slug)
	}
	sort.Strings(keys)
	result := make([]*Prompt, 0, len(keys))
	for _, slug := range keys {
		result = append(result, r.prompts[slug])
	}
	return result
}
