package prompt

import (
	"embed"
	"fmt"
	"strings"
)

// ContentStudioSlug names the prompt used for content generation.
const ContentStudioSlug = "content-studio"

//go:embed prompts/*.md
var defaultPromptsFS embed.FS

//go:embed schemas/prompt.schema.json
var promptSchema []byte

// LoadDefaults loads the embedded prompt set.
func LoadDefaults() ([]*Prompt, error) {
	entries, err := defaultPromptsFS.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("read embedded prompts: %w", err)
	}
	results := make([]*Prompt, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := defaultPromptsFS.ReadFile("prompts/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read embedded prompt %s: %w", entry.Name(), err)
		}
		p, err := Load(entry.Name(), data)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, nil
}

// DefaultRegistry builds a registry from embedded prompts.
func DefaultRegistry() (*InMemoryRegistry, error) {
	prompts, err := LoadDefaults()
	if err != nil {
		return nil, err
	}
	return NewRegistry(prompts)
}

// NewRegistryWithOverrides builds the default registry and replaces any
// prompt whose slug also appears in dir. An empty dir yields the defaults.
func NewRegistryWithOverrides(dir string) (*InMemoryRegistry, error) {
	reg, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dir) == "" {
		return reg, nil
	}
	overrides, err := LoadFromDir(dir)
	if err != nil {
		return nil, err
	}
	for _, p := range overrides {
		reg.Put(p)
	}
	return reg, nil
}
