package prompt

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Load parses and validates a prompt definition. The file is YAML frontmatter
// followed by a markdown body; the body becomes the system template when the
// frontmatter does not set one.
func Load(source string, data []byte) (*Prompt, error) {
	config, body, err := parseYAMLWithFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("parse prompt %s: %w", source, err)
	}

	if strings.TrimSpace(config.SystemTemplate) == "" {
		config.SystemTemplate = strings.TrimSpace(body)
	}
	if strings.TrimSpace(config.SystemTemplate) == "" {
		return nil, fmt.Errorf("prompt %s missing system_template", source)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("validate prompt %s: %w", source, err)
	}

	return &Prompt{Config: config, Source: source}, nil
}

// LoadFromDir reads all prompt files (.md with YAML frontmatter) from a directory.
func LoadFromDir(dir string) ([]*Prompt, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("scan prompts: %w", err)
	}
	sort.Strings(entries)
	results := make([]*Prompt, 0, len(entries))
	for _, path := range entries {
		data, err := os.ReadFile(path) // #nosec G304 -- prompt dir is operator-provided
		if err != nil {
			return nil, fmt.Errorf("read prompt %s: %w", path, err)
		}
		p, err := Load(path, data)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, nil
}

func parseYAMLWithFrontmatter(data []byte) (Config, string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Config{}, "", fmt.Errorf("empty prompt")
	}

	lines := bufio.NewScanner(bytes.NewReader(trimmed))
	lines.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		frontmatter []string
		body        []string
		inFront     bool
		headerSeen  bool
		first       = true
	)

	for lines.Scan() {
		line := lines.Text()
		switch {
		case first && strings.TrimSpace(line) == "---":
			headerSeen = true
			inFront = true
		case inFront && strings.TrimSpace(line) == "---":
			inFront = false
		case inFront:
			frontmatter = append(frontmatter, line)
		default:
			body = append(body, line)
		}
		first = false
	}
	if err := lines.Err(); err != nil {
		return Config{}, "", err
	}
	if inFront {
		return Config{}, "", fmt.Errorf("unterminated frontmatter")
	}

	var cfg Config
	if headerSeen {
		if err := yaml.Unmarshal([]byte(strings.Join(frontmatter, "\n")), &cfg); err != nil {
			return Config{}, "", fmt.Errorf("invalid frontmatter: %w", err)
		}
		return cfg, strings.Join(body, "\n"), nil
	}

	if err := yaml.Unmarshal(trimmed, &cfg); err != nil {
		return Config{}, "", fmt.Errorf("invalid yaml: %w", err)
	}
	return cfg, "", nil
}

func validateConfig(cfg Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(promptSchema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
