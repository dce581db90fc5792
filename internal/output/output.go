package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nextgenai/nextgen/internal/prefs"
	"github.com/nextgenai/nextgen/internal/studio"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter renders generation results.
type Formatter interface {
	FormatResult(result studio.Result) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatTable):
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatTable:
		return &TableFormatter{}
	default:
		return &MarkdownFormatter{}
	}
}

// FormatIdeas renders saved history using the requested format. Markdown
// and table both produce a summary table.
func FormatIdeas(format Format, ideas []prefs.Idea) (string, error) {
	if format == FormatJSON {
		if ideas == nil {
			ideas = []prefs.Idea{}
		}
		data, err := json.MarshalIndent(ideas, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return IdeasTable(ideas), nil
}
