package output

import (
	"strings"

	"github.com/nextgenai/nextgen/internal/studio"
)

const sectionRule = "\n\n---\n\n"

// MarkdownFormatter renders results as the chat transcript document.
type MarkdownFormatter struct{}

// FormatResult renders a result as Markdown.
func (f *MarkdownFormatter) FormatResult(result studio.Result) (string, error) {
	return RenderResult(result), nil
}

// RenderResult composes the display document for a result. Sections always
// appear in the same order: script, title, description, tags, hashtags and
// thumbnail idea.
func RenderResult(r studio.Result) string {
	sections := []string{
		"## Video Script\n\n" + strings.TrimSpace(r.Script),
		"## Title\n\n**" + strings.TrimSpace(r.Title) + "**",
		"## Description\n\n" + strings.TrimSpace(r.Description),
		"## Tags\n\n" + codeSpans(r.Tags),
		"## Hashtags\n\n" + strings.Join(r.Hashtags, " "),
		"## Thumbnail Idea\n\n" + strings.TrimSpace(r.ThumbnailIdea),
	}
	return strings.Join(sections, sectionRule) + "\n"
}

func codeSpans(items []string) string {
	spans := make([]string, 0, len(items))
	for _, item := range items {
		fence := "`"
		// A tag containing backticks needs a longer fence.
		for strings.Contains(item, fence) {
			fence += "`"
		}
		if fence != "`" {
			spans = append(spans, fence+" "+item+" "+fence)
			continue
		}
		spans = append(spans, fence+item+fence)
	}
	return strings.Join(spans, ", ")
}
