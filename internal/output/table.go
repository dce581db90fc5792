package output

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nextgenai/nextgen/internal/prefs"
	"github.com/nextgenai/nextgen/internal/studio"
)

const cellWidth = 72

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatResult renders one row per section.
func (f *TableFormatter) FormatResult(result studio.Result) (string, error) {
	t := newTable()
	t.AppendHeader(table.Row{"Section", "Content"})
	t.AppendRow(table.Row{"Script", result.Script})
	t.AppendRow(table.Row{"Title", result.Title})
	t.AppendRow(table.Row{"Description", result.Description})
	t.AppendRow(table.Row{"Tags", strings.Join(result.Tags, ", ")})
	t.AppendRow(table.Row{"Hashtags", strings.Join(result.Hashtags, " ")})
	t.AppendRow(table.Row{"Thumbnail Idea", result.ThumbnailIdea})
	return t.Render(), nil
}

// IdeasTable lists saved ideas newest first.
func IdeasTable(ideas []prefs.Idea) string {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Saved", "Theme", "Tone", "Platform", "Title"})
	for _, idea := range ideas {
		t.AppendRow(table.Row{
			idea.ID,
			idea.CreatedAt.Local().Format("2006-01-02 15:04"),
			idea.Theme,
			idea.Tone,
			idea.Platform,
			idea.Result.Title,
		})
	}
	if len(ideas) == 0 {
		t.AppendRow(table.Row{"", "", "no saved ideas", "", "", ""})
	}
	return t.Render()
}

// PreferencesTable renders the stored preferences.
func PreferencesTable(p prefs.Preferences) string {
	t := newTable()
	t.AppendHeader(table.Row{"Preference", "Value"})
	t.AppendRow(table.Row{"username", valueOr(p.Username, "(not set)")})
	t.AppendRow(table.Row{"cookie consent", valueOr(string(p.CookieConsent), "(not set)")})
	return t.Render()
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: cellWidth, WidthMaxEnforcer: text.WrapSoft},
		{Number: 3, WidthMax: cellWidth, WidthMaxEnforcer: text.WrapSoft},
	})
	return t
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
