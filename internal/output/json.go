package output

import (
	"encoding/json"

	"github.com/nextgenai/nextgen/internal/studio"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatResult renders a result as JSON using the wire field names.
func (f *JSONFormatter) FormatResult(result studio.Result) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
