package ailink

import "strings"

// CaptureLimit returns the number of raw bytes that may be logged, or zero
// when raw capture is disabled.
func CaptureLimit(cfg Config) int {
	if !cfg.Debug.CaptureRawEnabled || cfg.Debug.CaptureRawMaxBytes <= 0 {
		return 0
	}
	return cfg.Debug.CaptureRawMaxBytes
}

// TruncateRaw returns at most max bytes of input as a single log-safe line.
func TruncateRaw(input []byte, max int) string {
	if max <= 0 || len(input) == 0 {
		return ""
	}
	suffix := ""
	if len(input) > max {
		input = input[:max]
		suffix = "…"
	}
	return SafeOneLine(string(input)) + suffix
}

// SafeOneLine collapses newlines so a value stays on one log line.
func SafeOneLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
