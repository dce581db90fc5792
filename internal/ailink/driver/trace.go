package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// TraceEntry is one gateway exchange recorded as a single NDJSON line.
type TraceEntry struct {
	Timestamp   time.Time       `json:"timestamp"`
	Driver      string          `json:"driver"`
	Endpoint    string          `json:"endpoint"`
	Model       string          `json:"model,omitempty"`
	PromptSlug  string          `json:"prompt_slug,omitempty"`
	RequestBody json.RawMessage `json:"request_body,omitempty"`
	StatusCode  int             `json:"status_code,omitempty"`
	Response    json.RawMessage `json:"response,omitempty"`
	Error       string          `json:"error,omitempty"`
	DurationMs  int64           `json:"duration_ms"`
}

// Tracer appends trace entries to a writer.
type Tracer struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// NewTracer wraps w. The tracer owns w and closes it on Close.
func NewTracer(w io.WriteCloser) *Tracer {
	return &Tracer{w: w}
}

var (
	activeTracer *Tracer
	activeMu     sync.RWMutex
)

// EnableTracing starts tracing gateway exchanges to path.
// The returned function stops tracing and closes the file.
func EnableTracing(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	setTracer(NewTracer(f))
	return func() { setTracer(nil) }, nil
}

func setTracer(t *Tracer) {
	activeMu.Lock()
	prev := activeTracer
	activeTracer = t
	activeMu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
}

// TracingEnabled reports whether a tracer is active.
func TracingEnabled() bool {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return activeTracer != nil
}

// Trace records entry when tracing is enabled.
func Trace(entry TraceEntry) {
	activeMu.RLock()
	t := activeTracer
	activeMu.RUnlock()
	t.Write(entry)
}

// Write records entry.
func (t *Tracer) Write(entry TraceEntry) {
	if t == nil || t.w == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if len(entry.Response) > 0 && !json.Valid(entry.Response) {
		quoted, _ := json.Marshal(string(entry.Response))
		entry.Response = quoted
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.w.Write(data)
}

// Close closes the underlying writer.
func (t *Tracer) Close() error {
	if t == nil || t.w == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Close()
}
