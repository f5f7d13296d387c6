package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Record is one captured log record with attributes rendered as strings.
type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// Recorder is a slog.Handler that keeps every record in memory.
// It is used by tests and by the simulate command's summary.
type Recorder struct {
	level slog.Level
	attrs []slog.Attr
	group string
	store *recordStore
}

type recordStore struct {
	mu      sync.Mutex
	records []Record
}

// NewRecorder returns a Recorder capturing records at level and above.
func NewRecorder(level slog.Level) *Recorder {
	return &Recorder{level: level, store: &recordStore{}}
}

// Logger returns a logger writing to r.
func (r *Recorder) Logger() *slog.Logger {
	return slog.New(r)
}

// Enabled reports whether the handler handles records at the given level.
func (r *Recorder) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.level
}

// Handle captures record.
func (r *Recorder) Handle(_ context.Context, record slog.Record) error {
	rec := Record{
		Level:   record.Level,
		Message: record.Message,
		Attrs:   make(map[string]string, record.NumAttrs()+len(r.attrs)),
	}
	for _, a := range r.attrs {
		key, val := renderAttr(a)
		rec.Attrs[key] = val
	}
	record.Attrs(func(a slog.Attr) bool {
		key, val := renderAttr(a)
		if r.group != "" {
			key = r.group + "." + key
		}
		rec.Attrs[key] = val
		return true
	})

	r.store.mu.Lock()
	r.store.records = append(r.store.records, rec)
	r.store.mu.Unlock()
	return nil
}

// WithAttrs returns a Recorder sharing storage that adds attrs to each record.
func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *r
	next.attrs = append(append([]slog.Attr{}, r.attrs...), attrs...)
	return &next
}

// WithGroup returns a Recorder sharing storage that prefixes attribute keys.
func (r *Recorder) WithGroup(name string) slog.Handler {
	next := *r
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return &next
}

// Records returns a copy of the captured records.
func (r *Recorder) Records() []Record {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]Record(nil), r.store.records...)
}

// Find returns captured records with the given message.
func (r *Recorder) Find(message string) []Record {
	var out []Record
	for _, rec := range r.Records() {
		if rec.Message == message {
			out = append(out, rec)
		}
	}
	return out
}

// Reset drops every captured record.
func (r *Recorder) Reset() {
	r.store.mu.Lock()
	r.store.records = nil
	r.store.mu.Unlock()
}

func renderAttr(attr slog.Attr) (string, string) {
	v := attr.Value.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return attr.Key, v.String()
	case slog.KindInt64:
		return attr.Key, fmt.Sprintf("%d", v.Int64())
	case slog.KindUint64:
		return attr.Key, fmt.Sprintf("%d", v.Uint64())
	case slog.KindBool:
		return attr.Key, fmt.Sprintf("%t", v.Bool())
	case slog.KindFloat64:
		return attr.Key, fmt.Sprintf("%g", v.Float64())
	case slog.KindTime:
		return attr.Key, v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		return attr.Key, v.Duration().String()
	case slog.KindAny:
		x := v.Any()
		if x == nil {
			return attr.Key, "<nil>"
		}
		if err, ok := x.(error); ok {
			return attr.Key, err.Error()
		}
		if s, ok := x.(fmt.Stringer); ok {
			return attr.Key, s.String()
		}
		if data, err := json.Marshal(x); err == nil {
			return attr.Key, string(data)
		}
		return attr.Key, fmt.Sprintf("%v", x)
	default:
		return attr.Key, v.String()
	}
}
