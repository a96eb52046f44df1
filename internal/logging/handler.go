package logging

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Handler writes one line per record:
//
//	2024-05-01T10:00:00Z [warn] Lock out of sync | run=3f2a... file=poetry.lock
//
// Attributes bound with Logger.With (the run id, the command) are rendered
// once when bound and reused for every record.
type Handler struct {
	out   io.Writer
	mu    *sync.Mutex
	min   slog.Leveler
	group string // dotted prefix for keys, "" or "a.b."
	bound string // pre-rendered " k=v" pairs
}

// NewHandler creates a human log handler. A nil opts or level means info.
func NewHandler(w io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{out: w, mu: &sync.Mutex{}, min: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.min = opts.Level
	}
	return h
}

// Enabled implements slog.Handler
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min.Level()
}

// Handle implements slog.Handler
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var line strings.Builder
	line.WriteString(r.Time.UTC().Format(time.RFC3339))
	line.WriteString(" [" + levelName(r.Level) + "] ")
	line.WriteString(r.Message)

	var pairs strings.Builder
	pairs.WriteString(h.bound)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&pairs, h.group, a)
		return true
	})
	if pairs.Len() > 0 {
		line.WriteString(" |")
		line.WriteString(pairs.String())
	}
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line.String())
	return err
}

// WithAttrs implements slog.Handler
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.bound)
	for _, a := range attrs {
		writeAttr(&b, h.group, a)
	}
	next := *h
	next.bound = b.String()
	return &next
}

// WithGroup implements slog.Handler
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.group + name + "."
	return &next
}

// writeAttr appends " key=value", flattening group values into dotted keys.
func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, prefix, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix + a.Key)
	b.WriteByte('=')
	b.WriteString(valueText(a.Value))
}

func valueText(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().UTC().Format(time.RFC3339)
	case slog.KindDuration:
		s = v.Duration().String()
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	}
	return "debug"
}
