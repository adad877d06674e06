package logger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

type logFormat int

const (
	formatKV logFormat = iota
	formatJSON
)

type handlerConfig struct {
	level  slog.Leveler
	writer io.Writer
	format logFormat
}

// structuredHandler renders records with a fixed head-key order:
// ts, level, component, event, then the remaining attributes in arrival
// order, then correlation identifiers taken from context.
type structuredHandler struct {
	cfg   handlerConfig
	mu    *sync.Mutex
	attrs []slog.Attr
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	return &structuredHandler{cfg: cfg, mu: &sync.Mutex{}}
}

func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.cfg.level != nil {
		min = h.cfg.level.Level()
	}
	return level >= min
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup is accepted but flattened; the bot does not log grouped attrs.
func (h *structuredHandler) WithGroup(string) slog.Handler { return h }

func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	var component, event string
	rest := make([]slog.Attr, 0, r.NumAttrs()+len(h.attrs))

	consume := func(a slog.Attr) {
		switch a.Key {
		case "component":
			component = a.Value.String()
		case "event":
			if event == "" {
				event = a.Value.String()
			}
		default:
			rest = append(rest, a)
		}
	}
	for _, a := range h.attrs {
		consume(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		consume(a)
		return true
	})
	if event == "" && r.Message != "" {
		event = r.Message
	}

	ordered := make([]slog.Attr, 0, len(rest)+8)
	ordered = append(ordered,
		slog.String("level", r.Level.String()),
	)
	if component != "" {
		ordered = append(ordered, slog.String("component", component))
	}
	if event != "" {
		ordered = append(ordered, slog.String("event", event))
	}
	ordered = append(ordered, rest...)
	ordered = appendContextMeta(ordered, ctx, h.cfg.format)

	var line []byte
	if h.cfg.format == formatJSON {
		line = renderJSON(r.Time, ordered)
	} else {
		line = renderKV(r.Time, ordered)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.cfg.writer.Write(line)
	return err
}

func appendContextMeta(attrs []slog.Attr, ctx context.Context, format logFormat) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if rid := RIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", CompactRID(rid)))
		if format == formatJSON && CompactRID(rid) != rid {
			attrs = append(attrs, slog.String("rid_full", rid))
		}
	}
	if id := UpdateIDFrom(ctx); id != 0 {
		attrs = append(attrs, slog.Int("update_id", id))
	}
	if id := ChatIDFrom(ctx); id != 0 {
		attrs = append(attrs, slog.Int64("chat_id", id))
	}
	if id := UserIDFrom(ctx); id != 0 {
		attrs = append(attrs, slog.Int64("user_id", id))
	}
	if handler := HandlerFrom(ctx); handler != "" {
		attrs = append(attrs, slog.String("handler", handler))
	}
	return attrs
}

func renderKV(ts time.Time, attrs []slog.Attr) []byte {
	var b strings.Builder
	b.WriteString("ts=")
	b.WriteString(ts.Format(time.RFC3339Nano))
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(kvValue(a.Value))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func kvValue(v slog.Value) string {
	s := v.String()
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(Sanitize(s))
	}
	return Sanitize(s)
}

func renderJSON(ts time.Time, attrs []slog.Attr) []byte {
	var b strings.Builder
	b.WriteString(`{"ts":`)
	writeJSONString(&b, ts.Format(time.RFC3339Nano))
	b.WriteString(`,"ts_unix_nano":`)
	b.WriteString(strconv.FormatInt(ts.UnixNano(), 10))
	for _, a := range attrs {
		b.WriteByte(',')
		writeJSONString(&b, a.Key)
		b.WriteByte(':')
		writeJSONValue(&b, a.Value)
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

func writeJSONString(b *strings.Builder, s string) {
	data, err := json.Marshal(Sanitize(s))
	if err != nil {
		b.WriteString(`""`)
		return
	}
	b.Write(data)
}

func writeJSONValue(b *strings.Builder, v slog.Value) {
	switch v.Kind() {
	case slog.KindInt64:
		b.WriteString(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		b.WriteString(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		b.WriteString(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case slog.KindDuration:
		writeJSONString(b, v.Duration().String())
	default:
		writeJSONString(b, v.String())
	}
}
