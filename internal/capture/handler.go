package capture

import (
	"context"
	"log/slog"
	"time"
)

type scopedAttrs struct {
	groups []string
	attrs  []slog.Attr
}

// Handler is the slog.Handler returned by Collector.Wrap.
type Handler struct {
	collector *Collector
	next      slog.Handler
	groups    []string
	scoped    []scopedAttrs
}

// Enabled reports true for every level from debug up so that records the
// wrapped handler would drop are still captured.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelDebug || h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	h.capture(r)

	if !h.next.Enabled(ctx, r.Level) {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	scoped := make([]scopedAttrs, len(h.scoped), len(h.scoped)+1)
	copy(scoped, h.scoped)
	scoped = append(scoped, scopedAttrs{
		groups: h.groups,
		attrs:  append([]slog.Attr(nil), attrs...),
	})

	return &Handler{
		collector: h.collector,
		next:      h.next.WithAttrs(attrs),
		groups:    h.groups,
		scoped:    scoped,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	groups := make([]string, len(h.groups), len(h.groups)+1)
	copy(groups, h.groups)
	groups = append(groups, name)

	return &Handler{
		collector: h.collector,
		next:      h.next.WithGroup(name),
		groups:    groups,
		scoped:    h.scoped,
	}
}

func (h *Handler) capture(r slog.Record) {
	defer func() { _ = recover() }()

	h.collector.Record(LevelFromSlog(r.Level), r.Message, h.data(r))
}

func (h *Handler) data(r slog.Record) any {
	if len(h.scoped) == 0 && r.NumAttrs() == 0 {
		return nil
	}

	root := map[string]any{}
	for _, s := range h.scoped {
		target := descend(root, s.groups)
		for _, a := range s.attrs {
			putAttr(target, a)
		}
	}

	target := descend(root, h.groups)
	r.Attrs(func(a slog.Attr) bool {
		putAttr(target, a)
		return true
	})

	if len(root) == 0 {
		return nil
	}
	return root
}

func descend(m map[string]any, groups []string) map[string]any {
	for _, g := range groups {
		child, ok := m[g].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[g] = child
		}
		m = child
	}
	return m
}

func putAttr(m map[string]any, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return
		}
		target := m
		if a.Key != "" {
			target = descend(m, []string{a.Key})
		}
		for _, ga := range group {
			putAttr(target, ga)
		}
		return
	}

	m[a.Key] = plainValue(a.Value)
}

func plainValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339Nano)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.Any()
	}
}
