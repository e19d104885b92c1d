package cmd

import (
	"log/slog"

	"github.com/marcus/rangepick/internal/output"
	"github.com/marcus/rangepick/internal/selection"
)

// streamEvent is one line of `pick --stream` output.
type streamEvent struct {
	Focus string  `json:"focus"`
	Start *string `json:"start"`
	End   *string `json:"end"`
	Days  int     `json:"days,omitempty"`
}

// changeStream writes a JSON line each time the focused endpoint or the
// range moves. Hover-only updates are skipped.
type changeStream struct {
	pattern string
	last    *streamEvent
	write   func(any) error
}

func newChangeStream(pattern string) *changeStream {
	return &changeStream{pattern: pattern, write: output.JSONLine}
}

// observe is registered with Machine.Subscribe.
func (s *changeStream) observe(snap selection.Snapshot) {
	r := rangeJSON(snap.Selection, s.pattern)
	ev := streamEvent{Focus: snap.Focused.String(), Start: r.Start, End: r.End, Days: r.Days}
	if s.last != nil && s.last.equal(ev) {
		return
	}
	s.last = &ev
	if err := s.write(ev); err != nil {
		slog.Debug("stream write", "err", err)
	}
}

func (e streamEvent) equal(o streamEvent) bool {
	return e.Focus == o.Focus && sameString(e.Start, o.Start) && sameString(e.End, o.End)
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
