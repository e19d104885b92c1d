package selection

import (
	"time"

	"github.com/marcus/rangepick/internal/dateformat"
)

// EditContext describes a proposed write of Value into Endpoint.
type EditContext struct {
	Endpoint  Endpoint
	Value     time.Time
	Selection Selection
	Min       *time.Time
	Max       *time.Time
	Pattern   string
}

// GuardResult is the outcome of a single guard check.
type GuardResult struct {
	Passed  bool
	Message string
}

// Guard validates typed or programmatic edits before they are committed.
type Guard interface {
	Name() string
	Check(ctx *EditContext) GuardResult
}

// DefaultGuards returns the guards applied when Options.Guards is empty.
func DefaultGuards() []Guard {
	return []Guard{&BoundsGuard{}, &OrderGuard{}}
}

// BoundsGuard refuses values outside [Min, Max].
type BoundsGuard struct{}

func (g *BoundsGuard) Name() string {
	return "BoundsGuard"
}

func (g *BoundsGuard) Check(ctx *EditContext) GuardResult {
	if ctx.Max != nil && ctx.Value.After(*ctx.Max) {
		return GuardResult{
			Passed:  false,
			Message: "after maximum " + ctx.format(*ctx.Max),
		}
	}
	if ctx.Min != nil && ctx.Value.Before(*ctx.Min) {
		return GuardResult{
			Passed:  false,
			Message: "before minimum " + ctx.format(*ctx.Min),
		}
	}
	return GuardResult{Passed: true}
}

// OrderGuard refuses edits that would invert the range: an end at or before
// the current start, or a start at or after the current end.
type OrderGuard struct{}

func (g *OrderGuard) Name() string {
	return "OrderGuard"
}

func (g *OrderGuard) Check(ctx *EditContext) GuardResult {
	switch ctx.Endpoint {
	case End:
		if start := ctx.Selection.Start; start != nil && !ctx.Value.After(*start) {
			return GuardResult{
				Passed:  false,
				Message: "end must be after start " + ctx.format(*start),
			}
		}
	case Start:
		if end := ctx.Selection.End; end != nil && !ctx.Value.Before(*end) {
			return GuardResult{
				Passed:  false,
				Message: "start must be before end " + ctx.format(*end),
			}
		}
	}
	return GuardResult{Passed: true}
}

func (ctx *EditContext) format(t time.Time) string {
	if ctx.Pattern == "" {
		return t.Format(time.RFC3339)
	}
	return dateformat.Format(t, ctx.Pattern)
}

// runGuards checks ctx against every guard and collects the failures in verr.
func runGuards(guards []Guard, ctx *EditContext, verr *ValidationError) {
	for _, g := range guards {
		if r := g.Check(ctx); !r.Passed {
			verr.Add(&GuardError{Guard: g.Name(), Endpoint: ctx.Endpoint, Reason: r.Message})
		}
	}
}
