package logic

import (
	"fmt"

	"github.com/sweeney/galerians-autosplitter/internal/route"
)

// Severity is how loudly a Decision should be logged.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInfo
	SeverityWarn
)

// Decision is the outcome of one split type reconciliation.
type Decision struct {
	// Effective is the split type to use from now on.
	Effective route.SplitType
	// Reset is set when the route changed under a run in progress.
	Reset bool
	// Severity and Message describe anything the operator should know.
	Severity Severity
	Message  string
}

// Changed reports whether the decision switches to a different split type.
func (d Decision) Changed(previous route.SplitType) bool {
	return d.Effective != previous
}

// ReconcileSplitType decides which split type to use given what the user
// requested, what is in effect now, and what the timer publishes this tick.
// lastPublished is the published value seen on the previous call; it only
// suppresses repeated warnings. Unset values use route.Unset.
func ReconcileSplitType(requested, effective, published, lastPublished route.SplitType) Decision {
	r, e, p := requested.IsSet(), effective.IsSet(), published.IsSet()
	d := Decision{Effective: effective}

	switch {
	case !r && !e && !p:
		d.Effective = route.AllDoors
		d.Severity = SeverityWarn
		d.Message = "No split type was specified by either the user or the splits; defaulting to " + string(route.AllDoors)

	case !r && !e && p:
		d.Effective = published
		d.Severity = SeverityInfo
		d.Message = fmt.Sprintf("Split type %s detected from LiveSplit splits", published)

	case !r && e && p:
		if published != effective {
			d.Effective = published
			d.Reset = true
			d.Severity = SeverityInfo
			d.Message = fmt.Sprintf("LiveSplit splits were changed; new split type is %s. Resetting", published)
		}

	case e && !p:
		if lastPublished.IsSet() {
			d.Severity = SeverityWarn
			d.Message = fmt.Sprintf("LiveSplit splits were changed but the new split type could not be detected. Continuing to use old split type %s", effective)
		}

	case !e && !p:
		d.Effective = requested

	case !e && p:
		if requested != published {
			d.Severity = SeverityWarn
			d.Message = fmt.Sprintf("User requested split type %s but LiveSplit reported split type %s. Going with user choice %s", requested, published, requested)
		}
		d.Effective = requested

	default:
		// Compares against the last published value, not the effective one, so
		// a mismatch is reported once per change.
		if lastPublished != published && requested != published {
			d.Severity = SeverityWarn
			d.Message = fmt.Sprintf("LiveSplit splits were changed and the new LiveSplit-reported split type %s does not match the user-requested split type %s. Continuing to use user-requested split type %s", published, requested, requested)
		}
	}
	return d
}
