package logic

import (
	"testing"

	"github.com/sweeney/galerians-autosplitter/internal/route"
)

const (
	unset = route.Unset
	all   = route.AllDoors
	doors = route.Doors
	keys  = route.KeyEvents
)

func TestReconcileSplitType(t *testing.T) {
	tests := []struct {
		name                                           string
		requested, effective, published, lastPublished route.SplitType
		want                                           route.SplitType
		reset                                          bool
		severity                                       Severity
	}{
		{"nothing known defaults to all doors", unset, unset, unset, unset, all, false, SeverityWarn},
		{"first published value is adopted without reset", unset, unset, keys, unset, keys, false, SeverityInfo},
		{"published change resets", unset, doors, keys, doors, keys, true, SeverityInfo},
		{"published unchanged is quiet", unset, keys, keys, keys, keys, false, SeverityNone},
		{"published removed warns", unset, keys, unset, keys, keys, false, SeverityWarn},
		{"published still absent is quiet", unset, keys, unset, unset, keys, false, SeverityNone},
		{"published removed under user request warns", doors, doors, unset, keys, doors, false, SeverityWarn},
		{"user request with nothing published", doors, unset, unset, unset, doors, false, SeverityNone},
		{"user request matches first published", doors, unset, doors, unset, doors, false, SeverityNone},
		{"user request beats first published", doors, unset, keys, unset, doors, false, SeverityWarn},
		{"published changed away from user request warns", doors, doors, keys, doors, doors, false, SeverityWarn},
		{"published mismatch already seen is quiet", doors, doors, keys, keys, doors, false, SeverityNone},
		{"published changed to user request is quiet", doors, doors, doors, keys, doors, false, SeverityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ReconcileSplitType(tt.requested, tt.effective, tt.published, tt.lastPublished)
			if d.Effective != tt.want {
				t.Errorf("expected effective %s, got %s", tt.want, d.Effective)
			}
			if d.Reset != tt.reset {
				t.Errorf("expected reset=%v, got %v", tt.reset, d.Reset)
			}
			if d.Severity != tt.severity {
				t.Errorf("expected severity %d, got %d (%q)", tt.severity, d.Severity, d.Message)
			}
			if (d.Severity == SeverityNone) != (d.Message == "") {
				t.Errorf("message %q does not agree with severity %d", d.Message, d.Severity)
			}
		})
	}
}

// The user-request mismatch warning is keyed on the previously seen
// published value rather than the effective one. Seeing the same mismatched
// value twice warns only the first time, and a value that flips back and
// forth warns on every flip.
func TestReconcileSplitTypeWarnsOncePerPublishedChange(t *testing.T) {
	requested, effective, last := doors, doors, route.Unset
	var warnings int
	for _, published := range []route.SplitType{keys, keys, keys, all, all, keys} {
		d := ReconcileSplitType(requested, effective, published, last)
		if d.Effective != doors || d.Reset {
			t.Fatalf("user request must stick without reset, got %+v", d)
		}
		if d.Severity == SeverityWarn {
			warnings++
		}
		effective, last = d.Effective, published
	}
	if warnings != 3 {
		t.Errorf("expected 3 warnings, got %d", warnings)
	}
}

func TestReconcileSplitTypeNeverResetsUserChoice(t *testing.T) {
	types := []route.SplitType{unset, all, doors, keys}
	for _, requested := range []route.SplitType{all, doors, keys} {
		for _, effective := range types {
			for _, published := range types {
				for _, last := range types {
					d := ReconcileSplitType(requested, effective, published, last)
					if d.Reset {
						t.Errorf("reset with requested=%s effective=%s published=%s", requested, effective, published)
					}
					if d.Effective != requested && effective == unset {
						t.Errorf("requested %s not adopted, got %s", requested, d.Effective)
					}
				}
			}
		}
	}
}

func TestDecisionChanged(t *testing.T) {
	d := Decision{Effective: keys}
	if !d.Changed(doors) || d.Changed(keys) {
		t.Error("Changed mismatch")
	}
}
