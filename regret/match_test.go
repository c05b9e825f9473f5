package regret

import (
	"errors"
	"testing"

	"github.com/mthaler/fosgcfr/policy"
)

func newPolicy(actions ...string) *policy.ActionPolicy[string] {
	p := policy.NewActionPolicy[string](0)
	for _, a := range actions {
		p.Set(a, 0)
	}
	return p
}

func TestMatchPositiveRegrets(t *testing.T) {
	cumulative := map[string]float64{"fold": 1, "call": 3, "raise": -5}
	out := newPolicy("fold", "call", "raise")

	if err := Match(cumulative, out); err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if got := out.At("fold"); abs(got-0.25) > 1e-12 {
		t.Errorf("At(fold) = %v, want 0.25", got)
	}
	if got := out.At("call"); abs(got-0.75) > 1e-12 {
		t.Errorf("At(call) = %v, want 0.75", got)
	}
	if got := out.At("raise"); got != 0 {
		t.Errorf("At(raise) = %v, want 0 (non-positive regret must get zero weight)", got)
	}
}

func TestMatchAllNonPositiveUniform(t *testing.T) {
	cumulative := map[string]float64{"a": 0, "b": -1, "c": -2}
	out := newPolicy("a", "b", "c")

	if err := Match(cumulative, out); err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	for _, a := range []string{"a", "b", "c"} {
		if got := out.At(a); abs(got-1.0/3) > 1e-12 {
			t.Errorf("At(%s) = %v, want 1/3", a, got)
		}
	}
}

func TestMatchInconsistentKeys(t *testing.T) {
	cumulative := map[string]float64{"a": 1, "b": 1}
	out := newPolicy("a", "b", "c")

	err := Match(cumulative, out)
	if !errors.Is(err, ErrInconsistentKeys) {
		t.Fatalf("Match() error = %v, want ErrInconsistentKeys", err)
	}
}

func TestMatchIsPure(t *testing.T) {
	cumulative := map[string]float64{"a": 1, "b": -1}
	out := newPolicy("a", "b")
	out.Set("a", 0.1)
	out.Set("b", 0.9)

	if err := Match(cumulative, out); err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if got := out.At("a"); got != 1 {
		t.Errorf("At(a) = %v, want 1 (prior value must not influence result)", got)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
