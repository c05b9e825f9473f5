// Package policy implements the action-policy and state-policy machinery
// used to represent both the current CFR strategy and the accumulated
// average strategy.
package policy

import "errors"

// ErrZeroSum is returned by NormalizeInPlace when the policy's weights sum
// to zero (or less), which would require dividing by zero.
var ErrZeroSum = errors.New("policy: cannot normalize a policy whose weights sum to <= 0")

// ActionPolicy is a finite mapping from actions to non-negative real
// weights. Constructors store the weights they are given as-is, so a
// policy is normalized only if those weights sum to 1 (e.g.
// UniformActionPolicy with weight 1/len(actions)); arithmetic performed by
// callers (e.g. accumulating an average strategy) may leave it
// unnormalized until NormalizeInPlace is called.
type ActionPolicy[A comparable] struct {
	weights map[A]float64
	// Default is returned by At for an action with no explicit entry.
	Default float64
}

// NewActionPolicy returns an empty policy whose unknown-action lookups
// return def.
func NewActionPolicy[A comparable](def float64) *ActionPolicy[A] {
	return &ActionPolicy[A]{weights: make(map[A]float64), Default: def}
}

// UniformActionPolicy returns a policy assigning weight to every action in
// actions. Used to build uniform initial policies over a legal action set.
func UniformActionPolicy[A comparable](actions []A, weight float64) *ActionPolicy[A] {
	p := NewActionPolicy[A](0)
	for _, a := range actions {
		p.weights[a] = weight
	}
	return p
}

// NewActionPolicyFromMap wraps a prebuilt mapping. The map is used directly,
// not copied.
func NewActionPolicyFromMap[A comparable](weights map[A]float64, def float64) *ActionPolicy[A] {
	if weights == nil {
		weights = make(map[A]float64)
	}
	return &ActionPolicy[A]{weights: weights, Default: def}
}

// At returns the weight of a, defaulting to Default if absent.
func (p *ActionPolicy[A]) At(a A) float64 {
	if w, ok := p.weights[a]; ok {
		return w
	}
	return p.Default
}

// Set assigns a's weight, inserting the entry if absent.
func (p *ActionPolicy[A]) Set(a A, w float64) {
	p.weights[a] = w
}

// Actions returns the actions with explicit entries. Order is unspecified.
func (p *ActionPolicy[A]) Actions() []A {
	out := make([]A, 0, len(p.weights))
	for a := range p.weights {
		out = append(out, a)
	}
	return out
}

// Len returns the number of actions with an explicit entry.
func (p *ActionPolicy[A]) Len() int {
	return len(p.weights)
}

// Sum returns the sum of all explicit weights.
func (p *ActionPolicy[A]) Sum() float64 {
	total := 0.0
	for _, w := range p.weights {
		total += w
	}
	return total
}

// NormalizeInPlace divides every weight by the sum of weights. The sum must
// be strictly positive; calling this on an all-zero (or negative-sum)
// policy returns ErrZeroSum and leaves the policy unmodified.
func (p *ActionPolicy[A]) NormalizeInPlace() error {
	total := p.Sum()
	if total <= 0 {
		return ErrZeroSum
	}
	for a, w := range p.weights {
		p.weights[a] = w / total
	}
	return nil
}

// Equal reports whether p and other have identical action->weight mappings
// (Default is not compared, since it only affects lookups of actions
// neither policy has an explicit entry for).
func (p *ActionPolicy[A]) Equal(other *ActionPolicy[A]) bool {
	if len(p.weights) != len(other.weights) {
		return false
	}
	for a, w := range p.weights {
		ow, ok := other.weights[a]
		if !ok || ow != w {
			return false
		}
	}
	return true
}
