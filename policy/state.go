package policy

// DefaultPolicy synthesizes an ActionPolicy for an information state the
// first time it is queried. I is the infostate key type (must be
// comparable, typically infoset.Log's Key()); A is the action type.
type DefaultPolicy[I comparable, A comparable] interface {
	Synthesize(infostate I, legalActions []A) *ActionPolicy[A]
}

// UniformDefault assigns 1/|legalActions| to each legal action. Used to
// initialize the current strategy the first time an infostate is visited.
type UniformDefault[I comparable, A comparable] struct{}

// Synthesize implements DefaultPolicy.
func (UniformDefault[I, A]) Synthesize(_ I, legalActions []A) *ActionPolicy[A] {
	if len(legalActions) == 0 {
		return NewActionPolicy[A](0)
	}
	return UniformActionPolicy(legalActions, 1.0/float64(len(legalActions)))
}

// ZeroDefault assigns 0 to each legal action. Used for the average-strategy
// table, since averages are accumulated additively and an unseen entry must
// start at 0, not uniform.
type ZeroDefault[I comparable, A comparable] struct{}

// Synthesize implements DefaultPolicy.
func (ZeroDefault[I, A]) Synthesize(_ I, legalActions []A) *ActionPolicy[A] {
	return UniformActionPolicy(legalActions, 0)
}

// StateTable is a mapping infostate -> ActionPolicy, backed by a pluggable
// DefaultPolicy that synthesizes an entry the first time an infostate is
// queried. Infostates are only materialized when the traversal actually
// reaches them (first-visit-lazy).
type StateTable[I comparable, A comparable] struct {
	entries map[I]*ActionPolicy[A]
	Default DefaultPolicy[I, A]
}

// NewStateTable returns an empty table backed by def.
func NewStateTable[I comparable, A comparable](def DefaultPolicy[I, A]) *StateTable[I, A] {
	return &StateTable[I, A]{
		entries: make(map[I]*ActionPolicy[A]),
		Default: def,
	}
}

// Lookup returns the stored ActionPolicy for infostate, or synthesizes one
// via Default (and stores it) if this is the first visit.
func (t *StateTable[I, A]) Lookup(infostate I, legalActions []A) *ActionPolicy[A] {
	if p, ok := t.entries[infostate]; ok {
		return p
	}
	p := t.Default.Synthesize(infostate, legalActions)
	t.entries[infostate] = p
	return p
}

// Get returns the stored ActionPolicy for infostate without synthesizing
// one, and whether it was present.
func (t *StateTable[I, A]) Get(infostate I) (*ActionPolicy[A], bool) {
	p, ok := t.entries[infostate]
	return p, ok
}

// Infostates returns the infostates with a materialized entry. Order is
// unspecified.
func (t *StateTable[I, A]) Infostates() []I {
	out := make([]I, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	return out
}

// Len returns the number of materialized infostates.
func (t *StateTable[I, A]) Len() int {
	return len(t.entries)
}

// NormalizeAll normalizes every materialized entry in place. Used to turn
// the unnormalized average-strategy running sums into a proper
// distribution before consumption; entries whose weights sum to <= 0 are
// left unmodified (they have never been updated, which StateTable.Lookup
// already guarantees returns a valid uniform or zero policy on first
// visit).
func (t *StateTable[I, A]) NormalizeAll() {
	for _, p := range t.entries {
		if p.Sum() > 0 {
			_ = p.NormalizeInPlace()
		}
	}
}
