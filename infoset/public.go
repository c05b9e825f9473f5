package infoset

import (
	"fmt"
	"strings"
)

// PublicLog is the public-observation analogue of Log: an append-only,
// ordered sequence of public observations shared across all players. It
// has no player tag, since public state is by definition not attributed
// to one player, and carries smaller data than a per-player Log.
//
// Instantiating PublicLog at all is optional (spec §3): a game traversal
// that does not need public states can simply never construct one, at
// zero extra cost.
type PublicLog[O comparable] struct {
	observations []O
	key          string
	keyValid     bool
}

// NewPublic returns an empty public-observation log.
func NewPublic[O comparable]() *PublicLog[O] {
	return &PublicLog[O]{}
}

// Append extends the sequence with one more public observation.
func (l *PublicLog[O]) Append(public O) {
	l.observations = append(l.observations, public)
	l.keyValid = false
}

// Len returns the number of observations recorded so far.
func (l *PublicLog[O]) Len() int { return len(l.observations) }

// At returns the i-th observation.
func (l *PublicLog[O]) At(i int) O { return l.observations[i] }

// Clone returns an independent copy.
func (l *PublicLog[O]) Clone() *PublicLog[O] {
	return &PublicLog[O]{
		observations: append([]O(nil), l.observations...),
		key:          l.key,
		keyValid:     l.keyValid,
	}
}

// Equal reports whether l and other have an element-wise equal sequence.
func (l *PublicLog[O]) Equal(other *PublicLog[O]) bool {
	if len(l.observations) != len(other.observations) {
		return false
	}
	for i, o := range l.observations {
		if o != other.observations[i] {
			return false
		}
	}
	return true
}

// Key returns a canonical string uniquely determined by the observation
// sequence, usable as a map key.
func (l *PublicLog[O]) Key() string {
	if l.keyValid {
		return l.key
	}
	var b strings.Builder
	for _, o := range l.observations {
		fmt.Fprintf(&b, "|%v", o)
	}
	l.key = b.String()
	l.keyValid = true
	return l.key
}
