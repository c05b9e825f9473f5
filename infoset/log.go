// Package infoset implements the append-only observation log that
// identifies a player's decision point: the information state (infostate).
package infoset

import (
	"fmt"
	"hash/maphash"
	"strings"

	"github.com/mthaler/fosgcfr/fosg"
)

var seed = maphash.MakeSeed()

// Pair is a single (public, private) observation pair, mirroring
// fosg.ObservationPair but constrained to comparable observation types so
// infostates built from it can be used (via Key) as map keys.
type Pair[O comparable] struct {
	Public  O
	Private O
}

// Log is a player's complete observational history from the start of the
// game up to a decision point: an ordered, append-only sequence of
// (public, private) observation pairs, plus the owning player's identity.
//
// Two world states that yield an equal Log for player P are, by
// definition, indistinguishable to P: CFR's strategies are defined on Log
// equality classes, and the engine never inspects world state directly to
// test infostate equivalence. Because Go maps cannot key on a type holding
// a slice, Key returns a canonical comparable representation suitable for
// use as a policy.StateTable key; Equal and Hash operate on the Log value
// itself for callers that hold one.
type Log[O comparable] struct {
	player    fosg.Player
	pairs     []Pair[O]
	key       string
	hash      uint64
	keyValid  bool
	hashValid bool
}

// New returns an empty infostate log owned by player.
func New[O comparable](player fosg.Player) *Log[O] {
	return &Log[O]{player: player}
}

// Append extends the sequence with one more observation pair. The cached
// key and hash are invalidated, not recomputed, so repeated appends stay
// O(1) amortized; Key and Hash recompute lazily on next request.
func (l *Log[O]) Append(public, private O) {
	l.pairs = append(l.pairs, Pair[O]{Public: public, Private: private})
	l.keyValid = false
	l.hashValid = false
}

// Len returns the number of observation pairs recorded so far.
func (l *Log[O]) Len() int { return len(l.pairs) }

// At returns the i-th observation pair.
func (l *Log[O]) At(i int) Pair[O] { return l.pairs[i] }

// Player returns the owning player.
func (l *Log[O]) Player() fosg.Player { return l.player }

// Clone returns an independent copy that can be appended to without
// affecting l.
func (l *Log[O]) Clone() *Log[O] {
	return &Log[O]{
		player:    l.player,
		pairs:     append([]Pair[O](nil), l.pairs...),
		key:       l.key,
		hash:      l.hash,
		keyValid:  l.keyValid,
		hashValid: l.hashValid,
	}
}

// Equal reports whether l and other have the same owning player and an
// element-wise equal observation sequence.
func (l *Log[O]) Equal(other *Log[O]) bool {
	if l.player != other.player || len(l.pairs) != len(other.pairs) {
		return false
	}
	for i, p := range l.pairs {
		if p != other.pairs[i] {
			return false
		}
	}
	return true
}

// Key returns a canonical string uniquely determined by (player, sequence):
// two logs built by appending the same observations from equal starts
// produce the same Key, regardless of the concrete observation type O.
// This is the value meant to be used as the key type in a
// policy.StateTable[I, A].
func (l *Log[O]) Key() string {
	if l.keyValid {
		return l.key
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d", l.player)
	for _, p := range l.pairs {
		fmt.Fprintf(&b, "|%v,%v", p.Public, p.Private)
	}
	l.key = b.String()
	l.keyValid = true
	return l.key
}

// Hash returns a deterministic hash over (player, sequence), computed
// lazily and cached until the next Append.
func (l *Log[O]) Hash() uint64 {
	if l.hashValid {
		return l.hash
	}
	var h maphash.Hash
	h.SetSeed(seed)
	_, _ = h.WriteString(l.Key())
	l.hash = h.Sum64()
	l.hashValid = true
	return l.hash
}
