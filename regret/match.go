// Package regret implements the regret-matching operator: a pure function
// from cumulative regrets to the next iteration's action policy.
package regret

import (
	"errors"
	"fmt"

	"github.com/mthaler/fosgcfr/policy"
)

// ErrInconsistentKeys is returned by Match when the cumulative-regret table
// and the output policy do not cover exactly the same set of actions.
var ErrInconsistentKeys = errors.New("regret: cumulative regret table and output policy have different action keys")

// Match maps cumulative regrets to a probability distribution over actions,
// written into out:
//
//  1. pos[a] = max(0, cumulative[a])
//  2. sum = sum of pos[a]
//  3. if sum > 0, out[a] = pos[a] / sum
//  4. otherwise (all regrets non-positive), out[a] = 1/|actions| (uniform)
//
// Match is pure: it never reads out's prior values, only overwrites them.
// cumulative and out must have identical action keys, otherwise Match
// returns ErrInconsistentKeys and leaves out unmodified.
func Match[A comparable](cumulative map[A]float64, out *policy.ActionPolicy[A]) error {
	if len(cumulative) == 0 {
		return fmt.Errorf("%w: cumulative regret table is empty", ErrInconsistentKeys)
	}
	if out.Len() != len(cumulative) {
		return fmt.Errorf("%w: cumulative has %d actions, policy has %d", ErrInconsistentKeys, len(cumulative), out.Len())
	}
	for _, a := range out.Actions() {
		if _, ok := cumulative[a]; !ok {
			return fmt.Errorf("%w: policy has action not present in cumulative regret table", ErrInconsistentKeys)
		}
	}

	positiveSum := 0.0
	for _, r := range cumulative {
		if r > 0 {
			positiveSum += r
		}
	}

	if positiveSum > 0 {
		for a, r := range cumulative {
			if r > 0 {
				out.Set(a, r/positiveSum)
			} else {
				out.Set(a, 0)
			}
		}
		return nil
	}

	uniform := 1.0 / float64(len(cumulative))
	for a := range cumulative {
		out.Set(a, uniform)
	}
	return nil
}
