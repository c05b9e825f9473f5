// Package traversal implements a depth-first walk of a game tree with
// configurable hooks, usable both for CFR's internal traversal and for
// diagnostic tooling (counting nodes, dumping a tree, sampling a single
// trajectory).
package traversal

import (
	"fmt"

	"github.com/mthaler/fosgcfr/fosg"
)

// ChildResult pairs the action taken with the value folded up from the
// subtree it led to.
type ChildResult[R any] struct {
	Action any
	Value  R
}

// Hooks are the four points the walk calls into. V is the caller-supplied
// visitation data threaded down the branch (e.g. a growing infostate log
// and reach-probability vector); R is the value folded back up a branch
// (e.g. a per-player counterfactual value vector).
type Hooks[V any, R any] struct {
	// Root is called exactly once, for the root node, before PreChild.
	Root func(world fosg.WorldState, v V)

	// PreChild is called for every node (including the root) before its
	// children, if any, are iterated.
	PreChild func(world fosg.WorldState, v V)

	// Child is called once per outgoing edge and returns the visitation
	// data to carry into that child. This is where a caller extends
	// infostates and multiplies reach probabilities.
	Child func(v V, action any, parentWorld, childWorld fosg.WorldState) V

	// PostChild is called once a node's children (if any) have all been
	// visited, and must produce this node's folded value. For a terminal
	// node children is empty and the callback is expected to read the
	// reward directly from world; for an internal node it combines
	// children's values (e.g. weighted by the node's policy). Returning a
	// non-nil error aborts the walk and propagates out of Walk.
	PostChild func(world fosg.WorldState, v V, children []ChildResult[R]) (R, error)
}

type config struct {
	actionSet        func(fosg.Game, fosg.WorldState) []any
	singleTrajectory bool
}

// Option configures a Walk call.
type Option func(*config)

// WithActionSet overrides the default child action set (enumerate all
// legal actions: chance outcomes at a chance node, the active player's
// legal actions otherwise). Supplying a set of size 1 per node turns the
// walk into a single-trajectory sample, as used by sampling CFR variants.
func WithActionSet(f func(game fosg.Game, world fosg.WorldState) []any) Option {
	return func(c *config) { c.actionSet = f }
}

// WithSingleTrajectory, when true, moves (rather than clones) the world
// state into the child. Only safe when the actionSet function returns at
// most one action per node, since the parent world is not preserved.
func WithSingleTrajectory(single bool) Option {
	return func(c *config) { c.singleTrajectory = single }
}

func defaultActionSet(game fosg.Game, world fosg.WorldState) []any {
	active := game.ActivePlayer(world)
	if active.IsChance() {
		outcomes := game.ChanceActions(world)
		out := make([]any, len(outcomes))
		copy(out, outcomes)
		return out
	}
	actions := game.Actions(active, world)
	out := make([]any, len(actions))
	copy(out, actions)
	return out
}

// frame is one entry of the explicit stack: a (world, visitationData)
// pair together with the work still owed for that node (the actions not
// yet expanded into children, and the results folded up from the
// children already visited).
type frame[V any, R any] struct {
	world    fosg.WorldState
	v        V
	action   any // the action that produced this node from its parent; unused at the root
	started  bool
	actions  []any
	next     int
	children []ChildResult[R]
}

// Walk performs a depth-first traversal of game starting at root, calling
// hooks as described above, and returns the value PostChild produced for
// the root. The traversal is driven by an explicit LIFO stack of
// (world, visitationData) frames rather than recursion: each frame is
// expanded into its children one at a time, and a frame is only popped
// (firing PostChild) once every child it pushed has itself been popped
// and folded into the frame's children slice.
func Walk[V any, R any](game fosg.Game, root fosg.WorldState, init V, hooks Hooks[V, R], opts ...Option) (R, error) {
	var zero R
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.actionSet == nil {
		cfg.actionSet = defaultActionSet
	}

	if hooks.Root != nil {
		hooks.Root(root, init)
	}

	stack := []*frame[V, R]{{world: root, v: init}}

	for {
		top := stack[len(stack)-1]

		if !top.started {
			top.started = true
			if hooks.PreChild != nil {
				hooks.PreChild(top.world, top.v)
			}

			if game.IsTerminal(top.world) {
				value, err := hooks.PostChild(top.world, top.v, nil)
				if err != nil {
					return zero, err
				}
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					return value, nil
				}
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, ChildResult[R]{Action: top.action, Value: value})
				continue
			}

			actions := cfg.actionSet(game, top.world)
			if len(actions) == 0 {
				return zero, fmt.Errorf("traversal: non-terminal world state has no legal actions")
			}
			if cfg.singleTrajectory && len(actions) > 1 {
				return zero, fmt.Errorf("traversal: single-trajectory walk requires at most one action per node, got %d", len(actions))
			}
			top.actions = actions
			top.children = make([]ChildResult[R], 0, len(actions))
			continue
		}

		if top.next < len(top.actions) {
			action := top.actions[top.next]
			top.next++

			childWorld := top.world
			if !cfg.singleTrajectory {
				childWorld = top.world.Clone()
			}

			after, err := game.Transition(childWorld, action)
			if err != nil {
				return zero, fmt.Errorf("traversal: transition failed: %w", err)
			}

			childV := top.v
			if hooks.Child != nil {
				childV = hooks.Child(top.v, action, top.world, after)
			}

			stack = append(stack, &frame[V, R]{world: after, v: childV, action: action})
			continue
		}

		value, err := hooks.PostChild(top.world, top.v, top.children)
		if err != nil {
			return zero, err
		}
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return value, nil
		}
		parent := stack[len(stack)-1]
		parent.children = append(parent.children, ChildResult[R]{Action: top.action, Value: value})
	}
}
