// Package cfr implements the Vanilla Counterfactual Regret Minimization
// engine: the depth-first traversal that propagates reach probabilities
// forward, folds counterfactual values backward, updates cumulative
// regret, and accumulates the average strategy, for any game satisfying
// the fosg.Game contract.
package cfr

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/mthaler/fosgcfr/fosg"
	"github.com/mthaler/fosgcfr/infoset"
	"github.com/mthaler/fosgcfr/policy"
	"github.com/mthaler/fosgcfr/regret"
	"github.com/mthaler/fosgcfr/traversal"
)

// Engine drives Vanilla CFR over a fosg.Game. An Engine owns its policy
// tables, regret tables and player schedule exclusively for the duration
// of an Iterate/IteratePlayer call; it is not safe for concurrent use by
// multiple goroutines (spec §5: "no parallel traversal" inside the core).
type Engine struct {
	game    fosg.Game
	root    fosg.WorldState
	players []fosg.Player
	config  Config
	logger  *log.Logger

	schedule *schedule

	currentPolicy map[fosg.Player]*policy.StateTable[string, any]
	avgPolicy     map[fosg.Player]*policy.StateTable[string, any]
	regrets       map[string]map[any]float64

	iteration int
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger attaches a *log.Logger the engine uses for debug-level
// tracing (one event per completed iteration, naming the updated player
// under alternating updates). Defaults to a logger
// writing to io.Discard, matching the teacher's convention
// (internal/server.Connection) of plumbing a logger value through
// constructors rather than reaching for a package-global logger inside
// library code.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewVanilla builds an Engine for game, rooted at root, updating the
// given non-chance players. root is never mutated directly: every
// Iterate/IteratePlayer call traverses a fresh Clone() of it. This
// mirrors the library surface spec §6 names as make_vanilla.
func NewVanilla(game fosg.Game, root fosg.WorldState, players []fosg.Player, config Config, opts ...Option) (*Engine, error) {
	if root == nil {
		return nil, InvalidArgumentf("root world state must not be nil")
	}
	if len(players) == 0 {
		return nil, InvalidArgumentf("at least one non-chance player is required")
	}
	seen := make(map[fosg.Player]bool, len(players))
	for _, p := range players {
		if !p.IsKnown() {
			return nil, InvalidArgumentf("player %s is not a valid non-chance player identity", p)
		}
		if seen[p] {
			return nil, InvalidArgumentf("player %s listed more than once", p)
		}
		seen[p] = true
	}

	e := &Engine{
		game:          game,
		root:          root,
		players:       append([]fosg.Player(nil), players...),
		config:        config,
		logger:        log.New(io.Discard),
		schedule:      newSchedule(players),
		currentPolicy: make(map[fosg.Player]*policy.StateTable[string, any]),
		avgPolicy:     make(map[fosg.Player]*policy.StateTable[string, any]),
		regrets:       make(map[string]map[any]float64),
	}
	for _, p := range players {
		e.currentPolicy[p] = policy.NewStateTable[string, any](policy.UniformDefault[string, any]{})
		e.avgPolicy[p] = policy.NewStateTable[string, any](policy.ZeroDefault[string, any]{})
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Iteration returns the number of completed iterations.
func (e *Engine) Iteration() int { return e.iteration }

// Policy returns player's current-strategy table. The returned table is
// shared with the engine and mutates on subsequent iterations.
func (e *Engine) Policy(player fosg.Player) (*policy.StateTable[string, any], error) {
	t, ok := e.currentPolicy[player]
	if !ok {
		return nil, InvalidArgumentf("player %s is not part of this engine", player)
	}
	return t, nil
}

// AveragePolicy returns player's running average-strategy table. Entries
// are unnormalized realization-plan sums (spec §4.G); call
// StateTable.NormalizeAll before reading it as a distribution.
func (e *Engine) AveragePolicy(player fosg.Player) (*policy.StateTable[string, any], error) {
	t, ok := e.avgPolicy[player]
	if !ok {
		return nil, InvalidArgumentf("player %s is not part of this engine", player)
	}
	return t, nil
}

func (e *Engine) isKnownPlayer(p fosg.Player) bool {
	for _, known := range e.players {
		if known == p {
			return true
		}
	}
	return false
}

// Iterate runs n iterations. Under alternating updates it advances the
// player schedule once per iteration (dequeue front, update, enqueue
// back); under simultaneous updates every player updates on every call.
func (e *Engine) Iterate(n int) error {
	if n < 0 {
		return InvalidArgumentf("n must be >= 0, got %d", n)
	}
	for i := 0; i < n; i++ {
		if e.config.AlternatingUpdates {
			p := e.schedule.popFront()
			if err := e.iterateOnce(map[fosg.Player]bool{p: true}); err != nil {
				return err
			}
			e.schedule.pushBack(p)
			e.logger.Debug("cfr: iteration complete", "player", p.String(), "iteration", e.iteration)
		} else {
			updating := make(map[fosg.Player]bool, len(e.players))
			for _, p := range e.players {
				updating[p] = true
			}
			if err := e.iterateOnce(updating); err != nil {
				return err
			}
			e.logger.Debug("cfr: simultaneous iteration complete", "iteration", e.iteration)
		}
	}
	return nil
}

// IteratePlayer runs one iteration updating exactly player, regardless of
// the schedule's current front. player is moved to the front of the
// schedule but, unlike Iterate, is not dequeued: a second call to
// IteratePlayer with the same player repeats it, and a subsequent plain
// Iterate call picks it up as the new front and cycles it to the back.
// Only valid under alternating updates.
func (e *Engine) IteratePlayer(player fosg.Player) error {
	if !e.config.AlternatingUpdates {
		return InvalidArgumentf("IteratePlayer requires Config.AlternatingUpdates")
	}
	if player.IsChance() {
		return InvalidArgumentf("cannot iterate the Chance player")
	}
	if !e.isKnownPlayer(player) {
		return InvalidArgumentf("player %s is not part of this game", player)
	}
	e.schedule.moveToFront(player)
	if err := e.iterateOnce(map[fosg.Player]bool{player: true}); err != nil {
		return err
	}
	e.logger.Debug("cfr: explicit iteration complete", "player", player.String(), "iteration", e.iteration)
	return nil
}

// nodeData is the visitation data threaded down one traversal branch.
type nodeData struct {
	reach      map[fosg.Player]float64 // includes fosg.Chance
	infostates map[fosg.Player]*infoset.Log[any]
	public     *infoset.PublicLog[any] // nil unless Config.StorePublicStates
}

// values is the per-player value vector folded back up one branch.
type values map[fosg.Player]float64

func (e *Engine) iterateOnce(updating map[fosg.Player]bool) error {
	root := e.root.Clone()

	reach := make(map[fosg.Player]float64, len(e.players)+1)
	reach[fosg.Chance] = 1.0
	for _, p := range e.players {
		reach[p] = 1.0
	}
	infostates := make(map[fosg.Player]*infoset.Log[any], len(e.players))
	for _, p := range e.players {
		infostates[p] = infoset.New[any](p)
	}
	var public *infoset.PublicLog[any]
	if e.config.StorePublicStates {
		public = infoset.NewPublic[any]()
	}
	init := nodeData{reach: reach, infostates: infostates, public: public}

	hooks := traversal.Hooks[nodeData, values]{
		Child:     e.traversalChild,
		PostChild: e.traversalPostChild(updating),
	}

	_, err := traversal.Walk(e.game, root, init, hooks)
	if err != nil {
		return err
	}
	e.iteration++
	return nil
}

func copyReach(src map[fosg.Player]float64) map[fosg.Player]float64 {
	dst := make(map[fosg.Player]float64, len(src))
	for p, v := range src {
		dst[p] = v
	}
	return dst
}

func (e *Engine) traversalChild(v nodeData, action any, parentWorld, childWorld fosg.WorldState) nodeData {
	active := e.game.ActivePlayer(parentWorld)

	newReach := copyReach(v.reach)
	if active.IsChance() {
		newReach[fosg.Chance] *= e.game.ChanceProbability(parentWorld, action)
	} else {
		legalActions := e.game.Actions(active, parentWorld)
		current := e.currentPolicy[active].Lookup(v.infostates[active].Key(), legalActions)
		newReach[active] *= current.At(action)
	}

	publicObs := e.game.PublicObservation(parentWorld, action, childWorld)

	newInfostates := make(map[fosg.Player]*infoset.Log[any], len(v.infostates))
	for p, log := range v.infostates {
		clone := log.Clone()
		clone.Append(publicObs, e.game.PrivateObservation(p, parentWorld, action, childWorld))
		newInfostates[p] = clone
	}

	var newPublic *infoset.PublicLog[any]
	if v.public != nil {
		newPublic = v.public.Clone()
		newPublic.Append(publicObs)
	}

	return nodeData{reach: newReach, infostates: newInfostates, public: newPublic}
}

func (e *Engine) traversalPostChild(updating map[fosg.Player]bool) func(fosg.WorldState, nodeData, []traversal.ChildResult[values]) (values, error) {
	return func(world fosg.WorldState, v nodeData, children []traversal.ChildResult[values]) (values, error) {
		if e.game.IsTerminal(world) {
			result := make(values, len(e.players))
			for _, p := range e.players {
				result[p] = e.game.Reward(p, world)
			}
			return result, nil
		}

		active := e.game.ActivePlayer(world)

		if active.IsChance() {
			result := make(values, len(e.players))
			for _, c := range children {
				prob := e.game.ChanceProbability(world, c.Action)
				for p, val := range c.Value {
					result[p] += prob * val
				}
			}
			return result, nil
		}

		key := v.infostates[active].Key()
		actionsList := make([]any, len(children))
		for i, c := range children {
			actionsList[i] = c.Action
		}
		currentEntry := e.currentPolicy[active].Lookup(key, actionsList)

		result := make(values, len(e.players))
		for _, c := range children {
			weight := currentEntry.At(c.Action)
			for p, val := range c.Value {
				result[p] += weight * val
			}
		}

		if updating[active] {
			cf := 1.0
			for q, r := range v.reach {
				if q != active {
					cf *= r
				}
			}
			reachActive := v.reach[active]

			cumulative := e.regretTable(key, actionsList)
			for _, c := range children {
				cumulative[c.Action] += cf * (c.Value[active] - result[active])
			}
			if e.config.ClampNegativeRegrets {
				for a, r := range cumulative {
					if r < 0 {
						cumulative[a] = 0
					}
				}
			}

			avgEntry := e.avgPolicy[active].Lookup(key, actionsList)
			for _, a := range actionsList {
				avgEntry.Set(a, avgEntry.At(a)+reachActive*currentEntry.At(a))
			}

			if err := regret.Match(cumulative, currentEntry); err != nil {
				return nil, LogicErrorf("infostate %q: %v", key, err)
			}
		}

		return result, nil
	}
}

func (e *Engine) regretTable(key string, actionsList []any) map[any]float64 {
	m, ok := e.regrets[key]
	if !ok {
		m = make(map[any]float64, len(actionsList))
		for _, a := range actionsList {
			m[a] = 0
		}
		e.regrets[key] = m
	}
	return m
}
