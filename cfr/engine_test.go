package cfr

import (
	"math"
	"testing"

	"github.com/mthaler/fosgcfr/fosg"
)

// trivialWorld is the spec's single-action boundary game: Alex has exactly
// one legal action, "go", which ends the game with reward +1 for every
// player.
type trivialWorld struct{ acted bool }

func (w *trivialWorld) Clone() fosg.WorldState { c := *w; return &c }

type trivialGame struct{}

func (trivialGame) Traits() fosg.Traits { return fosg.Traits{MaxPlayers: 2} }
func (trivialGame) Players(world fosg.WorldState) []fosg.Player {
	return []fosg.Player{fosg.Alex, fosg.Bob}
}
func (trivialGame) ActivePlayer(world fosg.WorldState) fosg.Player { return fosg.Alex }
func (trivialGame) Actions(player fosg.Player, world fosg.WorldState) []any {
	return []any{"go"}
}
func (trivialGame) ChanceActions(world fosg.WorldState) []any                   { return nil }
func (trivialGame) ChanceProbability(world fosg.WorldState, outcome any) float64 { return 0 }
func (trivialGame) IsTerminal(world fosg.WorldState) bool                       { return world.(*trivialWorld).acted }
func (trivialGame) IsPartaking(world fosg.WorldState, player fosg.Player) bool  { return true }
func (trivialGame) Reward(player fosg.Player, world fosg.WorldState) float64    { return 1.0 }
func (trivialGame) Transition(world fosg.WorldState, actionOrOutcome any) (fosg.WorldState, error) {
	w := world.(*trivialWorld)
	w.acted = true
	return w, nil
}
func (trivialGame) PrivateObservation(observer fosg.Player, before fosg.WorldState, actionOrOutcome any, after fosg.WorldState) any {
	return actionOrOutcome
}
func (trivialGame) PublicObservation(before fosg.WorldState, actionOrOutcome any, after fosg.WorldState) any {
	return actionOrOutcome
}
func (trivialGame) PrivateHistory(player fosg.Player, world fosg.WorldState) []fosg.ObservationPair {
	return nil
}
func (trivialGame) PublicHistory(world fosg.WorldState) []any { return nil }
func (trivialGame) OpenHistory(world fosg.WorldState) []fosg.ObservationPair { return nil }

func TestEngineTrivialSingleActionGame(t *testing.T) {
	engine, err := NewVanilla(trivialGame{}, &trivialWorld{}, []fosg.Player{fosg.Alex}, Config{AlternatingUpdates: true})
	if err != nil {
		t.Fatalf("NewVanilla() error = %v", err)
	}
	if err := engine.Iterate(1); err != nil {
		t.Fatalf("Iterate(1) error = %v", err)
	}
	if engine.Iteration() != 1 {
		t.Fatalf("Iteration() = %d, want 1", engine.Iteration())
	}

	avg, err := engine.AveragePolicy(fosg.Alex)
	if err != nil {
		t.Fatalf("AveragePolicy() error = %v", err)
	}
	keys := avg.Infostates()
	if len(keys) != 1 {
		t.Fatalf("len(Infostates()) = %d, want 1", len(keys))
	}
	entry, _ := avg.Get(keys[0])
	if got := entry.At("go"); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("average_policy[infostate][go] = %v, want 1.0", got)
	}

	if got := engine.regrets[keys[0]]["go"]; math.Abs(got) > 1e-12 {
		t.Errorf("regret[infostate][go] = %v, want 0.0", got)
	}
}

func TestEngineAlternatingScheduleCycling(t *testing.T) {
	engine, err := NewVanilla(trivialGame{}, &trivialWorld{}, []fosg.Player{fosg.Alex, fosg.Bob}, Config{AlternatingUpdates: true})
	if err != nil {
		t.Fatalf("NewVanilla() error = %v", err)
	}
	if got := engine.schedule.snapshot(); len(got) != 2 || got[0] != fosg.Alex || got[1] != fosg.Bob {
		t.Fatalf("initial schedule = %v, want [Alex Bob]", got)
	}

	if err := engine.IteratePlayer(fosg.Bob); err != nil {
		t.Fatalf("IteratePlayer(Bob) error = %v", err)
	}
	if got := engine.schedule.snapshot(); len(got) != 2 || got[0] != fosg.Bob || got[1] != fosg.Alex {
		t.Fatalf("schedule after IteratePlayer(Bob) = %v, want [Bob Alex]", got)
	}

	if err := engine.Iterate(1); err != nil {
		t.Fatalf("Iterate(1) error = %v", err)
	}
	if got := engine.schedule.snapshot(); len(got) != 2 || got[0] != fosg.Alex || got[1] != fosg.Bob {
		t.Fatalf("schedule after plain Iterate(1) = %v, want [Alex Bob]", got)
	}
}

func TestEngineRejectsChanceAndUnknownPlayers(t *testing.T) {
	engine, err := NewVanilla(trivialGame{}, &trivialWorld{}, []fosg.Player{fosg.Alex}, Config{AlternatingUpdates: true})
	if err != nil {
		t.Fatalf("NewVanilla() error = %v", err)
	}
	if err := engine.IteratePlayer(fosg.Chance); err == nil {
		t.Error("expected an error iterating the Chance player")
	}
	if err := engine.IteratePlayer(fosg.Bob); err == nil {
		t.Error("expected an error iterating a player not part of the game")
	}
}

func TestEngineSimultaneousRejectsIteratePlayer(t *testing.T) {
	engine, err := NewVanilla(trivialGame{}, &trivialWorld{}, []fosg.Player{fosg.Alex}, Config{AlternatingUpdates: false})
	if err != nil {
		t.Fatalf("NewVanilla() error = %v", err)
	}
	if err := engine.IteratePlayer(fosg.Alex); err == nil {
		t.Error("expected IteratePlayer to fail under simultaneous updates")
	}
}

// chanceWorld models a game with no player decisions at all: chance
// deals an outcome and the game ends immediately.
type chanceWorld struct {
	dealt  bool
	reward float64
}

func (w *chanceWorld) Clone() fosg.WorldState { c := *w; return &c }

type chanceOnlyGame struct{}

func (chanceOnlyGame) Traits() fosg.Traits { return fosg.Traits{MaxPlayers: 1, Stochasticity: fosg.StochasticChance} }
func (chanceOnlyGame) Players(world fosg.WorldState) []fosg.Player { return []fosg.Player{fosg.Alex} }
func (chanceOnlyGame) ActivePlayer(world fosg.WorldState) fosg.Player { return fosg.Chance }
func (chanceOnlyGame) Actions(player fosg.Player, world fosg.WorldState) []any { return nil }
func (chanceOnlyGame) ChanceActions(world fosg.WorldState) []any { return []any{2.0, 4.0} }
func (chanceOnlyGame) ChanceProbability(world fosg.WorldState, outcome any) float64 { return 0.5 }
func (chanceOnlyGame) IsTerminal(world fosg.WorldState) bool { return world.(*chanceWorld).dealt }
func (chanceOnlyGame) IsPartaking(world fosg.WorldState, player fosg.Player) bool { return true }
func (chanceOnlyGame) Reward(player fosg.Player, world fosg.WorldState) float64 {
	return world.(*chanceWorld).reward
}
func (chanceOnlyGame) Transition(world fosg.WorldState, actionOrOutcome any) (fosg.WorldState, error) {
	w := world.(*chanceWorld)
	w.dealt = true
	w.reward = actionOrOutcome.(float64)
	return w, nil
}
func (chanceOnlyGame) PrivateObservation(observer fosg.Player, before fosg.WorldState, actionOrOutcome any, after fosg.WorldState) any {
	return actionOrOutcome
}
func (chanceOnlyGame) PublicObservation(before fosg.WorldState, actionOrOutcome any, after fosg.WorldState) any {
	return actionOrOutcome
}
func (chanceOnlyGame) PrivateHistory(player fosg.Player, world fosg.WorldState) []fosg.ObservationPair {
	return nil
}
func (chanceOnlyGame) PublicHistory(world fosg.WorldState) []any { return nil }
func (chanceOnlyGame) OpenHistory(world fosg.WorldState) []fosg.ObservationPair { return nil }

func TestEngineChanceOnlyGameCompletes(t *testing.T) {
	engine, err := NewVanilla(chanceOnlyGame{}, &chanceWorld{}, []fosg.Player{fosg.Alex}, Config{AlternatingUpdates: true})
	if err != nil {
		t.Fatalf("NewVanilla() error = %v", err)
	}
	if err := engine.Iterate(1); err != nil {
		t.Fatalf("Iterate(1) error = %v", err)
	}
	if len(engine.regrets) != 0 {
		t.Errorf("len(regrets) = %d, want 0 (no player ever decides)", len(engine.regrets))
	}
	avg, _ := engine.AveragePolicy(fosg.Alex)
	if avg.Len() != 0 {
		t.Errorf("AveragePolicy.Len() = %d, want 0 (no infostate ever visited)", avg.Len())
	}
}

// twoActionWorld is a one-shot, zero-sum decision: Alex picks "a" or "b",
// Alex is rewarded +1 for "a" and -1 for "b"; Bob gets the opposite.
type twoActionWorld struct {
	acted  bool
	action string
}

func (w *twoActionWorld) Clone() fosg.WorldState { c := *w; return &c }

type twoActionGame struct{}

func (twoActionGame) Traits() fosg.Traits { return fosg.Traits{MaxPlayers: 2} }
func (twoActionGame) Players(world fosg.WorldState) []fosg.Player {
	return []fosg.Player{fosg.Alex, fosg.Bob}
}
func (twoActionGame) ActivePlayer(world fosg.WorldState) fosg.Player { return fosg.Alex }
func (twoActionGame) Actions(player fosg.Player, world fosg.WorldState) []any {
	return []any{"a", "b"}
}
func (twoActionGame) ChanceActions(world fosg.WorldState) []any                   { return nil }
func (twoActionGame) ChanceProbability(world fosg.WorldState, outcome any) float64 { return 0 }
func (twoActionGame) IsTerminal(world fosg.WorldState) bool { return world.(*twoActionWorld).acted }
func (twoActionGame) IsPartaking(world fosg.WorldState, player fosg.Player) bool { return true }
func (twoActionGame) Reward(player fosg.Player, world fosg.WorldState) float64 {
	sign := 1.0
	if world.(*twoActionWorld).action == "b" {
		sign = -1.0
	}
	if player == fosg.Bob {
		sign = -sign
	}
	return sign
}
func (twoActionGame) Transition(world fosg.WorldState, actionOrOutcome any) (fosg.WorldState, error) {
	w := world.(*twoActionWorld)
	w.acted = true
	w.action = actionOrOutcome.(string)
	return w, nil
}
func (twoActionGame) PrivateObservation(observer fosg.Player, before fosg.WorldState, actionOrOutcome any, after fosg.WorldState) any {
	return actionOrOutcome
}
func (twoActionGame) PublicObservation(before fosg.WorldState, actionOrOutcome any, after fosg.WorldState) any {
	return actionOrOutcome
}
func (twoActionGame) PrivateHistory(player fosg.Player, world fosg.WorldState) []fosg.ObservationPair {
	return nil
}
func (twoActionGame) PublicHistory(world fosg.WorldState) []any { return nil }
func (twoActionGame) OpenHistory(world fosg.WorldState) []fosg.ObservationPair { return nil }

func TestEngineCurrentPolicyAlwaysNormalizes(t *testing.T) {
	engine, err := NewVanilla(twoActionGame{}, &twoActionWorld{}, []fosg.Player{fosg.Alex, fosg.Bob}, Config{AlternatingUpdates: true})
	if err != nil {
		t.Fatalf("NewVanilla() error = %v", err)
	}

	for i := 0; i < 20; i++ {
		if err := engine.Iterate(1); err != nil {
			t.Fatalf("Iterate(1) error at step %d = %v", i, err)
		}
		cur, _ := engine.Policy(fosg.Alex)
		for _, key := range cur.Infostates() {
			entry, _ := cur.Get(key)
			if got := entry.Sum(); math.Abs(got-1.0) > 1e-9 {
				t.Fatalf("iteration %d: policy sum = %v, want 1.0", i, got)
			}
		}
	}

	avg, _ := engine.AveragePolicy(fosg.Alex)
	avg.NormalizeAll()
	keys := avg.Infostates()
	if len(keys) != 1 {
		t.Fatalf("len(Infostates()) = %d, want 1", len(keys))
	}
	entry, _ := avg.Get(keys[0])
	if got := entry.At("a"); got <= 0.5 {
		t.Errorf("average weight on the dominant action 'a' = %v, want > 0.5", got)
	}
}
