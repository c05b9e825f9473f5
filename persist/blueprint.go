// Package persist implements host-side (de)serialization of CFR policy
// tables. It depends on fosg and policy but is never imported by them,
// keeping the core's "no persistence" Non-goal true of the core itself
// while still giving a host harness a concrete way to save and reload
// a trained strategy (spec.md §6: "the core does not choose a format").
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mthaler/fosgcfr/fosg"
	"github.com/mthaler/fosgcfr/internal/fileutil"
	"github.com/mthaler/fosgcfr/policy"
)

const blueprintFileVersion = 1

// Blueprint is the on-disk envelope around a trained average-policy
// table: enough metadata (when it was produced, how many iterations, the
// game it was trained against) for a loader to sanity-check it before
// trusting the strategy payload.
type Blueprint struct {
	Version     int                    `json:"version"`
	GeneratedAt time.Time              `json:"generated_at"`
	Game        string                 `json:"game"`
	Iterations  int                    `json:"iterations"`
	Players     []string               `json:"players"`
	Strategies  map[string]PlayerTable `json:"strategies"`
}

// PlayerTable is one player's materialized average policy: infostate key
// -> action weights, already normalized.
type PlayerTable map[string]map[string]float64

var errNilBlueprint = errors.New("persist: nil blueprint")

// BuildBlueprint snapshots the average-policy tables of players out of a
// trained engine into a Blueprint ready to save. Each entry's weights are
// normalized in the copy; the engine's own tables keep their unnormalized
// running sums, so training can continue after a checkpoint. Weights are formatted
// with fmt.Sprintf("%v", action) as the action key, since the engine's
// action type is opaque (any); a game that wants a richer key should
// normalize its own action values to something %v renders usefully
// (e.g. implementing Stringer).
func BuildBlueprint(gameName string, iterations int, players []fosg.Player, averages map[fosg.Player]*policy.StateTable[string, any]) (*Blueprint, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("persist: at least one player is required")
	}
	bp := &Blueprint{
		Version:    blueprintFileVersion,
		Game:       gameName,
		Iterations: iterations,
		Players:    make([]string, 0, len(players)),
		Strategies: make(map[string]PlayerTable, len(players)),
	}
	for _, p := range players {
		table, ok := averages[p]
		if !ok {
			return nil, fmt.Errorf("persist: no average-policy table for player %s", p)
		}
		playerTable := make(PlayerTable, table.Len())
		for _, key := range table.Infostates() {
			entry, _ := table.Get(key)
			total := entry.Sum()
			weights := make(map[string]float64, entry.Len())
			for _, a := range entry.Actions() {
				w := entry.At(a)
				if total > 0 {
					w /= total
				}
				weights[fmt.Sprintf("%v", a)] = w
			}
			playerTable[key] = weights
		}

		bp.Players = append(bp.Players, p.String())
		bp.Strategies[p.String()] = playerTable
	}
	return bp, nil
}

// Save writes b to path as indented JSON via fileutil.WriteFileAtomic, so
// readers never observe a partially-written file.
func (b *Blueprint) Save(path string) error {
	if b == nil {
		return errNilBlueprint
	}
	if path == "" {
		return fmt.Errorf("persist: destination path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: create directory: %w", err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: encode blueprint: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("persist: write blueprint: %w", err)
	}
	return nil
}

// LoadBlueprint reads and validates a Blueprint previously written by Save.
func LoadBlueprint(path string) (*Blueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	defer f.Close()

	var bp Blueprint
	if err := json.NewDecoder(f).Decode(&bp); err != nil {
		return nil, fmt.Errorf("persist: decode %s: %w", path, err)
	}
	if bp.Version != blueprintFileVersion {
		return nil, fmt.Errorf("persist: unsupported blueprint version %d", bp.Version)
	}
	return &bp, nil
}

// Strategy returns the stored action-weight mapping for player at
// infostate key, if present.
func (b *Blueprint) Strategy(player fosg.Player, key string) (map[string]float64, bool) {
	if b == nil {
		return nil, false
	}
	table, ok := b.Strategies[player.String()]
	if !ok {
		return nil, false
	}
	weights, ok := table[key]
	return weights, ok
}

// StrategyOrUniform behaves like Strategy but never returns an empty
// result for a known action set: infostates the blueprint never visited
// (the game tree wasn't fully explored, or the key belongs to a
// different abstraction) fall back to a uniform distribution over
// actions rather than forcing every caller to re-implement that
// fallback.
func (b *Blueprint) StrategyOrUniform(player fosg.Player, key string, actions []string) map[string]float64 {
	uniform := func() map[string]float64 {
		out := make(map[string]float64, len(actions))
		if len(actions) == 0 {
			return out
		}
		w := 1.0 / float64(len(actions))
		for _, a := range actions {
			out[a] = w
		}
		return out
	}

	weights, ok := b.Strategy(player, key)
	if !ok {
		return uniform()
	}
	out := make(map[string]float64, len(actions))
	for _, a := range actions {
		if w, present := weights[a]; present {
			out[a] = w
		}
	}
	if len(out) == 0 {
		return uniform()
	}
	return out
}
