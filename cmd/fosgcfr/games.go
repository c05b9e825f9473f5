package main

import (
	"fmt"

	"github.com/mthaler/fosgcfr/examples/games/chance"
	"github.com/mthaler/fosgcfr/examples/games/kuhn"
	"github.com/mthaler/fosgcfr/examples/games/rps"
	"github.com/mthaler/fosgcfr/examples/games/trivial"
	"github.com/mthaler/fosgcfr/fosg"
)

// buildGame resolves one of the repo's example games by name, returning
// the fosg.Game, its fresh root world state, and the non-chance players
// an Engine should update. Kept in cmd/fosgcfr rather than examples/games
// itself: which games the CLI exposes under --game is a harness concern,
// not part of the games' own contract.
func buildGame(name string) (fosg.Game, fosg.WorldState, []fosg.Player, error) {
	switch name {
	case "trivial":
		return trivial.Game{}, trivial.NewWorld(), []fosg.Player{fosg.Alex}, nil
	case "chance":
		return chance.Game{}, chance.NewWorld(), []fosg.Player{fosg.Alex}, nil
	case "rps":
		return rps.Game{}, rps.NewWorld(), []fosg.Player{fosg.Alex, fosg.Bob}, nil
	case "kuhn":
		return kuhn.Game{}, kuhn.NewWorld(), []fosg.Player{fosg.Alex, fosg.Bob}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown game %q (want one of trivial, chance, rps, kuhn)", name)
	}
}
