package cfr

// Config governs how an Engine drives a traversal.
type Config struct {
	// AlternatingUpdates selects one player's regrets and strategy to
	// update per iteration, cycling through a schedule. When false, every
	// player updates simultaneously on every iteration and IteratePlayer
	// is unavailable.
	AlternatingUpdates bool

	// StorePublicStates materializes a public-observation log at every
	// node during traversal. Off by default: most games never consult
	// it, and building it costs an extra clone+append per edge.
	StorePublicStates bool

	// ClampNegativeRegrets, when true, floors a cumulative regret at zero
	// immediately after each update (the CFR+ family's core change).
	// Default false preserves vanilla CFR's "negative values allowed"
	// cumulative regret.
	ClampNegativeRegrets bool
}
