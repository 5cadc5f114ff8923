package sessionengine

import "github.com/rgrove-dev/parlor/internal/session"

// colorOrder is the fixed ordering spec §3/§9 requires: colors assigned to
// a game are distinct and drawn from its first target_player_count
// entries.
var colorOrder = []string{"Red", "Blue", "Green", "Yellow"}

// nextColor returns the first color in colorOrder not already in use.
func nextColor(used map[string]bool) string {
	for _, c := range colorOrder {
		if !used[c] {
			return c
		}
	}
	return ""
}

// namePool is the fixed list programmatic backfill draws from without
// replacement (spec §9).
var namePool = []string{
	"Auto-Nibbler", "Auto-Calculon", "Auto-Clamps", "Auto-Roberto",
	"Auto-Hedonismbot", "Auto-URL", "Auto-Donbot", "Auto-Flexo",
}

// drawNames returns n distinct names from namePool using rng to shuffle,
// guaranteeing distinct handles within a single game while allowing reuse
// across games (spec §9).
func drawNames(rng randSource, n int) []string {
	pool := append([]string(nil), namePool...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// randSource is the subset of *rand.Rand the engine needs, so tests can
// inject a deterministic stand-in.
type randSource interface {
	Shuffle(n int, swap func(i, j int))
}

func usedColors(g *session.Game) map[string]bool {
	used := make(map[string]bool)
	for _, gp := range g.Players() {
		used[gp.Color] = true
	}
	return used
}
