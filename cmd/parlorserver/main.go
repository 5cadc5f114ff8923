// Command parlorserver runs the multiplayer session server: player
// registration, room advertisement/join/start, turn-based moves, and the
// idle/obsolescence sweeps, all serialized through a single session actor
// (spec §5).
package main

import (
	"fmt"
	"os"

	"github.com/rgrove-dev/parlor/internal/config"
)

func main() {
	cfg := config.Defaults()
	root := config.NewRootCommand(cfg, run)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
