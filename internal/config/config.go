// Package config loads the server's configuration (spec §6.5) the way
// Seednode-partybox does: pflag-backed fields bound through viper for
// PARLOR_-prefixed environment overrides, validated once before the
// server starts and treated as immutable afterward.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is every recognized option from spec §6.5, with its documented
// default.
type Config struct {
	ServerHost string
	ServerPort int

	TotalGameLimit        int
	InProgressGameLimit   int
	RegisteredPlayerLimit int

	PlayerIdleThreshMin     int
	PlayerInactiveThreshMin int
	GameIdleThreshMin       int
	GameInactiveThreshMin   int
	GameRetentionThreshMin  int

	IdlePlayerCheckPeriodSec int
	IdlePlayerCheckDelaySec  int
	IdleGameCheckPeriodSec   int
	IdleGameCheckDelaySec    int
	ObsoleteGameCheckPeriodSec int
	ObsoleteGameCheckDelaySec  int

	LogfilePath string
	Verbose     bool
}

// Defaults mirrors the documented defaults of spec §6.5.
func Defaults() *Config {
	return &Config{
		ServerHost: "0.0.0.0",
		ServerPort: 8765,

		TotalGameLimit:        1000,
		InProgressGameLimit:   200,
		RegisteredPlayerLimit: 2000,

		PlayerIdleThreshMin:     10,
		PlayerInactiveThreshMin: 30,
		GameIdleThreshMin:       15,
		GameInactiveThreshMin:   60,
		GameRetentionThreshMin:  120,

		IdlePlayerCheckPeriodSec:   30,
		IdlePlayerCheckDelaySec:    30,
		IdleGameCheckPeriodSec:     30,
		IdleGameCheckDelaySec:      30,
		ObsoleteGameCheckPeriodSec: 60,
		ObsoleteGameCheckDelaySec:  60,

		LogfilePath: "",
		Verbose:     false,
	}
}

func (c *Config) validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid server-port (must be between 1-65535 inclusive): %d", c.ServerPort)
	}
	if c.TotalGameLimit <= 0 || c.InProgressGameLimit <= 0 || c.RegisteredPlayerLimit <= 0 {
		return errors.New("game and player limits must be positive")
	}
	if c.InProgressGameLimit > c.TotalGameLimit {
		return errors.New("in-progress-game-limit must not exceed total-game-limit")
	}
	if c.PlayerIdleThreshMin <= 0 || c.PlayerInactiveThreshMin <= 0 {
		return errors.New("player idle/inactive thresholds must be positive minutes")
	}
	if c.PlayerInactiveThreshMin <= c.PlayerIdleThreshMin {
		return errors.New("player-inactive-thresh-min must exceed player-idle-thresh-min")
	}
	if c.GameIdleThreshMin <= 0 || c.GameInactiveThreshMin <= 0 || c.GameRetentionThreshMin <= 0 {
		return errors.New("game idle/inactive/retention thresholds must be positive minutes")
	}
	if c.GameInactiveThreshMin <= c.GameIdleThreshMin {
		return errors.New("game-inactive-thresh-min must exceed game-idle-thresh-min")
	}
	for name, v := range map[string]int{
		"idle-player-check-period-sec":    c.IdlePlayerCheckPeriodSec,
		"idle-player-check-delay-sec":     c.IdlePlayerCheckDelaySec,
		"idle-game-check-period-sec":      c.IdleGameCheckPeriodSec,
		"idle-game-check-delay-sec":       c.IdleGameCheckDelaySec,
		"obsolete-game-check-period-sec":  c.ObsoleteGameCheckPeriodSec,
		"obsolete-game-check-delay-sec":   c.ObsoleteGameCheckDelaySec,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

// BindFlags registers every option on fs, each bindable through viper as
// PARLOR_<NAME> (dashes become underscores), in Seednode-partybox's style.
func BindFlags(fs *pflag.FlagSet, cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PARLOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.ServerHost, "server-host", cfg.ServerHost, "address to listen on (env: PARLOR_SERVER_HOST)")
	fs.IntVar(&cfg.ServerPort, "server-port", cfg.ServerPort, "port to listen on (env: PARLOR_SERVER_PORT)")

	fs.IntVar(&cfg.TotalGameLimit, "total-game-limit", cfg.TotalGameLimit, "maximum games the store may hold at once")
	fs.IntVar(&cfg.InProgressGameLimit, "in-progress-game-limit", cfg.InProgressGameLimit, "maximum games in Advertised or Playing at once")
	fs.IntVar(&cfg.RegisteredPlayerLimit, "registered-player-limit", cfg.RegisteredPlayerLimit, "maximum registered players at once")

	fs.IntVar(&cfg.PlayerIdleThreshMin, "player-idle-thresh-min", cfg.PlayerIdleThreshMin, "minutes of inactivity before a player is marked Idle")
	fs.IntVar(&cfg.PlayerInactiveThreshMin, "player-inactive-thresh-min", cfg.PlayerInactiveThreshMin, "minutes of inactivity before a player is evicted")
	fs.IntVar(&cfg.GameIdleThreshMin, "game-idle-thresh-min", cfg.GameIdleThreshMin, "minutes of inactivity before a game is marked Idle")
	fs.IntVar(&cfg.GameInactiveThreshMin, "game-inactive-thresh-min", cfg.GameInactiveThreshMin, "minutes of inactivity before a game is cancelled")
	fs.IntVar(&cfg.GameRetentionThreshMin, "game-retention-thresh-min", cfg.GameRetentionThreshMin, "minutes a Completed/Cancelled game is retained before deletion")

	fs.IntVar(&cfg.IdlePlayerCheckPeriodSec, "idle-player-check-period-sec", cfg.IdlePlayerCheckPeriodSec, "seconds between idle-player sweeps")
	fs.IntVar(&cfg.IdlePlayerCheckDelaySec, "idle-player-check-delay-sec", cfg.IdlePlayerCheckDelaySec, "seconds before the first idle-player sweep")
	fs.IntVar(&cfg.IdleGameCheckPeriodSec, "idle-game-check-period-sec", cfg.IdleGameCheckPeriodSec, "seconds between idle-game sweeps")
	fs.IntVar(&cfg.IdleGameCheckDelaySec, "idle-game-check-delay-sec", cfg.IdleGameCheckDelaySec, "seconds before the first idle-game sweep")
	fs.IntVar(&cfg.ObsoleteGameCheckPeriodSec, "obsolete-game-check-period-sec", cfg.ObsoleteGameCheckPeriodSec, "seconds between obsolete-game sweeps")
	fs.IntVar(&cfg.ObsoleteGameCheckDelaySec, "obsolete-game-check-delay-sec", cfg.ObsoleteGameCheckDelaySec, "seconds before the first obsolete-game sweep")

	fs.StringVar(&cfg.LogfilePath, "logfile-path", cfg.LogfilePath, "path to write logs to (empty: stderr only)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable debug-level logging")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return v
}

// Validate exposes validate() to callers outside the package (cobra's
// RunE, tests).
func (c *Config) Validate() error { return c.validate() }

// PlayerIdleThresh etc. convert the configured minute/second integers into
// time.Duration for sessionengine.Limits / the scheduler.
func (c *Config) PlayerIdleThresh() time.Duration {
	return time.Duration(c.PlayerIdleThreshMin) * time.Minute
}
func (c *Config) PlayerInactiveThresh() time.Duration {
	return time.Duration(c.PlayerInactiveThreshMin) * time.Minute
}
func (c *Config) GameIdleThresh() time.Duration {
	return time.Duration(c.GameIdleThreshMin) * time.Minute
}
func (c *Config) GameInactiveThresh() time.Duration {
	return time.Duration(c.GameInactiveThreshMin) * time.Minute
}
func (c *Config) GameRetentionThresh() time.Duration {
	return time.Duration(c.GameRetentionThreshMin) * time.Minute
}

func (c *Config) IdlePlayerCheckPeriod() time.Duration {
	return time.Duration(c.IdlePlayerCheckPeriodSec) * time.Second
}
func (c *Config) IdlePlayerCheckDelay() time.Duration {
	return time.Duration(c.IdlePlayerCheckDelaySec) * time.Second
}
func (c *Config) IdleGameCheckPeriod() time.Duration {
	return time.Duration(c.IdleGameCheckPeriodSec) * time.Second
}
func (c *Config) IdleGameCheckDelay() time.Duration {
	return time.Duration(c.IdleGameCheckDelaySec) * time.Second
}
func (c *Config) ObsoleteGameCheckPeriod() time.Duration {
	return time.Duration(c.ObsoleteGameCheckPeriodSec) * time.Second
}
func (c *Config) ObsoleteGameCheckDelay() time.Duration {
	return time.Duration(c.ObsoleteGameCheckDelaySec) * time.Second
}

// NewRootCommand builds the cobra command that parses flags/env into cfg
// and calls run once validated, in Seednode-partybox's style.
func NewRootCommand(cfg *Config, run func(cmd *cobra.Command, cfg *Config) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "parlorserver",
		Short:         "A multiplayer game-session server: registration, rooms, and turn-based play over a persistent socket.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}
	BindFlags(cmd.Flags(), cfg)
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	return cmd
}
