package sessionengine

import "time"

// Limits mirrors the subset of spec §6.5 configuration the engine
// consults directly. internal/config is responsible for defaults and
// validation; this struct is just the engine's view of it.
type Limits struct {
	RegisteredPlayerLimit int
	TotalGameLimit        int
	InProgressGameLimit   int

	PlayerIdleThresh     time.Duration
	PlayerInactiveThresh time.Duration
	GameIdleThresh       time.Duration
	GameInactiveThresh   time.Duration
	GameRetentionThresh  time.Duration
}
