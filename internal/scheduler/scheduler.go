// Package scheduler owns the three periodic sweeps (spec §4.E "Timer
// transitions", §5 "periodic timers are owned by the scheduler; they take
// the lock for the duration of the transition, release it, and flush
// outside"). Each sweep is its own goroutine driving a time.Ticker, grounded
// in lguibr-pongo/game/game_actor_lifecycle.go's startTickers: an initial
// delay, then a ticker loop that does nothing but forward a tick message
// into the actor system, where the critical section actually lives.
package scheduler

import (
	"sync"
	"time"

	"github.com/rgrove-dev/parlor/internal/actorkit"
	"github.com/rgrove-dev/parlor/internal/wire"
	"github.com/sirupsen/logrus"
)

// Scheduler drives the idle-player, idle-game, and obsolete-game sweeps.
type Scheduler struct {
	engine     *actorkit.Engine
	sessionPID *actorkit.PID
	log        *logrus.Entry

	idlePlayerDelay, idlePlayerPeriod    time.Duration
	idleGameDelay, idleGamePeriod        time.Duration
	obsoleteGameDelay, obsoleteGamePeriod time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
}

// Timings collects the six configured delay/period pairs (spec §6.5); it is
// deliberately a flat struct rather than internal/config.Config so this
// package doesn't need to import the CLI/env layer.
type Timings struct {
	IdlePlayerDelay, IdlePlayerPeriod     time.Duration
	IdleGameDelay, IdleGamePeriod         time.Duration
	ObsoleteGameDelay, ObsoleteGamePeriod time.Duration
}

// New builds a Scheduler that has not yet started any goroutines.
func New(engine *actorkit.Engine, sessionPID *actorkit.PID, t Timings, log *logrus.Entry) *Scheduler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scheduler{
		engine:                engine,
		sessionPID:            sessionPID,
		log:                   log,
		idlePlayerDelay:       t.IdlePlayerDelay,
		idlePlayerPeriod:      t.IdlePlayerPeriod,
		idleGameDelay:         t.IdleGameDelay,
		idleGamePeriod:        t.IdleGamePeriod,
		obsoleteGameDelay:     t.ObsoleteGameDelay,
		obsoleteGamePeriod:    t.ObsoleteGamePeriod,
		stop:                  make(chan struct{}),
	}
}

// Start launches the three sweep goroutines. Safe to call once.
func (s *Scheduler) Start() {
	s.runSweep("idle-player", s.idlePlayerDelay, s.idlePlayerPeriod, wire.SweepIdlePlayers{})
	s.runSweep("idle-game", s.idleGameDelay, s.idleGamePeriod, wire.SweepIdleGames{})
	s.runSweep("obsolete-game", s.obsoleteGameDelay, s.obsoleteGamePeriod, wire.SweepObsoleteGames{})
}

func (s *Scheduler) runSweep(name string, delay, period time.Duration, msg interface{}) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-s.stop:
			return
		case <-timer.C:
		}

		s.engine.Send(s.sessionPID, msg, nil)

		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.engine.Send(s.sessionPID, msg, nil)
			}
		}
	}()
	s.log.WithField("sweep", name).WithField("delay", delay).WithField("period", period).Debug("sweep scheduled")
}

// Stop signals every sweep goroutine to exit and waits for them to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
}
