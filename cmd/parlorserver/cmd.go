package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgrove-dev/parlor/internal/actorkit"
	"github.com/rgrove-dev/parlor/internal/config"
	"github.com/rgrove-dev/parlor/internal/rules"
	"github.com/rgrove-dev/parlor/internal/scheduler"
	"github.com/rgrove-dev/parlor/internal/session"
	"github.com/rgrove-dev/parlor/internal/sessionengine"
	"github.com/rgrove-dev/parlor/internal/wire"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/net/websocket"
)

const shutdownGrace = 5 * time.Second

func run(cmd *cobra.Command, cfg *config.Config) error {
	log := newLogger(cfg)

	store := session.NewStore(time.Now)
	adapter := rules.NewBoardGameAdapter()
	limits := sessionengine.Limits{
		RegisteredPlayerLimit: cfg.RegisteredPlayerLimit,
		TotalGameLimit:        cfg.TotalGameLimit,
		InProgressGameLimit:   cfg.InProgressGameLimit,
		PlayerIdleThresh:      cfg.PlayerIdleThresh(),
		PlayerInactiveThresh:  cfg.PlayerInactiveThresh(),
		GameIdleThresh:        cfg.GameIdleThresh(),
		GameInactiveThresh:    cfg.GameInactiveThresh(),
		GameRetentionThresh:   cfg.GameRetentionThresh(),
	}
	engine := sessionengine.NewEngine(store, adapter, limits, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())), log.WithField("component", "engine"))

	actors := actorkit.NewEngine(func(msg string) { log.Warn(msg) })
	sessionPID := actors.Spawn(actorkit.NewProps(wire.NewSessionActorProducer(engine, log.WithField("component", "session-actor"))))
	if sessionPID == nil {
		return fmt.Errorf("failed to spawn session actor")
	}

	sched := scheduler.New(actors, sessionPID, scheduler.Timings{
		IdlePlayerDelay:    cfg.IdlePlayerCheckDelay(),
		IdlePlayerPeriod:   cfg.IdlePlayerCheckPeriod(),
		IdleGameDelay:      cfg.IdleGameCheckDelay(),
		IdleGamePeriod:     cfg.IdleGameCheckPeriod(),
		ObsoleteGameDelay:  cfg.ObsoleteGameCheckDelay(),
		ObsoleteGamePeriod: cfg.ObsoleteGameCheckPeriod(),
	}, log.WithField("component", "scheduler"))
	sched.Start()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", wire.HandleHealthCheck())
	mux.HandleFunc("/games", wire.HandleListGames(actors, sessionPID))
	mux.Handle("/connect", websocket.Handler(wire.HandleWebsocket(actors, sessionPID, log.WithField("component", "wire"))))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler: mux,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", httpServer.Addr).Info("listening")
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-sigCtx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			log.WithError(err).Error("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown did not complete cleanly")
	}

	if _, err := actors.Ask(sessionPID, wire.Shutdown{}, shutdownGrace); err != nil {
		log.WithError(err).Warn("shutdown transition did not complete in time")
	}
	sched.Stop()
	actors.Shutdown(shutdownGrace)

	log.Info("shutdown complete")
	return nil
}

func newLogger(cfg *config.Config) *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if cfg.LogfilePath != "" {
		f, err := os.OpenFile(cfg.LogfilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			logger.WithError(err).Warn("could not open logfile-path, logging to stderr only")
		} else {
			logger.SetOutput(f)
		}
	}
	return logrus.NewEntry(logger)
}
