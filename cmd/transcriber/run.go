package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/nick/transcriber/internal/app"
	"github.com/nick/transcriber/internal/config"
	"github.com/nick/transcriber/internal/dispatch"
	"github.com/nick/transcriber/internal/event"
	"github.com/nick/transcriber/internal/handler"
	"github.com/nick/transcriber/internal/logging"
	"github.com/nick/transcriber/internal/transport"
	"github.com/nick/transcriber/internal/tui"
)

// engineUnreachable is the user-facing form of a startup ConnectError.
type engineUnreachable struct {
	*transport.ConnectError
}

func (e engineUnreachable) Error() string {
	return fmt.Sprintf("cannot connect to engine at %s: %v", e.Path, e.Err)
}

func (e engineUnreachable) Unwrap() error { return e.ConnectError }

func runTUI(ctx context.Context, cfg *config.TranscriberConfig) error {
	log, closer, err := logging.New(cfg.LogFile, "tui", cfg.LogLevel)
	if err != nil {
		return &configError{err: errors.Wrap(err, "open log file")}
	}
	defer closer.Close()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return &event.EventError{Err: errors.New("stdin is not a terminal")}
	}

	link, err := connect(ctx, cfg, log)
	if err != nil {
		var ce *transport.ConnectError
		if errors.As(err, &ce) {
			return engineUnreachable{ce}
		}
		return err
	}

	h := handler.New(cfg, log)
	terminal := tui.NewTerminal(cfg, h.Keys(), log)
	terminal.Start()

	merger := event.NewMerger(cfg.TickRate, terminal)
	merger.Start(ctx)

	loop := dispatch.New(dispatch.Options{
		State:    app.NewState(link),
		Events:   merger,
		Renderer: terminal,
		Handler:  h,
		Terminal: terminal,
		Logger:   log,
	})
	if err := loop.Run(ctx); err != nil {
		log.Error().Err(err).Msg("dispatch loop failed")
		return err
	}
	return nil
}

// connect dials the engine. In offline mode a connect failure yields a
// disconnected link instead of an error.
func connect(ctx context.Context, cfg *config.TranscriberConfig, log *logging.Logger) (app.Link, error) {
	client, err := transport.Connect(ctx, cfg.SocketPath)
	if err == nil {
		log.Info().Str("socket", cfg.SocketPath).Msg("connected to engine")
		return app.Connected{Conn: client, Path: client.Path()}, nil
	}

	if cfg.Mode != config.ModeOffline {
		log.Error().Err(err).Str("socket", cfg.SocketPath).Msg("connect to engine")
		return nil, err
	}
	log.Warn().Err(err).Str("socket", cfg.SocketPath).Msg("engine unreachable, starting offline")
	return app.Disconnected{Reason: err.Error()}, nil
}
