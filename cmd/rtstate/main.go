// Command rtstate runs the two-state demo: E and W switch states, 3 and 4 drive the
// counters, 5 toggles the seconds counter and Q quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/faiface/mainthread"
	"github.com/faiface/rtstate"
	"github.com/faiface/rtstate/demo"
	"github.com/faiface/rtstate/input"
	"github.com/faiface/rtstate/internal/config"
	"github.com/faiface/rtstate/screen"
	"github.com/faiface/rtstate/win"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse flags: %v\n", err)
		os.Exit(2)
	}
	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var runErr error
	if cfg.Headless {
		runErr = runHeadless(ctx, cfg, log)
	} else {
		mainthread.Run(func() {
			runErr = runWindow(ctx, cfg, log)
		})
	}
	stop()
	if runErr != nil {
		log.Error().Err(runErr).Msg("exiting")
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	var log zerolog.Logger
	if cfg.LogFormat == "json" {
		log = zerolog.New(os.Stderr)
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
	return log.Level(level).With().Timestamp().Logger(), nil
}

func options(cfg config.Config, log zerolog.Logger) demo.Options {
	return demo.Options{
		Width:        cfg.Width,
		Height:       cfg.Height,
		FramePeriod:  cfg.FramePeriod,
		PollInterval: cfg.PollInterval,
		Debounce:     cfg.Debounce,
		ResetPeriod:  cfg.ResetPeriod,
		Log:          log,
	}
}

func runHeadless(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	frames := new(screen.Counter)
	opts := options(cfg, log)
	opts.Presenter = frames
	opts.Source = input.NewLineSource(os.Stdin)

	app, err := demo.New(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	err = app.Run(ctx)
	log.Info().Uint64("frames", frames.Frames()).Msg("stopped")
	return err
}

func runWindow(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	w, err := win.New(win.Title(cfg.Title), win.Size(cfg.Width, cfg.Height))
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	defer rtstate.Kill(w)

	opts := options(cfg, log)
	opts.Presenter = w
	opts.Source = w
	opts.QuitOnClose = true

	app, err := demo.New(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(ctx)
}
