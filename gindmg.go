package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/bdwalton/gindmg/cartridge"
	"github.com/bdwalton/gindmg/debugconsole"
	"github.com/bdwalton/gindmg/fault"
	"github.com/bdwalton/gindmg/machine"
	"github.com/bdwalton/gindmg/video"
)

var (
	scale    = flag.Int("scale", 4, "Integer window scale factor.")
	debug    = flag.Bool("debug", false, "Show the live VRAM tileset debug window.")
	console  = flag.Bool("console", false, "Run the terminal debug console instead of the video window.")
	logLevel = flag.String("log-level", "info", "Minimum log level: debug, info, warn, error.")
)

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	flag.Parse()
	logger := fault.NewLogger(parseLevel(*logLevel))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gindmg [flags] <rom-path>")
		os.Exit(1)
	}

	cart, err := cartridge.New(flag.Arg(0))
	if err != nil {
		logger.Error("couldn't load ROM", "error", err)
		os.Exit(1)
	}
	if err := cart.ValidateChecksum(); err != nil {
		logger.Warn("ROM header checksum invalid, continuing anyway", "error", err)
	}

	m := machine.New(cart)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	var runErr error
	if *console {
		// The console steps the CPU itself, so the simulation loop is
		// not started alongside it.
		c := debugconsole.New(m, os.Stdin, os.Stdout)
		runErr = c.Run(ctx)
	} else {
		g.Go(func() error {
			if err := m.Run(ctx); err != nil {
				if f, ok := err.(*machine.Fault); ok {
					fault.Report(logger, f)
				}
				return err
			}
			return nil
		})

		gameView := video.New(m, *scale, *debug)
		w, h := gameView.WindowSize()
		ebiten.SetWindowSize(w, h)
		ebiten.SetWindowTitle(video.Title(cart.Title()))
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

		runErr = ebiten.RunGame(gameView)
		m.Stop()
	}

	cancel()
	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}

	if runErr != nil {
		os.Exit(1)
	}
}
