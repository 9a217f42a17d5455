// kanatype-gui is the windowed kana typing trainer. Display settings in the
// config file (theme and miss effects) are applied live when the file
// changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync/atomic"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"kanatype/cmd/kanatype-gui/internal/theme"
	"kanatype/cmd/kanatype-gui/internal/ui"
	kanaapp "kanatype/internal/app"
	"kanatype/internal/config"
	"kanatype/internal/logging"
	"kanatype/internal/session"
)

// Version is set at build time.
var Version = "dev"

var (
	configPath = flag.String("config", "", "path to config file")
	bankPath   = flag.String("bank", "", "question bank file (overrides config)")
)

func main() {
	flag.Parse()

	go func() {
		w := new(app.Window)
		w.Option(app.Title("kanatype"))
		w.Option(app.Size(unit.Dp(800), unit.Dp(480)))

		if err := loop(w); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window) error {
	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	loader := config.NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	defer loader.Close()
	if *bankPath != "" {
		cfg.Bank.Path = *bankPath
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	lc, err := cfg.LoggerConfig("kanatype-gui")
	if err != nil {
		return err
	}
	logger, err := logging.New(lc)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logger.Close()
	logging.SetDefault(logger)

	crash := logging.NewCrashHandler(&logging.CrashHandlerConfig{
		Version:   Version,
		Component: "kanatype-gui",
	})

	game, err := kanaapp.Prepare(cfg, logger.WithComponent("bank").Logger)
	if err != nil {
		return err
	}

	var pending atomic.Pointer[config.Config]
	loader.OnChange(func(_, next *config.Config) {
		pending.Store(next)
		w.Invalidate()
	})
	if err := loader.Watch(); err != nil {
		logger.Warn("config hot reload disabled", "error", err)
	}
	go func() {
		for err := range loader.Errors() {
			logger.Warn("config reload rejected", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	th := theme.NewTheme(material.NewTheme(), cfg.Display.Theme)
	keys := make(chan rune, 64)
	trainer := ui.NewTrainer(th, keys, w.Invalidate, func() { w.Perform(system.ActionClose) })
	trainer.SetEffects(cfg.ShakeDuration(), cfg.FlashDuration())

	ctrl := session.New(game.NewSequencer(), trainer, game.Session, logger.WithComponent("session").Logger)
	done := make(chan error, 1)
	go func() {
		var runErr error
		if crash.Recover(func() { runErr = ctrl.Run(ctx, keys) }) {
			runErr = errors.New("session crashed, see kanactl crashes")
			w.Perform(system.ActionClose)
		}
		done <- runErr
	}()

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			cancel()
			err := <-done
			logger.Info("window closed", "phase", ctrl.Phase().String(), "dropped_keys", trainer.Dropped())
			if !kanaapp.IsQuit(err) {
				return err
			}
			return e.Err
		case app.FrameEvent:
			if next := pending.Swap(nil); next != nil {
				th.SetPalette(next.Display.Theme)
				trainer.SetEffects(next.ShakeDuration(), next.FlashDuration())
				logger.Info("display settings reloaded", "theme", th.Name)
			}
			gtx := app.NewContext(&ops, e)
			trainer.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}
