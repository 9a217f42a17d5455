// kanatype - Terminal trainer for typing Japanese words as romaji
//
//	kanatype                      Play the built-in bank
//	kanatype -bank words.xlsx     Play a bank file (toml, json, yaml, html, xlsx, sqlite)
//	kanatype -seed 42             Replay a shuffled order
//
// Press Space to start, type the romaji for each word, Esc or Ctrl-C to quit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kanatype/internal/app"
	"kanatype/internal/config"
	"kanatype/internal/keyinput"
	"kanatype/internal/logging"
	"kanatype/internal/session"
	"kanatype/internal/tty"
	"kanatype/internal/view"
)

// Version is set at build time.
var Version = "dev"

var (
	configPath  = flag.String("config", "", "path to config file")
	bankPath    = flag.String("bank", "", "question bank file (overrides config)")
	tablePath   = flag.String("table", "", "romaji table file (overrides config)")
	seed        = flag.Uint64("seed", 0, "shuffle seed (0 picks one)")
	inOrder     = flag.Bool("in-order", false, "play the bank in file order")
	plain       = flag.Bool("plain", false, "disable colors")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("kanatype %s\n", Version)
		return
	}

	if err := run(); !app.IsQuit(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `kanatype - Terminal kana typing trainer

Usage: kanatype [options]

Options:`)
	flag.PrintDefaults()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if *bankPath != "" {
		cfg.Bank.Path = *bankPath
	}
	if *tablePath != "" {
		cfg.Table.Path = *tablePath
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}
	if *inOrder {
		cfg.Game.Shuffle = false
	}
	if *plain {
		cfg.Display.Color = false
	}
	// The game owns the screen, so console logging would corrupt it.
	switch cfg.Logging.Output {
	case "stdout", "stderr", "both":
		cfg.Logging.Output = "file"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	lc, err := cfg.LoggerConfig("kanatype")
	if err != nil {
		return err
	}
	logger, err := logging.New(lc)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logger.Close()
	logging.SetDefault(logger)

	game, err := app.Prepare(cfg, logger.WithComponent("bank").Logger)
	if err != nil {
		return err
	}

	term, err := tty.Open(os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("kanatype needs an interactive terminal: %w", err)
	}

	crash := logging.NewCrashHandler(&logging.CrashHandlerConfig{
		Version: Version,
		OnCrash: func(logging.CrashReport) { term.Restore() },
	})

	if err := term.MakeRaw(); err != nil {
		return err
	}
	defer term.Restore()

	var runErr error
	if crash.Recover(func() { runErr = play(cfg, game, term, logger) }) {
		os.Exit(2)
	}

	term.Restore()
	if game.Shuffle {
		fmt.Printf("seed %d\n", game.Seed)
	}
	return runErr
}

// play wires the key reader to the session controller and runs until the
// player quits or a signal arrives.
func play(cfg *config.Config, game *app.Game, term *tty.Terminal, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	seq := game.NewSequencer()
	ctrl := session.New(seq, view.NewText(os.Stdout, cfg.Display.Color), game.Session, logger.WithComponent("session").Logger)

	keys := make(chan rune, 16)
	readErr := make(chan error, 1)
	go func() {
		readErr <- keyinput.NewReader(term.Input()).Run(ctx, keys)
		cancel()
	}()

	logger.Info("game ready", "questions", len(game.Questions), "seed", game.Seed)
	err := ctrl.Run(ctx, keys)
	cancel()
	rerr := <-readErr

	logger.Info("game closed", "phase", ctrl.Phase().String(), "skipped", ctrl.Skipped())
	if !app.IsQuit(err) {
		return err
	}
	if !app.IsQuit(rerr) {
		return rerr
	}
	return nil
}
