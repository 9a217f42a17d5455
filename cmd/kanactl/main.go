// kanactl is the companion CLI for kanatype: it checks and converts
// question banks and inspects the romaji table.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"kanatype/internal/app"
	"kanatype/internal/bank"
	"kanatype/internal/config"
	"kanatype/internal/logging"
	"kanatype/internal/matcher"
	"kanatype/internal/romaji"
)

var (
	configPath = flag.String("config", "", "path to config file")
	tablePath  = flag.String("table", "", "romaji table file (overrides config)")
	nasal      = flag.String("nasal", "", "nasal policy for romanize: lenient or strict")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: kanactl check <bank>")
			os.Exit(1)
		}
		err = cmdCheck(os.Stdout, flag.Arg(1))
	case "romanize":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: kanactl romanize <kana>...")
			os.Exit(1)
		}
		err = cmdRomanize(os.Stdout, flag.Args()[1:])
	case "convert":
		if flag.NArg() < 3 {
			fmt.Fprintln(os.Stderr, "Usage: kanactl convert <bank> <out.toml|->")
			os.Exit(1)
		}
		err = cmdConvert(flag.Arg(1), flag.Arg(2))
	case "table":
		err = cmdTable(os.Stdout)
	case "init":
		err = cmdInit(os.Stdout)
	case "crashes":
		err = cmdCrashes(os.Stdout, flag.Arg(1))
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `kanactl - Bank and table utility for kanatype

Usage: kanactl [options] <command> [args]

Commands:
  check <bank>              Report questions the table cannot type
  romanize <kana>...        Print one way to type each word
  convert <bank> <out>      Rewrite any bank format as TOML ("-" for stdout)
  table                     Print the effective romaji table as TOML
  init                      Write a default config file if none exists
  crashes [clear|prune]     List, remove or prune old crash reports
  help                      Show this help message

Options:
  -config <path>  Path to config file
  -table <path>   Romaji table file
  -nasal <mode>   Nasal policy for romanize (lenient or strict)`)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if *tablePath != "" {
		cfg.Table.Path = *tablePath
	}
	if *nasal != "" {
		cfg.Game.Nasal = *nasal
	}
	return cfg, nil
}

func loadTable() (*romaji.Table, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	t, err := app.LoadTable(cfg.Table.Path)
	if err != nil {
		return nil, nil, err
	}
	return t, cfg, nil
}

func cmdCheck(w io.Writer, path string) error {
	table, _, err := loadTable()
	if err != nil {
		return err
	}
	qs, err := bank.Load(path)
	if err != nil {
		return err
	}

	ok, bad := bank.Filter(table, qs)
	for _, verr := range bad {
		fmt.Fprintf(w, "  %v\n", verr)
	}
	fmt.Fprintf(w, "%s: %d questions, %d playable, %d untypeable\n", path, len(qs), len(ok), len(bad))
	if len(bad) > 0 {
		return fmt.Errorf("%d untypeable questions", len(bad))
	}
	if len(qs) == 0 {
		return bank.ErrEmptyBank
	}
	return nil
}

func cmdRomanize(w io.Writer, words []string) error {
	table, cfg, err := loadTable()
	if err != nil {
		return err
	}
	policy, err := cfg.NasalPolicy()
	if err != nil {
		return err
	}

	var failed int
	for _, word := range words {
		kana := bank.NormalizeKana(word)
		typed, err := matcher.Romanize(table, kana, matcher.WithNasalPolicy(policy))
		if err != nil {
			fmt.Fprintf(w, "%s\t! %v\n", word, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", word, typed)
	}
	if failed > 0 {
		return fmt.Errorf("%d words could not be romanized", failed)
	}
	return nil
}

func cmdConvert(in, out string) error {
	qs, err := bank.Load(in)
	if err != nil {
		return err
	}

	if out == "-" {
		return bank.Encode(os.Stdout, qs)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := bank.Encode(f, qs); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d questions to %s\n", len(qs), out)
	return nil
}

func cmdTable(w io.Writer) error {
	table, _, err := loadTable()
	if err != nil {
		return err
	}
	return romaji.Encode(w, table)
}

func cmdInit(w io.Writer) error {
	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, created, err := config.LoadOrCreate(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(w, "Created %s\n", path)
	} else {
		fmt.Fprintf(w, "Config already exists at %s (version %d)\n", path, cfg.Version)
	}
	return nil
}

func cmdCrashes(w io.Writer, sub string) error {
	h := logging.NewCrashHandler(nil)
	switch sub {
	case "":
		reports, err := h.GetCrashReports()
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			fmt.Fprintf(w, "No crash reports in %s\n", h.Dir())
			return nil
		}
		for _, r := range reports {
			fmt.Fprintf(w, "%s  %s %s  %s\n", r.Timestamp.Local().Format(time.DateTime), r.Component, r.Version, r.PanicValue)
		}
		return nil
	case "clear":
		return h.ClearCrashReports()
	case "prune":
		return h.CleanupOldCrashReports(30 * 24 * time.Hour)
	default:
		return errors.New("usage: kanactl crashes [clear|prune]")
	}
}
