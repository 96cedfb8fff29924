package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/HexSkirmish/internal/config"
	"github.com/mitchelldurbincs/HexSkirmish/internal/replay"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <artifact.json|dir>...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	setupLogging(*logLevel, cfg.Logging.Format)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	paths, err := collect(flag.Args())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list artifacts")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed := 0
	for _, path := range paths {
		if err := verifyFile(ctx, path); err != nil {
			failed++
			if ctx.Err() != nil {
				break
			}
		}
	}

	log.Info().Int("artifacts", len(paths)).Int("failed", failed).Msg("Verification complete")
	if failed > 0 {
		os.Exit(1)
	}
}

// collect expands directories to the artifact files they contain.
func collect(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.json"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

func verifyFile(ctx context.Context, path string) error {
	a, err := replay.Load(path)
	if err != nil {
		log.Error().Err(err).Str("artifact", path).Msg("Failed to load artifact")
		return err
	}

	report, err := replay.Verify(ctx, a, replay.Options{Logger: log.Logger})
	if err != nil {
		var mismatch *replay.MismatchError
		if errors.As(err, &mismatch) {
			log.Error().
				Str("artifact", path).
				Int("ply", mismatch.Ply).
				Str("kind", mismatch.Kind).
				Str("expected", mismatch.Expected).
				Str("actual", mismatch.Actual).
				Msg("Verification failed")
		} else {
			log.Error().Err(err).Str("artifact", path).Msg("Verification failed")
		}
		return err
	}

	log.Info().
		Str("artifact", path).
		Str("match_id", report.MatchID).
		Int("plies", report.Plies).
		Str("final_hash", report.FinalStateHash).
		Msg("Verified")
	return nil
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
