package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/HexSkirmish/internal/archive"
	"github.com/mitchelldurbincs/HexSkirmish/internal/config"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/HexSkirmish/internal/match"
	"github.com/mitchelldurbincs/HexSkirmish/internal/monitoring"
	"github.com/mitchelldurbincs/HexSkirmish/internal/replay"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", "", "Environment overlay (loads config.<env>.yaml)")
	matches := flag.Int("matches", -1, "Number of matches (-1 to use config default)")
	workers := flag.Int("workers", -1, "Concurrent matches (-1 to use config default)")
	seed := flag.Int64("seed", -1, "Seed of the first match (-1 to use config default)")
	outDir := flag.String("out", "", "Artifact directory (empty to use config default)")
	writeArchive := flag.Bool("archive", false, "Also write a parquet ply archive")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	logEvents := flag.Bool("log-events", false, "Log every engine event at debug level")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(*env); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}
	cfg := config.Get()

	// Use config defaults if not overridden by flags
	if *matches == -1 {
		*matches = cfg.Runner.Matches
	}
	if *workers == -1 {
		*workers = cfg.Runner.Workers
	}
	if *seed == -1 {
		*seed = cfg.Runner.BaseSeed
	}
	if *outDir == "" {
		*outDir = cfg.Output.Dir
	}
	if !*writeArchive {
		*writeArchive = cfg.Output.Archive
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}

	setupLogging(*logLevel, cfg.Logging.Format)
	watchLogLevel()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, options{
		matches: *matches,
		workers: *workers,
		seed:    *seed,
		outDir:  *outDir,
		archive: *writeArchive,
		events:  *logEvents,
	}); err != nil {
		log.Fatal().Err(err).Msg("Skirmish run failed")
	}
}

type options struct {
	matches int
	workers int
	seed    int64
	outDir  string
	archive bool
	events  bool
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	fallback, err := match.ParseFallback(cfg.Runner.Fallback)
	if err != nil {
		return err
	}
	matchConfig := cfg.Game.MatchConfig()

	var publisher events.Publisher
	if opts.events {
		bus := events.NewEventBus(log.Logger)
		bus.Subscribe(subscribers.NewLoggerSubscriber("event-log", log.Logger, zerolog.DebugLevel))
		publisher = bus
	}

	runner, err := match.NewRunner(match.RunnerConfig{
		Match:             matchConfig,
		ProviderTimeout:   cfg.Runner.ProviderTimeout,
		Fallback:          fallback,
		MaxIllegalPerTurn: cfg.Runner.MaxIllegalPerTurn,
		Logger:            log.Logger,
		Publisher:         publisher,
	})
	if err != nil {
		return err
	}

	// Bots look ahead on a silent engine so hypothetical moves are not published.
	lookahead, err := game.NewEngine(game.Config{MatchConfig: matchConfig})
	if err != nil {
		return err
	}
	var providers [2]match.MoveProvider
	var participants [2]string
	for i, name := range cfg.Runner.Players {
		p, err := match.NewProvider(name, lookahead)
		if err != nil {
			return err
		}
		providers[i] = p
		participants[i] = fmt.Sprintf("%s-%s", name, core.Players[i])
	}

	specs := make([]match.Spec, opts.matches)
	for i := range specs {
		specs[i] = match.Spec{Seed: opts.seed + int64(i), Participants: participants, Providers: providers}
	}

	monitor := monitoring.NewGoroutineMonitor(monitoring.Config{CheckInterval: 10 * time.Second}, log.Logger)
	monitor.Track("abandoned_providers", func() int { return int(runner.Abandoned()) })
	monitor.Start()
	defer monitor.Stop()

	start := time.Now()
	outcomes, err := match.NewPool(runner, opts.workers, log.Logger).RunAll(ctx, specs)
	if err != nil {
		return err
	}
	monitor.Check()
	metrics := monitor.GetMetrics()
	log.Debug().
		Int("goroutines_peak", metrics.Peak).
		Int("abandoned_providers", metrics.ComponentCounts["abandoned_providers"]).
		Msg("Pool goroutine metrics")

	var (
		rows     []archive.PlyRow
		wins     = map[core.PlayerID]int{}
		draws    int
		failures int
	)
	for i, out := range outcomes {
		if out.Err != nil {
			failures++
			continue
		}
		path := filepath.Join(opts.outDir, fmt.Sprintf("match_%03d_%s.json", i, out.MatchID))
		if err := replay.Save(path, out.Artifact); err != nil {
			return err
		}
		if _, err := replay.Verify(ctx, out.Artifact, replay.Options{Logger: log.Logger}); err != nil {
			failures++
			logMismatch(path, err)
			continue
		}
		if out.Winner == core.NoPlayer {
			draws++
		} else {
			wins[out.Winner]++
		}
		log.Info().
			Str("artifact", path).
			Int64("seed", out.Seed).
			Str("winner", string(out.Winner)).
			Str("reason", string(out.Reason)).
			Int("turns", out.Turns).
			Int("plies", out.Plies).
			Int("illegal_a", out.Illegal[core.PlayerA]).
			Int("illegal_b", out.Illegal[core.PlayerB]).
			Msg("Match saved")

		if opts.archive {
			r, err := archive.RowsFromArtifact(out.Artifact)
			if err != nil {
				return err
			}
			rows = append(rows, r...)
		}
	}

	if opts.archive {
		path := filepath.Join(opts.outDir, fmt.Sprintf("plies_seed%d_n%d.parquet", opts.seed, opts.matches))
		if err := archive.WritePlies(path, rows); err != nil {
			return err
		}
		log.Info().Str("path", path).Int("rows", len(rows)).Msg("Ply archive written")
	}

	log.Info().
		Int("matches", len(outcomes)).
		Int("wins_a", wins[core.PlayerA]).
		Int("wins_b", wins[core.PlayerB]).
		Int("draws", draws).
		Int("failures", failures).
		Dur("elapsed", time.Since(start)).
		Msg("Run complete")

	if failures > 0 {
		return fmt.Errorf("%d of %d matches failed", failures, len(outcomes))
	}
	return nil
}

func logMismatch(path string, err error) {
	var mismatch *replay.MismatchError
	if errors.As(err, &mismatch) {
		log.Error().
			Str("artifact", path).
			Int("ply", mismatch.Ply).
			Str("kind", mismatch.Kind).
			Str("expected", mismatch.Expected).
			Str("actual", mismatch.Actual).
			Msg("Self-verification failed")
		return
	}
	log.Error().Err(err).Str("artifact", path).Msg("Self-verification failed")
}

// watchLogLevel applies logging.level edits to the config file while a long
// run is in progress. Other keys only take effect on the next run.
func watchLogLevel() {
	path := config.ConfigFilePath()
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	config.WatchConfig(func(c *config.Config, err error) {
		if err != nil {
			log.Warn().Err(err).Msg("Ignoring invalid config change")
			return
		}
		if lvl, err := zerolog.ParseLevel(c.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
		log.Info().Str("level", c.Logging.Level).Msg("Config reloaded")
	})
}

func setupLogging(level, format string) {
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
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
