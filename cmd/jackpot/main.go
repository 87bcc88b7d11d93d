// The jackpot command runs a single non-interactive search against one
// target series and emits the JSON run summary.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/javmunozm/randomsub/candgen"
	"github.com/javmunozm/randomsub/config"
	"github.com/javmunozm/randomsub/draw"
	"github.com/javmunozm/randomsub/search"
	"github.com/javmunozm/randomsub/store"
	"github.com/javmunozm/randomsub/weights"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}

func run() error {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		return err
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	level := zerolog.InfoLevel
	if cfg.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger

	target := cfg.GetInt("series")
	if target == 0 {
		return fmt.Errorf("--series is required")
	}
	h, err := draw.LoadHistory(cfg.GetString("history-file"))
	if err != nil {
		return err
	}
	series, err := h.Get(target)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	var gen candgen.Generator
	budget := cfg.GetInt("budget")
	if pool := cfg.GetString("pool"); pool != "" {
		ps, err := draw.ParseSet(pool)
		if err != nil {
			return fmt.Errorf("bad pool: %w", err)
		}
		ex, err := candgen.NewExhaustive(ps)
		if err != nil {
			return err
		}
		log.Info().Int("combinations", ex.Size()).Stringer("pool", ps).Msg("exhaustive mode")
		gen = ex
		budget = search.Unbounded
	} else {
		seed := cfg.GetUint64("seed")
		if seed == 0 {
			seed = frand.Uint64n(1 << 62)
		}
		log.Info().Uint64("seed", seed).Int("budget", budget).Msg("weighted-random mode")
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		sc := &weights.Scorer{
			Decay:  cfg.GetFloat64("decay"),
			Window: cfg.GetInt("window"),
		}
		w := sc.Compute(h, target).Sqrt()
		gen = candgen.NewWeightedRandom(rng, w, h.Before(target).AllDraws())
	}

	driver := search.NewDriver(gen, series.Draws[:], budget)
	res, err := driver.Run(ctx)
	if err != nil {
		return err
	}
	sum := res.Summary()

	if dbPath := cfg.GetString("results-db"); dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			log.Err(err).Msg("could not open results db; skipping save")
		} else {
			defer st.Close()
			if _, err := st.SaveSearch(target, sum); err != nil {
				log.Err(err).Msg("could not save run")
			}
		}
	}

	out, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	if path := cfg.GetString("out"); path != "" {
		return os.WriteFile(path, out, 0644)
	}
	_, err = os.Stdout.Write(out)
	return err
}
