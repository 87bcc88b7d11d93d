package backtest

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/javmunozm/randomsub/draw"
	"github.com/javmunozm/randomsub/match"
	"github.com/javmunozm/randomsub/stats"
)

var (
	SeriesCounter *expvar.Int
	IsRunning     *expvar.Int
)

func init() {
	SeriesCounter = expvar.NewInt("backtestSeriesCounter")
	IsRunning = expvar.NewInt("backtestIsRunning")
}

// SeriesResult is the outcome of predicting one series.
type SeriesResult struct {
	Series     int
	Candidates int
	Best       int
	BestCand   draw.Set
	Skipped    bool
}

// Report aggregates a whole walk-forward run.
type Report struct {
	Strategy   string
	Results    []SeriesResult
	MatchStats stats.Statistic
	Jackpots   int
	Skipped    int
}

// Runner evaluates a strategy series-by-series across a worker pool. The
// per-series prediction is independent work, so it parallelizes cleanly even
// though every individual search loop is single-threaded.
type Runner struct {
	history *draw.History
	threads int
}

func NewRunner(h *draw.History, threads int) *Runner {
	if threads < 1 {
		threads = 1
	}
	return &Runner{history: h, threads: threads}
}

// Run predicts every series in [from, to] present in the history. Series
// with no prior history are skipped, not failed: there is nothing to predict
// from.
func (r *Runner) Run(ctx context.Context, strat Strategy, from, to int) (*Report, error) {
	if from > to {
		return nil, fmt.Errorf("bad series range [%d, %d]", from, to)
	}
	targets := []int{}
	for _, id := range r.history.IDs() {
		if id >= from && id <= to {
			targets = append(targets, id)
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no series in range [%d, %d]: %w", from, to, draw.ErrNoSeries)
	}
	log.Debug().Int("targets", len(targets)).Int("threads", r.threads).
		Str("strategy", strat.Name()).Msg("starting backtest")

	IsRunning.Add(1)
	defer IsRunning.Add(-1)
	SeriesCounter.Set(0)

	report := &Report{Strategy: strat.Name(), Results: make([]SeriesResult, len(targets))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.threads)
	for i, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sres, err := r.runOne(strat, target)
			if err != nil {
				return fmt.Errorf("series %d: %w", target, err)
			}
			SeriesCounter.Add(1)
			mu.Lock()
			report.Results[i] = sres
			if sres.Skipped {
				report.Skipped++
			} else {
				report.MatchStats.Push(float64(sres.Best))
				if sres.Best == draw.DrawSize {
					report.Jackpots++
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Runner) runOne(strat Strategy, target int) (SeriesResult, error) {
	sres := SeriesResult{Series: target}
	series, err := r.history.Get(target)
	if err != nil {
		return sres, err
	}
	cands, err := strat.Predict(r.history, target)
	if errors.Is(err, draw.ErrNoSeries) {
		// No prior data; no prediction possible for this series.
		sres.Skipped = true
		return sres, nil
	}
	if err != nil {
		return sres, err
	}
	if len(cands) == 0 {
		sres.Skipped = true
		return sres, nil
	}
	sres.Candidates = len(cands)
	for _, c := range cands {
		ev := match.Evaluate(c, series.Draws[:])
		if ev.Best > sres.Best || sres.BestCand == 0 {
			sres.Best = ev.Best
			sres.BestCand = c
		}
	}
	return sres, nil
}

// String renders the report the way the analysis scripts printed theirs:
// a summary line, a best-match distribution, and a histogram.
func (rep *Report) String() string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "strategy: %s\n", rep.Strategy)
	fmt.Fprintf(&ss, "series evaluated: %d (skipped %d)\n",
		rep.MatchStats.Count(), rep.Skipped)
	if rep.MatchStats.Count() == 0 {
		return ss.String()
	}
	fmt.Fprintf(&ss, "best match: mean %.2f ± %.2f (95%%), min %d, max %d, jackpots %d\n",
		rep.MatchStats.Mean(), stats.Z95*rep.MatchStats.StandardError(),
		int(rep.MatchStats.Min()), int(rep.MatchStats.Max()), rep.Jackpots)

	dist := map[int]int{}
	data := make([]float64, 0, len(rep.Results))
	for _, res := range rep.Results {
		if res.Skipped {
			continue
		}
		dist[res.Best]++
		data = append(data, float64(res.Best))
	}
	keys := lo.Keys(dist)
	sort.Ints(keys)
	for _, k := range keys {
		fmt.Fprintf(&ss, "  %2d/14: %d\n", k, dist[k])
	}
	// uniplot needs a non-degenerate value range.
	if rep.MatchStats.Max() > rep.MatchStats.Min() {
		hist := histogram.Hist(draw.DrawSize, data)
		if err := histogram.Fprint(&ss, hist, histogram.Linear(40)); err != nil {
			log.Err(err).Msg("could not render histogram")
		}
	}
	return ss.String()
}
