// Package search coordinates a candidate generator and the evaluator,
// looking for the best achievable match against a target series or the
// first exact jackpot.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/javmunozm/randomsub/candgen"
	"github.com/javmunozm/randomsub/draw"
	"github.com/javmunozm/randomsub/match"
	"github.com/javmunozm/randomsub/stats"
)

// State of the driver. Found, Exhausted and BudgetExceeded are terminal.
type State int

const (
	StateInit State = iota
	StateGenerating
	StateEvaluating
	StateFound
	StateExhausted
	StateBudgetExceeded
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateGenerating:
		return "GENERATING"
	case StateEvaluating:
		return "EVALUATING"
	case StateFound:
		return "FOUND"
	case StateExhausted:
		return "EXHAUSTED"
	case StateBudgetExceeded:
		return "BUDGET_EXCEEDED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Unbounded lets the driver run until FOUND or EXHAUSTED. With a weighted
// generator hunting an exact match this may never terminate; always pass a
// real budget outside of experiments.
const Unbounded = -1

// Result is the terminal report of one run.
type Result struct {
	State     State
	Candidate draw.Set // winning candidate, or best seen
	Best      int      // its match count
	Tries     int
	Elapsed   time.Duration
	Matches   stats.Statistic // best-match-per-try distribution
}

// Summary is the JSON shape the command-line tools write.
type Summary struct {
	Found       bool    `json:"found"`
	Tries       int     `json:"tries"`
	Combination []int   `json:"combination"`
	BestMatch   int     `json:"best_match"`
	TimeSeconds float64 `json:"time_seconds"`
	State       string  `json:"state"`
}

func (r *Result) Summary() Summary {
	return Summary{
		Found:       r.State == StateFound,
		Tries:       r.Tries,
		Combination: r.Candidate.Numbers(),
		BestMatch:   r.Best,
		TimeSeconds: r.Elapsed.Seconds(),
		State:       r.State.String(),
	}
}

// LogTry is one line of the optional iteration log stream.
type LogTry struct {
	Try       int    `yaml:"try"`
	Candidate string `yaml:"candidate"`
	Best      int    `yaml:"best"`
}

// Driver runs the search loop. It owns its generator for the duration of a
// run; the target draws are only ever evaluated against, never used to bias
// generation.
type Driver struct {
	gen    candgen.Generator
	target []draw.Set
	budget int

	state     State
	logStream io.Writer
}

// NewDriver builds a driver. budget is the maximum number of candidates to
// evaluate; pass Unbounded to run until FOUND or EXHAUSTED.
func NewDriver(gen candgen.Generator, target []draw.Set, budget int) *Driver {
	return &Driver{gen: gen, target: target, budget: budget, state: StateInit}
}

// SetLogStream directs per-try yaml records to l. Expensive on long runs;
// meant for debugging.
func (d *Driver) SetLogStream(l io.Writer) {
	d.logStream = l
}

func (d *Driver) State() State {
	return d.state
}

// Run executes the search until a jackpot is found, the space is exhausted,
// or the budget runs out. Context cancellation is checked cooperatively once
// per iteration and surfaces as the context's error alongside the best
// result so far. A zero budget returns BUDGET_EXCEEDED immediately; the
// evaluator is never invoked.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	res := &Result{State: StateBudgetExceeded}
	start := time.Now()
	defer func() {
		res.Elapsed = time.Since(start)
		d.state = res.State
		logger.Debug().Stringer("state", res.State).Int("tries", res.Tries).
			Int("best", res.Best).Msg("search ended")
	}()

	for d.budget == Unbounded || res.Tries < d.budget {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		d.state = StateGenerating
		c, err := d.gen.Next()
		if errors.Is(err, candgen.ErrSpaceExhausted) {
			res.State = StateExhausted
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("generating candidate: %w", err)
		}
		d.state = StateEvaluating
		ev := match.Evaluate(c, d.target)
		res.Tries++
		res.Matches.Push(float64(ev.Best))
		if ev.Best > res.Best {
			res.Best = ev.Best
			res.Candidate = c
			logger.Debug().Int("best", ev.Best).Int("try", res.Tries).
				Str("candidate", c.String()).Msg("new best match")
		}
		if d.logStream != nil {
			out, merr := yaml.Marshal([]LogTry{{Try: res.Tries, Candidate: c.String(), Best: ev.Best}})
			if merr == nil {
				_, merr = d.logStream.Write(out)
			}
			if merr != nil {
				logger.Err(merr).Msg("could not write iteration log")
			}
		}
		if ev.Best == draw.DrawSize {
			res.State = StateFound
			res.Candidate = c
			return res, nil
		}
	}
	res.State = StateBudgetExceeded
	return res, nil
}
