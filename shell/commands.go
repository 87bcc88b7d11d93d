package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/javmunozm/randomsub/backtest"
	"github.com/javmunozm/randomsub/candgen"
	"github.com/javmunozm/randomsub/draw"
	"github.com/javmunozm/randomsub/fusion"
	"github.com/javmunozm/randomsub/learner"
	"github.com/javmunozm/randomsub/match"
	"github.com/javmunozm/randomsub/search"
	"github.com/javmunozm/randomsub/weights"
)

var errNoHistory = errors.New("please load a history first with the `load` command")

func (sc *ShellController) requireHistory() error {
	if sc.history == nil {
		return errNoHistory
	}
	return nil
}

func (sc *ShellController) scorer() *weights.Scorer {
	return &weights.Scorer{
		Decay:  sc.cfg.GetFloat64("decay"),
		Window: sc.cfg.GetInt("window"),
	}
}

func seriesArg(args []string) (int, error) {
	if len(args) < 1 {
		return 0, errors.New("missing series id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("bad series id %q", args[0])
	}
	return id, nil
}

func (sc *ShellController) load(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: load <path/to/history.json>")
	}
	h, err := draw.LoadHistory(args[0])
	if err != nil {
		return err
	}
	sc.history = h
	sc.showMessage(historySummary(h))
	return nil
}

// historySummary describes a loaded history. A syntactically valid file may
// hold zero series; that is a valid (if useless) history, not a crash.
func historySummary(h *draw.History) string {
	if h.Len() == 0 {
		return "loaded 0 series"
	}
	ids := h.IDs()
	return fmt.Sprintf("loaded %d series (%d..%d)", h.Len(), ids[0], ids[len(ids)-1])
}

func (sc *ShellController) show(args []string) error {
	if err := sc.requireHistory(); err != nil {
		return err
	}
	id, err := seriesArg(args)
	if err != nil {
		return err
	}
	s, err := sc.history.Get(id)
	if err != nil {
		return err
	}
	for i, d := range s.Draws {
		sc.showMessage(fmt.Sprintf("%d.%d: %s", id, i, d))
	}
	return nil
}

func (sc *ShellController) weightTable(args []string) error {
	if err := sc.requireHistory(); err != nil {
		return err
	}
	id, err := seriesArg(args)
	if err != nil {
		return err
	}
	w := sc.scorer().Compute(sc.history, id)
	nums := make([]int, 0, draw.MaxNumber)
	for n := 1; n <= draw.MaxNumber; n++ {
		nums = append(nums, n)
	}
	sort.SliceStable(nums, func(i, j int) bool { return w[nums[i]] > w[nums[j]] })
	sc.showMessage(fmt.Sprintf("%-8s%s", "Number", "Weight"))
	for _, n := range nums {
		sc.showMessage(fmt.Sprintf("%-8d%.4f", n, w[n]))
	}
	return nil
}

func (sc *ShellController) predict(args []string) error {
	if err := sc.requireHistory(); err != nil {
		return err
	}
	id, err := seriesArg(args)
	if err != nil {
		return err
	}
	count := 5
	if len(args) > 1 {
		count, err = strconv.Atoi(args[1])
		if err != nil || count < 1 {
			return fmt.Errorf("bad candidate count %q", args[1])
		}
	}
	m := learner.New(sc.rng())
	m.TrainBefore(sc.history, id)
	if m.Observed() == 0 {
		return fmt.Errorf("no prediction possible for series %d: no prior history", id)
	}
	cands, err := m.Candidates(count)
	if err != nil {
		return err
	}
	actual, lookupErr := sc.history.Get(id)
	for i, c := range cands {
		line := fmt.Sprintf("%2d: %s (score %.3f)", i+1, c, m.Score(c))
		if lookupErr == nil {
			ev := match.Evaluate(c, actual.Draws[:])
			line += fmt.Sprintf("  best match %d/14", ev.Best)
		}
		sc.showMessage(line)
	}
	return nil
}

func (sc *ShellController) fuse(args []string) error {
	if err := sc.requireHistory(); err != nil {
		return err
	}
	id, err := seriesArg(args)
	if err != nil {
		return err
	}
	prior := sc.history.Before(id)
	ids := prior.IDs()
	if len(ids) == 0 {
		return fmt.Errorf("no prediction possible for series %d: no prior history", id)
	}
	last, err := prior.Get(ids[len(ids)-1])
	if err != nil {
		return err
	}
	w := sc.scorer().Compute(sc.history, id)
	c, err := fusion.FuseDraws(last.Draws[:], func(n int) float64 { return w[n] })
	if err != nil {
		return err
	}
	line := fmt.Sprintf("fused %d -> %s", last.ID, c)
	if actual, err := sc.history.Get(id); err == nil {
		ev := match.Evaluate(c, actual.Draws[:])
		line += fmt.Sprintf("  best match %d/14", ev.Best)
	}
	sc.showMessage(line)
	return nil
}

func (sc *ShellController) search(ctx context.Context, args []string) error {
	if err := sc.requireHistory(); err != nil {
		return err
	}
	id, err := seriesArg(args)
	if err != nil {
		return err
	}
	budget := sc.cfg.GetInt("budget")
	if len(args) > 1 {
		budget, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad budget %q", args[1])
		}
	}
	target, err := sc.history.Get(id)
	if err != nil {
		return err
	}
	prior := sc.history.Before(id)
	w := sc.scorer().Compute(sc.history, id).Sqrt()
	gen := candgen.NewWeightedRandom(sc.rng(), w, prior.AllDraws())
	driver := search.NewDriver(gen, target.Draws[:], budget)
	res, err := driver.Run(ctx)
	if err != nil {
		return err
	}
	sc.printResult(res)
	if st, err := sc.openResults(); err == nil {
		if _, serr := st.SaveSearch(id, res.Summary()); serr != nil {
			sc.showError(serr)
		}
	}
	return nil
}

func (sc *ShellController) exhaust(ctx context.Context, args []string) error {
	if err := sc.requireHistory(); err != nil {
		return err
	}
	id, err := seriesArg(args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: exhaust <series> <n1 n2 ...>")
	}
	pool, err := draw.ParseSet(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	target, err := sc.history.Get(id)
	if err != nil {
		return err
	}
	gen, err := candgen.NewExhaustive(pool)
	if err != nil {
		return err
	}
	sc.showMessage(fmt.Sprintf("searching %d combinations of pool %s", gen.Size(), pool))
	driver := search.NewDriver(gen, target.Draws[:], search.Unbounded)
	res, err := driver.Run(ctx)
	if err != nil {
		return err
	}
	sc.printResult(res)
	return nil
}

func (sc *ShellController) printResult(res *search.Result) {
	out, err := json.MarshalIndent(res.Summary(), "", "  ")
	if err != nil {
		sc.showError(err)
		return
	}
	sc.showMessage(string(out))
	sc.showMessage(fmt.Sprintf("match distribution: mean %.2f stdev %.2f over %d tries",
		res.Matches.Mean(), res.Matches.Stdev(), res.Matches.Count()))
}

func (sc *ShellController) backtest(ctx context.Context, args []string) error {
	if err := sc.requireHistory(); err != nil {
		return err
	}
	if len(args) != 3 {
		return errors.New("usage: backtest <frequency|fusion|learner> <from> <to>")
	}
	var strat backtest.Strategy
	switch args[0] {
	case "frequency":
		strat = &backtest.FrequencyStrategy{Scorer: sc.scorer()}
	case "fusion":
		strat = &backtest.FusionStrategy{Scorer: sc.scorer()}
	case "learner":
		strat = &backtest.LearnerStrategy{Seed: sc.cfg.GetUint64("seed")}
	default:
		return fmt.Errorf("unknown strategy %q", args[0])
	}
	from, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad from-series %q", args[1])
	}
	to, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("bad to-series %q", args[2])
	}
	threads := sc.cfg.GetInt("threads")
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	runner := backtest.NewRunner(sc.history, threads)
	rep, err := runner.Run(ctx, strat, from, to)
	if err != nil {
		return err
	}
	sc.showMessage(rep.String())
	if st, err := sc.openResults(); err == nil {
		for _, r := range rep.Results {
			if r.Skipped {
				continue
			}
			if _, serr := st.SaveBacktest(rep.Strategy, r.Series, r.Best, r.BestCand); serr != nil {
				sc.showError(serr)
				break
			}
		}
	}
	return nil
}

func (sc *ShellController) recent(args []string) error {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("bad limit %q", args[0])
		}
		limit = n
	}
	st, err := sc.openResults()
	if err != nil {
		return err
	}
	runs, err := st.Recent(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		sc.showMessage("no saved runs")
		return nil
	}
	sc.showMessage(fmt.Sprintf("%-5s%-10s%-9s%-10s%-8s%-7s%s", "ID", "Kind", "Series", "Strategy", "Best", "Found", "Combination"))
	for _, r := range runs {
		sc.showMessage(fmt.Sprintf("%-5d%-10s%-9d%-10s%-8d%-7v%s",
			r.ID, r.Kind, r.Series, r.Strategy, r.Best, r.Found, r.Combination))
	}
	return nil
}

var settableOptions = map[string]bool{
	"seed": true, "decay": true, "window": true, "budget": true, "threads": true,
}

func (sc *ShellController) setOption(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: set <option> <value>")
	}
	if !settableOptions[args[0]] {
		return fmt.Errorf("option %q is not settable from the shell", args[0])
	}
	sc.cfg.Set(args[0], args[1])
	sc.showMessage(fmt.Sprintf("%s = %s", args[0], args[1]))
	return nil
}
