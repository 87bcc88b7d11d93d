// Package shell implements the interactive randomsub console.
package shell

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/javmunozm/randomsub/config"
	"github.com/javmunozm/randomsub/draw"
	"github.com/javmunozm/randomsub/store"
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	history *draw.History
	results *store.Store
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mrandomsub>\033[0m ",
		HistoryFile:     "/tmp/readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, cfg: cfg}
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.l.Stdout(), msg)
	io.WriteString(sc.l.Stdout(), "\n")
}

func (sc *ShellController) showError(err error) {
	io.WriteString(sc.l.Stderr(), "error: "+err.Error()+"\n")
}

// rng builds a fresh explicit RNG for one command invocation. With a
// configured seed every command is reproducible; otherwise each run gets
// independent seed material.
func (sc *ShellController) rng() *rand.Rand {
	seed := sc.cfg.GetUint64("seed")
	if seed == 0 {
		seed = frand.Uint64n(1 << 62)
	}
	log.Debug().Uint64("seed", seed).Msg("rng seeded")
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// openResults lazily opens the results store; shell use should not require
// a database until something is worth saving.
func (sc *ShellController) openResults() (*store.Store, error) {
	if sc.results != nil {
		return sc.results, nil
	}
	st, err := store.Open(sc.cfg.GetString("results-db"))
	if err != nil {
		return nil, err
	}
	sc.results = st
	return st, nil
}

// Loop runs the read-eval loop until exit or EOF.
func (sc *ShellController) Loop(ctx context.Context) {
	defer sc.l.Close()
	defer func() {
		if sc.results != nil {
			sc.results.Close()
		}
	}()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "bye" {
			break
		}
		fields, err := shellquote.Split(line)
		if err != nil {
			sc.showError(fmt.Errorf("parsing command: %w", err))
			continue
		}
		if err := sc.dispatch(ctx, fields[0], fields[1:]); err != nil {
			sc.showError(err)
		}
	}
	log.Info().Msg("leaving shell")
}

func (sc *ShellController) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		usage(sc.l.Stdout())
		return nil
	case "load":
		return sc.load(args)
	case "show":
		return sc.show(args)
	case "weights":
		return sc.weightTable(args)
	case "predict":
		return sc.predict(args)
	case "fuse":
		return sc.fuse(args)
	case "search":
		return sc.search(ctx, args)
	case "exhaust":
		return sc.exhaust(ctx, args)
	case "backtest":
		return sc.backtest(ctx, args)
	case "recent":
		return sc.recent(args)
	case "set":
		return sc.setOption(args)
	default:
		return fmt.Errorf("unknown command %q; try help", cmd)
	}
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "load <path/to/history.json> - load draw history\n")
	io.WriteString(w, "show <series> - show a series' 7 draws\n")
	io.WriteString(w, "weights <series> - number weights from prior history\n")
	io.WriteString(w, "predict <series> [n] - top n adaptive-model candidates; n defaults to 5\n")
	io.WriteString(w, "fuse <series> - fuse previous series' draws into one candidate\n")
	io.WriteString(w, "search <series> [budget] - weighted-random jackpot search\n")
	io.WriteString(w, "exhaust <series> <n1 n2 ...> - exhaustive search over a number pool\n")
	io.WriteString(w, "backtest <frequency|fusion|learner> <from> <to> - walk-forward hit rate\n")
	io.WriteString(w, "recent [n] - last saved runs; n defaults to 10\n")
	io.WriteString(w, "set <option> <value> - override a setting (seed, decay, window, budget, threads)\n")
	io.WriteString(w, "exit - leave the shell\n")
}
