package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youryharchenko/go-shrdlite/ai"
	"github.com/youryharchenko/go-shrdlite/logic"
	"github.com/youryharchenko/go-shrdlite/planner"
	"github.com/youryharchenko/go-shrdlite/render"
	"github.com/youryharchenko/go-shrdlite/world"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive session: each command is planned and executed",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := loadWorld()
		if err != nil {
			return err
		}
		r := newREPL(newService(), w, cmd.InOrStdin(), cmd.OutOrStdout())
		r.prompt = interactive(os.Stdin)
		r.color = colorOutput(cmd.OutOrStdout())
		r.logger = logger
		return r.Run(cmd.Context())
	},
}

const replHelp = `Type an English command, or:
  :goal DNF     plan for a goal such as ontop(e,floor) | holding(f)
  :world NAME   switch to a built-in world
  :reset        restore the initial state
  :shuffle [N]  make N random legal moves (default 40)
  :show         print the world
  :quit         leave`

// repl - сесія: світ змінюється після кожного виконаного плану.
type repl struct {
	svc     *planner.Service
	world   world.World
	initial world.World
	in      io.Reader
	out     io.Writer
	prompt  bool
	color   bool
	seed    uint64
	logger  *zap.Logger
}

func newREPL(svc *planner.Service, w world.World, in io.Reader, out io.Writer) *repl {
	return &repl{svc: svc, world: w, initial: w, in: in, out: out, seed: 1, logger: zap.NewNop()}
}

// interactive - чи stdin є терміналом.
func interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run читає рядки до :quit, EOF або скасування ctx.
func (r *repl) Run(ctx context.Context) error {
	r.show()
	if r.prompt {
		fmt.Fprintln(r.out, replHelp)
	}

	scanner := bufio.NewScanner(r.in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if r.prompt {
			fmt.Fprint(r.out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := r.handle(ctx, line); quit {
			return nil
		}
	}
}

func (r *repl) handle(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, ":") {
		r.plan(func() (*planner.Outcome, error) { return r.svc.Plan(ctx, r.world, line) })
		return false
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "q", "quit", "exit":
		return true
	case "help", "h":
		fmt.Fprintln(r.out, replHelp)
	case "show":
		r.show()
	case "reset":
		r.world = r.initial
		r.show()
	case "world":
		w, err := world.Builtin(arg)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		r.world, r.initial = w, w
		r.show()
	case "shuffle":
		steps := 40
		if arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil || n < 0 {
				fmt.Fprintf(r.out, "bad step count %q\n", arg)
				return false
			}
			steps = n
		}
		rng := rand.New(rand.NewPCG(r.seed, uint64(steps)))
		r.seed++
		state, _ := ai.RandomWalk(r.world.Graph(), r.world.State, steps, rng)
		r.world.State = state
		r.show()
	case "goal":
		dnf, err := logic.ParseDNF(arg)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		r.plan(func() (*planner.Outcome, error) { return r.svc.PlanGoal(ctx, r.world, dnf) })
	default:
		fmt.Fprintf(r.out, "unknown command :%s (try :help)\n", name)
	}
	return false
}

// plan планує, друкує і виконує план у поточному світі.
func (r *repl) plan(run func() (*planner.Outcome, error)) {
	out, err := run()
	switch {
	case errors.Is(err, planner.ErrNoPlan):
		r.logger.Debug("no plan", zap.Error(err))
		fmt.Fprintln(r.out, render.DontKnow)
		return
	case err != nil:
		fmt.Fprintln(r.out, err)
		return
	}

	printPlan(r.out, out.Messages)
	next, err := execute(r.world, out.Actions)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	r.world = next
	if len(out.Actions) > 0 {
		r.show()
	}
}

func (r *repl) show() {
	fmt.Fprint(r.out, render.World(r.world, render.WorldOptions{Color: r.color}))
}
