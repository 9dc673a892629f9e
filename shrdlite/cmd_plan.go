package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/youryharchenko/go-shrdlite/logic"
	"github.com/youryharchenko/go-shrdlite/planner"
	"github.com/youryharchenko/go-shrdlite/planning"
	"github.com/youryharchenko/go-shrdlite/render"
	"github.com/youryharchenko/go-shrdlite/world"
)

var (
	planGoal    string
	planExecute bool
)

var planCmd = &cobra.Command{
	Use:   "plan [command words...]",
	Short: "Plan one English command (or a DNF goal) and print the actions",
	Example: `  shrdlite plan take the white ball
  shrdlite plan --world medium "put the black ball in a box on the floor"
  shrdlite plan --goal "inside(f,k) | ontop(e,floor)" --execute`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if planGoal == "" && len(args) == 0 {
			return errors.New("nothing to plan: give a command or --goal")
		}
		w, err := loadWorld()
		if err != nil {
			return err
		}

		svc := newService()
		var out *planner.Outcome
		if planGoal != "" {
			dnf, perr := logic.ParseDNF(planGoal)
			if perr != nil {
				return perr
			}
			out, err = svc.PlanGoal(cmd.Context(), w, dnf)
		} else {
			out, err = svc.Plan(cmd.Context(), w, strings.Join(args, " "))
		}

		stdout := cmd.OutOrStdout()
		if errors.Is(err, planner.ErrNoPlan) {
			fmt.Fprintln(stdout, render.DontKnow)
			return err
		}
		if err != nil {
			return err
		}

		if out.Command != "" {
			fmt.Fprintf(stdout, "# %s\n", out.Command)
		}
		fmt.Fprintf(stdout, "# goal: %s\n", out.Goal)
		printPlan(stdout, out.Messages)

		if planExecute {
			final, err := execute(w, out.Actions)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout)
			fmt.Fprint(stdout, render.World(final, render.WorldOptions{Color: colorOutput(stdout), Legend: true}))
		}
		return nil
	},
}

func init() {
	planCmd.Flags().StringVarP(&planGoal, "goal", "g", "", "plan for a DNF goal instead of an English command")
	planCmd.Flags().BoolVarP(&planExecute, "execute", "x", false, "apply the plan and print the resulting world")
}

// printPlan друкує повідомлення, а літери дій після кожного - одним рядком.
func printPlan(out io.Writer, messages []string) {
	var letters []string
	flush := func() {
		if len(letters) > 0 {
			fmt.Fprintf(out, "    %s\n", strings.Join(letters, " "))
			letters = letters[:0]
		}
	}
	for _, m := range messages {
		if len(render.Actions([]string{m})) == 1 {
			letters = append(letters, m)
			continue
		}
		flush()
		fmt.Fprintln(out, m)
	}
	flush()
}

// execute програє план від стану світу.
func execute(w world.World, actions []planning.Action) (world.World, error) {
	state, done, err := world.Execute(w.Objects, w.State, actions)
	if err != nil {
		return w, fmt.Errorf("plan failed after %d actions: %w", done, err)
	}
	w.State = state
	return w, nil
}

// colorOutput - чи писати кольорами в out.
func colorOutput(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
