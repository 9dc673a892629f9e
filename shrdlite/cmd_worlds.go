package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/youryharchenko/go-shrdlite/ai"
	"github.com/youryharchenko/go-shrdlite/render"
	"github.com/youryharchenko/go-shrdlite/world"
)

var worldsCmd = &cobra.Command{
	Use:   "worlds",
	Short: "List built-in worlds with their example commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range world.BuiltinNames() {
			w, err := world.Builtin(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d columns, %d objects\n", name, len(w.State.Stacks), len(w.Objects))
			for _, ex := range w.Examples {
				fmt.Fprintf(out, "  - %s\n", ex)
			}
		}
		return nil
	},
}

var (
	shuffleSteps int
	shuffleSeed  uint64
	shuffleYAML  bool
)

var shuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Scramble the world with random legal moves",
	Long: `shuffle walks the state graph at random from the configured world and prints
the result. With --yaml the result is a world file usable with --world-file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := loadWorld()
		if err != nil {
			return err
		}
		rng := rand.New(rand.NewPCG(shuffleSeed, uint64(shuffleSteps)))
		state, path := ai.RandomWalk(w.Graph(), w.State, shuffleSteps, rng)
		w.State = state
		logger.Debug("shuffled world", zap.Int("moves", len(path)), zap.String("state", state.Key()))

		out := cmd.OutOrStdout()
		if shuffleYAML {
			data, err := yaml.Marshal(w.ToFile())
			if err != nil {
				return fmt.Errorf("failed to marshal world: %w", err)
			}
			_, err = out.Write(data)
			return err
		}
		fmt.Fprintf(out, "# %d moves\n", len(path))
		fmt.Fprint(out, render.World(w, render.WorldOptions{Color: colorOutput(out), Legend: true}))
		return nil
	},
}

func init() {
	shuffleCmd.Flags().IntVarP(&shuffleSteps, "steps", "n", 40, "number of random moves")
	shuffleCmd.Flags().Uint64Var(&shuffleSeed, "seed", 1, "random seed")
	shuffleCmd.Flags().BoolVar(&shuffleYAML, "yaml", false, "print a world YAML file instead of a picture")
}
