package blocks

import (
	"context"
	"math/rand/v2"

	"github.com/youryharchenko/go-shrdlite/ai"
	"github.com/youryharchenko/go-shrdlite/mas"
	"github.com/youryharchenko/go-shrdlite/world"
)

// ShuffleSteps - довжина випадкового блукання для SHUFFLE.
const ShuffleSteps = 40

// WorldAgent - середовище: володіє світом і застосовує дії по одній.
// Легальність перевіряє той самий world.Apply, що й граф пошуку.
type WorldAgent struct {
	mas.BaseAgent

	World    world.World
	Initial  world.State // для RESET
	ArmID    string      // кого повідомляти про зміни світу
	Console  string      // ID агента-консолі ("" - тільки в лог)
	Seed     uint64
	Shuffles uint64
}

// NewWorldAgent створює агента світу.
func NewWorldAgent(id string, w world.World, armID string) *WorldAgent {
	return &WorldAgent{
		BaseAgent: mas.BaseAgent{IDVal: id},
		World:     w,
		Initial:   w.State.Clone(),
		ArmID:     armID,
		Console:   "console",
		Seed:      1,
	}
}

// Snapshot повертає копію світу для читання з інших горутин.
func (a *WorldAgent) Snapshot() world.World {
	a.RLock()
	defer a.RUnlock()
	w := a.World
	w.State = a.World.State.Clone()
	return w
}

func (a *WorldAgent) Plan(ctx context.Context, msg mas.Envelope) ([]mas.Action, error) {
	switch p := msg.Payload.(type) {
	case ActionRequest:
		return a.apply(ctx, msg.From, p), nil

	case LoadWorld:
		w, err := world.Builtin(p.Name)
		if err != nil {
			return []mas.Action{a.say(ctx, err.Error())}, nil
		}
		return a.replace(ctx, w, w.State.Clone(), "World: loaded "+w.Name), nil

	case string:
		switch p {
		case Reset:
			w := a.Snapshot()
			w.State = a.Initial.Clone()
			return a.replace(ctx, w, a.Initial, "World: reset"), nil

		case Shuffle:
			w := a.Snapshot()
			rng := rand.New(rand.NewPCG(a.Seed, a.Shuffles))
			w.State, _ = ai.RandomWalk(w.Graph(), w.State, ShuffleSteps, rng)
			return append(a.replace(ctx, w, a.Initial, "World: shuffled"),
				mas.MutateState(func(x any) { x.(*WorldAgent).Shuffles++ }),
			), nil
		}
	}
	return nil, nil
}

// apply виконує одну дію. Нелегальна дія стан не змінює.
func (a *WorldAgent) apply(ctx context.Context, from string, req ActionRequest) []mas.Action {
	current := a.Snapshot()
	next, err := world.Apply(current.Objects, current.State, req.Action)
	if err != nil {
		return []mas.Action{
			mas.SendCtx(ctx, from, ActionResult{
				Action:  req.Action,
				Success: false,
				Message: err.Error(),
				State:   current.State,
			}),
		}
	}
	return []mas.Action{
		mas.MutateState(func(x any) {
			x.(*WorldAgent).World.State = next
		}),
		mas.SendCtx(ctx, from, ActionResult{Action: req.Action, Success: true, State: next}),
	}
}

func (a *WorldAgent) replace(ctx context.Context, w world.World, initial world.State, note string) []mas.Action {
	actions := []mas.Action{
		mas.MutateState(func(x any) {
			wa := x.(*WorldAgent)
			wa.World = w
			wa.Initial = initial
		}),
		a.say(ctx, note),
	}
	if a.ArmID != "" {
		actions = append(actions, mas.SendCtx(ctx, a.ArmID, WorldUpdate{World: w}))
	}
	return actions
}

func (a *WorldAgent) say(ctx context.Context, text string) mas.Action {
	if a.Console == "" {
		return mas.SayLog("%s", text)
	}
	return func(ag mas.Agent, sys *mas.System) error {
		err := sys.Send(ctx, ag.ID(), a.Console, text)
		if err != nil {
			// Консолі може не бути (тести, CLI) - тоді в лог.
			sys.Logger().Info(text)
		}
		return nil
	}
}
