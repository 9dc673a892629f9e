package blocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/youryharchenko/go-shrdlite/ai"
	"github.com/youryharchenko/go-shrdlite/config"
	"github.com/youryharchenko/go-shrdlite/mas"
	"github.com/youryharchenko/go-shrdlite/planner"
	"github.com/youryharchenko/go-shrdlite/planning"
	"github.com/youryharchenko/go-shrdlite/render"
	"github.com/youryharchenko/go-shrdlite/world"
)

// ArmAgent - рука: приймає команди, планує через planner.Service
// і виконує план по одній дії на TICK.
type ArmAgent struct {
	mas.BaseAgent
	WorldID string
	Console string

	// Експортований стан (для GOB і UI)
	Current   world.State
	Algorithm string // astar або bfs
	Steps     int
	Busy      bool // є план, який ще виконується
	Waiting   bool // чекаємо ActionResult
	LastError string

	// Інтелект не зберігається: відновлюється в Bind
	cfg     *config.Config
	service *planner.Service
	brain   *ai.PlanPolicy[world.State]
	memory  *BlocksMemory
	domain  *planner.Domain
}

// NewArmAgent створює руку. cfg може бути nil - тоді налаштування за замовчуванням.
func NewArmAgent(id, worldID string, start world.State, cfg *config.Config) *ArmAgent {
	if cfg == nil {
		cfg = config.Default()
	}
	return &ArmAgent{
		BaseAgent: mas.BaseAgent{IDVal: id},
		WorldID:   worldID,
		Console:   "console",
		Current:   start,
		Algorithm: cfg.Planner.Algorithm,
		cfg:       cfg,
	}
}

func (a *ArmAgent) Bind(sys *mas.System, inbox <-chan mas.Envelope, me mas.Agent) {
	a.BaseAgent.Bind(sys, inbox, me)

	if a.cfg == nil {
		a.cfg = config.Default()
	}
	if a.memory == nil {
		a.memory = NewBlocksMemory()
	}
	a.rebuild()
	// Після відновлення зі знімка плану немає.
	a.Busy, a.Waiting = false, false
}

// rebuild створює сервіс і політику під поточний алгоритм.
func (a *ArmAgent) rebuild() {
	cfg := *a.cfg
	if a.Algorithm != "" {
		cfg.Planner.Algorithm = a.Algorithm
	}
	a.service = planner.New(&cfg, a.Logger())

	// Запасний планувальник: використовується, коли світ змінився посеред плану.
	opts := []ai.SearchOption{ai.WithTimeout(cfg.GetTimeout()), ai.WithMaxExpanded(cfg.Planner.MaxExpanded)}
	var p planning.Planner[world.State] = ai.NewAStar[world.State](opts...)
	if cfg.Planner.Algorithm == "bfs" {
		p = ai.NewBFS[world.State](opts...)
	}
	a.brain = ai.NewPlanPolicy(p)
}

// Memory повертає пам'ять відвіданих станів (для UI).
func (a *ArmAgent) Memory() *BlocksMemory {
	return a.memory
}

// Pending - скільки дій плану лишилось.
func (a *ArmAgent) Pending() int {
	a.RLock()
	defer a.RUnlock()
	return a.brain.Pending()
}

func (a *ArmAgent) world() (world.World, error) {
	agent, ok := a.Sys().GetAgent(a.WorldID)
	if !ok {
		return world.World{}, fmt.Errorf("world agent %q not found", a.WorldID)
	}
	wa, ok := agent.(*WorldAgent)
	if !ok {
		return world.World{}, fmt.Errorf("agent %q is not a world", a.WorldID)
	}
	return wa.Snapshot(), nil
}

func (a *ArmAgent) Plan(ctx context.Context, msg mas.Envelope) ([]mas.Action, error) {
	switch p := msg.Payload.(type) {
	case CommandRequest:
		return a.command(ctx, p.Text, func(w world.World) (*planner.Outcome, error) {
			return a.service.Plan(ctx, w, p.Text)
		})

	case GoalRequest:
		return a.command(ctx, p.Goal.String(), func(w world.World) (*planner.Outcome, error) {
			return a.service.PlanGoal(ctx, w, p.Goal)
		})

	case ActionResult:
		return a.result(ctx, p), nil

	case WorldUpdate:
		return []mas.Action{
			mas.MutateState(func(x any) {
				arm := x.(*ArmAgent)
				arm.Current = p.World.State.Clone()
				arm.Waiting = false
				arm.memory.Remember(arm.Current)
				if arm.domain != nil {
					// Мета та сама, стан інший: наступний TICK перепланує.
					d := planner.Domain{Graph: p.World.Graph(), Goal: arm.domain.Goal}
					arm.domain = &d
					arm.brain.Reset()
				}
			}),
		}, nil

	case string:
		switch {
		case p == Tick:
			return a.tick(ctx), nil

		case p == Reset:
			return []mas.Action{
				mas.MutateState(func(x any) {
					arm := x.(*ArmAgent)
					arm.memory.Clear()
					arm.brain.Reset()
					arm.domain = nil
					arm.Steps = 0
					arm.Busy, arm.Waiting = false, false
					arm.LastError = ""
				}),
			}, nil

		case strings.HasPrefix(p, Policy):
			algo := "astar"
			if strings.EqualFold(strings.TrimPrefix(p, Policy), "BFS") {
				algo = "bfs"
			}
			return []mas.Action{
				mas.MutateState(func(x any) {
					arm := x.(*ArmAgent)
					arm.Algorithm = algo
					arm.rebuild()
					arm.domain = nil
					arm.Busy, arm.Waiting = false, false
				}),
				a.say(ctx, "Planner: switched to "+algo),
			}, nil
		}
	}
	return nil, nil
}

// command планує від поточного світу і завантажує план у політику.
func (a *ArmAgent) command(ctx context.Context, text string, plan func(world.World) (*planner.Outcome, error)) ([]mas.Action, error) {
	if a.Busy {
		return []mas.Action{a.say(ctx, "Busy: still executing the previous plan")}, nil
	}
	w, err := a.world()
	if err != nil {
		return nil, err
	}

	out, err := plan(w)
	if err != nil {
		reply := err.Error()
		if errors.Is(err, planner.ErrNoPlan) {
			reply = render.DontKnow
		}
		a.Logger().Info("command failed", zap.String("command", text), zap.Error(err))
		return []mas.Action{
			mas.MutateState(func(x any) { x.(*ArmAgent).LastError = err.Error() }),
			a.say(ctx, reply),
		}, nil
	}

	domain, err := a.service.Domain(w, out.Goal)
	if err != nil {
		return nil, err
	}

	return []mas.Action{
		mas.MutateState(func(x any) {
			arm := x.(*ArmAgent)
			arm.Current = w.State.Clone()
			arm.domain = &domain
			arm.brain.Reset()
			arm.brain.Load(out.Actions)
			arm.memory.Clear()
			arm.memory.Remember(arm.Current)
			arm.Steps = 0
			arm.Busy = len(out.Actions) > 0
			arm.Waiting = false
			arm.LastError = ""
		}),
		a.say(ctx, fmt.Sprintf("Plan %s (%s): %s", out.ID.String()[:8], out.Goal, strings.Join(out.Messages, " "))),
	}, nil
}

func (a *ArmAgent) tick(ctx context.Context) []mas.Action {
	if !a.Busy || a.Waiting || a.domain == nil {
		return nil
	}

	var (
		action planning.Action
		err    error
	)
	// Decide змінює буфер політики, тому під блокуванням агента.
	a.Lock()
	action, err = a.brain.Decide(ctx, a.Current, a.domain, a.memory)
	a.Unlock()

	if errors.Is(err, ai.ErrGoalReached) {
		steps := a.Steps
		return []mas.Action{
			mas.MutateState(func(x any) { x.(*ArmAgent).Busy = false }),
			a.say(ctx, fmt.Sprintf("Done in %d steps", steps)),
		}
	}
	if err != nil {
		return []mas.Action{
			mas.MutateState(func(x any) {
				arm := x.(*ArmAgent)
				arm.Busy = false
				arm.LastError = err.Error()
			}),
			a.say(ctx, render.DontKnow),
		}
	}

	return []mas.Action{
		mas.MutateState(func(x any) { x.(*ArmAgent).Waiting = true }),
		mas.SendCtx(ctx, a.WorldID, ActionRequest{Action: action}),
	}
}

func (a *ArmAgent) result(ctx context.Context, res ActionResult) []mas.Action {
	if !res.Success {
		// Світ відкинув дію: план більше не відповідає світу.
		return []mas.Action{
			mas.MutateState(func(x any) {
				arm := x.(*ArmAgent)
				arm.Waiting = false
				arm.Busy = false
				arm.Current = res.State
				arm.brain.Reset()
				arm.LastError = res.Message
			}),
			a.say(ctx, "Plan aborted: "+res.Message),
		}
	}
	return []mas.Action{
		mas.MutateState(func(x any) {
			arm := x.(*ArmAgent)
			arm.Waiting = false
			arm.Steps++
			arm.Current = res.State
			arm.memory.Remember(arm.Current)
		}),
	}
}

func (a *ArmAgent) say(ctx context.Context, text string) mas.Action {
	return func(ag mas.Agent, sys *mas.System) error {
		if a.Console == "" || sys.Send(ctx, ag.ID(), a.Console, text) != nil {
			sys.Logger().Info(text, zap.String("agent", ag.ID()))
		}
		return nil
	}
}
