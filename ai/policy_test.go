package ai

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youryharchenko/go-shrdlite/planning"
	"github.com/youryharchenko/go-shrdlite/world"
)

// lineDomain - пряма як planning.Domain з метою в target.
type lineDomain struct {
	line
	target point
}

func (d lineDomain) Actions(p point) []planning.Action {
	var actions []planning.Action
	for _, e := range d.Outgoing(p) {
		actions = append(actions, e.Action)
	}
	return actions
}

func (d lineDomain) Result(p point, a planning.Action) point {
	if a == "-" {
		return p - 1
	}
	return p + 1
}

func (d lineDomain) IsGoal(p point) bool { return p == d.target }

func (d lineDomain) StepCost(from point, a planning.Action, to point) float64 { return 1 }

func (d lineDomain) Heuristic(p point) float64 { return 0 }

// mapMemory - найпростіша planning.Memory для тестів.
type mapMemory map[string]point

func (m mapMemory) Remember(p point) { m[p.Key()] = p }

func (m mapMemory) HasVisited(p point) bool {
	_, ok := m[p.Key()]
	return ok
}

func (m mapMemory) Clear() { clear(m) }

func (m mapMemory) Range(f func(key, value any) bool) {
	for k, p := range m {
		if !f(k, p) {
			return
		}
	}
}

func TestPlanPolicyPlansAndReplays(t *testing.T) {
	d := lineDomain{line: line{bound: 5}, target: 3}
	mem := mapMemory{}
	policy := NewPlanPolicy[point](NewAStar[point]())

	var current point
	for {
		a, err := policy.Decide(context.Background(), current, d, mem)
		if err != nil {
			require.ErrorIs(t, err, ErrGoalReached)
			break
		}
		current = d.Result(current, a)
	}
	assert.Equal(t, point(3), current)
	assert.True(t, mem.HasVisited(0))
	assert.Zero(t, policy.Pending())
}

func TestPlanPolicyLoad(t *testing.T) {
	policy := NewPlanPolicy[point](nil)
	plan := []planning.Action{"+", "+"}
	policy.Load(plan)
	plan[0] = "-" // Load копіює план
	assert.Equal(t, 2, policy.Pending())

	d := lineDomain{line: line{bound: 5}, target: 2}
	a, err := policy.Decide(context.Background(), 0, d, mapMemory{})
	require.NoError(t, err)
	assert.Equal(t, planning.Action("+"), a)
	assert.Equal(t, 1, policy.Pending())

	policy.Reset()
	assert.Zero(t, policy.Pending())
	// Без планувальника після Reset плану взяти ніде.
	_, err = policy.Decide(context.Background(), 0, d, mapMemory{})
	assert.ErrorIs(t, err, ErrNoSolution)

	// Мета вже досягнута - планувальник не потрібен.
	_, err = policy.Decide(context.Background(), 2, d, mapMemory{})
	assert.ErrorIs(t, err, ErrGoalReached)
}

func TestPlanPolicyPropagatesSearchFailure(t *testing.T) {
	d := lineDomain{line: line{bound: 2}, target: 9}
	policy := NewPlanPolicy[point](NewBFS[point]())
	_, err := policy.Decide(context.Background(), 0, d, mapMemory{})
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestAStarLast(t *testing.T) {
	p := NewAStar[point](WithMaxExpanded(3))
	_, err := p.MakePlan(context.Background(), 0, lineDomain{line: line{}, target: 100})
	assert.ErrorIs(t, err, ErrTimeout)
	require.NotNil(t, p.Last())
	assert.Equal(t, 3, p.Last().Expanded)
}

func TestRandomWalk(t *testing.T) {
	w, err := world.Builtin("medium")
	require.NoError(t, err)
	g := w.Graph()

	final, actions := RandomWalk[world.State](g, w.State, 60, rand.New(rand.NewPCG(7, 60)))
	assert.Len(t, actions, 60)

	// Кожен крок легальний: програвання дає той самий стан.
	replayed, n, err := world.Execute(w.Objects, w.State, actions)
	require.NoError(t, err)
	assert.Equal(t, 60, n)
	assert.Equal(t, final.Key(), replayed.Key())
	require.NoError(t, final.Validate(w.Objects))

	// Той самий seed - той самий шлях.
	again, _ := RandomWalk[world.State](g, w.State, 60, rand.New(rand.NewPCG(7, 60)))
	assert.Equal(t, final.Key(), again.Key())
}

func TestRandomWalkDeadEnd(t *testing.T) {
	w := world.World{
		Objects: map[string]world.Object{},
		State:   world.State{Stacks: [][]string{{}}},
	}
	final, actions := RandomWalk[world.State](w.Graph(), w.State, 10, rand.New(rand.NewPCG(1, 1)))
	assert.Empty(t, actions)
	assert.Equal(t, w.State.Key(), final.Key())
}
