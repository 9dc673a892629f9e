package ai

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youryharchenko/go-shrdlite/logic"
	"github.com/youryharchenko/go-shrdlite/planning"
	"github.com/youryharchenko/go-shrdlite/world"
)

// point - вузол нескінченної цілочисельної прямої.
type point int

func (p point) Key() string    { return strconv.Itoa(int(p)) }
func (p point) String() string { return "p" + p.Key() }

// line - граф "-"/"+" з опційною межею. bound=0 - пряма нескінченна.
type line struct {
	bound point
}

func (l line) Outgoing(p point) []planning.Edge[point] {
	var edges []planning.Edge[point]
	if l.bound == 0 || p > -l.bound {
		edges = append(edges, planning.Edge[point]{From: p, To: p - 1, Cost: 1, Action: "-"})
	}
	if l.bound == 0 || p < l.bound {
		edges = append(edges, planning.Edge[point]{From: p, To: p + 1, Cost: 1, Action: "+"})
	}
	return edges
}

func at(target point) func(point) bool {
	return func(p point) bool { return p == target }
}

func TestSearchFindsShortestPath(t *testing.T) {
	h := func(p point) float64 {
		d := float64(7 - p)
		if d < 0 {
			d = -d
		}
		return d
	}
	res, err := Search[point](context.Background(), line{bound: 10}, 0, at(7), h)
	require.NoError(t, err)
	assert.Equal(t, 7.0, res.Cost)
	assert.Len(t, res.Actions, 7)
	assert.Len(t, res.Path, 8)
	assert.Equal(t, point(0), res.Path[0])
	assert.Equal(t, point(7), res.Path[7])
	for _, a := range res.Actions {
		assert.Equal(t, planning.Action("+"), a)
	}
}

func TestSearchStartIsGoal(t *testing.T) {
	res, err := Search[point](context.Background(), line{bound: 3}, 2, at(2), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Actions)
	assert.Zero(t, res.Cost)
	assert.Equal(t, []point{2}, res.Path)
}

func TestSearchExhausted(t *testing.T) {
	res, err := Search[point](context.Background(), line{bound: 3}, 0, at(99), nil)
	assert.ErrorIs(t, err, ErrNoSolution)
	require.NotNil(t, res)
	assert.Equal(t, 7, res.Expanded) // -3..3
	assert.Equal(t, "exhausted", Outcome(err))
}

func TestSearchTimeout(t *testing.T) {
	began := time.Now()
	res, err := Search[point](context.Background(), line{}, 0, func(point) bool { return false }, nil,
		WithTimeout(50*time.Millisecond))
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(began), 2*time.Second)
	assert.Positive(t, res.Expanded)
	assert.Equal(t, "timeout", Outcome(err))
}

func TestSearchContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Search[point](ctx, line{}, 0, func(point) bool { return false }, nil)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSearchMaxExpanded(t *testing.T) {
	res, err := Search[point](context.Background(), line{}, 0, func(point) bool { return false }, nil,
		WithMaxExpanded(25))
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 25, res.Expanded)
}

func TestSearchNeverReexpands(t *testing.T) {
	seen := make(map[string]int)
	w, err := world.Builtin("small")
	require.NoError(t, err)
	goal := compileGoal(t, logic.DNF{{logic.Lit(logic.Inside, "f", "l")}}, logic.None)

	_, err = Search[world.State](context.Background(), w.Graph(), w.State, goal.Satisfied, goal.Estimate,
		WithExpandHook(func(key string) { seen[key]++ }))
	require.NoError(t, err)
	require.NotEmpty(t, seen)
	for key, n := range seen {
		assert.Equal(t, 1, n, key)
	}
}

// Без евристики A* - пошук за рівномірною вартістю, тож вартість плану
// збігається з BFS. Допустима Distance теж має давати оптимум.
func TestAStarMatchesBreadthFirst(t *testing.T) {
	goals := map[string]logic.DNF{
		"holding white ball": {{logic.Lit(logic.Holding, "e")}},
		"brick on floor":     {{logic.Lit(logic.OnTop, "a", world.FloorID)}},
		"ball in red box":    {{logic.Lit(logic.Inside, "f", "l")}},
		"rightof":            {{logic.Lit(logic.RightOf, "a", "e")}},
		"either":             {{logic.Lit(logic.Holding, "e")}, {logic.Lit(logic.Inside, "f", "l")}},
	}
	w, err := world.Builtin("small")
	require.NoError(t, err)
	g := w.Graph()

	for name, dnf := range goals {
		t.Run(name, func(t *testing.T) {
			ref := compileGoal(t, dnf, logic.None)
			bfs, err := BreadthFirst[world.State](context.Background(), g, w.State, ref.Satisfied)
			require.NoError(t, err)

			for _, h := range []logic.Heuristic{logic.None, logic.Distance} {
				goal := compileGoal(t, dnf, h)
				res, err := Search[world.State](context.Background(), g, w.State, goal.Satisfied, goal.Estimate)
				require.NoError(t, err, h)
				assert.Equal(t, bfs.Cost, res.Cost, h)

				final, _, err := world.Execute(w.Objects, w.State, res.Actions)
				require.NoError(t, err)
				assert.True(t, goal.Satisfied(final))
			}
		})
	}
}

func compileGoal(t *testing.T, dnf logic.DNF, h logic.Heuristic) *logic.Goal {
	t.Helper()
	goal, err := logic.Compile(dnf, logic.WithHeuristic(h))
	require.NoError(t, err)
	return goal
}

func TestObstructionPlanIsLegal(t *testing.T) {
	w, err := world.Builtin("small")
	require.NoError(t, err)
	// f лежить у m на k; кладемо f прямо в k.
	goal, err := logic.Compile(logic.DNF{{logic.Lit(logic.Inside, "f", "k")}})
	require.NoError(t, err)

	res, err := Search[world.State](context.Background(), w.Graph(), w.State, goal.Satisfied, goal.Estimate)
	require.NoError(t, err)
	final, n, err := world.Execute(w.Objects, w.State, res.Actions)
	require.NoError(t, err)
	assert.Equal(t, len(res.Actions), n)
	assert.True(t, goal.Satisfied(final))
}

// e сама на стовпчику під рукою: єдиний оптимальний план - один "p".
func TestSearchPicksLoneBall(t *testing.T) {
	w, err := world.Builtin("small")
	require.NoError(t, err)
	w.State = world.State{
		Stacks: [][]string{{"e"}, {"g", "l"}, {"a"}, {"k", "m", "f"}, {}},
		Arm:    0,
	}
	dnf := logic.DNF{{logic.Lit(logic.Holding, "e")}}

	for _, h := range []logic.Heuristic{logic.Obstruction, logic.Distance, logic.None} {
		goal := compileGoal(t, dnf, h)
		res, err := Search[world.State](context.Background(), w.Graph(), w.State, goal.Satisfied, goal.Estimate)
		require.NoError(t, err, h)
		assert.Equal(t, []planning.Action{world.Pick}, res.Actions, h)
		assert.Equal(t, 1.0, res.Cost, h)
	}

	res, err := BreadthFirst[world.State](context.Background(), w.Graph(), w.State,
		compileGoal(t, dnf, logic.None).Satisfied)
	require.NoError(t, err)
	assert.Equal(t, []planning.Action{world.Pick}, res.Actions)
}

func TestImpossibleGoalStopsOnTimeout(t *testing.T) {
	w, err := world.Builtin("large")
	require.NoError(t, err)
	// Великий м'яч n не влазить у малу коробку m.
	goal, err := logic.Compile(logic.DNF{{logic.Lit(logic.Inside, "n", "m")}})
	require.NoError(t, err)

	began := time.Now()
	_, err = Search[world.State](context.Background(), w.Graph(), w.State, goal.Satisfied, goal.Estimate,
		WithTimeout(300*time.Millisecond))
	require.Error(t, err)
	assert.True(t, Outcome(err) == "timeout" || Outcome(err) == "exhausted", err.Error())
	assert.Less(t, time.Since(began), 2*time.Second)
}

func TestSearchMetrics(t *testing.T) {
	found := searchTotal.WithLabelValues("astar", "found")
	before := testutil.ToFloat64(found)
	_, err := Search[point](context.Background(), line{bound: 2}, 0, at(1), nil)
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(found))

	exhausted := searchTotal.WithLabelValues("bfs", "exhausted")
	before = testutil.ToFloat64(exhausted)
	_, err = BreadthFirst[point](context.Background(), line{bound: 2}, 0, at(9))
	assert.ErrorIs(t, err, ErrNoSolution)
	assert.Equal(t, before+1, testutil.ToFloat64(exhausted))
}
