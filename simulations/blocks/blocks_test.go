package blocks

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/youryharchenko/go-shrdlite/logic"
	"github.com/youryharchenko/go-shrdlite/mas"
	"github.com/youryharchenko/go-shrdlite/world"
)

const waitFor = 5 * time.Second

// console збирає все, що агенти кажуть у консоль.
type console struct {
	mas.BaseAgent
	mu    sync.Mutex
	lines []string
}

func newConsole() *console {
	return &console{BaseAgent: mas.BaseAgent{IDVal: "console"}}
}

func (c *console) Plan(ctx context.Context, msg mas.Envelope) ([]mas.Action, error) {
	if s, ok := msg.Payload.(string); ok {
		c.mu.Lock()
		c.lines = append(c.lines, s)
		c.mu.Unlock()
	}
	return nil, nil
}

func (c *console) said(prefix string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

// listener збирає відповіді світу.
type listener struct {
	mas.BaseAgent
	results chan ActionResult
}

func (p *listener) Plan(ctx context.Context, msg mas.Envelope) ([]mas.Action, error) {
	if r, ok := msg.Payload.(ActionResult); ok {
		p.results <- r
	}
	return nil, nil
}

func (p *listener) next(t *testing.T) ActionResult {
	t.Helper()
	select {
	case r := <-p.results:
		return r
	case <-time.After(waitFor):
		t.Fatal("no action result")
		return ActionResult{}
	}
}

func small(t *testing.T) world.World {
	t.Helper()
	w, err := world.Builtin("small")
	require.NoError(t, err)
	return w
}

type armView struct {
	Busy, Waiting bool
	Steps         int
	LastError     string
	Current       world.State
}

func view(a *ArmAgent) armView {
	a.RLock()
	defer a.RUnlock()
	return armView{a.Busy, a.Waiting, a.Steps, a.LastError, a.Current.Clone()}
}

func TestWorldAgentAppliesActions(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sys := mas.NewSystem()
	con := newConsole()
	p := &listener{BaseAgent: mas.BaseAgent{IDVal: "listener"}, results: make(chan ActionResult, 4)}
	wa := NewWorldAgent(WorldID, small(t), "")
	require.NoError(t, sys.Spawn(con))
	require.NoError(t, sys.Spawn(p))
	require.NoError(t, sys.Spawn(wa))

	ctx := context.Background()
	// Рука біля лівого краю: вліво не можна.
	require.NoError(t, sys.Send(ctx, "listener", WorldID, ActionRequest{Action: world.Left}))
	res := p.next(t)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "left edge")
	assert.Equal(t, 0, res.State.Arm)
	assert.Equal(t, 0, wa.Snapshot().State.Arm)

	require.NoError(t, sys.Send(ctx, "listener", WorldID, ActionRequest{Action: world.Right}))
	res = p.next(t)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.State.Arm)
	assert.Equal(t, 1, wa.Snapshot().State.Arm)

	require.NoError(t, sys.Send(ctx, "listener", WorldID, Reset))
	require.Eventually(t, func() bool { return wa.Snapshot().State.Arm == 0 }, waitFor, 5*time.Millisecond)
	require.Eventually(t, func() bool { return con.said("World: reset") }, waitFor, 5*time.Millisecond)

	require.NoError(t, sys.Shutdown())
}

func TestWorldAgentLoadAndShuffle(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sys := mas.NewSystem()
	con := newConsole()
	wa := NewWorldAgent(WorldID, small(t), "")
	require.NoError(t, sys.Spawn(con))
	require.NoError(t, sys.Spawn(wa))
	ctx := context.Background()

	require.NoError(t, sys.Send(ctx, "test", WorldID, LoadWorld{Name: "atlantis"}))
	require.Eventually(t, func() bool { return con.said("unknown world") }, waitFor, 5*time.Millisecond)
	assert.Equal(t, "small", wa.Snapshot().Name)

	require.NoError(t, sys.Send(ctx, "test", WorldID, LoadWorld{Name: "medium"}))
	require.Eventually(t, func() bool { return wa.Snapshot().Name == "medium" }, waitFor, 5*time.Millisecond)

	require.NoError(t, sys.Send(ctx, "test", WorldID, Shuffle))
	require.Eventually(t, func() bool { return con.said("World: shuffled") }, waitFor, 5*time.Millisecond)
	require.NoError(t, sys.Shutdown())

	w := wa.Snapshot()
	assert.NoError(t, w.State.Validate(w.Objects))
	assert.Equal(t, uint64(1), wa.Shuffles)
}

// startBlocks запускає світ, руку і консоль у новій системі.
func startBlocks(t *testing.T, w world.World, opts ...mas.Option) (*mas.System, *console, *WorldAgent, *ArmAgent) {
	t.Helper()
	sys := mas.NewSystem(opts...)
	require.NoError(t, sys.Startup())
	con := newConsole()
	require.NoError(t, sys.Spawn(con))
	require.NoError(t, Spawn(sys, w, nil))

	wa, ok := sys.GetAgent(WorldID)
	require.True(t, ok)
	arm, ok := sys.GetAgent(ArmID)
	require.True(t, ok)
	return sys, con, wa.(*WorldAgent), arm.(*ArmAgent)
}

// runPlan надсилає TICK, доки рука не закінчить.
func runPlan(t *testing.T, sys *mas.System, arm *ArmAgent) {
	t.Helper()
	require.Eventually(t, func() bool {
		if !view(arm).Busy {
			return true
		}
		_ = sys.Send(context.Background(), "clock", ArmID, Tick)
		return false
	}, waitFor, 10*time.Millisecond)
}

func TestArmExecutesCommand(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sys, con, wa, arm := startBlocks(t, small(t))
	ctx := context.Background()

	require.NoError(t, Submit(ctx, sys, "test", "put the white ball in a box on the floor"))
	require.Eventually(t, func() bool { return con.said("Plan ") }, waitFor, 5*time.Millisecond)
	require.True(t, view(arm).Busy)

	runPlan(t, sys, arm)
	require.Eventually(t, func() bool { return con.said("Done in ") }, waitFor, 5*time.Millisecond)

	v := view(arm)
	assert.Empty(t, v.LastError)
	assert.Positive(t, v.Steps)
	assert.Equal(t, wa.Snapshot().State.Key(), v.Current.Key())
	assert.GreaterOrEqual(t, arm.Memory().Len(), v.Steps)

	goal, err := logic.Compile(logic.DNF{{logic.Lit(logic.Inside, "e", "k")}})
	require.NoError(t, err)
	assert.True(t, goal.Satisfied(wa.Snapshot().State))
	require.NoError(t, sys.Shutdown())
}

func TestArmGoalRequest(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sys, con, wa, arm := startBlocks(t, small(t))
	ctx := context.Background()

	require.NoError(t, Submit(ctx, sys, "test", "goal ontop(a,floor)"))
	require.Eventually(t, func() bool { return con.said("Plan ") }, waitFor, 5*time.Millisecond)
	runPlan(t, sys, arm)

	final := wa.Snapshot().State
	assert.Empty(t, final.Holding)
	col, row, ok := final.Locate("a")
	require.True(t, ok)
	assert.Equal(t, 0, row)
	assert.Equal(t, col, final.Arm)

	assert.Error(t, Submit(ctx, sys, "test", "goal ontop(a"))
	require.NoError(t, sys.Shutdown())
}

func TestArmReportsFailures(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sys, con, _, arm := startBlocks(t, small(t))
	ctx := context.Background()

	require.NoError(t, Submit(ctx, sys, "test", "take the ball"))
	require.Eventually(t, func() bool { return view(arm).LastError != "" }, waitFor, 5*time.Millisecond)
	assert.Contains(t, view(arm).LastError, "ambiguous")
	assert.False(t, view(arm).Busy)

	require.NoError(t, sys.Send(ctx, "test", ArmID, Reset))
	require.Eventually(t, func() bool { return view(arm).LastError == "" }, waitFor, 5*time.Millisecond)

	require.NoError(t, sys.Send(ctx, "test", ArmID, Policy+"BFS"))
	require.Eventually(t, func() bool { return con.said("Planner: switched to bfs") }, waitFor, 5*time.Millisecond)
	arm.RLock()
	assert.Equal(t, "bfs", arm.Algorithm)
	arm.RUnlock()
	require.NoError(t, sys.Shutdown())
}

// Світ змінився посеред плану: рука перепланує від нового стану.
func TestArmReplansAfterWorldUpdate(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sys, con, wa, arm := startBlocks(t, small(t))
	ctx := context.Background()

	require.NoError(t, Submit(ctx, sys, "test", "goal holding(f)"))
	require.Eventually(t, func() bool { return con.said("Plan ") }, waitFor, 5*time.Millisecond)

	require.NoError(t, sys.Send(ctx, "test", WorldID, Shuffle))
	require.Eventually(t, func() bool { return con.said("World: shuffled") }, waitFor, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return view(arm).Current.Key() == wa.Snapshot().State.Key()
	}, waitFor, 5*time.Millisecond)

	runPlan(t, sys, arm)
	assert.Equal(t, "f", wa.Snapshot().State.Holding)
	require.NoError(t, sys.Shutdown())
}

func TestBlocksSurviveSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.snapshot")

	sys, _, _, _ := startBlocks(t, small(t), mas.WithPersistence(path))
	require.NoError(t, sys.Send(context.Background(), "test", WorldID, ActionRequest{Action: world.Right}))
	sys.Kill("console") // консоль не зберігаємо
	require.NoError(t, sys.Shutdown())

	restored, _, wa, arm := startBlocks(t, small(t), mas.WithPersistence(path))
	assert.Equal(t, 1, wa.Snapshot().State.Arm)
	assert.False(t, view(arm).Busy)

	require.NoError(t, Submit(context.Background(), restored, "test", "take the white ball"))
	require.Eventually(t, func() bool { return view(arm).Busy }, waitFor, 5*time.Millisecond)
	runPlan(t, restored, arm)
	assert.Equal(t, "e", wa.Snapshot().State.Holding)
	require.NoError(t, restored.Shutdown())
}

func TestBlocksMemory(t *testing.T) {
	w := small(t)
	m := NewBlocksMemory()
	assert.False(t, m.HasVisited(w.State))

	m.Remember(w.State)
	next, err := world.Apply(w.Objects, w.State, world.Right)
	require.NoError(t, err)
	m.Remember(next)
	m.Remember(w.State.Clone())

	assert.True(t, m.HasVisited(w.State))
	assert.True(t, m.HasVisited(next))
	assert.Equal(t, 2, m.Len())

	keys := 0
	m.Range(func(key, value any) bool {
		s := value.(world.State)
		assert.Equal(t, key, s.Key())
		keys++
		return true
	})
	assert.Equal(t, 2, keys)

	m.Clear()
	assert.Zero(t, m.Len())
}
