package world

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youryharchenko/go-shrdlite/planning"
)

func smallWorld(t *testing.T) World {
	t.Helper()
	w, err := Builtin("small")
	require.NoError(t, err)
	return w
}

func TestApply(t *testing.T) {
	w := smallWorld(t)
	s := w.State

	t.Run("left at edge", func(t *testing.T) {
		_, err := Apply(w.Objects, s, Left)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})

	t.Run("right moves arm", func(t *testing.T) {
		next, err := Apply(w.Objects, s, Right)
		require.NoError(t, err)
		assert.Equal(t, 1, next.Arm)
		assert.Equal(t, 0, s.Arm, "source state untouched")
	})

	t.Run("pick while holding", func(t *testing.T) {
		_, err := Apply(w.Objects, s, Pick)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})

	t.Run("large brick onto ball", func(t *testing.T) {
		_, err := Apply(w.Objects, s, Drop)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})

	t.Run("drop on empty column", func(t *testing.T) {
		s2, err := Apply(w.Objects, s, Right)
		require.NoError(t, err)
		s2, err = Apply(w.Objects, s2, Right)
		require.NoError(t, err)
		s2, err = Apply(w.Objects, s2, Drop)
		require.NoError(t, err)
		assert.Equal(t, "", s2.Holding)
		assert.Equal(t, []string{"a"}, s2.Stacks[2])
		assert.Empty(t, s.Stacks[2], "source state untouched")
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := Apply(w.Objects, s, planning.Action("x"))
		assert.ErrorIs(t, err, ErrIllegalAction)
	})
}

func TestPickDoesNotAliasColumns(t *testing.T) {
	objects := map[string]Object{
		"a": {Form: Brick, Size: Large},
		"b": {Form: Brick, Size: Small},
		"c": {Form: Brick, Size: Small},
	}
	s := State{Stacks: [][]string{{"a", "b"}, {}}, Arm: 0}

	picked, err := Apply(objects, s, Pick)
	require.NoError(t, err)
	picked.Holding = "c" // підміна, щоб перевірити, що Drop не пише в масив s
	dropped, err := Apply(objects, picked, Drop)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, s.Stacks[0])
	assert.Equal(t, []string{"a", "c"}, dropped.Stacks[0])
}

func TestOutgoing(t *testing.T) {
	w := smallWorld(t)
	g := w.Graph()

	// Рука над м'ячем e з цеглиною a: ліворуч не можна, класти на м'яч не можна,
	// брати не можна (рука зайнята). Лишається тільки r.
	edges := g.Outgoing(w.State)
	require.Len(t, edges, 1)
	assert.Equal(t, Right, edges[0].Action)
	assert.Equal(t, 1.0, edges[0].Cost)
	assert.Equal(t, 1, edges[0].To.Arm)

	// Над порожнім стовпчиком: l, r, d.
	s := g.Result(g.Result(w.State, Right), Right)
	var got []planning.Action
	for _, e := range g.Outgoing(s) {
		got = append(got, e.Action)
	}
	if diff := cmp.Diff([]planning.Action{Left, Right, Drop}, got); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(got, g.Actions(s)); diff != "" {
		t.Errorf("Actions disagrees with Outgoing (-outgoing +actions):\n%s", diff)
	}
}

func TestOutgoingNeverIllegal(t *testing.T) {
	for _, name := range BuiltinNames() {
		w, err := Builtin(name)
		require.NoError(t, err)
		g := w.Graph()

		frontier := []State{w.State}
		seen := map[string]bool{w.State.Key(): true}
		for len(frontier) > 0 && len(seen) < 500 {
			s := frontier[0]
			frontier = frontier[1:]
			for _, e := range g.Outgoing(s) {
				next, err := Apply(w.Objects, s, e.Action)
				require.NoError(t, err, "%s: %s from %s", name, e.Action, s)
				assert.Equal(t, next.Key(), e.To.Key())
				require.NoError(t, e.To.Validate(w.Objects))
				if !seen[e.To.Key()] {
					seen[e.To.Key()] = true
					frontier = append(frontier, e.To)
				}
			}
		}
	}
}

func TestExecute(t *testing.T) {
	w := smallWorld(t)

	s, n, err := Execute(w.Objects, w.State, []planning.Action{Right, Right, Drop, Left})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, s.Arm)
	assert.Equal(t, []string{"a"}, s.Stacks[2])

	s, n, err = Execute(w.Objects, w.State, []planning.Action{Right, Left, Left, Right})
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, s.Arm)
}

func TestStateKey(t *testing.T) {
	a := State{Stacks: [][]string{{"a", "b"}, {}}, Holding: "c", Arm: 1}
	b := a.Clone()
	assert.Equal(t, a.Key(), b.Key())
	assert.True(t, planning.Equal[State](a, b))

	// Різні розбиття на стовпчики мають різні ключі.
	c := State{Stacks: [][]string{{"a"}, {"b"}}, Holding: "c", Arm: 1}
	assert.NotEqual(t, a.Key(), c.Key())

	b.Stacks[0][0] = "x"
	assert.Equal(t, "a", a.Stacks[0][0], "Clone is deep")
}
