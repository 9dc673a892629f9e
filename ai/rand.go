package ai

import (
	"math/rand/v2"

	"github.com/youryharchenko/go-shrdlite/planning"
)

// RandomWalk робить до steps випадкових легальних кроків з start.
// Повертає кінцевий стан і виконані дії. Зупиняється раніше у глухому куті.
func RandomWalk[S planning.State](g planning.Graph[S], start S, steps int, rng *rand.Rand) (S, []planning.Action) {
	current := start
	actions := make([]planning.Action, 0, steps)
	for i := 0; i < steps; i++ {
		edges := g.Outgoing(current)
		if len(edges) == 0 {
			break
		}
		// Просто вибираємо випадкову дію
		e := edges[rng.IntN(len(edges))]
		current = e.To
		actions = append(actions, e.Action)
	}
	return current, actions
}
