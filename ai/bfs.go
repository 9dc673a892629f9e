package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/youryharchenko/go-shrdlite/planning"
)

// BreadthFirst - пошук у ширину без евристики.
// Для одиничних вартостей дає план мінімальної довжини, тому служить
// еталоном для перевірки A*. Контракт той самий, що й у Search.
func BreadthFirst[S planning.State](
	ctx context.Context,
	g planning.Graph[S],
	start S,
	goal func(S) bool,
	opts ...SearchOption,
) (res *Result[S], err error) {
	cfg := applySearchOptions(opts)

	began := time.Now()
	deadline := began.Add(cfg.timeout)
	res = &Result[S]{}
	defer func() {
		res.Elapsed = time.Since(began)
		observeSearch("bfs", res, err)
	}()

	startKey := start.Key()
	queue := []string{startKey}              // Черга вузлів, які треба відвідати (Frontier)
	nodes := map[string]S{startKey: start}   // Усі побачені вузли
	cameFrom := make(map[string]step)        // Дерево шляхів (хто привів нас у цю точку)
	depth := map[string]float64{startKey: 0} // Вартість від старту

	for len(queue) > 0 {
		if ctx.Err() != nil {
			return res, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
		}
		if time.Now().After(deadline) {
			return res, fmt.Errorf("%w after %s", ErrTimeout, cfg.timeout)
		}

		key := queue[0]
		queue = queue[1:]
		current := nodes[key]

		if goal(current) {
			reconstruct(res, startKey, key, nodes, cameFrom)
			res.Cost = depth[key]
			return res, nil
		}

		res.Expanded++
		if cfg.onExpand != nil {
			cfg.onExpand(key)
		}
		if cfg.maxExpanded > 0 && res.Expanded >= cfg.maxExpanded {
			return res, fmt.Errorf("%w: expansion limit %d reached", ErrTimeout, cfg.maxExpanded)
		}

		for _, e := range g.Outgoing(current) {
			childKey := e.To.Key()
			// В BFS ми "запам'ятовуємо" вузол, як тільки побачили його,
			// щоб інші гілки не намагалися його додати.
			if _, known := nodes[childKey]; known {
				continue
			}
			nodes[childKey] = e.To
			cameFrom[childKey] = step{from: key, action: e.Action}
			depth[childKey] = depth[key] + e.Cost
			queue = append(queue, childKey)
		}
	}

	return res, ErrNoSolution
}

// BFS - планувальник (planning.Planner) поверх BreadthFirst.
type BFS[S planning.State] struct {
	opts []SearchOption
}

// NewBFS створює планувальник пошуку в ширину.
func NewBFS[S planning.State](opts ...SearchOption) *BFS[S] {
	return &BFS[S]{opts: opts}
}

// MakePlan ігнорує евристику домену.
func (p *BFS[S]) MakePlan(ctx context.Context, start S, domain planning.Domain[S]) ([]planning.Action, error) {
	res, err := BreadthFirst(ctx, planning.GraphOf(domain), start, domain.IsGoal, p.opts...)
	if err != nil {
		return nil, err
	}
	return res.Actions, nil
}
