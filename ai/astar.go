package ai

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/youryharchenko/go-shrdlite/planning"
)

// DefaultTimeout - бюджет часу пошуку за замовчуванням.
const DefaultTimeout = 5 * time.Second

// Result - знайдений план або статистика невдалого пошуку.
type Result[S planning.State] struct {
	Path     []S // від старту до цілі включно
	Actions  []planning.Action
	Cost     float64
	Expanded int
	Elapsed  time.Duration
}

type searchConfig struct {
	timeout     time.Duration
	maxExpanded int
	onExpand    func(key string)
}

// SearchOption налаштовує пошук.
type SearchOption func(*searchConfig)

// WithTimeout задає бюджет часу. Нуль або від'ємне значення - DefaultTimeout.
func WithTimeout(d time.Duration) SearchOption {
	return func(c *searchConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxExpanded обмежує кількість розкритих вузлів (0 - без обмеження).
func WithMaxExpanded(n int) SearchOption {
	return func(c *searchConfig) {
		c.maxExpanded = n
	}
}

// WithExpandHook викликає f для ключа кожного розкритого вузла.
func WithExpandHook(f func(key string)) SearchOption {
	return func(c *searchConfig) {
		c.onExpand = f
	}
}

func applySearchOptions(opts []SearchOption) searchConfig {
	cfg := searchConfig{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// step - звідки ми прийшли у вузол і якою дією.
type step struct {
	from   string
	action planning.Action
}

// Search - A* над довільним графом.
// F = G + H (Вартість шляху + Евристика)
//
// Вузли порівнюються структурно через Key(). Мета перевіряється при вийманні
// з відкритого списку, тож якщо старт уже є метою, план порожній.
// Невдача - це значення: ErrNoSolution або ErrTimeout разом з частковим Result
// (статистика). Допустимість евристики - відповідальність того, хто викликає.
func Search[S planning.State](
	ctx context.Context,
	g planning.Graph[S],
	start S,
	goal func(S) bool,
	h func(S) float64,
	opts ...SearchOption,
) (res *Result[S], err error) {
	cfg := applySearchOptions(opts)
	if h == nil {
		h = func(S) float64 { return 0 }
	}

	began := time.Now()
	deadline := began.Add(cfg.timeout)
	res = &Result[S]{}
	defer func() {
		res.Elapsed = time.Since(began)
		observeSearch("astar", res, err)
	}()

	nodes := make(map[string]S)
	gScore := make(map[string]float64)
	cameFrom := make(map[string]step)
	explored := make(map[string]bool)
	open := &PriorityQueue[S]{}

	startKey := start.Key()
	nodes[startKey] = start
	gScore[startKey] = 0
	open.Enqueue(start, startKey, 0, h(start))

	for open.Len() > 0 {
		if ctx.Err() != nil {
			return res, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
		}
		if time.Now().After(deadline) {
			return res, fmt.Errorf("%w after %s", ErrTimeout, cfg.timeout)
		}

		item := open.Dequeue()
		key := item.Key
		if explored[key] {
			// Застарілий запис: вузол уже розкрито з кращим g.
			continue
		}
		current := item.Value

		if goal(current) {
			reconstruct(res, startKey, key, nodes, cameFrom)
			res.Cost = gScore[key]
			return res, nil
		}

		explored[key] = true
		res.Expanded++
		if cfg.onExpand != nil {
			cfg.onExpand(key)
		}
		if cfg.maxExpanded > 0 && res.Expanded >= cfg.maxExpanded {
			return res, fmt.Errorf("%w: expansion limit %d reached", ErrTimeout, cfg.maxExpanded)
		}

		for _, e := range g.Outgoing(current) {
			childKey := e.To.Key()
			if explored[childKey] {
				continue
			}
			tentativeG := gScore[key] + e.Cost
			if oldG, seen := gScore[childKey]; !seen || tentativeG < oldG {
				gScore[childKey] = tentativeG
				nodes[childKey] = e.To
				cameFrom[childKey] = step{from: key, action: e.Action}
				open.Enqueue(e.To, childKey, tentativeG, tentativeG+h(e.To))
			}
		}
	}

	return res, ErrNoSolution
}

// reconstruct проходить cameFrom від цілі до старту і розвертає шлях.
func reconstruct[S planning.State](res *Result[S], startKey, goalKey string, nodes map[string]S, cameFrom map[string]step) {
	path := []S{nodes[goalKey]}
	var actions []planning.Action
	for key := goalKey; key != startKey; {
		st := cameFrom[key]
		actions = append(actions, st.action)
		path = append(path, nodes[st.from])
		key = st.from
	}
	slices.Reverse(actions)
	slices.Reverse(path)
	res.Path = path
	res.Actions = actions
}

// AStar - планувальник (planning.Planner) поверх Search.
type AStar[S planning.State] struct {
	opts []SearchOption
	last *Result[S]
}

// NewAStar створює A*-планувальник з опціями пошуку.
func NewAStar[S planning.State](opts ...SearchOption) *AStar[S] {
	return &AStar[S]{opts: opts}
}

// MakePlan шукає план від start до мети домену.
func (p *AStar[S]) MakePlan(ctx context.Context, start S, domain planning.Domain[S]) ([]planning.Action, error) {
	res, err := Search(ctx, planning.GraphOf(domain), start, domain.IsGoal, domain.Heuristic, p.opts...)
	p.last = res
	if err != nil {
		return nil, err
	}
	return res.Actions, nil
}

// Last повертає результат останнього MakePlan (статистику навіть при невдачі).
func (p *AStar[S]) Last() *Result[S] {
	return p.last
}
