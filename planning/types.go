package planning

import (
	"context"
	"fmt"
)

// Action - це атомарна дія, яку агент може виконати.
// Для світу кубиків це літери "l", "r", "p", "d".
type Action string

// State - це "зліпок" реальності в конкретний момент часу.
// Стан може містити слайси, тому він не обов'язково comparable:
// ключем у map слугує Key() - канонічне кодування структури.
// Два стани, отримані різними шляхами, але однакові за змістом,
// мають однаковий Key().
type State interface {
	fmt.Stringer
	Key() string
}

// Equal порівнює стани структурно (через Key), а не за адресою.
func Equal[S State](a, b S) bool {
	return a.Key() == b.Key()
}

// Edge - ребро графа станів: з From у To дією Action.
type Edge[S State] struct {
	From   S
	To     S
	Cost   float64
	Action Action
}

// Graph генерує вихідні ребра вузла. Тільки легальні переходи.
type Graph[S State] interface {
	Outgoing(s S) []Edge[S]
}

// Domain (або Environment Physics) - описує правила світу.
// Це чиста логіка: вона не зберігає стан, а лише відповідає на запитання про нього.
type Domain[S State] interface {
	// Actions повертає список доступних дій для даного стану.
	Actions(s S) []Action

	// Result (Transition Model) повертає новий стан після виконання дії.
	// Викликається тільки для дій з Actions(s).
	Result(s S, a Action) S

	// IsGoal перевіряє, чи досягнуто мети (Terminal State).
	IsGoal(s S) bool

	// StepCost повертає вартість переходу. У світі кубиків завжди 1.0.
	StepCost(from S, action Action, to S) float64

	Heuristic(s S) float64
}

// GraphOf повертає граф домену. Якщо домен сам вміє генерувати ребра,
// використовуємо його; інакше будуємо ребра з Actions/Result/StepCost.
func GraphOf[S State](d Domain[S]) Graph[S] {
	if g, ok := d.(Graph[S]); ok {
		return g
	}
	return domainGraph[S]{d: d}
}

type domainGraph[S State] struct {
	d Domain[S]
}

func (g domainGraph[S]) Outgoing(s S) []Edge[S] {
	actions := g.d.Actions(s)
	edges := make([]Edge[S], 0, len(actions))
	for _, a := range actions {
		next := g.d.Result(s, a)
		edges = append(edges, Edge[S]{
			From:   s,
			To:     next,
			Cost:   g.d.StepCost(s, a, next),
			Action: a,
		})
	}
	return edges
}

// Memory - абстракція пам'яті агента.
// Дозволяє агенту пам'ятати, де він був.
type Memory[S State] interface {
	// Remember додає стан у пам'ять.
	Remember(s S)

	// HasVisited перевіряє, чи був агент у цьому стані.
	HasVisited(s S) bool

	// Clear очищує пам'ять (для Reset).
	Clear()

	Range(f func(key, value any) bool)
}

// Policy (Стратегія/Brain) - вирішує, що робити на кожному кроці.
type Policy[S State] interface {
	// Decide повертає наступну дію.
	// Якщо рішення знайдено, повертає порожню Action ("") і ErrGoalReached.
	Decide(ctx context.Context, current S, domain Domain[S], memory Memory[S]) (Action, error)

	Reset()
}

// Planner будує повний план (послідовність дій) від start до цілі домену,
// не виконуючи їх.
type Planner[S State] interface {
	MakePlan(ctx context.Context, start S, domain Domain[S]) ([]Action, error)
}
