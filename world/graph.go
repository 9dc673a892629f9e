package world

import (
	"fmt"

	"github.com/youryharchenko/go-shrdlite/planning"
)

// Примітивні дії руки.
const (
	Left  planning.Action = "l"
	Right planning.Action = "r"
	Pick  planning.Action = "p"
	Drop  planning.Action = "d"
)

// Actions - усі примітивні дії у фіксованому порядку генерації ребер.
var Actions = []planning.Action{Left, Right, Pick, Drop}

// Apply - єдина функція легальності і переходу.
// Нею користуються і граф (генерація ребер), і виконавці плану,
// тому граф ніколи не видає дію, яку виконавець відкине.
func Apply(objects map[string]Object, s State, a planning.Action) (State, error) {
	switch a {
	case Left:
		if s.Arm <= 0 {
			return s, fmt.Errorf("%w: arm is at the left edge", ErrIllegalAction)
		}
		s.Arm--
		return s, nil

	case Right:
		if s.Arm >= len(s.Stacks)-1 {
			return s, fmt.Errorf("%w: arm is at the right edge", ErrIllegalAction)
		}
		s.Arm++
		return s, nil

	case Pick:
		if s.Holding != "" {
			return s, fmt.Errorf("%w: already holding %s", ErrIllegalAction, s.Holding)
		}
		col := s.Stacks[s.Arm]
		if len(col) == 0 {
			return s, fmt.Errorf("%w: column %d is empty", ErrIllegalAction, s.Arm)
		}
		next := withColumn(s, col[:len(col)-1:len(col)-1])
		next.Holding = col[len(col)-1]
		return next, nil

	case Drop:
		if s.Holding == "" {
			return s, fmt.Errorf("%w: not holding anything", ErrIllegalAction)
		}
		col := s.Stacks[s.Arm]
		if len(col) > 0 {
			top := col[len(col)-1]
			if !Supports(objects[top], objects[s.Holding], true) {
				return s, fmt.Errorf("%w: %s cannot rest on %s", ErrIllegalAction, s.Holding, top)
			}
		}
		grown := make([]string, len(col)+1)
		copy(grown, col)
		grown[len(col)] = s.Holding
		next := withColumn(s, grown)
		next.Holding = ""
		return next, nil
	}
	return s, fmt.Errorf("%w: unknown action %q", ErrIllegalAction, a)
}

// withColumn копіює слайс стовпчиків і підміняє тільки стовпчик під рукою.
func withColumn(s State, col []string) State {
	stacks := make([][]string, len(s.Stacks))
	copy(stacks, s.Stacks)
	stacks[s.Arm] = col
	s.Stacks = stacks
	return s
}

// Execute застосовує план по одній дії, зупиняючись на першій нелегальній.
// Повертає останній досягнутий стан і кількість виконаних дій.
func Execute(objects map[string]Object, s State, plan []planning.Action) (State, int, error) {
	for i, a := range plan {
		next, err := Apply(objects, s, a)
		if err != nil {
			return s, i, fmt.Errorf("step %d (%s): %w", i+1, a, err)
		}
		s = next
	}
	return s, len(plan), nil
}

// Graph - граф станів світу кубиків. Вузли - State, ребра - примітивні дії.
type Graph struct {
	Objects map[string]Object
}

// NewGraph створює граф для заданої таблиці об'єктів.
func NewGraph(objects map[string]Object) *Graph {
	return &Graph{Objects: objects}
}

// Outgoing повертає легальні ребра у порядку l, r, p, d. Кожне коштує 1.
func (g *Graph) Outgoing(s State) []planning.Edge[State] {
	edges := make([]planning.Edge[State], 0, len(Actions))
	for _, a := range Actions {
		next, err := Apply(g.Objects, s, a)
		if err != nil {
			continue
		}
		edges = append(edges, planning.Edge[State]{From: s, To: next, Cost: 1, Action: a})
	}
	return edges
}

// Actions повертає легальні дії стану.
func (g *Graph) Actions(s State) []planning.Action {
	var actions []planning.Action
	for _, e := range g.Outgoing(s) {
		actions = append(actions, e.Action)
	}
	return actions
}

// Result повертає наступний стан. За контрактом викликається
// тільки для дій з Actions(s); нелегальна дія повертає s без змін.
func (g *Graph) Result(s State, a planning.Action) State {
	next, err := Apply(g.Objects, s, a)
	if err != nil {
		return s
	}
	return next
}

// StepCost - кожна примітивна дія коштує одиницю.
func (g *Graph) StepCost(from State, action planning.Action, to State) float64 {
	return 1.0
}
