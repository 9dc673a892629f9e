package logic

import (
	"fmt"

	"github.com/youryharchenko/go-shrdlite/world"
)

// literal - перевірений літерал з розібраним відношенням.
type literal struct {
	polarity bool
	rel      Relation
	x, y     string
}

// Goal - скомпільована DNF-мета: предикат завершення і оцінка відстані.
type Goal struct {
	dnf       DNF
	conjs     [][]literal
	heuristic Heuristic
}

// Option налаштовує Goal.
type Option func(*Goal)

// WithHeuristic обирає оцінку відстані (за замовчуванням Obstruction).
func WithHeuristic(h Heuristic) Option {
	return func(g *Goal) {
		g.heuristic = h
	}
}

// Compile перевіряє кожен літерал і готує мету до пошуку.
// Неправильний літерал - жорстка помилка ErrMalformedLiteral.
// Порожня DNF компілюється, але ніколи не виконується.
func Compile(dnf DNF, opts ...Option) (*Goal, error) {
	g := &Goal{dnf: dnf, heuristic: Obstruction}
	for _, opt := range opts {
		opt(g)
	}
	for ci, conj := range dnf {
		compiled := make([]literal, 0, len(conj))
		for _, l := range conj {
			rel, err := l.Check()
			if err != nil {
				return nil, fmt.Errorf("conjunction %d: %w", ci, err)
			}
			lit := literal{polarity: l.Polarity, rel: rel, x: l.Args[0]}
			if len(l.Args) > 1 {
				lit.y = l.Args[1]
			}
			compiled = append(compiled, lit)
		}
		g.conjs = append(g.conjs, compiled)
	}
	return g, nil
}

// DNF повертає вихідну формулу.
func (g *Goal) DNF() DNF {
	return g.dnf
}

// Empty - у формулі немає жодної кон'юнкції, мета недосяжна.
func (g *Goal) Empty() bool {
	return len(g.conjs) == 0
}

// Satisfied - хоча б одна кон'юнкція виконується повністю.
func (g *Goal) Satisfied(s world.State) bool {
	for _, conj := range g.conjs {
		ok := true
		for _, l := range conj {
			if !l.holds(s) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Estimate - оцінка кількості дій, що лишилися (див. Heuristic).
func (g *Goal) Estimate(s world.State) float64 {
	return g.heuristic.estimate(g.conjs, s)
}

// Holds перевіряє окремий літерал у стані. Неправильний літерал - помилка.
func Holds(l Literal, s world.State) (bool, error) {
	rel, err := l.Check()
	if err != nil {
		return false, err
	}
	lit := literal{polarity: l.Polarity, rel: rel, x: l.Args[0]}
	if len(l.Args) > 1 {
		lit.y = l.Args[1]
	}
	return lit.holds(s), nil
}

func (l literal) holds(s world.State) bool {
	return l.eval(s) == l.polarity
}

// eval обчислює позитивну форму відношення.
// Якщо X немає ні в стовпчиках, ні в руці - false.
func (l literal) eval(s world.State) bool {
	if l.rel == Holding {
		return s.Holding != "" && s.Holding == l.x
	}

	col, row, ok := s.Locate(l.x)
	if !ok {
		return false
	}
	stack := s.Stacks[col]

	switch l.rel {
	case OnTop, Inside:
		if row == 0 {
			return l.y == world.FloorID
		}
		return stack[row-1] == l.y

	case Under:
		for _, id := range stack[row+1:] {
			if id == l.y {
				return true
			}
		}
		return false

	case Above:
		if l.y == world.FloorID {
			return true
		}
		for _, id := range stack[:row] {
			if id == l.y {
				return true
			}
		}
		return false

	case Beside:
		return inColumn(s, col-1, l.y) || inColumn(s, col+1, l.y)

	case LeftOf:
		for c := col + 1; c < len(s.Stacks); c++ {
			if inColumn(s, c, l.y) {
				return true
			}
		}
		return false

	case RightOf:
		for c := 0; c < col; c++ {
			if inColumn(s, c, l.y) {
				return true
			}
		}
		return false
	}
	return false
}

func inColumn(s world.State, col int, id string) bool {
	if col < 0 || col >= len(s.Stacks) {
		return false
	}
	for _, x := range s.Stacks[col] {
		if x == id {
			return true
		}
	}
	return false
}
