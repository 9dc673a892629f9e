package world

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// idPattern - допустимі ідентифікатори об'єктів. Обмеження потрібне,
// щоб канонічне кодування Key() було однозначним.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// State - конфігурація світу: стовпчики (знизу вгору), що тримає рука, де рука.
// Стан незмінний після створення: переходи копіюють змінений стовпчик,
// решта стовпчиків спільні і тільки для читання.
type State struct {
	Stacks  [][]string
	Holding string // "" - рука порожня
	Arm     int
}

// Key - канонічне кодування (stacks, holding, arm).
// Структурно рівні стани мають рівні ключі.
func (s State) Key() string {
	var b strings.Builder
	for i, col := range s.Stacks {
		if i > 0 {
			b.WriteByte('|')
		}
		for j, id := range col {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(id)
		}
	}
	b.WriteByte('#')
	b.WriteString(s.Holding)
	b.WriteByte('@')
	b.WriteString(strconv.Itoa(s.Arm))
	return b.String()
}

// String реалізує fmt.Stringer (вимога planning.State).
func (s State) String() string {
	cols := make([]string, len(s.Stacks))
	for i, col := range s.Stacks {
		cols[i] = "[" + strings.Join(col, " ") + "]"
	}
	holding := s.Holding
	if holding == "" {
		holding = "-"
	}
	return fmt.Sprintf("%s holding=%s arm=%d", strings.Join(cols, ""), holding, s.Arm)
}

// Clone повертає глибоку копію (для зовнішніх споживачів, що хочуть мутувати).
func (s State) Clone() State {
	stacks := make([][]string, len(s.Stacks))
	for i, col := range s.Stacks {
		stacks[i] = append([]string(nil), col...)
	}
	return State{Stacks: stacks, Holding: s.Holding, Arm: s.Arm}
}

// Locate шукає об'єкт у стовпчиках. Об'єкт у руці не знаходиться.
func (s State) Locate(id string) (col, row int, ok bool) {
	for c, stack := range s.Stacks {
		for r, x := range stack {
			if x == id {
				return c, r, true
			}
		}
	}
	return -1, -1, false
}

// Exists - об'єкт є у стовпчиках або в руці.
func (s State) Exists(id string) bool {
	if s.Holding == id && id != "" {
		return true
	}
	_, _, ok := s.Locate(id)
	return ok
}

// Top повертає верхній об'єкт стовпчика або "" для порожнього.
func (s State) Top(col int) string {
	stack := s.Stacks[col]
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1]
}

// Validate перевіряє інваріанти: кожен об'єкт рівно в одному місці,
// рука в межах світу, усі ідентифікатори відомі (якщо objects != nil).
func (s State) Validate(objects map[string]Object) error {
	if len(s.Stacks) == 0 {
		return fmt.Errorf("%w: world has no columns", ErrInvalidWorld)
	}
	if s.Arm < 0 || s.Arm >= len(s.Stacks) {
		return fmt.Errorf("%w: arm %d outside 0..%d", ErrInvalidWorld, s.Arm, len(s.Stacks)-1)
	}

	seen := make(map[string]bool)
	check := func(id string) error {
		if !idPattern.MatchString(id) || id == FloorID {
			return fmt.Errorf("%w: bad object id %q", ErrInvalidWorld, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: object %q appears twice", ErrInvalidWorld, id)
		}
		seen[id] = true
		if objects != nil {
			if _, ok := objects[id]; !ok {
				return fmt.Errorf("%w: object %q has no descriptor", ErrInvalidWorld, id)
			}
		}
		return nil
	}

	for _, col := range s.Stacks {
		for _, id := range col {
			if err := check(id); err != nil {
				return err
			}
		}
	}
	if s.Holding != "" {
		if err := check(s.Holding); err != nil {
			return err
		}
	}
	return nil
}
