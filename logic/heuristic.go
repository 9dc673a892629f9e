package logic

import (
	"fmt"
	"math"

	"github.com/youryharchenko/go-shrdlite/world"
)

// Heuristic - спосіб оцінити відстань до мети.
type Heuristic string

const (
	// Obstruction: кожен об'єкт над потрібним коштує 4 дії
	// (підійти, взяти, відійти, покласти), плюс дорога до стовпчика, плюс взяти.
	// Допустимість не доведена.
	Obstruction Heuristic = "obstruction"

	// Distance: відстань руки до ближчого з аргументів літерала (+1 на взяти).
	// Допустима, бо відношення змінюється лише коли рухається X або Y.
	Distance Heuristic = "distance"

	// None: нуль, пошук стає пошуком за рівномірною вартістю.
	None Heuristic = "none"
)

// ParseHeuristic перетворює назву з конфігу.
func ParseHeuristic(s string) (Heuristic, error) {
	switch Heuristic(s) {
	case Obstruction, Distance, None:
		return Heuristic(s), nil
	}
	return "", fmt.Errorf("unknown heuristic %q (want obstruction, distance or none)", s)
}

// estimate бере мінімум по всіх літералах усіх кон'юнкцій:
// оптимістично вважаємо, що будемо виконувати найдешевший літерал.
// Літерали, чийого основного об'єкта немає у світі, пропускаються.
func (h Heuristic) estimate(conjs [][]literal, s world.State) float64 {
	if h == None {
		return 0
	}

	best := math.Inf(1)
	for _, conj := range conjs {
		for _, l := range conj {
			v, ok := h.literalCost(l, s)
			if ok && v < best {
				best = v
			}
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

func (h Heuristic) literalCost(l literal, s world.State) (float64, bool) {
	if h == Distance {
		// Відношення змінюється тільки коли рухається X або Y,
		// тож хоча б один з них доведеться взяти (або покласти, якщо він у руці).
		cx, okx := reachCost(l.x, s)
		if l.y == "" || l.y == world.FloorID {
			return cx, okx
		}
		cy, oky := reachCost(l.y, s)
		switch {
		case okx && oky:
			return math.Min(cx, cy), true
		case okx:
			return cx, true
		}
		return cy, oky
	}

	if s.Holding != "" && s.Holding == l.x {
		// Лишилось щонайменше покласти.
		return 1, true
	}
	col, row, ok := s.Locate(l.x)
	if !ok {
		return 0, false
	}
	above := len(s.Stacks[col]) - row - 1
	return float64(above)*4 + math.Abs(float64(s.Arm-col)) + 1, true
}

func reachCost(id string, s world.State) (float64, bool) {
	if s.Holding != "" && s.Holding == id {
		return 1, true
	}
	col, _, ok := s.Locate(id)
	if !ok {
		return 0, false
	}
	return math.Abs(float64(s.Arm-col)) + 1, true
}
