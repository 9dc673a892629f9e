package nlu

import (
	"fmt"
	"sort"

	"github.com/youryharchenko/go-shrdlite/logic"
	"github.com/youryharchenko/go-shrdlite/world"
)

// MaxConjunctions обмежує розгортання "all ... a ..." у декартів добуток.
const MaxConjunctions = 4096

// group - розв'язана сутність: кандидати і як їх комбінувати.
type group struct {
	quant Quantifier
	ids   []string
	desc  string
}

// Interpret перетворює прочитання команди на DNF-мету у світі w.
// Підрядні речення обчислюються на поточному стані тим самим
// оцінювачем літералів, що й мета.
func Interpret(cmd Command, w world.World) (logic.DNF, error) {
	switch cmd.Verb {
	case Take:
		g, err := resolve(cmd.Entity, w)
		if err != nil {
			return nil, err
		}
		if cmd.Entity.IsFloor() {
			return nil, fmt.Errorf("%w: cannot take the floor", ErrNoInterpretation)
		}
		return takeGoal(g)

	case Put:
		if w.State.Holding == "" {
			return nil, ErrNotHolding
		}
		held := group{quant: The, ids: []string{w.State.Holding}, desc: "it"}
		return moveGoal(held, cmd.Location, w)

	case Move:
		g, err := resolve(cmd.Entity, w)
		if err != nil {
			return nil, err
		}
		return moveGoal(g, cmd.Location, w)
	}
	return nil, fmt.Errorf("%w: unknown verb %q", ErrNoInterpretation, cmd.Verb)
}

func takeGoal(g group) (logic.DNF, error) {
	if g.quant == All {
		// Одна рука тримає тільки один об'єкт.
		if len(g.ids) != 1 {
			return nil, fmt.Errorf("%w: cannot hold all %s at once", ErrNoInterpretation, g.desc)
		}
		return logic.DNF{{logic.Lit(logic.Holding, g.ids[0])}}, nil
	}
	var dnf logic.DNF
	for _, id := range g.ids {
		dnf = append(dnf, logic.Conjunction{logic.Lit(logic.Holding, id)})
	}
	return dnf, nil
}

func moveGoal(x group, loc *Location, w world.World) (logic.DNF, error) {
	y, err := resolve(loc.Entity, w)
	if err != nil {
		return nil, err
	}
	rel := loc.Relation

	var conjs []logic.Conjunction
	switch {
	case x.quant == All && y.quant == All:
		// Об'єкт не стоїть у відношенні сам із собою: такі пари пропускаємо.
		var conj logic.Conjunction
		for _, a := range x.ids {
			for _, b := range y.ids {
				if a != b {
					conj = append(conj, logic.Lit(rel, a, b))
				}
			}
		}
		if len(conj) > 0 {
			conjs = append(conjs, conj)
		}

	case x.quant == All:
		// Кожен x до якогось y: перебираємо всі призначення x -> y.
		n := 1
		for range x.ids {
			n *= len(y.ids)
			if n > MaxConjunctions {
				return nil, fmt.Errorf("%w: too many combinations for all %s", ErrNoInterpretation, x.desc)
			}
		}
		choice := make([]int, len(x.ids))
		for {
			conj := make(logic.Conjunction, len(x.ids))
			for i, a := range x.ids {
				conj[i] = logic.Lit(rel, a, y.ids[choice[i]])
			}
			conjs = append(conjs, conj)
			k := len(choice) - 1
			for k >= 0 {
				choice[k]++
				if choice[k] < len(y.ids) {
					break
				}
				choice[k] = 0
				k--
			}
			if k < 0 {
				break
			}
		}

	case y.quant == All:
		for _, a := range x.ids {
			var conj logic.Conjunction
			for _, b := range y.ids {
				if a != b {
					conj = append(conj, logic.Lit(rel, a, b))
				}
			}
			if len(conj) > 0 {
				conjs = append(conjs, conj)
			}
		}

	default:
		for _, a := range x.ids {
			for _, b := range y.ids {
				conjs = append(conjs, logic.Conjunction{logic.Lit(rel, a, b)})
			}
		}
	}

	var dnf logic.DNF
	for _, conj := range conjs {
		if feasibleConj(conj, w) {
			dnf = append(dnf, conj)
		}
	}
	if len(dnf) == 0 {
		return nil, fmt.Errorf("%w: %s cannot be %s %s", ErrNoInterpretation, x.desc, rel, y.desc)
	}
	return dnf, nil
}

// resolve знаходить об'єкти світу під описом сутності.
// "the" вимагає рівно одного кандидата.
func resolve(e *Entity, w world.World) (group, error) {
	if e.IsFloor() {
		return group{quant: The, ids: []string{world.FloorID}, desc: "the floor"}, nil
	}
	desc := e.String()

	var ids []string
	for id, o := range w.Objects {
		if !w.State.Exists(id) || !o.Matches(e.Object.Pattern) {
			continue
		}
		if e.Object.Location != nil {
			ok, err := satisfies(id, e.Object.Location, w)
			if err != nil {
				return group{}, err
			}
			if !ok {
				continue
			}
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if len(ids) == 0 {
		return group{}, fmt.Errorf("%w: there is no %s", ErrNoInterpretation, e.Object)
	}
	if e.Quantifier == The && len(ids) > 1 {
		return group{}, fmt.Errorf("%w: %s could be any of %v", ErrAmbiguous, desc, ids)
	}
	return group{quant: e.Quantifier, ids: ids, desc: desc}, nil
}

// satisfies перевіряє підрядне речення для об'єкта id на поточному стані.
func satisfies(id string, loc *Location, w world.World) (bool, error) {
	y, err := resolve(loc.Entity, w)
	if err != nil {
		return false, err
	}
	holds := func(b string) bool {
		ok, _ := logic.Holds(logic.Lit(loc.Relation, id, b), w.State)
		return ok
	}
	if y.quant == All {
		for _, b := range y.ids {
			if b == id || !holds(b) {
				return false, nil
			}
		}
		return true, nil
	}
	for _, b := range y.ids {
		if b != id && holds(b) {
			return true, nil
		}
	}
	return false, nil
}

func feasibleConj(conj logic.Conjunction, w world.World) bool {
	for _, l := range conj {
		if !Feasible(l, w) {
			return false
		}
	}
	return true
}

// Feasible відкидає літерали, які порушують фізичні закони
// незалежно від стану: сама по собі мета недосяжна.
func Feasible(l logic.Literal, w world.World) bool {
	if l.Relation == string(logic.Holding) {
		return len(l.Args) == 1 && l.Args[0] != world.FloorID
	}
	if len(l.Args) != 2 {
		return false
	}
	a, b := l.Args[0], l.Args[1]
	if a == b || a == world.FloorID {
		return false
	}
	x, okx := w.Object(a)
	y, oky := w.Object(b)
	if !okx || !oky {
		return false
	}

	switch logic.Relation(l.Relation) {
	case logic.Inside:
		return y.Form == world.Box && world.Supports(y, x, true)
	case logic.OnTop:
		return y.Form != world.Box && world.Supports(y, x, true)
	case logic.Under:
		// x під y: y не підлога, а м'яч нічого не тримає.
		return b != world.FloorID && x.Form != world.Ball
	case logic.Above:
		return y.Form != world.Ball
	case logic.Beside, logic.LeftOf, logic.RightOf:
		return b != world.FloorID
	}
	return false
}
