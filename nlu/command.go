// Package nlu розбирає англійські команди світу кубиків і перетворює їх на
// DNF-мету для планувальника.
package nlu

import (
	"errors"
	"strings"

	"github.com/youryharchenko/go-shrdlite/logic"
	"github.com/youryharchenko/go-shrdlite/world"
)

var (
	ErrParse            = errors.New("cannot parse command")
	ErrAmbiguous        = errors.New("ambiguous reference")
	ErrNoInterpretation = errors.New("no interpretation")
	ErrNotHolding       = errors.New("not holding anything")
)

// Verb - тип команди.
type Verb string

const (
	Take Verb = "take" // взяти ENTITY
	Put  Verb = "put"  // покласти те, що в руці (it)
	Move Verb = "move" // перемістити ENTITY у LOCATION
)

// Quantifier - квантор сутності.
type Quantifier string

const (
	The Quantifier = "the"
	Any Quantifier = "any"
	All Quantifier = "all"
)

// Command - одне синтаксичне прочитання речення.
type Command struct {
	Verb     Verb
	Entity   *Entity // nil для Put
	Location *Location
}

// Entity - квантор плюс опис об'єкта. Підлога має Form == world.FloorForm.
type Entity struct {
	Quantifier Quantifier
	Object     *Description
}

// Description - шаблон об'єкта з необов'язковим підрядним реченням.
type Description struct {
	Pattern  world.Object
	Location *Location
}

// Location - відношення до іншої сутності.
type Location struct {
	Relation logic.Relation
	Entity   *Entity
}

// IsFloor - сутність означає підлогу.
func (e *Entity) IsFloor() bool {
	return e.Object.Pattern.Form == world.FloorForm
}

// String дає дужкову форму дерева; різні прочитання мають різні рядки.
func (c Command) String() string {
	switch c.Verb {
	case Take:
		return "take(" + c.Entity.String() + ")"
	case Put:
		return "put(it, " + c.Location.String() + ")"
	}
	return "move(" + c.Entity.String() + ", " + c.Location.String() + ")"
}

func (e *Entity) String() string {
	if e.IsFloor() {
		return "floor"
	}
	return string(e.Quantifier) + " " + e.Object.String()
}

func (d *Description) String() string {
	var b strings.Builder
	b.WriteString(d.Pattern.String())
	if d.Location != nil {
		b.WriteString(" [" + d.Location.String() + "]")
	}
	return b.String()
}

func (l *Location) String() string {
	return string(l.Relation) + " " + l.Entity.String()
}
