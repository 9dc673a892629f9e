package world

import (
	"fmt"
	"strings"
)

// Form - закрите перерахування форм об'єктів.
type Form string

const (
	Brick   Form = "brick"
	Plank   Form = "plank"
	Ball    Form = "ball"
	Pyramid Form = "pyramid"
	Box     Form = "box"
	Table   Form = "table"
	// FloorForm - синтетична форма підлоги, ніколи не лежить у стовпчику.
	FloorForm Form = "floor"
	// AnyForm підходить під будь-яку форму, крім підлоги (для опису в командах).
	AnyForm Form = "anyform"
)

var forms = []Form{Brick, Plank, Ball, Pyramid, Box, Table, FloorForm, AnyForm}

// ParseForm перетворює рядок на Form.
func ParseForm(s string) (Form, error) {
	for _, f := range forms {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown form %q", s)
}

// Size - розмір об'єкта. Порожній рядок означає "невідомо".
type Size string

const (
	Small       Size = "small"
	Large       Size = "large"
	UnknownSize Size = ""
)

// ParseSize перетворює рядок на Size. Порожній рядок дозволений.
func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case Small, Large, UnknownSize:
		return Size(s), nil
	}
	return "", fmt.Errorf("unknown size %q", s)
}

// rank повертає 0 для невідомого розміру.
func (s Size) rank() int {
	switch s {
	case Small:
		return 1
	case Large:
		return 2
	}
	return 0
}

// Object - незмінний опис об'єкта.
type Object struct {
	Form  Form   `yaml:"form" json:"form"`
	Size  Size   `yaml:"size,omitempty" json:"size,omitempty"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// FloorID - ідентифікатор підлоги в літералах (ontop(x,floor)).
const FloorID = "floor"

// Floor - дескриптор підлоги.
var Floor = Object{Form: FloorForm}

// String повертає опис на кшталт "large white ball".
func (o Object) String() string {
	parts := make([]string, 0, 3)
	if o.Size != UnknownSize {
		parts = append(parts, string(o.Size))
	}
	if o.Color != "" {
		parts = append(parts, o.Color)
	}
	switch o.Form {
	case AnyForm:
		parts = append(parts, "object")
	default:
		parts = append(parts, string(o.Form))
	}
	return strings.Join(parts, " ")
}

// Matches перевіряє, чи підходить об'єкт під шаблон опису.
// Порожні поля шаблону підходять під будь-що; AnyForm - під все, крім підлоги.
func (o Object) Matches(pattern Object) bool {
	switch pattern.Form {
	case AnyForm:
		if o.Form == FloorForm {
			return false
		}
	case "":
	default:
		if o.Form != pattern.Form {
			return false
		}
	}
	if pattern.Size != UnknownSize && o.Size != pattern.Size {
		return false
	}
	if pattern.Color != "" && o.Color != pattern.Color {
		return false
	}
	return true
}
