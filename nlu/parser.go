package nlu

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/youryharchenko/go-shrdlite/logic"
	"github.com/youryharchenko/go-shrdlite/world"
)

// Словник. Множина форм приймається так само, як однина.
var (
	formWords = map[string]world.Form{
		"brick": world.Brick, "bricks": world.Brick,
		"plank": world.Plank, "planks": world.Plank,
		"ball": world.Ball, "balls": world.Ball,
		"pyramid": world.Pyramid, "pyramids": world.Pyramid,
		"box": world.Box, "boxes": world.Box,
		"table": world.Table, "tables": world.Table,
		"object": world.AnyForm, "objects": world.AnyForm,
		"thing": world.AnyForm, "things": world.AnyForm,
		"form": world.AnyForm, "forms": world.AnyForm,
	}

	sizeWords = map[string]world.Size{
		"small": world.Small, "tiny": world.Small,
		"large": world.Large, "big": world.Large,
	}

	colorWords = map[string]bool{
		"red": true, "green": true, "blue": true,
		"yellow": true, "white": true, "black": true,
	}

	quantWords = map[string]Quantifier{
		"the": The,
		"a":   Any, "an": Any, "any": Any,
		"all": All, "every": All,
	}

	// relationPhrases - усі словесні форми відношень, довші першими не обов'язково:
	// парсер пробує кожну і повертає всі успіхи.
	relationPhrases = []struct {
		words []string
		rel   logic.Relation
	}{
		{[]string{"on"}, logic.OnTop},
		{[]string{"onto"}, logic.OnTop},
		{[]string{"on", "top", "of"}, logic.OnTop},
		{[]string{"in"}, logic.Inside},
		{[]string{"into"}, logic.Inside},
		{[]string{"inside"}, logic.Inside},
		{[]string{"inside", "of"}, logic.Inside},
		{[]string{"under"}, logic.Under},
		{[]string{"below"}, logic.Under},
		{[]string{"beneath"}, logic.Under},
		{[]string{"above"}, logic.Above},
		{[]string{"beside"}, logic.Beside},
		{[]string{"next", "to"}, logic.Beside},
		{[]string{"left", "of"}, logic.LeftOf},
		{[]string{"to", "the", "left", "of"}, logic.LeftOf},
		{[]string{"right", "of"}, logic.RightOf},
		{[]string{"to", "the", "right", "of"}, logic.RightOf},
	}

	takeVerbs = [][]string{{"take"}, {"grasp"}, {"pick", "up"}}
	moveVerbs = [][]string{{"move"}, {"put"}, {"drop"}}
	putVerbs  = [][]string{{"put"}, {"drop"}}

	relPronouns = [][]string{
		{"that", "is"}, {"that", "are"}, {"which", "is"}, {"which", "are"},
	}
)

// Tokenize переводить у нижній регістр і ділить на слова, відкидаючи пунктуацію.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Parse повертає всі прочитання речення (list of successes).
// Порожній список - ErrParse.
func Parse(text string) ([]Command, error) {
	toks := Tokenize(text)
	// "please" на початку нічого не змінює
	if len(toks) > 0 && toks[0] == "please" {
		toks = toks[1:]
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrParse)
	}

	p := &parser{toks: toks}
	var cmds []Command
	for _, r := range p.command(0) {
		if r.next == len(toks) {
			cmds = append(cmds, r.val)
		}
	}
	if len(cmds) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrParse, text)
	}
	return cmds, nil
}

// parsed - один успіх: значення і позиція першого невикористаного токена.
type parsed[T any] struct {
	val  T
	next int
}

type parser struct {
	toks []string
}

// words перевіряє послідовність слів з позиції i.
func (p *parser) words(i int, ws []string) (int, bool) {
	if i+len(ws) > len(p.toks) {
		return i, false
	}
	for k, w := range ws {
		if p.toks[i+k] != w {
			return i, false
		}
	}
	return i + len(ws), true
}

// oneOf повертає позиції після кожної фрази, що збіглася.
func (p *parser) oneOf(i int, phrases [][]string) []int {
	var out []int
	for _, ws := range phrases {
		if next, ok := p.words(i, ws); ok {
			out = append(out, next)
		}
	}
	return out
}

func (p *parser) command(i int) []parsed[Command] {
	var out []parsed[Command]

	for _, j := range p.oneOf(i, takeVerbs) {
		for _, e := range p.entity(j) {
			out = append(out, parsed[Command]{Command{Verb: Take, Entity: e.val}, e.next})
		}
	}

	for _, j := range p.oneOf(i, putVerbs) {
		if k, ok := p.words(j, []string{"it"}); ok {
			for _, l := range p.location(k) {
				out = append(out, parsed[Command]{Command{Verb: Put, Location: l.val}, l.next})
			}
		}
	}

	for _, j := range p.oneOf(i, moveVerbs) {
		for _, e := range p.entity(j) {
			for _, l := range p.location(e.next) {
				out = append(out, parsed[Command]{Command{Verb: Move, Entity: e.val, Location: l.val}, l.next})
			}
		}
	}
	return out
}

func (p *parser) entity(i int) []parsed[*Entity] {
	var out []parsed[*Entity]
	if j, ok := p.words(i, []string{"the", "floor"}); ok {
		floor := &Entity{Quantifier: The, Object: &Description{Pattern: world.Floor}}
		out = append(out, parsed[*Entity]{floor, j})
	}
	if i >= len(p.toks) {
		return out
	}
	q, ok := quantWords[p.toks[i]]
	if !ok {
		return out
	}
	for _, d := range p.description(i + 1) {
		out = append(out, parsed[*Entity]{&Entity{Quantifier: q, Object: d.val}, d.next})
	}
	return out
}

// description: [size] [color] form [[that is] LOCATION].
func (p *parser) description(i int) []parsed[*Description] {
	var pattern world.Object
	if i < len(p.toks) {
		if s, ok := sizeWords[p.toks[i]]; ok {
			pattern.Size = s
			i++
		}
	}
	if i < len(p.toks) && colorWords[p.toks[i]] {
		pattern.Color = p.toks[i]
		i++
	}
	if i >= len(p.toks) {
		return nil
	}
	form, ok := formWords[p.toks[i]]
	if !ok {
		return nil
	}
	pattern.Form = form
	i++

	out := []parsed[*Description]{{&Description{Pattern: pattern}, i}}

	// Підрядне речення із займенником і без нього. Саме пропущений займенник
	// дає неоднозначність "the ball in a box on the floor".
	starts := append([]int{i}, p.oneOf(i, relPronouns)...)
	for _, j := range starts {
		for _, l := range p.location(j) {
			out = append(out, parsed[*Description]{&Description{Pattern: pattern, Location: l.val}, l.next})
		}
	}
	return out
}

func (p *parser) location(i int) []parsed[*Location] {
	var out []parsed[*Location]
	for _, rp := range relationPhrases {
		j, ok := p.words(i, rp.words)
		if !ok {
			continue
		}
		for _, e := range p.entity(j) {
			out = append(out, parsed[*Location]{&Location{Relation: rp.rel, Entity: e.val}, e.next})
		}
	}
	return out
}
