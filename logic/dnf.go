package logic

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrMalformedLiteral - літерал з невідомим відношенням або неправильною арністю.
	// Це порушення контракту тим, хто збудував формулу.
	ErrMalformedLiteral = errors.New("malformed literal")

	// ErrSyntax - текстову формулу не вдалося розібрати.
	ErrSyntax = errors.New("formula syntax error")
)

// Relation - закрите перерахування просторових відношень.
type Relation string

const (
	Holding Relation = "holding"
	OnTop   Relation = "ontop"
	Inside  Relation = "inside"
	Under   Relation = "under"
	Above   Relation = "above"
	Beside  Relation = "beside"
	LeftOf  Relation = "leftof"
	RightOf Relation = "rightof"
)

var relations = []Relation{Holding, OnTop, Inside, Under, Above, Beside, LeftOf, RightOf}

// ParseRelation перетворює рядок на Relation.
func ParseRelation(s string) (Relation, bool) {
	for _, r := range relations {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Arity - кількість аргументів відношення.
func (r Relation) Arity() int {
	if r == Holding {
		return 1
	}
	return 2
}

// Literal - одне твердження relation(args...) з полярністю.
type Literal struct {
	Polarity bool
	Relation string
	Args     []string
}

// Lit - скорочення для позитивного літерала.
func Lit(rel Relation, args ...string) Literal {
	return Literal{Polarity: true, Relation: string(rel), Args: args}
}

func (l Literal) String() string {
	s := l.Relation + "(" + strings.Join(l.Args, ",") + ")"
	if !l.Polarity {
		return "-" + s
	}
	return s
}

// Check перевіряє форму літерала.
func (l Literal) Check() (Relation, error) {
	rel, ok := ParseRelation(l.Relation)
	if !ok {
		return "", fmt.Errorf("%w: unknown relation %q", ErrMalformedLiteral, l.Relation)
	}
	if len(l.Args) != rel.Arity() {
		return "", fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrMalformedLiteral, rel, rel.Arity(), len(l.Args))
	}
	for _, a := range l.Args {
		if a == "" {
			return "", fmt.Errorf("%w: empty argument in %s", ErrMalformedLiteral, l)
		}
	}
	return rel, nil
}

// Conjunction - усі літерали мають виконуватись.
type Conjunction []Literal

func (c Conjunction) String() string {
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = l.String()
	}
	return strings.Join(parts, " & ")
}

// DNF - диз'юнкція кон'юнкцій.
type DNF []Conjunction

func (d DNF) String() string {
	parts := make([]string, len(d))
	for i, c := range d {
		parts[i] = c.String()
	}
	return strings.Join(parts, " | ")
}

// ParseDNF розбирає текстову форму: "ontop(f,m) & holding(e) | -inside(a,k)".
func ParseDNF(text string) (DNF, error) {
	var dnf DNF
	for _, disj := range strings.Split(text, "|") {
		if strings.TrimSpace(disj) == "" {
			return nil, fmt.Errorf("%w: empty conjunction in %q", ErrSyntax, text)
		}
		var conj Conjunction
		for _, part := range strings.Split(disj, "&") {
			lit, err := parseLiteral(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			conj = append(conj, lit)
		}
		dnf = append(dnf, conj)
	}
	return dnf, nil
}

func parseLiteral(s string) (Literal, error) {
	lit := Literal{Polarity: true}
	if strings.HasPrefix(s, "-") {
		lit.Polarity = false
		s = strings.TrimSpace(s[1:])
	}
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return Literal{}, fmt.Errorf("%w: bad literal %q", ErrSyntax, s)
	}
	lit.Relation = strings.TrimSpace(s[:open])
	for _, r := range lit.Relation {
		if !unicode.IsLetter(r) {
			return Literal{}, fmt.Errorf("%w: bad relation name %q", ErrSyntax, lit.Relation)
		}
	}
	for _, a := range strings.Split(s[open+1:len(s)-1], ",") {
		lit.Args = append(lit.Args, strings.TrimSpace(a))
	}
	return lit, nil
}
