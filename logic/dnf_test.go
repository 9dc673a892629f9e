package logic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDNF(t *testing.T) {
	got, err := ParseDNF("ontop(f, m) & holding(e) | -inside(a,k)")
	require.NoError(t, err)

	want := DNF{
		{Lit(OnTop, "f", "m"), Lit(Holding, "e")},
		{{Polarity: false, Relation: "inside", Args: []string{"a", "k"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseDNF (-want +got):\n%s", diff)
	}
	assert.Equal(t, "ontop(f,m) & holding(e) | -inside(a,k)", got.String())

	again, err := ParseDNF(got.String())
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestParseDNFErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"ontop(a,b) |",
		"ontop a b",
		"(a,b)",
		"on-top(a,b)",
		"ontop(a,b",
	} {
		_, err := ParseDNF(text)
		assert.ErrorIs(t, err, ErrSyntax, "%q", text)
	}
}

func TestLiteralCheck(t *testing.T) {
	rel, err := Lit(Beside, "a", "b").Check()
	require.NoError(t, err)
	assert.Equal(t, Beside, rel)

	bad := []Literal{
		{Polarity: true, Relation: "near", Args: []string{"a", "b"}},
		Lit(Holding, "a", "b"),
		Lit(OnTop, "a"),
		Lit(Inside, "a", ""),
	}
	for _, l := range bad {
		_, err := l.Check()
		assert.ErrorIs(t, err, ErrMalformedLiteral, l.String())
	}
}

func TestParseRelation(t *testing.T) {
	for _, r := range relations {
		got, ok := ParseRelation(string(r))
		assert.True(t, ok)
		assert.Equal(t, r, got)
	}
	_, ok := ParseRelation("near")
	assert.False(t, ok)
	assert.Equal(t, 1, Holding.Arity())
	assert.Equal(t, 2, LeftOf.Arity())
}
