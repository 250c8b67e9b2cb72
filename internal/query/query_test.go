package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleTerms(t *testing.T) {
	q := Parse("users profile")
	require.False(t, q.Fallback)
	assert.ElementsMatch(t, []string{"users", "profile"}, q.Terms)
	assert.Equal(t, KindAnd, q.Root.Kind)
}

func TestParse_QuotedPhrase(t *testing.T) {
	q := Parse(`"create user"`)
	require.False(t, q.Fallback)
	require.Equal(t, KindPhrase, q.Root.Kind)
	assert.Equal(t, "create user", q.Root.Value)
}

func TestParse_BooleanOperatorsAreCaseSensitive(t *testing.T) {
	q := Parse("users and admins")
	require.False(t, q.Fallback)
	// lowercase "and" is just a term, not the AND operator, so all three
	// words are implicitly ANDed together (spec §4.5).
	assert.ElementsMatch(t, []string{"users", "and", "admins"}, q.Terms)
}

func TestParse_UppercaseOrIsTheOperator(t *testing.T) {
	q := Parse("users OR admins")
	require.False(t, q.Fallback)
	assert.Equal(t, KindOr, q.Root.Kind)
}

func TestParse_NotExcludesTermFromScoring(t *testing.T) {
	q := Parse("users NOT deprecated")
	require.False(t, q.Fallback)
	// "deprecated" sits under a NOT and must not feed BM25 scoring.
	assert.Equal(t, []string{"users"}, q.Terms)
}

func TestParse_FieldScoping(t *testing.T) {
	q := Parse("method:POST users")
	require.False(t, q.Fallback)
	assert.Equal(t, KindAnd, q.Root.Kind)

	var sawField bool
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Kind == KindField && n.Field == "method" && n.Value == "POST" {
			sawField = true
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(q.Root)
	assert.True(t, sawField)
}

func TestParse_FuzzyTerm(t *testing.T) {
	q := Parse("usrs~")
	require.False(t, q.Fallback)
	assert.Equal(t, KindFuzzy, q.Root.Kind)
	assert.Equal(t, "usrs", q.Root.Value)
}

func TestParse_Parentheses(t *testing.T) {
	q := Parse("(users OR admins) AND active")
	require.False(t, q.Fallback)
	assert.Equal(t, KindAnd, q.Root.Kind)
	assert.Equal(t, KindOr, q.Root.Children[0].Kind)
}

// An unterminated quote can't lex; the processor must fall back to a bag of
// terms and record a warning rather than surfacing an error (spec §4.5).
func TestParse_UnterminatedQuoteFallsBackGracefully(t *testing.T) {
	q := Parse(`"users`)
	assert.True(t, q.Fallback)
	assert.NotEmpty(t, q.Warnings)
	assert.NotEmpty(t, q.Terms)
}

// A missing closing parenthesis is a grammar error the parser can't
// recover; Parse must still return a usable bag-of-terms query instead of
// propagating the error up (spec §4.5).
func TestParse_UnbalancedParenFallsBack(t *testing.T) {
	q := Parse("(users")
	assert.True(t, q.Fallback)
	assert.NotEmpty(t, q.Warnings)
	assert.NotEmpty(t, q.Terms)
}

func TestMatch_AndOrNot(t *testing.T) {
	term := func(n *Node) bool { return n.Value == "users" }
	field := func(field, value string) bool { return field == "method" && value == "GET" }

	q := Parse("users method:GET")
	assert.True(t, Match(q.Root, term, field))

	q2 := Parse("users NOT admins")
	term2 := func(n *Node) bool { return n.Value == "users" }
	assert.True(t, Match(q2.Root, term2, field))
}

func TestMatch_NilNodeMatchesEverything(t *testing.T) {
	assert.True(t, Match(nil, func(*Node) bool { return false }, func(string, string) bool { return false }))
}
