package query

import "strings"

// Parse parses raw into a Query. A grammar failure never surfaces as an
// error: it falls back to treating the whole string as an unstructured
// bag of terms (OR'd together) and records a warning, so a malformed query
// still returns results instead of an error (spec §4.5 "graceful
// degradation").
func Parse(raw string) *Query {
	toks, err := lex(raw)
	if err == nil {
		if root, perr := parseQuery(toks); perr == nil {
			var terms []string
			collectTerms(root, false, &terms)
			return &Query{Root: root, Terms: dedupe(terms)}
		} else {
			err = perr
		}
	}

	fallback := bagOfTerms(raw)
	return &Query{
		Root:     fallback,
		Terms:    dedupe(flatWords(raw)),
		Fallback: true,
		Warnings: []Diagnostic{{Message: "query grammar failed (" + err.Error() + "); falling back to plain term matching"}},
	}
}

func bagOfTerms(raw string) *Node {
	words := flatWords(raw)
	if len(words) == 0 {
		return &Node{Kind: KindTerm, Value: ""}
	}
	node := &Node{Kind: KindTerm, Value: words[0]}
	for _, w := range words[1:] {
		node = &Node{Kind: KindOr, Children: []*Node{node, {Kind: KindTerm, Value: w}}}
	}
	return node
}

func flatWords(raw string) []string {
	return strings.Fields(strings.ToLower(raw))
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// TermMatcher decides whether a single leaf node (term/phrase/fuzzy) matches
// a document; FieldMatcher decides whether a field:value clause matches.
type TermMatcher func(n *Node) bool
type FieldMatcher func(field, value string) bool

// Match evaluates the boolean structure of a parsed Query against one
// document via the supplied predicates.
func Match(n *Node, term TermMatcher, field FieldMatcher) bool {
	if n == nil {
		return true
	}
	switch n.Kind {
	case KindTerm, KindPhrase, KindFuzzy:
		return term(n)
	case KindField:
		return field(n.Field, n.Value)
	case KindAnd:
		return Match(n.Children[0], term, field) && Match(n.Children[1], term, field)
	case KindOr:
		return Match(n.Children[0], term, field) || Match(n.Children[1], term, field)
	case KindNot:
		return !Match(n.Children[0], term, field)
	default:
		return false
	}
}
