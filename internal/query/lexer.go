package query

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokPhrase
	tokField
	tokFuzzy
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind  tokenKind
	text  string
	field string // only for tokField
}

// lex tokenizes a query string. It returns an error for an unterminated
// quote; every other shape of input lexes successfully (malformed
// combinator placement is caught by the parser instead).
func lex(q string) ([]token, error) {
	var toks []token
	i, n := 0, len(q)

	for i < n {
		c := q[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		case c == '"':
			j := i + 1
			for j < n && q[j] != '"' {
				j++
			}
			if j >= n {
				return nil, fmt.Errorf("unterminated quoted phrase starting at byte %d", i)
			}
			toks = append(toks, token{kind: tokPhrase, text: q[i+1 : j]})
			i = j + 1
		default:
			j := i
			for j < n && q[j] != ' ' && q[j] != '\t' && q[j] != '\n' && q[j] != '\r' && q[j] != '(' && q[j] != ')' && q[j] != '"' {
				j++
			}
			word := q[i:j]
			i = j

			// Case-sensitive as written (spec §4.5): only the exact
			// uppercase spelling is a boolean operator, so "and"/"or"/"not"
			// lex as plain terms.
			switch word {
			case "AND":
				toks = append(toks, token{kind: tokAnd})
				continue
			case "OR":
				toks = append(toks, token{kind: tokOr})
				continue
			case "NOT":
				toks = append(toks, token{kind: tokNot})
				continue
			}

			if strings.HasSuffix(word, "~") && len(word) > 1 {
				toks = append(toks, token{kind: tokFuzzy, text: strings.TrimSuffix(word, "~")})
				continue
			}
			if idx := strings.IndexByte(word, ':'); idx > 0 && idx < len(word)-1 {
				toks = append(toks, token{kind: tokField, field: word[:idx], text: word[idx+1:]})
				continue
			}
			toks = append(toks, token{kind: tokWord, text: word})
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}
