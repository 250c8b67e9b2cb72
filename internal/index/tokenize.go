package index

import (
	"regexp"

	"golang.org/x/text/cases"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// foldCase is a Unicode-aware case fold, grounded on the teacher's own
// golang.org/x/text/cases usage for text normalization rather than
// strings.ToLower's ASCII-only folding.
var foldCase = cases.Fold()

// tokenize case-folds and splits s on any run of non-alphanumeric
// characters, which is enough to turn camelCase/kebab-case/path-template
// text into comparable search terms (spec §4.4).
func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	return tokenPattern.FindAllString(foldCase.String(s), -1)
}

func tokenizeAll(ss []string) []string {
	var out []string
	for _, s := range ss {
		out = append(out, tokenize(s)...)
	}
	return out
}
