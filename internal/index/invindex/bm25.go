// Package invindex implements a field-weighted inverted index scored with
// Okapi BM25 (k1=1.2, b=0.75, spec §9 Open Question resolution), used by
// both the endpoint index and the schema index.
package invindex

import "math"

// Weights pins the BM25 constants to the spec's resolved defaults.
const (
	K1 = 1.2
	B  = 0.75
)

// Index is an immutable, built-once inverted index over a fixed document
// set. Term frequencies are float64 because a document's term count is the
// sum of its field weights, not a plain occurrence count (spec §4.4
// "field-weighted searchable documents").
type Index struct {
	postings  map[string]map[string]float64 // term -> docID -> weighted freq
	docLen    map[string]float64
	avgDocLen float64
	n         int
}

// Build indexes docs, where each doc is docID -> field -> tokens, weighting
// each field's tokens by weights[field] (fields absent from weights count
// as 0 and are ignored).
func Build(docs map[string]map[string][]string, weights map[string]float64) *Index {
	idx := &Index{
		postings: map[string]map[string]float64{},
		docLen:   map[string]float64{},
		n:        len(docs),
	}

	var totalLen float64
	for docID, fields := range docs {
		for field, tokens := range fields {
			w, ok := weights[field]
			if !ok || w <= 0 {
				continue
			}
			for _, tok := range tokens {
				if tok == "" {
					continue
				}
				if idx.postings[tok] == nil {
					idx.postings[tok] = map[string]float64{}
				}
				idx.postings[tok][docID] += w
				idx.docLen[docID] += w
			}
		}
		totalLen += idx.docLen[docID]
	}
	if idx.n > 0 {
		idx.avgDocLen = totalLen / float64(idx.n)
	}
	return idx
}

// Candidates returns every docID that contains at least one of terms.
func (idx *Index) Candidates(terms []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range terms {
		for docID := range idx.postings[t] {
			if !seen[docID] {
				seen[docID] = true
				out = append(out, docID)
			}
		}
	}
	return out
}

// Score computes the BM25 score of docID against terms.
func (idx *Index) Score(terms []string, docID string) float64 {
	if idx.avgDocLen == 0 {
		return 0
	}
	dl := idx.docLen[docID]
	var score float64
	for _, t := range terms {
		postings := idx.postings[t]
		f := postings[docID]
		if f == 0 {
			continue
		}
		docFreq := float64(len(postings))
		idf := math.Log((float64(idx.n)-docFreq+0.5)/(docFreq+0.5) + 1)
		score += idf * (f * (K1 + 1)) / (f + K1*(1-B+B*dl/idx.avgDocLen))
	}
	return score
}

// DocFrequency reports how many documents contain term, used by the query
// suggester to judge whether a term is worth suggesting (spec §4.5).
func (idx *Index) DocFrequency(term string) int {
	return len(idx.postings[term])
}

// Vocabulary returns every indexed term, for fuzzy-match candidate generation.
func (idx *Index) Vocabulary() []string {
	out := make([]string, 0, len(idx.postings))
	for t := range idx.postings {
		out = append(out, t)
	}
	return out
}
