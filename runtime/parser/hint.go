package parser

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/dbnlang/dbn/runtime/scope"
)

// maxEditDistance bounds how far a misspelling may be from its suggestion.
const maxEditDistance = 2

// suggestKeyword returns the keyword or command name closest to word, or ""
// when nothing is close. Subsequence matches ("Pn" for "Pen") are preferred;
// edit distance catches transpositions ("Lien" for "Line").
func suggestKeyword(word string, sc *scope.Scope) string {
	candidates := make([]string, 0, len(builtins))
	for kw := range builtins {
		candidates = append(candidates, kw)
	}
	sort.Strings(candidates)
	candidates = append(candidates, sc.CommandNames()...)

	if ranks := fuzzy.RankFindFold(word, candidates); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", maxEditDistance+1
	for _, cand := range candidates {
		if d := fuzzy.LevenshteinDistance(word, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}
