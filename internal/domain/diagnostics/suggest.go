package diagnostics

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// fixedSuggestions maps a recognizable mistake snippet to a canned fix,
// per spec.md §4.1/§4.2's "suggestion drawn from a fixed table". Keys
// are matched as substrings of the offending lexeme/command.
var fixedSuggestions = []struct {
	trigger    string
	suggestion string
}{
	{`\frac1`, `use \frac{1}{2} (braces are required around both operands)`},
	{`\frac12`, `use \frac{1}{2}`},
	{`sin(`, `use \sin{...} (backslash-escape the function name)`},
	{`cos(`, `use \cos{...} (backslash-escape the function name)`},
	{`tan(`, `use \tan{...} (backslash-escape the function name)`},
	{`log(`, `use \log{...} (backslash-escape the function name)`},
}

// FixedSuggestion returns a canned suggestion for a known-bad snippet,
// or "" if none matches.
func FixedSuggestion(badSnippet string) string {
	for _, s := range fixedSuggestions {
		if len(badSnippet) >= len(s.trigger) && contains(badSnippet, s.trigger) {
			return s.suggestion
		}
	}
	return ""
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// DidYouMean keeps only the candidates that contain name's letters in
// order (case-folded), picks the one with the smallest edit distance to
// name, and returns it when that distance is within maxDistance, per
// spec.md §7 ("A similarity-based did-you-mean is offered ... edit
// distance <= 2"). Grounded on opal-lang/opal's
// runtime/planner.findClosestMatch, which uses the same
// fuzzy.RankFindFold call against a candidate-name list.
func DidYouMean(name string, candidates []string, maxDistance int) string {
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	if best.Distance > maxDistance {
		return ""
	}
	return fmt.Sprintf("did you mean \\%s?", best.Target)
}
