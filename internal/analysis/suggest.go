package analysis

import (
	edlib "github.com/hbollon/go-edlib"
)

// suggestionThreshold is the minimum normalized Levenshtein similarity
// for a candidate to be offered as a "did you mean" hint.
const suggestionThreshold = 0.5

// nearestName returns the candidate most similar to name, or "" when no
// candidate clears the threshold. Candidates are scanned in order, so
// ties resolve to the earliest declaration and the result is
// deterministic.
func nearestName(name string, candidates []string) string {
	best := ""
	bestScore := float32(suggestionThreshold)
	for _, candidate := range candidates {
		if candidate == name {
			continue
		}
		score, err := edlib.StringsSimilarity(name, candidate, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best
}
