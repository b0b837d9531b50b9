// Package matching scores how alike two person names are.
package matching

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultThreshold is the minimum NameSimilarity for two names to be treated
// as the same student.
const DefaultThreshold = 0.85

// NormalizeName prepares a name for comparison: NFKC, case folded,
// inner whitespace collapsed to single spaces.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = norm.NFKC.String(name)
	name = cases.Fold().String(name)
	return strings.Join(strings.Fields(name), " ")
}

// NameSimilarity returns Ratio of the two normalized names.
func NameSimilarity(a, b string) float64 {
	return Ratio(NormalizeName(a), NormalizeName(b))
}

// Ratio is the Ratcliff/Obershelp similarity 2*M/T in [0,1], where M is the
// number of characters in matching blocks and T the combined length.
// Two empty strings are identical.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingChars(ra, rb)) / float64(total)
}

// matchingChars finds the longest common block, then recurses on the pieces
// to its left and right.
func matchingChars(a, b []rune) int {
	type span struct{ alo, ahi, blo, bhi int }

	matched := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return matched
}

// longestMatch returns the longest block a[i:i+k] == b[j:j+k] inside the given
// bounds. Among equally long blocks the one starting earliest in a, then in b, wins.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (int, int, int) {
	bestI, bestJ, bestK := alo, blo, 0

	// prev[j+1] is the length of the common suffix ending at a[i-1], b[j]
	prev := make([]int, bhi-blo+1)
	cur := make([]int, bhi-blo+1)
	for i := alo; i < ahi; i++ {
		for j := blo; j < bhi; j++ {
			idx := j - blo + 1
			if a[i] != b[j] {
				cur[idx] = 0
				continue
			}
			cur[idx] = prev[idx-1] + 1
			if k := cur[idx]; k > bestK {
				bestI, bestJ, bestK = i-k+1, j-k+1, k
			}
		}
		prev, cur = cur, prev
	}
	return bestI, bestJ, bestK
}
