package csvimport

import "strings"

// normalizeLabel lowercases a label and folds punctuation, underscores,
// and runs of whitespace into single spaces, so "Zip_Code", "zip-code"
// and "ZIP CODE" all compare equal.
func normalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenOverlap scores shared tokens between two normalized labels as a
// fraction of the longer label's token count.
func tokenOverlap(a, b string) float64 {
	at := strings.Fields(a)
	bt := strings.Fields(b)
	if len(at) == 0 || len(bt) == 0 {
		return 0
	}

	set := make(map[string]bool, len(at))
	for _, t := range at {
		set[t] = true
	}
	shared := 0
	for _, t := range bt {
		if set[t] {
			shared++
		}
	}

	max := len(at)
	if len(bt) > max {
		max = len(bt)
	}
	return float64(shared) / float64(max)
}

// coversAllTokens reports whether every token of needle appears in hay.
func coversAllTokens(needle, hay string) bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(hay) {
		set[t] = true
	}
	for _, t := range strings.Fields(needle) {
		if !set[t] {
			return false
		}
	}
	return true
}

// levenshteinDistance computes the minimum number of single-character
// edits (insertions, deletions, substitutions) between two strings.
func levenshteinDistance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	// Two rows are enough; iterate the shorter string in the inner loop.
	if len(ar) > len(br) {
		ar, br = br, ar
	}

	prev := make([]int, len(ar)+1)
	curr := make([]int, len(ar)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(br); j++ {
		curr[0] = j
		for i := 1; i <= len(ar); i++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[i] = min3(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(ar)]
}

// similarity normalizes edit distance into a 0.0–1.0 score:
// 1.0 - dist/max(len(a), len(b)).
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	al := len([]rune(a))
	bl := len([]rune(b))
	max := al
	if bl > max {
		max = bl
	}
	if max == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(max)
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
