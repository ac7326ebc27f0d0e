package scoring

import "github.com/smartetl/colmatch/pkg/utils"

// LexicalMatrix returns edit-distance similarities between headers (rows) and
// canonical fields (columns). Each score is 1 - d/maxLen where d is the
// Damerau-Levenshtein distance between the normalized strings, so scores lie
// in [0, 1] with 1 for an exact match after normalization. Useful as a cheap
// cross-check next to the embedding scores; shares the matrix shape contract
// with ScoreHeaders.
func LexicalMatrix(headers, canonicalFields []string) [][]float64 {
	normFields := make([]string, len(canonicalFields))
	for j, f := range canonicalFields {
		normFields[j] = utils.NormalizeHeader(f)
	}

	matrix := make([][]float64, len(headers))
	for i, h := range headers {
		row := make([]float64, len(normFields))
		normHeader := utils.NormalizeHeader(h)
		for j, f := range normFields {
			row[j] = lexicalSimilarity(normHeader, f)
		}
		matrix[i] = row
	}
	return matrix
}

func lexicalSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(damerauLevenshtein(a, b))/float64(longest)
}

// damerauLevenshtein counts insertions, deletions, substitutions, and
// transpositions of adjacent characters as single edits.
func damerauLevenshtein(a, b string) int {
	if a == b {
		return 0
	}
	runesA := []rune(a)
	runesB := []rune(b)
	lenA := len(runesA)
	lenB := len(runesB)
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	d := make([][]int, lenA+1)
	for i := range d {
		d[i] = make([]int, lenB+1)
		d[i][0] = i
	}
	for j := 0; j <= lenB; j++ {
		d[0][j] = j
	}

	for i := 1; i <= lenA; i++ {
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			best := d[i-1][j] + 1 // deletion
			if v := d[i][j-1] + 1; v < best { // insertion
				best = v
			}
			if v := d[i-1][j-1] + cost; v < best { // substitution
				best = v
			}
			if i > 1 && j > 1 && runesA[i-1] == runesB[j-2] && runesA[i-2] == runesB[j-1] {
				if v := d[i-2][j-2] + cost; v < best { // transposition
					best = v
				}
			}
			d[i][j] = best
		}
	}
	return d[lenA][lenB]
}
