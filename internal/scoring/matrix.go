// Package scoring computes similarity matrices between column headers and
// canonical schema fields.
package scoring

import "math"

// PairwiseCosine returns the dense matrix of cosine similarities between
// queries (rows) and references (columns). The computation is exhaustive,
// O(Q*R*D); both sides are expected to hold tens of vectors per request.
//
// All vectors must share one dimensionality; ragged input returns a
// *DimensionMismatchError. A zero-magnitude vector has no defined cosine
// against anything, so such pairs score 0. Inputs are not mutated and the
// returned matrix is freshly allocated: rows == len(queries), every row has
// len(references) columns, and empty sides yield empty dimensions rather
// than an error.
func PairwiseCosine(queries, references [][]float32) ([][]float64, error) {
	dims := -1
	for _, group := range [2][][]float32{queries, references} {
		for _, v := range group {
			if dims == -1 {
				dims = len(v)
			} else if len(v) != dims {
				return nil, &DimensionMismatchError{Want: dims, Got: len(v)}
			}
		}
	}

	refNorms := make([]float64, len(references))
	for j, r := range references {
		refNorms[j] = l2Norm(r)
	}

	matrix := make([][]float64, len(queries))
	for i, q := range queries {
		row := make([]float64, len(references))
		qNorm := l2Norm(q)
		if qNorm > 0 {
			for j, r := range references {
				if refNorms[j] > 0 {
					row[j] = dot(q, r) / (qNorm * refNorms[j])
				}
			}
		}
		matrix[i] = row
	}
	return matrix, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func l2Norm(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
