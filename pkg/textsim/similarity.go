package textsim

import (
	"errors"
	"math"
)

// cosineEpsilon keeps the denominator non-zero for zero vectors.
const cosineEpsilon = 1e-9

var ErrDimensionMismatch = errors.New("vector dimensions do not match")

// Dice returns the Dice coefficient 2|A∩B|/(|A|+|B|).
// Two empty sets are identical; one empty set shares nothing.
func Dice(a, b TokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	return 2 * float64(a.Overlap(b)) / float64(len(a)+len(b))
}

// DiceText tokenizes both strings and scores them with Dice.
func DiceText(a, b string) float64 {
	return Dice(Tokenize(a), Tokenize(b))
}

// Cosine returns dot(a,b) / (|a|*|b| + 1e-9). The result is not clamped.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + cosineEpsilon), nil
}
