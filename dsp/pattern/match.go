package pattern

import "math"

// Match is the ephemeral result of scoring one window against one stored
// pattern. Template and Confidence reference the matched pattern's state at
// query time; Template aliases store memory and is only valid until the next
// store mutation.
type Match struct {
	Key         Key
	Correlation float64
	Template    []float64
	Confidence  float64
}

// FindMatches scores window against every stored pattern of equal template
// length and returns all patterns whose Pearson correlation strictly exceeds
// threshold. Degenerate inputs (zero variance on either side) never match.
// The result order follows ascending key order; callers must not rely on it.
func (s *Store) FindMatches(window []float64, threshold float64) []Match {
	var matches []Match

	for _, e := range s.entries {
		if len(e.pat.Template) != len(window) {
			continue
		}

		r, ok := Pearson(window, e.pat.Template)
		if !ok || r <= threshold {
			continue
		}

		matches = append(matches, Match{
			Key:         e.key,
			Correlation: r,
			Template:    e.pat.Template,
			Confidence:  e.pat.Confidence,
		})
	}

	return matches
}

// Pearson returns the Pearson correlation coefficient between a and b.
// The second return value is false when the coefficient is undefined:
// mismatched or empty inputs, or zero variance on either side.
func Pearson(a, b []float64) (float64, bool) {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0, false
	}

	var meanA, meanB float64
	for i := 0; i < n; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0, false
	}

	return cov / math.Sqrt(varA*varB), true
}
