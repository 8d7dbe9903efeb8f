package analysis

import "math"

// CriticalPoints returns the x positions where the sampled derivative is
// zero or changes sign. Sign changes are located by linear interpolation
// between neighbouring samples.
func CriticalPoints(s *Series) []float64 {
	var out []float64
	for i := 0; i < s.Len(); i++ {
		d0 := s.Deriv[i]
		if math.IsNaN(d0) {
			continue
		}
		if d0 == 0 {
			out = append(out, s.X[i])
			continue
		}
		if i+1 >= s.Len() {
			break
		}
		d1 := s.Deriv[i+1]
		if math.IsNaN(d1) || d1 == 0 {
			continue
		}
		if (d0 < 0) != (d1 < 0) {
			x0, x1 := s.X[i], s.X[i+1]
			out = append(out, x0-d0*(x1-x0)/(d1-d0))
		}
	}
	return out
}
