// Package analysis samples dual-number functions and checks their
// derivatives.
//
//   - [Sample]: value and derivative on an evenly spaced grid
//   - [CriticalPoints]: zeros of the derivative located from a [Series]
//   - [CompareFiniteDifference]: dual derivative against a central difference
//
// # Example
//
//	prog := expr.MustCompile("x*x - 2")
//	s, _ := analysis.Sample(prog.Func(), -2, 2, 101)
//	crit := analysis.CriticalPoints(s) // [0]
package analysis
