// Package viz renders dualsim results in the terminal.
//
//   - [BasinToASCII]: Newton basin maps, one glyph or colour per root
//   - [Canvas]: Braille pixel canvas used by [CurveToBraille]
//   - [PlotSeries]: asciigraph line charts of f and f'
//   - [Explorer]: a Bubble Tea model for stepping x and watching f(x), f'(x)
//
// # Key Bindings
//
//	←/→ or h/l - Move x by one step
//	+/-        - Double or halve the step
//	d          - Toggle plotting f' instead of f
//	r          - Reset x
//	q          - Quit
package viz
