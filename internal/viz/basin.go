package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/dualsim/internal/newton"
)

// BasinGlyphs mark cells by root index in uncoloured output.
const BasinGlyphs = "#@%*+=ox"

// Unresolved marks cells that did not converge to a root.
const Unresolved = '.'

// BasinToASCII draws one character per cell, top row first. With colored
// set, each cell is a full block in its root's colour and unresolved cells
// are blank.
func BasinToASCII(m *newton.BasinMap, colored bool) string {
	var styles []lipgloss.Style
	if colored {
		styles = make([]lipgloss.Style, len(m.Roots))
		for i := range styles {
			styles[i] = lipgloss.NewStyle().Foreground(RootColor(i))
		}
	}

	var b strings.Builder
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			idx, _ := m.At(col, row)
			switch {
			case idx < 0 && colored:
				b.WriteByte(' ')
			case idx < 0:
				b.WriteByte(Unresolved)
			case colored:
				b.WriteString(styles[idx].Render("█"))
			default:
				b.WriteByte(BasinGlyphs[idx%len(BasinGlyphs)])
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// BasinLegend lists each root with its glyph or colour swatch.
func BasinLegend(m *newton.BasinMap, colored bool) string {
	counts, unresolved := m.Counts()
	var b strings.Builder
	for i, r := range m.Roots {
		mark := string(BasinGlyphs[i%len(BasinGlyphs)])
		if colored {
			mark = lipgloss.NewStyle().Foreground(RootColor(i)).Render("█")
		}
		b.WriteString(mark + " " + formatRoot(r) + " " + Subtle.Render(itoa(counts[i])) + "\n")
	}
	b.WriteString(string(Unresolved) + " unresolved " + Subtle.Render(itoa(unresolved)) + "\n")
	return b.String()
}
