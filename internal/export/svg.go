package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/dualsim/internal/analysis"
	"github.com/san-kum/dualsim/internal/newton"
	"github.com/san-kum/dualsim/internal/viz"
)

const (
	background  = "#0a0a0a"
	valueStroke = "#00ccff"
	derivStroke = "#ffcc00"
)

// BasinToSVG draws one square of side cell per basin cell, filled with its
// root's colour. Unresolved cells are left as background.
func BasinToSVG(m *newton.BasinMap, cell float64) string {
	if m == nil || cell <= 0 {
		return ""
	}

	width := float64(m.Width) * cell
	height := float64(m.Height) * cell

	var sb strings.Builder
	writeHeader(&sb, width, height)

	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			idx, _ := m.At(col, row)
			if idx < 0 {
				continue
			}
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				float64(col)*cell, float64(row)*cell, cell, cell, string(viz.RootColor(idx)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots f and f' from a sampled series on shared axes. Each
// curve is broken wherever a sample is NaN or infinite.
func SeriesToSVG(s *analysis.Series, width, height int) string {
	if s == nil || s.Len() < 2 {
		return ""
	}

	minX, maxX := s.X[0], s.X[len(s.X)-1]
	minY, maxY, ok := bounds(s.Value, s.Deriv)
	if !ok {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	project := func(x, y float64) (float64, float64) {
		px := (x - minX) / rangeX * float64(width)
		py := float64(height) - (y-minY)/rangeY*float64(height)
		return px, py
	}

	var sb strings.Builder
	writeHeader(&sb, float64(width), float64(height))

	if minY < 0 && maxY > 0 {
		_, y0 := project(minX, 0)
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-width="1"/>`+"\n", y0, width, y0)
	}

	for _, curve := range []struct {
		ys     []float64
		stroke string
	}{
		{s.Value, valueStroke},
		{s.Deriv, derivStroke},
	} {
		d := pathData(s.X, curve.ys, project)
		if d == "" {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>`+"\n", curve.stroke, d)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeHeader(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func pathData(xs, ys []float64, project func(x, y float64) (float64, float64)) string {
	var sb strings.Builder
	pen := false
	for i := range xs {
		if !analysis.IsFinite(ys[i]) {
			pen = false
			continue
		}
		px, py := project(xs[i], ys[i])
		if !pen {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "M%.1f,%.1f", px, py)
			pen = true
			continue
		}
		fmt.Fprintf(&sb, " L%.1f,%.1f", px, py)
	}
	return sb.String()
}

func bounds(series ...[]float64) (lo, hi float64, ok bool) {
	for _, ys := range series {
		for _, v := range ys {
			if !analysis.IsFinite(v) {
				continue
			}
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi, ok
}
