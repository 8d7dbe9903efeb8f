package viz

import (
	"math"
	"strings"

	"github.com/san-kum/dualsim/internal/analysis"
)

// Braille cells are 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of Braille characters addressed in sub-pixels. A canvas
// of Width x Height cells has (2*Width) x (4*Height) pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// CurveToBraille plots ys against their index on a w x h cell canvas,
// joining consecutive finite points. The y range is fitted to the finite
// values; gaps are left where values are NaN or infinite.
func CurveToBraille(ys []float64, w, h int) string {
	c := NewCanvas(w, h)
	lo, hi, ok := finiteRange(ys)
	if !ok || len(ys) == 0 {
		return c.String()
	}
	if hi == lo {
		lo, hi = lo-1, hi+1
	}

	pw, ph := 2*w, 4*h
	px := func(i int) int {
		if len(ys) == 1 {
			return 0
		}
		return int(math.Round(float64(i) * float64(pw-1) / float64(len(ys)-1)))
	}
	py := func(v float64) int {
		return int(math.Round((hi - v) / (hi - lo) * float64(ph-1)))
	}

	prev := -1
	for i, v := range ys {
		if !analysis.IsFinite(v) {
			prev = -1
			continue
		}
		if prev < 0 {
			c.Set(px(i), py(v))
		} else {
			c.DrawLine(px(prev), py(ys[prev]), px(i), py(v))
		}
		prev = i
	}
	return c.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func finiteRange(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
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
	return lo, hi, ok
}
