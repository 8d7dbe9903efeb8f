package viz

import (
	"context"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/dualsim/internal/analysis"
	"github.com/san-kum/dualsim/internal/expr"
	"github.com/san-kum/dualsim/internal/newton"
)

func TestBasinToASCII(t *testing.T) {
	m := &newton.BasinMap{
		Width:  3,
		Height: 2,
		Roots:  []complex128{1, -1},
		Index:  []int{0, 1, -1, 1, 0, 0},
		Iter:   make([]int, 6),
	}

	got := BasinToASCII(m, false)
	want := "#@.\n@##\n"
	if got != want {
		t.Errorf("BasinToASCII = %q, want %q", got, want)
	}

	colored := BasinToASCII(m, true)
	if lines := strings.Split(strings.TrimSuffix(colored, "\n"), "\n"); len(lines) != 2 {
		t.Errorf("expected 2 rows, got %d", len(lines))
	}
	if !strings.Contains(colored, "█") {
		t.Error("colored output has no blocks")
	}
}

func TestBasinToASCII_FromBasin(t *testing.T) {
	cfg := newton.DefaultBasinConfig()
	cfg.Width, cfg.Height = 16, 8
	m, err := newton.Basin(context.Background(), cfg)
	if err != nil {
		t.Fatalf("basin failed: %v", err)
	}
	out := BasinToASCII(m, false)
	if n := strings.Count(out, "\n"); n != 8 {
		t.Errorf("expected 8 rows, got %d", n)
	}
	legend := BasinLegend(m, false)
	if !strings.Contains(legend, "unresolved") {
		t.Errorf("legend missing unresolved line: %q", legend)
	}
}

func TestRootColor(t *testing.T) {
	if RootColor(0) != "#ffadad" {
		t.Errorf("RootColor(0) = %s", RootColor(0))
	}
	if RootColor(4) != "#adffad" {
		t.Errorf("RootColor(4) = %s", RootColor(4))
	}
	if RootColor(5) != RootColor(0) {
		t.Error("palette should cycle")
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(10, 10)

	if !c.IsSet(0, 0) || !c.IsSet(3, 3) {
		t.Error("expected pixels to be set")
	}
	if c.IsSet(1, 0) {
		t.Error("unexpected pixel set")
	}
	if got := c.String(); got != string([]rune{0x2801, 0x2880})+"\n" {
		t.Errorf("String = %q", got)
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("clear left pixel set")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 3)
	if !c.IsSet(0, 0) || !c.IsSet(7, 3) {
		t.Error("line endpoints not set")
	}
}

func TestCurveToBraille(t *testing.T) {
	ys := []float64{0, 1, math.Inf(1), 3, 4}
	out := CurveToBraille(ys, 5, 2)
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
	if strings.Trim(out, string(rune(brailleBlank))+"\n") == "" {
		t.Error("curve drew nothing")
	}

	empty := CurveToBraille([]float64{math.NaN()}, 3, 1)
	if empty != strings.Repeat(string(rune(brailleBlank)), 3)+"\n" {
		t.Errorf("expected blank canvas, got %q", empty)
	}
}

func TestPlot(t *testing.T) {
	if out := Plot([]float64{math.Inf(1), math.NaN()}, PlotOptions{}); !strings.Contains(out, "no finite samples") {
		t.Errorf("unexpected plot %q", out)
	}

	s, err := analysis.Sample(expr.MustCompile("x*x").Func(), -1, 1, 21)
	if err != nil {
		t.Fatal(err)
	}
	out := PlotSeries(s, true, PlotOptions{Height: 5, Width: 30, Caption: "f'"})
	if !strings.Contains(out, "f'") {
		t.Errorf("caption missing from %q", out)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("empty sparkline = %q", got)
	}
	if got := Sparkline([]float64{math.NaN()}, 3); got != "   " {
		t.Errorf("non-finite sparkline = %q", got)
	}
	out := Sparkline([]float64{1, 2, 3, 4}, 4)
	if !strings.Contains(out, "█") || !strings.Contains(out, "▁") {
		t.Errorf("sparkline missing extremes: %q", out)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestExplorerUpdate(t *testing.T) {
	var m tea.Model = NewExplorer(expr.MustCompile("x*x"), 1, 0.5)

	m, _ = m.Update(key("right"))
	if x := m.(Explorer).X(); x != 1.5 {
		t.Errorf("after right x = %v, want 1.5", x)
	}

	m, _ = m.Update(key("+"))
	if s := m.(Explorer).Step(); s != 1 {
		t.Errorf("after + step = %v, want 1", s)
	}

	m, _ = m.Update(key("left"))
	if x := m.(Explorer).X(); x != 0.5 {
		t.Errorf("after left x = %v, want 0.5", x)
	}

	m, _ = m.Update(key("-"))
	m, _ = m.Update(key("-"))
	if s := m.(Explorer).Step(); s != 0.25 {
		t.Errorf("after -- step = %v, want 0.25", s)
	}

	m, _ = m.Update(key("r"))
	if x := m.(Explorer).X(); x != 1 {
		t.Errorf("after reset x = %v, want 1", x)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestExplorerView(t *testing.T) {
	m := NewExplorer(expr.MustCompile("x*x + 3*x + 2"), 5, 0.1)
	view := m.View()
	for _, want := range []string{"f(x) = x*x + 3*x + 2", "42", "13", "(42,13)", "▁"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFinite(t *testing.T) {
	got := Finite([]float64{1, math.Inf(-1), 2})
	if got[0] != 1 || !math.IsNaN(got[1]) || got[2] != 2 {
		t.Errorf("Finite = %v", got)
	}
}

func TestPreview(t *testing.T) {
	s, err := analysis.Sample(expr.MustCompile("x*x").Func(), -1, 1, 41)
	if err != nil {
		t.Fatal(err)
	}
	out := Preview(s, 20, 3)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 3 curve rows and a sparkline, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[3], "f'") {
		t.Errorf("last line should be the derivative sparkline, got %q", lines[3])
	}
	if !strings.Contains(lines[3], "▁") {
		t.Errorf("sparkline missing its minimum: %q", lines[3])
	}
}
