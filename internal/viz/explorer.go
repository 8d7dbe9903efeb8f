package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/dualsim/internal/analysis"
	"github.com/san-kum/dualsim/internal/dual"
	"github.com/san-kum/dualsim/internal/expr"
)

const (
	explorerSamples = 81
	explorerSpan    = 20 // steps either side of x
	minStep         = 1e-6
	maxStep         = 1e3
)

// Explorer is a Bubble Tea model that evaluates a compiled function at a
// movable point and charts it over a window around that point.
type Explorer struct {
	prog      *expr.Program
	start     float64
	x         float64
	step      float64
	showDeriv bool
	width     int
	height    int
}

func NewExplorer(prog *expr.Program, x, step float64) Explorer {
	if step <= 0 {
		step = 0.1
	}
	return Explorer{prog: prog, start: x, x: x, step: step, width: 80, height: 24}
}

func (m Explorer) X() float64    { return m.x }
func (m Explorer) Step() float64 { return m.step }

func (m Explorer) Init() tea.Cmd { return nil }

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.x -= m.step
		case "right", "l":
			m.x += m.step
		case "+", "=":
			m.step = min(m.step*2, maxStep)
		case "-", "_":
			m.step = max(m.step/2, minStep)
		case "d":
			m.showDeriv = !m.showDeriv
		case "r":
			m.x = m.start
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Explorer) View() string {
	var b strings.Builder

	b.WriteString(Title.Render(m.prog.String()))
	b.WriteString("\n\n")

	z := m.prog.Eval(dual.Variable(m.x))
	name := m.prog.Variable()
	b.WriteString(Metric(name, m.x) + "   " + Metric("step", m.step) + "\n")
	b.WriteString(Metric("f("+name+")", z.Real()) + "   " + Metric("f'("+name+")", z.Dual()) + "\n")
	b.WriteString(MetricLabel.Render("dual:") + " " + z.String() + "\n\n")

	span := float64(explorerSpan) * m.step
	series, err := analysis.Sample(m.prog.Func(), m.x-span, m.x+span, explorerSamples)
	if err != nil {
		b.WriteString(ErrorText.Render(err.Error()) + "\n")
	} else {
		caption := fmt.Sprintf("f on [%.4g, %.4g]", m.x-span, m.x+span)
		if m.showDeriv {
			caption = fmt.Sprintf("f' on [%.4g, %.4g]", m.x-span, m.x+span)
		}
		chartWidth := max(m.width-12, 20)
		chart := PlotSeries(series, m.showDeriv, PlotOptions{Height: 10, Width: chartWidth, Caption: caption})
		b.WriteString(Panel.Render(chart) + "\n")
		b.WriteString(MetricLabel.Render("f' ") + Sparkline(series.Deriv, chartWidth) + "\n")
	}

	b.WriteString(KeyHint.Render("←/→ move  +/- step  d toggle f'  r reset  q quit"))
	return b.String()
}
