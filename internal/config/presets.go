package config

import "sort"

var Presets = map[string]*Config{
	"quadratic": {
		Expr: "x*x + 3*x + 2", From: -5, To: 5, At: 5,
		Newton: NewtonConfig{X0: 0},
	},
	"cubic": {
		Expr: "x*x*x - 2*x + 2", From: -3, To: 3, At: 1,
		Newton: NewtonConfig{X0: -2},
	},
	"fike": {
		Expr: "exp(x) / sqrt(pow(sin(x), 3) + pow(cos(x), 3))", From: 0, To: 1.5, At: 1.5,
		Newton: NewtonConfig{X0: 1},
	},
	"gaussian": {
		Expr: "exp(-x*x / 2)", From: -4, To: 4, At: 1,
		Newton: NewtonConfig{X0: 0.5},
	},
	"rational": {
		Expr: "(x*x - 1) / (x*x + 1)", From: -4, To: 4, At: 2,
		Newton: NewtonConfig{X0: 0.5},
	},
	"five_roots": {
		Basin: BasinConfig{
			Roots: [][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}},
			Width: 80, Height: 40, Scale: 2,
		},
	},
	"cube_unity": {
		Basin: BasinConfig{
			Roots: [][2]float64{{1, 0}, {-0.5, 0.8660254037844386}, {-0.5, -0.8660254037844386}},
			Width: 80, Height: 40, Scale: 1.5,
		},
	},
}

// GetPreset returns DefaultConfig overlaid with the named preset, or nil if
// there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Apply(p)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies every non-zero field of o onto c.
func (c *Config) Apply(o *Config) {
	if o.Expr != "" {
		c.Expr = o.Expr
	}
	if o.Variable != "" {
		c.Variable = o.Variable
	}
	if o.From != 0 || o.To != 0 {
		c.From, c.To = o.From, o.To
	}
	if o.Samples != 0 {
		c.Samples = o.Samples
	}
	if o.At != 0 {
		c.At = o.At
	}
	if o.Step != 0 {
		c.Step = o.Step
	}
	if o.Newton.X0 != 0 || o.Expr != "" {
		c.Newton.X0 = o.Newton.X0
	}
	if o.Newton.Tol != 0 {
		c.Newton.Tol = o.Newton.Tol
	}
	if o.Newton.MaxIter != 0 {
		c.Newton.MaxIter = o.Newton.MaxIter
	}
	if len(o.Basin.Roots) > 0 {
		c.Basin.Roots = append([][2]float64(nil), o.Basin.Roots...)
	}
	if o.Basin.Width != 0 {
		c.Basin.Width = o.Basin.Width
	}
	if o.Basin.Height != 0 {
		c.Basin.Height = o.Basin.Height
	}
	if o.Basin.Scale != 0 {
		c.Basin.Scale = o.Basin.Scale
	}
	if o.Basin.Center != [2]float64{} {
		c.Basin.Center = o.Basin.Center
	}
	if o.Basin.Tol != 0 {
		c.Basin.Tol = o.Basin.Tol
	}
	if o.Basin.MaxIter != 0 {
		c.Basin.MaxIter = o.Basin.MaxIter
	}
}
