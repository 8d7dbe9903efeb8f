package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/dualsim/internal/analysis"
	"github.com/san-kum/dualsim/internal/config"
	"github.com/san-kum/dualsim/internal/dual"
	"github.com/san-kum/dualsim/internal/export"
	"github.com/san-kum/dualsim/internal/expr"
	"github.com/san-kum/dualsim/internal/newton"
	"github.com/san-kum/dualsim/internal/optim"
	"github.com/san-kum/dualsim/internal/storage"
	"github.com/san-kum/dualsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	variable string
	from     float64
	to       float64
	samples  int
	at       float64
	step     float64
	fdStep   float64
	label    string

	x0         float64
	tol        float64
	maxIter    int
	recordPath bool

	seeds int

	width   int
	height  int
	scale   float64
	colored bool
	svgFile string
)

// main registers the dualsim commands and executes the root command. With no
// subcommand it opens the explorer on the configured expression.
func main() {
	rootCmd := &cobra.Command{
		Use:          "dualsim",
		Short:        "dual-number differentiation lab",
		Long:         exprHelp(),
		SilenceUsage: true,
		RunE:         runExplore,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dualsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&variable, "var", config.DefaultVariable, "variable name")

	evalCmd := &cobra.Command{
		Use:   "eval [expr]",
		Short: "evaluate f and f' at a point",
		Long:  exprHelp(),
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEval,
	}
	evalCmd.Flags().Float64Var(&at, "at", config.DefaultAt, "evaluation point")

	sampleCmd := &cobra.Command{
		Use:   "sample [expr]",
		Short: "sample f and f' over a range and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSample,
	}
	addRangeFlags(sampleCmd)
	sampleCmd.Flags().StringVar(&label, "label", "", "run label (defaults to the expression)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the plot to an svg file")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write run samples as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write run metadata and samples as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [expr]",
		Short: "compare dual derivatives with central differences",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompare,
	}
	addRangeFlags(compareCmd)
	compareCmd.Flags().Float64Var(&fdStep, "h", analysis.DefaultStep, "finite difference step")

	newtonCmd := &cobra.Command{
		Use:   "newton [expr]",
		Short: "find a root with Newton's method",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runNewton,
	}
	addSolverFlags(newtonCmd)
	newtonCmd.Flags().Float64Var(&x0, "x0", 1.0, "initial guess")
	newtonCmd.Flags().BoolVar(&recordPath, "path", false, "print every iterate")

	rootsCmd := &cobra.Command{
		Use:   "roots [expr]",
		Short: "find every real root in a range by multi-start Newton",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRoots,
	}
	addRangeFlags(rootsCmd)
	addSolverFlags(rootsCmd)
	rootsCmd.Flags().IntVar(&seeds, "seeds", 64, "number of starting points")

	basinCmd := &cobra.Command{
		Use:   "basin",
		Short: "draw Newton basins of a complex polynomial",
		Args:  cobra.NoArgs,
		RunE:  runBasin,
	}
	addSolverFlags(basinCmd)
	basinCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "grid columns")
	basinCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "grid rows")
	basinCmd.Flags().Float64Var(&scale, "scale", config.DefaultScale, "half-width of the window")
	basinCmd.Flags().BoolVar(&colored, "color", true, "colour cells by root")
	basinCmd.Flags().StringVar(&svgFile, "svg", "", "also write the map to an svg file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	exploreCmd := &cobra.Command{
		Use:   "explore [expr]",
		Short: "step through f interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExplore,
	}
	exploreCmd.Flags().Float64Var(&at, "at", config.DefaultAt, "starting point")
	exploreCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "initial step")

	rootCmd.AddCommand(evalCmd, sampleCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd,
		compareCmd, newtonCmd, rootsCmd, basinCmd, presetsCmd, exploreCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// exprHelp describes the expression syntax shared by every command that
// takes [expr].
func exprHelp() string {
	return "dual-number differentiation lab\n\n" +
		"Expressions use Go syntax over one variable (x unless --var is set),\n" +
		"the constants pi and e, the operators + - * / and the functions:\n  " +
		strings.Join(expr.Functions(), " ")
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&from, "from", config.DefaultFrom, "range start")
	cmd.Flags().Float64Var(&to, "to", config.DefaultTo, "range end")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of samples")
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&tol, "tol", config.DefaultTol, "convergence tolerance")
	cmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIter, "iteration limit")
}

// loadConfig layers defaults, then --preset, then --config, then any flag
// set on the command line, then the expression argument.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("var") {
		cfg.Variable = variable
	}
	if flags.Changed("from") {
		cfg.From = from
	}
	if flags.Changed("to") {
		cfg.To = to
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("at") {
		cfg.At = at
	}
	if flags.Changed("step") {
		cfg.Step = step
	}
	if flags.Changed("x0") {
		cfg.Newton.X0 = x0
	}
	if flags.Changed("tol") {
		cfg.Newton.Tol = tol
		cfg.Basin.Tol = tol
	}
	if flags.Changed("max-iter") {
		cfg.Newton.MaxIter = maxIter
		cfg.Basin.MaxIter = maxIter
	}
	if flags.Changed("width") {
		cfg.Basin.Width = width
	}
	if flags.Changed("height") {
		cfg.Basin.Height = height
	}
	if flags.Changed("scale") {
		cfg.Basin.Scale = scale
	}

	if len(args) > 0 {
		cfg.Expr = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func compile(cmd *cobra.Command, args []string) (*config.Config, *expr.Program, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	prog, err := expr.Compile(cfg.Expr, expr.WithVariable(cfg.Variable))
	if err != nil {
		return nil, nil, err
	}
	return cfg, prog, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, prog, err := compile(cmd, args)
	if err != nil {
		return err
	}

	z := prog.Eval(dual.Variable(cfg.At))
	fmt.Println(viz.Title.Render(prog.String()))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%g\n", prog.Variable(), cfg.At)
	fmt.Fprintf(w, "dual\t%v\n", z)
	fmt.Fprintf(w, "f(%s)\t%g\n", prog.Variable(), z.Real())
	fmt.Fprintf(w, "f'(%s)\t%g\n", prog.Variable(), z.Dual())
	return w.Flush()
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, prog, err := compile(cmd, args)
	if err != nil {
		return err
	}

	series, err := analysis.Sample(prog.Func(), cfg.From, cfg.To, cfg.Samples)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runLabel := label
	if runLabel == "" {
		runLabel = cfg.Expr
	}
	metrics := series.Metrics()
	runID, err := st.Save(storage.RunMetadata{
		Label:    runLabel,
		Expr:     cfg.Expr,
		Variable: cfg.Variable,
		From:     cfg.From,
		To:       cfg.To,
		Metrics:  metrics,
	}, series)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("%s on [%g, %g], %d samples\n", prog, cfg.From, cfg.To, series.Len())
	printMetrics(metrics)
	fmt.Println()
	fmt.Print(viz.Preview(series, 60, 8))

	if roots := analysis.CriticalPoints(series); len(roots) > 0 {
		fmt.Printf("critical points: %v\n", roots)
	}
	return nil
}

func printMetrics(metrics map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, key := range []string{"samples", "critical_points", "min", "max", "max_abs_deriv"} {
		if v, ok := metrics[key]; ok {
			fmt.Fprintf(w, "  %s\t%g\n", key, v)
		}
	}
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEXPR\tTIME\tRANGE\tSAMPLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g]\t%d\n",
			run.ID,
			run.Expr,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.From,
			run.To,
			run.Samples,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if series.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("f(%s) = %s\n", meta.Variable, meta.Expr)
	fmt.Printf("samples: %d\n\n", series.Len())

	fmt.Println(viz.PlotSeries(series, false, viz.PlotOptions{Height: 10, Width: 80, Caption: "f"}))
	fmt.Println()
	fmt.Println(viz.PlotSeries(series, true, viz.PlotOptions{Height: 10, Width: 80, Caption: "f'"}))

	if svgFile != "" {
		return writeSVG(svgFile, export.SeriesToSVG(series, 800, 400))
	}
	return nil
}

func writeSVG(path, svg string) error {
	if svg == "" {
		return fmt.Errorf("nothing to draw")
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	series, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if series.Len() == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"x", "value", "derivative"}); err != nil {
		return err
	}
	for i := range series.X {
		row := []string{
			strconv.FormatFloat(series.X[i], 'f', 6, 64),
			strconv.FormatFloat(series.Value[i], 'f', 6, 64),
			strconv.FormatFloat(series.Deriv[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(os.Stdout, args[0])
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, prog, err := compile(cmd, args)
	if err != nil {
		return err
	}

	h := fdStep
	if h <= 0 {
		h = analysis.DefaultStep
	}

	series, err := analysis.Sample(prog.Func(), cfg.From, cfg.To, cfg.Samples)
	if err != nil {
		return err
	}
	cmp := analysis.CompareFiniteDifference(prog.Func(), series.X, h)

	fmt.Printf("comparing dual derivative with central difference for %s (h=%g)\n\n", prog, h)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "points\t%d\n", cmp.Points)
	fmt.Fprintf(w, "max_abs_error\t%.3e\n", cmp.MaxAbsError)
	fmt.Fprintf(w, "mean_abs_error\t%.3e\n", cmp.MeanAbsError)
	fmt.Fprintf(w, "worst_%s\t%g\n", prog.Variable(), cmp.WorstX)
	if err := w.Flush(); err != nil {
		return err
	}

	if cmp.Points == 0 {
		return fmt.Errorf("no finite derivatives to compare")
	}

	diff := make([]float64, len(cmp.Exact))
	for i := range diff {
		diff[i] = math.Abs(cmp.Exact[i] - cmp.Approx[i])
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(viz.Finite(diff),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("|dual - central difference|"),
	))
	return nil
}

func runNewton(cmd *cobra.Command, args []string) error {
	cfg, prog, err := compile(cmd, args)
	if err != nil {
		return err
	}

	opts := newton.Options{
		Tol:        cfg.Newton.Tol,
		MaxIter:    cfg.Newton.MaxIter,
		RecordPath: recordPath,
	}
	res, err := newton.Solve(cmd.Context(), prog.Func(), cfg.Newton.X0, opts)

	if recordPath {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ITER\t%s\tf(%s)\n", prog.Variable(), prog.Variable())
		for i, x := range res.Path {
			fx, _ := prog.At(x)
			fmt.Fprintf(w, "%d\t%.12g\t%.3e\n", i, x, fx)
		}
		w.Flush()
		fmt.Println()
	}

	if err != nil {
		var iterErr *newton.IterationError[float64]
		if errors.As(err, &iterErr) {
			fmt.Printf("stopped at %s=%.12g after %d iterations\n", prog.Variable(), iterErr.X, iterErr.Iter)
		}
		return err
	}

	fmt.Printf("root: %.12g\n", res.Root)
	fmt.Printf("iterations: %d\n", res.Iterations)
	fmt.Printf("residual: %.3e\n", res.Residual)
	return nil
}

func runRoots(cmd *cobra.Command, args []string) error {
	cfg, prog, err := compile(cmd, args)
	if err != nil {
		return err
	}

	g := optim.NewGridSearch(cfg.From, cfg.To, seeds)
	g.Newton = newton.Options{Tol: cfg.Newton.Tol, MaxIter: cfg.Newton.MaxIter}
	roots, err := g.Search(cmd.Context(), prog.Func())
	if err != nil {
		return err
	}

	if len(roots) == 0 {
		fmt.Printf("no roots of %s in [%g, %g]\n", prog, cfg.From, cfg.To)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ROOT\tf'(ROOT)\tSEED\tHITS\tITERS\n")
	for _, r := range roots {
		_, d := prog.At(r.X)
		fmt.Fprintf(w, "%.12g\t%.6g\t%g\t%d\t%d\n", r.X, d, r.Seed, r.Hits, r.Iters)
	}
	return w.Flush()
}

func runBasin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	bc := newton.BasinConfig{
		Roots:   cfg.Basin.ComplexRoots(),
		Width:   cfg.Basin.Width,
		Height:  cfg.Basin.Height,
		Center:  cfg.Basin.ComplexCenter(),
		Scale:   cfg.Basin.Scale,
		Tol:     cfg.Basin.Tol,
		MaxIter: cfg.Basin.MaxIter,
	}
	m, err := newton.Basin(cmd.Context(), bc)
	if err != nil {
		return err
	}

	fmt.Print(viz.BasinToASCII(m, colored))
	fmt.Println()
	fmt.Print(viz.BasinLegend(m, colored))

	if svgFile != "" {
		return writeSVG(svgFile, export.BasinToSVG(m, 8))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEXPR\tRANGE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t[%g, %g]\n", name, p.Expr, p.From, p.To)
	}
	return w.Flush()
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, prog, err := compile(cmd, args)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewExplorer(prog, cfg.At, cfg.Step), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}
