package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bounce/internal/collide"
	"github.com/san-kum/bounce/internal/config"
	"github.com/san-kum/bounce/internal/export"
	"github.com/san-kum/bounce/internal/logging"
	"github.com/san-kum/bounce/internal/metrics"
	"github.com/san-kum/bounce/internal/optim"
	"github.com/san-kum/bounce/internal/scene"
	"github.com/san-kum/bounce/internal/sim"
	"github.com/san-kum/bounce/internal/storage"
	"github.com/san-kum/bounce/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	configFile  string
	preset      string
	dt          float64
	duration    float64
	seed        int64
	numBodies   int
	gravity     float64
	restitution float64
	iterations  int
	mode        string
	policy      string
	noSave      bool

	watch       bool
	numRuns     int
	outPath     string
	energy      bool
	sweepParams []string
	sweepMetric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "bounce",
		Short:         "2d circular rigid-body collision simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel, os.Stderr)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bounce", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its energy series",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload physics settings when --config changes")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the scene over consecutive seeds in parallel",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	sceneFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 4, "number of seeds")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid-search settings that minimise a run metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "max_penetration", "metric to minimise")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's energy",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run's final frame as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().BoolVar(&energy, "energy", false, "render the energy chart instead of the final frame")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scene presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, ensembleCmd, sweepCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", def.Dt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", def.Duration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().IntVar(&numBodies, "bodies", def.Bodies.Count, "number of random bodies")
	cmd.Flags().Float64Var(&gravity, "gravity", def.Gravity, "downward acceleration")
	cmd.Flags().Float64Var(&restitution, "restitution", def.Restitution, "coefficient of restitution between bodies")
	cmd.Flags().IntVar(&iterations, "iterations", def.Iterations, "stabilization passes per frame")
	cmd.Flags().StringVar(&mode, "mode", def.Mode, "pair resolution mode (sequential, deferred)")
	cmd.Flags().StringVar(&policy, "policy", def.Policy, "contact root policy (nearest, most_recent)")
}

// loadConfig layers the preset, the config file and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("bodies") {
		cfg.Bodies.Count = numBodies
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("restitution") {
		cfg.Restitution = restitution
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("policy") {
		cfg.Policy = policy
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func sceneName(cfg *config.Config) string {
	if preset != "" {
		return preset
	}
	return cfg.Scene
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Seed = scene.ResolveSeed(cfg.Seed)

	world, err := scene.Build(cfg)
	if err != nil {
		return err
	}
	opts, err := cfg.ResolverOptions()
	if err != nil {
		return err
	}
	resolver, err := collide.NewResolver(opts)
	if err != nil {
		return err
	}

	s := sim.New(resolver, logger)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running simulation", "scene", sceneName(cfg), "bodies", len(world.Bodies), "seed", cfg.Seed, "mode", opts.Mode)
	start := time.Now()

	result, err := s.Run(ctx, world, cfg.SimConfig())
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted", "err", err, "frames", result.Frames)
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("collisions: %d\n", result.Collisions)
	fmt.Printf("wall hits: %d\n", result.WallHits)
	fmt.Printf("energy drift: %.6f\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Scene:       sceneName(cfg),
		Seed:        cfg.Seed,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Gravity:     cfg.Gravity,
		Restitution: cfg.Restitution,
		Mode:        opts.Mode.String(),
		Policy:      opts.Policy.String(),
		Iterations:  opts.Iterations,
		Width:       cfg.Bounds.Width,
		Height:      cfg.Bounds.Height,
	}, result, world)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Seed = scene.ResolveSeed(cfg.Seed)

	world, err := scene.Build(cfg)
	if err != nil {
		return err
	}
	opts, err := cfg.ResolverOptions()
	if err != nil {
		return err
	}
	model, err := viz.NewModel(world, opts, sceneName(cfg))
	if err != nil {
		return err
	}

	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch needs --config")
		}
		w, err := config.Watch(configFile)
		if err != nil {
			return err
		}
		defer w.Close()
		logger.Debug("watching config", "path", w.Path())
		model = model.WithWatcher(w)
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.ResolverOptions()
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}
	first := scene.ResolveSeed(cfg.Seed)

	factory := func(seed int64) (*sim.World, error) {
		c := *cfg
		c.Seed = seed
		return scene.Build(&c)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running ensemble", "runs", numRuns, "first_seed", first)
	results, err := sim.NewEnsemble(factory, opts, numRuns, first).Run(ctx, cfg.SimConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tCOLLISIONS\tWALL HITS\tDRIFT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.6f\n", first+int64(i), r.Frames, r.Collisions, r.WallHits, r.EnergyDrift)
	}
	return w.Flush()
}

func parseSweepParams(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base.Seed = scene.ResolveSeed(base.Seed)

	names, ranges, err := parseSweepParams(sweepParams)
	if err != nil {
		return err
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	eval := func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := *base
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return 0, err
			}
		}
		if err := cfg.Validate(); err != nil {
			return 0, err
		}
		world, err := scene.Build(&cfg)
		if err != nil {
			return 0, err
		}
		opts, err := cfg.ResolverOptions()
		if err != nil {
			return 0, err
		}
		resolver, err := collide.NewResolver(opts)
		if err != nil {
			return 0, err
		}
		s := sim.New(resolver, logger)
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, world, cfg.SimConfig())
		if err != nil {
			return 0, err
		}
		v, ok := result.Metrics[sweepMetric]
		if !ok {
			return 0, fmt.Errorf("unknown metric %q", sweepMetric)
		}
		logger.Debug("trial done", "params", params, sweepMetric, v)
		return v, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("sweeping", "trials", grid.Size(), "metric", sweepMetric)
	trials, err := grid.Search(ctx, eval)
	if err != nil && len(trials) == 0 {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(sweepMetric))
	for _, t := range trials {
		row := make([]string, 0, len(names)+1)
		for _, name := range names {
			row = append(row, strconv.FormatFloat(t.Params[name], 'g', -1, 64))
		}
		if t.Err != nil {
			row = append(row, "error: "+t.Err.Error())
		} else {
			row = append(row, strconv.FormatFloat(t.Value, 'g', 6, 64))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tBODIES\tDURATION\tE\tMODE\tCOLLISIONS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.2f\t%s\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Duration,
			run.Restitution,
			run.Mode,
			run.Collisions,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir, logger)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	kinetic := make([]float64, len(samples))
	total := make([]float64, len(samples))
	collisions := make([]float64, len(samples))
	for i, s := range samples {
		kinetic[i], total[i], collisions[i] = s.Kinetic, s.Total, float64(s.Collisions)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s (%d bodies, e=%.2f, %s)\n", meta.Scene, meta.Bodies, meta.Restitution, meta.Mode)
	fmt.Printf("samples: %d\n\n", len(samples))

	fmt.Println(asciigraph.PlotMany(
		[][]float64{kinetic, total},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption("kinetic (red) / total (blue) energy"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(collisions,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("collisions per frame"),
	))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	if err := export.RunJSON(outPath, st, args[0]); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Printf("exported to %s\n", outPath)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir, logger)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	if energy {
		samples, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		svg = export.EnergyToSVG(samples, 800, 300)
		if svg == "" {
			return fmt.Errorf("no data to plot")
		}
	} else {
		frame, err := st.LoadFrame(runID)
		if err != nil {
			return err
		}
		svg = export.FrameToSVG(frame, meta.Width, meta.Height)
	}

	path := outPath
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tGRAVITY\tE\tMODE")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		n := len(cfg.BodyList)
		if cfg.Scene != scene.Explicit {
			n += cfg.Bodies.Count
		}
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.2f\t%s\n", name, n, cfg.Gravity, cfg.Restitution, cfg.Mode)
	}
	return w.Flush()
}
