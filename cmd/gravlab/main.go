package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/engine"
	"github.com/san-kum/gravlab/internal/export"
	"github.com/san-kum/gravlab/internal/metrics"
	"github.com/san-kum/gravlab/internal/preset"
	"github.com/san-kum/gravlab/internal/sim"
	"github.com/san-kum/gravlab/internal/storage"
	"github.com/san-kum/gravlab/internal/viz"
)

var (
	dataDir    string
	presetName string
	dt         float64
	duration   float64
	seed       int64
	fps        int
	workers    int
	configFile string
	svgOut     string
	svgSize    float64
)

// main registers commands and flags; with no subcommand the interactive
// viewer starts on the default preset.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gravlab",
		Short: "2D gravitational n-body laboratory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, args)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravlab", "data directory")

	addRunFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&presetName, "preset", config.DefaultPreset, "preset scenario")
		cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
		cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
		cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
		cmd.Flags().IntVar(&workers, "workers", 0, "parallel force workers (0 = serial)")
		cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	rootCmd.Flags().AddFlagSet(liveCmd.Flags())

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "headless run, saved to the data directory",
		RunE:  runHeadless,
	}
	addRunFlags(runCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range preset.Names() {
				fmt.Println(name)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render run trails to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "trails.svg", "output file")
	exportSVGCmd.Flags().Float64Var(&svgSize, "size", 800, "image size in pixels")

	rootCmd.AddCommand(liveCmd, runCmd, presetsCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig merges defaults, the optional config file, and flags the
// user actually set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("preset") {
		cfg.Preset = presetName
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = fps
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	eng := engine.New()
	if err := sim.Populate(eng, cfg); err != nil {
		return err
	}

	m := viz.NewModel(eng, cfg.Preset, cfg.Dt, cfg.FPS, cfg.Seed)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng := engine.New()
	eng.Workers = cfg.Workers
	if err := sim.Populate(eng, cfg); err != nil {
		return err
	}

	runner := sim.New(eng)
	runner.AddMetric(metrics.NewMomentumDrift())
	runner.AddMetric(metrics.NewEnergy())
	runner.AddMetric(metrics.NewBodyCount())

	fmt.Printf("running %s (dt=%.3f, duration=%.1f, seed=%d)...\n",
		cfg.Preset, cfg.Dt, cfg.Duration, cfg.Seed)

	result, err := runner.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	runID, err := st.Save(cfg.Preset, cfg.Dt, cfg.Duration, cfg.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d, merges: %d\n", result.StepsTaken, result.Merges)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tSTEPS\tMERGES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.3fs\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Merges,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\npreset: %s\nframes: %d\n\n", meta.ID, meta.Preset, len(frames))

	counts := make([]float64, len(frames))
	for i, f := range frames {
		counts[i] = float64(len(f.Bodies))
	}
	fmt.Println(asciigraph.Plot(counts,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("body count"),
	))
	fmt.Println()

	// Separation of the first two bodies, while both survive.
	sep := make([]float64, 0, len(frames))
	for _, f := range frames {
		if len(f.Bodies) < 2 {
			break
		}
		dx := f.Bodies[1].X - f.Bodies[0].X
		dy := f.Bodies[1].Y - f.Bodies[0].Y
		sep = append(sep, dx*dx+dy*dy)
	}
	if len(sep) > 1 {
		fmt.Println(asciigraph.Plot(sep,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("squared separation (bodies 0,1)"),
		))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.WriteFramesCSV(os.Stdout, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if err := export.WriteTrailsSVG(svgOut, frames, svgSize); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}
