package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/quench/internal/analysis"
	"github.com/san-kum/quench/internal/config"
	"github.com/san-kum/quench/internal/export"
	"github.com/san-kum/quench/internal/gui"
	"github.com/san-kum/quench/internal/render"
	"github.com/san-kum/quench/internal/storage"
	"github.com/san-kum/quench/internal/universe"
	"github.com/san-kum/quench/internal/viz"
)

var (
	dataDir     string
	profileName string
	configFile  string
	size        int
	seed        int64
	coolingRate float64
	xiCritical  float64
	tempFinal   float64
	frameRate   int
	stepsFlag   int
	perTick     int
	every       int
	outDir      string
	videoOut    string
	theme       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quench",
		Short: "phase-transition field simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live animation when no command given.
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".quench", "data directory")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "animate", "parameter profile")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().IntVar(&size, "size", 0, "grid size (overrides profile)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	rootCmd.PersistentFlags().Float64Var(&coolingRate, "cooling-rate", 0, "cooling rate (overrides profile)")
	rootCmd.PersistentFlags().Float64Var(&xiCritical, "xi-critical", 0, "critical correlation length (overrides profile)")
	rootCmd.PersistentFlags().Float64Var(&tempFinal, "temp-final", 0, "final temperature (overrides profile)")
	rootCmd.PersistentFlags().IntVar(&perTick, "steps-per-tick", 0, "simulation steps per display tick")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "live terminal animation",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	framesCmd := &cobra.Command{
		Use:   "frames",
		Short: "headless run dumping periodic PNG frames",
		RunE:  runFrames,
	}
	framesCmd.Flags().IntVar(&stepsFlag, "steps", 0, "total simulation steps")
	framesCmd.Flags().IntVar(&every, "every", 0, "steps between captured frames")
	framesCmd.Flags().StringVar(&outDir, "out", "frames", "output directory")
	framesCmd.Flags().StringVar(&videoOut, "video", "", "also assemble an AVI at this path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "headless run saved to the store",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&stepsFlag, "steps", 0, "total simulation steps")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's cooling history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a run's field variance",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run history to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "list parameter profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListProfiles() {
				p := config.Profiles[name]
				fmt.Printf("%-10s size=%d cooling=%.1f xi_critical=%.1f temp_final=%.1f\n",
					name, p.Size, p.CoolingRate, p.XiCritical, p.TempFinal)
			}
			return nil
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "windowed animation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			uni := universe.NewSeeded(cfg.Params(), seed)
			gui.Run(uni, cfg.StepsPerTick)
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, framesCmd, runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, profilesCmd, guiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers profile, config file, and flag overrides, in that
// order of increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetProfile(profileName)
	if cfg == nil {
		return nil, fmt.Errorf("unknown profile: %s (available: %v)", profileName, config.ListProfiles())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("cooling-rate") {
		cfg.CoolingRate = coolingRate
	}
	if flags.Changed("xi-critical") {
		cfg.XiCritical = xiCritical
	}
	if flags.Changed("temp-final") {
		cfg.TempFinal = tempFinal
	}
	if flags.Changed("steps-per-tick") {
		cfg.StepsPerTick = perTick
	}
	if flags.Changed("steps") {
		cfg.Steps = stepsFlag
	}
	if flags.Changed("every") {
		cfg.CaptureEvery = every
	}
	if cfg.Seed != 0 && !flags.Changed("seed") {
		seed = cfg.Seed
	}
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if theme != "" {
		viz.SetTheme(theme)
	}

	uni := universe.NewSeeded(cfg.Params(), seed)
	m := viz.NewModel(uni, cfg.StepsPerTick, frameRate)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runFrames(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	params := cfg.Params()
	uni := universe.NewSeeded(params, seed)
	renderer := render.New(params)

	var videoFrames []*image.RGBA
	var saveErr error
	captured := 0

	fmt.Printf("running %s profile: %d steps, frame every %d\n", profileName, cfg.Steps, cfg.CaptureEvery)
	fmt.Printf("initial: T=%.1f, xi=%.2f\n", params.TempInitial, universe.CorrelationLength(params.TempInitial))

	save := func(s universe.Snapshot, name string) error {
		img := renderer.Frame(s, uni.TempHistory(), uni.XiHistory())
		if err := render.SavePNG(img, filepath.Join(outDir, name)); err != nil {
			return err
		}
		if videoOut != "" {
			videoFrames = append(videoFrames, img)
		}
		captured++
		return nil
	}

	err = universe.RunWithCallback(context.Background(), uni, cfg.Steps, func(s universe.Snapshot, fired bool) bool {
		if fired {
			fmt.Printf("BOOTSTRAP at step %d! T=%.2f, xi=%.2f\n", s.Time, s.Temperature, s.Xi)
			if saveErr = save(s, "frame_bootstrap.png"); saveErr != nil {
				return false
			}
		}
		if s.Time%cfg.CaptureEvery == 0 {
			if saveErr = save(s, fmt.Sprintf("frame_%04d.png", s.Time)); saveErr != nil {
				return false
			}
			fmt.Printf("frame %4d: T=%6.2f, xi=%6.2f [%s]\n", s.Time, s.Temperature, s.Xi, params.Phase(s))
		}
		return true
	})
	if err != nil {
		return err
	}
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("saved %d frames to %s\n", captured, outDir)

	if videoOut != "" {
		if err := export.WriteVideo(videoOut, videoFrames, 10); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", videoOut)
	}
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	params := cfg.Params()
	uni := universe.NewSeeded(params, seed)

	fmt.Printf("running %s profile for %d steps...\n", profileName, cfg.Steps)
	start := time.Now()

	result, err := universe.Run(context.Background(), uni, cfg.Steps)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(profileName, params, seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(result.Times))
	if result.Bootstrapped {
		fmt.Printf("bootstrap: step %d\n", result.BootstrapStep)
	} else {
		fmt.Println("bootstrap: never reached")
	}
	fmt.Printf("final: T=%.2f, xi=%.2f, field variance=%.4f\n",
		result.Final.Temperature, result.Final.Xi, result.Final.Field.Variance())

	if len(result.Xis) > 1 {
		fmt.Println()
		graph := asciigraph.Plot(downsample(result.Xis, 160),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("correlation length"),
		)
		fmt.Println(graph)
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
	fmt.Fprintln(w, "ID\tPROFILE\tTIME\tSTEPS\tBOOTSTRAP\tFINAL_T\tFINAL_XI")

	for _, run := range runs {
		bootstrap := "-"
		if run.Bootstrapped {
			bootstrap = fmt.Sprintf("step %d", run.BootstrapStep)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.2f\t%.2f\n",
			run.ID,
			run.Profile,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			bootstrap,
			run.FinalTemp,
			run.FinalXi,
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
	h, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(h.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("profile: %s\n", meta.Profile)
	fmt.Printf("samples: %d\n\n", len(h.Times))

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{h.Temps, "temperature"},
		{h.Xis, "correlation length"},
		{h.Variances, "field variance"},
	} {
		graph := asciigraph.Plot(downsample(series.data, 160),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	h, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(h.Variances) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("profile: %s\n\n", meta.Profile)

	ps := analysis.PowerSpectrum(h.Variances)
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (field variance)"),
	)
	fmt.Println(graph)
	fmt.Println()

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(plotData); i++ {
		if plotData[i] > maxPower {
			maxPower = plotData[i]
			maxIdx = i
		}
	}
	fmt.Printf("dominant component: bin %d (power %.3f)\n", maxIdx, maxPower)

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	h, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, meta, h)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	h, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, h)
}

// downsample thins a series for terminal plotting.
func downsample(data []float64, max int) []float64 {
	if len(data) <= max {
		return data
	}
	out := make([]float64, max)
	for i := 0; i < max; i++ {
		out[i] = data[i*len(data)/max]
	}
	return out
}
