package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gridview/internal/config"
	"github.com/san-kum/gridview/internal/dataset"
	"github.com/san-kum/gridview/internal/frames"
	"github.com/san-kum/gridview/internal/loader"
	"github.com/san-kum/gridview/internal/metrics"
	"github.com/san-kum/gridview/internal/raster"
	"github.com/san-kum/gridview/internal/server"
	"github.com/san-kum/gridview/internal/theme"
	"github.com/san-kum/gridview/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	delay      time.Duration
	// view
	themeName string
	// serve
	listen string
	// show
	frameIndex int
	// stats
	statsFormat string
	// export
	exportFormat string
	outDir       string
	// gen
	genSide   int
	genFrames int
	genName   string
	// import
	predictedDir string

	cfg    *config.Config
	logger *slog.Logger
)

// main registers the commands and flags and runs the viewer when no
// subcommand is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "gridview",
		Short:         "frame sequence viewer",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			return resolveConfig(cmd)
		},
		RunE: runView,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "test data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().DurationVar(&delay, "delay", config.DefaultDelay, "autoplay frame delay")

	viewCmd := &cobra.Command{
		Use:   "view [test]",
		Short: "browse tests in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runView,
	}
	viewCmd.Flags().StringVar(&themeName, "theme", config.DefaultTheme, "color theme ("+strings.Join(theme.Names(), ", ")+")")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the browser viewer",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listen, "listen", config.DefaultListen, "listen address")
	serveCmd.Flags().StringVar(&themeName, "theme", config.DefaultTheme, "page theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list tests",
		Args:  cobra.NoArgs,
		RunE:  listTests,
	}

	showCmd := &cobra.Command{
		Use:   "show [test]",
		Short: "print one frame pair",
		Args:  cobra.ExactArgs(1),
		RunE:  showFrame,
	}
	showCmd.Flags().IntVar(&frameIndex, "frame", 0, "frame index")

	statsCmd := &cobra.Command{
		Use:   "stats [test]",
		Short: "compare predicted frames against actual",
		Args:  cobra.ExactArgs(1),
		RunE:  showStats,
	}
	statsCmd.Flags().StringVar(&statsFormat, "format", "text", "output format (text, csv, json)")

	exportCmd := &cobra.Command{
		Use:   "export [test]",
		Short: "render a test to image files",
		Args:  cobra.ExactArgs(1),
		RunE:  exportTest,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "gif", "output format (gif, png, svg)")
	exportCmd.Flags().StringVar(&outDir, "out", ".", "output directory")

	genCmd := &cobra.Command{
		Use:   "gen [generator]",
		Short: "generate a sample test (" + strings.Join(dataset.NewRegistry().Names(), ", ") + ")",
		Args:  cobra.ExactArgs(1),
		RunE:  genTest,
	}
	genCmd.Flags().IntVar(&genSide, "side", dataset.DefaultSide, "grid side length")
	genCmd.Flags().IntVar(&genFrames, "frames", dataset.DefaultFrames, "number of frames")
	genCmd.Flags().StringVar(&genName, "name", "", "test name (default: generator name)")

	importCmd := &cobra.Command{
		Use:   "import [dir] [test]",
		Short: "import a folder of images as a test",
		Args:  cobra.ExactArgs(2),
		RunE:  importImages,
	}
	importCmd.Flags().StringVar(&predictedDir, "predicted", "", "image folder for the predicted role (default: persistence)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tUNIT\tSIDE\tDELAY\tFILL\tBACKGROUND\tTHEME")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					name, orDash(p.UnitSize), orDash(p.SideLength), orDash(p.Delay),
					orDash(p.Fill), orDash(p.Background), orDash(p.Theme))
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(viewCmd, serveCmd, listCmd, showCmd, statsCmd, exportCmd, genCmd, importCmd, presetsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// resolveConfig layers defaults, preset, config file and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command) error {
	cfg = config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Apply(p)
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("delay") {
		cfg.Delay = delay
	}
	if flags.Changed("theme") {
		cfg.Theme = themeName
	}
	if flags.Changed("listen") {
		cfg.Listen = listen
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Debug("configuration resolved", "data", cfg.DataDir, "side", cfg.SideLength, "unit", cfg.UnitSize, "delay", cfg.Delay)
	return nil
}

func loadLibrary(ctx context.Context) (*loader.Library, error) {
	opts := []loader.Option{loader.WithLogger(logger)}
	if cfg.Manifest != config.DefaultManifest {
		opts = append(opts, loader.WithManifest(cfg.Manifest))
	}
	lib, err := loader.New(os.DirFS(cfg.DataDir), opts...).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.DataDir, err)
	}
	return lib, nil
}

func loadPair(ctx context.Context, name string) (*frames.Pair, error) {
	lib, err := loadLibrary(ctx)
	if err != nil {
		return nil, err
	}
	return lib.Get(name)
}

func runView(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary(cmd.Context())
	if err != nil {
		return err
	}
	opts := viz.OptionsFromConfig(cfg)
	if len(args) > 0 {
		if _, err := lib.Get(args[0]); err != nil {
			return err
		}
		opts.Select = args[0]
	}
	return viz.Run(lib, opts)
}

func runServe(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary(cmd.Context())
	if err != nil {
		return err
	}
	srv, err := server.New(server.Config{
		Address: cfg.Listen,
		Library: lib,
		Raster:  raster.FromConfig(cfg),
		Theme:   theme.Get(cfg.Theme),
		Delay:   cfg.Delay,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	fmt.Printf("serving %d tests on http://%s\n", lib.Len(), cfg.Listen)
	return srv.Start(cmd.Context())
}

func listTests(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary(cmd.Context())
	if err != nil {
		return err
	}

	if lib.Len() == 0 {
		fmt.Println("no tests found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFRAMES\tSIZE\tEXACT\tACCURACY\tSTATUS")

	for _, name := range lib.Names() {
		pair, err := lib.Get(name)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%v\n", name, err)
			continue
		}
		size, status := "-", "ok"
		if pair.Len() > 0 {
			size = fmt.Sprintf("%dx%d", pair.Actual[0].Cols(), pair.Actual[0].Rows())
		}
		if pair.Mismatched() {
			status = fmt.Sprintf("uneven (%d/%d)", len(pair.Actual), len(pair.Predicted))
		}
		summary := metrics.Compare(pair)
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%.2f%%\t%s\n",
			name,
			pair.Len(),
			size,
			summary.Exact,
			summary.Metrics["accuracy"]*100,
			status,
		)
	}

	return w.Flush()
}

func showFrame(cmd *cobra.Command, args []string) error {
	name := args[0]
	pair, err := loadPair(cmd.Context(), name)
	if err != nil {
		return err
	}
	if pair.Len() == 0 {
		return fmt.Errorf("%s: %w", name, frames.ErrEmptySequence)
	}
	if frameIndex < 0 || frameIndex >= pair.Len() {
		return fmt.Errorf("frame %d out of range [0,%d)", frameIndex, pair.Len())
	}

	actual, predicted := pair.Frames(frameIndex)
	var left, right []string
	if cfg.SideLength > 32 {
		left = raster.Braille(actual, cfg.SideLength).Lines()
		right = raster.Braille(predicted, cfg.SideLength).Lines()
	} else {
		left = raster.Text(actual, cfg.SideLength, nil)
		right = raster.Text(predicted, cfg.SideLength, nil)
	}

	fmt.Printf("test: %s\n", name)
	fmt.Printf("frame: %d / %d\n\n", frameIndex, pair.Len()-1)
	width := len([]rune(left[0]))
	fmt.Printf("%-*s   %s\n", width, "actual", "predicted")
	for i := range left {
		fmt.Printf("%s   %s\n", left[i], right[i])
	}

	fs := metrics.CompareFrame(frameIndex, actual, predicted)
	fmt.Printf("\non: %d/%d  mismatch: %d  accuracy: %.2f%%\n", fs.Actual, fs.Predicted, fs.Mismatch, fs.Accuracy*100)
	return nil
}

func showStats(cmd *cobra.Command, args []string) error {
	name := args[0]
	pair, err := loadPair(cmd.Context(), name)
	if err != nil {
		return err
	}
	summary := metrics.Compare(pair)

	switch statsFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case "csv":
		return writeStatsCSV(summary)
	case "text":
	default:
		return fmt.Errorf("unknown format: %s", statsFormat)
	}

	fmt.Printf("test: %s\n", name)
	fmt.Printf("frames: %d", summary.Frames)
	if pair.Mismatched() {
		fmt.Printf(" (actual %d, predicted %d)", len(pair.Actual), len(pair.Predicted))
	}
	fmt.Printf("\nexact: %d\n", summary.Exact)
	names := make([]string, 0, len(summary.Metrics))
	for k := range summary.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("%s: %.4f\n", k, summary.Metrics[k])
	}
	if summary.Frames == 0 {
		return nil
	}
	fmt.Printf("worst frame: %d (%.2f%%)\n\n", summary.MinIndex, summary.PerFrame[summary.MinIndex].Accuracy*100)

	if summary.Frames > 1 {
		fmt.Println(asciigraph.Plot(summary.AccuracySeries(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("accuracy per frame"),
		))
		fmt.Println()
		fmt.Println(asciigraph.Plot(summary.MismatchSeries(),
			asciigraph.Height(6),
			asciigraph.Width(80),
			asciigraph.Caption("mismatched cells per frame"),
		))
	}
	return nil
}

func writeStatsCSV(summary metrics.Summary) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"index", "actual", "predicted", "mismatch", "cells", "accuracy"}); err != nil {
		return err
	}
	for _, fs := range summary.PerFrame {
		row := []string{
			strconv.Itoa(fs.Index),
			strconv.Itoa(fs.Actual),
			strconv.Itoa(fs.Predicted),
			strconv.Itoa(fs.Mismatch),
			strconv.Itoa(fs.Cells),
			strconv.FormatFloat(fs.Accuracy, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func exportTest(cmd *cobra.Command, args []string) error {
	name := args[0]
	pair, err := loadPair(cmd.Context(), name)
	if err != nil {
		return err
	}
	if pair.Len() == 0 {
		return fmt.Errorf("%s: %w", name, frames.ErrEmptySequence)
	}
	opts := raster.FromConfig(cfg)

	if exportFormat == "gif" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
		path := filepath.Join(outDir, name+".gif")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := raster.EncodeGIF(f, pair, opts, cfg.Delay); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		fmt.Printf("wrote %s (%d frames)\n", path, pair.Len())
		return nil
	}

	if exportFormat != "png" && exportFormat != "svg" {
		return fmt.Errorf("unknown format: %s", exportFormat)
	}
	dir := filepath.Join(outDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	written := 0
	for _, role := range frames.Roles {
		seq, _ := pair.Sequence(role)
		for i, f := range seq {
			path := filepath.Join(dir, fmt.Sprintf("%s_%03d.%s", role, i, exportFormat))
			if err := writeFrame(path, f, opts); err != nil {
				return err
			}
			written++
		}
	}
	fmt.Printf("wrote %d files to %s\n", written, dir)
	return nil
}

func writeFrame(path string, f frames.Frame, opts raster.Options) error {
	if filepath.Ext(path) == ".svg" {
		return os.WriteFile(path, []byte(raster.SVG(f, opts)), 0644)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := raster.PNG(out, f, opts); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

func genTest(cmd *cobra.Command, args []string) error {
	gen, err := dataset.NewRegistry().Get(args[0])
	if err != nil {
		return err
	}
	name := genName
	if name == "" {
		name = args[0]
		if name == "bouncing" {
			name = "bouncing_pixel"
		}
	}

	w := loader.NewWriter(cfg.DataDir)
	if err := w.Init(); err != nil {
		return err
	}
	pair := gen(genSide, genFrames)
	if err := w.WriteTest(name, pair); err != nil {
		return err
	}
	fmt.Printf("wrote %s to %s (%d frames, %dx%d)\n", name, cfg.DataDir, pair.Len(), genSide, genSide)
	return nil
}

func importImages(cmd *cobra.Command, args []string) error {
	dir, name := args[0], args[1]
	actual, err := dataset.FromImages(os.DirFS(dir), ".")
	if err != nil {
		return fmt.Errorf("import %s: %w", dir, err)
	}
	if len(actual) == 0 {
		return fmt.Errorf("import %s: %w", dir, frames.ErrEmptySequence)
	}

	predicted := dataset.Persistence(actual)
	if predictedDir != "" {
		if predicted, err = dataset.FromImages(os.DirFS(predictedDir), "."); err != nil {
			return fmt.Errorf("import %s: %w", predictedDir, err)
		}
	}

	w := loader.NewWriter(cfg.DataDir)
	if err := w.Init(); err != nil {
		return err
	}
	pair := &frames.Pair{Actual: actual, Predicted: predicted}
	if err := w.WriteTest(name, pair); err != nil {
		return err
	}
	logger.Debug("imported images", "dir", dir, "test", name, "actual", len(actual), "predicted", len(predicted))
	fmt.Printf("wrote %s to %s (%d frames)\n", name, cfg.DataDir, pair.Len())
	return nil
}

func orDash[T comparable](v T) string {
	var zero T
	if v == zero {
		return "-"
	}
	return fmt.Sprint(v)
}
