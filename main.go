package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/muesli/termenv"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/spf13/cobra"

	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
	"github.com/df07/go-raycaster/web/server"
)

// options holds the parsed command line
type options struct {
	input     string
	output    string
	threads   int
	blockSize int
	mode      string
	watch     bool

	verbose     bool
	veryVerbose bool
	quiet       bool
}

// runtimeError marks failures that happen after the command line was
// accepted; they are reported without usage text
type runtimeError struct {
	err error
}

func (e *runtimeError) Error() string { return e.err.Error() }
func (e *runtimeError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}

	printError(stderr, err)
	var rerr *runtimeError
	if !errors.As(err, &rerr) {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return 1
}

// printError writes err to w behind a red "Error:" prefix when w is a terminal
func printError(w io.Writer, err error) {
	out := termenv.NewOutput(w)
	prefix := out.String("Error:").Foreground(out.Color("1")).Bold()
	fmt.Fprintf(w, "%s %v\n", prefix, err)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "raycast",
		Short: "Render spheres lit by point lights",
		Long: `raycast renders a scene of spheres and point lights with one primary ray per
pixel and Lambertian shading. The input is a scene file (.scene/.txt, .yaml,
.toml or .json) or the name of a built-in scene.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context(), opts, newLogger(stderr, opts))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "scene file or built-in scene name; built-in names win unless the value has a '/' or scene extension (required)")
	flags.StringVarP(&opts.output, "output", "o", "output.bmp", "output image; format chosen by extension (.bmp, .png, .jpg, .tiff)")
	flags.IntVarP(&opts.threads, "threads", "t", 1, "maximum tiles rendered in parallel (0 = logical CPUs)")
	flags.IntVarP(&opts.blockSize, "blocksize", "b", 128, "tile side length in pixels")
	flags.StringVar(&opts.mode, "mode", geometry.Geometric.String(), "ray-sphere test: geometric or quadratic")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "re-render whenever the input file changes")
	_ = root.MarkFlagRequired("input")

	persistent := root.PersistentFlags()
	persistent.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress")
	persistent.BoolVar(&opts.veryVerbose, "vv", false, "log every tile")
	persistent.BoolVarP(&opts.quiet, "quiet", "q", false, "log errors only")

	root.AddCommand(newScenesCmd(), newServeCmd(stderr, opts))
	return root
}

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes [dir]",
		Short: "List built-in scenes and scene files in dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			scenes, err := scene.ListScenes(dir)
			if err != nil {
				return &runtimeError{err}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tGROUP\tDESCRIPTION")
			for _, s := range scenes {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Group, s.Description)
			}
			return tw.Flush()
		},
	}
}

func newServeCmd(stderr io.Writer, opts *options) *cobra.Command {
	config := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(stderr, opts)
			logSystemInfo(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if err := server.NewServer(config, logger).Run(ctx); err != nil {
				return &runtimeError{err}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&config.Port, "port", config.Port, "port to serve on")
	cmd.Flags().StringVar(&config.ScenesDir, "scenes", config.ScenesDir, "directory of scene files to offer")
	return cmd
}

// newLogger builds a text logger on w at the level selected by -v, --vv and -q
func newLogger(w io.Writer, opts *options) *slog.Logger {
	level := levelFromFlags(opts.veryVerbose, opts.verbose, opts.quiet)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// levelFromFlags maps verbosity flags to a level. They are checked in the
// order vv, v, q; the default is warnings and above.
func levelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// resolveThreads turns the -t value into a worker count; 0 asks the host
func resolveThreads(threads int) (int, error) {
	switch {
	case threads < 0:
		return 0, fmt.Errorf("threads must be zero or positive, got %d", threads)
	case threads > 0:
		return threads, nil
	}

	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU(), nil
	}
	return n, nil
}

// renderConfig validates the command line and builds the renderer config
func renderConfig(opts *options) (renderer.Config, error) {
	config := renderer.DefaultConfig()

	if opts.blockSize <= 0 {
		return config, fmt.Errorf("blocksize must be positive, got %d", opts.blockSize)
	}
	config.TileSize = opts.blockSize

	threads, err := resolveThreads(opts.threads)
	if err != nil {
		return config, err
	}
	config.Workers = threads

	mode, ok := geometry.ParseIntersectMode(opts.mode)
	if !ok {
		return config, fmt.Errorf("unknown mode %q (want geometric or quadratic)", opts.mode)
	}
	config.Mode = mode

	if _, err := loaders.ImageFormatFromPath(opts.output); err != nil {
		return config, err
	}
	return config, nil
}

func runRender(ctx context.Context, opts *options, logger *slog.Logger) error {
	config, err := renderConfig(opts)
	if err != nil {
		return err
	}

	if err := renderOnce(opts, config, logger); err != nil {
		return &runtimeError{err}
	}

	if !opts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if err := watchScene(ctx, opts.input, logger, func() error {
		return renderOnce(opts, config, logger)
	}); err != nil {
		return &runtimeError{err}
	}
	return nil
}

// renderOnce loads the scene, renders it and writes the output image
func renderOnce(opts *options, config renderer.Config, logger *slog.Logger) error {
	s, err := scene.Resolve(opts.input, "")
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(s, config, logger)
	if err != nil {
		return err
	}

	img, stats, err := r.Render()
	if err != nil {
		return err
	}

	start := time.Now()
	if err := loaders.SaveImage(img, opts.output); err != nil {
		return err
	}

	logger.Info("saved image",
		"file", opts.output,
		"render", stats.Duration,
		"write", time.Since(start),
		"coverage", fmt.Sprintf("%.1f%%", stats.Coverage()*100))
	return nil
}

// logSystemInfo logs the host CPU, as seen by the service
func logSystemInfo(logger *slog.Logger) {
	logical, err := cpu.Counts(true)
	if err != nil {
		logger.Warn("cpu count unavailable", "error", err)
		return
	}

	model := "unknown"
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		model = info[0].ModelName
	}
	logger.Info("host", "cpu", model, "logical_cores", logical)
}
