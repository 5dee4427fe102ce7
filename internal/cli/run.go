package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/display"
	"github.com/phanxgames/display/backend/ebitenctx"
	"github.com/phanxgames/display/backend/glctx"
	"github.com/phanxgames/display/backend/termctx"
	"github.com/phanxgames/display/config"
	"github.com/phanxgames/display/log"
)

var logger = log.New("demo")

var runFlags struct {
	backend  string
	frames   int
	fps      float64
	sprites  int
	is2D     bool
	logLevel string
	noStats  bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo scene",
	Long: `Runs the demo scene. Flags override the config file, which overrides
DISPLAY_ environment variables and the built-in defaults.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.backend, "backend", "b", "", "headless, gl, ebiten or term")
	f.IntVarP(&runFlags.frames, "frames", "n", 0, "stop after this many frames (0 runs until closed)")
	f.Float64Var(&runFlags.fps, "fps", 0, "target frame rate")
	f.IntVar(&runFlags.sprites, "sprites", 0, "number of animated sprites")
	f.BoolVar(&runFlags.is2D, "2d", false, "orthographic projection")
	f.StringVar(&runFlags.logLevel, "log-level", "", "debug, info, notice, warning or error")
	f.BoolVar(&runFlags.noStats, "no-stats", false, "do not print frame statistics")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	stats, err := runScene(ctx, cfg)
	if err != nil {
		return err
	}
	if !runFlags.noStats {
		return writeStats(cmd.OutOrStdout(), cfg.Backend, stats, time.Since(start))
	}
	return nil
}

// loadConfig merges the config file with the flags that were set.
func loadConfig(cmd *cobra.Command) (config.File, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.File{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = runFlags.backend
	}
	if flags.Changed("frames") {
		cfg.Frames = runFlags.frames
	}
	if flags.Changed("fps") {
		cfg.Display.FPS = runFlags.fps
	}
	if flags.Changed("sprites") {
		cfg.Sprites = runFlags.sprites
	}
	if flags.Changed("2d") {
		cfg.Display.Is2D = runFlags.is2D
	}
	if flags.Changed("log-level") {
		level, err := config.ParseLevel(runFlags.logLevel)
		if err != nil {
			return config.File{}, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// runScene opens the backend, runs the demo and returns the final stats.
func runScene(ctx context.Context, cfg config.File) (display.Stats, error) {
	switch cfg.Backend {
	case "headless":
		return runLoop(ctx, cfg, display.NewHeadless(1280, 720), nopPainter)
	case "term":
		c, err := termctx.New(nil)
		if err != nil {
			return display.Stats{}, fmt.Errorf("open terminal: %w", err)
		}
		return runLoop(ctx, cfg, c, termPainter(c), func(d *display.Display) { c.OnClose = d.Stop })
	case "gl":
		c, err := glctx.New(glctx.Options{})
		if err != nil {
			return display.Stats{}, err
		}
		return runLoop(ctx, cfg, c, glPainter(cfg.Display.Is2D), func(d *display.Display) { c.OnClose = d.Stop })
	case "ebiten":
		return runEbiten(cfg)
	default:
		return display.Stats{}, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func runLoop(ctx context.Context, cfg config.File, gc display.GraphicsContext, paint painter, wire ...func(*display.Display)) (display.Stats, error) {
	d, err := display.New(gc, cfg.Display)
	if err != nil {
		_ = gc.Destroy()
		return display.Stats{}, err
	}
	for _, w := range wire {
		w(d)
	}
	addScene(d, cfg, paint)

	err = d.Run(ctx)
	return d.Stats(), err
}

func runEbiten(cfg config.File) (display.Stats, error) {
	c := ebitenctx.New(ebitenctx.Options{Window: true})
	dc := cfg.Display
	tps := int(dc.FPS)
	dc.FPS = 0

	d, err := display.New(c, dc)
	if err != nil {
		return display.Stats{}, err
	}
	addScene(d, cfg, ebitenPainter(c))
	err = ebitenctx.Run(d, c, tps)
	return d.Stats(), err
}

// addScene adds the animated sprites and, with a frame limit, a sprite that
// stops the display after that many frames.
func addScene(d *display.Display, cfg config.File, paint painter) {
	for i := 0; i < cfg.Sprites; i++ {
		d.AddSprites(newBall(i, cfg.Sprites, paint))
	}
	if cfg.Frames > 0 {
		frames := 0
		d.AddSprites(&display.SpriteFuncs{OnRepaint: func(time.Time) error {
			frames++
			if frames >= cfg.Frames {
				logger.Infof("frame limit %d reached", cfg.Frames)
				d.Stop()
			}
			return nil
		}})
	}
}
