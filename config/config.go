// Package config loads display settings from an optional file and DISPLAY_
// environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/phanxgames/display"
	"github.com/phanxgames/display/log"
)

// File is a loaded configuration.
type File struct {
	Display  display.Config
	Backend  string // headless, gl, ebiten or term
	Frames   int    // frames to run, 0 until stopped
	Sprites  int    // demo sprites
	LogLevel log.Level
}

type raw struct {
	Backend string
	Frames  int
	Sprites int
	Log     struct {
		Level string
	}
	Display struct {
		Mode        string
		X, Y        int
		Width       int
		Height      int
		Aspect      float64
		Depth       int
		Background  string
		Title       string
		Titled      bool
		FPS         float64
		FaultPolicy string `mapstructure:"fault_policy"`
		Debug       bool
	}
}

// Load reads path, if not empty, then applies DISPLAY_ environment overrides,
// e.g. DISPLAY_DISPLAY_FPS=30 or DISPLAY_BACKEND=term. The file format is
// taken from the extension (toml, yaml or json).
func Load(path string) (File, error) {
	v := viper.New()

	v.SetDefault("backend", "headless")
	v.SetDefault("frames", 0)
	v.SetDefault("sprites", 3)
	v.SetDefault("log.level", "notice")
	v.SetDefault("display.mode", "3d")
	v.SetDefault("display.x", 0)
	v.SetDefault("display.y", 0)
	v.SetDefault("display.width", 0)
	v.SetDefault("display.height", 0)
	v.SetDefault("display.aspect", display.DefaultAspect)
	v.SetDefault("display.depth", display.DefaultDepth)
	v.SetDefault("display.background", "")
	v.SetDefault("display.title", "display")
	v.SetDefault("display.titled", true)
	v.SetDefault("display.fps", 60)
	v.SetDefault("display.fault_policy", "propagate")
	v.SetDefault("display.debug", false)

	v.SetEnvPrefix("DISPLAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return File{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var r raw
	if err := v.Unmarshal(&r); err != nil {
		return File{}, fmt.Errorf("unmarshal config: %w", err)
	}
	var clip *display.ClipPlanes
	if v.IsSet("display.near") || v.IsSet("display.far") {
		def := display.DefaultClip3D
		if strings.EqualFold(r.Display.Mode, "2d") {
			def = display.DefaultClip2D
		}
		v.SetDefault("display.near", def.Near)
		v.SetDefault("display.far", def.Far)
		clip = &display.ClipPlanes{Near: v.GetFloat64("display.near"), Far: v.GetFloat64("display.far")}
	}
	return r.toFile(clip)
}

func (r raw) toFile(clip *display.ClipPlanes) (File, error) {
	f := File{Backend: strings.ToLower(r.Backend), Frames: r.Frames, Sprites: r.Sprites}
	switch f.Backend {
	case "headless", "gl", "ebiten", "term":
	default:
		return File{}, fmt.Errorf("unknown backend %q", r.Backend)
	}

	level, err := ParseLevel(r.Log.Level)
	if err != nil {
		return File{}, err
	}
	f.LogLevel = level

	rd := r.Display
	c := display.Config{
		Aspect: rd.Aspect,
		Depth:  rd.Depth,
		Title:  rd.Title,
		Titled: rd.Titled,
		FPS:    rd.FPS,
		Debug:  rd.Debug,
	}
	switch strings.ToLower(rd.Mode) {
	case "3d", "":
	case "2d":
		c.Is2D = true
	default:
		return File{}, fmt.Errorf("unknown display mode %q", rd.Mode)
	}
	if rd.X != 0 || rd.Y != 0 || rd.Width != 0 || rd.Height != 0 {
		c.Bounds = &display.Rect{X: rd.X, Y: rd.Y, Width: rd.Width, Height: rd.Height}
	}
	c.Clip = clip
	if rd.Background != "" {
		bg, err := ParseColor(rd.Background)
		if err != nil {
			return File{}, err
		}
		c.Background = &bg
	}
	switch strings.ToLower(rd.FaultPolicy) {
	case "propagate", "":
		c.FaultPolicy = display.FaultPropagate
	case "swallow":
		c.FaultPolicy = display.FaultSwallow
	default:
		return File{}, fmt.Errorf("unknown fault policy %q", rd.FaultPolicy)
	}
	f.Display = c
	return f, nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (display.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return display.Color{}, fmt.Errorf("invalid colour %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return display.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return display.Color{
		R: float64(n>>24&0xff) / 255,
		G: float64(n>>16&0xff) / 255,
		B: float64(n>>8&0xff) / 255,
		A: float64(n&0xff) / 255,
	}, nil
}

// ParseLevel maps a level name to a log.Level.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.Debug, nil
	case "info":
		return log.Info, nil
	case "notice", "":
		return log.Notice, nil
	case "warning", "warn":
		return log.Warning, nil
	case "error":
		return log.Error, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
