// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/lightning"
)

// config holds every setting of one run. Keys in the TOML file match the
// field tags; flags of the same name override file values.
type config struct {
	Width   int     `toml:"width"`
	Height  int     `toml:"height"`
	DPR     float64 `toml:"dpr"`
	Frames  int     `toml:"frames"`
	FPS     float64 `toml:"fps"`
	Start   float64 `toml:"start"`
	Output  string  `toml:"output"`
	Sheet   bool    `toml:"sheet"`
	Columns int     `toml:"columns"`
	GPU     bool    `toml:"gpu"`
	Workers int     `toml:"workers"`
	Verbose bool    `toml:"verbose"`

	Hue       float64 `toml:"hue"`
	XOffset   float64 `toml:"x_offset"`
	Speed     float64 `toml:"speed"`
	Intensity float64 `toml:"intensity"`
	Size      float64 `toml:"size"`
}

func defaultConfig() config {
	p := lightning.DefaultParameters()
	return config{
		Width:     400,
		Height:    300,
		DPR:       1,
		Frames:    8,
		FPS:       12,
		Start:     0.5,
		Output:    "lightning.png",
		Sheet:     true,
		Columns:   4,
		Workers:   0,
		Hue:       float64(p.Hue),
		XOffset:   float64(p.XOffset),
		Speed:     float64(p.Speed),
		Intensity: float64(p.Intensity),
		Size:      float64(p.Size),
	}
}

// parameters converts the shader settings.
func (c config) parameters() lightning.RenderParameters {
	return lightning.RenderParameters{
		Hue:       float32(c.Hue),
		XOffset:   float32(c.XOffset),
		Speed:     float32(c.Speed),
		Intensity: float32(c.Intensity),
		Size:      float32(c.Size),
	}
}

// frameTime returns the animation time of frame i in seconds.
func (c config) frameTime(i int) float64 {
	return c.Start + float64(i)/c.FPS
}

func (c config) validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if !(c.DPR > 0) {
		errs = append(errs, fmt.Errorf("dpr %v must be positive", c.DPR))
	}
	if c.Frames <= 0 {
		errs = append(errs, fmt.Errorf("frames %d must be positive", c.Frames))
	}
	if !(c.FPS > 0) {
		errs = append(errs, fmt.Errorf("fps %v must be positive", c.FPS))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output must be set"))
	}
	if c.Sheet && c.Columns <= 0 {
		errs = append(errs, fmt.Errorf("columns %d must be positive", c.Columns))
	}
	return errors.Join(errs...)
}

// loadConfig decodes a TOML file over the defaults. Unknown keys are an
// error so typos do not pass silently.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// writeConfig stores cfg as TOML.
func writeConfig(path string, cfg config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644) //nolint:gosec // config is not secret
}

type cliArgs struct {
	cfg         config
	writeConfig string
}

// newFlagSet binds every config field to a flag defaulting to its value
// in cfg.
func newFlagSet(cfg *config, args *cliArgs, configPath *string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("lightning", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVar(configPath, "config", *configPath, "TOML config file")
	fs.StringVar(&args.writeConfig, "write-config", args.writeConfig, "write the effective config to this file and exit")

	fs.IntVar(&cfg.Width, "width", cfg.Width, "output width in logical pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "output height in logical pixels")
	fs.Float64Var(&cfg.DPR, "dpr", cfg.DPR, "device pixel ratio used for supersampling")
	fs.IntVar(&cfg.Frames, "frames", cfg.Frames, "number of frames")
	fs.Float64Var(&cfg.FPS, "fps", cfg.FPS, "frames per animation second")
	fs.Float64Var(&cfg.Start, "start", cfg.Start, "animation time of the first frame in seconds")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "contact sheet file, or frame directory with -sheet=false")
	fs.BoolVar(&cfg.Sheet, "sheet", cfg.Sheet, "write one captioned contact sheet instead of per-frame PNGs")
	fs.IntVar(&cfg.Columns, "columns", cfg.Columns, "contact sheet columns")
	fs.BoolVar(&cfg.GPU, "gpu", cfg.GPU, "render on a Vulkan device, falling back to the CPU")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "CPU render workers (0 = GOMAXPROCS)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log renderer diagnostics")

	fs.Float64Var(&cfg.Hue, "hue", cfg.Hue, "filament hue in degrees")
	fs.Float64Var(&cfg.XOffset, "x-offset", cfg.XOffset, "horizontal filament offset")
	fs.Float64Var(&cfg.Speed, "speed", cfg.Speed, "animation speed (0 freezes)")
	fs.Float64Var(&cfg.Intensity, "intensity", cfg.Intensity, "brightness multiplier")
	fs.Float64Var(&cfg.Size, "size", cfg.Size, "noise scale")
	return fs
}

// parseArgs builds the run configuration: defaults, then the -config file,
// then explicit flags.
func parseArgs(argv []string, out io.Writer) (cliArgs, error) {
	var args cliArgs
	args.cfg = defaultConfig()
	var configPath string

	if err := newFlagSet(&args.cfg, &args, &configPath, out).Parse(argv); err != nil {
		return cliArgs{}, err
	}
	if configPath == "" {
		return args, args.cfg.validate()
	}

	fileCfg, err := loadConfig(configPath)
	if err != nil {
		return cliArgs{}, err
	}
	args = cliArgs{cfg: fileCfg}
	if err := newFlagSet(&args.cfg, &args, &configPath, io.Discard).Parse(argv); err != nil {
		return cliArgs{}, err
	}
	return args, args.cfg.validate()
}
