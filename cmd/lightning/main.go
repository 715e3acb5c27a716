// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command lightning renders the procedural lightning animation to PNG
// files, on a Vulkan device or on the CPU.
//
// Usage:
//
//	lightning [-config file.toml] [-gpu] [-frames 8] [-hue 230] [-output lightning.png]
//
// By default the frames are laid out on one captioned contact sheet.
// With -sheet=false each frame is written as frame_NNN.png into the
// directory named by -output.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/lightning"
)

func main() {
	args, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("lightning: %v", err)
	}

	if args.writeConfig != "" {
		if err := writeConfig(args.writeConfig, args.cfg); err != nil {
			log.Fatalf("lightning: %v", err)
		}
		log.Printf("Config written to %s", args.writeConfig)
		return
	}

	if args.cfg.Verbose {
		lightning.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := run(args.cfg, os.Stdout); err != nil {
		log.Fatalf("lightning: %v", err)
	}
}

// selectSource opens the GPU source when requested and falls back to the
// software renderer when no device can be opened.
func selectSource(cfg config) frameSource {
	if cfg.GPU {
		src, err := newGPUSource(cfg)
		if err == nil {
			return src
		}
		log.Printf("GPU unavailable, using software renderer: %v", err)
	}
	return newCPUSource(cfg)
}

func run(cfg config, out io.Writer) error {
	src := selectSource(cfg)
	defer src.Close()

	began := time.Now()
	cells := make([]sheetCell, 0, cfg.Frames)
	var pixels int
	for i := range cfg.Frames {
		t := cfg.frameTime(i)
		f, err := src.Render(t)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		pixels += f.Width * f.Height
		img := toLogical(f, cfg.Width, cfg.Height)

		if !cfg.Sheet {
			if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
				return err
			}
			path := filepath.Join(cfg.Output, fmt.Sprintf("frame_%03d.png", i))
			if err := writePNG(path, img); err != nil {
				return err
			}
			continue
		}
		cells = append(cells, sheetCell{img: img, label: frameCaption(i, t)})
	}

	if cfg.Sheet {
		sheet, err := buildSheet(cells, cfg.Width, cfg.Height, cfg.Columns)
		if err != nil {
			return err
		}
		if err := writePNG(cfg.Output, sheet); err != nil {
			return err
		}
	}

	_, err := captionPrinter.Fprintf(out, "Rendered %d frames (%d device pixels) with %s in %v -> %s\n",
		cfg.Frames, pixels, src.Name(), time.Since(began).Round(time.Millisecond), cfg.Output)
	return err
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
