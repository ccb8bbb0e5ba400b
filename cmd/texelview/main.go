// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelview/main.go
// Summary: Opens a file in the viewer, full screen or as a one-frame text dump.
// Usage: texelview [-db path] [-lang name] [-headless] [-write-config] [file]

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/framegrace/texelview/apps/viewer"
	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/internal/devshell"
	"github.com/framegrace/texelview/texel"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("texelview", flag.ContinueOnError)
	dbPath := fs.String("db", "", "Keep the document in this sqlite database instead of memory")
	lang := fs.String("lang", "", "Highlight language, overriding detection")
	headless := fs.Bool("headless", false, "Print one frame to stdout instead of running full screen")
	width := fs.Int("width", 80, "Headless frame width in cells")
	height := fs.Int("height", 24, "Headless frame height in cells")
	writeConfig := fs.Bool("write-config", false, "Save the effective configuration, defaults included, and exit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if err := config.Err(); err != nil {
		log.Printf("[VIEWER] Config load failed, using defaults: %v", err)
	}
	if *writeConfig {
		if err := config.SaveSystem(); err != nil {
			return fmt.Errorf("save system config: %w", err)
		}
		return config.SaveApp(viewer.AppName)
	}
	sys := withStore(config.System(), *dbPath)
	app := config.App(viewer.AppName)
	opts := viewer.OpenOptions{Language: *lang}

	if *headless || !term.IsTerminal(int(os.Stdout.Fd())) {
		a, err := viewer.Open(fs.Arg(0), sys, app, opts)
		if err != nil {
			return err
		}
		defer a.Close()
		a.Resize(*width, *height)
		return writeFrame(os.Stdout, a.Render())
	}

	closeLog, err := redirectLog("texelview.log")
	if err != nil {
		return err
	}
	defer closeLog()

	builder := func(args []string) (texel.App, error) {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		a, err := viewer.Open(path, sys, app, opts)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	return devshell.Run(builder, fs.Args())
}

// withStore returns sys switched to a sqlite store at path. An empty path
// leaves sys untouched.
func withStore(sys config.Config, path string) config.Config {
	if path == "" {
		return sys
	}
	cfg := config.Clone(sys)
	if cfg == nil {
		cfg = make(config.Config)
	}
	section := cfg.Section(config.SectionStore)
	if section == nil {
		section = make(config.Section)
		cfg[config.SectionStore] = section
	}
	section["backend"] = "sqlite"
	section["path"] = path
	return cfg
}

// redirectLog sends the standard logger to name under the config directory
// so it does not scribble over the screen.
func redirectLog(name string) (func(), error) {
	path, err := config.StatePath(name)
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// writeFrame prints a rendered frame as plain text, one line per row.
func writeFrame(w io.Writer, frame [][]texel.Cell) error {
	bw := bufio.NewWriter(w)
	var sb strings.Builder
	for _, row := range frame {
		sb.Reset()
		for _, c := range row {
			ch := c.Ch
			if ch == 0 {
				ch = ' '
			}
			sb.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(bw, strings.TrimRight(sb.String(), " ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}
