/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"pixview/internal/config"
	"pixview/internal/crash"
	"pixview/internal/imagefile"
	applog "pixview/internal/log"
	"pixview/internal/ui"
	"pixview/internal/version"
	"pixview/internal/workspace"
	"pixview/internal/zoom"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "pixview: image viewer with per-context zoom")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  pixview version|-v|--version                 Show version")
	_, _ = fmt.Fprintln(w, "  pixview ui [<dir>]                           Launch desktop viewer (build with -tags fyne)")
	_, _ = fmt.Fprintln(w, "  pixview probe <file>...                      Print format and size of image files")
	_, _ = fmt.Fprintln(w, "  pixview scale <file> <W>x<H> [mode] [pct]    Show how <file> is laid out on a WxH surface")
	_, _ = fmt.Fprintln(w, "  pixview modes                                List zoom modes")
	_, _ = fmt.Fprintln(w, "  pixview config                               Show config path and zoom defaults")
}

func main() {
	cfg, err := config.Load()
	applog.Init(cfg.LogOptions())
	if err != nil {
		applog.WithComponent("cli").Warn("config load", slog.Any("err", err))
	}
	os.Exit(run(os.Args[1:], cfg, os.Stdout))
}

// run executes one command and returns the process exit code.
func run(args []string, cfg config.AppConfig, out io.Writer) int {
	l := applog.WithComponent("cli")
	defer crash.Recover(nil)

	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(out)
		return 0
	}
	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(out, version.String())
		return 0
	case "ui":
		var dir string
		if len(args) >= 2 {
			dir = args[1]
		}
		if err := ui.Run(dir); err != nil {
			_, _ = fmt.Fprintln(out, "Error:", err)
			return 1
		}
		return 0
	case "probe":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(out, "probe requires at least one <file>")
			usage(out)
			return 2
		}
		return probe(args[1:], out, l)
	case "scale":
		if len(args) < 3 {
			_, _ = fmt.Fprintln(out, "scale requires <file> and <W>x<H>")
			usage(out)
			return 2
		}
		if err := scale(args[1:], cfg.Viewer.ZoomDefaults(), out); err != nil {
			l.Error("scale failed", slog.Any("err", err))
			_, _ = fmt.Fprintln(out, "Error:", err)
			return 1
		}
		return 0
	case "modes":
		for _, m := range zoom.Modes() {
			_, _ = fmt.Fprintf(out, "%-26s %s\n", m.String(), m.Label())
		}
		return 0
	case "config":
		showConfig(cfg, out)
		return 0
	}
	usage(out)
	return 2
}

func probe(paths []string, out io.Writer, l *slog.Logger) int {
	code := 0
	for _, p := range paths {
		info, err := imagefile.Probe(p)
		if err != nil {
			l.Warn("probe failed", slog.String("path", p), slog.Any("err", err))
			_, _ = fmt.Fprintf(out, "%s: %v\n", p, err)
			code = 1
			continue
		}
		_, _ = fmt.Fprintf(out, "%s: %s %dx%d\n", info.Path, info.Format, info.Width, info.Height)
	}
	return code
}

func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want <W>x<H>", s)
	}
	if w, err = strconv.Atoi(ws); err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if h, err = strconv.Atoi(hs); err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	return w, h, nil
}

// surface is a fixed-size, always laid out renderer for headless layout.
type surface struct{ w, h int }

func (s surface) SurfaceSize() (int, int) { return s.w, s.h }
func (s surface) SurfaceReady() bool      { return true }
func (s surface) RequestRepaint()         {}

func scale(args []string, d zoom.Defaults, out io.Writer) error {
	info, err := imagefile.Probe(args[0])
	if err != nil {
		return err
	}
	sw, sh, err := parseSize(args[1])
	if err != nil {
		return err
	}
	mode := d.Mode
	if len(args) >= 3 {
		if mode, err = zoom.ParseMode(args[2]); err != nil {
			return err
		}
	}
	if len(args) >= 4 {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(args[3], "%"), 64)
		if err != nil {
			return fmt.Errorf("percentage %q: %w", args[3], err)
		}
		d.CustomPercentage = pct
	}

	ws := workspace.New(d)
	ctx := ws.Active()
	ctx.SetImage(&workspace.Image{Key: info.Path, Width: info.Width, Height: info.Height})
	eng := zoom.NewEngine(surface{w: sw, h: sh})
	eng.ApplyMode(ctx, mode)

	v := ctx.ViewState()
	r := zoom.Layout(v, info.Width, info.Height, sw, sh)
	_, _ = fmt.Fprintf(out, "image:   %s (%dx%d)\n", info.Path, info.Width, info.Height)
	_, _ = fmt.Fprintf(out, "surface: %dx%d\n", sw, sh)
	_, _ = fmt.Fprintf(out, "mode:    %s\n", mode.Label())
	if v.Stretched() {
		sx, sy := zoom.ComputeAxisScales(v, info.Width, info.Height, sw, sh)
		_, _ = fmt.Fprintf(out, "scale:   %.4f x %.4f (stretched)\n", sx, sy)
	} else {
		_, _ = fmt.Fprintf(out, "scale:   %.4f (%.1f%%)\n", v.Scale(), v.Scale()*100)
	}
	_, _ = fmt.Fprintf(out, "drawn:   %.0fx%.0f at (%.0f,%.0f)\n", r.W, r.H, r.X, r.Y)
	return nil
}

func showConfig(cfg config.AppConfig, out io.Writer) {
	path, err := config.ConfigPath()
	if err != nil {
		path = "(unavailable: " + err.Error() + ")"
	}
	d := cfg.Viewer.ZoomDefaults()
	_, _ = fmt.Fprintf(out, "config file:       %s\n", path)
	_, _ = fmt.Fprintf(out, "start mode:        %s%s\n", cfg.General.StartMode, overridden("general.start_mode"))
	_, _ = fmt.Fprintf(out, "zoom mode:         %s%s\n", d.Mode, overridden("viewer.zoom_mode"))
	_, _ = fmt.Fprintf(out, "custom percentage: %g%s\n", d.CustomPercentage, overridden("viewer.custom_percentage"))
	_, _ = fmt.Fprintf(out, "manual zoom:       %t%s\n", d.ManualZoom, overridden("viewer.manual_zoom"))
	_, _ = fmt.Fprintf(out, "zoom to cursor:    %t\n", d.ZoomToCursor)
	_, _ = fmt.Fprintf(out, "preserve aspect:   %t\n", d.PreserveAspect)
	_, _ = fmt.Fprintf(out, "log level:         %s%s\n", cfg.Logging.Level, overridden("logging.level"))
}

func overridden(key string) string {
	if env, ok := config.EnvOverrideFor(key); ok {
		return " (from " + env + ")"
	}
	return ""
}
