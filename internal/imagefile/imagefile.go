/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package imagefile reads image headers and bitmaps from disk. It backs the
// workspace list contexts and the displayed-image dimensions the zoom engine needs.
package imagefile

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	// standard formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// extended formats from x/image
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/sync/errgroup"

	applog "pixview/internal/log"
)

// ErrUnsupported is returned for files whose extension or header is not a known image format.
var ErrUnsupported = errors.New("unsupported image format")

// DefaultScanLimit bounds concurrent header reads in ScanDir.
const DefaultScanLimit = 8

var supportedExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Info describes an image file without its pixel data.
type Info struct {
	Path   string
	Format string
	Width  int
	Height int
}

// Supported reports whether path has a known image extension.
func Supported(path string) bool {
	return supportedExt[strings.ToLower(filepath.Ext(path))]
}

// Probe reads only the header of the image at path.
func Probe(path string) (Info, error) {
	if !Supported(path) {
		return Info{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Info{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
		}
		return Info{}, fmt.Errorf("decode header %s: %w", filepath.Base(path), err)
	}
	return Info{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Load decodes the full bitmap at path.
func Load(path string) (image.Image, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()
	img, format, err := image.Decode(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, Info{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
		}
		return nil, Info{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	b := img.Bounds()
	return img, Info{Path: path, Format: format, Width: b.Dx(), Height: b.Dy()}, nil
}

// ScanDir probes every supported file directly inside dir, at most limit at a
// time, and returns them sorted by path. Unreadable files are skipped.
func ScanDir(ctx context.Context, dir string, limit int) ([]Info, error) {
	l := applog.WithOperation(applog.WithComponent("imagefile"), "scan").With(slog.String("dir", dir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	if limit <= 0 {
		limit = DefaultScanLimit
	}

	var (
		mu  sync.Mutex
		out []Info
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info, err := Probe(path)
			if err != nil {
				l.Debug("skip file", slog.String("path", path), slog.Any("err", err))
				return nil
			}
			mu.Lock()
			out = append(out, info)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	l.Debug("scan done", slog.Int("images", len(out)))
	return out, nil
}

// Paths returns the paths of infos in order.
func Paths(infos []Info) []string {
	out := make([]string, len(infos))
	for i, in := range infos {
		out[i] = in.Path
	}
	return out
}
