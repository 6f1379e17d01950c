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
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixview/internal/config"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	return path
}

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("800X600")
	require.NoError(t, err)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	for _, bad := range []string{"800", "ax600", "800xb", ""} {
		_, _, err := parseSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestRunScaleFitToScreen(t *testing.T) {
	path := writePNG(t, 1000, 800)
	var out bytes.Buffer
	code := run([]string{"scale", path, "800x400", "fit_to_screen"}, config.Defaults(), &out)
	require.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "scale:   0.5000 (50.0%)")
	assert.Contains(t, out.String(), "drawn:   500x400 at (150,0)")
}

func TestRunScaleStretchesWithoutAspect(t *testing.T) {
	path := writePNG(t, 1000, 800)
	cfg := config.Defaults()
	off := false
	cfg.Viewer.PreserveAspect = &off
	var out bytes.Buffer
	code := run([]string{"scale", path, "800x400", "fill"}, cfg, &out)
	require.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "(stretched)")
	assert.Contains(t, out.String(), "drawn:   800x400 at (0,0)")
}

func TestRunScaleUserPercentage(t *testing.T) {
	path := writePNG(t, 200, 100)
	var out bytes.Buffer
	code := run([]string{"scale", path, "800x400", "user_specified_percentage", "250%"}, config.Defaults(), &out)
	require.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "scale:   2.5000 (250.0%)")
}

func TestRunScaleRejectsBadMode(t *testing.T) {
	path := writePNG(t, 10, 10)
	var out bytes.Buffer
	assert.Equal(t, 1, run([]string{"scale", path, "10x10", "zoomy"}, config.Defaults(), &out))
	assert.Contains(t, out.String(), "Error:")
}

func TestRunProbe(t *testing.T) {
	path := writePNG(t, 64, 32)
	var out bytes.Buffer
	code := run([]string{"probe", path, filepath.Join(t.TempDir(), "missing.png")}, config.Defaults(), &out)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "png 64x32")
}

func TestRunModesAndUsage(t *testing.T) {
	var out bytes.Buffer
	require.Equal(t, 0, run([]string{"modes"}, config.Defaults(), &out))
	assert.Contains(t, out.String(), "maintain_current_zoom")

	out.Reset()
	assert.Equal(t, 2, run([]string{"bogus"}, config.Defaults(), &out))
	assert.Contains(t, out.String(), "Usage:")
}
