//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne image view. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"pixview/internal/workspace"
	"pixview/internal/zoom"
)

func almostEqual(a, b, eps float32) bool {
	if a > b {
		return a-b <= eps
	}
	return b-a <= eps
}

func newTestView(t *testing.T) (*imageView, *workspace.Workspace) {
	t.Helper()
	test.NewApp()
	ws := workspace.New(zoom.DefaultDefaults())
	v := newImageView(ws)
	v.modifiers = func() fyne.KeyModifier { return 0 }
	v.eng = zoom.NewEngine(v)
	ws.Active().SetImage(&workspace.Image{Key: "a.png", Width: 1000, Height: 800, Bitmap: image.NewRGBA(image.Rect(0, 0, 1000, 800))})
	return v, ws
}

func TestImageView_ReadyAfterFirstResize(t *testing.T) {
	v, ws := newTestView(t)
	if v.SurfaceReady() {
		t.Fatalf("view ready before layout")
	}
	v.eng.ApplyMode(ws.Active(), zoom.FitToScreen)
	if !v.eng.Pending() {
		t.Fatalf("expected pending mode application before layout")
	}
	v.Resize(fyne.NewSize(800, 400))
	if !v.SurfaceReady() || v.eng.Pending() {
		t.Fatalf("resize did not fire the pending mode")
	}
	if got := ws.Active().ViewState().Scale(); got != 0.5 {
		t.Fatalf("FitToScreen scale = %v, want 0.5", got)
	}
}

func TestImageView_LayoutCentersImage(t *testing.T) {
	v, ws := newTestView(t)
	v.Resize(fyne.NewSize(800, 400))
	v.eng.ApplyMode(ws.Active(), zoom.FitToScreen)

	r, ok := test.WidgetRenderer(v).(*imageViewRenderer)
	if !ok {
		t.Fatalf("expected imageViewRenderer, got %T", test.WidgetRenderer(v))
	}
	r.Refresh()
	pos, size := r.img.Position(), r.img.Size()
	if !almostEqual(size.Width, 500, 0.5) || !almostEqual(size.Height, 400, 0.5) {
		t.Fatalf("image size = %v, want 500x400", size)
	}
	if !almostEqual(pos.X, 150, 0.5) || !almostEqual(pos.Y, 0, 0.5) {
		t.Fatalf("image position = %v, want (150,0)", pos)
	}
	if r.hint.Visible() {
		t.Fatalf("hint visible while an image is shown")
	}
}

func TestImageView_ScrollZoomsAndShiftPans(t *testing.T) {
	v, ws := newTestView(t)
	v.Resize(fyne.NewSize(800, 400))
	v.eng.ApplyMode(ws.Active(), zoom.FitToScreen)
	vs := ws.Active().ViewState()

	v.Scrolled(&fyne.ScrollEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(400, 200)}, Scrolled: fyne.NewDelta(0, scrollPerNotch)})
	if got := vs.Scale(); got <= 0.5 {
		t.Fatalf("wheel up should zoom in, scale = %v", got)
	}

	v.modifiers = func() fyne.KeyModifier { return fyne.KeyModifierShift }
	x0, _ := vs.Pan()
	v.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, -scrollPerNotch)})
	if x1, _ := vs.Pan(); x1 != x0-zoom.DefaultPanStep {
		t.Fatalf("shift+wheel down pan x = %d, want %d", x1, x0-zoom.DefaultPanStep)
	}
}

func TestImageView_DragPans(t *testing.T) {
	v, ws := newTestView(t)
	v.Resize(fyne.NewSize(800, 400))
	v.eng.ApplyMode(ws.Active(), zoom.FitToScreen)

	v.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 100)}, Button: desktop.MouseButtonPrimary})
	v.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(130, 90)}})
	v.DragEnd()
	if x, y := ws.Active().ViewState().Pan(); x != 30 || y != -10 {
		t.Fatalf("pan after drag = (%d,%d), want (30,-10)", x, y)
	}
}
