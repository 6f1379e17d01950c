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

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"pixview/internal/workspace"
	"pixview/internal/zoom"
)

// scrollPerNotch is the ScrollEvent distance the desktop driver reports for one wheel notch.
const scrollPerNotch = 10

// imageView draws the active context's image and feeds pointer input to the engine.
// It implements zoom.Renderer.
type imageView struct {
	widget.BaseWidget

	ws    *workspace.Workspace
	eng   *zoom.Engine
	ready bool
	// modifiers reports the keyboard modifiers held during a scroll.
	modifiers func() fyne.KeyModifier

	OnChanged func()
}

func newImageView(ws *workspace.Workspace) *imageView {
	v := &imageView{ws: ws, modifiers: currentModifiers}
	v.ExtendBaseWidget(v)
	return v
}

func currentModifiers() fyne.KeyModifier {
	if a := fyne.CurrentApp(); a != nil {
		if d, ok := a.Driver().(desktop.Driver); ok {
			return d.CurrentKeyModifiers()
		}
	}
	return 0
}

func (v *imageView) SurfaceSize() (w, h int) {
	s := v.Size()
	return int(s.Width), int(s.Height)
}

func (v *imageView) SurfaceReady() bool { return v.ready }

func (v *imageView) RequestRepaint() {
	v.Refresh()
	if v.OnChanged != nil {
		v.OnChanged()
	}
}

// MinSize keeps the view usable when the window is small.
func (v *imageView) MinSize() fyne.Size { return fyne.NewSize(320, 240) }

// Resize forwards surface changes to the engine once the view has a real width.
func (v *imageView) Resize(s fyne.Size) {
	v.BaseWidget.Resize(s)
	if s.Width < 1 {
		return
	}
	v.ready = true
	if v.eng != nil {
		v.eng.SurfaceResized(v.ws.Active())
	}
}

func toModifier(m fyne.KeyModifier) zoom.Modifier {
	var out zoom.Modifier
	if m&fyne.KeyModifierShift != 0 {
		out |= zoom.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= zoom.ModControl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= zoom.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= zoom.ModSuper
	}
	return out
}

func toPoint(p fyne.Position) zoom.Point { return zoom.Pt(float64(p.X), float64(p.Y)) }

// Scrolled routes the wheel through the engine's modifier table.
// Fyne reports wheel-up as positive DY, the engine expects it negative.
func (v *imageView) Scrolled(e *fyne.ScrollEvent) {
	if v.eng == nil || e.Scrolled.DY == 0 {
		return
	}
	v.eng.Wheel(v.ws.Active(), zoom.WheelEvent{
		Delta:     -float64(e.Scrolled.DY) / scrollPerNotch,
		Cursor:    toPoint(e.Position),
		Modifiers: toModifier(v.modifiers()),
	})
}

func (v *imageView) MouseDown(e *desktop.MouseEvent) {
	if v.eng != nil && e.Button == desktop.MouseButtonPrimary {
		v.eng.BeginPan(toPoint(e.Position))
	}
}

func (v *imageView) MouseUp(*desktop.MouseEvent) {
	if v.eng != nil {
		v.eng.EndPan()
	}
}

func (v *imageView) Dragged(e *fyne.DragEvent) {
	if v.eng != nil {
		v.eng.ContinuePan(v.ws.Active(), toPoint(e.Position))
	}
}

func (v *imageView) DragEnd() {
	if v.eng != nil {
		v.eng.EndPan()
	}
}

func (v *imageView) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleSmooth
	hint := canvas.NewText("No image", color.Gray{Y: 160})
	hint.Alignment = fyne.TextAlignCenter
	return &imageViewRenderer{v: v, bg: bg, img: img, hint: hint, objects: []fyne.CanvasObject{bg, img, hint}}
}

// imageViewRenderer places the bitmap where the view state says it belongs.
type imageViewRenderer struct {
	v       *imageView
	bg      *canvas.Rectangle
	img     *canvas.Image
	hint    *canvas.Text
	objects []fyne.CanvasObject
	key     string
}

func (r *imageViewRenderer) Destroy()                     {}
func (r *imageViewRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *imageViewRenderer) MinSize() fyne.Size           { return r.v.MinSize() }

func (r *imageViewRenderer) Refresh() {
	cur := r.v.ws.Active().Image()
	switch {
	case cur == nil:
		r.key = ""
		r.img.Image = nil
	case cur.Key != r.key:
		r.key = cur.Key
		r.img.Image = cur.Bitmap
	}
	r.Layout(r.v.Size())
	r.img.Refresh()
	canvas.Refresh(r.v)
}

func (r *imageViewRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.hint.Resize(size)
	r.hint.Move(fyne.NewPos(0, 0))

	ctx := r.v.ws.Active()
	iw, ih, ok := ctx.CurrentImageDimensions()
	if !ok || r.img.Image == nil {
		r.img.Hide()
		r.hint.Show()
		return
	}
	r.hint.Hide()
	rect := zoom.Layout(ctx.ViewState(), iw, ih, int(size.Width), int(size.Height))
	r.img.Move(fyne.NewPos(float32(rect.X), float32(rect.Y)))
	r.img.Resize(fyne.NewSize(float32(rect.W), float32(rect.H)))
	r.img.Show()
}
