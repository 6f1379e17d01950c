/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package zoom

import (
	"fmt"
	"log/slog"

	applog "pixview/internal/log"
)

// WheelStep is the scale ratio of one wheel notch.
const WheelStep = 1.1

// Renderer owns the display surface. The engine calls it synchronously.
type Renderer interface {
	SurfaceSize() (w, h int)
	SurfaceReady() bool
	RequestRepaint()
}

// ImageSource reports the pixel size of the currently displayed image.
type ImageSource interface {
	CurrentImageDimensions() (w, h int, ok bool)
}

// Target is what engine operations act on: a view state plus its displayed image.
type Target interface {
	ImageSource
	ViewState() *ViewState
}

// Engine applies zoom and pan operations to a Target's ViewState.
// It is not safe for concurrent use; all calls are expected on the UI thread.
type Engine struct {
	r        Renderer
	sync     func()
	log      *slog.Logger
	bindings WheelBindings
	panStep  int

	// pending is the one-shot startup listener: the target whose mode is
	// re-applied on the first resize that reports a positive width.
	pending Target

	panning bool
	last    Point
}

// Option configures an Engine.
type Option func(*Engine)

// WithSyncFunc installs the UI sync callback fired after mode or manual-zoom changes.
func WithSyncFunc(fn func()) Option { return func(e *Engine) { e.sync = fn } }

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithWheelBindings(b WheelBindings) Option { return func(e *Engine) { e.bindings = b } }

// WithPanStep sets the pixels panned per wheel notch. Non-positive values keep the default.
func WithPanStep(px int) Option {
	return func(e *Engine) {
		if px > 0 {
			e.panStep = px
		}
	}
}

// NewEngine builds an engine painting through r. It panics if r is nil.
func NewEngine(r Renderer, opts ...Option) *Engine {
	if r == nil {
		panic("zoom: NewEngine requires a Renderer")
	}
	e := &Engine{
		r:        r,
		bindings: DefaultWheelBindings(),
		panStep:  DefaultPanStep,
	}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = applog.WithComponent("zoom")
	}
	return e
}

func (e *Engine) state(t Target, op string) *ViewState {
	if t == nil {
		panic(fmt.Sprintf("zoom: %s called without a target", op))
	}
	v := t.ViewState()
	if v == nil {
		panic(fmt.Sprintf("zoom: %s called on a target without view state", op))
	}
	return v
}

func (e *Engine) notify() {
	if e.sync != nil {
		e.sync()
	}
}

// Pending reports whether a mode application is waiting for the surface to lay out.
func (e *Engine) Pending() bool { return e.pending != nil }

// ApplyMode switches t to mode m and recomputes its scale.
//
// MaintainCurrentZoom captures the live scale as the custom percentage.
// UserSpecifiedPercentage sets the scale from the custom percentage. Both keep
// the pan offset. Every other mode computes its scale and recenters.
func (e *Engine) ApplyMode(t Target, m Mode) {
	v := e.state(t, "ApplyMode")
	if !m.valid() {
		panic(fmt.Sprintf("zoom: ApplyMode with invalid mode %d", int(m)))
	}
	changed := v.mode != m
	switch m {
	case MaintainCurrentZoom:
		v.setCustomPercentage(v.scale * 100)
		v.setScale(v.scale)
		v.stretch = false
	case UserSpecifiedPercentage:
		v.setScale(v.custom / 100.0)
		v.stretch = false
	default:
		iw, ih, _ := t.CurrentImageDimensions()
		sw, sh := e.r.SurfaceSize()
		v.setScale(ComputeScale(m, iw, ih, sw, sh, v.scale, v.aspect, v.custom))
		v.resetPan()
		v.stretch = !v.aspect && m.stretches()
	}
	v.mode = m
	if !e.r.SurfaceReady() {
		e.pending = t
	}
	e.log.Debug("apply mode", slog.String("mode", m.String()), slog.Float64("scale", v.scale), slog.Bool("pending", e.pending != nil))
	if changed {
		e.notify()
	}
	e.r.RequestRepaint()
}

// relayout recomputes the scale of surface-driven modes without re-running the
// entry side effects of MaintainCurrentZoom and UserSpecifiedPercentage.
func (e *Engine) relayout(t Target, v *ViewState, resetPan bool) {
	if v.mode == DisplayOriginal || v.mode.SurfaceDependent() {
		iw, ih, _ := t.CurrentImageDimensions()
		sw, sh := e.r.SurfaceSize()
		v.setScale(ComputeScale(v.mode, iw, ih, sw, sh, v.scale, v.aspect, v.custom))
		v.stretch = !v.aspect && v.mode.stretches()
	}
	if resetPan {
		v.resetPan()
	}
}

// SurfaceResized reacts to a change of the display surface size. The first
// resize with a positive width fires the startup listener once; later resizes
// refit t when its mode depends on the surface.
func (e *Engine) SurfaceResized(t Target) {
	v := e.state(t, "SurfaceResized")
	if w, _ := e.r.SurfaceSize(); w <= 0 {
		return
	}
	if p := e.pending; p != nil {
		e.pending = nil
		pv := e.state(p, "SurfaceResized")
		// same pan rule as ApplyMode: the two locked modes keep it
		e.relayout(p, pv, pv.mode == DisplayOriginal || pv.mode.SurfaceDependent())
		e.log.Debug("surface ready", slog.String("mode", pv.mode.String()))
		e.r.RequestRepaint()
		if p == t {
			return
		}
	}
	if !v.mode.SurfaceDependent() {
		return
	}
	e.relayout(t, v, false)
	e.r.RequestRepaint()
}

// ImageChanged refits t after a new image was installed and recenters it.
func (e *Engine) ImageChanged(t Target) {
	v := e.state(t, "ImageChanged")
	e.relayout(t, v, true)
	if !e.r.SurfaceReady() {
		e.pending = t
	}
	e.r.RequestRepaint()
}

// ImageReloaded repaints t after the image it already showed was installed
// again, e.g. on returning to a work mode. The view state is left as it was.
func (e *Engine) ImageReloaded(t Target) {
	e.state(t, "ImageReloaded")
	e.r.RequestRepaint()
}

// WheelZoom zooms one notch: delta < 0 zooms in, delta > 0 zooms out. With
// zoom-to-cursor enabled the image point under cursor stays under cursor.
// It does nothing unless manual zoom is enabled and an image is displayed.
func (e *Engine) WheelZoom(t Target, delta float64, cursor Point) {
	v := e.state(t, "WheelZoom")
	e.zoomStep(t, v, delta, cursor, v.cursor)
}

// ZoomIn zooms one notch in around the image anchor.
func (e *Engine) ZoomIn(t Target) {
	e.zoomStep(t, e.state(t, "ZoomIn"), -1, Point{}, false)
}

// ZoomOut zooms one notch out around the image anchor.
func (e *Engine) ZoomOut(t Target) {
	e.zoomStep(t, e.state(t, "ZoomOut"), 1, Point{}, false)
}

func (e *Engine) zoomStep(t Target, v *ViewState, delta float64, cursor Point, anchored bool) {
	if !v.manual || delta == 0 {
		return
	}
	iw, ih, ok := t.CurrentImageDimensions()
	if !ok {
		return
	}
	old := v.scale
	next := old / WheelStep
	if delta < 0 {
		next = old * WheelStep
	}
	next = ClampScale(next)

	sw, sh := e.r.SurfaceSize()
	if anchored && !degenerate(iw, ih, sw, sh) {
		// Fraction of the (possibly stretched) image under the cursor, then
		// solve for the pan that puts the same fraction back under it.
		r := Layout(v, iw, ih, sw, sh)
		fx := (cursor.X - r.X) / r.W
		fy := (cursor.Y - r.Y) / r.H
		nw := float64(iw) * next
		nh := float64(ih) * next
		v.setPan(
			round(cursor.X-fx*nw-(float64(sw)-nw)/2),
			round(cursor.Y-fy*nh-(float64(sh)-nh)/2),
		)
	}
	v.stretch = false
	v.setScale(next)
	if v.mode == MaintainCurrentZoom {
		v.setCustomPercentage(v.scale * 100)
	}
	e.r.RequestRepaint()
}

// BeginPan records the start point of a drag.
func (e *Engine) BeginPan(p Point) {
	e.panning = true
	e.last = p
}

// ContinuePan pans t by the movement since the previous point and returns the
// applied delta. Without a preceding BeginPan it starts a drag at p.
func (e *Engine) ContinuePan(t Target, p Point) (dx, dy int) {
	e.state(t, "ContinuePan")
	if !e.panning {
		e.BeginPan(p)
		return 0, 0
	}
	dx = round(p.X - e.last.X)
	dy = round(p.Y - e.last.Y)
	// advance by whole pixels so sub-pixel motion accumulates
	e.last.X += float64(dx)
	e.last.Y += float64(dy)
	e.ApplyPan(t, dx, dy)
	return dx, dy
}

// EndPan finishes the current drag.
func (e *Engine) EndPan() { e.panning = false }

// ApplyPan adds (dx, dy) to the pan offset. Pan is not clamped.
func (e *Engine) ApplyPan(t Target, dx, dy int) {
	v := e.state(t, "ApplyPan")
	if !v.manual || (dx == 0 && dy == 0) {
		return
	}
	if _, _, ok := t.CurrentImageDimensions(); !ok {
		return
	}
	v.setPan(v.panX+dx, v.panY+dy)
	e.r.RequestRepaint()
}

// SetManualZoomEnabled gates wheel zoom and drag pan. Disabling resets scale to
// 1.0 and pan to (0,0). It reports whether the stored flag changed.
func (e *Engine) SetManualZoomEnabled(t Target, on bool) bool {
	v := e.state(t, "SetManualZoomEnabled")
	changed := v.manual != on
	v.manual = on
	if !on {
		v.setScale(DefaultScale)
		v.resetPan()
		v.stretch = false
	}
	if changed {
		e.notify()
	}
	if changed || !on {
		e.r.RequestRepaint()
	}
	return changed
}

// SetZoomToCursorEnabled selects cursor-anchored wheel zoom and reports whether it changed.
func (e *Engine) SetZoomToCursorEnabled(t Target, on bool) bool {
	v := e.state(t, "SetZoomToCursorEnabled")
	if v.cursor == on {
		return false
	}
	v.cursor = on
	return true
}

// SetPreserveAspectRatio toggles aspect preservation and refits surface-driven modes.
func (e *Engine) SetPreserveAspectRatio(t Target, on bool) bool {
	v := e.state(t, "SetPreserveAspectRatio")
	if v.aspect == on {
		return false
	}
	v.aspect = on
	if v.mode.SurfaceDependent() {
		e.relayout(t, v, false)
		e.r.RequestRepaint()
	}
	return true
}

// SetCustomPercentage stores the user percentage. The scale is untouched until
// UserSpecifiedPercentage is applied.
func (e *Engine) SetCustomPercentage(t Target, pct float64) {
	e.state(t, "SetCustomPercentage").setCustomPercentage(pct)
}
