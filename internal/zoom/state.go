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

import "math"

// Scale bounds. Every scale write is clamped into [MinScale, MaxScale].
const (
	MinScale     = 0.01
	MaxScale     = 50.0
	DefaultScale = 1.0

	// MinPercentage and MaxPercentage bound the user-entered custom percentage.
	MinPercentage = MinScale * 100
	MaxPercentage = MaxScale * 100
)

// ClampScale limits s to [MinScale, MaxScale]. NaN maps to DefaultScale.
func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return DefaultScale
	}
	return math.Min(MaxScale, math.Max(MinScale, s))
}

// ClampPercentage limits p to [MinPercentage, MaxPercentage]. NaN maps to 100.
func ClampPercentage(p float64) float64 {
	if math.IsNaN(p) {
		return DefaultScale * 100
	}
	return math.Min(MaxPercentage, math.Max(MinPercentage, p))
}

// Defaults seeds a new ViewState. They normally come from the user config.
type Defaults struct {
	Mode             Mode
	CustomPercentage float64
	ManualZoom       bool
	ZoomToCursor     bool
	PreserveAspect   bool
}

// DefaultDefaults returns the built-in seed used when no config is available.
func DefaultDefaults() Defaults {
	return Defaults{
		Mode:             FitToScreen,
		CustomPercentage: 100,
		ManualZoom:       true,
		ZoomToCursor:     true,
		PreserveAspect:   true,
	}
}

// ViewState is the zoom/pan record of one work mode. It is mutated only by Engine.
type ViewState struct {
	scale   float64
	panX    int
	panY    int
	mode    Mode
	manual  bool
	cursor  bool
	aspect  bool
	custom  float64
	stretch bool
}

// NewViewState returns a state at scale 1.0 and pan (0,0) seeded from d.
func NewViewState(d Defaults) *ViewState {
	if !d.Mode.valid() {
		d.Mode = FitToScreen
	}
	return &ViewState{
		scale:  DefaultScale,
		mode:   d.Mode,
		manual: d.ManualZoom,
		cursor: d.ZoomToCursor,
		aspect: d.PreserveAspect,
		custom: ClampPercentage(d.CustomPercentage),
	}
}

func (v *ViewState) Scale() float64                { return v.scale }
func (v *ViewState) Pan() (x, y int)               { return v.panX, v.panY }
func (v *ViewState) Mode() Mode                    { return v.mode }
func (v *ViewState) ManualZoomEnabled() bool       { return v.manual }
func (v *ViewState) ZoomToCursorEnabled() bool     { return v.cursor }
func (v *ViewState) PreserveAspectRatio() bool     { return v.aspect }
func (v *ViewState) CustomPercentage() float64     { return v.custom }
func (v *ViewState) Stretched() bool               { return v.stretch }
func (v *ViewState) setScale(s float64)            { v.scale = ClampScale(s) }
func (v *ViewState) setPan(x, y int)               { v.panX, v.panY = x, y }
func (v *ViewState) resetPan()                     { v.panX, v.panY = 0, 0 }
func (v *ViewState) setCustomPercentage(p float64) { v.custom = ClampPercentage(p) }

// Snapshot is a plain copy of a ViewState used for crash reports and session persistence.
type Snapshot struct {
	Scale            float64 `json:"scale" yaml:"scale"`
	PanX             int     `json:"panX" yaml:"pan_x"`
	PanY             int     `json:"panY" yaml:"pan_y"`
	Mode             Mode    `json:"mode" yaml:"mode"`
	ManualZoom       bool    `json:"manualZoom" yaml:"manual_zoom"`
	ZoomToCursor     bool    `json:"zoomToCursor" yaml:"zoom_to_cursor"`
	PreserveAspect   bool    `json:"preserveAspect" yaml:"preserve_aspect"`
	CustomPercentage float64 `json:"customPercentage" yaml:"custom_percentage"`
	Stretched        bool    `json:"stretched,omitempty" yaml:"stretched,omitempty"`
}

// Snapshot copies the current values.
func (v *ViewState) Snapshot() Snapshot {
	return Snapshot{
		Scale:            v.scale,
		PanX:             v.panX,
		PanY:             v.panY,
		Mode:             v.mode,
		ManualZoom:       v.manual,
		ZoomToCursor:     v.cursor,
		PreserveAspect:   v.aspect,
		CustomPercentage: v.custom,
		Stretched:        v.stretch,
	}
}

// RestoreViewState rebuilds a ViewState from a snapshot, re-applying the clamps.
func RestoreViewState(s Snapshot) *ViewState {
	v := NewViewState(Defaults{
		Mode:             s.Mode,
		CustomPercentage: s.CustomPercentage,
		ManualZoom:       s.ManualZoom,
		ZoomToCursor:     s.ZoomToCursor,
		PreserveAspect:   s.PreserveAspect,
	})
	v.setScale(s.Scale)
	v.setPan(s.PanX, s.PanY)
	v.stretch = s.Stretched && !s.PreserveAspect && v.mode.stretches()
	return v
}
