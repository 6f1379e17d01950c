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

// DefaultPanStep is the number of pixels one wheel notch pans along an axis.
const DefaultPanStep = 30

// Modifier is a bitmask of keyboard modifiers held during a wheel event.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// WheelBindings selects which modifier pans along which axis. Holding both
// zooms; holding neither zooms as well.
type WheelBindings struct {
	Horizontal Modifier
	Vertical   Modifier
}

func DefaultWheelBindings() WheelBindings {
	return WheelBindings{Horizontal: ModShift, Vertical: ModControl}
}

// WheelEvent is one wheel notch (or fraction of one for precise devices).
type WheelEvent struct {
	Delta     float64
	Cursor    Point
	Modifiers Modifier
}

// WheelAction is the result of routing a wheel event.
type WheelAction int

const (
	WheelZoomAction WheelAction = iota
	WheelPanHorizontal
	WheelPanVertical
)

// Route maps the modifier state of ev to a wheel action.
func Route(ev WheelEvent, b WheelBindings) WheelAction {
	h := b.Horizontal != 0 && ev.Modifiers&b.Horizontal != 0
	v := b.Vertical != 0 && ev.Modifiers&b.Vertical != 0
	switch {
	case h && !v:
		return WheelPanHorizontal
	case v && !h:
		return WheelPanVertical
	default:
		return WheelZoomAction
	}
}

// Wheel dispatches a wheel event on t to zoom or a fixed-step pan.
func (e *Engine) Wheel(t Target, ev WheelEvent) {
	e.state(t, "Wheel")
	step := int(math.Round(-ev.Delta * float64(e.panStep)))
	switch Route(ev, e.bindings) {
	case WheelPanHorizontal:
		e.ApplyPan(t, step, 0)
	case WheelPanVertical:
		e.ApplyPan(t, 0, step)
	default:
		e.WheelZoom(t, ev.Delta, ev.Cursor)
	}
}
