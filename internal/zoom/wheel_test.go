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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	b := DefaultWheelBindings()
	tests := []struct {
		name string
		mods Modifier
		want WheelAction
	}{
		{"none", 0, WheelZoomAction},
		{"both", ModShift | ModControl, WheelZoomAction},
		{"horizontal", ModShift, WheelPanHorizontal},
		{"vertical", ModControl, WheelPanVertical},
		{"unbound modifier", ModAlt, WheelZoomAction},
		{"vertical plus unbound", ModControl | ModAlt, WheelPanVertical},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Route(WheelEvent{Delta: -1, Modifiers: tc.mods}, b))
		})
	}
	assert.Equal(t, WheelZoomAction, Route(WheelEvent{Modifiers: ModShift}, WheelBindings{}))
}

func TestWheelDispatch(t *testing.T) {
	r := &fakeRenderer{w: 500, h: 400}
	e := newEngine(r)
	tg := newTarget(1000, 800)

	e.Wheel(tg, WheelEvent{Delta: -1, Modifiers: ModShift})
	x, y := tg.v.Pan()
	assert.Equal(t, DefaultPanStep, x)
	assert.Equal(t, 0, y)

	e.Wheel(tg, WheelEvent{Delta: 2, Modifiers: ModControl})
	x, y = tg.v.Pan()
	assert.Equal(t, DefaultPanStep, x)
	assert.Equal(t, -2*DefaultPanStep, y)
	assert.Equal(t, 1.0, tg.v.Scale())

	e.Wheel(tg, WheelEvent{Delta: -1, Modifiers: ModShift | ModControl, Cursor: Pt(250, 200)})
	assert.InDelta(t, 1.1, tg.v.Scale(), 1e-9)
}

func TestWheelCustomBindingsAndStep(t *testing.T) {
	r := &fakeRenderer{w: 500, h: 400}
	e := newEngine(r, WithWheelBindings(WheelBindings{Horizontal: ModAlt, Vertical: ModSuper}), WithPanStep(12))
	tg := newTarget(1000, 800)

	e.Wheel(tg, WheelEvent{Delta: -1, Modifiers: ModSuper})
	_, y := tg.v.Pan()
	assert.Equal(t, 12, y)

	e.Wheel(tg, WheelEvent{Delta: -1, Modifiers: ModShift})
	assert.InDelta(t, 1.1, tg.v.Scale(), 1e-9, "shift is unbound here so the wheel zooms")
}
