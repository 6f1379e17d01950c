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

// Point is a position in display-surface pixels.
type Point struct{ X, Y float64 }

// Size is a width/height pair in pixels.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle defined by its min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

func (r Rect) Min() Point { return Point{r.X, r.Y} }
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// origin returns the top-left corner of an image of the given scaled size,
// centered on a surface and shifted by the pan offset.
func origin(surface, scaled float64, pan int) float64 {
	return (surface-scaled)/2 + float64(pan)
}

// Layout returns where the image is drawn on the surface for the given state.
// A stretched state covers the whole surface (shifted by pan).
func Layout(v *ViewState, imageW, imageH, surfaceW, surfaceH int) Rect {
	sx, sy := ComputeAxisScales(v, imageW, imageH, surfaceW, surfaceH)
	w := float64(imageW) * sx
	h := float64(imageH) * sy
	return Rect{
		X: origin(float64(surfaceW), w, v.panX),
		Y: origin(float64(surfaceH), h, v.panY),
		W: w,
		H: h,
	}
}

// ImageToScreen maps an image-space pixel to surface coordinates.
func ImageToScreen(v *ViewState, imageW, imageH, surfaceW, surfaceH int, p Point) Point {
	sx, sy := ComputeAxisScales(v, imageW, imageH, surfaceW, surfaceH)
	r := Layout(v, imageW, imageH, surfaceW, surfaceH)
	return Point{X: r.X + p.X*sx, Y: r.Y + p.Y*sy}
}

// ScreenToImage maps a surface point back to image-space pixels.
// ok is false when the geometry is degenerate.
func ScreenToImage(v *ViewState, imageW, imageH, surfaceW, surfaceH int, p Point) (Point, bool) {
	sx, sy := ComputeAxisScales(v, imageW, imageH, surfaceW, surfaceH)
	if sx <= 0 || sy <= 0 || imageW <= 0 || imageH <= 0 {
		return Point{}, false
	}
	r := Layout(v, imageW, imageH, surfaceW, surfaceH)
	return Point{X: (p.X - r.X) / sx, Y: (p.Y - r.Y) / sy}, true
}

func round(f float64) int { return int(math.Round(f)) }
