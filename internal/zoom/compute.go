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

func degenerate(dims ...int) bool {
	for _, d := range dims {
		if d <= 0 {
			return true
		}
	}
	return false
}

// ComputeScale returns the uniform scale factor for mode m. Non-positive image
// or surface dimensions return currentScale unchanged. The result is not clamped.
//
// FitToScreen yields the aspect-preserving fit even when preserveAspect is
// false; the stretched rendering is expressed by ComputeAxisScales.
func ComputeScale(m Mode, imageW, imageH, surfaceW, surfaceH int, currentScale float64, preserveAspect bool, customPercentage float64) float64 {
	switch m {
	case DisplayOriginal:
		return 1.0
	case MaintainCurrentZoom:
		return currentScale
	case UserSpecifiedPercentage:
		return customPercentage / 100.0
	}
	if degenerate(imageW, imageH, surfaceW, surfaceH) {
		return currentScale
	}
	rw := float64(surfaceW) / float64(imageW)
	rh := float64(surfaceH) / float64(imageH)
	var s float64
	switch m {
	case FitToWidth:
		s = rw
	case FitToHeight:
		s = rh
	case FitToScreen:
		s = math.Min(rw, rh)
	case Fill:
		s = math.Max(rw, rh)
	case SmartFit:
		imageAspect := float64(imageW) / float64(imageH)
		surfaceAspect := float64(surfaceW) / float64(surfaceH)
		if imageAspect > surfaceAspect {
			s = rw
		} else {
			s = rh
		}
	default:
		return currentScale
	}
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return currentScale
	}
	return s
}

// ComputeAxisScales returns the horizontal and vertical display scales for v.
// They differ only while v is stretched.
func ComputeAxisScales(v *ViewState, imageW, imageH, surfaceW, surfaceH int) (sx, sy float64) {
	if v.stretch && !degenerate(imageW, imageH, surfaceW, surfaceH) {
		return float64(surfaceW) / float64(imageW), float64(surfaceH) / float64(imageH)
	}
	return v.scale, v.scale
}
