/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package zoom implements the per-context zoom and pan engine: the zoom modes,
// the mutable view state of one work mode, and the Engine that recomputes
// scale and pan in response to mode changes, wheel zoom, panning and resize.
package zoom

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for unrecognized tags.
var ErrUnknownMode = errors.New("unknown zoom mode")

// Mode is a magnification strategy.
type Mode int

const (
	FitToScreen Mode = iota
	FitToWidth
	FitToHeight
	SmartFit
	Fill
	DisplayOriginal
	MaintainCurrentZoom
	UserSpecifiedPercentage
)

var modeTags = [...]string{
	FitToScreen:             "fit_to_screen",
	FitToWidth:              "fit_to_width",
	FitToHeight:             "fit_to_height",
	SmartFit:                "smart_fit",
	Fill:                    "fill",
	DisplayOriginal:         "display_original",
	MaintainCurrentZoom:     "maintain_current_zoom",
	UserSpecifiedPercentage: "user_specified_percentage",
}

var modeLabels = [...]string{
	FitToScreen:             "Fit to Screen",
	FitToWidth:              "Fit Width",
	FitToHeight:             "Fit Height",
	SmartFit:                "Smart Fit",
	Fill:                    "Fill",
	DisplayOriginal:         "Original Size",
	MaintainCurrentZoom:     "Keep Current Zoom",
	UserSpecifiedPercentage: "Custom %",
}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, 0, len(modeTags))
	for m := range modeTags {
		out = append(out, Mode(m))
	}
	return out
}

func (m Mode) valid() bool { return m >= FitToScreen && m <= UserSpecifiedPercentage }

// String returns the persisted tag of the mode.
func (m Mode) String() string {
	if !m.valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeTags[m]
}

// Label returns a short human-readable name for menus and status bars.
func (m Mode) Label() string {
	if !m.valid() {
		return m.String()
	}
	return modeLabels[m]
}

// SurfaceDependent reports whether the mode's scale is derived from the display surface size.
func (m Mode) SurfaceDependent() bool {
	switch m {
	case FitToScreen, FitToWidth, FitToHeight, SmartFit, Fill:
		return true
	}
	return false
}

// stretches reports whether the mode is drawn stretched when aspect preservation is off.
func (m Mode) stretches() bool {
	switch m {
	case FitToScreen, FitToWidth, FitToHeight, Fill:
		return true
	}
	return false
}

// ParseMode parses a mode tag. Matching ignores case and accepts '-' for '_'.
func ParseMode(s string) (Mode, error) {
	tag := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for m, t := range modeTags {
		if t == tag {
			return Mode(m), nil
		}
	}
	return FitToScreen, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// MarshalText implements encoding.TextMarshaler so modes persist as tags.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
