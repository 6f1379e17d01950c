/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package workspace holds the three work-mode contexts (Viewer, Project, Data)
// and the rule selecting which one is active. Each context owns its zoom view
// state for the lifetime of the application.
package workspace

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"pixview/internal/zoom"
)

var ErrUnknownWorkMode = errors.New("unknown work mode")

// WorkMode is one of the top-level application contexts.
type WorkMode int

const (
	Viewer WorkMode = iota
	Project
	Data
)

var workModeNames = [...]string{Viewer: "viewer", Project: "project", Data: "data"}

// WorkModes returns every work mode in display order.
func WorkModes() []WorkMode { return []WorkMode{Viewer, Project, Data} }

func (m WorkMode) String() string {
	if m < Viewer || m > Data {
		return fmt.Sprintf("workmode(%d)", int(m))
	}
	return workModeNames[m]
}

func ParseWorkMode(s string) (WorkMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range workModeNames {
		if n == s {
			return WorkMode(i), nil
		}
	}
	return Viewer, fmt.Errorf("%w: %q", ErrUnknownWorkMode, s)
}

// Image is the currently displayed image of a context. The engine reads only
// its dimensions; the renderer reads Bitmap.
type Image struct {
	Key    string
	Width  int
	Height int
	Bitmap image.Image
}

// Context pairs a view state with a list context and the displayed image.
type Context struct {
	mode  WorkMode
	view  *zoom.ViewState
	list  *ListContext
	image *Image
	// shown is the key of the last image displayed here. It survives
	// ClearImage and is seeded by RestoreSession.
	shown string
}

func newContext(m WorkMode, d zoom.Defaults) *Context {
	return &Context{mode: m, view: zoom.NewViewState(d), list: &ListContext{selected: -1}}
}

func (c *Context) Mode() WorkMode             { return c.mode }
func (c *Context) ViewState() *zoom.ViewState { return c.view }
func (c *Context) List() *ListContext         { return c.list }
func (c *Context) Image() *Image              { return c.image }

// CurrentImageDimensions implements zoom.ImageSource.
func (c *Context) CurrentImageDimensions() (w, h int, ok bool) {
	if c.image == nil || c.image.Width <= 0 || c.image.Height <= 0 {
		return 0, 0, false
	}
	return c.image.Width, c.image.Height, true
}

// SetImage installs img as the displayed image. A nil img clears it.
func (c *Context) SetImage(img *Image) { c.image = img }

// Install displays img and reports whether it is a reload of the image this
// context showed last. A reload must keep the view state as it was; anything
// else is a new image and gets refitted.
func (c *Context) Install(img *Image) (reload bool) {
	c.image = img
	if img == nil {
		return false
	}
	reload = img.Key != "" && img.Key == c.shown
	c.shown = img.Key
	return reload
}

// ClearImage drops the displayed image, forcing a reload.
func (c *Context) ClearImage() { c.image = nil }

// Workspace owns exactly one Context per WorkMode and tracks the active one.
type Workspace struct {
	contexts [3]*Context
	active   WorkMode
	onSwitch func(from, to WorkMode)
}

// New builds the three contexts seeded from d, with Viewer active.
func New(d zoom.Defaults) *Workspace {
	w := &Workspace{}
	for _, m := range WorkModes() {
		w.contexts[m] = newContext(m, d)
	}
	return w
}

// OnSwitch registers fn to run after every effective switch.
func (w *Workspace) OnSwitch(fn func(from, to WorkMode)) { w.onSwitch = fn }

func (w *Workspace) ActiveMode() WorkMode { return w.active }

// Active returns the context of the active work mode.
func (w *Workspace) Active() *Context { return w.contexts[w.active] }

// Context returns the context of m. It panics for an invalid mode.
func (w *Workspace) Context(m WorkMode) *Context {
	if m < Viewer || m > Data {
		panic(fmt.Sprintf("workspace: invalid work mode %d", int(m)))
	}
	return w.contexts[m]
}

// Switch makes m active and clears the displayed image of the newly active
// context. View states are never touched. It reports whether the active mode changed.
func (w *Workspace) Switch(m WorkMode) bool {
	next := w.Context(m)
	if m == w.active {
		return false
	}
	from := w.active
	w.active = m
	next.ClearImage()
	if w.onSwitch != nil {
		w.onSwitch(from, m)
	}
	return true
}
