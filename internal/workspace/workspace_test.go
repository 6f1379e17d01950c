/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package workspace

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixview/internal/storage"
	"pixview/internal/zoom"
)

type nopRenderer struct{ w, h int }

func (r nopRenderer) SurfaceSize() (int, int) { return r.w, r.h }
func (r nopRenderer) SurfaceReady() bool      { return r.w > 0 }
func (r nopRenderer) RequestRepaint()         {}

func TestWorkModeParse(t *testing.T) {
	for _, m := range WorkModes() {
		got, err := ParseWorkMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseWorkMode("gallery")
	assert.True(t, errors.Is(err, ErrUnknownWorkMode))
}

func TestContextsAreIndependent(t *testing.T) {
	ws := New(zoom.DefaultDefaults())
	e := zoom.NewEngine(nopRenderer{w: 500, h: 400})

	viewer := ws.Context(Viewer)
	viewer.SetImage(&Image{Key: "a", Width: 1000, Height: 800})
	e.ApplyMode(viewer, zoom.FitToWidth)
	e.WheelZoom(viewer, -1, zoom.Pt(100, 100))
	e.ApplyPan(viewer, 40, 40)

	for _, m := range []WorkMode{Project, Data} {
		s := ws.Context(m).ViewState()
		assert.Equal(t, 1.0, s.Scale(), m.String())
		x, y := s.Pan()
		assert.Equal(t, 0, x)
		assert.Equal(t, 0, y)
		assert.Equal(t, zoom.FitToScreen, s.Mode())
	}
	assert.NotSame(t, ws.Context(Viewer).ViewState(), ws.Context(Project).ViewState())
}

func TestSwitchClearsImageButKeepsViewState(t *testing.T) {
	ws := New(zoom.DefaultDefaults())
	var switches [][2]WorkMode
	ws.OnSwitch(func(from, to WorkMode) { switches = append(switches, [2]WorkMode{from, to}) })

	project := ws.Context(Project)
	project.SetImage(&Image{Key: "p", Width: 10, Height: 10})
	e := zoom.NewEngine(nopRenderer{w: 100, h: 100})
	e.ApplyMode(project, zoom.Fill)
	before := project.ViewState().Snapshot()

	viewer := ws.Active()
	viewer.SetImage(&Image{Key: "v", Width: 20, Height: 20})

	assert.True(t, ws.Switch(Project))
	assert.Equal(t, Project, ws.ActiveMode())
	assert.Nil(t, ws.Active().Image(), "new active context reloads its image")
	_, _, ok := ws.Active().CurrentImageDimensions()
	assert.False(t, ok)
	assert.Equal(t, before, ws.Active().ViewState().Snapshot())
	assert.NotNil(t, viewer.Image(), "the previous context keeps its image")

	assert.False(t, ws.Switch(Project))
	assert.Len(t, switches, 1)
	assert.Equal(t, [2]WorkMode{Viewer, Project}, switches[0])

	assert.Panics(t, func() { ws.Switch(WorkMode(9)) })
}

func TestListContext(t *testing.T) {
	var l ListContext
	l.selected = -1
	_, ok := l.Next()
	assert.False(t, ok)

	l.SetKeys([]string{"a", "b", "c"})
	_, ok = l.Selected()
	assert.False(t, ok)
	k, _ := l.Next()
	assert.Equal(t, "a", k)
	k, _ = l.Prev()
	assert.Equal(t, "c", k, "prev wraps")
	k, _ = l.Next()
	assert.Equal(t, "a", k, "next wraps")

	require.True(t, l.Select("b"))
	l.SetKeys([]string{"z", "b"})
	k, ok = l.Selected()
	assert.True(t, ok)
	assert.Equal(t, "b", k)
	assert.Equal(t, 1, l.SelectedIndex())

	l.SetKeys([]string{"x"})
	assert.Equal(t, -1, l.SelectedIndex())
	assert.False(t, l.Select("b"))
	assert.False(t, l.SelectIndex(4))
	assert.Equal(t, []string{"x"}, l.Keys())
}

func TestSessionRoundTrip(t *testing.T) {
	s, err := storage.OpenSession(filepath.Join(t.TempDir(), storage.SessionFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	ws := New(zoom.DefaultDefaults())
	data := ws.Context(Data)
	data.SetImage(&Image{Key: "d.png", Width: 400, Height: 300})
	data.List().SetKeys([]string{"c.png", "d.png"})
	data.List().Select("d.png")
	e := zoom.NewEngine(nopRenderer{w: 200, h: 300})
	e.ApplyMode(data, zoom.FitToWidth)
	e.ApplyPan(data, -8, 3)
	ws.Switch(Data)
	require.NoError(t, ws.SaveSession(ctx, s))

	restored := New(zoom.DefaultDefaults())
	last, err := restored.RestoreSession(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, Data, restored.ActiveMode())
	assert.Equal(t, data.ViewState().Snapshot(), restored.Context(Data).ViewState().Snapshot())
	assert.Equal(t, map[WorkMode]string{Data: "d.png"}, last)

	// showing the stored image again must not refit the restored view
	rd := restored.Context(Data)
	want := rd.ViewState().Snapshot()
	require.True(t, rd.Install(&Image{Key: "d.png", Width: 400, Height: 300}))
	e.ImageReloaded(rd)
	assert.Equal(t, want, rd.ViewState().Snapshot())
}

func TestSwitchBackKeepsZoomAndPan(t *testing.T) {
	ws := New(zoom.DefaultDefaults())
	e := zoom.NewEngine(nopRenderer{w: 500, h: 400})
	viewer := ws.Context(Viewer)

	require.False(t, viewer.Install(&Image{Key: "a.png", Width: 1000, Height: 800}), "first image is not a reload")
	e.ImageChanged(viewer)
	e.WheelZoom(viewer, -1, zoom.Pt(50, 0))
	e.WheelZoom(viewer, -1, zoom.Pt(50, 0))
	e.ApplyPan(viewer, 40, 40)
	before := viewer.ViewState().Snapshot()

	require.True(t, ws.Switch(Project))
	require.True(t, ws.Switch(Viewer))
	require.Nil(t, viewer.Image())

	reload := viewer.Install(&Image{Key: "a.png", Width: 1000, Height: 800})
	require.True(t, reload)
	e.ImageReloaded(viewer)
	assert.Equal(t, before, viewer.ViewState().Snapshot())

	// a different image is a real change and recenters
	require.False(t, viewer.Install(&Image{Key: "b.png", Width: 1000, Height: 800}))
	e.ImageChanged(viewer)
	x, y := viewer.ViewState().Pan()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	assert.InDelta(t, 0.5, viewer.ViewState().Scale(), 1e-9)
}
