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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"pixview/internal/config"
	"pixview/internal/crash"
	"pixview/internal/imagefile"
	applog "pixview/internal/log"
	"pixview/internal/storage"
	"pixview/internal/version"
	"pixview/internal/workspace"
	"pixview/internal/zoom"
)

// Run starts the Fyne desktop viewer on the images found in dir.
func Run(dir string) error {
	store, err := config.OpenStore("")
	if err != nil {
		applog.WithComponent("ui").Warn("config not loaded, using defaults", slog.Any("err", err))
	}
	cfg := config.Defaults()
	if store != nil {
		cfg = store.Config()
	}
	applog.Init(cfg.LogOptions())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("dir", dir))

	ws := workspace.New(cfg.Viewer.ZoomDefaults())
	defer crash.Recover(ws)
	if m, err := workspace.ParseWorkMode(cfg.General.StartMode); err == nil {
		ws.Switch(m)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sess *storage.Session
	lastKeys := map[workspace.WorkMode]string{}
	if p, err := storage.DefaultSessionPath(); err != nil {
		l.Warn("session path unavailable", slog.Any("err", err))
	} else if sess, err = storage.OpenSession(p); err != nil {
		l.Warn("session not opened", slog.String("path", p), slog.Any("err", err))
	} else {
		defer func() {
			if err := sess.Close(); err != nil {
				l.Error("close session", slog.Any("err", err))
			}
		}()
		if lastKeys, err = ws.RestoreSession(ctx, sess); err != nil {
			l.Warn("session not restored", slog.Any("err", err))
		}
	}

	var keys []string
	if dir != "" {
		infos, err := imagefile.ScanDir(ctx, dir, imagefile.DefaultScanLimit)
		if err != nil {
			return fmt.Errorf("scan %s: %w", dir, err)
		}
		keys = imagefile.Paths(infos)
		l.Info("images found", slog.Int("count", len(keys)))
	}
	for _, m := range workspace.WorkModes() {
		lc := ws.Context(m).List()
		lc.SetKeys(keys)
		if k, ok := lastKeys[m]; !ok || !lc.Select(k) {
			lc.SelectIndex(0)
		}
	}

	fyneApp := app.NewWithID("pixview")
	w := fyneApp.NewWindow("pixview " + version.String())
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 1200), 640)
	winH := max(prefs.IntWithFallback("window.height", 800), 480)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	s := newShell(ws, l)
	view := newImageView(ws)
	s.view = view
	s.eng = zoom.NewEngine(view,
		zoom.WithSyncFunc(s.syncControls),
		zoom.WithPanStep(cfg.Viewer.PanStep),
		zoom.WithLogger(applog.WithComponent("zoom")),
	)
	view.eng = s.eng
	view.OnChanged = s.updateStatus
	s.store = store
	s.window = w

	ws.OnSwitch(func(from, to workspace.WorkMode) {
		applog.WithWorkMode(l, to.String()).Info("work mode switched", slog.String("from", from.String()))
		s.files.UnselectAll()
		s.files.Refresh()
		s.loadSelected()
		s.syncControls()
	})

	w.SetContent(container.NewBorder(s.toolbar(), s.status, s.fileList(), nil, view))
	w.Canvas().SetOnTypedKey(s.typedKey)
	s.loadSelected()
	s.syncControls()

	if store != nil {
		go watchConfig(ctx, store, l)
	}

	w.SetCloseIntercept(func() {
		if sess != nil {
			if err := ws.SaveSession(context.Background(), sess); err != nil {
				l.Error("save session", slog.Any("err", err))
			}
		}
		size := w.Canvas().Size()
		prefs.SetInt("window.width", int(size.Width))
		prefs.SetInt("window.height", int(size.Height))
		w.Close()
	})
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

func watchConfig(ctx context.Context, store *config.Store, l *slog.Logger) {
	changes := make(chan config.AppConfig, 1)
	go func() {
		if err := config.Watch(ctx, store.Path(), changes); err != nil {
			l.Warn("config watch stopped", slog.Any("err", err))
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-changes:
			store.Replace(cfg)
			applog.SetLevel(cfg.Logging.Level)
			l.Info("config reloaded", slog.String("level", applog.Level().String()))
		}
	}
}

// shell holds the window widgets bound to the workspace and engine.
type shell struct {
	ws     *workspace.Workspace
	eng    *zoom.Engine
	store  *config.Store
	view   *imageView
	window fyne.Window
	l      *slog.Logger

	// syncing suppresses widget callbacks while controls are updated from state.
	syncing bool

	workMode *widget.Select
	modes    *widget.RadioGroup
	percent  *widget.Entry
	manual   *widget.Check
	cursor   *widget.Check
	aspect   *widget.Check
	files    *widget.List
	status   *widget.Label
}

func newShell(ws *workspace.Workspace, l *slog.Logger) *shell {
	return &shell{ws: ws, l: l, status: widget.NewLabel("Ready")}
}

func modeLabels() []string {
	out := make([]string, 0, len(zoom.Modes()))
	for _, m := range zoom.Modes() {
		out = append(out, m.Label())
	}
	return out
}

func modeByLabel(label string) (zoom.Mode, bool) {
	for _, m := range zoom.Modes() {
		if m.Label() == label {
			return m, true
		}
	}
	return 0, false
}

func (s *shell) toolbar() fyne.CanvasObject {
	names := make([]string, 0, 3)
	for _, m := range workspace.WorkModes() {
		names = append(names, m.String())
	}
	s.workMode = widget.NewSelect(names, func(name string) {
		if s.syncing {
			return
		}
		if m, err := workspace.ParseWorkMode(name); err == nil {
			s.ws.Switch(m)
		}
	})

	s.modes = widget.NewRadioGroup(modeLabels(), func(label string) {
		if s.syncing {
			return
		}
		if m, ok := modeByLabel(label); ok {
			s.eng.ApplyMode(s.ws.Active(), m)
		}
	})
	s.modes.Horizontal = true
	s.modes.Required = true

	s.percent = widget.NewEntry()
	s.percent.SetPlaceHolder("100")
	s.percent.OnSubmitted = func(text string) {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(text), "%"), 64)
		if err != nil {
			s.status.SetText(fmt.Sprintf("Invalid percentage %q", text))
			s.syncControls()
			return
		}
		t := s.ws.Active()
		s.eng.SetCustomPercentage(t, pct)
		if t.ViewState().Mode() == zoom.UserSpecifiedPercentage {
			s.eng.ApplyMode(t, zoom.UserSpecifiedPercentage)
		}
		s.syncControls()
	}

	s.manual = widget.NewCheck("Manual zoom", func(on bool) {
		if !s.syncing {
			s.eng.SetManualZoomEnabled(s.ws.Active(), on)
		}
	})
	s.cursor = widget.NewCheck("Zoom to cursor", func(on bool) {
		if !s.syncing {
			s.eng.SetZoomToCursorEnabled(s.ws.Active(), on)
		}
	})
	s.aspect = widget.NewCheck("Preserve aspect", func(on bool) {
		if !s.syncing {
			s.eng.SetPreserveAspectRatio(s.ws.Active(), on)
		}
	})

	zoomIn := widget.NewButton("+", func() { s.eng.ZoomIn(s.ws.Active()) })
	zoomOut := widget.NewButton("-", func() { s.eng.ZoomOut(s.ws.Active()) })
	saveDefault := widget.NewButton("Save as default", s.saveDefault)

	row1 := container.NewHBox(widget.NewLabel("Mode"), s.workMode, widget.NewSeparator(),
		zoomOut, zoomIn, widget.NewLabel("Percent"), container.NewGridWrap(fyne.NewSize(80, s.percent.MinSize().Height), s.percent),
		s.manual, s.cursor, s.aspect, saveDefault)
	return container.NewVBox(row1, container.NewHScroll(s.modes), widget.NewSeparator())
}

func (s *shell) fileList() fyne.CanvasObject {
	s.files = widget.NewList(
		func() int { return s.ws.Active().List().Len() },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			keys := s.ws.Active().List().Keys()
			if int(i) < len(keys) {
				o.(*widget.Label).SetText(filepath.Base(keys[i]))
			}
		},
	)
	s.files.OnSelected = func(id widget.ListItemID) {
		if s.syncing {
			return
		}
		lc := s.ws.Active().List()
		if lc.SelectedIndex() == int(id) && s.ws.Active().Image() != nil {
			return
		}
		if lc.SelectIndex(int(id)) {
			s.loadSelected()
		}
	}
	return container.NewGridWrap(fyne.NewSize(220, 400), s.files)
}

func (s *shell) typedKey(e *fyne.KeyEvent) {
	t := s.ws.Active()
	switch e.Name {
	case fyne.KeyPlus, fyne.KeyEqual:
		s.eng.ZoomIn(t)
	case fyne.KeyMinus:
		s.eng.ZoomOut(t)
	case fyne.KeyRight, fyne.KeyPageDown:
		if _, ok := t.List().Next(); ok {
			s.loadSelected()
		}
	case fyne.KeyLeft, fyne.KeyPageUp:
		if _, ok := t.List().Prev(); ok {
			s.loadSelected()
		}
	case fyne.Key0:
		s.eng.ApplyMode(t, zoom.DisplayOriginal)
	}
}

// loadSelected decodes the active context's selected key and shows it.
// Re-showing the context's previous image keeps its zoom and pan.
func (s *shell) loadSelected() {
	t := s.ws.Active()
	key, ok := t.List().Selected()
	if !ok {
		t.ClearImage()
		s.eng.ImageChanged(t)
		return
	}
	if cur := t.Image(); cur != nil && cur.Key == key {
		return
	}
	bmp, info, err := imagefile.Load(key)
	if err != nil {
		s.l.Error("load image", slog.String("path", key), slog.Any("err", err))
		t.ClearImage()
		s.eng.ImageChanged(t)
		if errors.Is(err, imagefile.ErrUnsupported) {
			s.status.SetText("Unsupported image: " + filepath.Base(key))
		} else if s.window != nil {
			dialog.ShowError(err, s.window)
		}
		return
	}
	if t.Install(&workspace.Image{Key: key, Width: info.Width, Height: info.Height, Bitmap: bmp}) {
		s.eng.ImageReloaded(t)
	} else {
		s.eng.ImageChanged(t)
	}
	s.syncing = true
	s.files.Select(t.List().SelectedIndex())
	s.syncing = false
}

func (s *shell) saveDefault() {
	if s.store == nil {
		s.status.SetText("No config file available")
		return
	}
	v := s.ws.Active().ViewState()
	if err := s.store.SaveZoomDefault(v.Mode(), v.CustomPercentage()); err != nil {
		s.l.Error("save zoom default", slog.Any("err", err))
		if s.window != nil {
			dialog.ShowError(err, s.window)
		}
		return
	}
	s.status.SetText("Saved " + v.Mode().Label() + " as default")
}

// syncControls copies the active view state into the toolbar widgets.
func (s *shell) syncControls() {
	if s.modes == nil {
		return
	}
	s.syncing = true
	defer func() { s.syncing = false }()
	t := s.ws.Active()
	v := t.ViewState()
	s.workMode.SetSelected(s.ws.ActiveMode().String())
	s.modes.SetSelected(v.Mode().Label())
	s.percent.SetText(strconv.FormatFloat(v.CustomPercentage(), 'f', -1, 64))
	s.manual.SetChecked(v.ManualZoomEnabled())
	s.cursor.SetChecked(v.ZoomToCursorEnabled())
	s.aspect.SetChecked(v.PreserveAspectRatio())
	if v.ManualZoomEnabled() {
		s.cursor.Enable()
	} else {
		s.cursor.Disable()
	}
	s.updateStatus()
}

func (s *shell) updateStatus() {
	t := s.ws.Active()
	v := t.ViewState()
	img := t.Image()
	if img == nil {
		s.status.SetText(fmt.Sprintf("%s | %s | no image", s.ws.ActiveMode(), v.Mode().Label()))
		return
	}
	px, py := v.Pan()
	zoomText := fmt.Sprintf("%.0f%%", v.Scale()*100)
	if v.Stretched() {
		zoomText = "stretched"
	}
	s.status.SetText(fmt.Sprintf("%s | %s | %s %dx%d | %s | pan %d,%d",
		s.ws.ActiveMode(), v.Mode().Label(), filepath.Base(img.Key), img.Width, img.Height, zoomText, px, py))
}
