/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a report file and a non-zero exit.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/adrg/xdg"

	applog "pixview/internal/log"
	"pixview/internal/storage"
	"pixview/internal/version"
	"pixview/internal/workspace"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// reportDir returns the directory crash reports are written to.
var reportDir = func() string { return filepath.Join(xdg.StateHome, storage.AppDirName) }

// Recover captures a panic, logs an error with stacktrace and
// writes an error report file listing the view state of every work mode.
//
// Usage: defer crash.Recover(ws)
func Recover(ws *workspace.Workspace) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(ws, r, stack)
		if err != nil {
			l.Error("crash report not written", slog.Any("err", err), slog.String("path", reportPath))
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		exitFn(2)
	}
}

func createReport() (*os.File, string, error) {
	fname := fmt.Sprintf("crash-%s.log", time.Now().Format("20060102-150405"))
	dir := reportDir()
	if err := os.MkdirAll(dir, 0o755); err == nil {
		path := filepath.Join(dir, fname)
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644); err == nil {
			return f, path, nil
		}
	}
	path := filepath.Join(os.TempDir(), fname)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	return f, path, err
}

func writeReport(ws *workspace.Workspace, panicVal any, stack []byte) (string, error) {
	f, path, err := createReport()
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "pixview Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if ws != nil {
		_, _ = fmt.Fprintf(&buf, "ActiveMode: %s\n", ws.ActiveMode())
		for _, rec := range ws.Records() {
			s := rec.State
			_, _ = fmt.Fprintf(&buf, "View[%s]: mode=%s scale=%.4f pan=(%d,%d) manual=%t cursor=%t aspect=%t custom=%.1f",
				rec.WorkMode, s.Mode, s.Scale, s.PanX, s.PanY, s.ManualZoom, s.ZoomToCursor, s.PreserveAspect, s.CustomPercentage)
			if rec.LastKey != "" {
				_, _ = fmt.Fprintf(&buf, " image=%s", rec.LastKey)
			}
			buf.WriteByte('\n')
		}
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()
	return path, nil
}
