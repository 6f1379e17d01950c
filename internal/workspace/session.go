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
	"fmt"
	"log/slog"

	applog "pixview/internal/log"
	"pixview/internal/storage"
	"pixview/internal/zoom"
)

// SessionStore is the persistence surface used by SaveSession and RestoreSession.
// *storage.Session implements it.
type SessionStore interface {
	SaveViews(ctx context.Context, active string, recs []storage.ViewRecord) error
	LoadViews(ctx context.Context) (string, []storage.ViewRecord, error)
}

// Records returns the view state of every context in WorkModes order.
func (w *Workspace) Records() []storage.ViewRecord {
	recs := make([]storage.ViewRecord, 0, len(w.contexts))
	for _, m := range WorkModes() {
		c := w.contexts[m]
		key, _ := c.list.Selected()
		recs = append(recs, storage.ViewRecord{WorkMode: m.String(), State: c.view.Snapshot(), LastKey: key})
	}
	return recs
}

// SaveSession writes the active mode and every context's view state.
func (w *Workspace) SaveSession(ctx context.Context, s SessionStore) error {
	if err := s.SaveViews(ctx, w.active.String(), w.Records()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// RestoreSession replaces view states with the stored ones and reactivates the
// stored work mode. Unknown work modes are skipped. Displayed images are not
// restored; the returned map carries each mode's last selected key so the
// caller can reload it once list contexts are filled. Installing that key
// again counts as a reload, so the restored zoom and pan are kept.
func (w *Workspace) RestoreSession(ctx context.Context, s SessionStore) (map[WorkMode]string, error) {
	l := applog.WithOperation(applog.WithComponent("workspace"), "restore")
	active, recs, err := s.LoadViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	last := make(map[WorkMode]string, len(recs))
	for _, r := range recs {
		m, err := ParseWorkMode(r.WorkMode)
		if err != nil {
			applog.WithWorkMode(l, r.WorkMode).Warn("skip stored view", slog.Any("err", err))
			continue
		}
		c := w.contexts[m]
		c.view = zoom.RestoreViewState(r.State)
		c.image = nil
		c.shown = r.LastKey
		if r.LastKey != "" {
			last[m] = r.LastKey
		}
	}
	if active != "" {
		if m, err := ParseWorkMode(active); err == nil {
			w.active = m
		}
	}
	l.Debug("session restored", slog.Int("views", len(recs)), slog.String("active", w.active.String()))
	return last, nil
}
