/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pixview/internal/zoom"
)

func TestSessionSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", SessionFileName)
	s, err := OpenSession(path)
	if err != nil {
		t.Fatalf("OpenSession error: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if active, recs, err := s.LoadViews(ctx); err != nil || active != "" || len(recs) != 0 {
		t.Fatalf("fresh session: active=%q recs=%d err=%v", active, len(recs), err)
	}

	viewer := zoom.Snapshot{Scale: 2.5, PanX: -30, PanY: 12, Mode: zoom.MaintainCurrentZoom, ManualZoom: true, ZoomToCursor: true, PreserveAspect: true, CustomPercentage: 250}
	data := zoom.Snapshot{Scale: 0.5, Mode: zoom.FitToWidth, CustomPercentage: 100}
	recs := []ViewRecord{
		{WorkMode: "viewer", State: viewer, LastKey: "/pics/a.png"},
		{WorkMode: "data", State: data},
	}
	if err := s.SaveViews(ctx, "data", recs); err != nil {
		t.Fatalf("SaveViews error: %v", err)
	}
	// overwrite one record to exercise the upsert
	viewer.PanX = 99
	if err := s.SaveViews(ctx, "viewer", []ViewRecord{{WorkMode: "viewer", State: viewer, LastKey: "/pics/b.png"}}); err != nil {
		t.Fatalf("SaveViews (update) error: %v", err)
	}

	active, got, err := s.LoadViews(ctx)
	if err != nil {
		t.Fatalf("LoadViews error: %v", err)
	}
	if active != "viewer" {
		t.Fatalf("active = %q, want viewer", active)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].WorkMode != "data" || got[0].State != data {
		t.Fatalf("data record mismatch: %#v", got[0])
	}
	if got[1].WorkMode != "viewer" || got[1].State != viewer || got[1].LastKey != "/pics/b.png" {
		t.Fatalf("viewer record mismatch: %#v", got[1])
	}
	if got[1].UpdatedAt.IsZero() {
		t.Fatalf("expected updated_at to be set")
	}
}

func TestSessionReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), SessionFileName)
	s, err := OpenSession(path)
	if err != nil {
		t.Fatalf("OpenSession error: %v", err)
	}
	ctx := context.Background()
	if err := s.SaveViews(ctx, "project", []ViewRecord{{WorkMode: "project", State: zoom.Snapshot{Scale: 1, Mode: zoom.Fill}}}); err != nil {
		t.Fatalf("SaveViews error: %v", err)
	}
	_ = s.Close()

	s2, err := OpenSession(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s2.Close()
	v, err := s2.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion error: %v", err)
	}
	if v != sessionSchemaVersion {
		t.Fatalf("schema = %d, want %d", v, sessionSchemaVersion)
	}
	_, recs, err := s2.LoadViews(ctx)
	if err != nil || len(recs) != 1 || recs[0].State.Mode != zoom.Fill {
		t.Fatalf("unexpected records after reopen: %#v err=%v", recs, err)
	}
}

func TestOpenSessionRequiresPath(t *testing.T) {
	if _, err := OpenSession("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
