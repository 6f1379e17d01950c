/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func jsonLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("unmarshal json log %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

// TestSetLevelMovesConsoleAndFileTogether checks that a config reload raising
// verbosity reaches every sink built by Init.
func TestSetLevelMovesConsoleAndFileTogether(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "pixview.json")
	var console bytes.Buffer
	Init(Options{Level: "warn", Format: "console", File: fpath, Output: &console})

	WithComponent("zoom").Debug("hidden before reload")
	SetLevel("debug")
	WithOperation(WithComponent("zoom"), "apply_mode").Debug("visible after reload")

	if out := console.String(); strings.Contains(out, "hidden before reload") || !strings.Contains(out, "visible after reload") {
		t.Fatalf("console output not gated by shared level: %q", out)
	}
	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	recs := jsonLines(t, b)
	if len(recs) != 1 {
		t.Fatalf("file has %d records, want 1: %s", len(recs), b)
	}
	m := recs[0]
	if m["msg"] != "visible after reload" || m["component"] != "zoom" || m["op"] != "apply_mode" {
		t.Fatalf("file record mismatch: %v", m)
	}
	if m["app"] != "pixview" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
}

func TestWithWorkModeTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "json", Output: &buf})

	l := WithWorkMode(WithOperation(WithComponent("workspace"), "restore"), "data")
	l.Info("session restored")

	recs := jsonLines(t, buf.Bytes())
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1: %s", len(recs), buf.String())
	}
	m := recs[0]
	if m["work_mode"] != "data" || m["component"] != "workspace" || m["op"] != "restore" {
		t.Fatalf("context attrs mismatch: %v", m)
	}
}

func TestInitDefaultsToConsole(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Output: &buf})
	if Level().String() != "INFO" {
		t.Fatalf("default level = %v, want INFO", Level())
	}
	WithComponent("cli").Info("ready", "args", 2)
	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("empty format should select the console handler: %q", out)
	}
	if !strings.Contains(out, "ready") || !strings.Contains(out, "component=cli") {
		t.Fatalf("console line missing content: %q", out)
	}
}
