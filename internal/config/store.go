/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"sync"

	"pixview/internal/zoom"
)

// Store serves the effective configuration and persists zoom defaults back to the file.
// Values set only through environment overrides are never written.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  AppConfig
}

// OpenStore loads the config at path. An empty path resolves through ConfigPath.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, cfg: cfg}, nil
}

func (s *Store) Path() string { return s.path }

// Config returns the effective configuration.
func (s *Store) Config() AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Replace swaps in a freshly loaded configuration, typically from Watch.
func (s *Store) Replace(cfg AppConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// ZoomDefaults returns the defaults a fresh view state starts from.
func (s *Store) ZoomDefaults() zoom.Defaults {
	return s.Config().Viewer.ZoomDefaults()
}

// SaveZoomDefault records mode and percentage as the new default.
func (s *Store) SaveZoomDefault(m zoom.Mode, percentage float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	base, err := readFile(s.path)
	if err != nil {
		return err
	}
	base.Viewer.ZoomMode = m.String()
	base.Viewer.CustomPercentage = zoom.ClampPercentage(percentage)
	if err := SaveTo(s.path, base); err != nil {
		return err
	}
	s.cfg.Viewer.ZoomMode = base.Viewer.ZoomMode
	s.cfg.Viewer.CustomPercentage = base.Viewer.CustomPercentage
	return nil
}
