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
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"pixview/internal/zoom"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

var schemaLoader = gojsonschema.NewStringLoader(buildSchema())

func buildSchema() string {
	modes := []string{""}
	for _, m := range zoom.Modes() {
		modes = append(modes, m.String())
	}
	enum, _ := json.Marshal(modes)
	return fmt.Sprintf(`{
  "type": "object",
  "properties": {
    "config_version": {"type": "integer", "minimum": 0},
    "general": {
      "type": "object",
      "properties": {
        "theme": {"enum": ["", "system", "light", "dark"]},
        "start_mode": {"enum": ["", "viewer", "project", "data"]}
      }
    },
    "viewer": {
      "type": "object",
      "properties": {
        "zoom_mode": {"enum": %s},
        "custom_percentage": {"type": "number", "minimum": 0, "maximum": %g},
        "manual_zoom": {"type": "boolean"},
        "zoom_to_cursor": {"type": "boolean"},
        "preserve_aspect": {"type": "boolean"},
        "pan_step": {"type": "integer", "minimum": 0, "maximum": 1000}
      }
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"enum": ["", "debug", "info", "warn", "warning", "error"]},
        "format": {"enum": ["", "console", "json"]}
      }
    }
  }
}`, enum, zoom.MaxPercentage)
}

func normalize(cfg AppConfig) AppConfig {
	cfg.General.Theme = strings.ToLower(strings.TrimSpace(cfg.General.Theme))
	cfg.General.StartMode = strings.ToLower(strings.TrimSpace(cfg.General.StartMode))
	if m, err := zoom.ParseMode(cfg.Viewer.ZoomMode); err == nil {
		cfg.Viewer.ZoomMode = m.String()
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	return cfg
}

func validate(cfg AppConfig) ([]gojsonschema.ResultError, error) {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(normalize(cfg)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return res.Errors(), nil
}

// Validate checks cfg against the config schema. Empty fields are accepted and mean "use default".
func Validate(cfg AppConfig) error {
	issues, err := validate(cfg)
	if err != nil {
		return err
	}
	errs := make([]error, 0, len(issues))
	for _, re := range issues {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, re.Field(), re.Description()))
	}
	return errors.Join(errs...)
}

// invalidSections groups validation failures by top-level key.
func invalidSections(cfg AppConfig) map[string]error {
	issues, err := validate(cfg)
	if err != nil {
		return map[string]error{"(root)": err}
	}
	if len(issues) == 0 {
		return nil
	}
	grouped := map[string][]error{}
	for _, re := range issues {
		section, _, _ := strings.Cut(re.Field(), ".")
		grouped[section] = append(grouped[section], fmt.Errorf("%s: %s", re.Field(), re.Description()))
	}
	out := make(map[string]error, len(grouped))
	for section, errs := range grouped {
		out[section] = errors.Join(errs...)
	}
	return out
}
