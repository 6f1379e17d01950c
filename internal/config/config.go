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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	applog "pixview/internal/log"
	"pixview/internal/zoom"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type GeneralConfig struct {
	Theme     string `yaml:"theme" json:"theme"`           // "system" | "light" | "dark"
	StartMode string `yaml:"start_mode" json:"start_mode"` // "viewer" | "project" | "data"
}

// ViewerConfig holds the zoom defaults every work mode starts with.
// Booleans are pointers so an absent key keeps the default.
type ViewerConfig struct {
	ZoomMode         string  `yaml:"zoom_mode" json:"zoom_mode"`
	CustomPercentage float64 `yaml:"custom_percentage" json:"custom_percentage"`
	ManualZoom       *bool   `yaml:"manual_zoom,omitempty" json:"manual_zoom,omitempty"`
	ZoomToCursor     *bool   `yaml:"zoom_to_cursor,omitempty" json:"zoom_to_cursor,omitempty"`
	PreserveAspect   *bool   `yaml:"preserve_aspect,omitempty" json:"preserve_aspect,omitempty"`
	PanStep          int     `yaml:"pan_step" json:"pan_step"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Source bool   `yaml:"source" json:"source"`
	File   string `yaml:"file" json:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version" json:"config_version"`
	General       GeneralConfig `yaml:"general" json:"general"`
	Viewer        ViewerConfig  `yaml:"viewer" json:"viewer"`
	Logging       LoggingConfig `yaml:"logging" json:"logging"`
}

func boolPtr(b bool) *bool { return &b }

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system", StartMode: "viewer"},
		Viewer: ViewerConfig{
			ZoomMode:         zoom.FitToScreen.String(),
			CustomPercentage: 100,
			ManualZoom:       boolPtr(true),
			ZoomToCursor:     boolPtr(true),
			PreserveAspect:   boolPtr(true),
			PanStep:          zoom.DefaultPanStep,
		},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	// EnvConfigPath points Load and Save at a specific file instead of the XDG location.
	EnvConfigPath = "PXV_CONFIG"

	EnvZoomMode         = "PXV_ZOOM_MODE"
	EnvCustomPercentage = "PXV_CUSTOM_PERCENTAGE"
	EnvManualZoom       = "PXV_MANUAL_ZOOM"
	EnvStartMode        = "PXV_START_MODE"
	EnvTheme            = "PXV_THEME"
	// logging envs are owned by the log package
	EnvLogLevel  = applog.EnvLevel
	EnvLogFormat = applog.EnvFormat
	EnvLogSource = applog.EnvSource
	EnvLogFile   = applog.EnvFile
)

const (
	appDirName     = "pixview"
	configFileName = "config.yaml"
)

// ConfigPath returns the per-user config file path, honoring PXV_CONFIG.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	p, err := xdg.ConfigFile(filepath.Join(appDirName, configFileName))
	if err != nil {
		return "", fmt.Errorf("cannot resolve config directory: %w", err)
	}
	return p, nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit path.
func LoadFrom(path string) (AppConfig, error) {
	cfg, err := readFile(path)
	applyEnvOverrides(&cfg)
	return cfg, err
}

// readFile returns defaults merged with the file at path, without env overrides.
// A missing file is not an error. Sections that fail validation keep their defaults.
func readFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}
	if bad := invalidSections(fileCfg); len(bad) > 0 {
		l := applog.WithComponent("config")
		def := Defaults()
		for section, verr := range bad {
			l.Warn("ignoring invalid config section", slog.String("section", section), slog.String("path", path), slog.Any("err", verr))
			switch section {
			case "general":
				fileCfg.General = def.General
			case "viewer":
				fileCfg.Viewer = def.Viewer
			case "logging":
				fileCfg.Logging = def.Logging
			default:
				fileCfg.ConfigVersion = def.ConfigVersion
			}
		}
	}
	mergeInto(&cfg, &fileCfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo validates cfg and writes it to path.
func SaveTo(path string, cfg AppConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.General.Theme); v != "" {
		dst.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.General.StartMode); v != "" {
		dst.General.StartMode = strings.ToLower(v)
	}
	// viewer
	if v := strings.TrimSpace(src.Viewer.ZoomMode); v != "" {
		dst.Viewer.ZoomMode = v
	}
	if src.Viewer.CustomPercentage != 0 {
		dst.Viewer.CustomPercentage = src.Viewer.CustomPercentage
	}
	if src.Viewer.ManualZoom != nil {
		dst.Viewer.ManualZoom = boolPtr(*src.Viewer.ManualZoom)
	}
	if src.Viewer.ZoomToCursor != nil {
		dst.Viewer.ZoomToCursor = boolPtr(*src.Viewer.ZoomToCursor)
	}
	if src.Viewer.PreserveAspect != nil {
		dst.Viewer.PreserveAspect = boolPtr(*src.Viewer.PreserveAspect)
	}
	if src.Viewer.PanStep != 0 {
		dst.Viewer.PanStep = src.Viewer.PanStep
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvZoomMode)); v != "" {
		if m, err := zoom.ParseMode(v); err == nil {
			cfg.Viewer.ZoomMode = m.String()
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCustomPercentage)); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64); err == nil {
			cfg.Viewer.CustomPercentage = zoom.ClampPercentage(f)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvManualZoom)); v != "" {
		cfg.Viewer.ManualZoom = boolPtr(parseBool(v))
	}
	if v := strings.TrimSpace(os.Getenv(EnvStartMode)); v != "" {
		cfg.General.StartMode = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"viewer.zoom_mode":         EnvZoomMode,
		"viewer.custom_percentage": EnvCustomPercentage,
		"viewer.manual_zoom":       EnvManualZoom,
		"general.start_mode":       EnvStartMode,
		"general.theme":            EnvTheme,
		"logging.level":            EnvLogLevel,
		"logging.format":           EnvLogFormat,
		"logging.source":           EnvLogSource,
		"logging.file":             EnvLogFile,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// LogOptions converts the logging section into logger options.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{Level: c.Logging.Level, Format: c.Logging.Format, AddSource: c.Logging.Source, File: c.Logging.File}
}

// ZoomDefaults converts the viewer section into view-state defaults.
func (v ViewerConfig) ZoomDefaults() zoom.Defaults {
	d := zoom.DefaultDefaults()
	if m, err := zoom.ParseMode(v.ZoomMode); err == nil {
		d.Mode = m
	}
	if v.CustomPercentage > 0 {
		d.CustomPercentage = zoom.ClampPercentage(v.CustomPercentage)
	}
	d.ManualZoom = boolOr(v.ManualZoom, d.ManualZoom)
	d.ZoomToCursor = boolOr(v.ZoomToCursor, d.ZoomToCursor)
	d.PreserveAspect = boolOr(v.PreserveAspect, d.PreserveAspect)
	return d
}
