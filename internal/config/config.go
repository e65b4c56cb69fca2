// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the brushdemo scene description.
//
// A scene is a YAML file listing images, effects built from them, and
// rectangle fills that paint with an image brush. Environment variables
// override a few top-level settings at runtime.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/canvas"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid scene")

// Env var names used as overrides.
const (
	EnvOutput    = "BRUSHDEMO_OUTPUT"
	EnvDPI       = "BRUSHDEMO_DPI"
	EnvForceDPI  = "BRUSHDEMO_FORCE_DPI"
	EnvWorkers   = "BRUSHDEMO_WORKERS"
	EnvLogLevel  = "BRUSHDEMO_LOG_LEVEL"
	EnvLogFormat = "BRUSHDEMO_LOG_FORMAT"
	EnvLogSource = "BRUSHDEMO_LOG_SOURCE"
	EnvLogFile   = "BRUSHDEMO_LOG_FILE"
)

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// ImageConfig is a bitmap loaded from Path, or generated when Pattern is set.
type ImageConfig struct {
	Name    string  `yaml:"name"`
	Path    string  `yaml:"path,omitempty"`
	Pattern string  `yaml:"pattern,omitempty"` // "checker"
	Size    int     `yaml:"size,omitempty"`
	Cell    int     `yaml:"cell,omitempty"`
	Colors  []Color `yaml:"colors,omitempty"`
	DPI     float32 `yaml:"dpi,omitempty"`
}

// EffectConfig is an effect applied to another image or effect.
type EffectConfig struct {
	Name   string  `yaml:"name"`
	Kind   string  `yaml:"kind"` // "blur", "scale" or "opacity"
	Source string  `yaml:"source"`
	Amount float32 `yaml:"amount,omitempty"` // blur radius in DIPs, or opacity
	ScaleX float32 `yaml:"scale_x,omitempty"`
	ScaleY float32 `yaml:"scale_y,omitempty"`
}

// FillConfig fills Rect with a brush over Image.
type FillConfig struct {
	Rect          []float32 `yaml:"rect"`
	Image         string    `yaml:"image"`
	ExtendX       string    `yaml:"extend_x,omitempty"`
	ExtendY       string    `yaml:"extend_y,omitempty"`
	Interpolation string    `yaml:"interpolation,omitempty"`
	Opacity       *float32  `yaml:"opacity,omitempty"`
	SourceRect    []float32 `yaml:"source_rect,omitempty"`
	Transform     []float64 `yaml:"transform,omitempty"` // a b c d e f
}

type Config struct {
	ConfigVersion        int            `yaml:"config_version"`
	Output               string         `yaml:"output"`
	Width                int            `yaml:"width"`
	Height               int            `yaml:"height"`
	DPI                  float32        `yaml:"dpi"`
	ForceDPICompensation bool           `yaml:"force_dpi_compensation"`
	Workers              int            `yaml:"workers"`
	Background           Color          `yaml:"background"`
	Logging              LoggingConfig  `yaml:"logging"`
	Images               []ImageConfig  `yaml:"images"`
	Effects              []EffectConfig `yaml:"effects"`
	Fills                []FillConfig   `yaml:"fills"`
}

// Defaults returns a small scene that exercises both brush representations.
func Defaults() Config {
	opacity := float32(0.8)
	return Config{
		ConfigVersion: 1,
		Output:        "brushdemo.png",
		Width:         256,
		Height:        256,
		DPI:           canvas.DefaultDPI,
		Background:    Color{R: 255, G: 255, B: 255, A: 255},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
		Images: []ImageConfig{{
			Name:    "checker",
			Pattern: "checker",
			Size:    32,
			Cell:    8,
			Colors:  []Color{{R: 40, G: 40, B: 40, A: 255}, {R: 220, G: 180, B: 60, A: 255}},
		}},
		Effects: []EffectConfig{{Name: "soft", Kind: "blur", Source: "checker", Amount: 2}},
		Fills: []FillConfig{
			{Rect: []float32{0, 0, 128, 128}, Image: "checker", ExtendX: "wrap", ExtendY: "wrap"},
			{Rect: []float32{128, 0, 128, 128}, Image: "checker", ExtendX: "mirror", ExtendY: "mirror",
				SourceRect: []float32{0, 0, 12, 12}, Interpolation: "nearestneighbor"},
			{Rect: []float32{0, 128, 256, 128}, Image: "soft", ExtendX: "wrap", ExtendY: "wrap",
				SourceRect: []float32{0, 0, 32, 32}, Opacity: &opacity},
		},
	}
}

// Load reads the scene at path, applies environment overrides and validates
// the result. An empty path loads the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if cfg, err = Parse(data); err != nil {
			return Config{}, err
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a scene. Settings missing from data keep their defaults;
// images, effects and fills replace the default lists. Unknown keys are
// rejected.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	cfg.Images, cfg.Effects, cfg.Fills = nil, nil, nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvOutput)); v != "" {
		cfg.Output = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDPI)); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.DPI = float32(f)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvForceDPI)); v != "" {
		cfg.ForceDPICompensation = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// Validate checks sizes, enum names and that every reference resolves.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Output == "" {
		add("output is empty")
	}
	if c.Width <= 0 || c.Height <= 0 {
		add("canvas size %dx%d", c.Width, c.Height)
	}
	if c.DPI <= 0 {
		add("dpi %v", c.DPI)
	}
	if c.Workers < 0 {
		add("workers %d", c.Workers)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		add("logging format %q", c.Logging.Format)
	}

	names := make(map[string]bool)
	define := func(kind, name string) {
		switch {
		case name == "":
			add("%s without a name", kind)
		case names[name]:
			add("duplicate name %q", name)
		default:
			names[name] = true
		}
	}

	for _, img := range c.Images {
		define("image", img.Name)
		switch {
		case img.Path != "" && img.Pattern != "":
			add("image %q has both path and pattern", img.Name)
		case img.Path == "" && img.Pattern == "":
			add("image %q has neither path nor pattern", img.Name)
		case img.Pattern != "" && img.Pattern != "checker":
			add("image %q: unknown pattern %q", img.Name, img.Pattern)
		case img.Pattern != "" && (img.Size <= 0 || img.Cell <= 0 || len(img.Colors) != 2):
			add("image %q: checker needs size, cell and two colors", img.Name)
		}
	}

	// Effects may only reference names defined before them.
	effects := make(map[string]bool)
	for _, e := range c.Effects {
		effects[e.Name] = true
		if !names[e.Source] {
			add("effect %q: unknown source %q", e.Name, e.Source)
		}
		define("effect", e.Name)
		switch e.Kind {
		case "blur":
			if e.Amount < 0 {
				add("effect %q: negative blur amount", e.Name)
			}
		case "scale":
			if e.ScaleX == 0 || e.ScaleY == 0 {
				add("effect %q: zero scale", e.Name)
			}
		case "opacity":
			if e.Amount < 0 || e.Amount > 1 {
				add("effect %q: opacity %v outside [0, 1]", e.Name, e.Amount)
			}
		default:
			add("effect %q: unknown kind %q", e.Name, e.Kind)
		}
	}

	for i, f := range c.Fills {
		if !names[f.Image] {
			add("fill %d: unknown image %q", i, f.Image)
		}
		if _, err := f.Bounds(); err != nil {
			add("fill %d: %v", i, err)
		}
		if _, err := f.Source(); err != nil {
			add("fill %d: %v", i, err)
		} else if effects[f.Image] && f.SourceRect == nil {
			add("fill %d: effect %q needs a source_rect", i, f.Image)
		}
		if _, _, _, err := f.Modes(); err != nil {
			add("fill %d: %v", i, err)
		}
		if f.Opacity != nil && (*f.Opacity < 0 || *f.Opacity > 1) {
			add("fill %d: opacity %v outside [0, 1]", i, *f.Opacity)
		}
		if len(f.Transform) != 0 && len(f.Transform) != 6 {
			add("fill %d: transform needs 6 values, got %d", i, len(f.Transform))
		}
	}
	return errors.Join(errs...)
}

// Bounds returns the fill rectangle in DIPs.
func (f FillConfig) Bounds() (canvas.Rect, error) {
	return toRect("rect", f.Rect)
}

// Source returns the source rectangle, or nil when none is configured.
func (f FillConfig) Source() (*canvas.Rect, error) {
	if f.SourceRect == nil {
		return nil, nil
	}
	r, err := toRect("source_rect", f.SourceRect)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Modes parses the extend and interpolation names. Empty names mean the
// brush defaults: clamp and linear.
func (f FillConfig) Modes() (x, y canvas.EdgeBehavior, interp canvas.ImageInterpolation, err error) {
	x, y, interp = canvas.EdgeBehaviorClamp, canvas.EdgeBehaviorClamp, canvas.ImageInterpolationLinear
	if f.ExtendX != "" {
		if x, err = canvas.ParseEdgeBehavior(f.ExtendX); err != nil {
			return
		}
	}
	if f.ExtendY != "" {
		if y, err = canvas.ParseEdgeBehavior(f.ExtendY); err != nil {
			return
		}
	}
	if f.Interpolation != "" {
		interp, err = canvas.ParseImageInterpolation(f.Interpolation)
	}
	return
}

// Matrix returns the configured transform, or the identity.
func (f FillConfig) Matrix() canvas.Matrix {
	if len(f.Transform) != 6 {
		return canvas.Identity()
	}
	t := f.Transform
	return canvas.Matrix{A: t[0], B: t[1], C: t[2], D: t[3], E: t[4], F: t[5]}
}

func toRect(field string, v []float32) (canvas.Rect, error) {
	if len(v) != 4 {
		return canvas.Rect{}, fmt.Errorf("%s needs 4 values, got %d", field, len(v))
	}
	r := canvas.NewRect(v[0], v[1], v[2], v[3])
	return r, r.Validate()
}

// Color is an 8-bit RGBA color written as "#rrggbb" or "#rrggbbaa".
type Color color.RGBA

// Premultiplied returns the color with alpha applied, as image.RGBA stores it.
func (c Color) Premultiplied() color.RGBA {
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}

func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa"; the leading # is optional.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("config: color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("config: color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
