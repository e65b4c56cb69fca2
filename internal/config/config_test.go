// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/canvas"
)

func TestDefaultsValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v", err)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Errorf("Load(\"\") (-want +got):\n%s", diff)
	}
}

const sceneYAML = `
output: out.png
width: 64
height: 32
dpi: 192
background: "#102030"
logging:
  level: DEBUG
images:
  - name: tile
    pattern: checker
    size: 4
    cell: 2
    colors: ["#000000", "#ffffff80"]
effects:
  - name: big
    kind: scale
    source: tile
    scale_x: 2
    scale_y: 2
fills:
  - rect: [0, 0, 32, 32]
    image: tile
    extend_x: Wrap
    extend_y: mirror
  - rect: [32, 0, 32, 32]
    image: big
    source_rect: [0, 0, 8, 8]
    interpolation: cubic
    opacity: 0.5
    transform: [1, 0, 4, 0, 1, 4]
`

func writeScene(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScene(t *testing.T) {
	cfg, err := Load(writeScene(t, sceneYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Width != 64 || cfg.Height != 32 || cfg.DPI != 192 {
		t.Errorf("size = %dx%d@%v", cfg.Width, cfg.Height, cfg.DPI)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Background != (Color{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Errorf("background = %v", cfg.Background)
	}
	if got := cfg.Images[0].Colors[1]; got != (Color{R: 255, G: 255, B: 255, A: 0x80}) {
		t.Errorf("second checker color = %v", got)
	}

	x, y, interp, err := cfg.Fills[0].Modes()
	if err != nil || x != canvas.EdgeBehaviorWrap || y != canvas.EdgeBehaviorMirror || interp != canvas.ImageInterpolationLinear {
		t.Errorf("fill 0 modes = %v %v %v %v", x, y, interp, err)
	}

	f := cfg.Fills[1]
	src, err := f.Source()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&canvas.Rect{Width: 8, Height: 8}, src); diff != "" {
		t.Errorf("source rect (-want +got):\n%s", diff)
	}
	if got := f.Matrix(); got != canvas.Translate(4, 4) {
		t.Errorf("transform = %+v", got)
	}
	if f.Opacity == nil || *f.Opacity != 0.5 {
		t.Errorf("opacity = %v", f.Opacity)
	}
	if r, _ := cfg.Fills[0].Source(); r != nil {
		t.Errorf("fill 0 source = %v, want nil", r)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeScene(t, "width: 10\nheigth: 10\n"))
	if err == nil || !strings.Contains(err.Error(), "heigth") {
		t.Errorf("err = %v, want unknown field error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvOutput, "env.png")
	t.Setenv(EnvDPI, "144")
	t.Setenv(EnvForceDPI, "yes")
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/brushdemo.log")
	t.Setenv(EnvWorkers, "3")

	cfg, err := Load(writeScene(t, sceneYAML))
	if err != nil {
		t.Fatal(err)
	}
	want := LoggingConfig{Level: "warn", Format: "json", Source: true, File: "/tmp/brushdemo.log"}
	if diff := cmp.Diff(want, cfg.Logging); diff != "" {
		t.Errorf("logging (-want +got):\n%s", diff)
	}
	if cfg.Output != "env.png" || cfg.DPI != 144 || !cfg.ForceDPICompensation || cfg.Workers != 3 {
		t.Errorf("overrides not applied: output=%q dpi=%v force=%v workers=%d",
			cfg.Output, cfg.DPI, cfg.ForceDPICompensation, cfg.Workers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero size", func(c *Config) { c.Width = 0 }, "canvas size"},
		{"bad dpi", func(c *Config) { c.DPI = -1 }, "dpi"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging format"},
		{"duplicate name", func(c *Config) { c.Effects[0].Name = "checker" }, "duplicate"},
		{"unknown effect source", func(c *Config) { c.Effects[0].Source = "missing" }, "unknown source"},
		{"unknown effect kind", func(c *Config) { c.Effects[0].Kind = "sharpen" }, "unknown kind"},
		{"opacity out of range", func(c *Config) { c.Effects[0].Kind, c.Effects[0].Amount = "opacity", 2 }, "outside [0, 1]"},
		{"unknown fill image", func(c *Config) { c.Fills[0].Image = "missing" }, "unknown image"},
		{"short rect", func(c *Config) { c.Fills[0].Rect = []float32{0, 0, 1} }, "4 values"},
		{"negative source", func(c *Config) { c.Fills[1].SourceRect = []float32{0, 0, -1, 1} }, "negative size"},
		{"effect without source", func(c *Config) { c.Fills[2].SourceRect = nil }, "needs a source_rect"},
		{"bad extend", func(c *Config) { c.Fills[0].ExtendX = "repeat" }, "edge behavior"},
		{"bad opacity", func(c *Config) { v := float32(2); c.Fills[0].Opacity = &v }, "opacity"},
		{"bad transform", func(c *Config) { c.Fills[0].Transform = []float64{1} }, "transform"},
		{"path and pattern", func(c *Config) { c.Images[0].Path = "x.png" }, "both path and pattern"},
		{"bad checker", func(c *Config) { c.Images[0].Colors = nil }, "two colors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#ff8000", want: Color{R: 255, G: 128, A: 255}},
		{in: "00000080", want: Color{A: 128}},
		{in: "#fff", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	half := Color{R: 255, G: 255, B: 255, A: 128}
	if got := half.Premultiplied(); got != (color.RGBA{R: 128, G: 128, B: 128, A: 128}) {
		t.Errorf("Premultiplied() = %v", got)
	}
	if half.String() != "#ffffff80" {
		t.Errorf("String() = %q", half.String())
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Defaults())
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, data)
	}
	if diff := cmp.Diff(Defaults(), got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}
