// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas/internal/native"
)

// bgraHandle is a CPU-only host handle whose surface prefers BGRA.
type bgraHandle struct{ NullDeviceHandle }

var _ DeviceHandle = bgraHandle{}

func (bgraHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}

func newTestDevice(t *testing.T, opts ...DeviceOption) *Device {
	t.Helper()
	d, err := NewDevice(nil, opts...)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func solidRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestNewDeviceDefaults(t *testing.T) {
	d := newTestDevice(t)
	if d.DPI() != DefaultDPI {
		t.Errorf("DPI() = %v, want %v", d.DPI(), DefaultDPI)
	}
	if d.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", d.Format())
	}
	if _, ok := d.Handle().(NullDeviceHandle); !ok {
		t.Errorf("Handle() = %T, want NullDeviceHandle", d.Handle())
	}
	if info := d.Handle().AdapterInfo(); info != (gpucontext.AdapterInfo{}) {
		t.Errorf("AdapterInfo() = %+v, want empty for the null handle", info)
	}
	if d.Device() != d {
		t.Error("Device() does not return itself")
	}
	if d.BrushFactory() != native.BrushFactory(d.Native()) {
		t.Error("default brush factory is not the native device")
	}
}

func TestNewDeviceFormat(t *testing.T) {
	tests := []struct {
		name    string
		handle  DeviceHandle
		opts    []DeviceOption
		want    gputypes.TextureFormat
		wantErr error
	}{
		{name: "from handle", handle: bgraHandle{}, want: gputypes.TextureFormatBGRA8Unorm},
		{
			name:   "option wins",
			handle: bgraHandle{},
			opts:   []DeviceOption{WithFormat(gputypes.TextureFormatRGBA8Unorm)},
			want:   gputypes.TextureFormatRGBA8Unorm,
		},
		{
			name:    "unsupported",
			opts:    []DeviceOption{WithFormat(gputypes.TextureFormatDepth24PlusStencil8)},
			wantErr: ErrInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDevice(tt.handle, tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			defer d.Close()
			if d.Format() != tt.want {
				t.Errorf("Format() = %v, want %v", d.Format(), tt.want)
			}
		})
	}
}

func TestWithDPIIgnoresNonPositive(t *testing.T) {
	if d := newTestDevice(t, WithDPI(0)); d.DPI() != DefaultDPI {
		t.Errorf("WithDPI(0): DPI() = %v", d.DPI())
	}
	if d := newTestDevice(t, WithDPI(144)); d.DPI() != 144 {
		t.Errorf("WithDPI(144): DPI() = %v", d.DPI())
	}
}

func TestDeviceClose(t *testing.T) {
	d := newTestDevice(t)
	bm, err := CreateBitmapFromImage(d, solidRGBA(1, 1, color.RGBA{A: 255}), 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if !d.Closed() || !d.Native().Closed() {
		t.Error("device not marked closed")
	}
	if err := d.EnsureNotClosed(); !errors.Is(err, ErrClosed) {
		t.Errorf("EnsureNotClosed = %v, want ErrClosed", err)
	}
	if got := d.LookupResource(bm.native); got != nil {
		t.Errorf("registry not cleared: %v", got)
	}
	if _, err := bm.Image(); !errors.Is(err, ErrClosed) {
		t.Errorf("bitmap on closed device: err = %v, want ErrClosed", err)
	}
	if _, err := CreateBitmapFromImage(d, solidRGBA(1, 1, color.RGBA{}), 0); !errors.Is(err, ErrClosed) {
		t.Errorf("create on closed device: err = %v, want ErrClosed", err)
	}

	var nilDevice *Device
	if err := nilDevice.EnsureNotClosed(); !errors.Is(err, ErrClosed) {
		t.Errorf("nil device: err = %v, want ErrClosed", err)
	}
}

func TestImageForCreatesWrapperOnce(t *testing.T) {
	d := newTestDevice(t)
	buf := mustBuf(t, 2, 2)
	nb, err := d.Native().CreateBitmap(buf, 72)
	if err != nil {
		t.Fatal(err)
	}

	if d.LookupImage(nb) != nil {
		t.Error("LookupImage found a wrapper before ImageFor")
	}
	first, err := d.ImageFor(nb)
	if err != nil {
		t.Fatalf("ImageFor: %v", err)
	}
	if d.LookupImage(nb) != first {
		t.Error("LookupImage does not return the wrapper ImageFor created")
	}
	bm, ok := first.(*Bitmap)
	if !ok {
		t.Fatalf("ImageFor = %T, want *Bitmap", first)
	}
	if bm.DPI() != 72 {
		t.Errorf("wrapper DPI = %v, want 72", bm.DPI())
	}
	second, _ := d.ImageFor(nb)
	if first != second {
		t.Error("ImageFor created a second wrapper")
	}

	if img, err := d.ImageFor(nil); img != nil || err != nil {
		t.Errorf("ImageFor(nil) = %v, %v", img, err)
	}

	other := newTestDevice(t)
	if _, err := other.ImageFor(nb); !errors.Is(err, ErrDeviceMismatch) {
		t.Errorf("foreign ImageFor: err = %v, want ErrDeviceMismatch", err)
	}

	node, _ := d.Native().CreateEffectNode()
	if _, err := d.ImageFor(node); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unwrapped effect node: err = %v, want ErrInvalidArgument", err)
	}
}

func TestNativeImageArguments(t *testing.T) {
	d := newTestDevice(t)
	if _, err := d.NativeImage(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NativeImage(nil): err = %v", err)
	}
	if _, err := d.NativeBitmap(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NativeBitmap(nil): err = %v", err)
	}
}
