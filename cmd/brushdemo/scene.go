package main

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/brushes"
	"github.com/gogpu/canvas/internal/config"
)

// render draws cfg on a fresh device and returns the target.
func render(cfg config.Config, logger *slog.Logger) (*image.RGBA, error) {
	dev, err := canvas.NewDevice(nil,
		canvas.WithDPI(cfg.DPI),
		canvas.WithWorkers(cfg.Workers),
		canvas.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer dev.Close()

	images, err := buildImages(dev, cfg)
	if err != nil {
		return nil, err
	}

	scale := cfg.DPI / canvas.DefaultDPI
	w := int(math32.Ceil(float32(cfg.Width) * scale))
	h := int(math32.Ceil(float32(cfg.Height) * scale))
	target := image.NewRGBA(image.Rect(0, 0, w, h))

	ds, err := canvas.NewDrawingSession(dev, target, cfg.DPI)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	ds.SetForceDPICompensation(cfg.ForceDPICompensation)
	if err := ds.Clear(cfg.Background.Premultiplied()); err != nil {
		return nil, err
	}

	for i, f := range cfg.Fills {
		if err := fill(ds, images[f.Image], f); err != nil {
			return nil, fmt.Errorf("fill %d (%s): %w", i, f.Image, err)
		}
		logger.Debug("fill drawn", "index", i, "image", f.Image)
	}
	return target, nil
}

// buildImages creates the bitmaps, then the effects in declaration order.
func buildImages(dev *canvas.Device, cfg config.Config) (map[string]canvas.Image, error) {
	images := make(map[string]canvas.Image, len(cfg.Images)+len(cfg.Effects))

	for _, ic := range cfg.Images {
		bm, err := loadImage(dev, ic)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", ic.Name, err)
		}
		images[ic.Name] = bm
	}

	for _, ec := range cfg.Effects {
		src := images[ec.Source]
		switch ec.Kind {
		case "blur":
			images[ec.Name] = canvas.NewGaussianBlurEffect(src, ec.Amount)
		case "scale":
			images[ec.Name] = canvas.NewScaleEffect(src, ec.ScaleX, ec.ScaleY)
		case "opacity":
			images[ec.Name] = canvas.NewOpacityEffect(src, ec.Amount)
		default:
			return nil, fmt.Errorf("effect %s: unknown kind %q", ec.Name, ec.Kind)
		}
	}
	return images, nil
}

func loadImage(dev *canvas.Device, ic config.ImageConfig) (*canvas.Bitmap, error) {
	if ic.Pattern == "checker" {
		return canvas.CreateBitmapFromImage(dev, checker(ic), ic.DPI)
	}
	f, err := os.Open(ic.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return canvas.LoadBitmap(dev, f, ic.DPI)
}

// checker draws a two-color checkerboard of ic.Size pixels with ic.Cell cells.
func checker(ic config.ImageConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ic.Size, ic.Size))
	colors := [2]*image.Uniform{
		image.NewUniform(ic.Colors[0].Premultiplied()),
		image.NewUniform(ic.Colors[1].Premultiplied()),
	}
	for y := 0; y < ic.Size; y += ic.Cell {
		for x := 0; x < ic.Size; x += ic.Cell {
			c := colors[(x/ic.Cell+y/ic.Cell)%2]
			draw.Draw(img, image.Rect(x, y, x+ic.Cell, y+ic.Cell), c, image.Point{}, draw.Src)
		}
	}
	return img
}

func fill(ds *canvas.DrawingSession, img canvas.Image, f config.FillConfig) error {
	bounds, err := f.Bounds()
	if err != nil {
		return err
	}
	src, err := f.Source()
	if err != nil {
		return err
	}
	x, y, interp, err := f.Modes()
	if err != nil {
		return err
	}

	b, err := brushes.NewImageBrush(ds, img)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.SetExtendX(x); err != nil {
		return err
	}
	if err := b.SetExtendY(y); err != nil {
		return err
	}
	if err := b.SetInterpolation(interp); err != nil {
		return err
	}
	if f.Opacity != nil {
		if err := b.SetOpacity(*f.Opacity); err != nil {
			return err
		}
	}
	// Brush space starts at the fill origin.
	m := canvas.Translate(float64(bounds.X), float64(bounds.Y)).Multiply(f.Matrix())
	if err := b.SetTransform(m); err != nil {
		return err
	}
	if err := b.SetSourceRectangle(src); err != nil {
		return err
	}
	return ds.FillRectangle(bounds, b)
}
