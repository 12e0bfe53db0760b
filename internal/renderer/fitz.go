package renderer

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"

	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/config"
	"github.com/ivlev/bannerkit/internal/logger"
)

// FitzRenderer lays out markup with MuPDF's HTML engine. It needs no
// browser but supports far less CSS than Chrome. The first page is
// rasterised at renderer.dpi and then scaled to renderer.width x
// renderer.height, so both renderers emit banners of the same size.
type FitzRenderer struct {
	cfg config.RendererConfig
}

func NewFitzRenderer(cfg config.RendererConfig) *FitzRenderer {
	return &FitzRenderer{cfg: cfg}
}

func (f *FitzRenderer) Render(ctx context.Context, markup string) (string, error) {
	a, err := writeMarkup(f.cfg.WorkDir, markup)
	if err != nil {
		return "", err
	}

	doc, err := fitz.New(a.HTMLPath)
	if err != nil {
		return "", apperr.External("mupdf", fmt.Errorf("open %s: %w", a.HTMLPath, err))
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return "", apperr.External("mupdf", fmt.Errorf("markup produced no pages"))
	}
	page, err := doc.ImageDPI(0, float64(f.cfg.DPI))
	if err != nil {
		return "", apperr.External("mupdf", fmt.Errorf("render: %w", err))
	}
	img := fitTo(page, f.cfg.Width, f.cfg.Height)

	out, err := os.Create(a.PNGPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", a.PNGPath, err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", a.PNGPath, err)
	}

	logger.FromContext(ctx).Info("renderer: banner rendered", "renderer", KindFitz, "path", a.PNGPath)
	return a.PNGPath, nil
}

// fitTo stretches img to w x h. Non-positive sizes keep the page size.
func fitTo(img image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 || (img.Bounds().Dx() == w && img.Bounds().Dy() == h) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
