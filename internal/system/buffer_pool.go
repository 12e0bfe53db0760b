package system

import (
	"image"
	"sync"
)

// ImagePool recycles scratch canvases of one fixed size, such as the
// square the review preview scales every banner into.
type ImagePool struct {
	rect image.Rectangle
	pool sync.Pool
}

// NewImagePool returns a pool of w x h canvases. Sizes below 1 are raised
// to 1.
func NewImagePool(w, h int) *ImagePool {
	p := &ImagePool{rect: image.Rect(0, 0, max(w, 1), max(h, 1))}
	p.pool.New = func() any {
		return image.NewRGBA(p.rect)
	}
	return p
}

// Bounds is the size of every canvas handed out.
func (p *ImagePool) Bounds() image.Rectangle {
	return p.rect
}

// Get returns a canvas whose pixels are whatever the previous user left.
// Callers drawing with draw.Src over the full bounds need not clear it.
func (p *ImagePool) Get() *image.RGBA {
	return p.pool.Get().(*image.RGBA)
}

// Put returns img to the pool. Canvases of another size are dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil || img.Rect != p.rect {
		return
	}
	p.pool.Put(img)
}
