// Package renderer turns banner markup into a PNG on disk. Every call writes
// a fresh <uuid>.html and <uuid>.png pair into the work directory.
package renderer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/config"
)

type Renderer interface {
	// Render returns the path of the produced image.
	Render(ctx context.Context, markup string) (string, error)
}

const (
	KindChrome = "chrome"
	KindFitz   = "fitz"
)

// New picks an implementation by cfg.Kind.
func New(cfg config.RendererConfig) (Renderer, error) {
	switch cfg.Kind {
	case KindChrome, "":
		return NewChromeRenderer(cfg), nil
	case KindFitz:
		return NewFitzRenderer(cfg), nil
	default:
		return nil, apperr.Config("unknown renderer kind %q", cfg.Kind)
	}
}

type artifact struct {
	ID       string
	HTMLPath string
	PNGPath  string
}

// writeMarkup stores markup next to where its image will go.
func writeMarkup(workDir, markup string) (artifact, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return artifact{}, fmt.Errorf("failed to create work dir %s: %w", workDir, err)
	}
	id := uuid.NewString()
	a := artifact{
		ID:       id,
		HTMLPath: filepath.Join(workDir, id+".html"),
		PNGPath:  filepath.Join(workDir, id+".png"),
	}
	if err := os.WriteFile(a.HTMLPath, []byte(markup), 0o644); err != nil {
		return artifact{}, fmt.Errorf("failed to write markup: %w", err)
	}
	return a, nil
}
