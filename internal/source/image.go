// Package source loads banner images from disk. Each call decodes a fresh
// copy; nothing is cached between calls.
package source

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ivlev/bannerkit/internal/apperr"
)

// Extensions lists the file extensions LoadImage can decode.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

// LoadImage decodes the image at path. Surrounding whitespace in path is
// ignored. Missing, unreadable or undecodable files yield ErrImageNotFound.
func LoadImage(path string) (image.Image, string, error) {
	data, err := LoadBytes(path)
	if err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", apperr.ImageNotFound(CleanPath(path), err)
	}
	return img, format, nil
}

// LoadBytes returns the raw bytes of the image file at path.
func LoadBytes(path string) ([]byte, error) {
	path = CleanPath(path)
	if path == "" {
		return nil, apperr.ImageNotFound(path, nil)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, apperr.ImageNotFound(path, err)
	}
	if fi.IsDir() {
		return nil, apperr.ImageNotFound(path, nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.ImageNotFound(path, err)
	}
	return data, nil
}

// Dimensions reads only the image header.
func Dimensions(path string) (width, height int, err error) {
	f, err := os.Open(CleanPath(path))
	if err != nil {
		return 0, 0, apperr.ImageNotFound(CleanPath(path), err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, apperr.ImageNotFound(CleanPath(path), err)
	}
	return cfg.Width, cfg.Height, nil
}

func CleanPath(path string) string {
	return strings.TrimSpace(path)
}

// IsImageFile reports whether name has one of the supported extensions.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
