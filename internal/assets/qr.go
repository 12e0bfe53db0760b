// Package assets produces auxiliary banner artwork.
package assets

import (
	"fmt"
	"image"
	"strings"

	"github.com/skip2/go-qrcode"
)

const DefaultQRSize = 256

// WriteQRCode encodes content as a square PNG of size pixels at path.
func WriteQRCode(content, path string, size int) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("qr: empty content")
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	if err := qrcode.WriteFile(content, qrcode.Medium, size, path); err != nil {
		return fmt.Errorf("failed to write qr code %s: %w", path, err)
	}
	return nil
}

// QRImage returns the code as an image so it can be composed onto a banner.
func QRImage(content string, size int) (image.Image, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return q.Image(size), nil
}
