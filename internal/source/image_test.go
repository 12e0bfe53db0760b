package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/bannerkit/internal/apperr"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	path := filepath.Join(dir, "banner.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadImage(t *testing.T) {
	t.Run("Should decode a png and trim the path", func(t *testing.T) {
		path := writePNG(t, t.TempDir(), 40, 30)

		img, format, err := LoadImage("  " + path + "\n")

		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 40, img.Bounds().Dx())
		assert.Equal(t, 30, img.Bounds().Dy())
	})

	t.Run("Should report a missing file as ImageNotFound", func(t *testing.T) {
		_, _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png"))

		assert.ErrorIs(t, err, apperr.ErrImageNotFound)
	})

	t.Run("Should report an undecodable file as ImageNotFound", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.png")
		require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

		_, _, err := LoadImage(path)

		assert.ErrorIs(t, err, apperr.ErrImageNotFound)
	})

	t.Run("Should reject directories", func(t *testing.T) {
		_, err := LoadBytes(t.TempDir())

		assert.ErrorIs(t, err, apperr.ErrImageNotFound)
	})
}

func TestDimensions(t *testing.T) {
	t.Run("Should read the header only", func(t *testing.T) {
		path := writePNG(t, t.TempDir(), 12, 7)

		w, h, err := Dimensions(path)

		require.NoError(t, err)
		assert.Equal(t, 12, w)
		assert.Equal(t, 7, h)
	})
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("a.PNG"))
	assert.True(t, IsImageFile("b.webp"))
	assert.False(t, IsImageFile("c.pdf"))
}
