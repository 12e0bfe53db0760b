package renderer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/config"
	"github.com/ivlev/bannerkit/internal/source"
)

const banner = `<html><head><style>body{margin:0;background:#c81e28}</style></head>` +
	`<body><h1 style="color:white">Summer sale</h1></body></html>`

func testConfig(t *testing.T, kind string) config.RendererConfig {
	cfg := config.Default().Renderer
	cfg.Kind = kind
	cfg.WorkDir = t.TempDir()
	cfg.Width = 320
	cfg.Height = 200
	return cfg
}

func TestNew(t *testing.T) {
	t.Run("Should select the implementation by kind", func(t *testing.T) {
		r, err := New(testConfig(t, KindChrome))
		require.NoError(t, err)
		assert.IsType(t, &ChromeRenderer{}, r)

		r, err = New(testConfig(t, KindFitz))
		require.NoError(t, err)
		assert.IsType(t, &FitzRenderer{}, r)
	})

	t.Run("Should reject unknown kinds", func(t *testing.T) {
		_, err := New(testConfig(t, "gimp"))
		require.ErrorIs(t, err, apperr.ErrConfig)
	})
}

func TestWriteMarkup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	a, err := writeMarkup(dir, banner)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, a.ID+".html"), a.HTMLPath)
	assert.Equal(t, filepath.Join(dir, a.ID+".png"), a.PNGPath)
	data, err := os.ReadFile(a.HTMLPath)
	require.NoError(t, err)
	assert.Equal(t, banner, string(data))

	b, err := writeMarkup(dir, banner)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestChromeRenderer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("chrome not installed")
	}

	r := NewChromeRenderer(testConfig(t, KindChrome))
	defer r.Close()

	path, err := r.Render(context.Background(), banner)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".png"))

	w, h, err := source.Dimensions(path)
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)
}

func TestChromeRendererLoadsLocalImages(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("chrome not installed")
	}

	fill := color.RGBA{R: 10, G: 180, B: 90, A: 255}
	bg := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			bg.SetRGBA(x, y, fill)
		}
	}
	bgPath, err := filepath.Abs(filepath.Join(t.TempDir(), "background.png"))
	require.NoError(t, err)
	f, err := os.Create(bgPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, bg))
	require.NoError(t, f.Close())

	markup := `<html><head><style>body{margin:0;background:#000}</style></head><body>` +
		`<img src="file://` + filepath.ToSlash(bgPath) + `" style="display:block;width:320px;height:200px">` +
		`</body></html>`

	r := NewChromeRenderer(testConfig(t, KindChrome))
	defer r.Close()

	path, err := r.Render(context.Background(), markup)
	require.NoError(t, err)

	img, _, err := source.LoadImage(path)
	require.NoError(t, err)
	cr, cg, cb, _ := img.At(160, 100).RGBA()
	assert.InDelta(t, 10, cr>>8, 2)
	assert.InDelta(t, 180, cg>>8, 2)
	assert.InDelta(t, 90, cb>>8, 2)
}

func TestFileURL(t *testing.T) {
	u, err := fileURL("/tmp/work/a b.html")
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/work/a%20b.html", u)
}

func TestFitzRenderer(t *testing.T) {
	r := NewFitzRenderer(testConfig(t, KindFitz))
	path, err := r.Render(context.Background(), banner)
	if errors.Is(err, apperr.ErrExternalService) {
		t.Skipf("mupdf html support unavailable: %v", err)
	}
	require.NoError(t, err)

	w, h, err := source.Dimensions(path)
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)
}

func TestFitTo(t *testing.T) {
	t.Run("Should scale to the configured size", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 816, 1056))
		got := fitTo(src, 320, 200)
		assert.Equal(t, image.Rect(0, 0, 320, 200), got.Bounds())
	})

	t.Run("Should keep images that already fit", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 320, 200))
		assert.Same(t, src, fitTo(src, 320, 200))
	})

	t.Run("Should keep the page size without a target", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 50, 70))
		assert.Same(t, src, fitTo(src, 0, 0))
	})
}
