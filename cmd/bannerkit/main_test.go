package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/bannerkit/internal/analyzer"
	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/source"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), ".env"), "--log-level", "disabled"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeBanner(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 90, 90))
	for y := 0; y < 90; y++ {
		for x := 0; x < 90; x++ {
			c := color.RGBA{R: 200, G: 30, B: 40, A: 255}
			if y < 60 && ((x/4)+(y/4))%2 == 0 {
				c = color.RGBA{A: 255}
			} else if y < 60 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "banner.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	t.Run("Should print the report for an image", func(t *testing.T) {
		path := writeBanner(t)
		out, err := run(t, "", "analyze", path, "--seed", "7")
		require.NoError(t, err)
		assert.Equal(t, "WIDTH: 90 px\nHEIGHT: 90 px\nSLOGAN LOCATION: 60, 90, bottom\nCOLOR rgb: 200, 30, 40\n", out)
	})

	t.Run("Should pick the newest image of a directory and write a sidecar", func(t *testing.T) {
		path := writeBanner(t)
		sidecar := filepath.Join(t.TempDir(), "report.yaml")
		_, err := run(t, "", "analyze", filepath.Dir(path), "--report", sidecar, "--clusters", "2")
		require.NoError(t, err)

		report, err := analyzer.ReadReport(sidecar)
		require.NoError(t, err)
		assert.Equal(t, analyzer.ZoneBottom, report.Zone.Name)
	})

	t.Run("Should fail for a missing image", func(t *testing.T) {
		_, err := run(t, "", "analyze", filepath.Join(t.TempDir(), "none.png"))
		require.ErrorIs(t, err, apperr.ErrImageNotFound)
	})

	t.Run("Should reject an invalid cluster count", func(t *testing.T) {
		_, err := run(t, "", "analyze", writeBanner(t), "--clusters", "0")
		require.ErrorIs(t, err, apperr.ErrConfig)
	})
}

func TestValidateCommand(t *testing.T) {
	t.Run("Should reject markup without html and head tags", func(t *testing.T) {
		out, err := run(t, "<body>hi</body>", "validate", "-", "--human=false", "--ai=false")
		require.ErrorIs(t, err, errRejected)
		assert.Contains(t, out, "rejected")
		assert.Contains(t, out, "Html tags not found")
	})

	t.Run("Should refuse stdin markup when a human reviews", func(t *testing.T) {
		_, err := run(t, "<html><head></head></html>", "validate", "-")
		require.ErrorIs(t, err, apperr.ErrConfig)
		assert.Contains(t, err.Error(), "--human=false")
	})

	t.Run("Should fail when AI checks have no key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		_, err := run(t, "<html><head></head></html>", "validate", "-", "--human=false", "--ai")
		require.ErrorIs(t, err, apperr.ErrConfig)
	})
}

func TestQRCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cta.png")
	out, err := run(t, "", "qr", "https://example.com", "--out", path, "--size", "100")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	w, h, err := source.Dimensions(path)
	require.NoError(t, err)
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
}

func TestRecommendCommand(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := run(t, "", "recommend", writeBanner(t), "--slogan", "Sale")
	require.ErrorIs(t, err, apperr.ErrConfig)
}
