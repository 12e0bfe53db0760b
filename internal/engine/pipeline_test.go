package engine

import (
	"context"
	"errors"
	"go/parser"
	"go/token"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/config"
	"github.com/ivlev/bannerkit/internal/review"
)

const validMarkup = "<html><head><title>b</title></head><body>Sale</body></html>"

type fakeRenderer struct {
	dir   string
	err   error
	calls int
}

func (f *fakeRenderer) Render(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, "render.png")
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	return path, png.Encode(out, image.NewRGBA(image.Rect(0, 0, 4, 4)))
}

type scriptedChannel struct {
	answers   map[string]string
	presented int
	dismissed int
}

func (s *scriptedChannel) Present(context.Context, string) error {
	s.presented++
	return nil
}

func (s *scriptedChannel) CollectRemark(_ context.Context, feature string) (string, error) {
	return s.answers[feature], nil
}

func (s *scriptedChannel) Dismiss() error {
	s.dismissed++
	return nil
}

type stubModel struct {
	reply string
	err   error
	calls int
}

func (m *stubModel) Complete(context.Context, review.VisionRequest) (string, error) {
	m.calls++
	return m.reply, m.err
}

func visionChecker(t *testing.T, m *stubModel) review.Checker {
	t.Helper()
	vc, err := review.NewVisionChecker(m, "")
	require.NoError(t, err)
	return vc
}

func TestCheckTags(t *testing.T) {
	cases := []struct {
		name   string
		markup string
		ok     bool
	}{
		{"full document", validMarkup, true},
		{"closing tags only", "</head>x</html>", true},
		{"body only", "<body>hi</body>", false},
		{"html without head", "<html><body>hi</body></html>", false},
		{"head without html", "<head></head><body></body>", false},
		{"attributes on html", "<html lang=\"en\"><head></head>", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckTags(tc.markup)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, apperr.ErrInvalidMarkup)
			assert.Equal(t, "Html tags not found", err.Error())
		})
	}
}

func TestHandleOutput(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject markup without tags before rendering", func(t *testing.T) {
		r := &fakeRenderer{dir: t.TempDir()}
		p := NewPipeline(r)
		_, err := p.HandleOutput(ctx, "<body>hi</body>")
		require.ErrorIs(t, err, apperr.ErrInvalidMarkup)
		assert.Zero(t, r.calls)
	})

	t.Run("Should accept when no checkers are configured", func(t *testing.T) {
		r := &fakeRenderer{dir: t.TempDir()}
		out, err := NewPipeline(r).HandleOutput(ctx, validMarkup)
		require.NoError(t, err)
		assert.True(t, out.IsAccepted())
		assert.Equal(t, filepath.Join(r.dir, "render.png"), out.ImagePath)
	})

	t.Run("Should pass renderer errors through unmodified", func(t *testing.T) {
		boom := errors.New("chrome crashed")
		_, err := NewPipeline(&fakeRenderer{err: boom}).HandleOutput(ctx, validMarkup)
		assert.Same(t, boom, err)
	})

	t.Run("Should stop at the first failing checker", func(t *testing.T) {
		model := &stubModel{reply: "increase contrast"}
		channel := &scriptedChannel{}
		p := NewPipeline(&fakeRenderer{dir: t.TempDir()},
			WithChecker(visionChecker(t, model)),
			WithChecker(review.NewHumanChecker(channel)),
		)

		_, err := p.HandleOutput(ctx, validMarkup)
		require.ErrorIs(t, err, apperr.ErrInvalidOutput)
		assert.Equal(t, "increase contrast", err.Error())
		assert.Equal(t, 1, model.calls)
		assert.Zero(t, channel.presented)
	})

	t.Run("Should run every checker when all pass", func(t *testing.T) {
		model := &stubModel{reply: "THERE ARE NO COMMENTS"}
		channel := &scriptedChannel{}
		p := NewPipeline(&fakeRenderer{dir: t.TempDir()},
			WithChecker(visionChecker(t, model)),
			WithChecker(review.NewHumanChecker(channel)),
		)

		out, err := p.HandleOutput(ctx, validMarkup)
		require.NoError(t, err)
		assert.True(t, out.IsAccepted())
		assert.Equal(t, 1, channel.presented)
		assert.Equal(t, 1, channel.dismissed)
	})

	t.Run("Should surface vision model outages as errors", func(t *testing.T) {
		p := NewPipeline(&fakeRenderer{dir: t.TempDir()},
			WithChecker(visionChecker(t, &stubModel{err: errors.New("timeout")})))
		_, err := p.HandleOutput(ctx, validMarkup)
		require.ErrorIs(t, err, apperr.ErrExternalService)
	})
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should fold invalid markup into a rejection", func(t *testing.T) {
		out, err := NewPipeline(&fakeRenderer{dir: t.TempDir()}).Evaluate(ctx, "plain text")
		require.NoError(t, err)
		assert.False(t, out.IsAccepted())
		assert.Equal(t, "Html tags not found", out.Remarks)
	})

	t.Run("Should carry human remarks as feedback", func(t *testing.T) {
		channel := &scriptedChannel{answers: map[string]string{"color": "too dark"}}
		p := NewPipeline(&fakeRenderer{dir: t.TempDir()}, WithChecker(review.NewHumanChecker(channel)))

		out, err := p.Evaluate(ctx, validMarkup)
		require.NoError(t, err)
		assert.False(t, out.IsAccepted())
		assert.Equal(t, "update html text:\n    color: too dark", out.Remarks)
		assert.Equal(t, "rejected: update html text:\n    color: too dark", out.String())
	})

	t.Run("Should keep hard failures as errors", func(t *testing.T) {
		boom := errors.New("disk full")
		_, err := NewPipeline(&fakeRenderer{err: boom}).Evaluate(ctx, validMarkup)
		require.ErrorIs(t, err, boom)
	})
}

func TestFromConfig(t *testing.T) {
	r := &fakeRenderer{dir: t.TempDir()}

	t.Run("Should order vision before human", func(t *testing.T) {
		cfg := config.Default()
		cfg.Checks.AI = true
		cfg.Checks.Human = true
		p, err := FromConfig(cfg, r, &stubModel{}, &scriptedChannel{})
		require.NoError(t, err)
		assert.Equal(t, []string{"vision", "human"}, p.Checkers())
	})

	t.Run("Should fail when AI checks lack a model", func(t *testing.T) {
		cfg := config.Default()
		cfg.Checks.AI = true
		_, err := FromConfig(cfg, r, nil, &scriptedChannel{})
		require.ErrorIs(t, err, apperr.ErrConfig)
	})

	t.Run("Should fail when human checks lack a channel", func(t *testing.T) {
		cfg := config.Default()
		_, err := FromConfig(cfg, r, nil, nil)
		require.ErrorIs(t, err, apperr.ErrConfig)
	})

	t.Run("Should build an empty chain when both are off", func(t *testing.T) {
		cfg := config.Default()
		cfg.Checks.Human = false
		p, err := FromConfig(cfg, r, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, p.Checkers())
	})
}

func TestPipelineImports(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			assert.NotEqual(t, `"github.com/ivlev/bannerkit/internal/renderer"`, imp.Path.Value,
				"%s must depend on the Renderer interface, not the cgo-backed renderers", name)
		}
	}
}
