package renderer

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/config"
	"github.com/ivlev/bannerkit/internal/logger"
)

// ChromeRenderer screenshots markup in headless Chrome. The markup is
// opened from its .html file, so absolute file:// image paths resolve. The
// browser starts on first use and is reused until Close.
type ChromeRenderer struct {
	cfg config.RendererConfig

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
}

func NewChromeRenderer(cfg config.RendererConfig) *ChromeRenderer {
	return &ChromeRenderer{cfg: cfg}
}

func (c *ChromeRenderer) Render(ctx context.Context, markup string) (string, error) {
	log := logger.FromContext(ctx).With("renderer", KindChrome)

	a, err := writeMarkup(c.cfg.WorkDir, markup)
	if err != nil {
		return "", err
	}

	b, err := c.ensureBrowser(ctx)
	if err != nil {
		return "", apperr.External("chrome", err)
	}

	page, err := b.Context(ctx).Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return "", apperr.External("chrome", fmt.Errorf("open page: %w", err))
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             c.cfg.Width,
		Height:            c.cfg.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return "", apperr.External("chrome", fmt.Errorf("viewport: %w", err))
	}
	// The page is loaded from the written file so that file:// images
	// referenced by the markup share its origin and are allowed to load.
	pageURL, err := fileURL(a.HTMLPath)
	if err != nil {
		return "", err
	}
	if err := page.Navigate(pageURL); err != nil {
		return "", apperr.External("chrome", fmt.Errorf("navigate %s: %w", pageURL, err))
	}
	if err := page.WaitLoad(); err != nil {
		return "", apperr.External("chrome", fmt.Errorf("wait load: %w", err))
	}

	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return "", apperr.External("chrome", fmt.Errorf("screenshot: %w", err))
	}
	if err := os.WriteFile(a.PNGPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", a.PNGPath, err)
	}

	log.Info("renderer: banner rendered", "path", a.PNGPath, "bytes", len(data))
	return a.PNGPath, nil
}

func (c *ChromeRenderer) ensureBrowser(ctx context.Context) (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		return c.browser, nil
	}

	log := logger.FromContext(ctx)
	wsURL := c.cfg.RemoteURL
	if wsURL != "" {
		log.Info("renderer: connecting to remote chrome", "url", wsURL)
	} else {
		l := launcher.New().Headless(true)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch: %w", err)
		}
		wsURL = u
		c.lnch = l
		log.Debug("renderer: launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		c.cleanupLocked()
		return nil, fmt.Errorf("connect: %w", err)
	}
	c.browser = b
	return b, nil
}

func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// Close stops the browser if this renderer launched one.
func (c *ChromeRenderer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.browser = nil
	}
	c.cleanupLocked()
	return err
}

func (c *ChromeRenderer) cleanupLocked() {
	if c.lnch != nil {
		c.lnch.Kill()
		c.lnch.Cleanup()
		c.lnch = nil
	}
}
