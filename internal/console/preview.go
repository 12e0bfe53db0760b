package console

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/bannerkit/internal/logger"
	"github.com/ivlev/bannerkit/internal/source"
	"github.com/ivlev/bannerkit/internal/system"
)

const (
	DefaultPreviewSize = 512
	shutdownTimeout    = 3 * time.Second
)

const indexPage = `<!DOCTYPE html>
<html><head><meta http-equiv="refresh" content="2"><title>bannerkit preview</title></head>
<body style="margin:0;background:#1e1e1e;display:flex;justify-content:center;align-items:center;height:100vh">
<img src="/image.png?t=%d" width="%d" height="%d" alt="banner">
</body></html>`

// PreviewServer shows the image under review in a browser tab. It serves
// one image at a time, scaled to a fixed square.
type PreviewServer struct {
	addr string
	size int
	pool *system.ImagePool

	mu        sync.RWMutex
	imagePath string

	srv   *http.Server
	ln    net.Listener
	group *errgroup.Group
}

func NewPreviewServer(addr string, size int) *PreviewServer {
	if size <= 0 {
		size = DefaultPreviewSize
	}
	return &PreviewServer{addr: addr, size: size, pool: system.NewImagePool(size, size)}
}

func (p *PreviewServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Get("/", p.handleIndex)
	r.Get("/image.png", p.handleImage)
	return r
}

// Show points the server at imagePath and starts it if needed. It returns
// the page URL.
func (p *PreviewServer) Show(ctx context.Context, imagePath string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.imagePath = imagePath
	if p.srv == nil {
		if err := p.startLocked(ctx); err != nil {
			return "", err
		}
	}
	return "http://" + p.ln.Addr().String() + "/", nil
}

func (p *PreviewServer) startLocked(ctx context.Context) error {
	ln, err := net.Listen("tcp", p.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", p.addr, err)
	}
	srv := &http.Server{
		Handler:           p.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log := logger.FromContext(ctx)

	g := new(errgroup.Group)
	g.Go(func() error {
		log.Debug("preview: serving", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("preview server: %w", err)
		}
		return nil
	})

	p.srv, p.ln, p.group = srv, ln, g
	return nil
}

// Close stops the server and waits for the serve loop to return.
func (p *PreviewServer) Close() error {
	p.mu.Lock()
	srv, g := p.srv, p.group
	p.srv, p.ln, p.group = nil, nil, nil
	p.imagePath = ""
	p.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := srv.Shutdown(ctx)
	if err := g.Wait(); err != nil {
		return err
	}
	return shutdownErr
}

func (p *PreviewServer) currentImage() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.imagePath
}

func (p *PreviewServer) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, time.Now().UnixNano(), p.size, p.size)
}

func (p *PreviewServer) handleImage(w http.ResponseWriter, r *http.Request) {
	path := p.currentImage()
	if path == "" {
		http.Error(w, "no image under review", http.StatusNotFound)
		return
	}
	src, _, err := source.LoadImage(path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	dst := p.pool.Get()
	defer p.pool.Put(dst)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, dst); err != nil {
		logger.FromContext(r.Context()).Warn("preview: encode failed", "error", err)
	}
}
