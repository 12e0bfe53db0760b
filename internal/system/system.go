package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/logger"
	"github.com/ivlev/bannerkit/internal/source"
)

// InitResourceLimits raises the open file limit; a headless browser keeps
// many descriptors open while rendering.
func InitResourceLimits(ctx context.Context, want uint64) {
	log := logger.FromContext(ctx)

	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn("system: cannot read file limit", "error", err)
		return
	}
	if rLimit.Cur >= want {
		return
	}

	rLimit.Cur = want
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn("system: cannot raise file limit", "error", err)
		return
	}
	log.Debug("system: open file limit raised", "limit", rLimit.Cur)
}

// FindLatestImage resolves path to an image file. A file is returned as is;
// for a directory the most recently modified image in it is chosen.
func FindLatestImage(path string) (string, error) {
	path = source.CleanPath(path)
	fi, err := os.Stat(path)
	if err != nil {
		return "", apperr.ImageNotFound(path, err)
	}
	if !fi.IsDir() {
		return path, nil
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return "", apperr.ImageNotFound(path, err)
	}

	var latestFile string
	var latestTime time.Time
	for _, f := range files {
		if f.IsDir() || !source.IsImageFile(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(path, f.Name())
		}
	}

	if latestFile == "" {
		return "", apperr.ImageNotFound(path, fmt.Errorf("no images in directory"))
	}
	return latestFile, nil
}
