// Package analyzer inspects a banner image and derives where slogan text
// should go (the least cluttered horizontal band) and the dominant color
// of that band.
package analyzer

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"

	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/logger"
	"github.com/ivlev/bannerkit/internal/source"
)

const (
	DefaultNumClusters    = 5
	DefaultPointThreshold = 0.1
)

// Options configures an Analyzer.
type Options struct {
	NumClusters    int
	PointThreshold float64
	Detector       string
	// Seed fixes the clustering RNG. Nil means a fresh random seed per call.
	Seed *uint64
}

func DefaultOptions() Options {
	return Options{
		NumClusters:    DefaultNumClusters,
		PointThreshold: DefaultPointThreshold,
		Detector:       "harris",
	}
}

type Analyzer struct {
	opts     Options
	detector Detector
}

func New(opts Options) (*Analyzer, error) {
	if opts.NumClusters < 1 {
		return nil, apperr.Config("num_clusters must be at least 1, got %d", opts.NumClusters)
	}
	if opts.PointThreshold < 0 || opts.PointThreshold >= 1 {
		return nil, apperr.Config("point_threshold must be in [0, 1), got %g", opts.PointThreshold)
	}
	det, err := NewDetector(opts.Detector)
	if err != nil {
		return nil, apperr.Config("%v", err)
	}
	return &Analyzer{opts: opts, detector: det}, nil
}

// ParseImage loads the image at path and analyses it.
func (a *Analyzer) ParseImage(ctx context.Context, path string) (*AnalysisReport, error) {
	img, _, err := source.LoadImage(path)
	if err != nil {
		return nil, err
	}

	report, err := a.Analyze(img)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("analyzer: image parsed",
		"path", source.CleanPath(path),
		"zone", report.Zone.Name,
		"color", report.DominantColor.String(),
	)
	return report, nil
}

// Analyze runs the zone and color heuristics on an already decoded image.
func (a *Analyzer) Analyze(img image.Image) (*AnalysisReport, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", apperr.ErrImageNotFound)
	}

	zone := a.SloganZone(img)
	color, err := a.DominantColor(img, zone)
	if err != nil {
		return nil, err
	}

	return &AnalysisReport{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Zone:          zone,
		DominantColor: color,
	}, nil
}

// SloganZone picks the horizontal band with the fewest feature points.
func (a *Analyzer) SloganZone(img image.Image) SloganZone {
	gray := toGrayscale(img)
	response := a.detector.Respond(gray)
	response = dilate(response, 3, 1)
	mask := Threshold(response, a.opts.PointThreshold)

	bands := Bands(img.Bounds().Dy())
	return SelectZone(CountFeatures(mask, bands), bands)
}

// DominantColor clusters the pixels of zone and returns the centroid of
// the largest cluster.
func (a *Analyzer) DominantColor(img image.Image, zone SloganZone) (ColorRGB, error) {
	km := &KMeans{K: a.opts.NumClusters, Rand: a.newRand()}
	return km.Dominant(zoneSamples(img, zone))
}

func (a *Analyzer) newRand() *rand.Rand {
	if a.opts.Seed != nil {
		seed := *a.opts.Seed
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return nil
}
