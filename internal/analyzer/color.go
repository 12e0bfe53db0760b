package analyzer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
)

// ColorRGB is an 8-bit RGB triple.
type ColorRGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

func (c ColorRGB) String() string {
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

// KMeans clusters RGB samples with k-means++ seeding and Lloyd iterations.
type KMeans struct {
	K       int
	MaxIter int
	Rand    *rand.Rand
}

type centroid [3]float64

// sampleAt returns the stored, non-premultiplied RGB of a pixel, so
// translucent pixels keep their color instead of fading toward black.
func sampleAt(img image.Image, x, y int) ColorRGB {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return ColorRGB{R: c.R, G: c.G, B: c.B}
}

// zoneSamples flattens the rows of zone into RGB samples.
func zoneSamples(img image.Image, zone SloganZone) []ColorRGB {
	bounds := img.Bounds()
	samples := make([]ColorRGB, 0, zone.Rows()*bounds.Dx())
	for y := zone.Start; y < zone.End; y++ {
		for x := 0; x < bounds.Dx(); x++ {
			samples = append(samples, sampleAt(img, bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return samples
}

// Dominant returns the centroid of the most populated cluster, rounded per
// channel. Equal populations resolve to the lowest cluster index.
func (km *KMeans) Dominant(samples []ColorRGB) (ColorRGB, error) {
	if len(samples) == 0 {
		return ColorRGB{}, fmt.Errorf("analyzer: no samples to cluster")
	}
	k := km.K
	if k < 1 {
		k = 1
	}
	if k > len(samples) {
		k = len(samples)
	}
	maxIter := km.MaxIter
	if maxIter <= 0 {
		maxIter = 50
	}
	rng := km.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	centroids := seedCentroids(samples, k, rng)
	labels := make([]int, len(samples))
	for i := range labels {
		labels[i] = -1
	}
	counts := make([]int, k)

	for iter := 0; iter < maxIter; iter++ {
		changed := 0
		for i, s := range samples {
			j := nearest(centroids, s)
			if labels[i] != j {
				labels[i] = j
				changed++
			}
		}

		sums := make([]centroid, k)
		for j := range counts {
			counts[j] = 0
		}
		for i, s := range samples {
			j := labels[i]
			sums[j][0] += float64(s.R)
			sums[j][1] += float64(s.G)
			sums[j][2] += float64(s.B)
			counts[j]++
		}
		for j := range centroids {
			// empty clusters keep their previous position
			if counts[j] == 0 {
				continue
			}
			n := float64(counts[j])
			centroids[j] = centroid{sums[j][0] / n, sums[j][1] / n, sums[j][2] / n}
		}

		if changed == 0 {
			break
		}
	}

	best := 0
	for j := 1; j < k; j++ {
		if counts[j] > counts[best] {
			best = j
		}
	}
	c := centroids[best]
	return ColorRGB{R: toChannel(c[0]), G: toChannel(c[1]), B: toChannel(c[2])}, nil
}

// seedCentroids implements k-means++: each next centroid is drawn with
// probability proportional to its squared distance from the chosen ones.
func seedCentroids(samples []ColorRGB, k int, rng *rand.Rand) []centroid {
	centroids := make([]centroid, 0, k)
	centroids = append(centroids, toCentroid(samples[rng.IntN(len(samples))]))

	dist := make([]float64, len(samples))
	for i := range dist {
		dist[i] = math.Inf(1)
	}

	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		total := 0.0
		for i, s := range samples {
			if d := sqDist(last, s); d < dist[i] {
				dist[i] = d
			}
			total += dist[i]
		}

		if total == 0 {
			centroids = append(centroids, toCentroid(samples[rng.IntN(len(samples))]))
			continue
		}

		target := rng.Float64() * total
		pick := len(samples) - 1
		acc := 0.0
		for i, d := range dist {
			acc += d
			if acc >= target && d > 0 {
				pick = i
				break
			}
		}
		centroids = append(centroids, toCentroid(samples[pick]))
	}
	return centroids
}

func nearest(centroids []centroid, s ColorRGB) int {
	best := 0
	bestDist := sqDist(centroids[0], s)
	for j := 1; j < len(centroids); j++ {
		if d := sqDist(centroids[j], s); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

func sqDist(c centroid, s ColorRGB) float64 {
	dr := c[0] - float64(s.R)
	dg := c[1] - float64(s.G)
	db := c[2] - float64(s.B)
	return dr*dr + dg*dg + db*db
}

func toCentroid(s ColorRGB) centroid {
	return centroid{float64(s.R), float64(s.G), float64(s.B)}
}

func toChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
