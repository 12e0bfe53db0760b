package analyzer

import (
	"fmt"
	"math"
)

type ZoneName string

const (
	ZoneTop    ZoneName = "top"
	ZoneCenter ZoneName = "center"
	ZoneBottom ZoneName = "bottom"
)

// ZoneOrder is the fixed band order; ties are broken by earliest position.
var ZoneOrder = [3]ZoneName{ZoneTop, ZoneCenter, ZoneBottom}

// SloganZone is a horizontal band of image rows [Start, End).
type SloganZone struct {
	Name  ZoneName `yaml:"name"`
	Start int      `yaml:"start"`
	End   int      `yaml:"end"`
}

func (z SloganZone) Rows() int {
	return z.End - z.Start
}

func (z SloganZone) String() string {
	return fmt.Sprintf("%d, %d, %s", z.Start, z.End, z.Name)
}

// FeatureMask marks the pixels whose response passed the threshold.
type FeatureMask struct {
	Width  int
	Height int
	Points []bool
}

// Threshold keeps the pixels whose response exceeds ratio times the
// map's global maximum.
func Threshold(m *ResponseMap, ratio float64) *FeatureMask {
	limit := ratio * m.Max()
	mask := &FeatureMask{Width: m.Width, Height: m.Height, Points: make([]bool, len(m.Values))}
	for i, v := range m.Values {
		mask.Points[i] = v > limit
	}
	return mask
}

// Bands splits height into top/center/bottom with boundaries
// round(i*height/3). The last band always ends at height.
func Bands(height int) [3]SloganZone {
	var borders [4]int
	for i := 0; i <= 3; i++ {
		borders[i] = int(math.Round(float64(i*height) / 3))
	}
	borders[3] = height

	var bands [3]SloganZone
	for i, name := range ZoneOrder {
		bands[i] = SloganZone{Name: name, Start: borders[i], End: borders[i+1]}
	}
	return bands
}

// CountFeatures counts the feature points falling in each band.
func CountFeatures(mask *FeatureMask, bands [3]SloganZone) [3]int {
	var counts [3]int
	for i, band := range bands {
		for y := band.Start; y < band.End && y < mask.Height; y++ {
			row := mask.Points[y*mask.Width : (y+1)*mask.Width]
			for _, p := range row {
				if p {
					counts[i]++
				}
			}
		}
	}
	return counts
}

// SelectZone returns the band with the fewest feature points; on equal
// counts the earliest band in ZoneOrder wins. Empty bands (only possible
// for images shorter than three rows) are skipped unless all are empty.
func SelectZone(counts [3]int, bands [3]SloganZone) SloganZone {
	best := -1
	for i := range bands {
		if bands[i].Rows() <= 0 {
			continue
		}
		if best < 0 || counts[i] < counts[best] {
			best = i
		}
	}
	if best < 0 {
		return bands[0]
	}
	return bands[best]
}
