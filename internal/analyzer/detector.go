package analyzer

import "image"

// ResponseMap holds one scalar "visual complexity" value per pixel, row-major.
type ResponseMap struct {
	Width  int
	Height int
	Values []float64
}

// NewResponseMap allocates a zeroed map.
func NewResponseMap(width, height int) *ResponseMap {
	return &ResponseMap{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

func (m *ResponseMap) At(x, y int) float64 {
	return m.Values[y*m.Width+x]
}

func (m *ResponseMap) Set(x, y int, v float64) {
	m.Values[y*m.Width+x] = v
}

// Max returns the global maximum, or 0 for an empty map.
func (m *ResponseMap) Max() float64 {
	if len(m.Values) == 0 {
		return 0
	}
	maxVal := m.Values[0]
	for _, v := range m.Values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// Detector is the interface for feature-density strategies.
type Detector interface {
	Respond(gray *image.Gray) *ResponseMap
}
