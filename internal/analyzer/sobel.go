package analyzer

import (
	"image"
	"image/color"
	"math"
)

// Sobel kernels
var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// SobelDetector scores each pixel by its gradient magnitude.
type SobelDetector struct{}

func NewSobelDetector() *SobelDetector {
	return &SobelDetector{}
}

func (d *SobelDetector) Respond(gray *image.Gray) *ResponseMap {
	ix, iy := sobelGradients(gray)
	out := NewResponseMap(ix.Width, ix.Height)
	for i := range out.Values {
		gx, gy := ix.Values[i], iy.Values[i]
		out.Values[i] = math.Sqrt(gx*gx + gy*gy)
	}
	return out
}

// toGrayscale converts an image to grayscale using the same luma weights
// as color.GrayModel, applied to the non-premultiplied samples.
func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := sampleAt(img, x, y)
			r, g, b := uint32(c.R)*0x101, uint32(c.G)*0x101, uint32(c.B)*0x101
			lum := (19595*r + 38470*g + 7471*b + 1<<15) >> 24
			gray.SetGray(x, y, color.Gray{Y: uint8(lum)})
		}
	}

	return gray
}

// sobelGradients returns the horizontal and vertical derivatives. Pixels
// outside the image replicate the nearest edge pixel.
func sobelGradients(gray *image.Gray) (*ResponseMap, *ResponseMap) {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	ix := NewResponseMap(w, h)
	iy := NewResponseMap(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sumX, sumY float64

			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					px := clamp(x+kx, 0, w-1) + bounds.Min.X
					py := clamp(y+ky, 0, h-1) + bounds.Min.Y
					pixel := float64(gray.GrayAt(px, py).Y)
					sumX += pixel * sobelX[ky+1][kx+1]
					sumY += pixel * sobelY[ky+1][kx+1]
				}
			}

			ix.Set(x, y, sumX)
			iy.Set(x, y, sumY)
		}
	}

	return ix, iy
}

// dilate performs morphological dilation so isolated strong responses
// spread to their neighbours.
func dilate(m *ResponseMap, kernelSize, iterations int) *ResponseMap {
	result := &ResponseMap{Width: m.Width, Height: m.Height, Values: append([]float64(nil), m.Values...)}
	half := kernelSize / 2

	for iter := 0; iter < iterations; iter++ {
		temp := NewResponseMap(m.Width, m.Height)

		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				maxVal := math.Inf(-1)

				for ky := -half; ky <= half; ky++ {
					for kx := -half; kx <= half; kx++ {
						val := result.At(clamp(x+kx, 0, m.Width-1), clamp(y+ky, 0, m.Height-1))
						if val > maxVal {
							maxVal = val
						}
					}
				}

				temp.Set(x, y, maxVal)
			}
		}

		result = temp
	}

	return result
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
