package analyzer

import "image"

// HarrisDetector computes the Harris corner response
// R = det(M) - K*trace(M)^2 over a square window of Sobel gradient products.
type HarrisDetector struct {
	WindowSize int     // side of the structure-tensor window, odd
	K          float64 // Harris free parameter
}

func NewHarrisDetector() *HarrisDetector {
	return &HarrisDetector{
		WindowSize: 3,
		K:          0.07,
	}
}

func (d *HarrisDetector) Respond(gray *image.Gray) *ResponseMap {
	ix, iy := sobelGradients(gray)
	w, h := ix.Width, ix.Height

	xx := NewResponseMap(w, h)
	yy := NewResponseMap(w, h)
	xy := NewResponseMap(w, h)
	for i := range ix.Values {
		gx, gy := ix.Values[i], iy.Values[i]
		xx.Values[i] = gx * gx
		yy.Values[i] = gy * gy
		xy.Values[i] = gx * gy
	}

	half := d.WindowSize / 2
	if half < 1 {
		half = 1
	}

	out := NewResponseMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sxx, syy, sxy float64
			for ky := -half; ky <= half; ky++ {
				for kx := -half; kx <= half; kx++ {
					i := clamp(y+ky, 0, h-1)*w + clamp(x+kx, 0, w-1)
					sxx += xx.Values[i]
					syy += yy.Values[i]
					sxy += xy.Values[i]
				}
			}
			trace := sxx + syy
			out.Set(x, y, sxx*syy-sxy*sxy-d.K*trace*trace)
		}
	}

	return out
}
