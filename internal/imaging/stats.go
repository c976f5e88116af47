package imaging

import (
	"image"
	"math"
)

const (
	// Every 10th pixel is sampled (row-major) for the brightness/color pass.
	sampleStride = 10

	// Blur estimation is restricted to the top-left region of at most
	// blurRegion x blurRegion pixels, sampled at blurStride in both axes.
	blurRegion = 640
	blurStride = 4
)

// Stats holds the raw image statistics computed from decoded pixel data.
// BlurScore is a mean absolute Laplacian response; higher means sharper.
type Stats struct {
	AvgBrightness float64 `json:"avg_brightness"`
	Contrast      float64 `json:"contrast"`
	GreenRatio    float64 `json:"green_ratio"`
	AvgRed        float64 `json:"avg_red"`
	AvgGreen      float64 `json:"avg_green"`
	AvgBlue       float64 `json:"avg_blue"`
	BlurScore     float64 `json:"blur_score"`
}

// ComputeStats runs the sampling passes over a decoded image. Pure function,
// no I/O; safe to call concurrently on independent images.
func ComputeStats(img image.Image) Stats {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var stats Stats
	if width < 1 || height < 1 {
		return stats
	}

	var sumRed, sumGreen, sumBlue float64
	minBrightness := math.MaxFloat64
	maxBrightness := 0.0
	samples := 0

	total := width * height
	for idx := 0; idx < total; idx += sampleStride {
		x := idx % width
		y := idx / width
		r, g, b := rgbAt(img, bounds, x, y)

		sumRed += r
		sumGreen += g
		sumBlue += b

		brightness := (r + g + b) / 3
		if brightness < minBrightness {
			minBrightness = brightness
		}
		if brightness > maxBrightness {
			maxBrightness = brightness
		}
		samples++
	}

	if samples == 0 {
		return stats
	}

	stats.AvgRed = sumRed / float64(samples)
	stats.AvgGreen = sumGreen / float64(samples)
	stats.AvgBlue = sumBlue / float64(samples)
	stats.AvgBrightness = (stats.AvgRed + stats.AvgGreen + stats.AvgBlue) / 3
	stats.Contrast = maxBrightness - minBrightness

	channelSum := stats.AvgRed + stats.AvgGreen + stats.AvgBlue
	if channelSum > 0 {
		stats.GreenRatio = stats.AvgGreen / channelSum
	}

	stats.BlurScore = blurScore(img, bounds, width, height)
	return stats
}

// blurScore computes the mean absolute discrete Laplacian of the grayscale
// image over the capped top-left region, excluding a 1-pixel border. Neighbor
// offsets are one pixel, not one stride step. Returns 0 when the region is too
// small to sample.
func blurScore(img image.Image, bounds image.Rectangle, width, height int) float64 {
	regionW := min(width, blurRegion)
	regionH := min(height, blurRegion)

	var sum float64
	samples := 0

	for y := 1; y < regionH-1; y += blurStride {
		for x := 1; x < regionW-1; x += blurStride {
			center := grayAt(img, bounds, x, y)
			laplacian := math.Abs(-4*center +
				grayAt(img, bounds, x, y-1) +
				grayAt(img, bounds, x, y+1) +
				grayAt(img, bounds, x-1, y) +
				grayAt(img, bounds, x+1, y))
			sum += laplacian
			samples++
		}
	}

	if samples == 0 {
		return 0
	}
	return sum / float64(samples)
}

func rgbAt(img image.Image, bounds image.Rectangle, x, y int) (float64, float64, float64) {
	r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
	return float64(r >> 8), float64(g >> 8), float64(b >> 8)
}

func grayAt(img image.Image, bounds image.Rectangle, x, y int) float64 {
	r, g, b := rgbAt(img, bounds, x, y)
	return (r + g + b) / 3
}
