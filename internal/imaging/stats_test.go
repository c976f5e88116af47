package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func uniformImage(width, height int, r, g, b uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

func checkerImage(width, height int, low, high uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := low
			if (x+y)%2 == 0 {
				v = high
			}
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// ============================================================================
// STATS COMPUTATION
// ============================================================================

func TestComputeStats_UniformColor(t *testing.T) {
	img := uniformImage(100, 100, 10, 200, 30)

	stats := ComputeStats(img)

	assert.InDelta(t, 80.0, stats.AvgBrightness, 0.01, "brightness should be (10+200+30)/3")
	assert.InDelta(t, 0.0, stats.Contrast, 0.01, "uniform image has no contrast")
	assert.InDelta(t, 10.0, stats.AvgRed, 0.01)
	assert.InDelta(t, 200.0, stats.AvgGreen, 0.01)
	assert.InDelta(t, 30.0, stats.AvgBlue, 0.01)
	assert.InDelta(t, 200.0/240.0, stats.GreenRatio, 0.001, "green ratio is green over channel sum")
}

func TestComputeStats_UniformImageHasZeroBlurScore(t *testing.T) {
	img := uniformImage(200, 200, 128, 128, 128)

	stats := ComputeStats(img)

	assert.InDelta(t, 0.0, stats.BlurScore, 0.01, "flat image has no Laplacian response")
}

func TestComputeStats_CheckerboardIsSharp(t *testing.T) {
	img := checkerImage(400, 400, 40, 220)

	stats := ComputeStats(img)

	// Each sampled point has four neighbors of the opposite shade, so the
	// Laplacian response is 4*(220-40) everywhere.
	assert.InDelta(t, 720.0, stats.BlurScore, 0.01)
}

func TestComputeStats_TinyImageBlurDegenerate(t *testing.T) {
	img := checkerImage(2, 2, 0, 255)

	stats := ComputeStats(img)

	assert.Equal(t, 0.0, stats.BlurScore, "no interior pixels to sample")
	assert.NotZero(t, stats.AvgBrightness, "color pass still samples the corner pixels")
}

func TestComputeStats_BlurRegionCapDoesNotPanic(t *testing.T) {
	// Wider and taller than the 640px analysis cap.
	img := checkerImage(900, 800, 40, 220)

	stats := ComputeStats(img)

	assert.InDelta(t, 720.0, stats.BlurScore, 0.01)
}
