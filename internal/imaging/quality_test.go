package imaging

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodFileSize = 600 * 1024 // comfortably above every size threshold

// ============================================================================
// GATE DECISIONS
// ============================================================================

func TestEvaluate_CleanImagePasses(t *testing.T) {
	img := checkerImage(800, 700, 40, 220)
	stats := ComputeStats(img)

	report := Evaluate(goodFileSize, 800, 700, stats)

	assert.True(t, report.IsValid)
	assert.Equal(t, 100, report.Score)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Warnings)
}

func TestEvaluate_SmallGrayImageScenario(t *testing.T) {
	// 200x200 uniform mid-gray at 50KB: hard-fails size, resolution and blur,
	// soft-fails contrast.
	img := uniformImage(200, 200, 128, 128, 128)
	stats := ComputeStats(img)

	report := Evaluate(50*1024, 200, 200, stats)

	assert.False(t, report.IsValid)
	assert.LessOrEqual(t, report.Score, 30)
	assert.GreaterOrEqual(t, len(report.Issues), 2, "both the size and resolution checks must fire")
}

func TestEvaluate_DarkeningNeverIncreasesScore(t *testing.T) {
	base := checkerImage(800, 700, 40, 220)
	dark := checkerImage(800, 700, 0, 60) // avg brightness 30, below the hard floor

	baseReport := Evaluate(goodFileSize, 800, 700, ComputeStats(base))
	darkReport := Evaluate(goodFileSize, 800, 700, ComputeStats(dark))

	assert.True(t, baseReport.IsValid)
	assert.False(t, darkReport.IsValid)
	assert.Less(t, darkReport.Score, baseReport.Score, "adding a defect must not raise the score")
}

func TestEvaluate_ChecksAccumulateIndependently(t *testing.T) {
	// Overexposed AND blurry: both penalties apply in one report.
	img := uniformImage(800, 700, 240, 240, 240)
	stats := ComputeStats(img)

	report := Evaluate(goodFileSize, 800, 700, stats)

	assert.False(t, report.IsValid)
	assert.Len(t, report.Issues, 2, "overexposure and blur hard-fail together")
	assert.Equal(t, 100-30-10-40, report.Score, "brightness, contrast and blur penalties all apply")
}

func TestEvaluate_ScoreClampedToZero(t *testing.T) {
	img := uniformImage(100, 100, 5, 5, 5)
	stats := ComputeStats(img)

	report := Evaluate(10*1024, 100, 100, stats)

	assert.Equal(t, 0, report.Score)
	assert.False(t, report.IsValid)
}

func TestEvaluate_ValidExactlyWhenNoIssues(t *testing.T) {
	cases := []QualityReport{
		Evaluate(goodFileSize, 800, 700, ComputeStats(checkerImage(800, 700, 40, 220))),
		Evaluate(50*1024, 200, 200, ComputeStats(uniformImage(200, 200, 128, 128, 128))),
		Evaluate(goodFileSize, 800, 700, ComputeStats(uniformImage(800, 700, 60, 60, 60))),
	}

	for _, report := range cases {
		assert.Equal(t, len(report.Issues) == 0, report.IsValid)
		assert.GreaterOrEqual(t, report.Score, 0)
		assert.LessOrEqual(t, report.Score, 100)
	}
}

func TestEvaluate_AspectRatioWarning(t *testing.T) {
	img := checkerImage(1600, 700, 40, 220)
	stats := ComputeStats(img)

	report := Evaluate(goodFileSize, 1600, 700, stats)

	assert.True(t, report.IsValid, "aspect ratio is a warning, not a hard failure")
	assert.Equal(t, 95, report.Score)
	assert.Len(t, report.Warnings, 1)
}

// ============================================================================
// DECODE PATH
// ============================================================================

func TestEvaluateQuality_UndecodableBytes(t *testing.T) {
	report := EvaluateQuality(goodFileSize, []byte("not an image at all"))

	assert.False(t, report.IsValid)
	assert.Equal(t, 0, report.Score)
	assert.Equal(t, []string{"unable to validate image"}, report.Issues)
	assert.Empty(t, report.Warnings)
}

func TestEvaluateQuality_DecodesEncodedPNG(t *testing.T) {
	img := checkerImage(800, 700, 40, 220)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	report := EvaluateQuality(goodFileSize, buf.Bytes())

	assert.True(t, report.IsValid)
	assert.Equal(t, 100, report.Score)
}
