package imaging

import (
	"bytes"
	"image"
	"log/slog"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Quality gate thresholds. Hard limits force the report invalid; soft limits
// only reduce the score.
const (
	minFileSizeMB  = 0.1
	warnFileSizeMB = 0.5

	minDimension  = 300
	warnDimension = 640

	minAspectRatio = 0.5
	maxAspectRatio = 2.0

	minBrightness  = 40
	warnBrightness = 70

	maxBrightness     = 230
	warnMaxBrightness = 200

	warnContrast = 20

	minBlurScore  = 50
	warnBlurScore = 100

	warnGreenRatio = 0.15
)

// QualityReport is the quality gate decision for one image. Advisory: the
// caller decides whether IsValid blocks submission to the AI classifier.
type QualityReport struct {
	IsValid  bool     `json:"is_valid"`
	Score    int      `json:"score"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
	Stats    *Stats   `json:"stats,omitempty"`
}

// EvaluateQuality decodes the raw image bytes and gates them. Never fails
// outward: any decode or analysis failure yields a zero-score invalid report.
func EvaluateQuality(fileSize int64, data []byte) (report QualityReport) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("image analysis panicked", "error", r)
			report = invalidReport()
		}
	}()

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Warn("failed to decode image for quality check", "error", err)
		return invalidReport()
	}

	bounds := img.Bounds()
	stats := ComputeStats(img)
	return Evaluate(fileSize, bounds.Dx(), bounds.Dy(), stats)
}

// Evaluate applies the quality checks to precomputed statistics. Checks are
// independent and never short-circuited; multiple issues and warnings may
// accumulate on the same report.
func Evaluate(fileSize int64, width, height int, stats Stats) QualityReport {
	report := QualityReport{
		IsValid:  true,
		Score:    100,
		Issues:   []string{},
		Warnings: []string{},
		Stats:    &stats,
	}

	sizeMB := float64(fileSize) / (1024 * 1024)
	switch {
	case sizeMB < minFileSizeMB:
		report.fail("image file is too small for reliable analysis", 30)
	case sizeMB < warnFileSizeMB:
		report.warn("image file size is low; detection accuracy may suffer", 10)
	}

	switch {
	case width < minDimension || height < minDimension:
		report.fail("image resolution is too low; use at least 300x300 pixels", 40)
	case width < warnDimension || height < warnDimension:
		report.warn("image resolution is below 640 pixels; a closer photo works better", 15)
	}

	if height > 0 {
		ratio := float64(width) / float64(height)
		if ratio < minAspectRatio || ratio > maxAspectRatio {
			report.warn("unusual aspect ratio; frame the plant more evenly", 5)
		}
	}

	switch {
	case stats.AvgBrightness < minBrightness:
		report.fail("image is too dark; retake in better light", 35)
	case stats.AvgBrightness < warnBrightness:
		report.warn("image is somewhat dark; more light improves detection", 10)
	}

	switch {
	case stats.AvgBrightness > maxBrightness:
		report.fail("image is overexposed; avoid direct glare", 30)
	case stats.AvgBrightness > warnMaxBrightness:
		report.warn("image is bright; reduce glare if possible", 8)
	}

	if stats.Contrast < warnContrast {
		report.warn("image has low contrast; details may be hard to distinguish", 10)
	}

	switch {
	case stats.BlurScore < minBlurScore:
		report.fail("image is too blurry; hold the camera steady and refocus", 40)
	case stats.BlurScore < warnBlurScore:
		report.warn("image is slightly blurry; a sharper photo works better", 15)
	}

	if stats.GreenRatio < warnGreenRatio {
		report.warn("little vegetation detected; center the photo on the plant", 10)
	}

	if report.Score < 0 {
		report.Score = 0
	}
	if report.Score > 100 {
		report.Score = 100
	}
	report.IsValid = len(report.Issues) == 0
	return report
}

func (r *QualityReport) fail(issue string, penalty int) {
	r.Issues = append(r.Issues, issue)
	r.Score -= penalty
	r.IsValid = false
}

func (r *QualityReport) warn(warning string, penalty int) {
	r.Warnings = append(r.Warnings, warning)
	r.Score -= penalty
}

func invalidReport() QualityReport {
	return QualityReport{
		IsValid:  false,
		Score:    0,
		Issues:   []string{"unable to validate image"},
		Warnings: []string{},
	}
}
