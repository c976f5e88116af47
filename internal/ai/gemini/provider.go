package gemini

import "context"

// DiagnosisProvider fronts the client selector with the single-call boundary
// the scan pipeline consumes.
type DiagnosisProvider struct {
	selector *GeminiClientSelector
}

func NewDiagnosisProvider(selector *GeminiClientSelector) *DiagnosisProvider {
	return &DiagnosisProvider{selector: selector}
}

func (d *DiagnosisProvider) Diagnose(ctx context.Context, prompt string, image []byte) (map[string]any, error) {
	return SendAIWithImageAndRetry(ctx, prompt, image, d.selector)
}
