package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"farmassist-backend/internal/config"
)

// PhoneService delivers SMS/WhatsApp messages through the gateway server and
// normalizes destination numbers to international format first.
type PhoneService struct {
	cfg config.PhoneConfig
}

func NewPhoneService(cfg config.PhoneConfig) *PhoneService {
	return &PhoneService{cfg: cfg}
}

type smsPayload struct {
	TextMessage struct {
		Text string `json:"text"`
	} `json:"textMessage"`
	PhoneNumbers []string `json:"phoneNumbers"`
}

// NormalizeNumber converts a local phone number to canonical international
// format using the configured default country code: separators are stripped,
// a leading 0 is replaced by +<countryCode>, and bare numbers get the prefix
// added. Already-international numbers pass through unchanged.
func NormalizeNumber(number, countryCode string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(number))

	if cleaned == "" {
		return ""
	}
	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	if strings.HasPrefix(cleaned, "0") {
		return "+" + countryCode + cleaned[1:]
	}
	if strings.HasPrefix(cleaned, countryCode) {
		return "+" + cleaned
	}
	return "+" + countryCode + cleaned
}

// SendSMS delivers a message to the given numbers through the gateway.
func (p *PhoneService) SendSMS(title, content string, phoneNumbers []string) error {
	const op = "PhoneService.SendSMS"
	log := slog.With("operation", op)

	if p.cfg.Host == "" {
		return fmt.Errorf("phone gateway not configured")
	}

	normalized := make([]string, 0, len(phoneNumbers))
	for _, number := range phoneNumbers {
		if n := NormalizeNumber(number, p.cfg.CountryCode); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return fmt.Errorf("no valid phone numbers to send to")
	}

	url := fmt.Sprintf("%s:%s/message", p.cfg.Host, p.cfg.Port)
	log.Info("starting SMS delivery", "target_url", url, "recipients_count", len(normalized), "title", title)

	payload := smsPayload{PhoneNumbers: normalized}
	payload.TextMessage.Text = fmt.Sprintf("%s\n%s", title, content)

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal SMS payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.SetBasicAuth(p.cfg.Username, p.cfg.Password)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}

	startTime := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		log.Error("failed to send SMS request", "error", err, "elapsed_time", time.Since(startTime))
		return fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		responseBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			responseBody = fmt.Appendf(nil, "failed to read response body: %v", readErr)
		}
		log.Error("gateway returned non-success status",
			"status_code", resp.StatusCode,
			"response_body", string(responseBody))
		return fmt.Errorf("gateway returned non-success status: %s. Response body: %s", resp.Status, responseBody)
	}

	log.Info("SMS successfully sent", "status", resp.Status, "elapsed_time", time.Since(startTime))
	return nil
}
