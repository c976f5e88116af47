package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNumber(t *testing.T) {
	cases := []struct {
		name        string
		input       string
		countryCode string
		expected    string
	}{
		{"leading zero rewritten", "09876543210", "91", "+919876543210"},
		{"already international untouched", "+919876543210", "91", "+919876543210"},
		{"separators stripped", "0 98-76 (54) 32.10", "91", "+919876543210"},
		{"country code without plus", "919876543210", "91", "+919876543210"},
		{"bare local number prefixed", "9876543210", "91", "+919876543210"},
		{"different country code", "0712345678", "254", "+254712345678"},
		{"empty input", "   ", "91", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeNumber(tc.input, tc.countryCode))
		})
	}
}
