package parser

import (
	"regexp"
	"strings"
)

// CodeDetector finds verification codes in message text. Disposable
// inboxes receive mostly signup confirmations and OTP mails, so the
// codes are surfaced next to the rendered message.
type CodeDetector struct {
	patterns []*regexp.Regexp
}

// NewCodeDetector creates a new code detector
func NewCodeDetector() *CodeDetector {
	return &CodeDetector{
		patterns: []*regexp.Regexp{
			// OTP/PIN with keyword (4-8 digits)
			regexp.MustCompile(`(?i)(?:code|otp|pin|password)[\s:\-]*(\d{4,8})\b`),
			// Verification phrasing
			regexp.MustCompile(`(?i)(?:verification|confirm|activation)[\s\w]*[\s:\-]*(\d{4,8})\b`),
			// Standalone numeric codes on their own line
			regexp.MustCompile(`(?m)^\s*(\d{4,8})\s*$`),
			// Alphanumeric codes (reset tokens and the like)
			regexp.MustCompile(`(?i)code[\s:\-]*([A-Z0-9]{4,12})\b`),
		},
	}
}

// Detect returns all distinct codes found in text, in match order.
func (d *CodeDetector) Detect(text string) []string {
	var codes []string
	seen := make(map[string]bool)

	for _, pattern := range d.patterns {
		matches := pattern.FindAllStringSubmatch(text, -1)
		for _, match := range matches {
			if len(match) < 2 {
				continue
			}
			code := strings.TrimSpace(match[1])
			if len(code) < 4 || seen[code] {
				continue
			}
			seen[code] = true
			codes = append(codes, code)
		}
	}

	return codes
}
