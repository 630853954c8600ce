package scrub

import "regexp"

// Patterns for personal data that must never reach storage. CPF is the
// Brazilian individual taxpayer number, with or without separators.
var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	cpfPattern   = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)
	ipPattern    = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	phonePattern = regexp.MustCompile(`(?:\+?55\s?)?(?:\(?\d{2}\)?[\s.\-]?)?\d{4,5}[\s.\-]?\d{4}\b`)
)

// PII replaces e-mail addresses, CPF numbers, IP addresses and phone
// numbers with redaction markers. Order matters: CPF before phone, since
// an unseparated CPF also matches the phone shape.
func PII(value string) string {
	if value == "" {
		return ""
	}
	out := emailPattern.ReplaceAllString(value, "[email]")
	out = cpfPattern.ReplaceAllString(out, "[cpf]")
	out = ipPattern.ReplaceAllString(out, "[ip]")
	out = phonePattern.ReplaceAllString(out, "[telefone]")
	return out
}
