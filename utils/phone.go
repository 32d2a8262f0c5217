package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// FormatPhoneNumber strips a phone number down to digits and prefixes
// the Costa Rica country code (506) when it is missing. Used for the
// WhatsApp contact numbers on realtor profiles so wa.me links work.
func FormatPhoneNumber(phoneNumber string) string {
	digits := nonDigits.ReplaceAllString(phoneNumber, "")
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, "506") {
		digits = strings.TrimLeft(digits, "0")
		digits = "506" + digits
	}
	return digits
}

// ValidatePhoneNumber reports whether the number is a plausible Costa
// Rican mobile or landline: 8 local digits, optionally preceded by 506.
func ValidatePhoneNumber(phoneNumber string) bool {
	cleaned := nonDigits.ReplaceAllString(phoneNumber, "")
	cleaned = strings.TrimPrefix(cleaned, "506")
	if len(cleaned) != 8 {
		return false
	}
	// Mobiles start with 6, 7 or 8; landlines with 2.
	switch cleaned[0] {
	case '2', '6', '7', '8':
		return true
	}
	return false
}
