package services

import (
	"fmt"
	"strings"
)

// DirectThreadID derives the canonical thread id for a two-party exchange,
// optionally scoped to one property. The parties are sorted so either side
// starting the conversation lands in the same thread, which keeps one
// conversation per (pair, property) instead of a new thread per first
// message.
func DirectThreadID(a, b uint, propertyID *uint) string {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if propertyID != nil && *propertyID > 0 {
		return fmt.Sprintf("u%d-u%d-p%d", lo, hi, *propertyID)
	}
	return fmt.Sprintf("u%d-u%d", lo, hi)
}

// NormalizeBody trims a message body the way the store expects it.
func NormalizeBody(body string) string {
	return strings.TrimSpace(body)
}
