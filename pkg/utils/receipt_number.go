package utils

import "fmt"

// FormatReceiptNo builds a display receipt number from the yearly sequence,
// e.g. "R-2026-0042". Numbers are assigned once at generation and never reused.
func FormatReceiptNo(prefix string, year int, seq int64) string {
	if prefix == "" {
		prefix = "R"
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}
