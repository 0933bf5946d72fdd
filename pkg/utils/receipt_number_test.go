package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatReceiptNo(t *testing.T) {
	assert.Equal(t, "R-2026-0001", FormatReceiptNo("R", 2026, 1))
	assert.Equal(t, "R-2026-0042", FormatReceiptNo("R", 2026, 42))
	assert.Equal(t, "FBO-2027-12345", FormatReceiptNo("FBO", 2027, 12345))
	// Empty prefix falls back to the default.
	assert.Equal(t, "R-2026-0007", FormatReceiptNo("", 2026, 7))
}
