package receiptprint

import (
	"fmt"
	"strings"
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Document builds a fixed-width plain-text receipt suitable for counter
// printers and the text/plain print endpoint.
type Document struct {
	buf   strings.Builder
	width int // print width in characters (default 42)
	align int
}

// NewDocument creates a new document with the given character width.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 42
	}
	return &Document{width: charWidth}
}

// SetAlign sets text alignment for subsequent Text calls.
func (d *Document) SetAlign(align int) *Document {
	d.align = align
	return d
}

// LineFeed emits a blank line.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte('\n')
	return d
}

// FeedLines emits n blank lines.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte('\n')
	}
	return d
}

// Text writes a line of text, padded per the current alignment.
func (d *Document) Text(s string) *Document {
	switch d.align {
	case AlignCenter:
		if pad := (d.width - len(s)) / 2; pad > 0 {
			d.buf.WriteString(strings.Repeat(" ", pad))
		}
	case AlignRight:
		if pad := d.width - len(s); pad > 0 {
			d.buf.WriteString(strings.Repeat(" ", pad))
		}
	}
	d.buf.WriteString(s)
	d.buf.WriteByte('\n')
	return d
}

// TextF writes a formatted line of text.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width separator line.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte('\n')
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "Subtotal                         $100.00"
func (d *Document) KeyValue(key, value string) *Document {
	spaces := d.width - len(key) - len(value)
	if spaces < 1 {
		spaces = 1
	}
	d.buf.WriteString(key)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.buf.WriteString(value)
	d.buf.WriteByte('\n')
	return d
}

// String returns the rendered document.
func (d *Document) String() string {
	return d.buf.String()
}
