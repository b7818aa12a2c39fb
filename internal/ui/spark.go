package ui

import "strings"

// sparkline blocks: low -> high
var blocks = []rune("▁▂▃▄▅▆▇█")

// Spark renders the last width values as a sparkline scaled between their
// minimum and maximum. Short series are right-padded with spaces.
func Spark(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = min(minV, v)
		maxV = max(maxV, v)
	}
	pad := strings.Repeat(" ", width-len(values))

	span := maxV - minV
	if span <= 1e-9 {
		return strings.Repeat(string(blocks[0]), len(values)) + pad
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - minV) / span * float64(len(blocks)-1))
		b.WriteRune(blocks[max(0, min(idx, len(blocks)-1))])
	}
	b.WriteString(pad)
	return b.String()
}
