// Package speedfmt renders byte rates for the compact title readout.
package speedfmt

import (
	"fmt"
	"math"
	"strings"
)

// Arrow glyphs used in the title.
const (
	DownArrow = "↓"
	UpArrow   = "↑"
)

// Unit divisors in bits.
const (
	kibi = 1024.0
	mebi = kibi * kibi
	gibi = mebi * kibi
)

// A tier is entered once the bit rate reads as a thousand of the unit below.
// Divisors stay binary, so 1,000,000 b/s already reads "1 Mb/s".
const (
	kiloStep = 1e3
	megaStep = 1e6
	gigaStep = 1e9
)

// Mode selects which directions the title shows.
type Mode int

const (
	Both Mode = iota
	DownloadOnly
	UploadOnly
)

// Modes lists every mode in menu order.
var Modes = []Mode{Both, DownloadOnly, UploadOnly}

// String returns the config/flag spelling of m.
func (m Mode) String() string {
	switch m {
	case DownloadOnly:
		return "down"
	case UploadOnly:
		return "up"
	default:
		return "both"
	}
}

// Label returns the menu label for m.
func (m Mode) Label() string {
	switch m {
	case DownloadOnly:
		return "Download only"
	case UploadOnly:
		return "Upload only"
	default:
		return "Download and upload"
	}
}

// ParseMode accepts "both", "down"/"download", or "up"/"upload",
// case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return Both, nil
	case "down", "download", "downloadonly", "download-only":
		return DownloadOnly, nil
	case "up", "upload", "uploadonly", "upload-only":
		return UploadOnly, nil
	default:
		return Both, fmt.Errorf("unknown display mode %q (want both, down or up)", s)
	}
}

// FormatOne renders a single byte rate as bits per second. Non-positive
// rates render as "--". Kb/s keeps one decimal so light traffic stays
// distinguishable from idle; the larger units are rounded.
func FormatOne(bytesPerSecond float64) string {
	if !(bytesPerSecond > 0) {
		return "--"
	}
	bits := bytesPerSecond * 8

	switch {
	case math.Round(bits) < kiloStep:
		return fmt.Sprintf("%.0f b/s", math.Round(bits))
	case bits < megaStep:
		return fmt.Sprintf("%.1f Kb/s", bits/kibi)
	case bits < gigaStep:
		return fmt.Sprintf("%.0f Mb/s", math.Round(bits/mebi))
	default:
		return fmt.Sprintf("%.0f Gb/s", math.Round(bits/gibi))
	}
}

// Format renders the title for the given rates in mode m.
func Format(rxBytesPerSecond, txBytesPerSecond float64, m Mode) string {
	down := DownArrow + " " + FormatOne(rxBytesPerSecond)
	up := UpArrow + " " + FormatOne(txBytesPerSecond)

	switch m {
	case DownloadOnly:
		return down
	case UploadOnly:
		return up
	default:
		return down + " " + up
	}
}
