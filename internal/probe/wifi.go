package probe

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	"github.com/nexusriot/ducknetspeed/internal/iface"
)

var nmcliArgs = []string{
	"-t", "-f", "IN-USE,SSID,BSSID,CHAN,RATE,SIGNAL,SECURITY,MODE",
	"device", "wifi", "list", "--rescan", "no",
}

// WifiNetworks lists visible Wi-Fi networks through NetworkManager. When
// nmcli marks a network as in use only that one is returned. Hosts without
// nmcli, or where nmcli exits with an error (NetworkManager not running),
// report no networks. Cancellation and timeouts are still errors.
func (s *System) WifiNetworks(ctx context.Context) ([]iface.Wifi, error) {
	out, err := s.run(ctx, "nmcli", nmcliArgs...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.Is(err, exec.ErrNotFound) || errors.As(err, &exitErr) {
			s.logger().Debug("nmcli unavailable, skipping Wi-Fi details: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return parseNmcli(string(out)), nil
}

func parseNmcli(out string) []iface.Wifi {
	var all, inUse []iface.Wifi
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		f := splitTerse(line)
		if len(f) < 8 {
			continue
		}

		w := iface.Wifi{
			SSID:       f[1],
			BSSID:      f[2],
			TxRateMbps: parseRate(f[4]),
			Mode:       f[7],
			Security:   parseSecurity(f[6]),
		}
		if ch, err := strconv.Atoi(f[3]); err == nil {
			w.Channel = ch
		}
		if q, err := strconv.ParseFloat(f[5], 64); err == nil {
			dbm := q/2 - 100
			w.QualityPercent = &q
			w.SignalLevelDbm = &dbm
		}

		all = append(all, w)
		if f[0] == "*" {
			inUse = append(inUse, w)
		}
	}
	if len(inUse) > 0 {
		return inUse
	}
	return all
}

// parseRate reads nmcli's RATE column, e.g. "270 Mbit/s".
func parseRate(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "Mbit/s")), 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func parseSecurity(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return nil
	}
	return strings.Fields(s)
}

// splitTerse splits an nmcli terse line on ':' honoring "\:" and "\\" escapes.
func splitTerse(line string) []string {
	var (
		fields []string
		b      strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			i++
			b.WriteByte(line[i])
		case c == ':':
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	return append(fields, b.String())
}
