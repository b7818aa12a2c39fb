// Package details builds the descriptive lines shown under the speed title.
package details

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nexusriot/ducknetspeed/internal/iface"
)

// NoActiveInterface is the only line emitted when nothing is connected.
const NoActiveInterface = "No active network interface"

// Build returns the detail lines for the active interface. Wireless links
// list only the fields the platform reported; other links list name, type,
// and whatever address/speed data exists. Both end with a State line.
// The order is fixed so successive results can be compared element-wise.
func Build(active *iface.Record, wifi *iface.Wifi) []string {
	if active == nil {
		return []string{NoActiveInterface}
	}
	if active.LinkType == iface.LinkWireless {
		return wireless(active, wifi)
	}
	return wired(active)
}

func wireless(active *iface.Record, wifi *iface.Wifi) []string {
	w := iface.Wifi{}
	if wifi != nil {
		w = *wifi
	}

	var out []string
	add := func(label, value string) {
		if value != "" {
			out = append(out, label+": "+value)
		}
	}

	add("SSID", w.SSID)
	add("IP Address", active.IP4)
	add("MAC Address", active.MAC)
	if len(w.Security) > 0 {
		add("Security", strings.Join(w.Security, ", "))
	}
	add("BSSID", w.BSSID)
	if w.Channel != 0 {
		add("Channel", strconv.Itoa(w.Channel))
	}
	if w.SignalLevelDbm != nil {
		add("RSSI", number(*w.SignalLevelDbm)+" dBm")
	}
	speed := positive(active.SpeedMbps)
	if speed == "" {
		speed = positive(w.TxRateMbps)
	}
	if speed != "" {
		add("Tx Rate", speed+" Mbps")
	}
	add("PHY Mode", w.Mode)
	if w.QualityPercent != nil {
		add("Signal", number(*w.QualityPercent)+"%")
	}
	out = append(out, "State: "+state(active.OperState))
	return out
}

func wired(active *iface.Record) []string {
	out := []string{
		"Interface: " + active.Name,
		"Type: " + active.LinkType.String(),
	}
	if active.IP4 != "" {
		out = append(out, "IPv4: "+active.IP4)
	}
	if active.MAC != "" {
		out = append(out, "MAC: "+active.MAC)
	}
	if speed := positive(active.SpeedMbps); speed != "" {
		out = append(out, fmt.Sprintf("Speed: %s Mbps", speed))
	}
	return append(out, "State: "+state(active.OperState))
}

func state(s iface.OperState) string {
	if v := s.String(); v != "" {
		return v
	}
	return "-"
}

func positive(v *float64) string {
	if v == nil || *v <= 0 {
		return ""
	}
	return number(*v)
}

// number drops a trailing ".0" so 1000 renders as "1000" and 866.7 stays.
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
