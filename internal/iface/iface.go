// Package iface holds interface and Wi-Fi records and the rules that pick
// which of them feed the throughput readout.
package iface

import "strings"

// DefaultExcludedPrefixes covers loopback, libvirt, VirtualBox, Docker and
// Linux bridge interfaces. Their traffic is either local or already counted
// on the physical uplink.
var DefaultExcludedPrefixes = []string{"lo", "vir", "vbox", "docker", "br-"}

// OperState is the operational state of an interface.
type OperState int

const (
	OperOther OperState = iota
	OperUp
	OperDown
)

// String returns "up", "down", or "" when the state is unknown.
func (s OperState) String() string {
	switch s {
	case OperUp:
		return "up"
	case OperDown:
		return "down"
	default:
		return ""
	}
}

// LinkType is the physical medium of an interface.
type LinkType int

const (
	LinkOther LinkType = iota
	LinkWired
	LinkWireless
)

func (t LinkType) String() string {
	switch t {
	case LinkWired:
		return "wired"
	case LinkWireless:
		return "wireless"
	default:
		return "other"
	}
}

// Counter is the cumulative byte total reported for one interface.
type Counter struct {
	Name    string
	RxBytes uint64
	TxBytes uint64
}

// Record describes one network interface.
type Record struct {
	Name       string
	IsDefault  bool
	IsInternal bool
	OperState  OperState
	LinkType   LinkType
	IP4        string
	MAC        string
	SpeedMbps  *float64
}

// Active reports whether r can carry the default outbound traffic.
func (r Record) Active() bool {
	return r.IsDefault && !r.IsInternal && r.OperState == OperUp
}

// Wifi describes one visible wireless network. Pointer fields are nil when
// the platform did not report them.
type Wifi struct {
	SSID           string
	QualityPercent *float64
	BSSID          string
	Channel        int
	Security       []string
	SignalLevelDbm *float64
	// TxRateMbps is the current bitrate when connected to this network.
	TxRateMbps     *float64
	Mode           string
}

// Excluded reports whether name starts with any of prefixes.
func Excluded(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Aggregate sums the counters of every interface not matched by excluded.
func Aggregate(counters []Counter, excluded []string) (rx, tx uint64) {
	for _, c := range counters {
		if Excluded(c.Name, excluded) {
			continue
		}
		rx += c.RxBytes
		tx += c.TxBytes
	}
	return rx, tx
}

// SelectActive returns the first record that is default, not internal, and up.
func SelectActive(records []Record) (Record, bool) {
	for _, r := range records {
		if r.Active() {
			return r, true
		}
	}
	return Record{}, false
}

// SelectBestWifi returns the named network with the highest quality. A
// later network replaces the current pick only when strictly better, so the
// first one wins ties. Networks without an SSID are ignored.
func SelectBestWifi(networks []Wifi) (Wifi, bool) {
	var (
		best  Wifi
		found bool
	)
	for _, n := range networks {
		if n.SSID == "" {
			continue
		}
		if !found || quality(n) > quality(best) {
			best = n
			found = true
		}
	}
	return best, found
}

func quality(w Wifi) float64 {
	if w.QualityPercent == nil {
		return 0
	}
	return *w.QualityPercent
}
