package probe

import (
	"strings"

	"github.com/nexusriot/ducknetspeed/internal/iface"
)

type IfaceKind int

const (
	IfaceUnknown IfaceKind = iota
	IfaceLoopback
	IfaceDockerBridge
	IfaceLinuxBridge
	IfaceVeth
	IfaceTunTap
	IfaceVirt
	IfaceWireless
	IfacePhysical
)

func ClassifyIface(name string) IfaceKind {
	switch {
	case name == "lo" || strings.HasPrefix(name, "lo"):
		return IfaceLoopback
	case name == "docker0" || strings.HasPrefix(name, "docker"):
		return IfaceDockerBridge
	case strings.HasPrefix(name, "br-") || name == "virbr0" || strings.HasPrefix(name, "virbr"):
		return IfaceLinuxBridge
	case strings.HasPrefix(name, "veth"):
		return IfaceVeth
	case strings.HasPrefix(name, "tun") || strings.HasPrefix(name, "tap") || strings.HasPrefix(name, "utun"):
		return IfaceTunTap
	case strings.HasPrefix(name, "wg") || strings.HasPrefix(name, "vbox") || strings.HasPrefix(name, "vmnet"):
		return IfaceVirt
	case strings.HasPrefix(name, "wl") || strings.HasPrefix(name, "ath") || strings.HasPrefix(name, "ra"):
		return IfaceWireless
	case strings.HasPrefix(name, "en") || strings.HasPrefix(name, "eth"):
		return IfacePhysical
	default:
		return IfaceUnknown
	}
}

// LinkType maps the name-based kind onto the medium shown in details.
func (k IfaceKind) LinkType() iface.LinkType {
	switch k {
	case IfaceWireless:
		return iface.LinkWireless
	case IfacePhysical:
		return iface.LinkWired
	default:
		return iface.LinkOther
	}
}
