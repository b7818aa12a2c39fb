//go:build linux

package probe

import (
	"errors"
	"net"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/vishvananda/netlink"
)

// routeProbe is any public address; RouteGet only consults the routing table.
var routeProbe = net.ParseIP("1.1.1.1")

// defaultRouteInterface returns the interface owning the default IPv4 route.
// ok is true whenever the routing table could be consulted, so a host with
// no default route reports ("", true). Other netlink failures report ok false.
func defaultRouteInterface() (string, bool) {
	routes, err := netlink.RouteGet(routeProbe)
	if err != nil {
		return "", errors.Is(err, syscall.ENETUNREACH)
	}
	for _, r := range routes {
		if r.LinkIndex <= 0 {
			continue
		}
		link, err := netlink.LinkByIndex(r.LinkIndex)
		if err != nil {
			return "", false
		}
		return link.Attrs().Name, true
	}
	return "", true
}

// linkSpeed reads the negotiated speed from sysfs. Wireless and down links
// report -1 there and yield nil.
func linkSpeed(name string) *float64 {
	b, err := os.ReadFile("/sys/class/net/" + name + "/speed")
	if err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
