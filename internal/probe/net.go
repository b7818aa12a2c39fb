package probe

import (
	"context"
	"net"
	"os/exec"
	"slices"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	gnet "github.com/shirou/gopsutil/v4/net"

	"github.com/nexusriot/ducknetspeed/internal/iface"
	"github.com/nexusriot/ducknetspeed/internal/logger"
)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// System reads counters and interface metadata from the local host.
type System struct {
	run CommandRunner
	log logger.Logger

	// overridable for tests
	counters      func(ctx context.Context) ([]gnet.IOCountersStat, error)
	interfaces    func(ctx context.Context) (gnet.InterfaceStatList, error)
	defaultIface  func() (string, bool)
	linkSpeedMbps func(name string) *float64
}

// NewSystem returns a System backed by gopsutil and nmcli.
func NewSystem() *System {
	return &System{
		run: execRunner,
		log: logger.NewEnvLogger("[probe]"),
		counters: func(ctx context.Context) ([]gnet.IOCountersStat, error) {
			return gnet.IOCountersWithContext(ctx, true)
		},
		interfaces:    gnet.InterfacesWithContext,
		defaultIface:  defaultRouteInterface,
		linkSpeedMbps: linkSpeed,
	}
}

func (s *System) logger() logger.Logger {
	if s.log == nil {
		return logger.Noop()
	}
	return s.log
}

// Counters returns the cumulative byte counters of every interface.
func (s *System) Counters(ctx context.Context) ([]iface.Counter, error) {
	stats, err := s.counters(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]iface.Counter, 0, len(stats))
	for _, c := range stats {
		out = append(out, iface.Counter{Name: c.Name, RxBytes: c.BytesRecv, TxBytes: c.BytesSent})
	}
	return out, nil
}

// Interfaces lists interfaces in the order the OS reports them. The default
// interface is the one holding the default IPv4 route; where the platform
// cannot tell, the first up, non-loopback interface with an IPv4 address.
func (s *System) Interfaces(ctx context.Context) ([]iface.Record, error) {
	stats, err := s.interfaces(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]iface.Record, 0, len(stats))
	for _, st := range stats {
		r := iface.Record{
			Name:       st.Name,
			IsInternal: slices.Contains(st.Flags, "loopback"),
			OperState:  iface.OperDown,
			LinkType:   ClassifyIface(st.Name).LinkType(),
			IP4:        firstIPv4(st.Addrs),
			MAC:        st.HardwareAddr,
		}
		if slices.Contains(st.Flags, "up") {
			r.OperState = iface.OperUp
		}
		if r.IsInternal {
			r.LinkType = iface.LinkOther
		}
		r.SpeedMbps = s.linkSpeedMbps(st.Name)
		out = append(out, r)
	}

	markDefault(out, s.defaultIface)
	return out, nil
}

func markDefault(records []iface.Record, lookup func() (string, bool)) {
	if name, ok := lookup(); ok {
		for i := range records {
			if records[i].Name == name {
				records[i].IsDefault = true
			}
		}
		return
	}
	for i := range records {
		r := &records[i]
		if r.OperState == iface.OperUp && !r.IsInternal && r.IP4 != "" {
			r.IsDefault = true
			return
		}
	}
}

func firstIPv4(addrs gnet.InterfaceAddrList) string {
	for _, a := range addrs {
		ip, _, err := net.ParseCIDR(a.Addr)
		if err != nil {
			ip = net.ParseIP(a.Addr)
		}
		if ip != nil && ip.To4() != nil {
			return ip.String()
		}
	}
	return ""
}

// Hostname returns the host name, or "" when unavailable.
func Hostname(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	hi, err := host.InfoWithContext(ctx)
	if err != nil || hi == nil {
		return ""
	}
	return hi.Hostname
}
