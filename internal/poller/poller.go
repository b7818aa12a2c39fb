// Package poller drives the sampling loop: it acquires counters and
// interface metadata on a fixed interval, turns them into rates and detail
// lines, and hands the result to the display state machine.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nexusriot/ducknetspeed/internal/details"
	"github.com/nexusriot/ducknetspeed/internal/display"
	"github.com/nexusriot/ducknetspeed/internal/errors"
	"github.com/nexusriot/ducknetspeed/internal/iface"
	"github.com/nexusriot/ducknetspeed/internal/logger"
	"github.com/nexusriot/ducknetspeed/internal/rate"
	"github.com/nexusriot/ducknetspeed/internal/speedfmt"
)

// DefaultInterval is the poll cadence when Options.Interval is unset.
const DefaultInterval = time.Second

// ErrPollInFlight is returned by Poll when the previous poll has not finished.
var ErrPollInFlight = errors.New(errors.ErrBusy, "Previous poll still running", "")

// Source is the acquisition collaborator.
type Source interface {
	Counters(ctx context.Context) ([]iface.Counter, error)
	Interfaces(ctx context.Context) ([]iface.Record, error)
	WifiNetworks(ctx context.Context) ([]iface.Wifi, error)
}

// Options configures an Orchestrator. Zero values pick defaults.
type Options struct {
	Interval         time.Duration
	PollTimeout      time.Duration
	ExcludedPrefixes []string
	// SkipWifi disables Wi-Fi queries; wireless details then omit SSID data.
	SkipWifi bool
	Logger   logger.Logger
	Now      func() time.Time
	// OnSample, if set, receives every successfully computed rate.
	OnSample func(rate.Sample)
}

// Stats counts poll outcomes.
type Stats struct {
	Polls     uint64
	Failures  uint64
	Skipped   uint64
	LastError string
	LastPoll  time.Time
}

// Orchestrator owns the previous counter sample and serializes every
// mutation of the display state machine.
type Orchestrator struct {
	source  Source
	machine *display.Machine
	opts    Options
	log     logger.Logger

	inFlight atomic.Bool
	prev     *rate.CounterSample
	modes    chan speedfmt.Mode

	statsMu sync.Mutex
	stats   Stats
}

type result struct {
	sample rate.CounterSample
	active *iface.Record
	wifi   *iface.Wifi
	err    error
}

// New creates an Orchestrator feeding machine from source.
func New(source Source, machine *display.Machine, opts Options) *Orchestrator {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.ExcludedPrefixes == nil {
		opts.ExcludedPrefixes = iface.DefaultExcludedPrefixes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Orchestrator{
		source:  source,
		machine: machine,
		opts:    opts,
		log:     log,
		modes:   make(chan speedfmt.Mode, 8),
	}
}

// Stats returns a copy of the poll counters.
func (o *Orchestrator) Stats() Stats {
	o.statsMu.Lock()
	defer o.statsMu.Unlock()
	return o.stats
}

// Previous returns the sample the next rate will be measured against, or
// nil before the first successful poll.
func (o *Orchestrator) Previous() *rate.CounterSample {
	if o.prev == nil {
		return nil
	}
	p := *o.prev
	return &p
}

// Poll runs one complete cycle on the calling goroutine. It must not be
// mixed with a concurrent Run. A failed acquisition leaves the previous
// sample and the display untouched and returns the error.
func (o *Orchestrator) Poll(ctx context.Context) error {
	if !o.inFlight.CompareAndSwap(false, true) {
		o.skip()
		return ErrPollInFlight
	}
	defer o.inFlight.Store(false)
	return o.apply(o.acquire(ctx))
}

// RequestMode asks the running loop to switch display mode.
func (o *Orchestrator) RequestMode(m speedfmt.Mode) {
	select {
	case o.modes <- m:
	default:
		o.log.Warn("display mode change to %s dropped, loop busy", m)
	}
}

// Run drives polls every Interval and the loading animation until ctx is
// done. All state changes happen on the calling goroutine; only the
// acquisition itself runs elsewhere. A tick that fires while a poll is still
// in flight is skipped.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.machine.Start()

	results := make(chan result, 1)
	start := func() {
		if !o.inFlight.CompareAndSwap(false, true) {
			o.skip()
			o.log.Debug("previous poll still running, skipping tick")
			return
		}
		go func() { results <- o.acquire(ctx) }()
	}

	poll := time.NewTicker(o.opts.Interval)
	defer poll.Stop()
	anim := time.NewTicker(o.machine.FrameInterval())
	defer anim.Stop()

	start()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-poll.C:
			start()
		case res := <-results:
			o.inFlight.Store(false)
			if o.apply(res) == nil && o.machine.State() == display.Ready {
				anim.Stop()
			}
		case <-anim.C:
			o.machine.Animate()
		case m := <-o.modes:
			o.machine.SetMode(m)
		}
	}
}

func (o *Orchestrator) acquire(ctx context.Context) result {
	if o.opts.PollTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.PollTimeout)
		defer cancel()
	}

	counters, err := o.source.Counters(ctx)
	if err != nil {
		return result{err: errors.Wrap(err, "Failed to read network counters")}
	}
	now := o.opts.Now()

	records, err := o.source.Interfaces(ctx)
	if err != nil {
		return result{err: errors.Wrap(err, "Failed to list network interfaces")}
	}

	res := result{}
	if active, ok := iface.SelectActive(records); ok {
		res.active = &active
		if active.LinkType == iface.LinkWireless && !o.opts.SkipWifi {
			networks, err := o.source.WifiNetworks(ctx)
			if err != nil {
				return result{err: errors.Wrap(err, "Failed to list Wi-Fi networks")}
			}
			if best, ok := iface.SelectBestWifi(networks); ok {
				res.wifi = &best
			}
		}
	}

	rx, tx := iface.Aggregate(counters, o.opts.ExcludedPrefixes)
	res.sample = rate.NewSample(rx, tx, now)
	return res
}

func (o *Orchestrator) apply(res result) error {
	if res.err != nil {
		o.statsMu.Lock()
		o.stats.Failures++
		o.stats.LastError = errors.Short(res.err)
		o.statsMu.Unlock()
		o.log.Warn("poll failed: %s", errors.Short(res.err))
		return res.err
	}

	r := rate.Compute(o.prev, res.sample)
	o.machine.Update(r, details.Build(res.active, res.wifi))

	sample := res.sample
	o.prev = &sample

	o.statsMu.Lock()
	o.stats.Polls++
	o.stats.LastError = ""
	o.stats.LastPoll = time.UnixMilli(sample.TimestampMillis)
	o.statsMu.Unlock()

	o.log.Debug("rx=%.0f B/s tx=%.0f B/s", r.RxBytesPerSecond, r.TxBytesPerSecond)
	if o.opts.OnSample != nil {
		o.opts.OnSample(r)
	}
	return nil
}

func (o *Orchestrator) skip() {
	o.statsMu.Lock()
	o.stats.Skipped++
	o.statsMu.Unlock()
}
