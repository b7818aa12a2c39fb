// Package testing provides test doubles for the poller package.
package testing

import (
	"context"
	"sync"

	"github.com/nexusriot/ducknetspeed/internal/iface"
)

// FakeSource is a scriptable poller.Source. Each Counters call consumes the
// next entry of CounterSteps; the last entry repeats once the script runs out.
type FakeSource struct {
	mu sync.Mutex

	CounterSteps [][]iface.Counter
	Records      []iface.Record
	Networks     []iface.Wifi

	CountersErr   error
	InterfacesErr error
	WifiErr       error

	// Block, if non-nil, makes Counters wait until it is closed or ctx ends.
	Block chan struct{}
	// Entered, if non-nil, receives a value each time Counters is entered.
	Entered chan struct{}

	step         int
	counterCalls int
	recordCalls  int
	wifiCalls    int
}

// NewFakeSource creates a source that reports the given counter script.
func NewFakeSource(steps ...[]iface.Counter) *FakeSource {
	return &FakeSource{CounterSteps: steps}
}

func (f *FakeSource) Counters(ctx context.Context) ([]iface.Counter, error) {
	f.mu.Lock()
	f.counterCalls++
	entered, block := f.Entered, f.Block
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CountersErr != nil {
		return nil, f.CountersErr
	}
	if len(f.CounterSteps) == 0 {
		return nil, nil
	}
	i := f.step
	if i >= len(f.CounterSteps) {
		i = len(f.CounterSteps) - 1
	} else {
		f.step++
	}
	return f.CounterSteps[i], nil
}

func (f *FakeSource) Interfaces(ctx context.Context) ([]iface.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordCalls++
	if f.InterfacesErr != nil {
		return nil, f.InterfacesErr
	}
	return f.Records, nil
}

func (f *FakeSource) WifiNetworks(ctx context.Context) ([]iface.Wifi, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wifiCalls++
	if f.WifiErr != nil {
		return nil, f.WifiErr
	}
	return f.Networks, nil
}

// SetCountersErr changes the counters error under the lock.
func (f *FakeSource) SetCountersErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CountersErr = err
}

// Calls returns how many times each method was called.
func (f *FakeSource) Calls() (counters, interfaces, wifi int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counterCalls, f.recordCalls, f.wifiCalls
}
