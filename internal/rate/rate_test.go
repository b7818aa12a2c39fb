package rate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeBootstrap(t *testing.T) {
	for _, cur := range []CounterSample{
		{},
		{RxBytes: 1 << 40, TxBytes: 12, TimestampMillis: 99},
	} {
		assert.Equal(t, Sample{}, Compute(nil, cur))
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		prev   CounterSample
		cur    CounterSample
		wantRx float64
		wantTx float64
	}{
		{
			name:   "one second",
			prev:   CounterSample{RxBytes: 1000, TxBytes: 500, TimestampMillis: 10_000},
			cur:    CounterSample{RxBytes: 126_000, TxBytes: 13_000, TimestampMillis: 11_000},
			wantRx: 125_000,
			wantTx: 12_500,
		},
		{
			name:   "two and a half seconds",
			prev:   CounterSample{RxBytes: 0, TxBytes: 0, TimestampMillis: 0},
			cur:    CounterSample{RxBytes: 5000, TxBytes: 250, TimestampMillis: 2500},
			wantRx: 2000,
			wantTx: 100,
		},
		{
			name:   "sub-second tick floors at one second",
			prev:   CounterSample{RxBytes: 100, TxBytes: 100, TimestampMillis: 1000},
			cur:    CounterSample{RxBytes: 400, TxBytes: 200, TimestampMillis: 1200},
			wantRx: 300,
			wantTx: 100,
		},
		{
			name:   "clock went backwards",
			prev:   CounterSample{RxBytes: 100, TxBytes: 100, TimestampMillis: 5000},
			cur:    CounterSample{RxBytes: 200, TxBytes: 300, TimestampMillis: 1000},
			wantRx: 100,
			wantTx: 200,
		},
		{
			name:   "rx counter reset",
			prev:   CounterSample{RxBytes: 9_000_000, TxBytes: 100, TimestampMillis: 0},
			cur:    CounterSample{RxBytes: 10, TxBytes: 300, TimestampMillis: 1000},
			wantRx: 0,
			wantTx: 200,
		},
		{
			name:   "both counters wrapped",
			prev:   CounterSample{RxBytes: ^uint64(0) - 5, TxBytes: ^uint64(0), TimestampMillis: 0},
			cur:    CounterSample{RxBytes: 3, TxBytes: 0, TimestampMillis: 1000},
			wantRx: 0,
			wantTx: 0,
		},
		{
			name:   "idle",
			prev:   CounterSample{RxBytes: 42, TxBytes: 42, TimestampMillis: 0},
			cur:    CounterSample{RxBytes: 42, TxBytes: 42, TimestampMillis: 1000},
			wantRx: 0,
			wantTx: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := tt.prev
			got := Compute(&prev, tt.cur)
			assert.InDelta(t, tt.wantRx, got.RxBytesPerSecond, 1e-9)
			assert.InDelta(t, tt.wantTx, got.TxBytesPerSecond, 1e-9)
		})
	}
}

func TestComputeMatchesFormula(t *testing.T) {
	// (c.rx - p.rx) / max(1, dt/1000) for monotonic counters.
	for dt := int64(1); dt <= 10_000; dt += 333 {
		for delta := uint64(0); delta <= 1_000_000; delta += 250_007 {
			p := CounterSample{RxBytes: 1000, TimestampMillis: 50}
			c := CounterSample{RxBytes: 1000 + delta, TimestampMillis: 50 + dt}

			elapsed := float64(dt) / 1000
			if elapsed < 1 {
				elapsed = 1
			}
			assert.InDelta(t, float64(delta)/elapsed, Compute(&p, c).RxBytesPerSecond, 1e-6)
		}
	}
}

func TestNewSample(t *testing.T) {
	ts := time.UnixMilli(1_700_000_000_123)
	s := NewSample(7, 9, ts)
	assert.Equal(t, CounterSample{RxBytes: 7, TxBytes: 9, TimestampMillis: 1_700_000_000_123}, s)
}
