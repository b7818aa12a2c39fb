// Package rate turns pairs of cumulative counter snapshots into per-second rates.
package rate

import "time"

// CounterSample is one observation of cumulative traffic totals.
type CounterSample struct {
	RxBytes         uint64
	TxBytes         uint64
	TimestampMillis int64
}

// NewSample stamps the totals with t.
func NewSample(rx, tx uint64, t time.Time) CounterSample {
	return CounterSample{RxBytes: rx, TxBytes: tx, TimestampMillis: t.UnixMilli()}
}

// Sample holds byte rates derived from two CounterSamples. Both fields are
// never negative.
type Sample struct {
	RxBytesPerSecond float64
	TxBytesPerSecond float64
}

// Compute returns the rates between prev and cur. A nil prev has no baseline
// and yields zero rates. The elapsed time is floored at one second, and a
// counter that went backwards (reset or wrap) yields zero for that direction.
func Compute(prev *CounterSample, cur CounterSample) Sample {
	if prev == nil {
		return Sample{}
	}

	elapsed := float64(cur.TimestampMillis-prev.TimestampMillis) / 1000
	if elapsed < 1 {
		elapsed = 1
	}

	return Sample{
		RxBytesPerSecond: perSecond(prev.RxBytes, cur.RxBytes, elapsed),
		TxBytesPerSecond: perSecond(prev.TxBytes, cur.TxBytes, elapsed),
	}
}

func perSecond(prev, cur uint64, elapsed float64) float64 {
	if cur <= prev {
		return 0
	}
	return float64(cur-prev) / elapsed
}
