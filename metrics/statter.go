package metrics

import "time"

// Statter emits operational metrics. Implementations must swallow
// transport failures; callers never handle metric errors.
type Statter interface {
	Inc(metric string, value int64)
	Gauge(metric string, value int64)
	TimingDuration(metric string, value time.Duration)
}
