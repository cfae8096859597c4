package statsdx

import (
	"time"

	"github.com/cactus/go-statsd-client/statsd"

	"github.com/JohnathanALves/reaction/logx"
)

const (
	alwaysSample       = 1
	failedToSendMetric = "failed-to-send-metric"
)

// Statter adapts a statsd client to the metrics.Statter contract. Send
// failures are logged and dropped rather than surfaced to callers.
type Statter struct {
	client statsd.Statter
	logger logx.Logger
}

func NewStatter(logger logx.Logger, client statsd.Statter) *Statter {
	return &Statter{
		client: client,
		logger: logger,
	}
}

func (s *Statter) Inc(metric string, value int64) {
	s.sent(metric, value, s.client.Inc(metric, value, alwaysSample))
}

func (s *Statter) Gauge(metric string, value int64) {
	s.sent(metric, value, s.client.Gauge(metric, value, alwaysSample))
}

func (s *Statter) TimingDuration(metric string, value time.Duration) {
	s.sent(metric, value, s.client.TimingDuration(metric, value, alwaysSample))
}

func (s *Statter) sent(metric string, value interface{}, err error) {
	if err == nil {
		return
	}

	s.logger.Error(failedToSendMetric, err,
		logx.Data{Key: "metric", Value: metric},
		logx.Data{Key: "value", Value: value},
	)
}
