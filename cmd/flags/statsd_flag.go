package flags

import (
	"net"
	"strconv"

	"github.com/cactus/go-statsd-client/statsd"

	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/metrics"
	"github.com/JohnathanALves/reaction/metrics/statsdx"
)

type StatsDFlag struct {
	Hostname string `long:"hostname" description:"Hostname used to connect to StatsD server"`
	Port     int    `long:"port" description:"Port used to connect to StatsD server" default:"8125"`
}

// Statter returns a statsd-backed metrics.Statter, or nil when no
// hostname is configured.
func (f StatsDFlag) Statter(logger logx.Logger) (metrics.Statter, error) {
	if f.Hostname == "" {
		return nil, nil
	}

	addr := net.JoinHostPort(f.Hostname, strconv.Itoa(f.Port))

	client, err := statsd.NewClient(addr, "")
	if err != nil {
		logger.Error(failedToConnectToStatsD, err, logx.Data{Key: "addr", Value: addr})
		return nil, err
	}

	return statsdx.NewStatter(logger, client), nil
}
