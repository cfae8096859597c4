package engine

import (
	"fmt"
	"time"

	"github.com/JohnathanALves/reaction/metrics"
)

func recordRequest(statter metrics.Statter, endpoint string, start time.Time, err error) {
	var successValue int64
	if err == nil {
		successValue = 1
	}

	statter.Inc(fmt.Sprintf("reaction.count.%s", endpoint), 1)
	statter.Gauge(fmt.Sprintf("reaction.success.%s", endpoint), successValue)
	statter.TimingDuration(fmt.Sprintf("reaction.requestduration.%s", endpoint), time.Since(start))
}
