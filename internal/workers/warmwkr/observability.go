package warmwkr

import (
	"time"

	"github.com/plantops/opsboard/internal/pkg/observability"
)

func observeCalcDuration(service string, preset string, f func() error) error {
	start := time.Now()
	defer func() {
		observability.WorkerCalcDuration.WithLabelValues(service, preset).Set(time.Since(start).Seconds())
	}()
	return f()
}
