package metrics

import (
	"context"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
)

// PrometheusMiddleware records duration and outcome of every request sent
// through the mediator. Names are the bare type name, e.g. "LaunchWeaponCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		commandName := common.RequestName(request)
		start := time.Now()

		response, err := next(ctx, request)

		collector.RecordCommandExecution(commandName, time.Since(start).Seconds(), err)
		return response, err
	}
}
