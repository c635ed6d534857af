/*
Package observability turns executor lifecycle events into structured logs
and Prometheus metrics.

Both are plain domain.LifecycleHooks and can be combined with Merge:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.LoggingHooks(logger).Merge(metrics.Hooks())
*/
package observability
