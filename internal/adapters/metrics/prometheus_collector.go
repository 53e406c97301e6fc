// Package metrics exports wmd_daemon_* Prometheus series for mediator
// requests, scheduler jobs and notification delivery.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	namespace = "wmd"
	subsystem = "daemon"
)

// Registry stays nil until InitRegistry; collectors registered before then
// are silently unexported.
var Registry *prometheus.Registry

// InitRegistry installs a fresh registry carrying runtime and process
// collectors. Call once, before building any collector.
func InitRegistry() {
	r := prometheus.NewRegistry()
	r.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	Registry = r
}

func GetRegistry() *prometheus.Registry { return Registry }

func IsEnabled() bool { return Registry != nil }

// register adds collectors, treating an identical re-registration as success
func register(cs ...prometheus.Collector) error {
	if Registry == nil {
		return nil
	}
	for _, c := range cs {
		err := Registry.Register(c)
		if err == nil {
			continue
		}
		if _, dup := err.(prometheus.AlreadyRegisteredError); dup {
			continue
		}
		return err
	}
	return nil
}
