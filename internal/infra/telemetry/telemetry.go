package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LoginAttempts counts login attempts partitioned by outcome
// (success, invalid_credentials, banned, error).
var LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "travelmap",
	Subsystem: "auth",
	Name:      "login_attempts_total",
	Help:      "Total number of login attempts partitioned by outcome.",
}, []string{"outcome"})

// WeatherCacheEvents counts weather cache lookups partitioned by result
// (hit, miss).
var WeatherCacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "travelmap",
	Subsystem: "weather",
	Name:      "cache_events_total",
	Help:      "Total number of weather cache lookups partitioned by result.",
}, []string{"result"})
