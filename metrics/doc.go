// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics defines the Prometheus collectors exported on /metrics.

Collectors are registered on an explicit registry rather than the global
default so tests can build as many routers as they like:

	reg := metrics.NewRegistry()
	m := metrics.New(reg)
	mux.Handle("GET /metrics", metrics.Handler(reg))

Handlers bump the domain counters (polls created, votes cast, vote
rejections by reason, logins by result). middleware.WithMetrics records
request latency per route.
*/
package metrics
