package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	DispatchLatency   = metric.NewHistogram("1m1s")
	MessagesPerSecond = metric.NewCounter("10s1s")
	ClaimsRelayed     = metric.NewCounter("1m1s")
	// stays at zero while ports open their gate ahead of every send
	ClaimsSuppressed = metric.NewCounter("1m1s")
	GateClosures     = metric.NewCounter("1m1s")
	RootAdoptions    = metric.NewCounter("1m1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("spantree:Messages/s", MessagesPerSecond)
	expvar.Publish("spantree:ClaimsRelayed", ClaimsRelayed)
	expvar.Publish("spantree:ClaimsSuppressed", ClaimsSuppressed)
	expvar.Publish("spantree:GateClosures", GateClosures)
	expvar.Publish("spantree:RootAdoptions", RootAdoptions)
	expvar.Publish("spantree:DispatchLatency (µs)", DispatchLatency)
}
