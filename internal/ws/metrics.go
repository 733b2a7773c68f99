package ws

import "github.com/prometheus/client_golang/prometheus"

var (
	Connections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections",
			Help: "Currently open websocket connections",
		},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "game_sessions_open",
			Help: "Sessions currently waiting or active",
		},
	)
	SessionsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_sessions_finished_total",
			Help: "Sessions that reached a terminal state",
		},
		[]string{"outcome"}, // win | tie | timeout | cancelled
	)
	EventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_events_dropped_total",
			Help: "Outbound events dropped because a client buffer was full",
		},
	)
)

func init() {
	prometheus.MustRegister(Connections, ActiveSessions, SessionsFinished, EventsDropped)
}
