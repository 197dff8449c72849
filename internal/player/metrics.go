package player

import "github.com/prometheus/client_golang/prometheus"

// Metrics
var (
	playsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "clockwave_player_plays_total", Help: "Play requests accepted by the pipeline"},
	)
	reconnects = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "clockwave_player_reconnects_total", Help: "Automatic reconnect attempts for network sources"},
	)
	playbackErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "clockwave_player_errors_total", Help: "Pipeline error events"},
	)
	bufferLevel = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "clockwave_player_buffer_percent", Help: "Current pipeline buffer fill percentage"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(playsStarted, reconnects, playbackErrors, bufferLevel)
}
