package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "connect4"

const (
	ResultWin  = "win"
	ResultDraw = "draw"
)

type Metrics struct {
	LiveRooms     prometheus.Gauge
	Connections   prometheus.Gauge
	RoomsCreated  prometheus.Counter
	Moves         prometheus.Counter
	GamesFinished *prometheus.CounterVec
	Errors        *prometheus.CounterVec
}

// New registers the server collectors on reg. Pass a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LiveRooms: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_rooms",
			Help:      "Rooms currently held in memory.",
		}),
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Open client connections.",
		}),
		RoomsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_created_total",
			Help:      "Rooms created since start.",
		}),
		Moves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Moves applied.",
		}),
		GamesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by result.",
		}, []string{"result"}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_errors_total",
			Help:      "Error replies sent to clients by code.",
		}, []string{"code"}),
	}
}

func (that *Metrics) GameFinished(draw bool) {
	result := ResultWin
	if draw {
		result = ResultDraw
	}

	that.GamesFinished.WithLabelValues(result).Inc()
}

func (that *Metrics) RequestFailed(code string) {
	that.Errors.WithLabelValues(code).Inc()
}
