package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the users feature.
type Metrics struct {
	UsersRegistered     prometheus.Counter
	ChampionsRegistered prometheus.Counter
	ResetsCreated       prometheus.Counter
	ResetsExecuted      prometheus.Counter
	RegisterDuration    prometheus.Histogram
}

// New creates a Metrics instance with all users feature metrics registered.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dojohub_users_registered_total",
			Help: "Total number of users registered",
		}),
		ChampionsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dojohub_champions_registered_total",
			Help: "Total number of champion registrations",
		}),
		ResetsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dojohub_password_resets_created_total",
			Help: "Total number of password resets created",
		}),
		ResetsExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dojohub_password_resets_executed_total",
			Help: "Total number of password resets executed successfully",
		}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dojohub_register_duration_seconds",
			Help:    "Duration of the registration workflow",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementUsersRegistered() {
	m.UsersRegistered.Inc()
}

func (m *Metrics) IncrementChampionsRegistered() {
	m.ChampionsRegistered.Inc()
}

func (m *Metrics) IncrementResetsCreated() {
	m.ResetsCreated.Inc()
}

func (m *Metrics) IncrementResetsExecuted() {
	m.ResetsExecuted.Inc()
}

// ObserveRegister records the duration of a registration workflow.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
