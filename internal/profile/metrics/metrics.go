package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the profile feature. Tracks creation
// counts, youth linkage and the resolver critical path.
type Metrics struct {
	ProfilesCreated    prometheus.Counter
	YouthProfilesSaved prometheus.Counter
	ChildrenLinked     prometheus.Counter
	ResolveDuration    prometheus.Histogram
}

// New creates a Metrics instance with all profile feature metrics
// registered.
func New() *Metrics {
	return &Metrics{
		ProfilesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dojohub_profiles_created_total",
			Help: "Total number of profiles created",
		}),
		YouthProfilesSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dojohub_youth_profiles_saved_total",
			Help: "Total number of youth profiles saved by guardians",
		}),
		ChildrenLinked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dojohub_children_linked_total",
			Help: "Total number of child profiles linked to guardians",
		}),
		ResolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dojohub_profile_resolve_duration_seconds",
			Help:    "Duration of profile visibility resolution (read critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementProfilesCreated records a successful profile creation.
func (m *Metrics) IncrementProfilesCreated() {
	m.ProfilesCreated.Inc()
}

// IncrementYouthProfilesSaved records a guardian-initiated youth profile
// save.
func (m *Metrics) IncrementYouthProfilesSaved() {
	m.YouthProfilesSaved.Inc()
}

// IncrementChildrenLinked records a child being linked to a guardian.
func (m *Metrics) IncrementChildrenLinked() {
	m.ChildrenLinked.Inc()
}

// ObserveResolve records the duration of a resolve operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveResolve(start time.Time) {
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}
