package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/citytwin/policy"
)

// Recorder exports tick snapshots and policy activity as Prometheus
// metrics. Metrics are registered on the Registerer given to NewRecorder,
// so tests can use a private registry.
type Recorder struct {
	congestion prometheus.Gauge
	travelTime prometheus.Gauge
	emergency  prometheus.Gauge
	emissions  prometheus.Gauge
	ticks      prometheus.Counter
	policies   *prometheus.CounterVec
	unrouted   prometheus.Counter
}

// NewRecorder registers the citytwin metrics on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		congestion: f.NewGauge(prometheus.GaugeOpts{
			Name: "citytwin_congestion_index",
			Help: "Mean edge utilization of the last tick, percent",
		}),
		travelTime: f.NewGauge(prometheus.GaugeOpts{
			Name: "citytwin_avg_travel_time_minutes",
			Help: "Average travel time of the routed demand in the last tick",
		}),
		emergency: f.NewGauge(prometheus.GaugeOpts{
			Name: "citytwin_emergency_response_minutes",
			Help: "Estimated emergency response time in the last tick",
		}),
		emissions: f.NewGauge(prometheus.GaugeOpts{
			Name: "citytwin_emissions_units",
			Help: "Emissions of the last tick",
		}),
		ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "citytwin_ticks_total",
			Help: "Total number of simulation ticks",
		}),
		policies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citytwin_policies_applied_total",
			Help: "Policy actions applied, labeled by action type",
		}, []string{"type"}),
		unrouted: f.NewCounter(prometheus.CounterOpts{
			Name: "citytwin_unrouted_demand_total",
			Help: "Demand routes skipped because no path existed",
		}),
	}
}

// Observe records one tick.
func (r *Recorder) Observe(s Snapshot) {
	r.congestion.Set(s.CongestionIndex)
	r.travelTime.Set(s.AvgTravelTime)
	r.emergency.Set(s.EmergencyResponseTime)
	r.emissions.Set(float64(s.Emissions))
	r.ticks.Inc()
}

// Unrouted adds n skipped demand routes.
func (r *Recorder) Unrouted(n int) {
	r.unrouted.Add(float64(n))
}

// PolicyApplied counts each record by type.
func (r *Recorder) PolicyApplied(records ...policy.Record) {
	for _, rec := range records {
		r.policies.WithLabelValues(string(rec.Type)).Inc()
	}
}
