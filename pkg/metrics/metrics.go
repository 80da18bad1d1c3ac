package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// БД
	DBQueriesTotal      *prometheus.CounterVec
	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   prometheus.Gauge
	DBInUseConnections  prometheus.Gauge
	DBIdleConnections   prometheus.Gauge
	DBWaitCount         prometheus.Gauge
	DBTransactionsTotal *prometheus.CounterVec

	// Бизнес-метрики
	AvailabilityQueriesTotal *prometheus.CounterVec
	BookingsTotal            *prometheus.CounterVec
	CancellationsTotal       *prometheus.CounterVec
	RulesCacheTotal          *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном реестре (в тестах - отдельный реестр)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DBQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "db_queries_total",
				Help:      "Total number of database queries.",
			},
			[]string{"operation", "status"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "db_query_duration_seconds",
				Help:      "Database query latency.",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_open_connections",
			Help:      "Number of established connections.",
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_in_use_connections",
			Help:      "Number of connections currently in use.",
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_idle_connections",
			Help:      "Number of idle connections.",
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_wait_count",
			Help:      "Total number of connections waited for.",
		}),
		DBTransactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "db_transactions_total",
				Help:      "Total number of database transactions by outcome.",
			},
			[]string{"outcome"},
		),
		AvailabilityQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "availability_queries_total",
				Help:      "Availability queries by result status.",
			},
			[]string{"status"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "bookings_total",
				Help:      "Booking commit attempts by outcome.",
			},
			[]string{"outcome"},
		),
		CancellationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "cancellations_total",
				Help:      "Cancellation requests by outcome.",
			},
			[]string{"outcome"},
		),
		RulesCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "rules_cache_total",
				Help:      "Calendar rules cache lookups by result.",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.DBTransactionsTotal,
		m.AvailabilityQueriesTotal,
		m.BookingsTotal,
		m.CancellationsTotal,
		m.RulesCacheTotal,
	)

	return m
}

// ObserveAvailability учитывает запрос доступности. Безопасен для nil
func (m *Metrics) ObserveAvailability(status string) {
	if m == nil {
		return
	}
	m.AvailabilityQueriesTotal.WithLabelValues(status).Inc()
}

// ObserveBooking учитывает попытку бронирования. Безопасен для nil
func (m *Metrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(outcome).Inc()
}

// ObserveCancellation учитывает отмену. Безопасен для nil
func (m *Metrics) ObserveCancellation(outcome string) {
	if m == nil {
		return
	}
	m.CancellationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRulesCache учитывает обращение к кэшу правил. Безопасен для nil
func (m *Metrics) ObserveRulesCache(result string) {
	if m == nil {
		return
	}
	m.RulesCacheTotal.WithLabelValues(result).Inc()
}
