// Package metrics содержит Prometheus-метрики витрины: HTTP API, заказы и идемпотентность.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты проверки ключа идемпотентности.
const (
	AdmissionAdmitted  = "admitted"
	AdmissionDuplicate = "duplicate"
	AdmissionInvalid   = "invalid"
	AdmissionError     = "error"
)

// Metrics содержит метрики сервиса. Методы безопасны для nil-получателя.
type Metrics struct {
	// HTTP
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge

	// Идемпотентность
	admissions *prometheus.CounterVec

	// Заказы
	ordersCreated     prometheus.Counter
	productsAdded     prometheus.Counter
	operationDuration *prometheus.HistogramVec
	timelineEvents    prometheus.Counter
}

// New создаёт метрики в DefaultRegisterer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer создаёт метрики в указанном реестре.
func NewWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		httpRequests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP API requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP API requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "storefront_http_requests_in_flight",
			Help: "Number of HTTP API requests currently being served",
		}),
		admissions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_idempotency_admissions_total",
			Help: "Idempotency key admissions grouped by result",
		}, []string{"result"}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Total number of created orders",
		}),
		productsAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_order_products_added_total",
			Help: "Total number of add-product operations applied to orders",
		}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "storefront_order_operation_duration_seconds",
			Help:    "Duration of order service operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		timelineEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_timeline_events_total",
			Help: "Total number of order timeline events recorded",
		}),
	}
}

// RecordAdmission учитывает результат проверки ключа идемпотентности.
func (m *Metrics) RecordAdmission(result string) {
	if m == nil {
		return
	}
	m.admissions.WithLabelValues(result).Inc()
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *Metrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordProductAdded увеличивает счётчик добавлений товара в заказ.
func (m *Metrics) RecordProductAdded() {
	if m == nil {
		return
	}
	m.productsAdded.Inc()
}

// ObserveOperation записывает время выполнения операции сервиса заказов.
func (m *Metrics) ObserveOperation(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *Metrics) RecordTimelineEvent() {
	if m == nil {
		return
	}
	m.timelineEvents.Inc()
}

// ObserveHTTPRequest учитывает завершённый HTTP-запрос.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// HTTPRequestStarted увеличивает число обслуживаемых запросов.
func (m *Metrics) HTTPRequestStarted() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

// HTTPRequestFinished уменьшает число обслуживаемых запросов.
func (m *Metrics) HTTPRequestFinished() {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
}
