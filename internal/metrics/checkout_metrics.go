package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики для операций оформления заказов.
type CheckoutMetrics struct {
	// Счётчики операций
	ordersCreated prometheus.Counter
	ordersFailed  prometheus.Counter

	// Гистограммы времени выполнения
	orderCreateDuration prometheus.Histogram
	hookDuration        *prometheus.HistogramVec

	// Счётчики пересчёта доставки
	shippingRecalcs prometheus.Counter
	shippingSkipped prometheus.Counter

	// Счётчики событий outbox
	outboxEvents prometheus.Counter

	// Gauge для активных операций создания заказа
	activeCreates prometheus.Gauge
}

// NewCheckoutMetrics создаёт новый экземпляр метрик checkout.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "commerce_orders_created_total",
			Help: "Total number of orders created successfully",
		}),
		ordersFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "commerce_orders_failed_total",
			Help: "Total number of order creations that failed",
		}),
		orderCreateDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "commerce_order_create_duration_seconds",
			Help:    "Duration of order creation in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		hookDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "commerce_order_hook_duration_seconds",
			Help:    "Duration of individual order creation hooks in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"hook"}),
		shippingRecalcs: registerCounter(registerer, prometheus.CounterOpts{
			Name: "commerce_shipping_recalcs_total",
			Help: "Total number of shipping fee recalculations performed",
		}),
		shippingSkipped: registerCounter(registerer, prometheus.CounterOpts{
			Name: "commerce_shipping_recalcs_skipped_total",
			Help: "Total number of shipping fee recalculations skipped (no method or no fee)",
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "commerce_outbox_events_total",
			Help: "Total number of outbox events published",
		}),
		activeCreates: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "commerce_active_order_creates",
			Help: "Number of order creations currently in flight",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик успешно созданных заказов.
func (m *CheckoutMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderFailed увеличивает счётчик неудачных созданий заказов.
func (m *CheckoutMetrics) RecordOrderFailed() {
	m.ordersFailed.Inc()
}

// RecordOrderCreateDuration записывает время создания заказа.
func (m *CheckoutMetrics) RecordOrderCreateDuration(duration time.Duration) {
	m.orderCreateDuration.Observe(duration.Seconds())
}

// RecordHookDuration записывает время выполнения хука создания заказа.
func (m *CheckoutMetrics) RecordHookDuration(hook string, duration time.Duration) {
	m.hookDuration.WithLabelValues(hook).Observe(duration.Seconds())
}

// RecordShippingRecalc увеличивает счётчик пересчётов доставки.
func (m *CheckoutMetrics) RecordShippingRecalc() {
	m.shippingRecalcs.Inc()
}

// RecordShippingSkipped увеличивает счётчик пропущенных пересчётов доставки.
func (m *CheckoutMetrics) RecordShippingSkipped() {
	m.shippingSkipped.Inc()
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *CheckoutMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}

// RecordCreateStarted увеличивает количество активных операций создания.
func (m *CheckoutMetrics) RecordCreateStarted() {
	m.activeCreates.Inc()
}

// RecordCreateFinished уменьшает количество активных операций создания.
func (m *CheckoutMetrics) RecordCreateFinished() {
	m.activeCreates.Dec()
}
