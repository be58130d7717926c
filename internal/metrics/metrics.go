// Package metrics собирает метрики Prometheus для провайдеров TTS.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ghnaver"

// Результаты синтеза для метки result.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics — набор коллекторов. Nil-значение допустимо: методы ничего не делают.
type Metrics struct {
	requestsTotal     *prometheus.CounterVec
	retriesTotal      prometheus.Counter
	synthesisTotal    *prometheus.CounterVec
	synthesisDuration prometheus.Histogram
}

// New создаёт коллекторы и регистрирует их в reg. reg может быть nil — тогда без регистрации.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests to the speech endpoint by response status",
			},
			[]string{"status"}, // код ответа или "error"
		),
		retriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retries_total",
				Help:      "Total number of retries after an internal server error",
			},
		),
		synthesisTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "synthesis_total",
				Help:      "Total number of synthesis calls by result",
			},
			[]string{"result"},
		),
		synthesisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "synthesis_duration_seconds",
				Help:      "Duration of synthesis calls in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.requestsTotal, m.retriesTotal, m.synthesisTotal, m.synthesisDuration)
	}
	return m
}

// ObserveRequest учитывает один HTTP-запрос. status 0 — транспортная ошибка.
func (m *Metrics) ObserveRequest(status int) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestsTotal.WithLabelValues(label).Inc()
}

func (m *Metrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.retriesTotal.Inc()
}

// ObserveSynthesis учитывает завершённый вызов синтеза.
func (m *Metrics) ObserveSynthesis(ok bool, took time.Duration) {
	if m == nil {
		return
	}
	result := ResultFailure
	if ok {
		result = ResultSuccess
	}
	m.synthesisTotal.WithLabelValues(result).Inc()
	m.synthesisDuration.Observe(took.Seconds())
}

// Requests возвращает счётчик запросов для статуса (для тестов и отладки).
func (m *Metrics) Requests(status string) prometheus.Counter {
	return m.requestsTotal.WithLabelValues(status)
}

// Retries возвращает счётчик повторов.
func (m *Metrics) Retries() prometheus.Counter { return m.retriesTotal }

// Synthesis возвращает счётчик вызовов синтеза с результатом result.
func (m *Metrics) Synthesis(result string) prometheus.Counter {
	return m.synthesisTotal.WithLabelValues(result)
}
