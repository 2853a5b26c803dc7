package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// pushRecords счетчик обработанных записей push по итоговому статусу
	pushRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vaultsync",
		Subsystem: "sync",
		Name:      "push_records_total",
		Help:      "Processed push records by resulting status",
	}, []string{"status"})

	// pushBatchSize распределение размеров батчей push
	pushBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "vaultsync",
		Subsystem: "sync",
		Name:      "push_batch_size",
		Help:      "Number of records in a single push request",
		Buckets:   []float64{1, 5, 10, 25, 50, 100},
	})

	// pullRecords счетчик записей, отданных терминалам через pull
	pullRecords = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vaultsync",
		Subsystem: "sync",
		Name:      "pull_records_total",
		Help:      "Records served to terminals via pull",
	})

	// conflictsDetected счетчик конфликтов одновременного редактирования
	conflictsDetected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vaultsync",
		Subsystem: "sync",
		Name:      "conflicts_detected_total",
		Help:      "Concurrent modification conflicts detected on push",
	})

	// conflictsResolved счетчик решенных конфликтов по стратегии
	conflictsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vaultsync",
		Subsystem: "sync",
		Name:      "conflicts_resolved_total",
		Help:      "Resolved sync conflicts by strategy",
	}, []string{"strategy"})

	// auditSessions счетчик принятых слепых пересчетов
	auditSessions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vaultsync",
		Subsystem: "reconcile",
		Name:      "audit_sessions_total",
		Help:      "Blind count sessions submitted by terminals",
	})

	// discrepancies счетчик зафиксированных расхождений по типу и серьезности
	discrepancies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vaultsync",
		Subsystem: "reconcile",
		Name:      "discrepancies_total",
		Help:      "Recorded discrepancies by type and severity",
	}, []string{"type", "severity"})

	// httpRequests счетчик HTTP запросов по методу, пути и коду ответа
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vaultsync",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, path and status code",
	}, []string{"method", "path", "status"})

	// httpDuration распределение длительности HTTP запросов
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vaultsync",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Handler возвращает HTTP handler для эндпоинта /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordPushRecord учитывает одну обработанную запись push.
// status - applied, stale, conflicted или rejected.
func RecordPushRecord(status string) {
	pushRecords.WithLabelValues(status).Inc()
}

// ObservePushBatch учитывает размер принятого батча push
func ObservePushBatch(size int) {
	pushBatchSize.Observe(float64(size))
}

// AddPullRecords учитывает записи, отданные терминалу через pull
func AddPullRecords(count int) {
	pullRecords.Add(float64(count))
}

// RecordConflictDetected учитывает обнаруженный конфликт синхронизации
func RecordConflictDetected() {
	conflictsDetected.Inc()
}

// RecordConflictResolved учитывает решенный конфликт.
// strategy - local_wins, remote_wins или manual.
func RecordConflictResolved(strategy string) {
	conflictsResolved.WithLabelValues(strategy).Inc()
}

// RecordAuditSession учитывает принятый слепой пересчет
func RecordAuditSession() {
	auditSessions.Inc()
}

// RecordDiscrepancy учитывает зафиксированное расхождение
func RecordDiscrepancy(discrepancyType, severity string) {
	discrepancies.WithLabelValues(discrepancyType, severity).Inc()
}

// RecordHTTPRequest учитывает завершенный HTTP запрос
func RecordHTTPRequest(method, path, status string, seconds float64) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(seconds)
}
