// Package metrics содержит счётчики Prometheus бизнес-операций клуба
// и middleware для метрик HTTP-запросов.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitpoint_reservations_total",
			Help: "Reservation operations by result",
		},
		[]string{"result"},
	)
	scheduleChangeReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitpoint_schedule_change_reviews_total",
			Help: "Reviewed schedule change requests by decision",
		},
		[]string{"decision"},
	)
	membershipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitpoint_memberships_total",
			Help: "Membership purchases and extensions by type",
		},
		[]string{"type", "operation"},
	)
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitpoint_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitpoint_http_request_duration_seconds",
			Help:    "Duration of http request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)
)

// Исходы операций с бронями.
const (
	ReservationCreated          = "created"
	ReservationRejectedFull     = "capacity_exceeded"
	ReservationRejectedConflict = "duplicate"
	ReservationCancelled        = "cancelled"
	ReservationRated            = "rated"
)

// Операции с абонементами.
const (
	MembershipPurchase = "purchase"
	MembershipExtend   = "extend"
)

// ObserveReservation учитывает исход операции с бронью.
func ObserveReservation(result string) {
	reservationsTotal.WithLabelValues(result).Inc()
}

// ObserveScheduleChangeReview учитывает решение по запросу на изменение расписания.
func ObserveScheduleChangeReview(decision string) {
	scheduleChangeReviewsTotal.WithLabelValues(decision).Inc()
}

// ObserveMembership учитывает покупку или продление абонемента.
func ObserveMembership(membershipType, operation string) {
	membershipsTotal.WithLabelValues(membershipType, operation).Inc()
}

// HTTPMiddleware считает запросы и их длительность по шаблону маршрута chi.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		statusStr := strconv.Itoa(status)

		httpRequestTotal.WithLabelValues(r.Method, path, statusStr).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, statusStr).Observe(time.Since(start).Seconds())
	})
}
