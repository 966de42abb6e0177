package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeshare_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipeshare_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Domain Metrics
	RecipesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeshare_recipes_created_total",
			Help: "Total number of recipes created",
		},
	)

	RecipesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeshare_recipes_deleted_total",
			Help: "Total number of recipes deleted",
		},
	)

	RecipeLikes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeshare_recipe_likes_total",
			Help: "Total number of like and unlike operations",
		},
		[]string{"action"}, // "like", "unlike"
	)

	Favorites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeshare_favorites_total",
			Help: "Total number of favorite and unfavorite operations",
		},
		[]string{"action"}, // "add", "remove"
	)

	CascadeUsersSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeshare_cascade_users_swept_total",
			Help: "Total number of user records rewritten by recipe deletion cleanup",
		},
	)

	CategoryRecounts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeshare_category_recounts_total",
			Help: "Total number of category recipe-count recomputations",
		},
	)
)

// RecordAPIRequest records an HTTP request metric
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordLike records a like toggle.
func RecordLike(liked bool) {
	if liked {
		RecipeLikes.WithLabelValues("like").Inc()
		return
	}
	RecipeLikes.WithLabelValues("unlike").Inc()
}

// RecordFavorite records a favorite toggle.
func RecordFavorite(added bool) {
	if added {
		Favorites.WithLabelValues("add").Inc()
		return
	}
	Favorites.WithLabelValues("remove").Inc()
}
