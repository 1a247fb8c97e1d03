package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "backoffice_http_requests_total",
	Help: "Count of HTTP requests by method and route.",
}, []string{"method", "route"})

// PrometheusController exposes the metrics endpoint.
type PrometheusController struct {
	path string
}

func NewPrometheusController(path string) *PrometheusController {
	return &PrometheusController{path: path}
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	r.Handle(c.path, promhttp.Handler()).Methods(http.MethodGet)
}

// CountRequests records request totals per matched route.
func CountRequests() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			requestsTotal.WithLabelValues(r.Method, route).Inc()
			next.ServeHTTP(w, r)
		})
	}
}
