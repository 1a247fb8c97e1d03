package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/renterra/backoffice/pkg/application"
	"github.com/renterra/backoffice/pkg/configuration"
	"github.com/renterra/backoffice/pkg/metrics"
	"github.com/renterra/backoffice/pkg/middleware"
	"github.com/renterra/backoffice/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the HTTP server with the shared middleware chain.
// Ordering matters: logging first so every request carries a request id
// and logger, then the pool so repositories can run outside explicit
// transactions.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: options.Configuration.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),
		middleware.WithPool(options.Pool),
		corsHandler.Handler,
	}
	if options.Configuration.Prometheus.Enabled {
		middlewares = append(middlewares, metrics.CountRequests())
	}

	return server.NewHTTPServer(options.Application, middlewares...), nil
}
