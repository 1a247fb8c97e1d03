package server

import (
	"context"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"

	"github.com/renterra/backoffice/pkg/application"
)

func NewHTTPServer(app application.Application, middlewares ...mux.MiddlewareFunc) *HTTPServer {
	return &HTTPServer{
		Controllers: app.Controllers(),
		Middlewares: middlewares,
	}
}

type HTTPServer struct {
	Controllers []application.Controller
	Middlewares []mux.MiddlewareFunc

	srv *http.Server
}

func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.Middlewares...)
	for _, controller := range s.Controllers {
		controller.Register(r)
	}
	return r
}

func (s *HTTPServer) Handler() http.Handler {
	return gziphandler.GzipHandler(s.Router())
}

func (s *HTTPServer) Start(socketAddress string) error {
	s.srv = &http.Server{
		Addr:              socketAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.srv.ListenAndServe()
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
