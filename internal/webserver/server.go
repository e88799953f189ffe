// Package webserver hosts the admin JSON api on echo. Handlers register
// themselves through ApiGET/ApiPOST/ApiPUT/ApiDELETE before the server is
// built; every route is mounted under /api.
package webserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const ApiPrefix = "/api"

type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
}

var (
	routesMu sync.Mutex
	routes   []route
)

func addRoute(method, path string, h echo.HandlerFunc) {
	routesMu.Lock()
	defer routesMu.Unlock()
	routes = append(routes, route{method: method, path: path, handler: h})
}

func ApiGET(path string, h echo.HandlerFunc)    { addRoute(http.MethodGet, path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { addRoute(http.MethodPost, path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { addRoute(http.MethodPut, path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { addRoute(http.MethodDelete, path, h) }

// Server wraps the echo instance together with its listen address
type Server struct {
	addr string
	root *echo.Echo
}

// NewServer mounts every registered route. values are copied into each
// request context under their keys so handlers can reach shared services.
func NewServer(addr string, values map[string]interface{}) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("8M"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("api request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for k, v := range values {
				c.Set(k, v)
			}
			return next(c)
		}
	})

	api := e.Group(ApiPrefix)
	routesMu.Lock()
	for _, r := range routes {
		api.Add(r.method, r.path, r.handler)
	}
	routesMu.Unlock()

	return &Server{addr: addr, root: e}
}

// Echo exposes the router, mostly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.root
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		zap.L().Info("admin api listening", zap.String("addr", s.addr))
		errc <- s.root.Start(s.addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.root.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errc
		return nil
	}
}
