package webserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spicemart/spicesite/config"
	"go.uber.org/zap"
)

const apiPrefix = "/api"

// WebServer wraps the echo instance serving the JSON API and static site.
type WebServer struct {
	root *echo.Echo
	api  *echo.Group
	cfg  config.WebConfig
}

// NewWebServer builds the echo instance with the standard middleware chain.
func NewWebServer(cfg config.WebConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = &jsoniterSerializer{}
	e.Validator = &inputValidator{}
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.StaticDir != "" {
		if st, err := os.Stat(cfg.StaticDir); err == nil && st.IsDir() {
			e.Static("/", cfg.StaticDir)
		} else {
			zap.S().Warnf("static dir %s not found, serving API only", cfg.StaticDir)
		}
	}

	return &WebServer{
		root: e,
		api:  e.Group(apiPrefix),
		cfg:  cfg,
	}
}

func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func (s *WebServer) ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.api.GET(path, h, m...)
}

func (s *WebServer) ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.api.POST(path, h, m...)
}

// Start serves until Shutdown is called. A graceful shutdown is not an error.
func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	zap.S().Infof("Prepare to start the web server %s", addr)
	err := s.root.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *WebServer) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.root.Shutdown(ctx)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				zap.L().Warn("http request", fields...)
				return nil
			}
			zap.L().Debug("http request", fields...)
			return nil
		},
	})
}

// httpErrorHandler renders every unhandled error as {message}.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else {
		zap.L().Error("unhandled request error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]string{"message": message})
	}
	if err != nil {
		zap.L().Error("write error response", zap.Error(err))
	}
}
