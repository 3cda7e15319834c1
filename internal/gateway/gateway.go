// Package gateway provides the API gateway that routes requests to handlers.
package gateway

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/annotation-layers/backend/internal/admin"
	"github.com/annotation-layers/backend/internal/config"
	"github.com/annotation-layers/backend/internal/models"
	"github.com/annotation-layers/backend/internal/views"
)

// Breaker tuning. The breaker opens after consecutiveFailures failed
// round trips in a row and lets a request through again after openTimeout.
const (
	consecutiveFailures = 5
	halfOpenRequests    = 1
	openTimeout         = 30 * time.Second
	countInterval       = 60 * time.Second
)

// errUpstream marks a 5xx answer from the handler; it counts as a failure.
var errUpstream = errors.New("handler answered with a server error")

// upstreamResponse is a fully read handler response.
type upstreamResponse struct {
	status int
	header http.Header
	body   []byte
}

// Gateway provides the API gateway functionality.
type Gateway struct {
	cfg        *config.Config
	logger     *zap.Logger
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewGateway creates a new API gateway.
func NewGateway(cfg *config.Config, logger *zap.Logger) *Gateway {
	g := &Gateway{
		cfg:    cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Redirects from the admin pages go back to the browser.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}

	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "handler",
		MaxRequests: halfOpenRequests,
		Interval:    countInterval,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return g
}

// RegisterRoutes forwards the REST API, the admin pages and the login
// routes to the handler service.
func (g *Gateway) RegisterRoutes(engine *gin.Engine) {
	engine.Any("/api/v1/*path", g.proxyToHandler)
	for _, v := range views.All() {
		engine.Any(v.Path()+"/*path", g.proxyToHandler)
	}
	engine.Any(admin.LoginPath, g.proxyToHandler)
	engine.GET("/logout/", g.proxyToHandler)
	engine.GET("/", g.proxyToHandler)
}

// proxyToHandler forwards requests to the handler service.
func (g *Gateway) proxyToHandler(c *gin.Context) {
	targetURL, err := url.Parse(g.cfg.HandlerURL)
	if err != nil {
		g.logger.Error("Invalid handler URL", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "configuration_error",
			Message: "invalid handler URL configuration",
		})
		return
	}
	targetURL.Path = c.Request.URL.Path
	targetURL.RawQuery = c.Request.URL.RawQuery

	g.logger.Debug("Proxying request",
		zap.String("method", c.Request.Method),
		zap.String("target", targetURL.String()),
	)

	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, err = io.ReadAll(c.Request.Body)
		if err != nil {
			g.logger.Error("Failed to read request body", zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "internal_error",
				Message: "failed to read request body",
			})
			return
		}
	}

	proxyReq, err := http.NewRequestWithContext(
		c.Request.Context(),
		c.Request.Method,
		targetURL.String(),
		bytes.NewReader(bodyBytes),
	)
	if err != nil {
		g.logger.Error("Failed to create proxy request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to create proxy request",
		})
		return
	}

	for key, values := range c.Request.Header {
		for _, value := range values {
			proxyReq.Header.Add(key, value)
		}
	}
	if len(bodyBytes) > 0 && proxyReq.Header.Get("Content-Type") == "" {
		proxyReq.Header.Set("Content-Type", "application/json")
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.roundTrip(proxyReq)
	})
	if resp, ok := result.(*upstreamResponse); ok && resp != nil {
		// 5xx answers are still relayed; they only feed the breaker.
		g.relay(c, resp)
		return
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		g.logger.Warn("Circuit breaker rejected request", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "service_unavailable",
			Message: "handler service is temporarily unavailable",
		})
	case errors.Is(err, syscall.ECONNREFUSED):
		g.logger.Error("Failed to proxy request", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "service_unavailable",
			Message: "handler service is not available",
		})
	default:
		g.logger.Error("Failed to proxy request", zap.Error(err))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "proxy_error",
			Message: "failed to reach handler service",
		})
	}
}

func (g *Gateway) roundTrip(req *http.Request) (*upstreamResponse, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	out := &upstreamResponse{status: resp.StatusCode, header: resp.Header, body: body}
	if resp.StatusCode >= http.StatusInternalServerError {
		return out, errUpstream
	}
	return out, nil
}

func (g *Gateway) relay(c *gin.Context, resp *upstreamResponse) {
	for key, values := range resp.header {
		if key == "Content-Length" {
			continue
		}
		for _, value := range values {
			c.Writer.Header().Add(key, value)
		}
	}
	c.Data(resp.status, resp.header.Get("Content-Type"), resp.body)
}

// HealthCheck returns a health check handler.
func (g *Gateway) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"role":    g.cfg.Role,
		"service": "annotation-layers",
		"breaker": g.breaker.State().String(),
	})
}
