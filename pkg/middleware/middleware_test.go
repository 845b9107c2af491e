package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/penstore/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func router(t *testing.T, m *Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(logger.FromZap(zaptest.NewLogger(t))), m.Handler())
	r.GET("/items/:id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c.Request.Context()))
	})
	return r
}

func TestRequestID(t *testing.T) {
	r := router(t, NewMetrics(prometheus.NewRegistry()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	generated := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-42", w.Body.String())
}

func TestMetricsLabelByRoute(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	r := router(t, m)

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.reqs.WithLabelValues(http.MethodGet, "/items/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.reqs.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestUnaryLoggerPropagatesRequestID(t *testing.T) {
	interceptor := UnaryLogger(logger.FromZap(zaptest.NewLogger(t)))
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "req-7"))

	var seen string
	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"},
		func(ctx context.Context, _ interface{}) (interface{}, error) {
			seen = RequestIDFromContext(ctx)
			return nil, nil
		})
	require.NoError(t, err)
	assert.Equal(t, "req-7", seen)
}
