package routes

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"receipt-service/internal/assets"
	"receipt-service/internal/config"
	"receipt-service/internal/events"
	"receipt-service/internal/metrics"
	"receipt-service/internal/repository"
	"receipt-service/internal/service"
	"receipt-service/internal/transport"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	cfg := &config.Config{
		App:     config.AppConfig{Name: "receipt-service", Version: "test", Environment: "test"},
		Printer: config.PrinterConfig{QueueID: "FILE:receipts", PaperWidthPx: 384, MaxBlockHeight: 256, DrawerPin: 2, DrawerOnMs: 50, DrawerOffMs: 500},
		Layout:  config.LayoutConfig{FontSize: 24, FontSizeSmall: 20},
		Queues: []config.QueueConfig{{
			Port:    "FILE",
			Name:    "receipts",
			Type:    "file",
			Options: map[string]interface{}{"path": filepath.Join(t.TempDir(), "out.bin")},
		}},
	}

	registry, err := service.BuildRegistry(cfg.Queues, logger)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)
	tr := transport.New(registry, transport.Options{Policy: transport.BusyFailFast}, logger, m)
	bus := events.NewBus(logger)

	svc, err := service.NewPrinterService(tr, assets.NewLibrary(logger), repository.NewMemoryJobRepository(0), bus, m, cfg, logger)
	require.NoError(t, err)

	return NewRouter(cfg, logger, nil, svc, registry, bus, m).SetupRouter()
}

func TestRoutesAreWired(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/api/v1/queues", http.StatusOK},
		{http.MethodGet, "/api/v1/jobs", http.StatusOK},
		{http.MethodPost, "/open-drawer", http.StatusOK},
		{http.MethodPost, "/api/v1/open-drawer", http.StatusOK},
		{http.MethodGet, "/docs", http.StatusMovedPermanently},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, w.Code, "%s %s", tt.method, tt.path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), "%s %s", tt.method, tt.path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `receipt_http_requests_total{method="GET",path="/health",status="200"} 1`))
}
