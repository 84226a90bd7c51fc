package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"

	"upipay/internal/config"
	"upipay/internal/handler"
	"upipay/internal/logger"
	"upipay/internal/service"
)

func TestDriverName(t *testing.T) {
	nrApp := &newrelic.Application{}

	testCases := []struct {
		name  string
		cfg   config.DatabaseConfig
		nrApp *newrelic.Application
		want  string
	}{
		{"postgres", config.DatabaseConfig{Driver: config.DriverPostgres}, nil, "postgres"},
		{"postgres with new relic", config.DatabaseConfig{Driver: config.DriverPostgres}, nrApp, "nrpostgres"},
		{"sqlite", config.DatabaseConfig{Driver: config.DriverSQLite}, nil, "sqlite3"},
		{"sqlite ignores new relic", config.DatabaseConfig{Driver: config.DriverSQLite}, nrApp, "sqlite3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DriverName(tc.cfg, tc.nrApp); got != tc.want {
				t.Errorf("DriverName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "payments.db"),
	}

	db, err := NewDatabase(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("sqlite max open conns = %d, want 1", got)
	}
}

func TestNewRouter_RegistersRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := service.NewPaymentService(service.PaymentServiceParams{})
	router, err := NewRouter(RouterDeps{
		PaymentHandler: handler.NewPaymentHandler(svc, nil),
		HealthHandler:  handler.NewHealthHandler(nil),
		Logger:         logger.Nop(),
		Gatherer:       prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	want := map[string]bool{
		"GET /":                             false,
		"POST /submit-payment":              false,
		"GET /v1/payments/:order_id":        false,
		"GET /v1/payments/:order_id/qr.png": false,
		"GET /health":                       false,
		"GET /metrics":                      false,
	}
	for _, route := range router.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, found := range want {
		if !found {
			t.Errorf("route %s not registered", route)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("/health = %d", w.Code)
	}
}
