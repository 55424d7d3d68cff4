package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	anonymizationDomain "github.com/allisson/anonymizer/internal/anonymization/domain"
	anonymizationHTTP "github.com/allisson/anonymizer/internal/anonymization/http"
	"github.com/allisson/anonymizer/internal/anonymization/usecase/mocks"
	"github.com/allisson/anonymizer/internal/config"
	"github.com/allisson/anonymizer/internal/metrics"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:                  "info",
		AnonymizerMaxPayloadBytes: 1 << 20,
		RateLimitEnabled:          false,
		RateLimitRequestsPerSec:   10,
		RateLimitBurst:            20,
		MetricsNamespace:          "server_test",
	}
}

// setupTestServer builds a fully routed server backed by a mocked use case.
func setupTestServer(
	t *testing.T,
	cfg *config.Config,
	provider *metrics.Provider,
) (*Server, *mocks.MockAnonymizationUseCase, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	useCase := &mocks.MockAnonymizationUseCase{}
	t.Cleanup(func() { useCase.AssertExpectations(t) })

	server := NewServer(db, "localhost", 0, discardLogger())
	server.SetupRouter(ctx, cfg, anonymizationHTTP.NewAnonymizationHandler(useCase, discardLogger()), provider)
	return server, useCase, dbMock
}

func TestHealthHandler(t *testing.T) {
	server := NewServer(nil, "localhost", 8080, discardLogger())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Run("NotReady_NilDB", func(t *testing.T) {
		server := NewServer(nil, "localhost", 8080, discardLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"not_ready","components":{"database":"error"}}`, w.Body.String())
	})

	t.Run("Ready_DatabaseResponds", func(t *testing.T) {
		server, _, dbMock := setupTestServer(t, testConfig(), nil)
		dbMock.ExpectPing()

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready","components":{"database":"ok"}}`, w.Body.String())
	})

	t.Run("NotReady_PingFails", func(t *testing.T) {
		server, _, dbMock := setupTestServer(t, testConfig(), nil)
		dbMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))
	router.POST("/v1/anonymize", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/anonymize", strings.NewReader(`{"data":"jane@example.com"}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/v1/anonymize", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.NotEmpty(t, entry["request_id"])
	assert.NotContains(t, buf.String(), "jane@example.com")
}

func TestBodyLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(BodyLimitMiddleware(16))
	router.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, string(body))
	})

	t.Run("WithinLimit", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("small")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "small", w.Body.String())
	})

	t.Run("DeclaredLengthTooLarge", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("StreamedBodyTooLarge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", io.NopCloser(strings.NewReader(strings.Repeat("x", 64))))
		req.ContentLength = -1

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := gin.New()
	router.Use(RateLimitMiddleware(ctx, 0.001, 2, discardLogger()))
	router.GET("/limited", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = remoteAddr
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001").Code)

	limited := send("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	// Buckets are per client IP.
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000").Code)
}

func TestIPLimiterStore_EvictIdle(t *testing.T) {
	store := &ipLimiterStore{rps: 1, burst: 1}
	first := store.getLimiter("10.0.0.1")
	assert.Same(t, first, store.getLimiter("10.0.0.1"))

	store.evictIdle(time.Now().Add(time.Minute))

	_, ok := store.limiters.Load("10.0.0.1")
	assert.False(t, ok)
	assert.NotSame(t, first, store.getLimiter("10.0.0.1"))
}

func TestRouter_AnonymizationRoutes(t *testing.T) {
	server, useCase, _ := setupTestServer(t, testConfig(), nil)

	useCase.On("Anonymize", mock.Anything, "jane@example.com", false).
		Return(&anonymizationDomain.AnonymizeResult{
			Data:    "ANON_aaaaaaaa",
			Map:     anonymizationDomain.EncryptedMap{"c2VhbGVk": "ANON_aaaaaaaa"},
			Entries: 1,
		}, nil).
		Once()
	sessionID := uuid.Must(uuid.NewV7())
	useCase.On("DeleteSession", mock.Anything, sessionID).Return(nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/anonymize", strings.NewReader(`{"data":"jane@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	server.GetHandler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+sessionID.String(), nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_PayloadLimit(t *testing.T) {
	cfg := testConfig()
	cfg.AnonymizerMaxPayloadBytes = 32
	server, _, _ := setupTestServer(t, cfg, nil)

	body := `{"data":"` + strings.Repeat("a", 64) + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/anonymize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_RateLimitOnlyOnAPIRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequestsPerSec = 0.001
	cfg.RateLimitBurst = 1
	server, useCase, dbMock := setupTestServer(t, cfg, nil)

	useCase.On("DeleteSession", mock.Anything, mock.Anything).Return(nil).Once()

	path := "/v1/sessions/" + uuid.Must(uuid.NewV7()).String()
	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	dbMock.ExpectPing()
	w = httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RecordsHTTPMetrics(t *testing.T) {
	provider, err := metrics.NewProvider("server_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	server, _, _ := setupTestServer(t, testConfig(), provider)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	metricsServer := NewMetricsServer("localhost", 0, discardLogger(), provider)
	w = httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "server_test_http_requests_total")
}

func TestServer_StartRequiresRouter(t *testing.T) {
	server := NewServer(nil, "localhost", 0, discardLogger())
	assert.Error(t, server.Start(context.Background()))
}

func TestServer_ShutdownGracefully(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	server, _, _ := setupTestServer(t, testConfig(), nil)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	assert.NoError(t, server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
}
