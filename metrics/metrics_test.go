package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New(nil)
	m.ObserveRequest(http.MethodGet, "/products/:id", "404", 3*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/products/:id", "404", time.Millisecond)

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/products/:id", "404"))
	assert.Equal(t, 2.0, got)
}

func TestInFlight(t *testing.T) {
	m := New(nil)
	m.IncInFlight()
	m.IncInFlight()
	m.DecInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpInFlight))
}

func TestHandlerExposesProductGauge(t *testing.T) {
	m := New(func() float64 { return 2 })

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.True(t, strings.Contains(body, "product_registry_products 2"), body)
}
