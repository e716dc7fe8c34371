package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Instrument())
	r.GET("/messages/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/messages/:id", "200"))
	for _, id := range []string{"1", "2", "3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/messages/:id", "200"))

	assert.Equal(t, 3.0, after-before)
	assert.Zero(t, testutil.ToFloat64(httpInFlight))
}

func TestStorageFailure(t *testing.T) {
	before := testutil.ToFloat64(storageFailures.WithLabelValues("test_op"))
	StorageFailure("test_op")
	assert.Equal(t, 1.0, testutil.ToFloat64(storageFailures.WithLabelValues("test_op"))-before)
}

func TestHandler_ServesRegistry(t *testing.T) {
	CacheHit()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "social_cache_lookups_total")
}
