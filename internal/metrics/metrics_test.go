package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/teapot/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/teapot/{id}", "418"))
	assert.Equal(t, 2.0, got)
}

func TestCaptionGenerationTotal(t *testing.T) {
	before := testutil.ToFloat64(captionGenerationTotal.WithLabelValues("primary", "ok"))
	CaptionGenerationTotal("primary", "ok")
	after := testutil.ToFloat64(captionGenerationTotal.WithLabelValues("primary", "ok"))

	assert.Equal(t, before+1, after)
}
