package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportBuilt(t *testing.T) {
	m := New()
	m.ReportBuilt(3)
	m.ReportBuilt(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Reports))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Regions))
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/charts/{kind}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	for _, p := range []string{"/charts/a", "/charts/b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/charts/{kind}", "418")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.Exported("png")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	assert.True(t, strings.Contains(string(b), `funnel_exports_total{format="png"} 1`))
}
