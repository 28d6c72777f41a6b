package shockweb

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getChart(t *testing.T, ws *WebServer, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestChartsRequireUpload(t *testing.T) {
	ws := newTestServer()

	for _, path := range []string{"/charts/position", "/charts/velocity"} {
		rec := getChart(t, ws, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "no upload processed yet")
	}
}

func TestPositionChart(t *testing.T) {
	ws := newTestServer()
	rec := postProcess(t, ws, url.Values{"contents": {payload("0 0 0 0\n1 2 3 4\n2 4 6 8")}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = getChart(t, ws, "/charts/position?start=0&end=0.005")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "echarts")
	for _, series := range []string{"Pos_1", "Pos_2", "Pos_3", "Pos_4"} {
		assert.Contains(t, body, series)
	}
}

func TestVelocityChart(t *testing.T) {
	ws := newTestServer()
	rec := postProcess(t, ws, url.Values{"contents": {payload("0 0 0 0\n1 2 3 4\n2 4 6 8\n3 6 9 12")}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = getChart(t, ws, "/charts/velocity?start=0&end=1&bins=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "echarts")
	for _, series := range []string{"Vel_1", "Vel_2", "Vel_3", "Vel_4"} {
		assert.Contains(t, body, series)
	}
}

func TestChartsRenderEmptyWindow(t *testing.T) {
	ws := newTestServer()
	rec := postProcess(t, ws, url.Values{"contents": {payload("0 0 0 0\n1 2 3 4")}})
	require.Equal(t, http.StatusOK, rec.Code)

	// Bounds beyond the data select zero rows; the endpoints still return a
	// renderable (empty) chart, never an error.
	rec = getChart(t, ws, "/charts/position?start=100&end=200")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "echarts")

	rec = getChart(t, ws, "/charts/velocity?start=100&end=200")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "echarts")

	// Backwards bounds behave the same way.
	rec = getChart(t, ws, "/charts/position?start=5&end=1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVelocityChartClampsBins(t *testing.T) {
	ws := newTestServer()
	rec := postProcess(t, ws, url.Values{"contents": {payload("0 0 0 0\n1 2 3 4\n2 4 6 8")}})
	require.Equal(t, http.StatusOK, rec.Code)

	// Out-of-range bin counts fall back to the tuned default rather than 4xx.
	for _, q := range []string{"bins=0", "bins=100000", "bins=notanumber"} {
		rec = getChart(t, ws, "/charts/velocity?"+q)
		assert.Equal(t, http.StatusOK, rec.Code, q)
	}
}
