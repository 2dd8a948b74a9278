package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-nose/internal/app"
	"digital-nose/pkg/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	a, err := app.New(&config.Config{
		StoreBackend:      config.StoreCSV,
		DatasetPath:       filepath.Join(t.TempDir(), "readings.csv"),
		SamplesPerProfile: 20,
		TestSize:          0.25,
		RandomState:       0,
		BaselineNoise:     0.05,
		DriftRate:         0.01,
		SampleRateHz:      1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return NewServer(a)
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := testServer(t)
	w := doRequest(t, s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, false, resp["trained"])
}

func TestInitTrainsAndReportsMetrics(t *testing.T) {
	s := testServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/init", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Profiles            []string `json:"profiles"`
		VOCFeatures         []string `json:"voc_features"`
		EnvironmentFeatures []string `json:"environment_features"`
		Classes             []string `json:"classes"`
		Metrics             struct {
			OverallAccuracy  float64             `json:"overall_accuracy"`
			PerClassAccuracy map[string]*float64 `json:"per_class_accuracy"`
			SamplesEvaluated int                 `json:"samples_evaluated"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, []string{"citrus", "herbal", "woody", "sweet"}, resp.Profiles)
	assert.Len(t, resp.VOCFeatures, 6)
	assert.Equal(t, []string{"temperature_c", "humidity_pct"}, resp.EnvironmentFeatures)
	assert.Equal(t, []string{"citrus", "herbal", "sweet", "woody"}, resp.Classes)
	assert.Equal(t, 20, resp.Metrics.SamplesEvaluated)
	assert.GreaterOrEqual(t, resp.Metrics.OverallAccuracy, 0.0)
	assert.LessOrEqual(t, resp.Metrics.OverallAccuracy, 1.0)
}

func TestCaptureKnownProfile(t *testing.T) {
	s := testServer(t)
	// Train first via init, as the browser client does.
	require.Equal(t, http.StatusOK, doRequest(t, s, http.MethodGet, "/api/init", nil).Code)

	w := doRequest(t, s, http.MethodPost, "/api/capture", map[string]string{"profile": "citrus"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Reading map[string]float64 `json:"reading"`
		Report  struct {
			Timestamp        string             `json:"timestamp"`
			PredictedFamily  string             `json:"predicted_family"`
			Confidence       float64            `json:"confidence"`
			IntensityIndex   float64            `json:"intensity_index"`
			RawProbabilities map[string]float64 `json:"raw_probabilities"`
			Environment      map[string]float64 `json:"environment"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Len(t, resp.Reading, 8)
	assert.NotEmpty(t, resp.Report.PredictedFamily)
	assert.Len(t, resp.Report.RawProbabilities, 4)
	assert.Contains(t, resp.Report.Environment, "temperature_c")
	assert.GreaterOrEqual(t, resp.Report.IntensityIndex, 0.0)
	assert.LessOrEqual(t, resp.Report.IntensityIndex, 100.0)
}

func TestCaptureUnknownProfile(t *testing.T) {
	s := testServer(t)
	require.Equal(t, http.StatusOK, doRequest(t, s, http.MethodGet, "/api/init", nil).Code)

	w := doRequest(t, s, http.MethodPost, "/api/capture", map[string]string{"profile": "petrichor"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "petrichor")
}

func TestCaptureMissingProfileField(t *testing.T) {
	s := testServer(t)
	w := doRequest(t, s, http.MethodPost, "/api/capture", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaptureBeforeTraining(t *testing.T) {
	s := testServer(t)
	w := doRequest(t, s, http.MethodPost, "/api/capture", map[string]string{"profile": "citrus"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProfilesRoute(t *testing.T) {
	s := testServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/profiles", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Profiles []string `json:"profiles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"citrus", "herbal", "woody", "sweet"}, resp.Profiles)
}
