package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelab/gyrobeam/pkg/engine"
	"github.com/venuelab/gyrobeam/pkg/fixture"
	"github.com/venuelab/gyrobeam/pkg/scene"
	"github.com/venuelab/gyrobeam/pkg/venue"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := scene.NewStore(t.TempDir())
	require.NoError(t, err)
	return NewServer(Options{
		Engine: engine.New(venue.Default(), fixture.NewRegistry(), 0),
		Scenes: store,
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestStatus(t *testing.T) {
	s := newTestServer(t)
	resp, body := doJSON(t, s, http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["calibrated"])
}

func TestVenueUpdate(t *testing.T) {
	s := newTestServer(t)

	update := venue.Venue{
		Dimensions: venue.Dimensions{Width: 20, Depth: 15, Height: 6},
		GridSize:   1,
		UserHeight: 1.2,
	}
	resp, body := doJSON(t, s, http.MethodPost, "/api/venue", update)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	dims := body["dimensions"].(map[string]interface{})
	assert.Equal(t, 20.0, dims["width"])

	bad := update
	bad.Dimensions.Width = 1
	resp, body = doJSON(t, s, http.MethodPost, "/api/venue", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error", body["status"])

	// Failed update must not take effect.
	_, current := doJSON(t, s, http.MethodGet, "/api/venue", nil)
	dims = current["dimensions"].(map[string]interface{})
	assert.Equal(t, 20.0, dims["width"])
}

func TestFixtureCRUD(t *testing.T) {
	s := newTestServer(t)

	spec := map[string]interface{}{
		"name":     "front truss",
		"position": map[string]float64{"x": 5, "y": 8, "z": 4},
		"mounting": "ceiling",
	}
	resp, created := doJSON(t, s, http.MethodPost, "/api/fixtures", spec)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["id"].(string)
	require.NotEmpty(t, id)
	// Zero ranges take the defaults.
	panRange := created["pan_range"].(map[string]interface{})
	assert.Equal(t, -270.0, panRange["min"])

	resp, got := doJSON(t, s, http.MethodGet, "/api/fixtures/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "front truss", got["name"])

	got["name"] = "front truss left"
	resp, _ = doJSON(t, s, http.MethodPut, "/api/fixtures/"+id, got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, s, http.MethodDelete, "/api/fixtures/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, s, http.MethodGet, "/api/fixtures/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFixtureValidationRejected(t *testing.T) {
	s := newTestServer(t)
	resp, body := doJSON(t, s, http.MethodPost, "/api/fixtures", map[string]interface{}{
		"mounting": "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error", body["status"])
}

func TestCalibrateAndReset(t *testing.T) {
	s := newTestServer(t)

	resp, body := doJSON(t, s, http.MethodPost, "/api/calibrate", map[string]float64{
		"alpha": 200, "beta": 0, "gamma": 0,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 200.0, body["alpha_offset"])

	_, status := doJSON(t, s, http.MethodGet, "/api/status", nil)
	assert.Equal(t, true, status["calibrated"])

	resp, _ = doJSON(t, s, http.MethodPost, "/api/reset-calibration", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, status = doJSON(t, s, http.MethodGet, "/api/status", nil)
	assert.Equal(t, false, status["calibrated"])
}

func TestSceneRoundTrip(t *testing.T) {
	s := newTestServer(t)

	_, created := doJSON(t, s, http.MethodPost, "/api/fixtures", map[string]interface{}{
		"position": map[string]float64{"x": 2, "y": 8, "z": 4},
		"mounting": "ceiling",
	})
	id := created["id"].(string)

	resp, _ := doJSON(t, s, http.MethodPost, "/api/scenes/opening/save", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, s, http.MethodDelete, "/api/fixtures/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, s, http.MethodPost, "/api/scenes/opening/load", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["fixtures"])

	resp, body = doJSON(t, s, http.MethodGet, "/api/scenes", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	names := body["scenes"].([]interface{})
	require.Len(t, names, 1)
	assert.Equal(t, "opening", names[0])

	resp, _ = doJSON(t, s, http.MethodPost, "/api/scenes/missing/load", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
