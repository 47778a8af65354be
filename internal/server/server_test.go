package server

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolab/macrosim/internal/alerts"
	"github.com/macrolab/macrosim/internal/history"
	"github.com/macrolab/macrosim/internal/market"
	"github.com/macrolab/macrosim/internal/scenario"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	store, err := alerts.NewStore(filepath.Join(t.TempDir(), "alerts.json"))
	require.NoError(t, err)

	tracker := market.NewTracker(market.DefaultIndexes(), rand.New(rand.NewSource(1)))
	tracker.Refresh()
	return New(tracker, store, nil)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSimulateEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/simulate", map[string]float64{
		"inflationRate": 3.0,
		"fedRate":       5.0,
		"gdpGrowthRate": 4.0,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Scenarios []scenario.Scenario `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Scenarios, 3)

	seen := map[scenario.Risk]bool{}
	for _, sc := range resp.Scenarios {
		seen[sc.Risk] = true
		assert.GreaterOrEqual(t, sc.ProjectedProfit, 0.0)
		assert.NotEmpty(t, sc.Strategy)
	}
	assert.Len(t, seen, 3, "expected one scenario per risk tier")
}

func TestSimulateClampsInput(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/simulate", map[string]float64{
		"inflationRate": 99,
		"fedRate":       -5,
		"gdpGrowthRate": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSimulateRejectsMalformedBody(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateEventEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/generate-event", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TopIndex string `json:"topIndex"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TopIndex)
}

func TestHistoricalScenariosWithConditions(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/historical-scenarios", map[string]any{
		"currentConditions": history.Conditions{
			Trend:      history.TrendBearish,
			Volatility: 0.8,
			Sentiment:  history.SentimentNegative,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp history.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Scenarios, 4)
	require.NotNil(t, resp.Conditions)

	// 2008 matches on all three factors against these conditions.
	assert.Equal(t, "2008 Financial Crisis", resp.Scenarios[0].Period)
	assert.Equal(t, 100, resp.Scenarios[0].Similarity)
	for i := 1; i < len(resp.Scenarios); i++ {
		assert.LessOrEqual(t, resp.Scenarios[i].Similarity, resp.Scenarios[i-1].Similarity)
	}
}

func TestHistoricalScenariosDerivesConditions(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/historical-scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp history.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Conditions, "server should derive conditions when none are posted")
	assert.Len(t, resp.Scenarios, 4)
}

func TestAlertLifecycleOverHTTP(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/alerts", alerts.Alert{
		Type: alerts.TypePrice, Symbol: "NASDAQ", Condition: alerts.CondAbove, Value: 15000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created alerts.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = doJSON(t, s, http.MethodGet, "/alerts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []alerts.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = doJSON(t, s, http.MethodPut, "/alerts/"+created.ID, map[string]bool{"active": false})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/alerts/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/alerts/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAlertRequiresSymbol(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/alerts", alerts.Alert{Value: 100})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
