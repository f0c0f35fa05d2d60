package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/nsw-fuel-check/internal/config"
	"github.com/rm-hull/nsw-fuel-check/internal/models"
)

func testConfig(t *testing.T, handler http.HandlerFunc) *config.Config {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.APIKey = "test-key"
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestStationPricesOutput(t *testing.T) {
	cfg := testConfig(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prices/station/100", r.URL.Path)
		_, _ = io.WriteString(w, `{"prices": [{"fueltype": "E10", "price": 146.9, "lastupdated": "02/06/2018 02:03:04"}]}`)
	})

	var out bytes.Buffer
	err := StationPrices(context.Background(), cfg, zerolog.Nop(), &out, 100)
	require.NoError(t, err)

	var prices []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &prices))
	require.Len(t, prices, 1)
	assert.Equal(t, "E10", prices[0]["fuel_type"])
	assert.Equal(t, "146.9", prices[0]["price"])
}

func TestTrendsOutput(t *testing.T) {
	cfg := testConfig(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"Variances": [],
			"AveragePrices": [{"Code": "E10", "Period": "Year", "Price": 151.0, "Captured": "October 2017"}]
		}`)
	})

	var out bytes.Buffer
	err := Trends(context.Background(), cfg, zerolog.Nop(), &out, models.TrendsRequest{FuelTypes: []string{"E10"}})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"2017-10-01"`)
}

func TestQueryUpstreamError(t *testing.T) {
	cfg := testConfig(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"errorDetails": {"code": "401", "message": "Invalid API key"}}`)
	})

	var out bytes.Buffer
	err := ReferenceData(context.Background(), cfg, zerolog.Nop(), &out, nil)
	require.Error(t, err)
	assert.Empty(t, out.String())

	var fcErr *models.FuelCheckError
	require.True(t, errors.As(err, &fcErr))
	assert.Equal(t, http.StatusUnauthorized, fcErr.StatusCode)
}
