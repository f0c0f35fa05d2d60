package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/nsw-fuel-check/internal/config"
	"github.com/rm-hull/nsw-fuel-check/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) FuelCheckClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.BaseURL = server.URL + "/fuel"
	cfg.APIKey = "test-key"
	cfg.Timeout = 5 * time.Second

	client, err := NewFuelCheckClient(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestGetFuelPricesForStation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/fuel/prices/station/100", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Empty(t, r.Header.Get("Authorization"))

		_, err := time.ParseInLocation(models.RequestTimestampLayout, r.Header.Get("requesttimestamp"), models.NSWLocation)
		assert.NoError(t, err)
		_, err = uuid.Parse(r.Header.Get("transactionid"))
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"prices": [
			{"fueltype": "E10", "price": 146.9, "lastupdated": "02/06/2018 02:03:04"},
			{"fueltype": "P95", "price": 150.0, "lastupdated": "02/06/2018 02:03:04"}
		]}`)
	})

	prices, err := client.GetFuelPricesForStation(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "E10", prices[0].FuelType)
	assert.True(t, decimal.RequireFromString("146.9").Equal(prices[0].Price))
	require.NotNil(t, prices[0].LastUpdated)
	assert.True(t, prices[0].LastUpdated.Equal(time.Date(2018, time.June, 2, 2, 3, 4, 0, models.NSWLocation)))
}

func TestGetFuelPricesForStationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"errorDetails": [{"code": "E0014", "description": "Invalid service station code \"21199\""}]}`)
	})

	_, err := client.GetFuelPricesForStation(context.Background(), 21199)
	require.Error(t, err)

	var fcErr *models.FuelCheckError
	require.True(t, errors.As(err, &fcErr))
	assert.Equal(t, http.StatusBadRequest, fcErr.StatusCode)
	require.NotNil(t, fcErr.ErrorCode)
	assert.Equal(t, "E0014", *fcErr.ErrorCode)
	assert.False(t, errors.Is(err, models.ErrDecode))
}

func TestUpstreamErrorWithHTMLBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>Bad Gateway</html>")
	})

	_, err := client.GetFuelPrices(context.Background())
	var fcErr *models.FuelCheckError
	require.True(t, errors.As(err, &fcErr))
	assert.Nil(t, fcErr.ErrorCode)
	require.NotNil(t, fcErr.Description)
	assert.Equal(t, "<html>Bad Gateway</html>", *fcErr.Description)
}

func TestGetFuelPricesWithinRadius(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fuel/prices/nearby", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"fueltype": "E10", "latitude": -33.0, "longitude": 151.0, "radius": 10, "brand": []}`, string(body))

		_, _ = io.WriteString(w, `{
			"stations": [{"stationid": "SAAAAAA", "brand": "Cool Fuel Brand", "code": 678, "name": "Cool Fuel Brand Luxembourg", "address": "123 Fake Street", "location": {}}],
			"prices": [{"stationcode": 678, "fueltype": "E10", "price": 150.9, "priceunit": "litre", "lastupdated": "2018-06-02 00:46:31"}]
		}`)
	})

	result, err := client.GetFuelPricesWithinRadius(context.Background(), models.NearbyRequest{
		FuelType:  "E10",
		Latitude:  -33.0,
		Longitude: 151.0,
		Radius:    10,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 678, result[0].Station.Code)
	assert.Equal(t, "Cool Fuel Brand", result[0].Station.Brand)
	assert.True(t, decimal.RequireFromString("150.9").Equal(result[0].Price.Price))
}

func TestGetFuelPricesWithinRadiusOrphanedPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"stations": [{"brand": "Cool Fuel Brand", "code": 678, "name": "N", "address": "A"}],
			"prices": [{"stationcode": 999, "fueltype": "E10", "price": 150.9}]
		}`)
	})

	_, err := client.GetFuelPricesWithinRadius(context.Background(), models.NearbyRequest{FuelType: "E10"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDecode))

	var fcErr *models.FuelCheckError
	assert.False(t, errors.As(err, &fcErr))
}

func TestGetFuelPriceTrends(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fuel/prices/trends/", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"location": {"latitude": -33.0, "longitude": 151.0}, "fueltypes": [{"code": "E10"}, {"code": "P95"}]}`, string(body))

		_, _ = io.WriteString(w, `{
			"Variances": [{"Code": "E10", "Period": "Day", "Price": 150.0}],
			"AveragePrices": [{"Code": "E10", "Period": "Year", "Price": 151.0, "Captured": "October 2017"}]
		}`)
	})

	trends, err := client.GetFuelPriceTrends(context.Background(), models.TrendsRequest{
		Latitude:  -33.0,
		Longitude: 151.0,
		FuelTypes: []string{"E10", "P95"},
	})
	require.NoError(t, err)
	require.Len(t, trends.Variances, 1)
	require.Len(t, trends.AveragePrices, 1)
	assert.Equal(t, models.PeriodYear, trends.AveragePrices[0].Period)
	assert.True(t, trends.AveragePrices[0].Captured.Time.Equal(time.Date(2017, time.October, 1, 0, 0, 0, 0, models.NSWLocation)))
}

func TestGetReferenceData(t *testing.T) {
	t.Run("Default modified since", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/fuel/lovs", r.URL.Path)
			assert.Equal(t, "01/01/2010 00:00:00", r.Header.Get("if-modified-since"))

			_, _ = io.WriteString(w, `{
				"brands": {"items": [{"name": "BP"}]},
				"fueltypes": {"items": [{"code": "E10", "name": "Ethanol 94"}]},
				"stations": {"items": []},
				"trendperiods": {"items": [{"period": "Day", "description": "Description for day"}]},
				"sortfields": {"items": [{"code": "Price", "name": "Price"}]}
			}`)
		})

		resp, err := client.GetReferenceData(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"BP"}, resp.Brands)
		assert.Empty(t, resp.Stations)
	})

	t.Run("Not modified", func(t *testing.T) {
		since := time.Date(2024, time.March, 5, 6, 7, 8, 0, models.NSWLocation)
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "05/03/2024 06:07:08", r.Header.Get("if-modified-since"))
			w.WriteHeader(http.StatusNotModified)
		})

		resp, err := client.GetReferenceData(context.Background(), &since)
		require.NoError(t, err)
		assert.Empty(t, resp.Stations)
		assert.Empty(t, resp.Brands)
	})
}

func TestLastUpdated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"stations": [], "prices": []}`)
	})

	assert.Nil(t, client.LastUpdated())

	before := time.Now()
	_, err := client.GetFuelPrices(context.Background())
	require.NoError(t, err)

	lastUpdated := client.LastUpdated()
	require.NotNil(t, lastUpdated)
	assert.False(t, lastUpdated.Before(before))
}

func TestOAuthBearerToken(t *testing.T) {
	var tokenRequests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		id, secret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", id)
		assert.Equal(t, "secret", secret)
		_, _ = io.WriteString(w, `{"access_token": "token-123", "token_type": "BearerToken", "expires_in": "43199"}`)
	})
	mux.HandleFunc("/fuel/prices/station/1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"prices": []}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.BaseURL = server.URL + "/fuel"
	cfg.AuthURL = server.URL + "/oauth"
	cfg.ClientID = "id"
	cfg.ClientSecret = "secret"

	client, err := NewFuelCheckClient(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	for range 3 {
		_, err = client.GetFuelPricesForStation(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), tokenRequests.Load())
}

func TestOAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"errorDetails": {"code": "401.1", "message": "Invalid client credentials"}}`)
	}))
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.AuthURL = server.URL
	cfg.ClientID = "id"
	cfg.ClientSecret = "wrong"

	_, err := NewFuelCheckClient(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)

	var fcErr *models.FuelCheckError
	require.True(t, errors.As(err, &fcErr))
	require.NotNil(t, fcErr.Description)
	assert.Equal(t, "Invalid client credentials", *fcErr.Description)
}
