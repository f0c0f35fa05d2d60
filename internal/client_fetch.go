package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/rm-hull/nsw-fuel-check/internal/config"
	"github.com/rm-hull/nsw-fuel-check/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ATTRIBUTION = []string{
	"Contains NSW FuelCheck data © State of New South Wales, licensed under CC BY 4.0",
}

// Reference data is requested in full unless a later timestamp is given.
var defaultModifiedSince = time.Date(2010, time.January, 1, 0, 0, 0, 0, models.NSWLocation)

type FuelCheckClient interface {
	GetFuelPrices(ctx context.Context) (*models.GetFuelPricesResponse, error)
	GetFuelPricesForStation(ctx context.Context, stationCode int) ([]models.Price, error)
	GetFuelPricesWithinRadius(ctx context.Context, req models.NearbyRequest) ([]models.StationPrice, error)
	GetFuelPriceTrends(ctx context.Context, req models.TrendsRequest) (*models.PriceTrends, error)
	GetReferenceData(ctx context.Context, modifiedSince *time.Time) (*models.GetReferenceDataResponse, error)
	LastUpdated() *time.Time
}

type fuelCheckManager struct {
	baseUrl      string
	authUrl      string
	apiKey       string
	clientId     string
	clientSecret string
	client       *http.Client
	logger       zerolog.Logger
	now          func() time.Time

	mu              sync.Mutex
	tokenData       models.TokenData
	lastPricesFetch time.Time
}

// NewFuelCheckClient creates a client for the FuelCheck API. When OAuth client
// credentials are configured, a bearer token is obtained before returning.
func NewFuelCheckClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (FuelCheckClient, error) {
	mgr := &fuelCheckManager{
		baseUrl: cfg.BaseURL,
		authUrl: cfg.AuthURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "fuelcheck-client").Logger(),
		now:    time.Now,
	}

	if cfg.UseOAuth() {
		mgr.clientId = cfg.ClientID
		mgr.clientSecret = cfg.ClientSecret

		mgr.mu.Lock()
		defer mgr.mu.Unlock()
		if err := mgr.authenticate(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to authenticate")
		}
	}

	return mgr, nil
}

func (mgr *fuelCheckManager) GetFuelPrices(ctx context.Context) (*models.GetFuelPricesResponse, error) {
	started := mgr.now()
	resp, err := fetch(ctx, mgr, "prices", http.MethodGet, "/prices", nil, nil, models.DecodeFuelPrices)
	if err != nil {
		return nil, err
	}

	mgr.mu.Lock()
	mgr.lastPricesFetch = started
	mgr.mu.Unlock()

	return resp, nil
}

func (mgr *fuelCheckManager) GetFuelPricesForStation(ctx context.Context, stationCode int) ([]models.Price, error) {
	path := fmt.Sprintf("/prices/station/%d", stationCode)
	return fetch(ctx, mgr, "station", http.MethodGet, path, nil, nil, models.DecodeStationPrices)
}

func (mgr *fuelCheckManager) GetFuelPricesWithinRadius(ctx context.Context, req models.NearbyRequest) ([]models.StationPrice, error) {
	return fetch(ctx, mgr, "nearby", http.MethodPost, "/prices/nearby", req.Normalize(), nil, models.DecodeNearbyPrices)
}

func (mgr *fuelCheckManager) GetFuelPriceTrends(ctx context.Context, req models.TrendsRequest) (*models.PriceTrends, error) {
	return fetch(ctx, mgr, "trends", http.MethodPost, "/prices/trends/", req.Body(), nil, models.DecodePriceTrends)
}

// GetReferenceData fetches the API reference data. Upstream only returns data
// when something changed since modifiedSince; an unchanged response yields
// empty collections.
func (mgr *fuelCheckManager) GetReferenceData(ctx context.Context, modifiedSince *time.Time) (*models.GetReferenceDataResponse, error) {
	since := defaultModifiedSince
	if modifiedSince != nil {
		since = *modifiedSince
	}
	headers := map[string]string{
		"if-modified-since": since.In(models.NSWLocation).Format(models.RequestTimestampLayout),
	}

	statusCode, body, err := mgr.do(ctx, "lovs", http.MethodGet, "/lovs", nil, headers)
	if err != nil {
		return nil, err
	}

	if statusCode == http.StatusNotModified {
		mgr.logger.Debug().Time("modifiedSince", since).Msg("reference data not modified")
		return &models.GetReferenceDataResponse{
			Stations:     []models.Station{},
			Brands:       []string{},
			FuelTypes:    []models.FuelType{},
			TrendPeriods: []models.TrendPeriod{},
			SortFields:   []models.SortField{},
		}, nil
	}

	return assembleResponse(mgr, "lovs", statusCode, body, models.DecodeReferenceData)
}

func (mgr *fuelCheckManager) LastUpdated() *time.Time {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if mgr.lastPricesFetch.IsZero() {
		return nil
	}
	lastUpdated := mgr.lastPricesFetch
	return &lastUpdated
}

func fetch[T any](
	ctx context.Context,
	mgr *fuelCheckManager,
	endpoint, method, path string,
	payload any,
	headers map[string]string,
	decode func([]byte) (T, error),
) (T, error) {
	statusCode, body, err := mgr.do(ctx, endpoint, method, path, payload, headers)
	if err != nil {
		var zero T
		return zero, err
	}
	return assembleResponse(mgr, endpoint, statusCode, body, decode)
}

func assembleResponse[T any](mgr *fuelCheckManager, endpoint string, statusCode int, body []byte, decode func([]byte) (T, error)) (T, error) {
	var zero T
	if statusCode < 200 || statusCode > 299 {
		fcErr := models.DecodeFuelCheckError(statusCode, body)
		mgr.logger.Warn().Str("endpoint", endpoint).Int("status", statusCode).Err(fcErr).Msg("FuelCheck API returned an error")
		return zero, fcErr
	}

	result, err := decode(body)
	if err != nil {
		recordDecodeFailure(endpoint)
		mgr.logger.Error().Str("endpoint", endpoint).Err(err).Msg("failed to decode FuelCheck API response")
		return zero, err
	}
	return result, nil
}

func (mgr *fuelCheckManager) do(ctx context.Context, endpoint, method, path string, payload any, headers map[string]string) (int, []byte, error) {
	token, err := mgr.bearerToken(ctx)
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to refresh token")
	}

	url := mgr.baseUrl + path
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, errors.Wrap(err, "failed to marshal request body")
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	req.Header.Set("requesttimestamp", mgr.now().In(models.NSWLocation).Format(models.RequestTimestampLayout))
	req.Header.Set("transactionid", uuid.NewString())
	if mgr.apiKey != "" {
		req.Header.Set("apikey", mgr.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	mgr.logger.Debug().Str("method", method).Str("url", url).Msg("requesting FuelCheck API")

	started := time.Now()
	resp, err := mgr.client.Do(req)
	if err != nil {
		recordUpstreamRequest(endpoint, 0, time.Since(started))
		return 0, nil, errors.Wrapf(err, "failed to fetch from %s", url)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			mgr.logger.Warn().Err(err).Msg("failed to close body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	recordUpstreamRequest(endpoint, resp.StatusCode, time.Since(started))
	if err != nil {
		return 0, nil, errors.Wrapf(err, "failed to read response body from %s", url)
	}

	return resp.StatusCode, body, nil
}

// bearerToken returns the current access token, refreshing it when it has
// expired or is about to. It returns "" when OAuth is not configured.
func (mgr *fuelCheckManager) bearerToken(ctx context.Context) (string, error) {
	if mgr.clientId == "" {
		return "", nil
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	expiresSoon := mgr.tokenData.ExpiresAt.Sub(mgr.now()) < 5*time.Minute
	if expiresSoon {
		mgr.logger.Info().Msg("access token has either expired or is expiring soon, refreshing...")
		if err := mgr.authenticate(ctx); err != nil {
			return "", err
		}
	}
	return mgr.tokenData.AccessToken, nil
}

// authenticate must be called with mgr.mu held.
func (mgr *fuelCheckManager) authenticate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mgr.authUrl, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.SetBasicAuth(mgr.clientId, mgr.clientSecret)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := mgr.client.Do(req)
	if err != nil {
		recordUpstreamRequest("oauth", 0, time.Since(started))
		return errors.Wrap(err, "failed to perform request")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			mgr.logger.Warn().Err(err).Msg("failed to close body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	recordUpstreamRequest("oauth", resp.StatusCode, time.Since(started))
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return models.DecodeFuelCheckError(resp.StatusCode, body)
	}

	var tokenResp models.TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return errors.Wrap(err, "failed to unmarshal response")
	}
	tokenData, err := tokenResp.ToTokenData(mgr.now())
	if err != nil {
		return err
	}

	mgr.tokenData = tokenData
	mgr.logger.Info().Time("expiresAt", tokenData.ExpiresAt).Msg("authenticated successfully")
	return nil
}
