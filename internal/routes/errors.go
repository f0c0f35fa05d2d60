package routes

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rm-hull/nsw-fuel-check/internal/models"
)

// upstreamFailure reports a failed FuelCheck call. Errors raised by the API
// itself and responses that could not be decoded are both bad gateways.
func upstreamFailure(c *gin.Context, err error) {
	var fcErr *models.FuelCheckError
	switch {
	case errors.As(err, &fcErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           "FuelCheck API request failed",
			"upstream_status": fcErr.StatusCode,
			"error_code":      fcErr.ErrorCode,
			"description":     fcErr.Description,
		})
	case errors.Is(err, models.ErrDecode):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("undecodable FuelCheck API response")
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream response could not be decoded"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("error while calling FuelCheck API")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
	}
}
