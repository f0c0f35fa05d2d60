package routes

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rm-hull/nsw-fuel-check/internal"
	"github.com/rm-hull/nsw-fuel-check/internal/models"
)

type nearbyQuery struct {
	Latitude  *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `form:"lng" binding:"required,gte=-180,lte=180"`
	Radius    int      `form:"radius,default=5" binding:"gte=1,lte=50"`
	FuelType  string   `form:"fueltype" binding:"required"`
	Brands    []string `form:"brand"`
	SortBy    string   `form:"sortby"`
	Ascending *bool    `form:"ascending"`
}

type trendsQuery struct {
	Latitude  *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `form:"lng" binding:"required,gte=-180,lte=180"`
	FuelTypes string   `form:"fueltype" binding:"required"`
}

func StationPrices(client internal.FuelCheckClient) func(c *gin.Context) {
	return func(c *gin.Context) {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil || code <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid station code"})
			return
		}

		prices, err := client.GetFuelPricesForStation(c.Request.Context(), code)
		if err != nil {
			upstreamFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"prices":      prices,
			"attribution": internal.ATTRIBUTION,
		})
	}
}

func Nearby(client internal.FuelCheckClient) func(c *gin.Context) {
	return func(c *gin.Context) {
		var query nearbyQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		results, err := client.GetFuelPricesWithinRadius(c.Request.Context(), models.NearbyRequest{
			FuelType:      query.FuelType,
			Latitude:      *query.Latitude,
			Longitude:     *query.Longitude,
			Radius:        query.Radius,
			Brands:        splitList(query.Brands...),
			SortBy:        query.SortBy,
			SortAscending: query.Ascending,
		})
		if err != nil {
			upstreamFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"results":     results,
			"attribution": internal.ATTRIBUTION,
		})
	}
}

func Trends(client internal.FuelCheckClient) func(c *gin.Context) {
	return func(c *gin.Context) {
		var query trendsQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		trends, err := client.GetFuelPriceTrends(c.Request.Context(), models.TrendsRequest{
			Latitude:  *query.Latitude,
			Longitude: *query.Longitude,
			FuelTypes: splitList(query.FuelTypes),
		})
		if err != nil {
			upstreamFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"variances":      trends.Variances,
			"average_prices": trends.AveragePrices,
			"attribution":    internal.ATTRIBUTION,
		})
	}
}

// ReferenceData accepts an optional RFC 3339 "since" parameter; without one
// the full reference data is returned.
func ReferenceData(client internal.FuelCheckClient) func(c *gin.Context) {
	return func(c *gin.Context) {
		var since *time.Time
		if s := c.Query("since"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since parameter, expected RFC 3339"})
				return
			}
			since = &t
		}

		resp, err := client.GetReferenceData(c.Request.Context(), since)
		if err != nil {
			upstreamFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// splitList flattens repeated and comma-separated values, dropping blanks.
func splitList(values ...string) []string {
	items := make([]string, 0, len(values))
	for _, value := range values {
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}
