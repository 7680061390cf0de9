package api

import (
	"encoding/json"
	"fmt"

	"InvenPulse/internal/domain/models"
	xhttp "InvenPulse/pkg/http"

	"github.com/labstack/echo/v4"
)

// Full sweeps are quadratic; one token per minute keeps concurrent callers
// from stampeding the store.
const (
	sweepLimitKey       = "correlations:sweep"
	sweepLimitCapacity  = 1.0
	sweepRefillPerSec   = 1.0 / 60.0
	sweepRateLimitedMsg = "a correlation sweep was started recently, try again later"
)

func (h *AnalyticsHandler) RecalculateCorrelations(c echo.Context) error {
	if !h.limiter.Allow(sweepLimitKey, sweepLimitCapacity, sweepRefillPerSec) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError(sweepRateLimitedMsg))
	}

	res, err := h.correlations.RecalculateAll(c.Request().Context())
	if err != nil {
		return h.respondError(c, "correlation sweep", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) RecalculateItemCorrelations(c echo.Context) error {
	res, err := h.correlations.RecalculateForItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondError(c, "item correlations", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) ForceCorrelations(c echo.Context) error {
	if !h.limiter.Allow(sweepLimitKey, sweepLimitCapacity, sweepRefillPerSec) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError(sweepRateLimitedMsg))
	}

	res, err := h.correlations.ForceFullRecalculation(c.Request().Context())
	if err != nil {
		return h.respondError(c, "forced correlation rebuild", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) Recommendations(c echo.Context) error {
	req := &models.RecommendationsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	itemID := c.Param("id")

	key := fmt.Sprintf("recommendations:%s:%d", itemID, req.Limit)
	if b, ok, err := h.cache.GetBytes(key); err == nil && ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}

	res, err := h.correlations.Recommendations(c.Request().Context(), itemID, req.Limit)
	if err != nil {
		return h.respondError(c, "recommendations", err)
	}

	if b, err := json.Marshal(res); err == nil {
		_ = h.cache.SetBytes(key, b, h.recommendationTTL)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}
