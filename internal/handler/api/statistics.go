package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"InvenPulse/internal/domain/models"
	"InvenPulse/internal/service/cache"
	"InvenPulse/internal/service/ratelimit"
	"InvenPulse/internal/usecase"
	xhttp "InvenPulse/pkg/http"
	xlogger "InvenPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandler exposes the engine over HTTP.
type AnalyticsHandler struct {
	logger       *xlogger.Logger
	stats        *usecase.StatisticsUsecase
	correlations *usecase.CorrelationUsecase
	cache        cache.BytesCache
	limiter      *ratelimit.Limiter

	dashboardTTL      time.Duration
	recommendationTTL time.Duration
}

func NewAnalyticsHandler(
	lgr *xlogger.Logger,
	stats *usecase.StatisticsUsecase,
	correlations *usecase.CorrelationUsecase,
	bytesCache cache.BytesCache,
	limiter *ratelimit.Limiter,
	dashboardTTL, recommendationTTL time.Duration,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		logger:            lgr,
		stats:             stats,
		correlations:      correlations,
		cache:             bytesCache,
		limiter:           limiter,
		dashboardTTL:      dashboardTTL,
		recommendationTTL: recommendationTTL,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/items/:id/statistics", h.ItemStatistics)
	g.GET("/categories/:id/statistics", h.CategoryStatistics)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/items/:id/recommendations", h.Recommendations)

	g.POST("/statistics/recalculate", h.RecalculateStatistics)
	g.POST("/statistics/recalculate/items", h.RecalculateItems)

	g.POST("/correlations/recalculate", h.RecalculateCorrelations)
	g.POST("/correlations/recalculate/:id", h.RecalculateItemCorrelations)
	g.POST("/correlations/force", h.ForceCorrelations)
}

// notFound maps usecase sentinels onto 404s; everything else stays a 500.
func (h *AnalyticsHandler) respondError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrItemNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("item not found"))
	case errors.Is(err, usecase.ErrCategoryNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("category not found"))
	default:
		h.logger.Error(op+" failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}

func (h *AnalyticsHandler) ItemStatistics(c echo.Context) error {
	req := &models.WindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.stats.ComputeItemStatistics(c.Request().Context(), c.Param("id"), req.Window)
	if err != nil {
		return h.respondError(c, "item statistics", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) CategoryStatistics(c echo.Context) error {
	req := &models.WindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.stats.ComputeCategoryStatistics(c.Request().Context(), c.Param("id"), req.Window)
	if err != nil {
		return h.respondError(c, "category statistics", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	req := &models.WindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("dashboard:%d", req.Window)
	if b, ok, err := h.cache.GetBytes(key); err == nil && ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}

	res, err := h.stats.ComputeDashboardStatistics(c.Request().Context(), req.Window)
	if err != nil {
		return h.respondError(c, "dashboard", err)
	}

	if b, err := json.Marshal(res); err == nil {
		_ = h.cache.SetBytes(key, b, h.dashboardTTL)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) RecalculateStatistics(c echo.Context) error {
	req := &models.WindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.stats.RecalculateAll(c.Request().Context(), req.Window)
	if err != nil {
		return h.respondError(c, "statistics recalculation", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) RecalculateItems(c echo.Context) error {
	req := &models.RecalculateItemsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.stats.RecalculateItems(c.Request().Context(), req.IDs, req.Window)
	if err != nil {
		return h.respondError(c, "item recalculation", err)
	}
	return xhttp.SuccessResponse(c, res)
}
