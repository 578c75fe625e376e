package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blockchainspace/internal/service"
)

type ChartHandler struct {
	Service *service.OHLCService
	Logger  *zap.Logger
}

func (h *ChartHandler) Register(r *gin.Engine) {
	r.POST("/api/graph", h.chart)
}

type chartRequest struct {
	Identifier string `json:"identifier"`
	// GeckoID is the dashboard's older field name.
	GeckoID string `json:"geckoId"`
}

type chartResponse struct {
	Chart []service.Bar `json:"chart"`
}

// @Summary Daily OHLC bars for one asset
// @Tags chart
// @Accept json
// @Produce json
// @Param body body chartRequest true "asset identifier"
// @Success 200 {object} chartResponse
// @Failure 400 {object} errorBody
// @Failure 500 {object} errorBody
// @Router /api/graph [post]
func (h *ChartHandler) chart(c *gin.Context) {
	var req chartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Missing identifier")
		return
	}
	id := strings.TrimSpace(req.Identifier)
	if id == "" {
		id = strings.TrimSpace(req.GeckoID)
	}
	bars, err := h.Service.Chart(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrIdentifierRequired) {
			Fail(c, http.StatusBadRequest, "Missing identifier")
			return
		}
		if h.Logger != nil {
			h.Logger.Warn("price chart failed", zap.String("identifier", id), zap.Error(err))
		}
		Fail(c, http.StatusInternalServerError, "Failed to fetch price chart")
		return
	}
	if bars == nil {
		bars = []service.Bar{}
	}
	c.JSON(http.StatusOK, chartResponse{Chart: bars})
}
