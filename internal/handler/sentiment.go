package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blockchainspace/internal/service"
)

type SentimentHandler struct {
	Service *service.SentimentService
	Logger  *zap.Logger
}

func (h *SentimentHandler) Register(r *gin.Engine) {
	r.GET("/api/sentiment", h.lookup)
	r.POST("/api/sentiment/batch", h.batch)
}

type sentimentUnavailable struct {
	Error   string `json:"error"`
	Bullish int    `json:"bullish"`
	Bearish int    `json:"bearish"`
}

// @Summary Community sentiment for one symbol
// @Tags sentiment
// @Param symbol query string true "asset symbol"
// @Param priceChange24h query number false "24h price change used when no votes exist"
// @Success 200 {object} service.Sentiment
// @Failure 400 {object} errorBody
// @Router /api/sentiment [get]
func (h *SentimentHandler) lookup(c *gin.Context) {
	symbol := c.Query("symbol")
	res, err := h.Service.Lookup(c.Request.Context(), symbol, floatQuery(c, "priceChange24h", 0))
	if err != nil {
		if errors.Is(err, service.ErrSymbolRequired) {
			Fail(c, http.StatusBadRequest, "Symbol parameter is required")
			return
		}
		if h.Logger != nil {
			h.Logger.Debug("sentiment unavailable", zap.String("symbol", symbol), zap.Error(err))
		}
		c.JSON(http.StatusOK, sentimentUnavailable{Error: "Info unavailable"})
		return
	}
	c.JSON(http.StatusOK, res)
}

type sentimentBatchRequest struct {
	Items []service.SentimentQuery `json:"items"`
}

// @Summary Community sentiment for several symbols
// @Tags sentiment
// @Accept json
// @Param body body sentimentBatchRequest true "symbols keyed by caller id"
// @Success 200 {object} map[string]service.Sentiment
// @Failure 400 {object} errorBody
// @Router /api/sentiment/batch [post]
func (h *SentimentHandler) batch(c *gin.Context) {
	var req sentimentBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	out, err := h.Service.LookupMany(c.Request.Context(), req.Items)
	if err != nil {
		if errors.Is(err, service.ErrBatchTooLarge) {
			Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		Fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	c.JSON(http.StatusOK, out)
}
