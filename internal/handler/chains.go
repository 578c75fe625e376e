package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blockchainspace/internal/service"
)

const (
	msgDSNMissing  = "Database connection string not configured"
	msgLoadFailed  = "Failed to load blockchain data"
	msgSaveFailed  = "Failed to save blockchain data"
	msgInvalidData = "Blockchain data must be an array of objects"
	msgFetchFailed = "Failed to fetch data"
)

type ChainsHandler struct {
	Store   *service.ChainStore
	Source  service.ChainSource
	Query   *service.ChainQueryService
	Refresh *service.ChainRefreshService
	// Admin guards the write routes. Nil leaves them open.
	Admin  gin.HandlerFunc
	Logger *zap.Logger
}

func (h *ChainsHandler) Register(r *gin.Engine) {
	admin := h.Admin
	if admin == nil {
		admin = func(c *gin.Context) { c.Next() }
	}

	r.GET("/api/blockchain-data", h.loadAggregate)
	r.POST("/api/save-blockchain-data", admin, h.saveAggregate)
	r.GET("/api/chains", h.liveChains)

	v1 := r.Group("/api/v1")
	v1.GET("/chains", h.listChains)
	v1.GET("/chains/:geckoId", h.getChain)
	v1.POST("/chains/refresh", admin, h.refresh)
	v1.GET("/sync-state", h.syncState)
}

// @Summary Stored chain aggregate
// @Tags chains
// @Produce json
// @Success 200 {array} chains.Chain
// @Failure 500 {object} errorBody
// @Router /api/blockchain-data [get]
func (h *ChainsHandler) loadAggregate(c *gin.Context) {
	raw, err := h.Store.Load(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrStoreNotConfigured) {
			Fail(c, http.StatusInternalServerError, msgDSNMissing)
			return
		}
		h.warn("load aggregate failed", err)
		Fail(c, http.StatusInternalServerError, msgLoadFailed)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// @Summary Replace the stored chain aggregate
// @Tags chains
// @Accept json
// @Produce json
// @Param body body []chains.Chain true "chain aggregate"
// @Success 200 {object} service.SaveResult
// @Failure 400 {object} errorBody
// @Failure 500 {object} errorBody
// @Router /api/save-blockchain-data [post]
func (h *ChainsHandler) saveAggregate(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		Fail(c, http.StatusBadRequest, msgInvalidData)
		return
	}
	res, err := h.Store.Save(c.Request.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPayload):
			Fail(c, http.StatusBadRequest, msgInvalidData)
		case errors.Is(err, service.ErrStoreNotConfigured):
			Fail(c, http.StatusInternalServerError, msgDSNMissing)
		default:
			h.warn("save aggregate failed", err)
			Fail(c, http.StatusInternalServerError, msgSaveFailed)
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Build the chain aggregate from live sources
// @Tags chains
// @Produce json
// @Success 200 {array} chains.Chain
// @Failure 502 {object} errorBody
// @Router /api/chains [get]
func (h *ChainsHandler) liveChains(c *gin.Context) {
	if h.Source == nil {
		Fail(c, http.StatusInternalServerError, "chain source unavailable")
		return
	}
	items, err := h.Source.GetChains(c.Request.Context())
	if err != nil {
		h.warn("live chain fetch failed", err)
		Fail(c, http.StatusBadGateway, msgFetchFailed)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Query the stored chain aggregate
// @Tags chains
// @Param search query string false "substring of name or symbol"
// @Param speed query string false "fast|slow"
// @Param performance query string false "high-tps"
// @Param sort_by query string false "tps|tvl|marketcap|price|volume|supply"
// @Param sort_order query string false "asc|desc"
// @Param count query int false "max items (default 50)"
// @Success 200 {object} apiResponse
// @Router /api/v1/chains [get]
func (h *ChainsHandler) listChains(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "query service unavailable", nil)
		return
	}
	filter := service.ChainFilter{
		Search:      c.Query("search"),
		Speed:       c.Query("speed"),
		Performance: c.Query("performance"),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
		Count:       intQuery(c, "count", service.DefaultChainQueryCount),
	}
	res, err := h.Query.List(c.Request.Context(), filter)
	if err != nil {
		h.storeError(c, err)
		return
	}
	Ok(c, res.Items, map[string]any{
		"total": res.Total,
		"count": len(res.Items),
	})
}

// @Summary One stored chain by price source id
// @Tags chains
// @Param geckoId path string true "price source id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/chains/{geckoId} [get]
func (h *ChainsHandler) getChain(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "query service unavailable", nil)
		return
	}
	item, err := h.Query.Find(c.Request.Context(), c.Param("geckoId"))
	if err != nil {
		if errors.Is(err, service.ErrIdentifierRequired) {
			Error(c, http.StatusBadRequest, "invalid gecko id", nil)
			return
		}
		h.storeError(c, err)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "chain not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Rebuild and store the chain aggregate
// @Tags chains
// @Security BearerAuth
// @Success 200 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Failure 502 {object} apiResponse
// @Router /api/v1/chains/refresh [post]
func (h *ChainsHandler) refresh(c *gin.Context) {
	if h.Refresh == nil {
		Error(c, http.StatusInternalServerError, "refresh service unavailable", nil)
		return
	}
	res, err := h.Refresh.Refresh(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshInProgress):
			Error(c, http.StatusConflict, err.Error(), nil)
		case errors.Is(err, service.ErrStoreNotConfigured):
			Error(c, http.StatusInternalServerError, msgDSNMissing, nil)
		default:
			Error(c, http.StatusBadGateway, err.Error(), nil)
		}
		return
	}
	Ok(c, res, nil)
}

// @Summary Sync state per refresh scope
// @Tags chains
// @Param scope query string false "single scope, e.g. chains"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/sync-state [get]
func (h *ChainsHandler) syncState(c *gin.Context) {
	if h.Refresh == nil {
		Error(c, http.StatusInternalServerError, "refresh service unavailable", nil)
		return
	}
	states, err := h.Refresh.ListStates(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}
	scope := strings.TrimSpace(c.Query("scope"))
	if scope == "" {
		Ok(c, states, gin.H{"total": len(states)})
		return
	}
	for _, st := range states {
		if st.Scope == scope {
			Ok(c, st, nil)
			return
		}
	}
	Error(c, http.StatusNotFound, "no sync recorded for scope", nil)
}

func (h *ChainsHandler) storeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrStoreNotConfigured) {
		Error(c, http.StatusInternalServerError, msgDSNMissing, nil)
		return
	}
	h.warn("chain store read failed", err)
	Error(c, http.StatusBadGateway, strings.TrimSpace(err.Error()), nil)
}

func (h *ChainsHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
