package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blockchainspace/internal/service"
)

type SettingsHandler struct {
	Settings *service.SystemSettingsService
	Admin    gin.HandlerFunc
}

func (h *SettingsHandler) Register(r *gin.Engine) {
	admin := h.Admin
	if admin == nil {
		admin = func(c *gin.Context) { c.Next() }
	}
	g := r.Group("/api/v1/system-settings")
	g.GET("/switches", h.listSwitches)
	g.GET("/switches/:name", h.getSwitch)
	g.PUT("/switches/:name", admin, h.putSwitch)
}

// @Summary List feature switches
// @Tags settings
// @Success 200 {object} apiResponse
// @Router /api/v1/system-settings/switches [get]
func (h *SettingsHandler) listSwitches(c *gin.Context) {
	items, err := h.Settings.ListSwitches(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(len(items), 0, int64(len(items))))
}

// @Summary Get one feature switch
// @Tags settings
// @Param name path string true "switch name"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/system-settings/switches/{name} [get]
func (h *SettingsHandler) getSwitch(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if !service.IsKnownSwitch(name) {
		Error(c, http.StatusNotFound, "unknown switch", nil)
		return
	}
	key := service.SwitchKey(name)
	def := service.DefaultFeatureSwitches()[key]
	Ok(c, service.FeatureSwitch{
		Name:    strings.TrimPrefix(key, "feature."),
		Key:     key,
		Enabled: h.Settings.IsEnabled(c.Request.Context(), key, def),
	}, nil)
}

type putSwitchRequest struct {
	Enabled *bool `json:"enabled"`
}

// @Summary Turn a feature switch on or off
// @Tags settings
// @Security BearerAuth
// @Param name path string true "switch name"
// @Param body body putSwitchRequest true "new state"
// @Success 200 {object} apiResponse
// @Router /api/v1/system-settings/switches/{name} [put]
func (h *SettingsHandler) putSwitch(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if !service.IsKnownSwitch(name) {
		Error(c, http.StatusNotFound, "unknown switch", nil)
		return
	}
	var req putSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	key := service.SwitchKey(name)
	if err := h.Settings.SetEnabled(c.Request.Context(), key, *req.Enabled); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, service.FeatureSwitch{
		Name:    strings.TrimPrefix(key, "feature."),
		Key:     key,
		Enabled: *req.Enabled,
	}, nil)
}
