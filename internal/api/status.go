package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"regionaldash/internal/model"
	"regionaldash/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized bool               `json:"initialized"` // 是否已有数据
	Stats       store.Stats        `json:"stats"`
	Defaults    model.UserDefaults `json:"defaults"`
	LastImport  *store.ImportLog   `json:"lastImport,omitempty"`
	Reports     int                `json:"reports"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	if h.store == nil {
		h.writeError(c, errNoStore)
		return
	}
	ctx := c.Request.Context()

	stats, err := h.store.GetStats(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}

	env, err := h.Environment(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := StatusResponse{
		Initialized: stats.SalesPersons > 0,
		Stats:       stats,
		Defaults:    env.Defaults,
		Reports:     len(h.registry.Definitions()),
	}

	last, err := h.store.LastImportLog(ctx)
	switch {
	case err == nil:
		resp.LastImport = last
	case !errors.Is(err, store.ErrNotFound):
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
