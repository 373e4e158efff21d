package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"regionaldash/internal/importer"
	"regionaldash/internal/report"
	"regionaldash/internal/store"
)

// errNoStore 未配置数据库，状态与导入接口不可用
var errNoStore = errors.New("store not configured")

// writeError 按错误类型映射状态码，响应体统一为 {"error": "..."}
func (h *Handler) writeError(c *gin.Context, err error) {
	var ferr *report.FilterError
	var perr *importer.ParseError

	switch {
	case errors.As(err, &ferr):
		body := gin.H{"error": ferr.Error()}
		if len(ferr.Missing) > 0 {
			body["missing"] = ferr.Missing
		}
		if len(ferr.Invalid) > 0 {
			body["invalid"] = ferr.Invalid
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &perr):
		c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error(), "rows": perr.Rows})
	case errors.Is(err, report.ErrUnknownReport), errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, importer.ErrNoKnownSheets),
		errors.Is(err, report.ErrMissingFilter),
		errors.Is(err, report.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errNoStore):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
