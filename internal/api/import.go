package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"regionaldash/internal/importer"
)

// Import 上传 xlsx 工作簿并导入
// POST /api/import (multipart: file, clearExisting)
func (h *Handler) Import(c *gin.Context) {
	if h.importer == nil {
		h.writeError(c, errNoStore)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	// 暂存到上传目录，导入结束后删除
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		h.writeError(c, fmt.Errorf("create upload dir: %w", err))
		return
	}
	tempPath := filepath.Join(h.uploadDir, fmt.Sprintf("regionaldash_import_%s%s", uuid.NewString(), filepath.Ext(fh.Filename)))
	if err := c.SaveUploadedFile(fh, tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	defer os.Remove(tempPath)

	f, err := os.Open(tempPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法读取上传文件"})
		return
	}
	defer f.Close()

	res, err := h.importer.Import(c.Request.Context(), f, importer.Options{
		Filename:      fh.Filename,
		FileSize:      fh.Size,
		ClearExisting: c.DefaultPostForm("clearExisting", "false") == "true",
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
