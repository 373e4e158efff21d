package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"regionaldash/internal/exporter"
	"regionaldash/internal/report"
)

type exportProgressEvent struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// ExportReport 执行报表并导出 Excel，返回一次性下载地址。
// 查询参数 stream=true 时以 SSE 推送进度。
// POST /api/reports/:name/export
func (h *Handler) ExportReport(c *gin.Context) {
	_, res, summary, ok := h.run(c)
	if !ok {
		return
	}

	if c.Query("stream") != "true" {
		token, err := h.exportToFile(res, summary, nil)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "downloadUrl": downloadURL(token)})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	send := func(event exportProgressEvent) {
		event.Timestamp = time.Now()
		if event.Data == nil {
			event.Data = map[string]any{}
		}
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(exportProgressEvent{Type: "start", Message: "开始导出", Data: map[string]any{"rows": len(res.Rows)}})

	lastPercent := -1
	token, err := h.exportToFile(res, summary, func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(exportProgressEvent{Type: "progress", Message: p.Stage, Data: map[string]any{"percent": p.Percent}})
	})
	if err != nil {
		send(exportProgressEvent{Type: "error", Message: "导出失败: " + err.Error()})
		return
	}

	send(exportProgressEvent{
		Type:    "done",
		Message: "导出完成",
		Data:    map[string]any{"percent": 100, "downloadUrl": downloadURL(token)},
	})
}

func (h *Handler) exportToFile(res *report.Result, summary report.Row, progress func(exporter.ProgressEvent)) (string, error) {
	file, err := h.exporter.Export(res, exporter.Options{Summary: summary, Progress: progress})
	if err != nil {
		return "", err
	}
	defer file.Close()

	path := filepath.Join(h.exportDir, fmt.Sprintf("regionaldash_export_%s.xlsx", uuid.NewString()))
	if err := file.SaveAs(path); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("写入导出文件失败: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.xlsx", report.Slugify(res.Report), h.now().Format("20060102"))
	return h.downloads.put(path, filename, DownloadTTL), nil
}

func downloadURL(token string) string {
	return "/api/export/download/" + token
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}
	defer os.Remove(item.filePath)

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.FileAttachment(item.filePath, item.filename)
}
