package api

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"regionaldash/internal/exporter"
	"regionaldash/internal/importer"
	"regionaldash/internal/model"
	"regionaldash/internal/report"
	"regionaldash/internal/service/achievement"
	"regionaldash/internal/store"
)

// DownloadTTL 导出文件下载链接有效期
const DownloadTTL = 10 * time.Minute

// Options 处理器依赖
type Options struct {
	Registry *report.Registry
	Store    *store.Store
	Importer *importer.Importer
	Exporter *exporter.Exporter
	Logger   *log.Logger
	// Defaults 配置文件中的默认公司 / 财年，优先于数据库中的默认值
	Defaults model.UserDefaults
	// ExportDir 导出文件临时目录，为空时使用系统临时目录
	ExportDir string
	// UploadDir 上传文件暂存目录，为空时使用系统临时目录
	UploadDir string
	Now       func() time.Time
}

// Handler API 处理器
type Handler struct {
	registry  *report.Registry
	store     *store.Store
	importer  *importer.Importer
	exporter  *exporter.Exporter
	logger    *log.Logger
	defaults  model.UserDefaults
	exportDir string
	uploadDir string
	now       func() time.Time
	downloads *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(opts Options) *Handler {
	h := &Handler{
		registry:  opts.Registry,
		store:     opts.Store,
		importer:  opts.Importer,
		exporter:  opts.Exporter,
		logger:    opts.Logger,
		defaults:  opts.Defaults,
		exportDir: opts.ExportDir,
		uploadDir: opts.UploadDir,
		now:       opts.Now,
		downloads: newExportDownloadStore(),
	}
	if h.logger == nil {
		h.logger = log.Default()
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.exportDir == "" {
		h.exportDir = os.TempDir()
	}
	if h.uploadDir == "" {
		h.uploadDir = os.TempDir()
	}
	if h.importer == nil && h.store != nil {
		h.importer = importer.New(h.store, h.logger)
	}
	if h.exporter == nil {
		h.exporter = exporter.New(nil, "")
	}
	return h
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 报表
	router.GET("/reports", h.ListReports)
	router.GET("/reports/:name/filters", h.GetFilters)
	router.POST("/reports/:name/run", h.RunReport)
	router.POST("/reports/:name/format", h.FormatCell)

	// 数据导出
	router.POST("/reports/:name/export", h.ExportReport)
	router.GET("/export/download/:token", h.DownloadExport)

	// 数据导入
	router.POST("/import", h.Import)
}

// Environment 当前请求的过滤条件环境
func (h *Handler) Environment(ctx context.Context) (report.Environment, error) {
	var src achievement.DefaultsSource
	if h.store != nil {
		src = h.store
	}
	return achievement.Environment(ctx, src, h.now(), h.defaults)
}
