package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"regionaldash/internal/api"
	"regionaldash/internal/render"
	"regionaldash/internal/report"
)

// Options 服务器依赖
type Options struct {
	API      *api.Handler
	Registry *report.Registry
	Renderer *render.Renderer
	Logger   *log.Logger
	DevMode  bool
}

// Server HTTP服务器
type Server struct {
	router   *gin.Engine
	api      *api.Handler
	registry *report.Registry
	renderer *render.Renderer
	logger   *log.Logger

	mu      sync.Mutex
	httpSrv *http.Server
}

// NewServer 创建服务器
func NewServer(opts Options) *Server {
	if !opts.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.New(nil)
	}

	s := &Server{
		router:   gin.New(),
		api:      opts.API,
		registry: opts.Registry,
		renderer: renderer,
		logger:   logger,
	}
	s.setupRoutes()
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), requestLogger(s.logger))

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	group := s.router.Group("/api")
	{
		s.api.RegisterRoutes(group)
	}

	s.router.GET("/reports/:name", s.reportPage)
	s.router.GET("/", func(c *gin.Context) {
		defs := s.registry.Definitions()
		if len(defs) == 0 {
			c.String(http.StatusNotFound, "no reports registered")
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, "/reports/"+defs[0].Slug())
	})
}

// reportPage 服务端渲染报表页面。查询参数即过滤值，缺失项取默认值。
// GET /reports/:name?company=...&fiscal_year=...&from_date=...&to_date=...
func (s *Server) reportPage(c *gin.Context) {
	def, err := s.registry.Lookup(c.Param("name"))
	if err != nil {
		c.String(http.StatusNotFound, err.Error())
		return
	}

	ctx := c.Request.Context()
	env, err := s.api.Environment(ctx)
	if err != nil {
		s.pageError(c, http.StatusInternalServerError, err)
		return
	}

	raw := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}

	decls := def.Filters(env)
	filters, err := report.ResolveFilters(decls, raw, true)
	if err != nil {
		s.pageError(c, http.StatusBadRequest, err)
		return
	}

	res, err := def.Run(ctx, filters)
	if err != nil {
		s.pageError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := s.renderer.HTML(c.Writer, res, render.Options{Filters: decls, Summary: def.SummaryRow(res.Rows)}); err != nil {
		s.logger.Error("render report page failed", "report", def.Name, "err", err)
	}
}

func (s *Server) pageError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("report page failed", "path", c.Request.URL.Path, "err", err)
	}
	c.String(status, err.Error())
}

// requestLogger 请求日志中间件
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).Round(time.Microsecond),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", kv...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", kv...)
		default:
			logger.Debug("request", kv...)
		}
	}
}

// Handler 返回 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，阻塞直到关闭
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	s.logger.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
