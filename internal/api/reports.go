package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"regionaldash/internal/report"
)

type reportInfo struct {
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	RefDocType string          `json:"refDocType"`
	Columns    []report.Column `json:"columns"`
}

// ListReports 已注册的报表
// GET /api/reports
func (h *Handler) ListReports(c *gin.Context) {
	defs := h.registry.Definitions()
	items := make([]reportInfo, 0, len(defs))
	for _, d := range defs {
		items = append(items, reportInfo{Name: d.Name, Slug: d.Slug(), RefDocType: d.RefDocType, Columns: d.Columns})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetFilters 过滤条件声明（含按当前日期和用户默认值计算的默认值）
// GET /api/reports/:name/filters
func (h *Handler) GetFilters(c *gin.Context) {
	def, err := h.registry.Lookup(c.Param("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	env, err := h.Environment(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": def.Name, "filters": def.Filters(env)})
}

// RunRequest 执行报表请求
type RunRequest struct {
	Filters map[string]string `json:"filters"`
	// ApplyDefaults 为 true 时缺失的过滤值取声明中的默认值
	ApplyDefaults bool `json:"applyDefaults"`
	// Summary 为 true 时附加合计行
	Summary bool `json:"summary"`
}

// RunResponse 执行结果：原始值与格式化后的展示值
type RunResponse struct {
	*report.Result
	Formatted []map[string]string `json:"formatted"`
	Summary   report.Row          `json:"summary,omitempty"`
}

func (h *Handler) run(c *gin.Context) (*report.Definition, *report.Result, report.Row, bool) {
	def, err := h.registry.Lookup(c.Param("name"))
	if err != nil {
		h.writeError(c, err)
		return nil, nil, nil, false
	}

	var req RunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
			return nil, nil, nil, false
		}
	}

	ctx := c.Request.Context()
	env, err := h.Environment(ctx)
	if err != nil {
		h.writeError(c, err)
		return nil, nil, nil, false
	}
	filters, err := def.Resolve(env, req.Filters, req.ApplyDefaults)
	if err != nil {
		h.writeError(c, err)
		return nil, nil, nil, false
	}

	res, err := def.Run(ctx, filters)
	if err != nil {
		h.writeError(c, err)
		return nil, nil, nil, false
	}

	var summary report.Row
	if req.Summary {
		summary = def.SummaryRow(res.Rows)
	}
	h.logger.Info("report executed", "report", def.Name, "rows", len(res.Rows), "company", filters[report.FilterCompany])
	return def, res, summary, true
}

// RunReport 执行报表
// POST /api/reports/:name/run
func (h *Handler) RunReport(c *gin.Context) {
	def, res, summary, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, RunResponse{
		Result:    res,
		Formatted: res.Formatted(def.Formatter),
		Summary:   summary,
	})
}

// FormatRequest 单元格格式化请求
type FormatRequest struct {
	FieldName string           `json:"fieldname" binding:"required"`
	Value     report.CellValue `json:"value"`
	Row       report.Row       `json:"row"`
}

// FormatCell 格式化单个单元格；未知列原样返回
// POST /api/reports/:name/format
func (h *Handler) FormatCell(c *gin.Context) {
	def, err := h.registry.Lookup(c.Param("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	var req FormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}

	col, ok := def.Column(req.FieldName)
	if !ok {
		col = report.Column{FieldName: req.FieldName, FieldType: report.FieldData}
	}
	c.JSON(http.StatusOK, gin.H{
		"fieldname": req.FieldName,
		"value":     req.Value,
		"formatted": def.Formatter.Format(req.Value, col, req.Row),
	})
}
