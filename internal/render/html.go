package render

import (
	"embed"
	"html/template"
	"io"

	"regionaldash/internal/report"
)

//go:embed templates/report.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

// Options 渲染选项
type Options struct {
	// Filters 用于展示过滤条件的标签；为空时按字段名展示
	Filters []report.Filter
	// Summary 不为空时作为合计行
	Summary report.Row
}

// Renderer 将报表结果渲染为 HTML 页面或终端表格
type Renderer struct {
	cells *report.PercentFormatter
}

// New 创建渲染器；cells 为 nil 时使用默认达成率格式化器
func New(cells *report.PercentFormatter) *Renderer {
	if cells == nil {
		cells = report.NewPercentFormatter(nil)
	}
	return &Renderer{cells: cells}
}

type filterView struct {
	Label string
	Value string
}

type cellView struct {
	Content any
	Numeric bool
}

type rowView struct {
	Cells []cellView
	Total bool
}

type pageView struct {
	Title   string
	Filters []filterView
	Headers []string
	Rows    []rowView
}

// HTML 输出完整页面。达成率列使用格式化器生成的 span，其余列由模板转义。
func (r *Renderer) HTML(w io.Writer, res *report.Result, opts Options) error {
	return pageTemplate.Execute(w, r.page(res, opts))
}

func (r *Renderer) page(res *report.Result, opts Options) pageView {
	p := pageView{Title: res.Report}

	for _, f := range opts.Filters {
		if v, ok := res.Filters[f.FieldName]; ok {
			p.Filters = append(p.Filters, filterView{Label: f.Label, Value: v})
		}
	}
	if len(opts.Filters) == 0 {
		for _, name := range []string{report.FilterCompany, report.FilterFiscalYear, report.FilterFromDate, report.FilterToDate} {
			if v, ok := res.Filters[name]; ok {
				p.Filters = append(p.Filters, filterView{Label: name, Value: v})
			}
		}
	}

	for _, col := range res.Columns {
		p.Headers = append(p.Headers, col.Label)
	}

	rows := res.Rows
	if opts.Summary != nil {
		rows = append(append([]report.Row{}, res.Rows...), opts.Summary)
	}
	for i, row := range rows {
		rv := rowView{Total: opts.Summary != nil && i == len(rows)-1}
		for _, col := range res.Columns {
			rv.Cells = append(rv.Cells, cellView{
				Content: r.htmlCell(row, col),
				Numeric: col.IsNumeric(),
			})
		}
		p.Rows = append(p.Rows, rv)
	}
	return p
}

func (r *Renderer) htmlCell(row report.Row, col report.Column) any {
	v := row.Get(col.FieldName)
	if r.cells.Applies(col) {
		// 格式化器已对文本做过转义
		return template.HTML(r.cells.Format(v, col, row))
	}
	return r.cells.Base().FormatValue(v, col)
}
