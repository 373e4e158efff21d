package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrUnknownReport = errors.New("unknown report")

// Executor 执行报表查询，返回按列字段名组织的行
type Executor interface {
	Execute(ctx context.Context, filters FilterValues) ([]Row, error)
}

// Definition 报表定义：过滤条件声明 + 列 + 单元格格式化 + 查询执行
type Definition struct {
	Name       string
	RefDocType string
	Filters    func(env Environment) []Filter
	Columns    []Column
	Formatter  CellFormatter
	Executor   Executor
	// Summary 可选，生成合计行
	Summary    func(rows []Row) Row
}

// Slug URL 中使用的报表标识
func (d *Definition) Slug() string {
	return Slugify(d.Name)
}

// Resolve 用环境生成过滤声明并校验原始值
func (d *Definition) Resolve(env Environment, raw map[string]string, applyDefaults bool) (FilterValues, error) {
	return ResolveFilters(d.Filters(env), raw, applyDefaults)
}

// Run 执行报表。filters 必须已经过 Resolve 校验。
func (d *Definition) Run(ctx context.Context, filters FilterValues) (*Result, error) {
	if d.Executor == nil {
		return nil, fmt.Errorf("report %q has no executor", d.Name)
	}
	rows, err := d.Executor.Execute(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", d.Name, err)
	}
	if rows == nil {
		rows = []Row{}
	}
	return &Result{
		Report:  d.Name,
		Filters: filters,
		Columns: d.Columns,
		Rows:    rows,
	}, nil
}

// Result 报表执行结果（原始值）
type Result struct {
	Report  string       `json:"report"`
	Filters FilterValues `json:"filters"`
	Columns []Column     `json:"columns"`
	Rows    []Row        `json:"rows"`
}

// Formatted 用格式化器渲染所有单元格
func (r *Result) Formatted(f CellFormatter) []map[string]string {
	out := make([]map[string]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		m := make(map[string]string, len(r.Columns))
		for _, col := range r.Columns {
			m[col.FieldName] = f.Format(row.Get(col.FieldName), col, row)
		}
		out = append(out, m)
	}
	return out
}

// SummaryRow 合计行；未配置 Summary 时为 nil
func (d *Definition) SummaryRow(rows []Row) Row {
	if d.Summary == nil {
		return nil
	}
	return d.Summary(rows)
}

// Column 按字段名查找列
func (d *Definition) Column(field string) (Column, bool) {
	for _, c := range d.Columns {
		if c.FieldName == field {
			return c, true
		}
	}
	return Column{}, false
}

// Registry 报表注册表。启动时显式构建并注入到宿主。
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*Definition
	order []string
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register 注册报表；名称重复时报错
func (r *Registry) Register(def *Definition) error {
	if def == nil || strings.TrimSpace(def.Name) == "" {
		return errors.New("report definition requires a name")
	}
	if def.Filters == nil {
		return fmt.Errorf("report %q has no filter declaration", def.Name)
	}
	if def.Formatter == nil {
		return fmt.Errorf("report %q has no formatter", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	slug := def.Slug()
	if _, ok := r.defs[slug]; ok {
		return fmt.Errorf("report %q already registered", def.Name)
	}
	r.defs[slug] = def
	r.order = append(r.order, slug)
	return nil
}

// Lookup 按名称或 slug 查找报表
func (r *Registry) Lookup(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if def, ok := r.defs[Slugify(name)]; ok {
		return def, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownReport, name)
}

// Definitions 按注册顺序返回所有报表
func (r *Registry) Definitions() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Definition, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.defs[slug])
	}
	return out
}

// Slugify "Sales Target Achievement" -> "sales-target-achievement"
func Slugify(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}
