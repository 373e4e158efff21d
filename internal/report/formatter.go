package report

import (
	"html"
	"strings"
)

// 需要按达成率着色的列
const (
	ColumnRevenueGoalPercent = "revenue_goal_percent"
	ColumnSILGoalPercent     = "sil_goal_percent"
)

// CellFormatter 单元格展示格式化：(原始值, 列描述, 整行) -> 展示文本
type CellFormatter interface {
	Format(v CellValue, col Column, row Row) string
}

// PercentFormatter 对达成率列按阈值包裹样式类，其余列原样返回。
// 无状态，可并发使用。
type PercentFormatter struct {
	base    ValueFormatter
	columns map[string]struct{}
}

// NewPercentFormatter 创建达成率格式化器；未指定列时使用两个默认达成率列
func NewPercentFormatter(base ValueFormatter, columns ...string) *PercentFormatter {
	if base == nil {
		base = NewStandardFormatter("")
	}
	if len(columns) == 0 {
		columns = []string{ColumnRevenueGoalPercent, ColumnSILGoalPercent}
	}
	set := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return &PercentFormatter{base: base, columns: set}
}

// Base 基础值格式化器
func (f *PercentFormatter) Base() ValueFormatter { return f.base }

// Applies 该列是否参与着色
func (f *PercentFormatter) Applies(col Column) bool {
	_, ok := f.columns[col.FieldName]
	return ok
}

// Classify 返回达成等级；ok=false 表示该列不参与着色
func (f *PercentFormatter) Classify(v CellValue, col Column) (Achievement, bool) {
	if !f.Applies(col) {
		return AchievementNone, false
	}
	return ClassifyAchievement(v.Float()), true
}

// Plain 基础格式化后的纯文本（不带样式包裹），供终端 / Excel 等非 HTML 输出使用
func (f *PercentFormatter) Plain(v CellValue, col Column) string {
	if !f.Applies(col) {
		return v.String()
	}
	return f.base.FormatValue(v, col)
}

// Format 实现 CellFormatter。row 目前不参与计算。
func (f *PercentFormatter) Format(v CellValue, col Column, _ Row) string {
	achievement, ok := f.Classify(v, col)
	if !ok {
		return v.String()
	}
	return wrapClass(achievement.Class(), f.base.FormatValue(v, col))
}

func wrapClass(class StyleClass, text string) string {
	var b strings.Builder
	b.WriteString(`<span class="`)
	b.WriteString(string(class))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(text))
	b.WriteString(`</span>`)
	return b.String()
}
