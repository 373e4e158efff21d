package report

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const defaultPrecision = 2

// ValueFormatter 基础值格式化：按列类型把原始值渲染为文本
type ValueFormatter interface {
	FormatValue(v CellValue, col Column) string
}

// StandardFormatter 默认的基础格式化实现
type StandardFormatter struct {
	currency string
}

// NewStandardFormatter 创建基础格式化器，currency 为 ISO 4217 代码
func NewStandardFormatter(currency string) *StandardFormatter {
	return &StandardFormatter{currency: NormalizeCurrency(currency)}
}

// NormalizeCurrency 规范化货币代码；空值或未知代码时为 USD
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || money.GetCurrency(code) == nil {
		return money.USD
	}
	return code
}

// Currency 货币代码
func (f *StandardFormatter) Currency() string { return f.currency }

// FormatValue 实现 ValueFormatter
func (f *StandardFormatter) FormatValue(v CellValue, col Column) string {
	if v.IsMissing() {
		return ""
	}
	if !col.IsNumeric() {
		return v.String()
	}

	n, ok := v.Float()
	if !ok || math.IsInf(n, 0) {
		return v.String()
	}

	precision := col.Precision
	if precision <= 0 {
		precision = defaultPrecision
	}

	switch col.FieldType {
	case FieldCurrency:
		return f.formatMoney(decimal.NewFromFloat(n))
	case FieldPercent:
		return decimal.NewFromFloat(n).StringFixed(int32(precision)) + "%"
	case FieldFloat:
		return decimal.NewFromFloat(n).StringFixed(int32(precision))
	case FieldInt:
		return decimal.NewFromFloat(n).Round(0).String()
	}
	return v.String()
}

func (f *StandardFormatter) formatMoney(amount decimal.Decimal) string {
	cur := *money.New(0, f.currency).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
