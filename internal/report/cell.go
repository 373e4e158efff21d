package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// CellKind 单元格原始值的类型
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
)

// CellValue 单元格原始值：数值 / 文本 / 缺失 三者之一
type CellValue struct {
	kind CellKind
	num  float64
	text string
}

// Number 数值单元格
func Number(v float64) CellValue { return CellValue{kind: CellNumber, num: v} }

// Text 文本单元格
func Text(s string) CellValue { return CellValue{kind: CellText, text: s} }

// Missing 缺失单元格
func Missing() CellValue { return CellValue{} }

// CellFrom 将宽松类型的值（JSON 解码结果、数据库扫描结果）归一为 CellValue
func CellFrom(v any) CellValue {
	switch x := v.(type) {
	case nil:
		return Missing()
	case CellValue:
		return x
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Number(f)
		}
		return Text(x.String())
	case decimal.Decimal:
		return Number(x.InexactFloat64())
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case bool:
		return Text(strconv.FormatBool(x))
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return Missing()
		}
		return Text(string(b))
	}
}

func (c CellValue) Kind() CellKind { return c.kind }

func (c CellValue) IsMissing() bool { return c.kind == CellMissing }

// leadingNumber 文本开头的十进制数（可带符号与指数）或 Infinity，其后内容忽略
var leadingNumber = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// Float 唯一的数值解析入口。
// 文本忽略开头空白，取开头的十进制数或 Infinity，后续字符（如 "%"）忽略；
// 不接受下划线分隔、十六进制与 inf/nan 等写法。解析失败或 NaN 时 ok=false。
func (c CellValue) Float() (v float64, ok bool) {
	switch c.kind {
	case CellNumber:
		if math.IsNaN(c.num) {
			return 0, false
		}
		return c.num, true
	case CellText:
		m := leadingNumber.FindString(strings.TrimLeftFunc(c.text, unicode.IsSpace))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			// 超出范围时 ParseFloat 返回 ±Inf 与 ErrRange
			var numErr *strconv.NumError
			if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
				return 0, false
			}
		}
		return f, true
	default:
		return 0, false
	}
}

// String 原始文本表示，不做任何格式化
func (c CellValue) String() string {
	switch c.kind {
	case CellNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case CellText:
		return c.text
	default:
		return ""
	}
}

func (c CellValue) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellNumber:
		if math.IsNaN(c.num) || math.IsInf(c.num, 0) {
			return json.Marshal(c.String())
		}
		return json.Marshal(c.num)
	case CellText:
		return json.Marshal(c.text)
	default:
		return []byte("null"), nil
	}
}

func (c *CellValue) UnmarshalJSON(b []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*c = CellFrom(raw)
	return nil
}

// Row 一行报表数据，按字段名索引
type Row map[string]CellValue

// Get 取字段值，不存在时为 Missing
func (r Row) Get(field string) CellValue {
	if v, ok := r[field]; ok {
		return v
	}
	return Missing()
}
