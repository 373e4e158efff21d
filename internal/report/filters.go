package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"regionaldash/internal/model"
)

// DateLayout 过滤条件中日期的文本格式
const DateLayout = "2006-01-02"

// 过滤字段名
const (
	FilterFiscalYear = "fiscal_year"
	FilterFromDate   = "from_date"
	FilterToDate     = "to_date"
	FilterCompany    = "company"
)

// DefaultLookbackMonths from_date 默认回溯的月数
const DefaultLookbackMonths = 3

var (
	ErrMissingFilter = errors.New("missing required filter")
	ErrInvalidFilter = errors.New("invalid filter")
)

// Environment 由宿主在声明过滤条件时显式提供的上下文
type Environment struct {
	Today     time.Time
	Defaults  model.UserDefaults
	Translate func(string) string
}

func (e Environment) translate(s string) string {
	if e.Translate == nil {
		return s
	}
	return e.Translate(s)
}

// Filter 过滤条件声明
type Filter struct {
	FieldName string    `json:"fieldname"`
	Label     string    `json:"label"`
	FieldType FieldType `json:"fieldtype"`
	Options   string    `json:"options,omitempty"`
	Required  bool      `json:"reqd"`
	Default   string    `json:"default,omitempty"`
}

// SalesTargetFilters 销售目标达成报表的四个过滤条件，全部必填
func SalesTargetFilters(env Environment) []Filter {
	today := truncateDay(env.Today)
	return []Filter{
		{
			FieldName: FilterFiscalYear,
			Label:     env.translate("Fiscal Year"),
			FieldType: FieldLink,
			Options:   "Fiscal Year",
			Required:  true,
			Default:   env.Defaults.FiscalYear,
		},
		{
			FieldName: FilterFromDate,
			Label:     env.translate("From Date"),
			FieldType: FieldDate,
			Required:  true,
			Default:   AddMonths(today, -DefaultLookbackMonths).Format(DateLayout),
		},
		{
			FieldName: FilterToDate,
			Label:     env.translate("To Date"),
			FieldType: FieldDate,
			Required:  true,
			Default:   today.Format(DateLayout),
		},
		{
			FieldName: FilterCompany,
			Label:     env.translate("Company"),
			FieldType: FieldLink,
			Options:   "Company",
			Required:  true,
			Default:   env.Defaults.Company,
		},
	}
}

// AddMonths 按月加减日期；目标月天数不足时落到月末（5-31 减 3 个月为 2-28/29）
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FilterError 过滤条件校验失败
type FilterError struct {
	Missing []string
	Invalid map[string]string
}

func (e *FilterError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required filters: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		keys := make([]string, 0, len(e.Invalid))
		for k := range e.Invalid {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, e.Invalid[k]))
		}
	}
	return strings.Join(parts, "; ")
}

func (e *FilterError) Unwrap() error {
	if len(e.Missing) > 0 {
		return ErrMissingFilter
	}
	return ErrInvalidFilter
}

// FilterValues 校验通过的过滤值
type FilterValues map[string]string

// Date 解析日期类过滤值
func (v FilterValues) Date(name string) (time.Time, error) {
	s, ok := v[name]
	if !ok || s == "" {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingFilter, name)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidFilter, name, err)
	}
	return t, nil
}

// ResolveFilters 按声明校验原始过滤值。
// applyDefaults 为 true 时，缺失项先取声明的默认值；仍缺失的必填项报错。
func ResolveFilters(decls []Filter, raw map[string]string, applyDefaults bool) (FilterValues, error) {
	out := make(FilterValues, len(decls))
	ferr := &FilterError{}

	for _, d := range decls {
		val := strings.TrimSpace(raw[d.FieldName])
		if val == "" && applyDefaults {
			val = d.Default
		}
		if val == "" {
			if d.Required {
				ferr.Missing = append(ferr.Missing, d.FieldName)
			}
			continue
		}
		if d.FieldType == FieldDate {
			if _, err := time.Parse(DateLayout, val); err != nil {
				if ferr.Invalid == nil {
					ferr.Invalid = map[string]string{}
				}
				ferr.Invalid[d.FieldName] = "expected date " + DateLayout
				continue
			}
		}
		out[d.FieldName] = val
	}

	if from, to := out[FilterFromDate], out[FilterToDate]; from != "" && to != "" && from > to {
		if ferr.Invalid == nil {
			ferr.Invalid = map[string]string{}
		}
		ferr.Invalid[FilterFromDate] = "from_date is after to_date"
	}

	if len(ferr.Missing) > 0 || len(ferr.Invalid) > 0 {
		return nil, ferr
	}
	return out, nil
}
