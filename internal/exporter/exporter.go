package exporter

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/xuri/excelize/v2"

	"regionaldash/internal/report"
)

// 达成等级对应的字体颜色
var achievementColors = map[report.Achievement]string{
	report.AchievementAchieved: "#16A34A",
	report.AchievementNear:     "#F97316",
	report.AchievementBelow:    "#EF4444",
	report.AchievementNone:     "#374151",
}

// ProgressEvent 导出进度事件（用于 UI 展示）
type ProgressEvent struct {
	Percent int
	Stage   string
}

// Options 导出选项
type Options struct {
	// Summary 不为空时作为合计行写在末尾
	Summary  report.Row
	Progress func(ProgressEvent)
}

// Exporter 报表结果导出为 xlsx
type Exporter struct {
	formatter *report.PercentFormatter
	currency  string
}

// New 创建导出器；formatter 决定哪些列着色
func New(formatter *report.PercentFormatter, currency string) *Exporter {
	if formatter == nil {
		formatter = report.NewPercentFormatter(nil)
	}
	return &Exporter{formatter: formatter, currency: report.NormalizeCurrency(currency)}
}

type styleSet struct {
	header   int
	currency int
	total    int
	percent  map[report.Achievement]int
}

func (e *Exporter) newStyles(f *excelize.File) (*styleSet, error) {
	s := &styleSet{percent: map[report.Achievement]int{}}
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	grapheme := money.New(0, e.currency).Currency().Grapheme
	currencyFmt := fmt.Sprintf(`"%s"#,##0.00`, strings.ReplaceAll(grapheme, `"`, ""))
	s.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return nil, err
	}
	s.total, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &currencyFmt})
	if err != nil {
		return nil, err
	}

	percentFmt := `0.00"%"`
	for a, color := range achievementColors {
		id, err := f.NewStyle(&excelize.Style{
			Font:         &excelize.Font{Color: color, Bold: a == report.AchievementAchieved},
			CustomNumFmt: &percentFmt,
		})
		if err != nil {
			return nil, err
		}
		s.percent[a] = id
	}
	return s, nil
}

// Export 写入单个工作表：表头、数据行、可选合计行
func (e *Exporter) Export(res *report.Result, opts Options) (*excelize.File, error) {
	reportProgress(opts.Progress, 0, "准备工作簿")

	f := excelize.NewFile()
	sheet := sheetName(res.Report)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	styles, err := e.newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create styles: %w", err)
	}

	for i, col := range res.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col.Label); err != nil {
			_ = f.Close()
			return nil, err
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if col.Width > 0 {
			_ = f.SetColWidth(sheet, colName, colName, float64(col.Width)/7)
		}
	}
	_ = f.SetRowStyle(sheet, 1, 1, styles.header)

	rows := res.Rows
	if opts.Summary != nil {
		rows = append(append([]report.Row{}, res.Rows...), opts.Summary)
	}

	for ri, row := range rows {
		isTotal := opts.Summary != nil && ri == len(rows)-1
		for ci, col := range res.Columns {
			cell, _ := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err := e.writeCell(f, sheet, cell, row.Get(col.FieldName), col, styles, isTotal); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("write %s: %w", cell, err)
			}
		}
		if len(rows) > 0 {
			reportProgress(opts.Progress, 10+(ri+1)*85/len(rows), "写入数据")
		}
	}

	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	f.SetActiveSheet(0)
	reportProgress(opts.Progress, 100, "导出完成")
	return f, nil
}

func (e *Exporter) writeCell(f *excelize.File, sheet, cell string, v report.CellValue, col report.Column, styles *styleSet, isTotal bool) error {
	if v.IsMissing() {
		return nil
	}

	if achievement, ok := e.formatter.Classify(v, col); ok {
		if n, ok := finiteFloat(v); ok {
			if err := f.SetCellFloat(sheet, cell, n, -1, 64); err != nil {
				return err
			}
		} else if err := f.SetCellStr(sheet, cell, v.String()); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell, cell, styles.percent[achievement])
	}

	if col.IsNumeric() {
		if n, ok := finiteFloat(v); ok {
			if err := f.SetCellFloat(sheet, cell, n, -1, 64); err != nil {
				return err
			}
			style := styles.currency
			if isTotal {
				style = styles.total
			}
			if col.FieldType == report.FieldCurrency {
				return f.SetCellStyle(sheet, cell, cell, style)
			}
			return nil
		}
	}
	return f.SetCellStr(sheet, cell, v.String())
}

// finiteFloat 可写为数值单元格的值；±Inf 在 xlsx 中不是合法数值，按文本写入
func finiteFloat(v report.CellValue) (float64, bool) {
	n, ok := v.Float()
	if !ok || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// sheetName Excel 工作表名最长 31 字符，且不能包含 []:*?/\
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, name)
	if name == "" {
		name = "Report"
	}
	if len([]rune(name)) > 31 {
		name = string([]rune(name)[:31])
	}
	return name
}

func reportProgress(progress func(ProgressEvent), percent int, stage string) {
	if progress == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{Percent: percent, Stage: stage})
}
