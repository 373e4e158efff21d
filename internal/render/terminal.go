package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"regionaldash/internal/report"
)

// Styles 终端输出样式，与 HTML 样式类一一对应
type Styles struct {
	Header      lipgloss.Style
	Border      lipgloss.Style
	Total       lipgloss.Style
	Achievement map[report.Achievement]lipgloss.Style
}

// NewStyles 默认配色
func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true),
		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Total:  lipgloss.NewStyle().Bold(true),
		Achievement: map[report.Achievement]lipgloss.Style{
			report.AchievementAchieved: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true), // bold green
			report.AchievementNear:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),           // orange
			report.AchievementBelow:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),             // red
			report.AchievementNone:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),             // gray
		},
	}
}

// NoStyles 不着色（--no-color 或输出被重定向时）
func NoStyles() Styles {
	return Styles{
		Header:      lipgloss.NewStyle(),
		Border:      lipgloss.NewStyle(),
		Total:       lipgloss.NewStyle(),
		Achievement: map[report.Achievement]lipgloss.Style{},
	}
}

// Terminal 渲染为带边框的终端表格
func (r *Renderer) Terminal(res *report.Result, opts Options, styles Styles) string {
	headers := make([]string, len(res.Columns))
	numeric := make([]bool, len(res.Columns))
	for i, col := range res.Columns {
		headers[i] = col.Label
		numeric[i] = col.IsNumeric()
	}

	rows := res.Rows
	if opts.Summary != nil {
		rows = append(append([]report.Row{}, res.Rows...), opts.Summary)
	}
	totalRow := -1
	if opts.Summary != nil {
		totalRow = len(rows) - 1
	}

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			cells[i] = r.terminalCell(row, col, styles)
		}
		data = append(data, cells)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Border).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return styles.Header.Padding(0, 1)
			}
			if col < len(numeric) && numeric[col] {
				s = s.Align(lipgloss.Right)
			}
			if row == totalRow {
				s = s.Inherit(styles.Total)
			}
			return s
		})
	return t.String()
}

func (r *Renderer) terminalCell(row report.Row, col report.Column, styles Styles) string {
	v := row.Get(col.FieldName)
	if achievement, ok := r.cells.Classify(v, col); ok {
		text := r.cells.Plain(v, col)
		if s, ok := styles.Achievement[achievement]; ok {
			return s.Render(text)
		}
		return text
	}
	return r.cells.Base().FormatValue(v, col)
}
