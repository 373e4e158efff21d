package achievement

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"regionaldash/internal/model"
	"regionaldash/internal/report"
)

// Source 报表取数接口，由 store.Store 实现
type Source interface {
	ListEnabledSalesPersons(ctx context.Context) ([]model.SalesPerson, error)
	GetGoals(ctx context.Context, salesPerson, fiscalYear string) (model.Goals, error)
	SumSales(ctx context.Context, salesPerson string, q model.SalesQuery) (float64, error)
	SumSILSales(ctx context.Context, salesPerson string, q model.SalesQuery) (float64, error)
}

// Engine 销售目标达成计算引擎，实现 report.Executor
type Engine struct {
	src    Source
	logger *log.Logger
}

// NewEngine 创建计算引擎；logger 可为 nil
func NewEngine(src Source, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{src: src, logger: logger}
}

// Execute 为每个启用的销售人员计算目标、实际与达成率
func (e *Engine) Execute(ctx context.Context, filters report.FilterValues) ([]report.Row, error) {
	from, err := filters.Date(report.FilterFromDate)
	if err != nil {
		return nil, err
	}
	to, err := filters.Date(report.FilterToDate)
	if err != nil {
		return nil, err
	}
	q := model.SalesQuery{
		Company:  filters[report.FilterCompany],
		FromDate: from,
		ToDate:   to,
	}
	fiscalYear := filters[report.FilterFiscalYear]

	persons, err := e.src.ListEnabledSalesPersons(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]report.Row, 0, len(persons))
	for _, sp := range persons {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		goals, err := e.src.GetGoals(ctx, sp.Name, fiscalYear)
		if err != nil {
			return nil, err
		}
		total, err := e.src.SumSales(ctx, sp.Name, q)
		if err != nil {
			return nil, err
		}
		sil, err := e.src.SumSILSales(ctx, sp.Name, q)
		if err != nil {
			return nil, err
		}

		rows = append(rows, report.Row{
			report.ColumnSalesPerson:        report.Text(sp.Name),
			report.ColumnTotalSales:         report.Number(total),
			report.ColumnSalesGoal:          report.Number(goals.Sales),
			report.ColumnCurrentSIL:         report.Number(sil),
			report.ColumnSILGoal:            report.Number(goals.SIL),
			report.ColumnRevenueGoalPercent: report.Number(Percent(total, goals.Sales)),
			report.ColumnSILGoalPercent:     report.Number(Percent(sil, goals.SIL)),
		})
	}

	e.logger.Debug("sales target achievement computed",
		"rows", len(rows), "company", q.Company, "fiscalYear", fiscalYear,
		"from", filters[report.FilterFromDate], "to", filters[report.FilterToDate])
	return rows, nil
}

// Percent actual / goal × 100，保留两位小数；goal <= 0 时为 0
func Percent(actual, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	pct := decimal.NewFromFloat(actual).
		Div(decimal.NewFromFloat(goal)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	return pct.InexactFloat64()
}

// Summary 全体销售人员的汇总达成
type Summary struct {
	TotalSales     float64 `json:"totalSales"`
	SalesGoal      float64 `json:"salesGoal"`
	CurrentSIL     float64 `json:"currentSil"`
	SILGoal        float64 `json:"silGoal"`
	RevenuePercent float64 `json:"revenueGoalPercent"`
	SILPercent     float64 `json:"silGoalPercent"`
}

// Summarize 汇总报表行
func Summarize(rows []report.Row) Summary {
	sum := func(field string) float64 {
		acc := decimal.Zero
		for _, r := range rows {
			if v, ok := r.Get(field).Float(); ok {
				acc = acc.Add(decimal.NewFromFloat(v))
			}
		}
		return acc.InexactFloat64()
	}
	s := Summary{
		TotalSales: sum(report.ColumnTotalSales),
		SalesGoal:  sum(report.ColumnSalesGoal),
		CurrentSIL: sum(report.ColumnCurrentSIL),
		SILGoal:    sum(report.ColumnSILGoal),
	}
	s.RevenuePercent = Percent(s.TotalSales, s.SalesGoal)
	s.SILPercent = Percent(s.CurrentSIL, s.SILGoal)
	return s
}

// SummaryRow 汇总行，可追加到报表结果末尾
func (s Summary) SummaryRow(label string) report.Row {
	return report.Row{
		report.ColumnSalesPerson:        report.Text(label),
		report.ColumnTotalSales:         report.Number(s.TotalSales),
		report.ColumnSalesGoal:          report.Number(s.SalesGoal),
		report.ColumnCurrentSIL:         report.Number(s.CurrentSIL),
		report.ColumnSILGoal:            report.Number(s.SILGoal),
		report.ColumnRevenueGoalPercent: report.Number(s.RevenuePercent),
		report.ColumnSILGoalPercent:     report.Number(s.SILPercent),
	}
}

var _ report.Executor = (*Engine)(nil)

// TotalLabel 合计行标签
const TotalLabel = "Total"

// TotalRow 汇总并生成合计行，用作 report.Definition.Summary
func TotalRow(rows []report.Row) report.Row {
	return Summarize(rows).SummaryRow(TotalLabel)
}
