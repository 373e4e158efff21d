package store

import (
	"context"
	"database/sql"
	"fmt"

	"regionaldash/internal/model"
)

// GetGoals 汇总销售人员在会计年度内按物料组拆分的目标
func (s *Store) GetGoals(ctx context.Context, salesPerson, fiscalYear string) (model.Goals, error) {
	var sales, sil sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT
			SUM(CASE WHEN item_group = ? THEN target_amount ELSE 0 END),
			SUM(CASE WHEN item_group = ? THEN target_amount ELSE 0 END)
		FROM target_detail
		WHERE parent = ? AND fiscal_year = ?
	`, model.ItemGroupProducts, model.ItemGroupSIL, salesPerson, fiscalYear).Scan(&sales, &sil)
	if err != nil {
		return model.Goals{}, fmt.Errorf("query goals for %s failed: %w", salesPerson, err)
	}
	return model.Goals{Sales: sales.Float64, SIL: sil.Float64}, nil
}

func salesConditions(q model.SalesQuery) (string, []any) {
	where := ""
	var args []any
	if q.Company != "" {
		where += " AND si.company = ?"
		args = append(args, q.Company)
	}
	if !q.FromDate.IsZero() {
		where += " AND si.posting_date >= ?"
		args = append(args, q.FromDate.Format(dateLayout))
	}
	if !q.ToDate.IsZero() {
		where += " AND si.posting_date <= ?"
		args = append(args, q.ToDate.Format(dateLayout))
	}
	return where, args
}

// SumSales 销售人员所在销售团队的已提交发票总额
func (s *Store) SumSales(ctx context.Context, salesPerson string, q model.SalesQuery) (float64, error) {
	where, args := salesConditions(q)
	query := `
		SELECT SUM(si.grand_total)
		FROM sales_invoice si
		WHERE si.docstatus = ?
			AND EXISTS (
				SELECT 1 FROM sales_team st
				WHERE st.parent = si.name AND st.sales_person = ?
			)` + where

	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx, query,
		append([]any{model.DocStatusSubmitted, salesPerson}, args...)...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query sales for %s failed: %w", salesPerson, err)
	}
	return total.Float64, nil
}

// SumSILSales 销售人员已提交发票中 SIL 物料组行金额合计
func (s *Store) SumSILSales(ctx context.Context, salesPerson string, q model.SalesQuery) (float64, error) {
	where, args := salesConditions(q)
	query := `
		SELECT SUM(sii.amount)
		FROM sales_invoice si
		INNER JOIN sales_invoice_item sii ON sii.parent = si.name
		INNER JOIN item ON item.item_code = sii.item_code
		WHERE si.docstatus = ?
			AND item.item_group = ?
			AND EXISTS (
				SELECT 1 FROM sales_team st
				WHERE st.parent = si.name AND st.sales_person = ?
			)` + where

	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx, query,
		append([]any{model.DocStatusSubmitted, model.ItemGroupSIL, salesPerson}, args...)...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query SIL sales for %s failed: %w", salesPerson, err)
	}
	return total.Float64, nil
}
