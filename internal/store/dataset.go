package store

import (
	"context"
	"database/sql"
	"fmt"

	"regionaldash/internal/model"
)

// ImportOptions 数据集写入选项
type ImportOptions struct {
	// ClearExisting 写入前清空业务数据（配置项保留）
	ClearExisting bool
}

// ImportDataset 在单个事务内写入完整数据集。
// 主数据（公司 / 会计年度 / 销售人员 / 物料）与发票按主键 upsert；
// 目标明细按 (销售人员, 会计年度)、发票明细与销售团队按发票整体替换，重复导入结果不变。
func (s *Store) ImportDataset(ctx context.Context, ds *model.Dataset, opts ImportOptions) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if opts.ClearExisting {
		if err := clearBusinessData(ctx, tx); err != nil {
			return err
		}
	}

	steps := []struct {
		name string
		fn   func(context.Context, *sql.Tx, *model.Dataset) error
	}{
		{"companies", insertCompanies},
		{"fiscal years", insertFiscalYears},
		{"sales persons", insertSalesPersons},
		{"items", insertItems},
		{"previous targets", deleteReplacedTargets},
		{"targets", insertTargets},
		{"invoices", insertInvoices},
		{"previous invoice details", deleteReplacedInvoiceDetails},
		{"invoice items", insertInvoiceItems},
		{"sales team", insertSalesTeam},
	}
	for _, step := range steps {
		if err := step.fn(ctx, tx, ds); err != nil {
			return fmt.Errorf("failed to insert %s: %w", step.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func clearBusinessData(ctx context.Context, tx *sql.Tx) error {
	// 子表在前
	tables := []string{
		"sales_team", "sales_invoice_item", "sales_invoice",
		"target_detail", "item", "sales_person", "fiscal_year", "company",
	}
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("failed to clear %s: %w", t, err)
		}
	}
	return nil
}

func execEach[T any](ctx context.Context, tx *sql.Tx, query string, items []T, args func(T) []any) error {
	if len(items) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, args(it)...); err != nil {
			return err
		}
	}
	return nil
}

func insertCompanies(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	return execEach(ctx, tx, `
		INSERT INTO company (name, abbr, default_currency) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET abbr = excluded.abbr, default_currency = excluded.default_currency
	`, ds.Companies, func(c model.Company) []any {
		cur := c.DefaultCurrency
		if cur == "" {
			cur = "USD"
		}
		return []any{c.Name, c.Abbr, cur}
	})
}

func insertFiscalYears(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	return execEach(ctx, tx, `
		INSERT INTO fiscal_year (name, year_start_date, year_end_date) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			year_start_date = excluded.year_start_date,
			year_end_date = excluded.year_end_date
	`, ds.FiscalYears, func(fy model.FiscalYear) []any {
		return []any{fy.Name, fy.StartDate.Format(dateLayout), fy.EndDate.Format(dateLayout)}
	})
}

func insertSalesPersons(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	return execEach(ctx, tx, `
		INSERT INTO sales_person (name, enabled) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET enabled = excluded.enabled
	`, ds.SalesPersons, func(sp model.SalesPerson) []any {
		return []any{sp.Name, boolToInt(sp.Enabled)}
	})
}

func insertItems(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	return execEach(ctx, tx, `
		INSERT INTO item (item_code, item_name, item_group) VALUES (?, ?, ?)
		ON CONFLICT(item_code) DO UPDATE SET item_name = excluded.item_name, item_group = excluded.item_group
	`, ds.Items, func(it model.Item) []any {
		return []any{it.Code, it.Name, it.ItemGroup}
	})
}

// deleteReplacedTargets 删除本次导入涉及的 (销售人员, 会计年度) 已有目标明细
func deleteReplacedTargets(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	type key struct{ person, fiscalYear string }
	seen := make(map[key]bool)
	var keys []key
	for _, t := range ds.Targets {
		k := key{t.SalesPerson, t.FiscalYear}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return execEach(ctx, tx, `
		DELETE FROM target_detail WHERE parent = ? AND fiscal_year = ?
	`, keys, func(k key) []any {
		return []any{k.person, k.fiscalYear}
	})
}

// deleteReplacedInvoiceDetails 删除本次导入涉及发票的已有明细与销售团队
func deleteReplacedInvoiceDetails(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	seen := make(map[string]bool)
	var invoices []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			invoices = append(invoices, name)
		}
	}
	for _, inv := range ds.Invoices {
		add(inv.Name)
	}
	for _, it := range ds.InvoiceItems {
		add(it.Invoice)
	}
	for _, m := range ds.SalesTeam {
		add(m.Invoice)
	}

	for _, table := range []string{"sales_invoice_item", "sales_team"} {
		err := execEach(ctx, tx, "DELETE FROM "+table+" WHERE parent = ?", invoices, func(name string) []any {
			return []any{name}
		})
		if err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
	}
	return nil
}

func insertTargets(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	return execEach(ctx, tx, `
		INSERT INTO target_detail (parent, fiscal_year, item_group, target_amount) VALUES (?, ?, ?, ?)
	`, ds.Targets, func(t model.TargetDetail) []any {
		return []any{t.SalesPerson, t.FiscalYear, t.ItemGroup, t.TargetAmount}
	})
}

func insertInvoices(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	return execEach(ctx, tx, `
		INSERT INTO sales_invoice (name, company, customer, posting_date, grand_total, docstatus)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			company = excluded.company,
			customer = excluded.customer,
			posting_date = excluded.posting_date,
			grand_total = excluded.grand_total,
			docstatus = excluded.docstatus
	`, ds.Invoices, func(inv model.SalesInvoice) []any {
		return []any{inv.Name, inv.Company, inv.Customer, inv.PostingDate.Format(dateLayout), inv.GrandTotal, inv.DocStatus}
	})
}

func insertInvoiceItems(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	return execEach(ctx, tx, `
		INSERT INTO sales_invoice_item (parent, item_code, qty, amount) VALUES (?, ?, ?, ?)
	`, ds.InvoiceItems, func(it model.SalesInvoiceItem) []any {
		return []any{it.Invoice, it.ItemCode, it.Qty, it.Amount}
	})
}

func insertSalesTeam(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	return execEach(ctx, tx, `
		INSERT INTO sales_team (parent, sales_person, allocated_percentage) VALUES (?, ?, ?)
	`, ds.SalesTeam, func(m model.SalesTeamMember) []any {
		pct := m.AllocatedPercentage
		if pct == 0 {
			pct = 100
		}
		return []any{m.Invoice, m.SalesPerson, pct}
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
