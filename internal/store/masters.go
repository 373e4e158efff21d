package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"regionaldash/internal/model"
)

// ListCompanies 公司列表（按名称）
func (s *Store) ListCompanies(ctx context.Context) ([]model.Company, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, abbr, default_currency FROM company ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query companies failed: %w", err)
	}
	defer rows.Close()

	var out []model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.Name, &c.Abbr, &c.DefaultCurrency); err != nil {
			return nil, fmt.Errorf("scan company failed: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCompany 按名称获取公司
func (s *Store) GetCompany(ctx context.Context, name string) (model.Company, error) {
	var c model.Company
	err := s.db.QueryRowContext(ctx,
		"SELECT name, abbr, default_currency FROM company WHERE name = ?", name,
	).Scan(&c.Name, &c.Abbr, &c.DefaultCurrency)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("company %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("query company failed: %w", err)
	}
	return c, nil
}

// ListFiscalYears 会计年度列表（按开始日期倒序）
func (s *Store) ListFiscalYears(ctx context.Context) ([]model.FiscalYear, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, year_start_date, year_end_date
		FROM fiscal_year
		ORDER BY year_start_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query fiscal years failed: %w", err)
	}
	defer rows.Close()

	var out []model.FiscalYear
	for rows.Next() {
		fy, err := scanFiscalYear(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fy)
	}
	return out, rows.Err()
}

// FiscalYearFor 查找包含指定日期的会计年度
func (s *Store) FiscalYearFor(ctx context.Context, d time.Time) (model.FiscalYear, error) {
	day := d.Format(dateLayout)
	row := s.db.QueryRowContext(ctx, `
		SELECT name, year_start_date, year_end_date
		FROM fiscal_year
		WHERE year_start_date <= ? AND year_end_date >= ?
		ORDER BY year_start_date DESC
		LIMIT 1
	`, day, day)

	fy, err := scanFiscalYear(row)
	if errors.Is(err, sql.ErrNoRows) {
		return fy, fmt.Errorf("fiscal year for %s: %w", day, ErrNotFound)
	}
	return fy, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFiscalYear(r rowScanner) (model.FiscalYear, error) {
	var (
		fy         model.FiscalYear
		start, end string
	)
	if err := r.Scan(&fy.Name, &start, &end); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fy, err
		}
		return fy, fmt.Errorf("scan fiscal year failed: %w", err)
	}
	var err error
	if fy.StartDate, err = time.Parse(dateLayout, start); err != nil {
		return fy, fmt.Errorf("fiscal year %s start date: %w", fy.Name, err)
	}
	if fy.EndDate, err = time.Parse(dateLayout, end); err != nil {
		return fy, fmt.Errorf("fiscal year %s end date: %w", fy.Name, err)
	}
	return fy, nil
}

// ListEnabledSalesPersons 启用的销售人员（按名称）
func (s *Store) ListEnabledSalesPersons(ctx context.Context) ([]model.SalesPerson, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sales_person WHERE enabled = 1 ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query sales persons failed: %w", err)
	}
	defer rows.Close()

	var out []model.SalesPerson
	for rows.Next() {
		sp := model.SalesPerson{Enabled: true}
		if err := rows.Scan(&sp.Name); err != nil {
			return nil, fmt.Errorf("scan sales person failed: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// HasSalesPerson 销售人员是否存在
func (s *Store) HasSalesPerson(ctx context.Context, name string) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM sales_person WHERE name = ?", name)
}

// HasInvoice 发票是否存在
func (s *Store) HasInvoice(ctx context.Context, name string) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM sales_invoice WHERE name = ?", name)
}

func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query failed: %w", err)
	}
	return true, nil
}
