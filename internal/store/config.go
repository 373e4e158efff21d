package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"regionaldash/internal/model"
)

// 用户默认值配置键
const (
	ConfigDefaultCompany    = "default_company"
	ConfigDefaultFiscalYear = "default_fiscal_year"
)

// GetConfig 获取配置项
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("config key %s: %w", key, ErrNotFound)
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// GetAllConfig 获取所有配置项
func (s *Store) GetAllConfig(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}

	return config, rows.Err()
}

// UserDefaults 解析默认公司与默认会计年度。
// 未配置默认会计年度时取包含 today 的会计年度；未配置默认公司且只有一家公司时取该公司。
func (s *Store) UserDefaults(ctx context.Context, today time.Time) (model.UserDefaults, error) {
	var out model.UserDefaults

	company, err := s.GetConfig(ctx, ConfigDefaultCompany)
	switch {
	case err == nil:
		out.Company = company
	case errors.Is(err, ErrNotFound):
		companies, err := s.ListCompanies(ctx)
		if err != nil {
			return out, err
		}
		if len(companies) == 1 {
			out.Company = companies[0].Name
		}
	default:
		return out, err
	}

	fy, err := s.GetConfig(ctx, ConfigDefaultFiscalYear)
	switch {
	case err == nil:
		out.FiscalYear = fy
	case errors.Is(err, ErrNotFound):
		found, err := s.FiscalYearFor(ctx, today)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return out, err
		}
		if err == nil {
			out.FiscalYear = found.Name
		}
	default:
		return out, err
	}

	return out, nil
}

// SetUserDefaults 保存默认公司与默认会计年度（空值不覆盖）
func (s *Store) SetUserDefaults(ctx context.Context, d model.UserDefaults) error {
	if d.Company != "" {
		if err := s.SetConfig(ctx, ConfigDefaultCompany, d.Company); err != nil {
			return err
		}
	}
	if d.FiscalYear != "" {
		if err := s.SetConfig(ctx, ConfigDefaultFiscalYear, d.FiscalYear); err != nil {
			return err
		}
	}
	return nil
}
