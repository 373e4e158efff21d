package achievement

import (
	"context"
	"time"

	"regionaldash/internal/model"
	"regionaldash/internal/report"
)

// DefaultsSource 提供用户默认值（默认公司 / 默认财年）
type DefaultsSource interface {
	UserDefaults(ctx context.Context, today time.Time) (model.UserDefaults, error)
}

// Environment 组装声明过滤条件所需的环境。
// override 中非空的字段优先于 src 给出的默认值。
func Environment(ctx context.Context, src DefaultsSource, today time.Time, override model.UserDefaults) (report.Environment, error) {
	env := report.Environment{Today: today}
	if src != nil {
		d, err := src.UserDefaults(ctx, today)
		if err != nil {
			return env, err
		}
		env.Defaults = d
	}
	if override.Company != "" {
		env.Defaults.Company = override.Company
	}
	if override.FiscalYear != "" {
		env.Defaults.FiscalYear = override.FiscalYear
	}
	return env, nil
}
