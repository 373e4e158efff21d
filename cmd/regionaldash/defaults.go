package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"regionaldash/internal/config"
	"regionaldash/internal/model"
	"regionaldash/internal/store"
)

func newDefaultsCmd(a *app) *cobra.Command {
	var (
		company     string
		fiscalYear  string
		writeConfig bool
	)

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Show or set the default company and fiscal year",
		Long: `Without flags, print the effective defaults next to the database and config.toml values.
--company / --fiscal-year store new defaults in the database, or in config.toml with
--write-config (config.toml takes precedence over the database).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			d := model.UserDefaults{Company: company, FiscalYear: fiscalYear}
			switch {
			case d.Company == "" && d.FiscalYear == "":
				if writeConfig {
					return errors.New("--write-config needs --company or --fiscal-year")
				}
			case writeConfig:
				if err := a.saveConfigDefaults(d); err != nil {
					return err
				}
				a.logger.Info("defaults written", "file", a.cfgInfo.Path)
			default:
				if err := a.store.SetUserDefaults(ctx, d); err != nil {
					return err
				}
				a.logger.Info("defaults stored", "company", d.Company, "fiscalYear", d.FiscalYear)
			}

			env, err := a.environment(ctx)
			if err != nil {
				return err
			}
			stored, err := a.store.GetAllConfig(ctx)
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Default", "Effective", "Database", "config.toml")
			t.Row("company", env.Defaults.Company, stored[store.ConfigDefaultCompany], a.cfg.Report.DefaultCompany)
			t.Row("fiscal_year", env.Defaults.FiscalYear, stored[store.ConfigDefaultFiscalYear], a.cfg.Report.DefaultFiscalYear)
			fmt.Println(t.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "默认公司")
	cmd.Flags().StringVar(&fiscalYear, "fiscal-year", "", "默认会计年度")
	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "写入 config.toml 而不是数据库")
	return cmd
}

// saveConfigDefaults 将非空的默认值写入 config.toml，其余配置按文件原样保留
func (a *app) saveConfigDefaults(d model.UserDefaults) error {
	cfg, _, err := config.LoadConfigWithInfo(a.cfgInfo.Path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", a.cfgInfo.Path, err)
	}
	if d.Company != "" {
		cfg.Report.DefaultCompany = d.Company
		a.cfg.Report.DefaultCompany = d.Company
	}
	if d.FiscalYear != "" {
		cfg.Report.DefaultFiscalYear = d.FiscalYear
		a.cfg.Report.DefaultFiscalYear = d.FiscalYear
	}
	if err := config.SaveConfig(cfg, a.cfgInfo.Path); err != nil {
		return fmt.Errorf("save config %s: %w", a.cfgInfo.Path, err)
	}
	return nil
}
