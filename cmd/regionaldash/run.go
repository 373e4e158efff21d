package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"regionaldash/internal/api"
	"regionaldash/internal/exporter"
	"regionaldash/internal/render"
	"regionaldash/internal/report"
)

// 输出格式
const (
	formatTable = "table"
	formatJSON  = "json"
	formatHTML  = "html"
	formatXLSX  = "xlsx"
)

// 着色模式
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		reportName string
		company    string
		fiscalYear string
		fromDate   string
		toDate     string
		format     string
		output     string
		color      string
		noSummary  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a report and print it",
		Long: `Run a report. Missing filters fall back to their defaults
(fiscal year containing today, three months back to today, default company).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			def, err := a.registry.Lookup(reportName)
			if err != nil {
				return err
			}
			env, err := a.environment(ctx)
			if err != nil {
				return err
			}

			decls := def.Filters(env)
			filters, err := def.Resolve(env, map[string]string{
				report.FilterCompany:    company,
				report.FilterFiscalYear: fiscalYear,
				report.FilterFromDate:   fromDate,
				report.FilterToDate:     toDate,
			}, true)
			if err != nil {
				return err
			}

			res, err := def.Run(ctx, filters)
			if err != nil {
				return err
			}
			var summary report.Row
			if !noSummary {
				summary = def.SummaryRow(res.Rows)
			}
			a.logger.Debug("report executed", "report", def.Name, "rows", len(res.Rows))

			switch format {
			case formatXLSX:
				if output == "" {
					return fmt.Errorf("--output is required for %s", formatXLSX)
				}
				f, err := a.exporter.Export(res, exporter.Options{Summary: summary})
				if err != nil {
					return err
				}
				defer f.Close()
				if err := f.SaveAs(output); err != nil {
					return fmt.Errorf("save %s: %w", output, err)
				}
				a.logger.Info("exported", "file", output, "rows", len(res.Rows))
				return nil
			case formatTable, formatJSON, formatHTML:
			default:
				return fmt.Errorf("unknown format %q (table, json, html, xlsx)", format)
			}

			w := io.Writer(os.Stdout)
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch format {
			case formatJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(api.RunResponse{
					Result:    res,
					Formatted: res.Formatted(def.Formatter),
					Summary:   summary,
				})
			case formatHTML:
				return a.renderer.HTML(w, res, render.Options{Filters: decls, Summary: summary})
			default:
				styles := render.NoStyles()
				if useColor(color, output) {
					styles = render.NewStyles()
				}
				_, err := fmt.Fprintln(w, a.renderer.Terminal(res, render.Options{Filters: decls, Summary: summary}, styles))
				return err
			}
		},
	}

	cmd.Flags().StringVar(&reportName, "report", report.SalesTargetAchievementName, "报表名称或 slug")
	cmd.Flags().StringVar(&company, "company", "", "公司")
	cmd.Flags().StringVar(&fiscalYear, "fiscal-year", "", "会计年度")
	cmd.Flags().StringVar(&fromDate, "from", "", "起始日期 (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "截止日期 (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "输出格式: table, json, html, xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件 (默认: stdout；xlsx 必填)")
	cmd.Flags().StringVar(&color, "color", colorAuto, "着色: auto, always, never")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "不输出合计行")
	return cmd
}

func useColor(mode, output string) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	default:
		return output == "" && isatty.IsTerminal(os.Stdout.Fd())
	}
}

func newFiltersCmd(a *app) *cobra.Command {
	var reportName string

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Show filter declarations and their current defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.registry.Lookup(reportName)
			if err != nil {
				return err
			}
			env, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Field", "Label", "Type", "Required", "Default")
			for _, f := range def.Filters(env) {
				fieldType := string(f.FieldType)
				if f.Options != "" {
					fieldType += ":" + f.Options
				}
				t.Row(f.FieldName, f.Label, fieldType, yesNo(f.Required), f.Default)
			}
			fmt.Println(def.Name)
			fmt.Println(t.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&reportName, "report", report.SalesTargetAchievementName, "报表名称或 slug")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
