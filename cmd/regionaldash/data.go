package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"regionaldash/internal/importer"
	"regionaldash/internal/store"
)

func newImportCmd(a *app) *cobra.Command {
	var clearExisting bool

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import master and transaction data from an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			fi, err := f.Stat()
			if err != nil {
				return err
			}

			res, err := a.importer.Import(cmd.Context(), f, importer.Options{
				Filename:      filepath.Base(path),
				FileSize:      fi.Size(),
				ClearExisting: clearExisting,
			})
			if err != nil {
				return err
			}

			sheets := make([]string, 0, len(res.Sheets))
			for name := range res.Sheets {
				sheets = append(sheets, name)
			}
			sort.Strings(sheets)
			for _, name := range sheets {
				fmt.Printf("%-16s %d\n", name, res.Sheets[name])
			}
			for _, name := range res.Skipped {
				fmt.Printf("%-16s skipped\n", name)
			}
			fmt.Printf("batch %s: %d rows imported\n", res.BatchID, res.Rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearExisting, "clear", false, "导入前清空现有业务数据")
	return cmd
}

func newSeedCmd(a *app) *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the database contents with demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := time.Now()

			// 只生成导入模板，不写数据库
			if template != "" {
				wb, err := importer.BuildWorkbook(store.DemoDataset(today))
				if err != nil {
					return err
				}
				defer wb.Close()
				if err := wb.SaveAs(template); err != nil {
					return fmt.Errorf("save %s: %w", template, err)
				}
				a.logger.Info("demo workbook written", "file", template)
				return nil
			}

			if err := a.store.Seed(cmd.Context(), today); err != nil {
				return err
			}
			stats, err := a.store.GetStats(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info("demo data seeded",
				"company", store.DemoCompany,
				"salesPersons", stats.SalesPersons,
				"invoices", stats.Invoices,
				"targets", stats.Targets)
			return nil
		},
	}

	cmd.Flags().StringVar(&template, "workbook", "", "写出演示数据工作簿 (xlsx) 而不是写入数据库")
	return cmd
}
