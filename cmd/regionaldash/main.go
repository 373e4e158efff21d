package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"regionaldash/internal/config"
	"regionaldash/internal/exporter"
	"regionaldash/internal/importer"
	"regionaldash/internal/model"
	"regionaldash/internal/render"
	"regionaldash/internal/report"
	"regionaldash/internal/service/achievement"
	"regionaldash/internal/store"
)

var (
	configPath string
	dataDir    string
	logLevel   string
)

// app 各子命令共享的依赖，在 PersistentPreRunE 中构建
type app struct {
	cfg       *config.AppConfig
	cfgInfo   config.LoadConfigInfo
	logger    *log.Logger
	store     *store.Store
	registry  *report.Registry
	formatter *report.PercentFormatter
	importer  *importer.Importer
	exporter  *exporter.Exporter
	renderer  *render.Renderer
	dataDir   string
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "regionaldash",
		Short:         "Sales target achievement reports",
		Long:          "regionaldash serves and prints the Sales Target Achievement report from a local SQLite database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径 (默认: 可执行文件同目录下的 config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "数据目录 (覆盖配置文件)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别: debug, info, warn, error")

	rootCmd.AddCommand(
		newServeCmd(a),
		newRunCmd(a),
		newFiltersCmd(a),
		newDefaultsCmd(a),
		newImportCmd(a),
		newSeedCmd(a),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if a.logger != nil {
			a.logger.Error(err.Error())
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		_ = a.close()
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg, info, err := config.LoadConfigWithInfo(configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", info.Path, err)
	}
	if dataDir != "" {
		cfg.Data.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	a.cfg = cfg
	a.cfgInfo = info

	a.logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.LogLevel(),
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	log.SetDefault(a.logger)
	if info.Found {
		a.logger.Debug("config loaded", "path", info.Path)
	}

	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	a.dataDir = dir

	st, err := store.New(config.DatabasePath(dir))
	if err != nil {
		return err
	}
	a.store = st

	a.formatter = report.NewPercentFormatter(report.NewStandardFormatter(cfg.Report.Currency))
	def := report.NewSalesTargetAchievement(achievement.NewEngine(st, a.logger), a.formatter)
	def.Summary = achievement.TotalRow

	a.registry = report.NewRegistry()
	if err := a.registry.Register(def); err != nil {
		return err
	}

	a.importer = importer.New(st, a.logger)
	a.exporter = exporter.New(a.formatter, cfg.Report.Currency)
	a.renderer = render.New(a.formatter)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// configDefaults config.toml 中的默认公司 / 财年
func (a *app) configDefaults() model.UserDefaults {
	return model.UserDefaults{
		Company:    a.cfg.Report.DefaultCompany,
		FiscalYear: a.cfg.Report.DefaultFiscalYear,
	}
}

func (a *app) environment(ctx context.Context) (report.Environment, error) {
	return achievement.Environment(ctx, a.store, time.Now(), a.configDefaults())
}
