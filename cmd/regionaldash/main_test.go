package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"regionaldash/internal/config"
	"regionaldash/internal/report"
	"regionaldash/internal/store"
)

func TestAppInit_WiresRegistry(t *testing.T) {
	dir := t.TempDir()
	configPath = filepath.Join(dir, "missing.toml")
	dataDir = filepath.Join(dir, "data")
	logLevel = "error"
	t.Cleanup(func() { configPath, dataDir, logLevel = "", "", "" })

	a := &app{}
	if err := a.init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { _ = a.close() })

	def, err := a.registry.Lookup("sales-target-achievement")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if def.Summary == nil {
		t.Fatal("summary row not wired")
	}

	ctx := context.Background()
	if err := a.store.Seed(ctx, time.Now()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	env, err := a.environment(ctx)
	if err != nil {
		t.Fatalf("environment: %v", err)
	}
	filters, err := def.Resolve(env, nil, true)
	if err != nil {
		t.Fatalf("resolve defaults: %v", err)
	}
	res, err := def.Run(ctx, filters)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("rows = %d", len(res.Rows))
	}
	if got := def.Formatter.Format(res.Rows[0].Get(report.ColumnRevenueGoalPercent), res.Columns[5], res.Rows[0]); got != `<span class="text-green-600 font-bold">120.00%</span>` {
		t.Fatalf("alice revenue = %q", got)
	}
}

func TestDefaultsCmd_StoresAndWritesConfig(t *testing.T) {
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.toml")
	dataDir = filepath.Join(dir, "data")
	logLevel = "error"
	t.Cleanup(func() { configPath, dataDir, logLevel = "", "", "" })

	a := &app{}
	if err := a.init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { _ = a.close() })
	ctx := context.Background()

	cmd := newDefaultsCmd(a)
	cmd.SetArgs([]string{"--fiscal-year", "FY-DB"})
	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("store defaults: %v", err)
	}
	if got, err := a.store.GetConfig(ctx, store.ConfigDefaultFiscalYear); err != nil || got != "FY-DB" {
		t.Fatalf("stored fiscal year = %q, %v", got, err)
	}

	cmd = newDefaultsCmd(a)
	cmd.SetArgs([]string{"--company", "Acme", "--write-config"})
	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, info, err := config.LoadConfigWithInfo(configPath)
	if err != nil || !info.Found || cfg.Report.DefaultCompany != "Acme" {
		t.Fatalf("config.toml = %+v, %+v, %v", cfg.Report, info, err)
	}

	env, err := a.environment(ctx)
	if err != nil {
		t.Fatalf("environment: %v", err)
	}
	if env.Defaults.Company != "Acme" || env.Defaults.FiscalYear != "FY-DB" {
		t.Fatalf("effective defaults = %+v", env.Defaults)
	}

	cmd = newDefaultsCmd(a)
	cmd.SetArgs([]string{"--write-config"})
	if err := cmd.ExecuteContext(ctx); err == nil {
		t.Fatal("--write-config without values must fail")
	}
}

func TestUseColor(t *testing.T) {
	if !useColor(colorAlways, "") || useColor(colorNever, "") || useColor(colorAuto, "out.txt") {
		t.Fatal("unexpected color decision")
	}
}
