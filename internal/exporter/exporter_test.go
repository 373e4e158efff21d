package exporter

import (
	"math"
	"testing"

	"github.com/xuri/excelize/v2"

	"regionaldash/internal/report"
)

func testResult() *report.Result {
	return &report.Result{
		Report:  report.SalesTargetAchievementName,
		Columns: report.SalesTargetColumns(),
		Rows: []report.Row{
			{
				report.ColumnSalesPerson:        report.Text("Alice"),
				report.ColumnTotalSales:         report.Number(12000),
				report.ColumnSalesGoal:          report.Number(10000),
				report.ColumnRevenueGoalPercent: report.Number(120),
				report.ColumnSILGoalPercent:     report.Text("n/a"),
			},
			{
				report.ColumnSalesPerson:        report.Text("Bob"),
				report.ColumnTotalSales:         report.Number(8000),
				report.ColumnRevenueGoalPercent: report.Number(80),
				report.ColumnSILGoalPercent:     report.Number(10),
			},
		},
	}
}

func TestExport_WritesValuesAndStyles(t *testing.T) {
	t.Parallel()

	var events []ProgressEvent
	exp := New(report.NewPercentFormatter(nil), "usd")
	f, err := exp.Export(testResult(), Options{
		Summary:  report.Row{report.ColumnSalesPerson: report.Text("Total"), report.ColumnTotalSales: report.Number(20000)},
		Progress: func(p ProgressEvent) { events = append(events, p) },
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	sheet := report.SalesTargetAchievementName
	if got := f.GetSheetList(); len(got) != 1 || got[0] != sheet {
		t.Fatalf("sheets = %v", got)
	}

	header, _ := f.GetCellValue(sheet, "F1")
	if header != "REV Goal" {
		t.Fatalf("F1 = %q", header)
	}

	raw, _ := f.GetCellValue(sheet, "F2", excelize.Options{RawCellValue: true})
	if raw != "120" {
		t.Fatalf("F2 raw = %q", raw)
	}
	text, _ := f.GetCellValue(sheet, "G2")
	if text != "n/a" {
		t.Fatalf("G2 = %q", text)
	}

	green, _ := f.GetCellStyle(sheet, "F2")
	orange, _ := f.GetCellStyle(sheet, "F3")
	red, _ := f.GetCellStyle(sheet, "G3")
	gray, _ := f.GetCellStyle(sheet, "G2")
	ids := map[int]bool{green: true, orange: true, red: true, gray: true}
	if len(ids) != 4 {
		t.Fatalf("each achievement level needs its own style: %d %d %d %d", green, orange, red, gray)
	}

	style, err := f.GetStyle(green)
	if err != nil {
		t.Fatalf("get style: %v", err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Fatalf("achieved style must be bold: %+v", style.Font)
	}
	style, err = f.GetStyle(orange)
	if err != nil {
		t.Fatalf("get style: %v", err)
	}
	if style.Font != nil && style.Font.Bold {
		t.Fatalf("near style must not be bold: %+v", style.Font)
	}

	total, _ := f.GetCellValue(sheet, "A4")
	if total != "Total" {
		t.Fatalf("summary row = %q", total)
	}

	if len(events) == 0 || events[len(events)-1].Percent != 100 {
		t.Fatalf("progress events = %+v", events)
	}
}

func TestExport_InfiniteWrittenAsText(t *testing.T) {
	t.Parallel()

	res := &report.Result{
		Report:  report.SalesTargetAchievementName,
		Columns: report.SalesTargetColumns(),
		Rows: []report.Row{{
			report.ColumnSalesPerson:        report.Text("Alice"),
			report.ColumnTotalSales:         report.Text("Infinity"),
			report.ColumnRevenueGoalPercent: report.Number(math.Inf(1)),
		}},
	}
	f, err := New(report.NewPercentFormatter(nil), "USD").Export(res, Options{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	sheet := report.SalesTargetAchievementName
	for _, cell := range []string{"B2", "F2"} {
		typ, err := f.GetCellType(sheet, cell)
		if err != nil {
			t.Fatalf("cell type %s: %v", cell, err)
		}
		if typ != excelize.CellTypeSharedString && typ != excelize.CellTypeInlineString {
			t.Fatalf("%s must be a text cell, got type %v", cell, typ)
		}
	}
	if got, _ := f.GetCellValue(sheet, "F2"); got != "+Inf" {
		t.Fatalf("F2 = %q", got)
	}

	// 无穷大仍按达成着色
	green, _ := f.GetCellStyle(sheet, "F2")
	style, err := f.GetStyle(green)
	if err != nil || style.Font == nil || !style.Font.Bold {
		t.Fatalf("infinite achievement style: %+v, %v", style, err)
	}
}

func TestSheetName(t *testing.T) {
	t.Parallel()

	if got := sheetName("a/b:c"); got != "a-b-c" {
		t.Fatalf("got %q", got)
	}
	if got := sheetName("Sales Target Achievement By Region And Quarter"); len(got) != 31 {
		t.Fatalf("len = %d", len(got))
	}
	if got := sheetName(""); got != "Report" {
		t.Fatalf("got %q", got)
	}
}
