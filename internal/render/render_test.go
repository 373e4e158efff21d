package render

import (
	"bytes"
	"strings"
	"testing"

	"regionaldash/internal/report"
)

func sampleResult() *report.Result {
	return &report.Result{
		Report: report.SalesTargetAchievementName,
		Filters: report.FilterValues{
			report.FilterCompany:    "SurgiShop",
			report.FilterFiscalYear: "2026",
			report.FilterFromDate:   "2026-07-18",
			report.FilterToDate:     "2026-10-18",
		},
		Columns: report.SalesTargetColumns(),
		Rows: []report.Row{
			{
				report.ColumnSalesPerson:        report.Text("Alice <A>"),
				report.ColumnTotalSales:         report.Number(12000),
				report.ColumnSalesGoal:          report.Number(10000),
				report.ColumnRevenueGoalPercent: report.Number(120),
				report.ColumnSILGoalPercent:     report.Number(80),
			},
			{
				report.ColumnSalesPerson:        report.Text("Carol"),
				report.ColumnTotalSales:         report.Number(1000),
				report.ColumnRevenueGoalPercent: report.Number(10),
				report.ColumnSILGoalPercent:     report.Number(0),
			},
		},
	}
}

func TestHTML_WrapsPercentCellsAndEscapesText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New(report.NewPercentFormatter(report.NewStandardFormatter("USD")))
	err := r.HTML(&buf, sampleResult(), Options{
		Filters: report.SalesTargetFilters(report.Environment{}),
		Summary: report.Row{report.ColumnSalesPerson: report.Text("Total")},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<span class="text-green-600 font-bold">120.00%</span>`,
		`<span class="text-orange-500">80.00%</span>`,
		`<span class="text-red-500">10.00%</span>`,
		`<span class="text-gray-700">0.00%</span>`,
		`Alice &lt;A&gt;`,
		`$12,000.00`,
		`<dt>Company</dt><dd>SurgiShop</dd>`,
		`<tr class="total">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Alice <A>") {
		t.Fatal("plain columns must be escaped")
	}
}

func TestHTML_EmptyResult(t *testing.T) {
	t.Parallel()

	res := sampleResult()
	res.Rows = nil

	var buf bytes.Buffer
	if err := New(nil).HTML(&buf, res, Options{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `colspan="7"`) {
		t.Fatalf("empty table row missing:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "<dt>company</dt>") {
		t.Fatalf("filters without declarations use field names:\n%s", buf.String())
	}
}

func TestTerminal_NoStyles(t *testing.T) {
	t.Parallel()

	out := New(nil).Terminal(sampleResult(), Options{
		Summary: report.Row{report.ColumnSalesPerson: report.Text("Total")},
	}, NoStyles())

	for _, want := range []string{"REV Goal", "SIL Goal", "Alice <A>", "120.00%", "$12,000.00", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<span") {
		t.Fatal("terminal output must not contain html")
	}
}
