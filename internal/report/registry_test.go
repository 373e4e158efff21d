package report

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubExecutor struct {
	rows []Row
	err  error
	got  FilterValues
}

func (s *stubExecutor) Execute(_ context.Context, filters FilterValues) ([]Row, error) {
	s.got = filters
	return s.rows, s.err
}

func TestRegistry_RegisterLookup(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	def := NewSalesTargetAchievement(&stubExecutor{}, NewPercentFormatter(nil))
	if err := reg.Register(def); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(def); err == nil {
		t.Fatal("duplicate registration must fail")
	}

	for _, name := range []string{"Sales Target Achievement", "sales-target-achievement", "SALES target achievement"} {
		got, err := reg.Lookup(name)
		if err != nil || got != def {
			t.Fatalf("lookup %q: %v", name, err)
		}
	}
	if _, err := reg.Lookup("Regional Dashboard"); !errors.Is(err, ErrUnknownReport) {
		t.Fatalf("want unknown report, got %v", err)
	}
	if n := len(reg.Definitions()); n != 1 {
		t.Fatalf("definitions = %d", n)
	}
}

func TestRegistry_RejectsIncompleteDefinition(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if err := reg.Register(&Definition{Name: "x"}); err == nil {
		t.Fatal("definition without filters must be rejected")
	}
	if err := reg.Register(&Definition{Name: "x", Filters: SalesTargetFilters}); err == nil {
		t.Fatal("definition without formatter must be rejected")
	}
}

func TestDefinition_RunAndFormat(t *testing.T) {
	t.Parallel()

	exec := &stubExecutor{rows: []Row{{
		ColumnSalesPerson:        Text("Alice"),
		ColumnTotalSales:         Number(1200),
		ColumnRevenueGoalPercent: Number(120),
		ColumnSILGoalPercent:     Number(10),
	}}}
	def := NewSalesTargetAchievement(exec, NewPercentFormatter(NewStandardFormatter("USD")))

	res, err := def.Run(context.Background(), FilterValues{FilterCompany: "SurgiShop"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if exec.got[FilterCompany] != "SurgiShop" {
		t.Fatalf("filters not passed: %v", exec.got)
	}

	out := res.Formatted(def.Formatter)
	if len(out) != 1 {
		t.Fatalf("rows = %d", len(out))
	}
	if out[0][ColumnSalesPerson] != "Alice" || out[0][ColumnTotalSales] != "1200" {
		t.Fatalf("non-percent columns must be identity: %v", out[0])
	}
	if !strings.Contains(out[0][ColumnRevenueGoalPercent], string(StylePositive)) {
		t.Fatalf("revenue = %s", out[0][ColumnRevenueGoalPercent])
	}
	if !strings.Contains(out[0][ColumnSILGoalPercent], string(StyleNegative)) {
		t.Fatalf("sil = %s", out[0][ColumnSILGoalPercent])
	}
	if out[0][ColumnSILGoal] != "" {
		t.Fatalf("absent cell must render empty, got %q", out[0][ColumnSILGoal])
	}

	exec.err = errors.New("boom")
	if _, err := def.Run(context.Background(), nil); err == nil {
		t.Fatal("executor error must propagate")
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	if got := Slugify("  Sales  Target / Achievement "); got != "sales-target-achievement" {
		t.Fatalf("got %s", got)
	}
}
