package report

import (
	"errors"
	"testing"
	"time"

	"regionaldash/internal/model"
)

func testEnv(today time.Time) Environment {
	return Environment{
		Today:    today,
		Defaults: model.UserDefaults{FiscalYear: "2026", Company: "SurgiShop"},
	}
}

func TestSalesTargetFilters_Declaration(t *testing.T) {
	t.Parallel()

	env := testEnv(time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC))
	env.Translate = func(s string) string { return "[" + s + "]" }

	filters := SalesTargetFilters(env)
	if len(filters) != 4 {
		t.Fatalf("want 4 filters, got %d", len(filters))
	}

	byName := map[string]Filter{}
	for _, f := range filters {
		if !f.Required {
			t.Errorf("%s must be required", f.FieldName)
		}
		byName[f.FieldName] = f
	}

	if got := byName[FilterToDate].Default; got != "2026-10-18" {
		t.Errorf("to_date default = %s", got)
	}
	if got := byName[FilterFromDate].Default; got != "2026-07-18" {
		t.Errorf("from_date default = %s", got)
	}
	if f := byName[FilterFiscalYear]; f.FieldType != FieldLink || f.Options != "Fiscal Year" || f.Default != "2026" {
		t.Errorf("fiscal_year = %+v", f)
	}
	if f := byName[FilterCompany]; f.FieldType != FieldLink || f.Options != "Company" || f.Default != "SurgiShop" {
		t.Errorf("company = %+v", f)
	}
	if f := byName[FilterFromDate]; f.FieldType != FieldDate || f.Label != "[From Date]" {
		t.Errorf("from_date = %+v", f)
	}
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"2026-05-31", -3, "2026-02-28"},
		{"2024-05-31", -3, "2024-02-29"},
		{"2026-11-30", -3, "2026-08-30"},
		{"2026-01-15", -3, "2025-10-15"},
		{"2026-03-31", 1, "2026-04-30"},
		{"2026-12-31", 2, "2027-02-28"},
	}
	for _, tt := range tests {
		in, _ := time.Parse(DateLayout, tt.in)
		if got := AddMonths(in, tt.n).Format(DateLayout); got != tt.want {
			t.Errorf("AddMonths(%s, %d) = %s, want %s", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestResolveFilters(t *testing.T) {
	t.Parallel()

	decls := SalesTargetFilters(testEnv(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)))

	values, err := ResolveFilters(decls, nil, true)
	if err != nil {
		t.Fatalf("defaults must satisfy all filters: %v", err)
	}
	if values[FilterCompany] != "SurgiShop" || values[FilterFromDate] != "2026-07-18" {
		t.Fatalf("unexpected values: %v", values)
	}

	_, err = ResolveFilters(decls, map[string]string{FilterCompany: "X"}, false)
	var ferr *FilterError
	if !errors.As(err, &ferr) || !errors.Is(err, ErrMissingFilter) {
		t.Fatalf("want missing filter error, got %v", err)
	}
	if len(ferr.Missing) != 3 {
		t.Fatalf("missing = %v", ferr.Missing)
	}

	_, err = ResolveFilters(decls, map[string]string{
		FilterFiscalYear: "2026",
		FilterCompany:    "X",
		FilterFromDate:   "2026-09-01",
		FilterToDate:     "2026-08-01",
	}, false)
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("want invalid range, got %v", err)
	}

	_, err = ResolveFilters(decls, map[string]string{FilterFromDate: "18/10/2026"}, true)
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("want invalid date, got %v", err)
	}
}

func TestFilterValues_Date(t *testing.T) {
	t.Parallel()

	v := FilterValues{FilterToDate: "2026-10-18"}
	d, err := v.Date(FilterToDate)
	if err != nil || d.Day() != 18 {
		t.Fatalf("got %v %v", d, err)
	}
	if _, err := v.Date(FilterFromDate); !errors.Is(err, ErrMissingFilter) {
		t.Fatalf("want missing, got %v", err)
	}
}
