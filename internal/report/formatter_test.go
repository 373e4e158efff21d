package report

import (
	"math"
	"strings"
	"testing"
)

func percentColumn(name string) Column {
	return Column{FieldName: name, FieldType: FieldPercent}
}

func TestPercentFormatter_Scenarios(t *testing.T) {
	t.Parallel()

	f := NewPercentFormatter(NewStandardFormatter("USD"))

	tests := []struct {
		name   string
		value  CellValue
		column string
		class  StyleClass
		text   string
	}{
		{"achieved", Text("120"), ColumnRevenueGoalPercent, StylePositive, "120.00%"},
		{"near", Text("80"), ColumnSILGoalPercent, StyleWarning, "80.00%"},
		{"below", Text("10"), ColumnRevenueGoalPercent, StyleNegative, "10.00%"},
		{"zero", Text("0"), ColumnRevenueGoalPercent, StyleNeutral, "0.00%"},
		{"number input", Number(99.999), ColumnSILGoalPercent, StyleWarning, "100.00%"},
		{"percent suffix", Text("85.5%"), ColumnRevenueGoalPercent, StyleWarning, "85.50%"},
	}

	for _, tt := range tests {
		got := f.Format(tt.value, percentColumn(tt.column), nil)
		want := `<span class="` + string(tt.class) + `">` + tt.text + `</span>`
		if got != want {
			t.Errorf("%s: got %q want %q", tt.name, got, want)
		}
	}
}

func TestPercentFormatter_OtherColumnIsIdentity(t *testing.T) {
	t.Parallel()

	f := NewPercentFormatter(nil)

	if got := f.Format(Text("120"), percentColumn("some_other_field"), nil); got != "120" {
		t.Fatalf("got %q want %q", got, "120")
	}
	if got := f.Format(Text("<b>x</b>"), Column{FieldName: ColumnSalesPerson, FieldType: FieldLink}, nil); got != "<b>x</b>" {
		t.Fatalf("identity must not escape: %q", got)
	}
	if got := f.Format(Number(1234.5), Column{FieldName: ColumnTotalSales, FieldType: FieldCurrency}, nil); got != "1234.5" {
		t.Fatalf("identity must not format: %q", got)
	}
	if got := f.Format(Missing(), percentColumn("other"), nil); got != "" {
		t.Fatalf("missing identity: %q", got)
	}
}

func TestPercentFormatter_NonNumericIsNeutral(t *testing.T) {
	t.Parallel()

	f := NewPercentFormatter(nil)
	col := percentColumn(ColumnRevenueGoalPercent)

	for _, v := range []CellValue{Text("abc"), Text(""), Text("   "), Missing(), Number(math.NaN()), Text("NaN"), Text("inf"), Text("0x")} {
		got := f.Format(v, col, nil)
		if !strings.HasPrefix(got, `<span class="`+string(StyleNeutral)+`">`) {
			t.Errorf("value %q: got %q", v.String(), got)
		}
	}

	// 开头数值之后的字符忽略
	leading := map[string]StyleClass{"80abc": StyleWarning, "1_00": StyleNegative, "120%": StylePositive}
	for in, want := range leading {
		got := f.Format(Text(in), col, nil)
		if !strings.HasPrefix(got, `<span class="`+string(want)+`">`) {
			t.Errorf("value %q: got %q, want class %q", in, got, want)
		}
	}

	if got := f.Format(Text("<script>"), col, nil); strings.Contains(got, "<script>") {
		t.Fatalf("formatted text must be escaped: %q", got)
	}
}

func TestClassifyAchievement_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    float64
		want Achievement
	}{
		{1000, AchievementAchieved},
		{100, AchievementAchieved},
		{99.99, AchievementNear},
		{75, AchievementNear},
		{74.99, AchievementBelow},
		{0.01, AchievementBelow},
		{0, AchievementNone},
		{-5, AchievementNone},
		{math.Inf(1), AchievementAchieved},
		{math.Inf(-1), AchievementNone},
	}
	for _, tt := range tests {
		if got := ClassifyAchievement(tt.v, true); got != tt.want {
			t.Errorf("ClassifyAchievement(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
	if got := ClassifyAchievement(500, false); got != AchievementNone {
		t.Fatalf("not-a-number must be none, got %v", got)
	}
}

func TestClassifyAchievement_Sweep(t *testing.T) {
	t.Parallel()

	for i := -200; i <= 2000; i++ {
		v := float64(i) / 10
		got := ClassifyAchievement(v, true).Class()
		var want StyleClass
		switch {
		case v >= 100:
			want = StylePositive
		case v >= 75:
			want = StyleWarning
		case v > 0:
			want = StyleNegative
		default:
			want = StyleNeutral
		}
		if got != want {
			t.Fatalf("v=%v got %s want %s", v, got, want)
		}
	}
}

func TestPercentFormatter_CustomColumns(t *testing.T) {
	t.Parallel()

	f := NewPercentFormatter(nil, "margin_percent")
	if f.Applies(percentColumn(ColumnRevenueGoalPercent)) {
		t.Fatal("default columns must not apply when custom columns are given")
	}
	a, ok := f.Classify(Number(76), percentColumn("margin_percent"))
	if !ok || a != AchievementNear {
		t.Fatalf("got %v %v", a, ok)
	}
}
