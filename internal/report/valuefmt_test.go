package report

import (
	"encoding/json"
	"math"
	"testing"
)

func TestStandardFormatter_FormatValue(t *testing.T) {
	t.Parallel()

	f := NewStandardFormatter("usd")
	if f.Currency() != "USD" {
		t.Fatalf("currency = %s", f.Currency())
	}

	tests := []struct {
		name string
		v    CellValue
		col  Column
		want string
	}{
		{"currency", Number(1234.5), Column{FieldType: FieldCurrency}, "$1,234.50"},
		{"currency text", Text("99"), Column{FieldType: FieldCurrency}, "$99.00"},
		{"percent", Number(20), Column{FieldType: FieldPercent}, "20.00%"},
		{"percent precision", Number(20.456), Column{FieldType: FieldPercent, Precision: 1}, "20.5%"},
		{"float", Number(3.14159), Column{FieldType: FieldFloat}, "3.14"},
		{"int", Number(7.6), Column{FieldType: FieldInt}, "8"},
		{"link", Text("Alice"), Column{FieldType: FieldLink}, "Alice"},
		{"data number", Number(12.5), Column{FieldType: FieldData}, "12.5"},
		{"unparseable", Text("n/a"), Column{FieldType: FieldPercent}, "n/a"},
		{"missing", Missing(), Column{FieldType: FieldCurrency}, ""},
		{"infinite", Text("Infinity"), Column{FieldType: FieldPercent}, "Infinity"},
		{"leading number", Text("80abc"), Column{FieldType: FieldPercent}, "80.00%"},
	}
	for _, tt := range tests {
		if got := f.FormatValue(tt.v, tt.col); got != tt.want {
			t.Errorf("%s: got %q want %q", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeCurrency(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{"": "USD", " eur ": "EUR", "XXXX": "USD", "jpy": "JPY"} {
		if got := NormalizeCurrency(in); got != want {
			t.Errorf("NormalizeCurrency(%q) = %q, want %q", in, got, want)
		}
	}
	if got := NewStandardFormatter("eur").FormatValue(Number(10), Column{FieldType: FieldCurrency}); got != "€10.00" {
		t.Errorf("eur = %q", got)
	}
}

func TestCellValue_JSON(t *testing.T) {
	t.Parallel()

	var row Row
	if err := json.Unmarshal([]byte(`{"a": 12.5, "b": "80%", "c": null}`), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if row["a"].Kind() != CellNumber || row["b"].Kind() != CellText || !row["c"].IsMissing() {
		t.Fatalf("unexpected kinds: %+v", row)
	}
	if !row.Get("absent").IsMissing() {
		t.Fatal("absent field must be missing")
	}

	b, err := json.Marshal(Row{"n": Number(1), "m": Missing()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"m":null,"n":1}` {
		t.Fatalf("got %s", b)
	}
}

func TestCellValue_Float(t *testing.T) {
	t.Parallel()

	if v, ok := Text(" 42.5 % ").Float(); !ok || v != 42.5 {
		t.Fatalf("got %v %v", v, ok)
	}
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"80abc", 80, true},
		{"1_00", 1, true},
		{"0x10", 0, true},
		{"1e3", 1000, true},
		{"1e", 1, true},
		{".5", 0.5, true},
		{"-12.5%", -12.5, true},
		{"Infinity", math.Inf(1), true},
		{"-Infinity", math.Inf(-1), true},
		{"inf", 0, false},
		{"NaN", 0, false},
		{"abc12", 0, false},
		{"+", 0, false},
	}
	for _, tc := range cases {
		v, ok := Text(tc.in).Float()
		if ok != tc.ok || (ok && v != tc.want) {
			t.Errorf("Float(%q) = %v, %v; want %v, %v", tc.in, v, ok, tc.want, tc.ok)
		}
	}
	if _, ok := Missing().Float(); ok {
		t.Fatal("missing must not parse")
	}
	if v := CellFrom(int64(3)); v.Kind() != CellNumber {
		t.Fatalf("int64 kind = %v", v.Kind())
	}
}
