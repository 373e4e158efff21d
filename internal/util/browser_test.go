package util

import "testing"

func TestLocalURL(t *testing.T) {
	if got := LocalURL(20261, "/reports/sales-target-achievement"); got != "http://localhost:20261/reports/sales-target-achievement" {
		t.Fatalf("got %q", got)
	}
	if got := ListenAddr(8080); got != ":8080" {
		t.Fatalf("got %q", got)
	}
}
