package models

import (
	"math"
	"testing"
)

// ── Round3 / FormatNumber ──

func TestRound3(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.2344, 1.234},
		{1.2345, 1.235},
		{-1.2346, -1.235},
		{150000000, 150000000},
		{0, 0},
	}
	for _, tc := range tests {
		got := Round3(tc.in)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Round3(%v): got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{150000000, "150000000.0"},
		{250, "250.0"},
		{59.872, "59.872"},
		{-3021.5, "-3021.5"},
		{0, "0.0"},
	}
	for _, tc := range tests {
		got := FormatNumber(tc.in)
		if got != tc.want {
			t.Errorf("FormatNumber(%v): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

// ── Percent ──

func TestFormatPercentTwoDecimals(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{60.0, "60.0%"},
		{59.8716, "59.87%"},
		{100.0, "100.0%"},
		{25.128, "25.13%"},
	}
	for _, tc := range tests {
		p := FormatPercent(tc.in, 2)
		if p.IsNumber {
			t.Errorf("FormatPercent(%v, 2) should not be a bare number", tc.in)
		}
		if p.String() != tc.want {
			t.Errorf("FormatPercent(%v, 2): got %q, want %q", tc.in, p.String(), tc.want)
		}
	}
}

func TestFormatPercentWhole(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{100.0, "100%"},
		{98.4, "98%"},
		{98.6, "99%"},
	}
	for _, tc := range tests {
		p := FormatPercent(tc.in, 0)
		if p.String() != tc.want {
			t.Errorf("FormatPercent(%v, 0): got %q, want %q", tc.in, p.String(), tc.want)
		}
	}
}

func TestNumberCell(t *testing.T) {
	zero := NumberCell(0)
	if !zero.IsNumber || zero.String() != "0" {
		t.Errorf("NumberCell(0): got %+v, want bare \"0\"", zero)
	}

	one := NumberCell(1.0)
	if !one.IsNumber || one.String() != "1.0" {
		t.Errorf("NumberCell(1.0): got %+v, want bare \"1.0\"", one)
	}
}

func TestParsePercentCell(t *testing.T) {
	p, err := ParsePercentCell("60.0%")
	if err != nil {
		t.Fatalf("ParsePercentCell error: %v", err)
	}
	if p.IsNumber {
		t.Error("formatted percentage parsed as bare number")
	}
	if p.Number != 60.0 || p.String() != "60.0%" {
		t.Errorf("got %+v", p)
	}

	n, err := ParsePercentCell("0")
	if err != nil {
		t.Fatalf("ParsePercentCell error: %v", err)
	}
	if !n.IsNumber || n.Number != 0 {
		t.Errorf("bare zero: got %+v", n)
	}

	if _, err := ParsePercentCell("not-a-number"); err == nil {
		t.Error("expected error for unparseable cell")
	}
}

func TestParsePercentCellRoundTrip(t *testing.T) {
	for _, text := range []string{"60.0%", "98%", "0", "1.0"} {
		p, err := ParsePercentCell(text)
		if err != nil {
			t.Fatalf("ParsePercentCell(%q) error: %v", text, err)
		}
		if p.String() != text {
			t.Errorf("round trip %q: got %q", text, p.String())
		}
	}
}
