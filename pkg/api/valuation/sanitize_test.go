package valuation

import (
	"strings"
	"testing"

	core "bolagsbron/pkg/core/valuation"
)

func fp(f float64) *float64 { return &f }

func TestSanitizeValid(t *testing.T) {
	raw := &core.FinancialInput{
		CompanyName:  "  Nordkod AB  ",
		IndustryTag:  " Tech ",
		ExactRevenue: fp(10_000_000),
	}
	res := Sanitize(raw)
	if !res.Valid {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}
	if res.Sanitized.CompanyName != "Nordkod AB" {
		t.Errorf("company name not trimmed: %q", res.Sanitized.CompanyName)
	}
	if res.Sanitized.IndustryTag != "tech" {
		t.Errorf("industry tag not normalized: %q", res.Sanitized.IndustryTag)
	}
	if res.Sanitized.Industry != core.IndustryTech {
		t.Errorf("industry enum = %v, want tech", res.Sanitized.Industry)
	}
	// caller's struct is untouched
	if raw.CompanyName != "  Nordkod AB  " {
		t.Error("sanitizer mutated its argument")
	}
}

func TestSanitizeMissingRequired(t *testing.T) {
	res := Sanitize(&core.FinancialInput{})
	if res.Valid {
		t.Fatal("expected invalid for empty input")
	}
	joined := strings.Join(res.Errors, "; ")
	if !strings.Contains(joined, "companyName") || !strings.Contains(joined, "industry") {
		t.Errorf("expected both required-field errors, got %v", res.Errors)
	}
	if res.Sanitized != nil {
		t.Error("sanitized record should be nil on failure")
	}
}

func TestSanitizeUnknownIndustryFallsBackToOther(t *testing.T) {
	res := Sanitize(&core.FinancialInput{CompanyName: "X AB", IndustryTag: "spaceflight"})
	if !res.Valid {
		t.Fatalf("unknown industry should not be fatal: %v", res.Errors)
	}
	if res.Sanitized.Industry != core.IndustryOther {
		t.Errorf("industry = %v, want other", res.Sanitized.Industry)
	}
}

func TestSanitizeRejectsNegativeFigures(t *testing.T) {
	res := Sanitize(&core.FinancialInput{
		CompanyName:  "X AB",
		IndustryTag:  "retail",
		ExactRevenue: fp(-1),
		TotalDebt:    fp(-500_000),
	})
	if res.Valid {
		t.Fatal("expected invalid for negative figures")
	}
	if len(res.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", res.Errors)
	}
}

func TestSanitizeRejectsBadEnums(t *testing.T) {
	res := Sanitize(&core.FinancialInput{
		CompanyName:  "X AB",
		IndustryTag:  "retail",
		ProfitMargin: "huge",
		RevenueTrend: "moon",
	})
	if res.Valid {
		t.Fatal("expected invalid for unknown enum values")
	}
	if len(res.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", res.Errors)
	}
}

func TestSanitizeGrossMarginBounds(t *testing.T) {
	for _, tc := range []struct {
		margin float64
		valid  bool
	}{
		{50, true},
		{100, true},
		{-100, true},
		{101, false},
		{-150, false},
	} {
		res := Sanitize(&core.FinancialInput{
			CompanyName: "X AB",
			IndustryTag: "tech",
			GrossMargin: fp(tc.margin),
		})
		if res.Valid != tc.valid {
			t.Errorf("grossMargin %.0f: valid = %v, want %v", tc.margin, res.Valid, tc.valid)
		}
	}
}

func TestSanitizeNormalizesEnumCase(t *testing.T) {
	res := Sanitize(&core.FinancialInput{
		CompanyName:  "X AB",
		IndustryTag:  "retail",
		ProfitMargin: " 10-20 ",
		RevenueTrend: "Growing",
	})
	if !res.Valid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
	if res.Sanitized.ProfitMargin != "10-20" || res.Sanitized.RevenueTrend != "growing" {
		t.Errorf("enum values not normalized: %q, %q",
			res.Sanitized.ProfitMargin, res.Sanitized.RevenueTrend)
	}
}
