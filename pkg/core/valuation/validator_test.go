package valuation

import (
	"strings"
	"testing"
)

func TestValidateGrossMarginFloor(t *testing.T) {
	in := &FinancialInput{
		Industry:    IndustryRestaurant,
		GrossMargin: f(45),
	}

	out := Validate(in)

	if len(out.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", out.Warnings)
	}
	if !strings.Contains(out.Warnings[0], "45.0%") || !strings.Contains(out.Warnings[0], "60%") {
		t.Errorf("warning must name both the margin and the floor: %q", out.Warnings[0])
	}
	if !out.IsValid {
		t.Error("a floor warning alone must not invalidate the record")
	}
}

func TestValidateSaaSFloorOverride(t *testing.T) {
	in := &FinancialInput{
		Industry:      IndustryTech,
		BusinessModel: "saas",
		GrossMargin:   f(65),
	}

	out := Validate(in)

	// 65% clears the tech floor (60) but not the SaaS floor (70).
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "70%") {
		t.Errorf("expected a 70%% floor warning, got %v", out.Warnings)
	}
}

func TestValidateGrossMarginExtremes(t *testing.T) {
	high := Validate(&FinancialInput{Industry: IndustryTech, GrossMargin: f(95)})
	if len(high.Warnings) != 1 || !strings.Contains(high.Warnings[0], "90%") {
		t.Errorf("expected sustainability warning above 90%%, got %v", high.Warnings)
	}
	if !high.IsValid {
		t.Error("95% margin is a warning, not a critical issue")
	}

	low := Validate(&FinancialInput{Industry: IndustryRetail, GrossMargin: f(6)})
	if len(low.CriticalIssues) != 1 {
		t.Errorf("expected broken-unit-economics critical below 10%%, got %v", low.CriticalIssues)
	}
	if low.IsValid {
		t.Error("sub-10% margin must invalidate the record")
	}
	// the floor warning for retail (25%) fires independently
	if len(low.Warnings) != 1 {
		t.Errorf("floor warning should also fire, got %v", low.Warnings)
	}
}

// Decreasing the margin below the floor adds the floor warning without
// removing anything already flagged.
func TestValidateMonotonicity(t *testing.T) {
	base := &FinancialInput{
		Industry:              IndustryConsulting,
		GrossMargin:           f(50),
		CustomerConcentration: "high",
	}
	above := Validate(base)

	below := *base
	below.GrossMargin = f(35)
	under := Validate(&below)

	if len(under.Warnings) != len(above.Warnings)+1 {
		t.Errorf("expected exactly one added warning: %v vs %v", above.Warnings, under.Warnings)
	}
	if len(under.CriticalIssues) != len(above.CriticalIssues) {
		t.Errorf("lowering the margin must not remove critical issues: %v vs %v",
			above.CriticalIssues, under.CriticalIssues)
	}
}

func TestValidateCustomerConcentration(t *testing.T) {
	high := Validate(&FinancialInput{Industry: IndustryOther, CustomerConcentration: "high"})
	if len(high.CriticalIssues) != 1 || high.IsValid {
		t.Errorf("high concentration is critical, got %+v", high)
	}

	medium := Validate(&FinancialInput{Industry: IndustryOther, CustomerConcentration: "medium"})
	if len(medium.Warnings) != 1 || len(medium.CriticalIssues) != 0 {
		t.Errorf("medium concentration is a warning, got %+v", medium)
	}

	low := Validate(&FinancialInput{Industry: IndustryOther, CustomerConcentration: "low"})
	if len(low.Warnings) != 0 && len(low.CriticalIssues) != 0 {
		t.Errorf("low concentration must not flag, got %+v", low)
	}
}

func TestValidateDebtToRevenue(t *testing.T) {
	critical := Validate(&FinancialInput{
		Industry:     IndustryOther,
		ExactRevenue: f(5_000_000),
		TotalDebt:    f(12_000_000),
	})
	if len(critical.CriticalIssues) != 1 {
		t.Errorf("2.4x debt is critical, got %+v", critical)
	}

	warning := Validate(&FinancialInput{
		Industry:     IndustryOther,
		ExactRevenue: f(5_000_000),
		TotalDebt:    f(7_500_000),
	})
	if len(warning.Warnings) != 1 || len(warning.CriticalIssues) != 0 {
		t.Errorf("1.5x debt is a warning, got %+v", warning)
	}

	exact2 := Validate(&FinancialInput{
		Industry:     IndustryOther,
		ExactRevenue: f(5_000_000),
		TotalDebt:    f(10_000_000),
	})
	if len(exact2.CriticalIssues) != 0 || len(exact2.Warnings) != 1 {
		t.Errorf("exactly 2.0x sits in the warning band, got %+v", exact2)
	}
}

func TestValidateLicensesAndPaymentTerms(t *testing.T) {
	atRisk := Validate(&FinancialInput{Industry: IndustryOther, RegulatoryLicenses: "at_risk"})
	if len(atRisk.CriticalIssues) != 1 {
		t.Errorf("at_risk licensing is critical, got %+v", atRisk)
	}

	complex := Validate(&FinancialInput{Industry: IndustryOther, RegulatoryLicenses: "complex"})
	if len(complex.Warnings) != 1 || len(complex.CriticalIssues) != 0 {
		t.Errorf("complex licensing is a warning, got %+v", complex)
	}

	terms := Validate(&FinancialInput{Industry: IndustryOther, PaymentTermsDays: f(90)})
	if len(terms.Warnings) != 1 || !strings.Contains(terms.Warnings[0], "90") {
		t.Errorf("90-day terms warning expected, got %+v", terms)
	}

	okTerms := Validate(&FinancialInput{Industry: IndustryOther, PaymentTermsDays: f(30)})
	if len(okTerms.Warnings) != 0 {
		t.Errorf("30-day terms must not warn, got %+v", okTerms)
	}
}

// Restaurant EBITDA margin and gross margin are different checks on different
// fields. A 10% EBITDA margin with no gross margin supplied must not trip the
// 60% gross margin floor.
func TestValidateEBITDAMarginIndependentOfGrossFloor(t *testing.T) {
	in := &FinancialInput{
		Industry:       IndustryRestaurant,
		ExactRevenue:   f(10_000_000),
		OperatingCosts: f(9_000_000),
	}

	out := Validate(in)

	if len(out.Warnings) != 0 || len(out.CriticalIssues) != 0 {
		t.Errorf("no gross margin supplied, nothing should fire: %+v", out)
	}
}

func TestValidateMissingFieldsNeverCrash(t *testing.T) {
	out := Validate(&FinancialInput{Industry: IndustryOther})

	if !out.IsValid {
		t.Error("an empty record has no critical issues")
	}
	if out.Warnings == nil || out.CriticalIssues == nil {
		t.Error("outcome slices must be non-nil for JSON serialization")
	}
}
