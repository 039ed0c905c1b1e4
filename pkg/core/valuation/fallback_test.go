package valuation

import (
	"math"
	"reflect"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestFallbackRestaurantExactFigures(t *testing.T) {
	in := &FinancialInput{
		CompanyName:    "Krog AB",
		Industry:       IndustryRestaurant,
		ExactRevenue:   f(10_000_000),
		OperatingCosts: f(9_000_000),
	}

	res := Estimate(in)

	// revenue = 10 MSEK, ebitda = 1 MSEK, margin = 10%
	// EBITDA method: base 3.0, no adjustments fire (margin in 0.08..0.18) => 3.0 MSEK
	// Revenue method: base 0.6 * 1.1 (derived band "10-20") => 6.6 MSEK
	// Return method: ebit 0.88 / 0.15 = 5.8667 MSEK
	// Blend: 0.5*3.0 + 0.3*(0.88/0.15) + 0.2*6.6 = 4.58 MSEK
	base := 0.5*3.0 + 0.3*(0.88/0.15) + 0.2*6.6
	wantMostLikely := math.Round(base * 1_000_000)
	wantMin := math.Round(base * 0.7 * 1_000_000)
	wantMax := math.Round(base * 1.4 * 1_000_000)

	r := res.ValuationRange
	if r.MostLikely != wantMostLikely {
		t.Errorf("mostLikely: expected %f, got %f", wantMostLikely, r.MostLikely)
	}
	if r.Min != wantMin || r.Max != wantMax {
		t.Errorf("band: expected [%f, %f], got [%f, %f]", wantMin, wantMax, r.Min, r.Max)
	}
	if res.Method != "Multipelvärdering (EBITDA)" {
		t.Errorf("unexpected method %q", res.Method)
	}
}

func TestFallbackNegativeMarginUsesRevenueOnly(t *testing.T) {
	in := &FinancialInput{
		Industry:     IndustryRetail,
		RevenueRange: "1-5",
		ProfitMargin: "negative",
	}

	res := Estimate(in)

	// revenue 3 MSEK, margin -5% => revenue method alone:
	// 3 * (0.8 * 0.5) = 1.2 MSEK. The weighted blend must not execute.
	revenueValue := 3 * 0.8 * 0.5
	want := math.Round(revenueValue * 1_000_000)
	if res.ValuationRange.MostLikely != want {
		t.Errorf("expected revenue-only base %f, got %f", want, res.ValuationRange.MostLikely)
	}
	if res.Method != "Omsättningsmultipel" {
		t.Errorf("expected revenue multiple method label, got %q", res.Method)
	}
}

func TestFallbackMultiplierAdjustments(t *testing.T) {
	in := &FinancialInput{
		Industry:      IndustryTech,
		RevenueRange:  "5-10",
		ProfitMargin:  "20+",
		EmployeeCount: "0",
		RevenueTrend:  "strong_growth",
		CompanyAge:    "0-2",
	}

	res := Estimate(in)

	// revenue 7.5, margin 0.25, ebitda 1.875, ebit 1.65
	// EBITDA multiple: 6.0 * 0.75 (no employees) * 1.15 (strong growth) * 1.1 (margin > 18%)
	// Revenue multiple: 2.5 * 1.3
	// Required return: 0.15 + 0.03 + 0.03 = 0.21 (declining not set)
	ebitda := 7.5 * 0.25
	ebit := ebitda * 0.88
	ebitdaValue := ebitda * (6.0 * 0.75 * 1.15 * 1.1)
	returnValue := ebit / (0.15 + 0.03 + 0.03)
	revenueValue := 7.5 * (2.5 * 1.3)
	base := 0.5*ebitdaValue + 0.3*returnValue + 0.2*revenueValue

	want := ClampRange(Range{Min: base * 0.7, Max: base * 1.4, MostLikely: base})
	if res.ValuationRange != want {
		t.Errorf("expected %+v, got %+v", want, res.ValuationRange)
	}
}

func TestFallbackRequiredReturnCap(t *testing.T) {
	in := &FinancialInput{
		Industry:      IndustryOther,
		RevenueRange:  "1-5",
		ProfitMargin:  "negative",
		EmployeeCount: "0",
		RevenueTrend:  "declining",
		CompanyAge:    "0-2",
	}

	// 0.15+0.03+0.02+0.03+0.05 = 0.28 caps at 0.25. The capped rate only
	// matters for the methodology text here since the negative-margin branch
	// values on revenue alone.
	res := Estimate(in)

	if res.ValuationRange.MostLikely <= 0 {
		t.Fatalf("estimate must stay positive, got %f", res.ValuationRange.MostLikely)
	}
	// revenue method: 3 * (1.0 * 0.5) * 0.8 trend? trend does not touch the
	// revenue multiple - only the EBITDA multiple. So 1.5 MSEK.
	want := math.Round(1.5 * 1_000_000)
	if res.ValuationRange.MostLikely != want {
		t.Errorf("expected %f, got %f", want, res.ValuationRange.MostLikely)
	}
}

func TestFallbackDeterminism(t *testing.T) {
	in := &FinancialInput{
		CompanyName:    "Verkstad i Väst AB",
		Industry:       IndustryManufacturing,
		ExactRevenue:   f(25_000_000),
		OperatingCosts: f(21_000_000),
		RevenueTrend:   "growing",
		EmployeeCount:  "6-20",
	}

	a := Estimate(in)
	b := Estimate(in)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("fallback must be byte-identical across calls:\n%+v\n%+v", a, b)
	}
}

func TestFallbackIgnoresAdjustmentDirectives(t *testing.T) {
	// The rule engine's directives are oracle-only. Two inputs differing only
	// in fields the rule engine reads (here: restaurant cost metrics) must
	// produce the same fallback range.
	base := &FinancialInput{
		Industry:       IndustryRestaurant,
		ExactRevenue:   f(10_000_000),
		OperatingCosts: f(9_000_000),
	}
	flagged := &FinancialInput{
		Industry:       IndustryRestaurant,
		ExactRevenue:   f(10_000_000),
		OperatingCosts: f(9_000_000),
		Metrics: IndustryMetrics{
			FoodCostPercentage:  f(45),
			LaborCostPercentage: f(30),
		},
	}

	if Estimate(base).ValuationRange != Estimate(flagged).ValuationRange {
		t.Error("fallback range must not depend on rule-engine-only metrics")
	}
}

func TestFallbackAnalysisNeverEmpty(t *testing.T) {
	res := Estimate(&FinancialInput{Industry: IndustryOther})

	a := res.Analysis
	if len(a.Strengths) == 0 || len(a.Weaknesses) == 0 ||
		len(a.Opportunities) == 0 || len(a.Risks) == 0 {
		t.Errorf("every SWOT category needs filler, got %+v", a)
	}
	if len(res.Recommendations) != 3 {
		t.Errorf("expected the three standing recommendations, got %d", len(res.Recommendations))
	}
	for _, r := range res.Recommendations {
		if r.Impact != "high" {
			t.Errorf("standing recommendations are high impact, got %q", r.Impact)
		}
	}
}
