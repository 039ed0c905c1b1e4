package valuation

import "fmt"

// Calibration constants for the deterministic fallback path. The 0.88 EBIT
// haircut approximates normalized depreciation for Swedish SMEs; the blend
// weights favor the EBITDA multiple as the dominant method.
const (
	ebitHaircut        = 0.88
	baseRequiredReturn = 0.15
	maxRequiredReturn  = 0.25

	blendEBITDAWeight  = 0.5
	blendReturnWeight  = 0.3
	blendRevenueWeight = 0.2

	fallbackBandLow  = 0.7
	fallbackBandHigh = 1.4
)

// revenueBandMidpoint maps a revenue band selection to a representative MSEK
// midpoint. Unknown or missing bands assume a small business.
func revenueBandMidpoint(band string) float64 {
	switch band {
	case "0-1":
		return 0.5
	case "1-5":
		return 3
	case "5-10":
		return 7.5
	case "10-25":
		return 17.5
	case "25-50":
		return 37.5
	case "50-100":
		return 75
	case "100+":
		return 150
	default:
		return 3
	}
}

// marginBandFraction maps a profit margin band to a representative fraction.
func marginBandFraction(band string) float64 {
	switch band {
	case "negative":
		return -0.05
	case "0-10":
		return 0.05
	case "10-20":
		return 0.15
	case "20+":
		return 0.25
	default:
		return 0.10
	}
}

// marginBand derives a band label from an exact margin fraction, so the
// revenue-multiple adjustments work even when the form only carried exact
// figures.
func marginBand(fraction float64) string {
	switch {
	case fraction < 0:
		return "negative"
	case fraction >= 0.20:
		return "20+"
	case fraction >= 0.10:
		return "10-20"
	default:
		return "0-10"
	}
}

// Estimate is the deterministic valuation engine used when the external model
// is unavailable, errors out, or returns unparseable output. It never fails:
// missing data falls back to conservative band midpoints. Calling it twice
// with the same input yields identical output.
//
// Note that the rule engine's textual adjustment directives are NOT applied
// here; the fallback carries its own multiplier table. The two deliberately
// stay separate (see DESIGN.md).
func Estimate(in *FinancialInput) *ValuationResult {
	// 1. Revenue and EBITDA in MSEK
	var revenue, ebitda float64
	if in.ExactRevenue != nil && in.OperatingCosts != nil {
		revenue = *in.ExactRevenue / 1_000_000
		ebitda = (*in.ExactRevenue - *in.OperatingCosts) / 1_000_000
	} else {
		revenue = revenueBandMidpoint(in.RevenueRange)
		ebitda = revenue * marginBandFraction(in.ProfitMargin)
	}

	var marginFraction float64
	if revenue > 0 {
		marginFraction = ebitda / revenue
	}
	profitBand := in.ProfitMargin
	if profitBand == "" {
		profitBand = marginBand(marginFraction)
	}

	// 2. EBIT after the fixed depreciation haircut
	ebit := ebitda * ebitHaircut

	// 3. EBITDA multiple method
	multiple := in.Industry.EBITDAMultiple()
	if in.EmployeeCount == "0" {
		multiple *= 0.75
	}
	switch in.RevenueTrend {
	case "declining":
		multiple *= 0.80
	case "strong_growth":
		multiple *= 1.15
	}
	if marginFraction > 0.18 {
		multiple *= 1.1
	} else if marginFraction < 0.08 {
		multiple *= 0.9
	}
	ebitdaValue := ebitda * multiple

	// 4. Revenue multiple method
	revMultiple := in.Industry.RevenueMultiple()
	switch profitBand {
	case "20+":
		revMultiple *= 1.3
	case "10-20":
		revMultiple *= 1.1
	case "negative":
		revMultiple *= 0.5
	}
	revenueValue := revenue * revMultiple

	// 5. Capitalized earnings (avkastningsvärde)
	requiredReturn := baseRequiredReturn
	if in.EmployeeCount == "0" {
		requiredReturn += 0.03
	}
	if in.RevenueTrend == "declining" {
		requiredReturn += 0.02
	}
	if in.CompanyAge == "0-2" {
		requiredReturn += 0.03
	}
	if marginFraction < 0 {
		requiredReturn += 0.05
	}
	if requiredReturn > maxRequiredReturn {
		requiredReturn = maxRequiredReturn
	}
	returnValue := ebit / requiredReturn

	// 6. Blend. With non-positive margin the earnings methods are
	// meaningless, so the revenue multiple stands alone.
	var baseValue float64
	method := "Multipelvärdering (EBITDA)"
	if marginFraction <= 0 {
		baseValue = revenueValue
		method = "Omsättningsmultipel"
	} else {
		baseValue = blendEBITDAWeight*ebitdaValue +
			blendReturnWeight*returnValue +
			blendRevenueWeight*revenueValue
	}

	// 7. Band, then clamp into absolute kronor
	clamped := ClampRange(Range{
		Min:        baseValue * fallbackBandLow,
		Max:        baseValue * fallbackBandHigh,
		MostLikely: baseValue,
	})

	result := &ValuationResult{
		ValuationRange: clamped,
		Method:         method,
		Methodology: Methodology{
			Multipel: fmt.Sprintf(
				"EBITDA %.1f MSEK gånger branschjusterad multipel %.1fx ger %.1f MSEK",
				ebitda, multiple, ebitdaValue),
			Avkastningskrav: fmt.Sprintf(
				"EBIT %.1f MSEK kapitaliserat till avkastningskrav %.0f%% ger %.1f MSEK",
				ebit, requiredReturn*100, returnValue),
			Substans: fmt.Sprintf(
				"Omsättning %.1f MSEK gånger %.1fx som kontrollvärde ger %.1f MSEK",
				revenue, revMultiple, revenueValue),
		},
		Analysis:        fallbackAnalysis(in, marginFraction),
		Recommendations: fallbackRecommendations(),
		KeyMetrics: []KeyMetric{
			{Label: "Omsättning", Value: fmt.Sprintf("%.1f MSEK", revenue)},
			{Label: "EBITDA", Value: fmt.Sprintf("%.1f MSEK", ebitda)},
			{Label: "EBITDA-marginal", Value: fmt.Sprintf("%.1f%%", marginFraction*100)},
			{Label: "Värderingsmultipel", Value: fmt.Sprintf("%.1fx", multiple)},
		},
	}
	return result
}

// fallbackAnalysis populates the SWOT block from coarse signals. Categories
// never come back empty; generic filler keeps the report template happy.
func fallbackAnalysis(in *FinancialInput, marginFraction float64) Analysis {
	a := Analysis{
		Strengths:     []string{},
		Weaknesses:    []string{},
		Opportunities: []string{},
		Risks:         []string{},
	}

	switch in.RevenueTrend {
	case "strong_growth":
		a.Strengths = append(a.Strengths, "Stark omsättningstillväxt de senaste åren")
		a.Opportunities = append(a.Opportunities, "Tillväxttakten kan motivera premiumvärdering vid rätt köpare")
	case "growing":
		a.Strengths = append(a.Strengths, "Stabil omsättningstillväxt")
	case "declining":
		a.Weaknesses = append(a.Weaknesses, "Vikande omsättningstrend")
		a.Risks = append(a.Risks, "Fortsatt omsättningstapp pressar värdet ytterligare")
	}

	if marginFraction < 0 {
		a.Weaknesses = append(a.Weaknesses, "Negativt rörelseresultat")
		a.Risks = append(a.Risks, "Förlusttakt kräver kapitaltillskott eller omstrukturering")
	} else if marginFraction > 0.18 {
		a.Strengths = append(a.Strengths, "Lönsamhet över branschsnittet")
	}

	if in.EmployeeCount == "0" {
		a.Weaknesses = append(a.Weaknesses, "Verksamheten är helt beroende av ägaren")
		a.Risks = append(a.Risks, "Nyckelpersonsrisk vid ägarskifte")
	}

	if in.CustomerConcentration == "high" {
		a.Risks = append(a.Risks, "Hög kundkoncentration")
	}

	if len(a.Strengths) == 0 {
		a.Strengths = append(a.Strengths, "Etablerad verksamhet med dokumenterad intjäning")
	}
	if len(a.Weaknesses) == 0 {
		a.Weaknesses = append(a.Weaknesses, "Begränsat dataunderlag för djupare analys")
	}
	if len(a.Opportunities) == 0 {
		a.Opportunities = append(a.Opportunities, "Effektivisering och professionalisering under ny ägare")
	}
	if len(a.Risks) == 0 {
		a.Risks = append(a.Risks, "Generell marknads- och konjunkturrisk")
	}
	return a
}

// fallbackRecommendations returns the three standing high-impact items. The
// fallback does not personalize beyond the SWOT block.
func fallbackRecommendations() []Recommendation {
	return []Recommendation{
		{
			Title:       "Förbättra marginalen före försäljning",
			Description: "Varje procentenhet högre EBITDA-marginal slår igenom med full multipel på priset.",
			Impact:      "high",
		},
		{
			Title:       "Diversifiera kundbasen",
			Description: "Minska beroendet av enskilda kunder för att sänka köparens riskpremie.",
			Impact:      "high",
		},
		{
			Title:       "Dokumentera processer och avtal",
			Description: "Skriftliga rutiner och avtal minskar nyckelpersonsberoendet och kortar due diligence.",
			Impact:      "high",
		},
	}
}
