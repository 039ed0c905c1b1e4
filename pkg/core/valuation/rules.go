package valuation

import "fmt"

// BuildConditionalPrompts applies the industry rule table to the record and
// returns warnings, adjustment directives and critical flags for the
// estimation brief. The thresholds and directions below are domain
// calibration facts; changing them changes valuations.
//
// Adjustment directives are natural-language instructions consumed by the
// estimation model. The fallback estimator deliberately does NOT apply them;
// it carries its own hard-coded multiplier table (see fallback.go).
func BuildConditionalPrompts(in *FinancialInput) ConditionalAdjustments {
	out := ConditionalAdjustments{
		Warnings:      []string{},
		Adjustments:   []string{},
		CriticalFlags: []string{},
	}

	switch in.Industry {
	case IndustryEcommerce:
		ecommerceRules(in, &out)
	case IndustryTech:
		if in.BusinessModel == "saas" {
			saasRules(in, &out)
		}
	case IndustryRestaurant:
		restaurantRules(in, &out)
	case IndustryConsulting, IndustryServices:
		consultingRules(in, &out)
	case IndustryManufacturing:
		manufacturingRules(in, &out)
	case IndustryRetail:
		retailRules(in, &out)
	case IndustryConstruction:
		constructionRules(in, &out)
	case IndustryOther:
		// no industry-specific rules
	}

	return out
}

func ecommerceRules(in *FinancialInput, out *ConditionalAdjustments) {
	m := in.Metrics
	if m.CustomerAcquisitionCost != nil && m.LifetimeValue != nil && *m.CustomerAcquisitionCost > 0 {
		ratio := *m.LifetimeValue / *m.CustomerAcquisitionCost
		if ratio < 3 {
			out.CriticalFlags = append(out.CriticalFlags, fmt.Sprintf(
				"LTV/CAC-kvot %.1f under 3 - enhetsekonomin täcker inte kundanskaffningen", ratio))
			out.Adjustments = append(out.Adjustments,
				"Sänk multipeln med 30-40% på grund av svag LTV/CAC-kvot")
		} else if ratio > 5 {
			out.Adjustments = append(out.Adjustments, fmt.Sprintf(
				"Höj multipeln med 15-20%% - LTV/CAC-kvot %.1f visar mycket effektiv kundanskaffning", ratio))
		}
	}
	if m.RepeatCustomerRate != nil && *m.RepeatCustomerRate < 20 {
		out.Warnings = append(out.Warnings, fmt.Sprintf(
			"Återköpsgrad %.0f%% under 20%% - tillväxten vilar helt på nykundsanskaffning", *m.RepeatCustomerRate))
		out.Adjustments = append(out.Adjustments,
			"Sänk multipeln med 10-15% på grund av låg återköpsgrad")
	}
}

func saasRules(in *FinancialInput, out *ConditionalAdjustments) {
	m := in.Metrics
	if m.MonthlyRecurringRevenue != nil && in.ExactRevenue != nil && *in.ExactRevenue > 0 {
		arrShare := (*m.MonthlyRecurringRevenue * 12) / *in.ExactRevenue
		if arrShare > 0.8 {
			out.Adjustments = append(out.Adjustments,
				"Använd SaaS-multipelbandet 6-12x EBITDA istället för 4-8x - över 80% av intäkterna är återkommande")
		}
	}
	if m.CustomerChurn != nil {
		churn := *m.CustomerChurn
		if churn > 10 {
			out.CriticalFlags = append(out.CriticalFlags, fmt.Sprintf(
				"Årlig churn %.1f%% över 10%% - kundbasen eroderar snabbare än branschnormen", churn))
			out.Adjustments = append(out.Adjustments,
				"Sänk multipeln med 30-50% på grund av hög churn")
		} else if churn < 5 {
			out.Adjustments = append(out.Adjustments, fmt.Sprintf(
				"Höj multipeln med 20-30%% - årlig churn %.1f%% visar stark kundlojalitet", churn))
		}
	}
	if m.NetRevenueRetention != nil {
		nrr := *m.NetRevenueRetention
		if nrr > 110 {
			out.Adjustments = append(out.Adjustments, fmt.Sprintf(
				"Använd premiumbandet 8-12x - NRR %.0f%% innebär negativ nettochurn", nrr))
		} else if nrr < 90 {
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"NRR %.0f%% under 90%% - befintliga kunder krymper", nrr))
			out.Adjustments = append(out.Adjustments,
				"Sänk multipeln med 15-25% på grund av svag nettoretention")
		}
	}
}

func restaurantRules(in *FinancialInput, out *ConditionalAdjustments) {
	m := in.Metrics
	if m.FoodCostPercentage != nil && m.LaborCostPercentage != nil {
		combined := *m.FoodCostPercentage + *m.LaborCostPercentage
		if combined > 70 {
			out.CriticalFlags = append(out.CriticalFlags, fmt.Sprintf(
				"Råvaru- och personalkostnad %.0f%% av omsättningen överstiger 70%% - marginalen är strukturellt pressad", combined))
			out.Adjustments = append(out.Adjustments,
				"Sänk multipeln med 30-40% på grund av ohållbar kostnadsstruktur")
		}
	}
	if m.LocationRent != nil && in.ExactRevenue != nil && *in.ExactRevenue > 0 {
		rentShare := *m.LocationRent / *in.ExactRevenue * 100
		if rentShare > 12 {
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"Lokalhyra %.1f%% av omsättningen över 12%% - lägesberoendet är en fast kostnadsrisk", rentShare))
		}
	}
}

func consultingRules(in *FinancialInput, out *ConditionalAdjustments) {
	m := in.Metrics
	if m.UtilizationRate != nil && *m.UtilizationRate < 60 {
		out.Warnings = append(out.Warnings, fmt.Sprintf(
			"Beläggningsgrad %.0f%% under 60%% - konsulterna debiterar för få timmar", *m.UtilizationRate))
		out.Adjustments = append(out.Adjustments,
			"Sänk multipeln med 15-20% på grund av låg beläggningsgrad")
	}
	if m.ContractRenewalRate != nil {
		renewal := *m.ContractRenewalRate
		if renewal < 70 {
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"Förnyelsegrad %.0f%% under 70%% - avtalsstocken måste återvinnas varje år", renewal))
			out.Adjustments = append(out.Adjustments,
				"Sänk multipeln med 10-15% på grund av låg förnyelsegrad")
		} else if renewal > 90 {
			out.Adjustments = append(out.Adjustments, fmt.Sprintf(
				"Höj multipeln med 10-15%% - förnyelsegrad %.0f%% ger återkommande intäktskaraktär", renewal))
		}
	}
}

func manufacturingRules(in *FinancialInput, out *ConditionalAdjustments) {
	m := in.Metrics
	if m.CustomerConcentration == "yes" {
		out.CriticalFlags = append(out.CriticalFlags,
			"Beroende av enskild storkund - bortfall slår direkt mot produktionsvolymen")
		out.Adjustments = append(out.Adjustments,
			"Sänk multipeln med 25-35% på grund av kundkoncentration")
	}
	if m.ProductionCapacity != nil {
		util := *m.ProductionCapacity
		if util < 50 {
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"Kapacitetsutnyttjande %.0f%% under 50%% - fasta kostnader bärs av för låg volym", util))
			out.Adjustments = append(out.Adjustments,
				"Sänk multipeln med 15-20% på grund av lågt kapacitetsutnyttjande")
		} else if util > 95 {
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"Kapacitetsutnyttjande %.0f%% över 95%% - tillväxt kräver investeringar i ny kapacitet", util))
		}
	}
}

func retailRules(in *FinancialInput, out *ConditionalAdjustments) {
	m := in.Metrics
	if m.LeaseLength != nil && *m.LeaseLength < 2 {
		out.Warnings = append(out.Warnings, fmt.Sprintf(
			"Hyresavtal med %.1f år kvar - läget kan gå förlorat vid omförhandling", *m.LeaseLength))
		out.Adjustments = append(out.Adjustments,
			"Sänk multipeln med 10-15% på grund av kort återstående hyrestid")
	}
}

func constructionRules(in *FinancialInput, out *ConditionalAdjustments) {
	if in.Metrics.ContractType == "fixed_price" {
		out.Warnings = append(out.Warnings,
			"Fastprisavtal dominerar - kostnadsöverdrag bärs av bolaget")
		out.Adjustments = append(out.Adjustments,
			"Tillämpa projektriskrabatt på multipeln för fastprisexponeringen")
	}
}
