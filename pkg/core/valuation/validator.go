package valuation

import "fmt"

// Validate inspects a sanitized record for numeric impossibilities and
// industry-norm violations. All rules are independent and may fire together.
// Missing or non-numeric fields are skipped, never a failure: this function
// has no error path at all.
func Validate(in *FinancialInput) ValidationOutcome {
	out := ValidationOutcome{
		Warnings:       []string{},
		CriticalIssues: []string{},
	}

	// Gross margin against the industry floor
	if in.GrossMargin != nil {
		gm := *in.GrossMargin
		floor := in.Industry.GrossMarginFloor(in.BusinessModel)
		if gm < floor {
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"Bruttomarginal %.1f%% ligger under branschgolvet %.0f%% för %s",
				gm, floor, in.Industry.Label()))
		}
		if gm > 90 {
			out.Warnings = append(out.Warnings,
				"Bruttomarginal över 90% är sällan uthållig över tid - verifiera intäktsredovisningen")
		}
		if gm < 10 {
			out.CriticalIssues = append(out.CriticalIssues,
				"Bruttomarginal under 10% tyder på att enhetsekonomin inte går ihop")
		}
	}

	// Customer concentration
	switch in.CustomerConcentration {
	case "high":
		out.CriticalIssues = append(out.CriticalIssues,
			"Hög kundkoncentration - en enskild kund står för en kritisk andel av omsättningen")
	case "medium":
		out.Warnings = append(out.Warnings,
			"Måttlig kundkoncentration - beroendet av största kund bör belysas i due diligence")
	}

	// Debt relative to revenue
	if in.TotalDebt != nil && in.ExactRevenue != nil && *in.ExactRevenue > 0 {
		ratio := *in.TotalDebt / *in.ExactRevenue
		if ratio > 2 {
			out.CriticalIssues = append(out.CriticalIssues, fmt.Sprintf(
				"Skuldsättning %.1fx omsättningen - kritisk nivå som kraftigt påverkar förvärvsbarheten", ratio))
		} else if ratio > 1 {
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"Skuldsättning %.1fx omsättningen - hög belåning relativt verksamhetens storlek", ratio))
		}
	}

	// Regulatory licensing
	switch in.RegulatoryLicenses {
	case "at_risk":
		out.CriticalIssues = append(out.CriticalIssues,
			"Tillstånd eller licenser i riskzonen - verksamhetens kontinuitet kan inte garanteras")
	case "complex":
		out.Warnings = append(out.Warnings,
			"Komplex tillståndsbild - överlåtbarhet av licenser måste utredas")
	}

	// Payment terms
	if in.PaymentTermsDays != nil && *in.PaymentTermsDays > 60 {
		out.Warnings = append(out.Warnings, fmt.Sprintf(
			"Betalningsvillkor på %.0f dagar binder rörelsekapital", *in.PaymentTermsDays))
	}

	out.IsValid = len(out.CriticalIssues) == 0
	return out
}
