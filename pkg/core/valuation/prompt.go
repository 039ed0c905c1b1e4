package valuation

import (
	"fmt"
	"strings"
)

// SystemPrompt is the fixed instruction sent with every estimation brief.
const SystemPrompt = "Du är en erfaren företagsmäklare och värderare av svenska små- och medelstora bolag. " +
	"Du värderar alltid utifrån faktiska siffror, svenska transaktionsmultiplar och försiktighetsprincipen. " +
	"Svara enbart med ett JSON-objekt enligt angivet schema."

// responseSchema describes the JSON object the model must return. The range
// is expressed in MSEK; clamping to kronor happens in ClampRange.
const responseSchema = `{
  "valuationRange": {"min": <MSEK>, "max": <MSEK>, "mostLikely": <MSEK>},
  "method": "<dominerande metod>",
  "methodology": {"multipel": "...", "avkastningskrav": "...", "substans": "..."},
  "analysis": {"strengths": [...], "weaknesses": [...], "opportunities": [...], "risks": [...]},
  "recommendations": [{"title": "...", "description": "...", "impact": "high|medium|low"}],
  "marketComparison": "...",
  "keyMetrics": [{"label": "...", "value": "..."}]
}`

// Compose assembles the natural-language estimation brief from the sanitized
// input, optional enriched registry data, and the validator/rule outputs.
// Pure string construction: the only numeric work is the EBITDA derivation
// and its plausibility band check.
func Compose(in *FinancialInput, enriched string, vo ValidationOutcome, ca ConditionalAdjustments) string {
	var b strings.Builder

	b.WriteString("VÄRDERINGSUNDERLAG\n\n")
	fmt.Fprintf(&b, "Bolag: %s\n", in.CompanyName)
	fmt.Fprintf(&b, "Bransch: %s\n", in.Industry.Label())
	if in.BusinessModel != "" {
		fmt.Fprintf(&b, "Affärsmodell: %s\n", in.BusinessModel)
	}
	if in.EmployeeCount != "" {
		fmt.Fprintf(&b, "Antal anställda: %s\n", in.EmployeeCount)
	}
	if in.CompanyAge != "" {
		fmt.Fprintf(&b, "Bolagets ålder: %s år\n", in.CompanyAge)
	}
	if in.RevenueTrend != "" {
		fmt.Fprintf(&b, "Omsättningstrend: %s\n", in.RevenueTrend)
	}

	b.WriteString("\nFINANSIELLA UPPGIFTER\n")
	if in.ExactRevenue != nil {
		fmt.Fprintf(&b, "Omsättning: %.0f SEK\n", *in.ExactRevenue)
	} else if in.RevenueRange != "" {
		fmt.Fprintf(&b, "Omsättningsintervall: %s MSEK\n", in.RevenueRange)
	}
	if in.OperatingCosts != nil {
		fmt.Fprintf(&b, "Rörelsekostnader: %.0f SEK\n", *in.OperatingCosts)
	}
	if in.ProfitMargin != "" {
		fmt.Fprintf(&b, "Vinstmarginalintervall: %s%%\n", in.ProfitMargin)
	}
	if in.GrossMargin != nil {
		fmt.Fprintf(&b, "Bruttomarginal: %.1f%%\n", *in.GrossMargin)
	}
	if in.TotalDebt != nil {
		fmt.Fprintf(&b, "Total skuld: %.0f SEK\n", *in.TotalDebt)
	}

	// Derived EBITDA with plausibility band for the stated industry
	if in.ExactRevenue != nil && in.OperatingCosts != nil && *in.ExactRevenue > 0 {
		ebitda := *in.ExactRevenue - *in.OperatingCosts
		margin := ebitda / *in.ExactRevenue * 100
		fmt.Fprintf(&b, "Beräknad EBITDA: %.0f SEK (marginal %.1f%%)\n", ebitda, margin)
		if margin < 5 {
			fmt.Fprintf(&b, "OBS: EBITDA-marginal %.1f%% är ovanligt låg för %s - väg in turnaround-risk.\n",
				margin, in.Industry.Label())
		} else if margin > 40 {
			fmt.Fprintf(&b, "OBS: EBITDA-marginal %.1f%% är ovanligt hög för %s - verifiera att alla kostnader ingår.\n",
				margin, in.Industry.Label())
		}
	}

	writeMetrics(&b, in)

	if len(vo.Warnings) > 0 || len(vo.CriticalIssues) > 0 {
		b.WriteString("\nDATAKVALITET\n")
		for _, w := range vo.Warnings {
			fmt.Fprintf(&b, "Varning: %s\n", w)
		}
		for _, c := range vo.CriticalIssues {
			fmt.Fprintf(&b, "KRITISKT: %s\n", c)
		}
	}

	if len(ca.Warnings) > 0 || len(ca.Adjustments) > 0 || len(ca.CriticalFlags) > 0 {
		b.WriteString("\nBRANSCHSPECIFIKA JUSTERINGAR\n")
		for _, c := range ca.CriticalFlags {
			fmt.Fprintf(&b, "KRITISKT: %s\n", c)
		}
		for _, a := range ca.Adjustments {
			fmt.Fprintf(&b, "Justering: %s\n", a)
		}
		for _, w := range ca.Warnings {
			fmt.Fprintf(&b, "Varning: %s\n", w)
		}
	}

	writeQualitative(&b, in)

	if enriched != "" {
		b.WriteString("\nEXTERN BOLAGSDATA\n")
		b.WriteString(enriched)
		b.WriteString("\n")
	}

	b.WriteString("\nMETODIK\n")
	b.WriteString("Värdera bolaget med (1) EBITDA-multipel kalibrerad mot svenska SME-transaktioner i branschen, ")
	b.WriteString("(2) avkastningsvärdering (EBIT delat med avkastningskrav 15-25% beroende på risk), ")
	b.WriteString("(3) omsättningsmultipel som kontrollvärde. Väg samman metoderna och ange ett intervall ")
	b.WriteString("där max är högst 2,5 gånger min. Tillämpa justeringarna ovan på multipeln.\n")

	b.WriteString("\nSvara med exakt detta JSON-schema, alla belopp i MSEK:\n")
	b.WriteString(responseSchema)
	b.WriteString("\n")

	return b.String()
}

func writeMetrics(b *strings.Builder, in *FinancialInput) {
	m := in.Metrics
	var lines []string
	addF := func(label string, v *float64, unit string) {
		if v != nil {
			lines = append(lines, fmt.Sprintf("%s: %.1f%s", label, *v, unit))
		}
	}

	switch in.Industry {
	case IndustryEcommerce:
		addF("Kundanskaffningskostnad (CAC)", m.CustomerAcquisitionCost, " SEK")
		addF("Kundlivstidsvärde (LTV)", m.LifetimeValue, " SEK")
		addF("Återköpsgrad", m.RepeatCustomerRate, "%")
	case IndustryTech:
		addF("Månatlig återkommande intäkt (MRR)", m.MonthlyRecurringRevenue, " SEK")
		addF("Årlig churn", m.CustomerChurn, "%")
		addF("Net revenue retention", m.NetRevenueRetention, "%")
		addF("CAC payback", m.CACPaybackMonths, " månader")
	case IndustryRestaurant:
		addF("Råvarukostnad", m.FoodCostPercentage, "%")
		addF("Personalkostnad", m.LaborCostPercentage, "%")
		addF("Lokalhyra", m.LocationRent, " SEK/år")
	case IndustryConsulting, IndustryServices:
		addF("Beläggningsgrad", m.UtilizationRate, "%")
		addF("Förnyelsegrad", m.ContractRenewalRate, "%")
	case IndustryManufacturing:
		addF("Kapacitetsutnyttjande", m.ProductionCapacity, "%")
		addF("Orderstock", m.OrderBacklog, " SEK")
		if m.CustomerConcentration != "" {
			lines = append(lines, fmt.Sprintf("Storkundsberoende: %s", m.CustomerConcentration))
		}
	case IndustryConstruction:
		addF("Projektmarginal", m.ProjectMargin, "%")
		if m.ContractType != "" {
			lines = append(lines, fmt.Sprintf("Avtalstyp: %s", m.ContractType))
		}
	case IndustryRetail:
		addF("Lageromsättningshastighet", m.InventoryTurnover, "x")
		addF("Återstående hyrestid", m.LeaseLength, " år")
	case IndustryOther:
	}

	if len(lines) > 0 {
		b.WriteString("\nBRANSCHNYCKELTAL\n")
		for _, l := range lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
}

func writeQualitative(b *strings.Builder, in *FinancialInput) {
	var lines []string
	add := func(label, v string) {
		if v != "" {
			lines = append(lines, label+": "+v)
		}
	}
	add("Kundbas", in.CustomerBase)
	add("Konkurrensfördelar", in.CompetitiveAdvantage)
	add("Tillväxtplaner", in.GrowthPlans)
	add("Utmaningar", in.Challenges)

	if len(lines) > 0 {
		b.WriteString("\nKVALITATIV BESKRIVNING\n")
		for _, l := range lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
}
