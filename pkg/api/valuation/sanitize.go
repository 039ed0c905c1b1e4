package valuation

import (
	"fmt"
	"strings"

	core "bolagsbron/pkg/core/valuation"
)

// SanitizeResult is the sanitizer verdict. Sanitized is only set when Valid.
type SanitizeResult struct {
	Valid     bool                 `json:"valid"`
	Errors    []string             `json:"errors"`
	Sanitized *core.FinancialInput `json:"-"`
}

// enum fields and the values the form may send for them
var enumFields = map[string][]string{
	"profitMargin":          {"", "negative", "0-10", "10-20", "20+"},
	"revenueTrend":          {"", "declining", "stable", "growing", "strong_growth"},
	"customerConcentration": {"", "low", "medium", "high"},
	"regulatoryLicenses":    {"", "none", "standard", "complex", "at_risk"},
}

// Sanitize normalizes a decoded payload into the immutable input record the
// engine works on. Requires company name and a recognizable industry tag;
// everything else is optional but must be well-formed when present.
func Sanitize(raw *core.FinancialInput) SanitizeResult {
	var errs []string

	in := *raw // shallow copy; the caller's struct is left alone

	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.IndustryTag = strings.ToLower(strings.TrimSpace(in.IndustryTag))
	in.BusinessModel = strings.ToLower(strings.TrimSpace(in.BusinessModel))
	in.EmployeeCount = strings.TrimSpace(in.EmployeeCount)
	in.CompanyAge = strings.TrimSpace(in.CompanyAge)
	in.RevenueRange = strings.TrimSpace(in.RevenueRange)
	in.ProfitMargin = strings.ToLower(strings.TrimSpace(in.ProfitMargin))
	in.RevenueTrend = strings.ToLower(strings.TrimSpace(in.RevenueTrend))
	in.CustomerConcentration = strings.ToLower(strings.TrimSpace(in.CustomerConcentration))
	in.RegulatoryLicenses = strings.ToLower(strings.TrimSpace(in.RegulatoryLicenses))
	in.Metrics.ContractType = strings.ToLower(strings.TrimSpace(in.Metrics.ContractType))
	in.Metrics.CustomerConcentration = strings.ToLower(strings.TrimSpace(in.Metrics.CustomerConcentration))

	if in.CompanyName == "" {
		errs = append(errs, "companyName är obligatoriskt")
	}
	if in.IndustryTag == "" {
		errs = append(errs, "industry är obligatoriskt")
	}
	in.Industry = core.ParseIndustry(in.IndustryTag)

	for field, allowed := range enumFields {
		var value string
		switch field {
		case "profitMargin":
			value = in.ProfitMargin
		case "revenueTrend":
			value = in.RevenueTrend
		case "customerConcentration":
			value = in.CustomerConcentration
		case "regulatoryLicenses":
			value = in.RegulatoryLicenses
		}
		if !contains(allowed, value) {
			errs = append(errs, fmt.Sprintf("%s har ogiltigt värde %q", field, value))
		}
	}

	checkNonNegative := func(name string, v *float64) {
		if v != nil && *v < 0 {
			errs = append(errs, fmt.Sprintf("%s får inte vara negativt", name))
		}
	}
	checkNonNegative("exactRevenue", in.ExactRevenue)
	checkNonNegative("operatingCosts", in.OperatingCosts)
	checkNonNegative("costOfGoods", in.CostOfGoods)
	checkNonNegative("salaries", in.Salaries)
	checkNonNegative("marketingCosts", in.MarketingCosts)
	checkNonNegative("rent", in.Rent)
	checkNonNegative("totalDebt", in.TotalDebt)
	checkNonNegative("paymentTermsDays", in.PaymentTermsDays)

	if in.GrossMargin != nil && (*in.GrossMargin < -100 || *in.GrossMargin > 100) {
		errs = append(errs, "grossMargin måste ligga mellan -100 och 100")
	}

	if len(errs) > 0 {
		return SanitizeResult{Valid: false, Errors: errs}
	}
	return SanitizeResult{Valid: true, Errors: []string{}, Sanitized: &in}
}

func contains(allowed []string, v string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
