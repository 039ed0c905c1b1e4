package valuation

// Industry is a closed set of supported industry classifications. Keeping it
// as a tagged type (instead of raw strings from the form) lets the rule
// tables below be exhaustive switches checked by the compiler, with unknown
// tags collapsing to IndustryOther's default calibration row.
type Industry int

const (
	IndustryOther Industry = iota
	IndustryTech
	IndustryEcommerce
	IndustryConsulting
	IndustryManufacturing
	IndustryRetail
	IndustryRestaurant
	IndustryServices
	IndustryConstruction
)

// ParseIndustry maps a raw form tag to an Industry. Unknown tags map to
// IndustryOther rather than erroring: classification is advisory, not fatal.
func ParseIndustry(tag string) Industry {
	switch tag {
	case "tech", "it", "software":
		return IndustryTech
	case "ecommerce", "e-commerce", "e-handel":
		return IndustryEcommerce
	case "consulting", "konsult":
		return IndustryConsulting
	case "manufacturing", "tillverkning":
		return IndustryManufacturing
	case "retail", "detaljhandel":
		return IndustryRetail
	case "restaurant", "restaurang":
		return IndustryRestaurant
	case "services", "tjänster":
		return IndustryServices
	case "construction", "bygg":
		return IndustryConstruction
	default:
		return IndustryOther
	}
}

// Label returns the Swedish display name used in briefs and reports.
func (i Industry) Label() string {
	switch i {
	case IndustryTech:
		return "Teknik/IT"
	case IndustryEcommerce:
		return "E-handel"
	case IndustryConsulting:
		return "Konsultverksamhet"
	case IndustryManufacturing:
		return "Tillverkning"
	case IndustryRetail:
		return "Detaljhandel"
	case IndustryRestaurant:
		return "Restaurang"
	case IndustryServices:
		return "Tjänsteföretag"
	case IndustryConstruction:
		return "Bygg och anläggning"
	default:
		return "Övrigt"
	}
}

// EBITDAMultiple returns the base EV/EBITDA multiple for the industry, used
// by the fallback estimator. These are calibration constants for Swedish SME
// transactions, not placeholders.
func (i Industry) EBITDAMultiple() float64 {
	switch i {
	case IndustryTech:
		return 6.0
	case IndustryEcommerce:
		return 3.5
	case IndustryConsulting:
		return 4.5
	case IndustryManufacturing:
		return 5.5
	case IndustryRetail:
		return 4.0
	case IndustryRestaurant:
		return 3.0
	case IndustryServices:
		return 4.5
	case IndustryConstruction:
		return 5.0
	default:
		return 4.0
	}
}

// RevenueMultiple returns the base EV/revenue multiple for the industry.
func (i Industry) RevenueMultiple() float64 {
	switch i {
	case IndustryTech:
		return 2.5
	case IndustryEcommerce:
		return 2.0
	case IndustryConsulting:
		return 1.5
	case IndustryManufacturing:
		return 1.2
	case IndustryRetail:
		return 0.8
	case IndustryRestaurant:
		return 0.6
	case IndustryServices:
		return 1.3
	case IndustryConstruction:
		return 1.0
	default:
		return 1.0
	}
}

// GrossMarginFloor returns the minimum acceptable gross margin (percent) for
// the industry. A SaaS business model overrides the tech floor.
func (i Industry) GrossMarginFloor(businessModel string) float64 {
	if i == IndustryTech && businessModel == "saas" {
		return 70
	}
	switch i {
	case IndustryTech:
		return 60
	case IndustryEcommerce:
		return 30
	case IndustryConsulting:
		return 40
	case IndustryManufacturing:
		return 30
	case IndustryRetail:
		return 25
	case IndustryRestaurant:
		return 60
	case IndustryServices:
		return 40
	case IndustryConstruction:
		return 30
	default:
		return 30
	}
}
