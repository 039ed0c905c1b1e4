// Package valuation implements the rule-based estimation engine behind
// the marketplace's AI-assisted company valuation: input validation,
// industry-specific adjustment rules, prompt composition for the external
// model, lenient response parsing, range clamping and a fully deterministic
// fallback estimator.
package valuation

// FinancialInput is the sanitized request record. It is never mutated after
// sanitization; every function in this package is a pure transform over it.
// Pointer fields distinguish "absent" from zero.
type FinancialInput struct {
	CompanyName   string   `json:"companyName"`
	Industry      Industry `json:"-"`
	IndustryTag   string   `json:"industry"`
	BusinessModel string   `json:"businessModel,omitempty"`

	// Scale buckets (form selections, e.g. "0", "1-5", "6-20")
	EmployeeCount string `json:"employeeCount,omitempty"`
	CompanyAge    string `json:"companyAge,omitempty"`

	// Exact figures in SEK
	ExactRevenue   *float64 `json:"exactRevenue,omitempty"`
	OperatingCosts *float64 `json:"operatingCosts,omitempty"`
	CostOfGoods    *float64 `json:"costOfGoods,omitempty"`
	Salaries       *float64 `json:"salaries,omitempty"`
	MarketingCosts *float64 `json:"marketingCosts,omitempty"`
	Rent           *float64 `json:"rent,omitempty"`

	// Bucketed figures, used when exact ones are missing
	RevenueRange string `json:"revenueRange,omitempty"` // MSEK band, e.g. "1-5"
	ProfitMargin string `json:"profitMargin,omitempty"` // "negative", "0-10", "10-20", "20+"
	RevenueTrend string `json:"revenueTrend,omitempty"` // "declining", "stable", "growing", "strong_growth"

	// Ratios and risk flags
	GrossMargin           *float64 `json:"grossMargin,omitempty"` // percent
	CustomerConcentration string   `json:"customerConcentration,omitempty"`
	TotalDebt             *float64 `json:"totalDebt,omitempty"`
	RegulatoryLicenses    string   `json:"regulatoryLicenses,omitempty"` // "none", "standard", "complex", "at_risk"
	PaymentTermsDays      *float64 `json:"paymentTermsDays,omitempty"`

	Metrics IndustryMetrics `json:"industryMetrics,omitempty"`

	// Free-text qualitative fields, passed through to the brief
	CustomerBase         string `json:"customerBase,omitempty"`
	CompetitiveAdvantage string `json:"competitiveAdvantage,omitempty"`
	GrowthPlans          string `json:"growthPlans,omitempty"`
	Challenges           string `json:"challenges,omitempty"`
}

// IndustryMetrics is a bag of industry-specific fields. Only the subset
// relevant for the declared industry is ever inspected.
type IndustryMetrics struct {
	// e-commerce
	CustomerAcquisitionCost *float64 `json:"customerAcquisitionCost,omitempty"`
	LifetimeValue           *float64 `json:"lifetimeValue,omitempty"`
	RepeatCustomerRate      *float64 `json:"repeatCustomerRate,omitempty"` // percent

	// SaaS
	MonthlyRecurringRevenue *float64 `json:"monthlyRecurringRevenue,omitempty"` // SEK
	CustomerChurn           *float64 `json:"customerChurn,omitempty"`           // percent per year
	NetRevenueRetention     *float64 `json:"netRevenueRetention,omitempty"`     // percent
	CACPaybackMonths        *float64 `json:"cacPaybackMonths,omitempty"`

	// restaurant
	FoodCostPercentage *float64 `json:"foodCostPercentage,omitempty"`
	LaborCostPercentage *float64 `json:"laborCostPercentage,omitempty"`
	LocationRent        *float64 `json:"locationRent,omitempty"` // SEK per year

	// consulting / services
	UtilizationRate     *float64 `json:"utilizationRate,omitempty"`     // percent
	ContractRenewalRate *float64 `json:"contractRenewalRate,omitempty"` // percent

	// manufacturing
	ProductionCapacity    *float64 `json:"productionCapacity,omitempty"` // percent utilization
	OrderBacklog          *float64 `json:"orderBacklog,omitempty"`       // SEK
	CustomerConcentration string   `json:"customerConcentration,omitempty"` // "yes" / "no"

	// construction
	ProjectMargin *float64 `json:"projectMargin,omitempty"`
	ContractType  string   `json:"contractType,omitempty"` // "fixed_price", "hourly", "mixed"

	// retail
	InventoryTurnover *float64 `json:"inventoryTurnover,omitempty"`
	LeaseLength       *float64 `json:"leaseLength,omitempty"` // years remaining
}

// ValidationOutcome holds the DataValidator verdict. IsValid is derived:
// a record is valid iff it has no critical issues.
type ValidationOutcome struct {
	Warnings       []string `json:"warnings"`
	CriticalIssues []string `json:"criticalIssues"`
	IsValid        bool     `json:"isValid"`
}

// ConditionalAdjustments holds the industry rule engine output. Adjustments
// are textual directives ("sänk multipeln med 30-40%") consumed by the
// estimation model, not computed numbers.
type ConditionalAdjustments struct {
	Warnings      []string `json:"warnings"`
	Adjustments   []string `json:"adjustments"`
	CriticalFlags []string `json:"criticalFlags"`
}

// Range is a valuation band. After clamping all three are absolute SEK
// integers with Min <= MostLikely <= Max.
type Range struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	MostLikely float64 `json:"mostLikely"`
}

// Methodology holds free-text rationale per sub-method. Swedish keys are the
// wire contract with the report templates.
type Methodology struct {
	Multipel        string `json:"multipel,omitempty"`
	Avkastningskrav string `json:"avkastningskrav,omitempty"`
	Substans        string `json:"substans,omitempty"`
}

// Analysis is the SWOT block of a valuation.
type Analysis struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Risks         []string `json:"risks"`
}

// Recommendation is one actionable item. Impact is "high", "medium" or "low".
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// KeyMetric is a label/value pair shown in the report header.
type KeyMetric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ValuationResult is the canonical output shape, produced either by parsing
// the model response or by the fallback estimator. Created once per request,
// clamped in place, never updated afterwards.
type ValuationResult struct {
	ValuationRange   Range            `json:"valuationRange"`
	Method           string           `json:"method"`
	Methodology      Methodology      `json:"methodology"`
	Analysis         Analysis         `json:"analysis"`
	Recommendations  []Recommendation `json:"recommendations"`
	MarketComparison string           `json:"marketComparison,omitempty"`
	KeyMetrics       []KeyMetric      `json:"keyMetrics"`
}
