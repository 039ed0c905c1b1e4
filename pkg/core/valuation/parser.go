package valuation

import (
	"fmt"

	"bolagsbron/pkg/core/utils"
)

// wireResult mirrors the JSON object the model is instructed to return.
// Range values arrive in MSEK.
type wireResult struct {
	ValuationRange struct {
		Min        float64 `json:"min"`
		Max        float64 `json:"max"`
		MostLikely float64 `json:"mostLikely"`
	} `json:"valuationRange"`
	Method      string `json:"method"`
	Methodology struct {
		Multipel        string `json:"multipel"`
		Avkastningskrav string `json:"avkastningskrav"`
		Substans        string `json:"substans"`
	} `json:"methodology"`
	Analysis struct {
		Strengths     []string `json:"strengths"`
		Weaknesses    []string `json:"weaknesses"`
		Opportunities []string `json:"opportunities"`
		Risks         []string `json:"risks"`
	} `json:"analysis"`
	Recommendations []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Impact      string `json:"impact"`
	} `json:"recommendations"`
	MarketComparison string `json:"marketComparison"`
	KeyMetrics       []struct {
		Label string `json:"label"`
		Value string `json:"value"`
	} `json:"keyMetrics"`
}

// Parse extracts a ValuationResult from the model's free-form response text.
// Parsing is never allowed to surface as an error: any failure (no JSON
// object, unrepairable JSON, missing required fields) diverts to the
// deterministic fallback on the original input. Successful parses are
// clamped before returning.
func Parse(raw string, original *FinancialInput) *ValuationResult {
	cleaned := utils.StripCodeFences(raw)

	obj, ok := utils.ExtractJSONObject(cleaned)
	if !ok {
		fmt.Printf("[VALUATION] No JSON object in model response, using fallback\n")
		return Estimate(original)
	}

	var wire wireResult
	if err := utils.LenientUnmarshal(obj, &wire); err != nil {
		fmt.Printf("[VALUATION] Unparseable model response (%v), using fallback\n", err)
		return Estimate(original)
	}

	r := wire.ValuationRange
	if r.Min <= 0 || r.Max <= 0 || r.MostLikely <= 0 || r.Max < r.Min {
		fmt.Printf("[VALUATION] Model range rejected (min=%.2f max=%.2f mostLikely=%.2f), using fallback\n",
			r.Min, r.Max, r.MostLikely)
		return Estimate(original)
	}

	result := &ValuationResult{
		ValuationRange: ClampRange(Range{Min: r.Min, Max: r.Max, MostLikely: r.MostLikely}),
		Method:         wire.Method,
		Methodology: Methodology{
			Multipel:        wire.Methodology.Multipel,
			Avkastningskrav: wire.Methodology.Avkastningskrav,
			Substans:        wire.Methodology.Substans,
		},
		Analysis: Analysis{
			Strengths:     orEmpty(wire.Analysis.Strengths),
			Weaknesses:    orEmpty(wire.Analysis.Weaknesses),
			Opportunities: orEmpty(wire.Analysis.Opportunities),
			Risks:         orEmpty(wire.Analysis.Risks),
		},
		MarketComparison: wire.MarketComparison,
	}
	if result.Method == "" {
		result.Method = "Multipelvärdering (EBITDA)"
	}

	result.Recommendations = make([]Recommendation, 0, len(wire.Recommendations))
	for _, rec := range wire.Recommendations {
		impact := rec.Impact
		switch impact {
		case "high", "medium", "low":
		default:
			impact = "medium"
		}
		result.Recommendations = append(result.Recommendations, Recommendation{
			Title:       rec.Title,
			Description: rec.Description,
			Impact:      impact,
		})
	}

	result.KeyMetrics = make([]KeyMetric, 0, len(wire.KeyMetrics))
	for _, km := range wire.KeyMetrics {
		result.KeyMetrics = append(result.KeyMetrics, KeyMetric{Label: km.Label, Value: km.Value})
	}

	return result
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
