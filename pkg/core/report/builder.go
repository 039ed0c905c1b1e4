// Package report assembles deal documents (valuation report, due diligence
// report, SPA draft) as structured sections with markdown bodies, plus an
// HTML rendering for download. Layout and PDF generation live elsewhere;
// the Document struct is the contract with any rendering sink.
package report

import (
	"fmt"
	"strings"
	"time"

	"bolagsbron/pkg/core/marketplace"
	"bolagsbron/pkg/core/utils"
	"bolagsbron/pkg/core/valuation"
)

// Section is one titled markdown block of a document.
type Section struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

// Document is a complete generated report.
type Document struct {
	Kind        string    `json:"kind"` // "valuation", "dd", "spa_draft"
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generatedAt"`
	Sections    []Section `json:"sections"`
}

// Markdown concatenates the document into a single markdown string.
func (d *Document) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	fmt.Fprintf(&b, "*Genererad %s*\n\n", d.GeneratedAt.Format("2006-01-02"))
	for _, s := range d.Sections {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", s.Title, s.Markdown)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// HTML renders the assembled markdown for the download endpoint.
func (d *Document) HTML() (string, error) {
	return utils.RenderHTML(d.Markdown())
}

func formatSEK(v float64) string {
	if v >= 1_000_000 {
		return fmt.Sprintf("%.1f MSEK", v/1_000_000)
	}
	return fmt.Sprintf("%.0f SEK", v)
}

// BuildValuationReport turns a valuation result into a seller-facing report.
func BuildValuationReport(companyName string, result *valuation.ValuationResult, now time.Time) *Document {
	r := result.ValuationRange

	var summary strings.Builder
	fmt.Fprintf(&summary, "Indikativt värde: **%s** (intervall %s – %s).\n\n",
		formatSEK(r.MostLikely), formatSEK(r.Min), formatSEK(r.Max))
	fmt.Fprintf(&summary, "Metod: %s\n", result.Method)

	var method strings.Builder
	if result.Methodology.Multipel != "" {
		fmt.Fprintf(&method, "**Multipel:** %s\n\n", result.Methodology.Multipel)
	}
	if result.Methodology.Avkastningskrav != "" {
		fmt.Fprintf(&method, "**Avkastningskrav:** %s\n\n", result.Methodology.Avkastningskrav)
	}
	if result.Methodology.Substans != "" {
		fmt.Fprintf(&method, "**Substans:** %s\n\n", result.Methodology.Substans)
	}
	if method.Len() == 0 {
		method.WriteString("Se värderingsunderlaget.\n")
	}

	sections := []Section{
		{Title: "Sammanfattning", Markdown: summary.String()},
		{Title: "Metodik", Markdown: method.String()},
		{Title: "Styrkor och svagheter", Markdown: swotMarkdown(result.Analysis)},
	}

	if len(result.Recommendations) > 0 {
		var rec strings.Builder
		for _, item := range result.Recommendations {
			fmt.Fprintf(&rec, "- **%s** (%s): %s\n", item.Title, item.Impact, item.Description)
		}
		sections = append(sections, Section{Title: "Rekommendationer inför försäljning", Markdown: rec.String()})
	}
	if len(result.KeyMetrics) > 0 {
		var km strings.Builder
		for _, m := range result.KeyMetrics {
			fmt.Fprintf(&km, "- %s: %s\n", m.Label, m.Value)
		}
		sections = append(sections, Section{Title: "Nyckeltal", Markdown: km.String()})
	}

	return &Document{
		Kind:        "valuation",
		Title:       fmt.Sprintf("Värderingsrapport: %s", companyName),
		GeneratedAt: now,
		Sections:    sections,
	}
}

func swotMarkdown(a valuation.Analysis) string {
	var b strings.Builder
	writeList := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "**%s**\n\n", heading)
		for _, it := range items {
			fmt.Fprintf(&b, "- %s\n", it)
		}
		b.WriteString("\n")
	}
	writeList("Styrkor", a.Strengths)
	writeList("Svagheter", a.Weaknesses)
	writeList("Möjligheter", a.Opportunities)
	writeList("Risker", a.Risks)
	if b.Len() == 0 {
		return "Ingen analys tillgänglig.\n"
	}
	return b.String()
}

// BuildDDReport summarizes the due diligence checklist for both parties.
func BuildDDReport(listing *marketplace.Listing, items []*marketplace.DDItem, now time.Time) *Document {
	progress := marketplace.SummarizeDD(items)

	var summary strings.Builder
	fmt.Fprintf(&summary, "Genomförandegrad: **%.0f%%** (%d av %d punkter avklarade).\n\n",
		progress.PercentComplete, progress.Resolved, progress.Total)
	if progress.Flagged > 0 {
		fmt.Fprintf(&summary, "**%d punkter är flaggade och kräver åtgärd.**\n", progress.Flagged)
	}

	byCategory := map[string][]*marketplace.DDItem{}
	var order []string
	for _, it := range items {
		if _, seen := byCategory[it.Category]; !seen {
			order = append(order, it.Category)
		}
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	sections := []Section{{Title: "Status", Markdown: summary.String()}}
	for _, cat := range order {
		var b strings.Builder
		for _, it := range byCategory[cat] {
			fmt.Fprintf(&b, "- [%s] %s", it.Status, it.Title)
			if it.Detail != "" {
				fmt.Fprintf(&b, " – %s", it.Detail)
			}
			b.WriteString("\n")
		}
		sections = append(sections, Section{Title: categoryTitle(cat), Markdown: b.String()})
	}

	return &Document{
		Kind:        "dd",
		Title:       fmt.Sprintf("Due diligence-rapport: %s", listing.Title),
		GeneratedAt: now,
		Sections:    sections,
	}
}

func categoryTitle(cat string) string {
	switch cat {
	case "financial":
		return "Finansiellt"
	case "legal":
		return "Juridik"
	case "commercial":
		return "Kommersiellt"
	case "technical":
		return "Teknik"
	default:
		return cat
	}
}

// BuildSPADraft drafts share purchase agreement headings from the accepted
// letter of intent. This is a working document for the parties' counsel, not
// a legal instrument.
func BuildSPADraft(listing *marketplace.Listing, loi *marketplace.LoIVersion, now time.Time) (*Document, error) {
	if loi.Status != marketplace.LoIAccepted {
		return nil, fmt.Errorf("spa draft requires an accepted loi, version %d is %s", loi.Version, loi.Status)
	}

	var terms strings.Builder
	fmt.Fprintf(&terms, "Köpeskilling: **%s**.\n\n", formatSEK(loi.Price))
	fmt.Fprintf(&terms, "Exklusivitet: %d dagar från undertecknande.\n", loi.ExclusivityDays)

	var conditions strings.Builder
	if len(loi.Conditions) == 0 {
		conditions.WriteString("Inga särskilda villkor angivna i avsiktsförklaringen.\n")
	} else {
		for _, c := range loi.Conditions {
			fmt.Fprintf(&conditions, "- %s\n", c)
		}
	}

	sections := []Section{
		{Title: "Parter och objekt", Markdown: fmt.Sprintf(
			"Avser förvärv av samtliga aktier i det bolag som marknadsförts som *%s* (%s, %s).\n",
			listing.Title, listing.Industry, listing.Region)},
		{Title: "Köpeskilling och betalning", Markdown: terms.String()},
		{Title: "Villkor för tillträde", Markdown: conditions.String()},
		{Title: "Garantier", Markdown: "Säljarens garantikatalog upprättas av parternas ombud utifrån genomförd due diligence.\n"},
	}

	return &Document{
		Kind:        "spa_draft",
		Title:       fmt.Sprintf("Aktieöverlåtelseavtal (utkast): %s", listing.Title),
		GeneratedAt: now,
		Sections:    sections,
	}, nil
}
