// Package enrich pulls public company data from the Swedish registry mirrors
// and condenses it into a short section the valuation prompt can embed.
package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// CompanySnapshot is the structured result of scraping a registry page.
type CompanySnapshot struct {
	OrgNumber    string `json:"orgNumber"`
	Name         string `json:"name"`
	LegalForm    string `json:"legalForm"`
	Registered   string `json:"registered"`
	County       string `json:"county"`
	SNICode      string `json:"sniCode"`
	SNIText      string `json:"sniText"`
	FTaxStatus   string `json:"fTaxStatus"`
	VATStatus    string `json:"vatStatus"`
	RemarksCount int    `json:"remarksCount"`
}

// Fetcher retrieves registry pages over plain HTTP. BaseURL points at the
// public mirror; tests point it at an httptest server.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewFetcher(baseURL string) *Fetcher {
	return &Fetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch downloads and parses the registry page for one organisation number.
func (f *Fetcher) Fetch(ctx context.Context, orgNumber string) (*CompanySnapshot, error) {
	orgNumber = strings.TrimSpace(orgNumber)
	if orgNumber == "" {
		return nil, fmt.Errorf("ENRICH_INVALID_ORG: empty organisation number")
	}

	pageURL := fmt.Sprintf("%s/foretag/%s", strings.TrimRight(f.BaseURL, "/"), url.PathEscape(orgNumber))
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ENRICH_REQUEST_ERROR: %v", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; bolagsbron/1.0)")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ENRICH_FETCH_ERROR: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ENRICH_FETCH_ERROR: registry returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ENRICH_PARSE_ERROR: %v", err)
	}

	snap := ParseSnapshot(doc)
	snap.OrgNumber = orgNumber
	if snap.Name == "" {
		return nil, fmt.Errorf("ENRICH_PARSE_ERROR: no company name found for %s", orgNumber)
	}
	return snap, nil
}

// ParseSnapshot extracts the snapshot fields from an already parsed registry
// page. Split out from Fetch so it can be tested against static HTML.
func ParseSnapshot(doc *goquery.Document) *CompanySnapshot {
	snap := &CompanySnapshot{}

	snap.Name = strings.TrimSpace(doc.Find("h1.company-name").First().Text())

	doc.Find("dl.company-facts dt").Each(func(_ int, dt *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(dt.Text()))
		value := strings.TrimSpace(dt.Next().Text())
		switch {
		case strings.Contains(label, "bolagsform"):
			snap.LegalForm = value
		case strings.Contains(label, "registrer"):
			snap.Registered = value
		case strings.Contains(label, "län"):
			snap.County = value
		case strings.Contains(label, "sni"):
			snap.SNICode, snap.SNIText = splitSNI(value)
		case strings.Contains(label, "f-skatt"):
			snap.FTaxStatus = value
		case strings.Contains(label, "moms"):
			snap.VATStatus = value
		}
	})

	snap.RemarksCount = doc.Find("ul.remarks li").Length()
	return snap
}

// splitSNI separates "62010 Dataprogrammering" into code and description.
func splitSNI(raw string) (code, text string) {
	parts := strings.SplitN(strings.TrimSpace(raw), " ", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "", raw
	}
	for _, r := range parts[0] {
		if r < '0' || r > '9' {
			return "", raw
		}
	}
	if len(parts) == 2 {
		return parts[0], strings.TrimSpace(parts[1])
	}
	return parts[0], ""
}

// BriefText renders the snapshot as the plain-text block embedded in the
// valuation prompt. Empty fields are skipped rather than printed blank.
func (s *CompanySnapshot) BriefText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bolag: %s (org.nr %s)\n", s.Name, s.OrgNumber)
	if s.LegalForm != "" {
		fmt.Fprintf(&b, "Bolagsform: %s\n", s.LegalForm)
	}
	if s.Registered != "" {
		fmt.Fprintf(&b, "Registrerat: %s\n", s.Registered)
	}
	if s.County != "" {
		fmt.Fprintf(&b, "Län: %s\n", s.County)
	}
	if s.SNICode != "" || s.SNIText != "" {
		fmt.Fprintf(&b, "SNI: %s %s\n", s.SNICode, s.SNIText)
	}
	if s.FTaxStatus != "" {
		fmt.Fprintf(&b, "F-skatt: %s\n", s.FTaxStatus)
	}
	if s.VATStatus != "" {
		fmt.Fprintf(&b, "Moms: %s\n", s.VATStatus)
	}
	if s.RemarksCount > 0 {
		fmt.Fprintf(&b, "Anmärkningar: %d\n", s.RemarksCount)
	}
	return strings.TrimRight(b.String(), "\n")
}
