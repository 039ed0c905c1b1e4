package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const registryPage = `<!DOCTYPE html>
<html><body>
<h1 class="company-name">Nordkod AB</h1>
<dl class="company-facts">
  <dt>Bolagsform</dt><dd>Aktiebolag</dd>
  <dt>Registrerat</dt><dd>2014-03-12</dd>
  <dt>Län</dt><dd>Stockholms län</dd>
  <dt>SNI-kod</dt><dd>62010 Dataprogrammering</dd>
  <dt>F-skatt</dt><dd>Registrerad</dd>
  <dt>Moms</dt><dd>Registrerad</dd>
</dl>
<ul class="remarks">
  <li>Betalningsanmärkning 2023</li>
</ul>
</body></html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse test HTML: %v", err)
	}
	return doc
}

func TestParseSnapshot(t *testing.T) {
	snap := ParseSnapshot(parseDoc(t, registryPage))

	if snap.Name != "Nordkod AB" {
		t.Errorf("name = %q", snap.Name)
	}
	if snap.LegalForm != "Aktiebolag" {
		t.Errorf("legal form = %q", snap.LegalForm)
	}
	if snap.Registered != "2014-03-12" {
		t.Errorf("registered = %q", snap.Registered)
	}
	if snap.County != "Stockholms län" {
		t.Errorf("county = %q", snap.County)
	}
	if snap.SNICode != "62010" || snap.SNIText != "Dataprogrammering" {
		t.Errorf("sni = %q / %q", snap.SNICode, snap.SNIText)
	}
	if snap.FTaxStatus != "Registrerad" {
		t.Errorf("f-tax = %q", snap.FTaxStatus)
	}
	if snap.RemarksCount != 1 {
		t.Errorf("remarks = %d, want 1", snap.RemarksCount)
	}
}

func TestParseSnapshotMissingFields(t *testing.T) {
	snap := ParseSnapshot(parseDoc(t, `<html><body><h1 class="company-name">Tomt AB</h1></body></html>`))
	if snap.Name != "Tomt AB" {
		t.Errorf("name = %q", snap.Name)
	}
	if snap.LegalForm != "" || snap.SNICode != "" || snap.RemarksCount != 0 {
		t.Errorf("expected empty optional fields, got %+v", snap)
	}
}

func TestSplitSNI(t *testing.T) {
	cases := []struct {
		raw  string
		code string
		text string
	}{
		{"62010 Dataprogrammering", "62010", "Dataprogrammering"},
		{"62010", "62010", ""},
		{"Dataprogrammering", "", "Dataprogrammering"},
		{"", "", ""},
	}
	for _, c := range cases {
		code, text := splitSNI(c.raw)
		if code != c.code || text != c.text {
			t.Errorf("splitSNI(%q) = %q, %q; want %q, %q", c.raw, code, text, c.code, c.text)
		}
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/foretag/5561234567" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(registryPage))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL)
	snap, err := f.Fetch(context.Background(), "5561234567")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if snap.OrgNumber != "5561234567" {
		t.Errorf("org number = %q", snap.OrgNumber)
	}
	if snap.Name != "Nordkod AB" {
		t.Errorf("name = %q", snap.Name)
	}
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewFetcher(srv.URL)
	if _, err := f.Fetch(context.Background(), "5560000000"); err == nil {
		t.Fatal("expected error for missing company")
	}
}

func TestFetchEmptyOrgNumber(t *testing.T) {
	f := NewFetcher("http://unused")
	if _, err := f.Fetch(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty organisation number")
	}
}

func TestBriefTextSkipsEmptyFields(t *testing.T) {
	snap := &CompanySnapshot{OrgNumber: "5561234567", Name: "Nordkod AB", County: "Stockholms län"}
	text := snap.BriefText()
	if !strings.Contains(text, "Nordkod AB") || !strings.Contains(text, "Stockholms län") {
		t.Errorf("brief text missing fields: %q", text)
	}
	if strings.Contains(text, "Bolagsform") || strings.Contains(text, "Anmärkningar") {
		t.Errorf("brief text should skip empty fields: %q", text)
	}
}
