package store

import (
	"encoding/json"
	"strings"
	"testing"

	"bolagsbron/pkg/core/marketplace"
)

// Contact emails are stripped from API responses but must survive the
// round trip through the storage blobs.

func TestListingBlobKeepsSellerEmail(t *testing.T) {
	l := marketplace.NewListing("Nordkod AB", "tech", "Stockholm", "5-10",
		"SaaS-bolag med stabil tillväxt", "saljare@nordkod.se", 8_000_000, 14_000_000)

	blob, err := marshalListing(l)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got, err := unmarshalListing(blob)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got.SellerEmail != "saljare@nordkod.se" {
		t.Errorf("seller email lost in storage: %q", got.SellerEmail)
	}
	if got.ID != l.ID || got.Title != l.Title || got.AskingPriceMax != l.AskingPriceMax {
		t.Errorf("listing fields changed in storage: %+v", got)
	}
}

func TestQABlobKeepsBuyerEmail(t *testing.T) {
	q := marketplace.NewQuestion("listing-1", "kopare@example.se", "Hur ser kundkoncentrationen ut?", true)

	blob, err := marshalQAEntry(q)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got, err := unmarshalQAEntry(blob)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got.BuyerEmail != "kopare@example.se" {
		t.Errorf("buyer email lost in storage: %q", got.BuyerEmail)
	}
	if got.Question != q.Question || !got.NDAGated {
		t.Errorf("qa fields changed in storage: %+v", got)
	}
}

// The API-facing encoding must still omit the emails.
func TestPublicEncodingOmitsEmails(t *testing.T) {
	l := marketplace.NewListing("Nordkod AB", "tech", "Stockholm", "5-10",
		"", "saljare@nordkod.se", 0, 0)
	out, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(out), "nordkod.se") {
		t.Errorf("seller email leaked into the public encoding: %s", out)
	}

	q := marketplace.NewQuestion("listing-1", "kopare@example.se", "Fråga?", false)
	out, err = json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(out), "example.se") {
		t.Errorf("buyer email leaked into the public encoding: %s", out)
	}
}
