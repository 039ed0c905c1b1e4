// Package marketplace holds the deal-side domain model: listings, NDA
// signatures, due diligence items, letters of intent and Q&A entries.
// Records are created once and superseded by new versions, never mutated;
// status transitions are validated here and enforced by the handlers.
package marketplace

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Listing statuses.
const (
	ListingDraft    = "draft"
	ListingActive   = "active"
	ListingUnderLoI = "under_loi"
	ListingSold     = "sold"
)

// Listing is an anonymized sell-side advertisement. The company name is never
// part of the listing; it is revealed through the NDA flow.
type Listing struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Industry        string    `json:"industry"`
	Region          string    `json:"region"`
	RevenueBand     string    `json:"revenueBand"` // MSEK band, e.g. "5-10"
	AskingPriceMin  float64   `json:"askingPriceMin"`
	AskingPriceMax  float64   `json:"askingPriceMax"`
	Summary         string    `json:"summary"`
	SellerEmail     string    `json:"-"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewListing creates a draft listing with a fresh id.
func NewListing(title, industry, region, revenueBand, summary, sellerEmail string, priceMin, priceMax float64) *Listing {
	return &Listing{
		ID:             uuid.NewString(),
		Title:          title,
		Industry:       industry,
		Region:         region,
		RevenueBand:    revenueBand,
		AskingPriceMin: priceMin,
		AskingPriceMax: priceMax,
		Summary:        summary,
		SellerEmail:    sellerEmail,
		Status:         ListingDraft,
		CreatedAt:      time.Now().UTC(),
	}
}

// listingTransitions is the allowed status graph.
var listingTransitions = map[string][]string{
	ListingDraft:    {ListingActive},
	ListingActive:   {ListingUnderLoI, ListingSold},
	ListingUnderLoI: {ListingActive, ListingSold},
	ListingSold:     {},
}

// ValidListingTransition reports whether a listing may move between statuses.
func ValidListingTransition(from, to string) bool {
	for _, next := range listingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NDA statuses.
const (
	NDARequested = "requested"
	NDASigned    = "signed"
	NDAExpired   = "expired"
)

// NDASignature gates a buyer's access to a listing's data room. One
// signature per (listing, buyer) pair; signing again is a no-op.
type NDASignature struct {
	ID         string     `json:"id"`
	ListingID  string     `json:"listingId"`
	BuyerEmail string     `json:"buyerEmail"`
	Status     string     `json:"status"`
	RequestedAt time.Time `json:"requestedAt"`
	SignedAt   *time.Time `json:"signedAt,omitempty"`
	ExpiresAt  time.Time  `json:"expiresAt"`
}

// NewNDARequest opens the signing window for a buyer. NDAs expire after a
// year regardless of signing.
func NewNDARequest(listingID, buyerEmail string, now time.Time) *NDASignature {
	return &NDASignature{
		ID:          uuid.NewString(),
		ListingID:   listingID,
		BuyerEmail:  buyerEmail,
		Status:      NDARequested,
		RequestedAt: now,
		ExpiresAt:   now.AddDate(1, 0, 0),
	}
}

// Sign marks the NDA as signed. Already-signed is idempotent; expired is an
// error.
func (n *NDASignature) Sign(now time.Time) error {
	switch n.Status {
	case NDASigned:
		return nil
	case NDAExpired:
		return fmt.Errorf("nda %s has expired", n.ID)
	}
	if now.After(n.ExpiresAt) {
		n.Status = NDAExpired
		return fmt.Errorf("nda %s has expired", n.ID)
	}
	signed := now
	n.Status = NDASigned
	n.SignedAt = &signed
	return nil
}

// Grants reports whether the NDA currently grants data-room access.
func (n *NDASignature) Grants(now time.Time) bool {
	return n.Status == NDASigned && now.Before(n.ExpiresAt)
}

// Due diligence item statuses.
const (
	DDOpen     = "open"
	DDInReview = "in_review"
	DDResolved = "resolved"
	DDFlagged  = "flagged"
)

// DDItem is one row of a deal's due diligence checklist.
type DDItem struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId"`
	Category  string    `json:"category"` // "financial", "legal", "commercial", "technical"
	Title     string    `json:"title"`
	Detail    string    `json:"detail,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewDDItem(listingID, category, title, detail string) *DDItem {
	return &DDItem{
		ID:        uuid.NewString(),
		ListingID: listingID,
		Category:  category,
		Title:     title,
		Detail:    detail,
		Status:    DDOpen,
		CreatedAt: time.Now().UTC(),
	}
}

var ddTransitions = map[string][]string{
	DDOpen:     {DDInReview, DDFlagged},
	DDInReview: {DDResolved, DDFlagged},
	DDFlagged:  {DDInReview, DDResolved},
	DDResolved: {},
}

func ValidDDTransition(from, to string) bool {
	for _, next := range ddTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DDProgress summarizes a checklist.
type DDProgress struct {
	Total           int     `json:"total"`
	Open            int     `json:"open"`
	InReview        int     `json:"inReview"`
	Resolved        int     `json:"resolved"`
	Flagged         int     `json:"flagged"`
	PercentComplete float64 `json:"percentComplete"`
}

// SummarizeDD counts items per status. Resolved items drive completion;
// flagged items block it.
func SummarizeDD(items []*DDItem) DDProgress {
	p := DDProgress{Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case DDOpen:
			p.Open++
		case DDInReview:
			p.InReview++
		case DDResolved:
			p.Resolved++
		case DDFlagged:
			p.Flagged++
		}
	}
	if p.Total > 0 {
		p.PercentComplete = float64(p.Resolved) / float64(p.Total) * 100
	}
	return p
}

// LoI statuses.
const (
	LoIDraft     = "draft"
	LoISent      = "sent"
	LoICountered = "countered"
	LoIAccepted  = "accepted"
	LoIRejected  = "rejected"
)

// LoIVersion is one immutable version of a letter of intent. A counter-offer
// never edits in place; it produces version n+1 and marks n as countered.
type LoIVersion struct {
	ID              string    `json:"id"`
	ListingID       string    `json:"listingId"`
	Version         int       `json:"version"`
	ProposedBy      string    `json:"proposedBy"` // "buyer" or "seller"
	Price           float64   `json:"price"`
	Conditions      []string  `json:"conditions"`
	ExclusivityDays int       `json:"exclusivityDays"`
	ExpiresAt       time.Time `json:"expiresAt"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewLoI starts a negotiation at version 1.
func NewLoI(listingID, proposedBy string, price float64, conditions []string, exclusivityDays int, expiresAt time.Time) *LoIVersion {
	if conditions == nil {
		conditions = []string{}
	}
	return &LoIVersion{
		ID:              uuid.NewString(),
		ListingID:       listingID,
		Version:         1,
		ProposedBy:      proposedBy,
		Price:           price,
		Conditions:      conditions,
		ExclusivityDays: exclusivityDays,
		ExpiresAt:       expiresAt,
		Status:          LoIDraft,
		CreatedAt:       time.Now().UTC(),
	}
}

// Counter derives the next version from the current one. The receiver is the
// basis, not mutated beyond its status.
func (l *LoIVersion) Counter(proposedBy string, price float64, conditions []string, exclusivityDays int, expiresAt time.Time) (*LoIVersion, error) {
	switch l.Status {
	case LoIAccepted, LoIRejected:
		return nil, fmt.Errorf("loi version %d is %s and cannot be countered", l.Version, l.Status)
	}
	if conditions == nil {
		conditions = []string{}
	}
	l.Status = LoICountered
	return &LoIVersion{
		ID:              uuid.NewString(),
		ListingID:       l.ListingID,
		Version:         l.Version + 1,
		ProposedBy:      proposedBy,
		Price:           price,
		Conditions:      conditions,
		ExclusivityDays: exclusivityDays,
		ExpiresAt:       expiresAt,
		Status:          LoISent,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// QAEntry is a buyer question with an optional seller answer. Answered
// entries are immutable.
type QAEntry struct {
	ID         string     `json:"id"`
	ListingID  string     `json:"listingId"`
	BuyerEmail string     `json:"-"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer,omitempty"`
	NDAGated   bool       `json:"ndaGated"`
	AskedAt    time.Time  `json:"askedAt"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
}

func NewQuestion(listingID, buyerEmail, question string, ndaGated bool) *QAEntry {
	return &QAEntry{
		ID:         uuid.NewString(),
		ListingID:  listingID,
		BuyerEmail: buyerEmail,
		Question:   question,
		NDAGated:   ndaGated,
		AskedAt:    time.Now().UTC(),
	}
}

// Answer records the seller's reply once.
func (q *QAEntry) SetAnswer(answer string, now time.Time) error {
	if q.Answer != "" {
		return fmt.Errorf("question %s is already answered", q.ID)
	}
	q.Answer = answer
	q.AnsweredAt = &now
	return nil
}
