// Package engagement turns raw document-view events from the data room into
// per-document heat maps, so sellers can see which parts of their material
// buyers actually spend time on.
package engagement

import (
	"sort"
	"time"
)

// ViewEvent is one recorded document view.
type ViewEvent struct {
	ListingID  string    `json:"listingId"`
	DocumentID string    `json:"documentId"`
	ViewerID   string    `json:"viewerId"`
	Page       int       `json:"page"`
	Seconds    float64   `json:"seconds"`
	ViewedAt   time.Time `json:"viewedAt"`
}

// PageHeat aggregates attention on a single page. Intensity is normalized
// against the hottest page of the same document (0..1).
type PageHeat struct {
	Page      int     `json:"page"`
	Views     int     `json:"views"`
	Seconds   float64 `json:"seconds"`
	Intensity float64 `json:"intensity"`
}

// DocumentHeatMap is the aggregate for one document within a listing.
type DocumentHeatMap struct {
	ListingID     string     `json:"listingId"`
	DocumentID    string     `json:"documentId"`
	UniqueViewers int        `json:"uniqueViewers"`
	TotalSeconds  float64    `json:"totalSeconds"`
	Pages         []PageHeat `json:"pages"`
}

// BuildHeatMaps aggregates events into one heat map per (listing, document).
// Output is sorted by listing id, document id and page number so repeated
// runs over the same events are identical.
func BuildHeatMaps(events []ViewEvent) []DocumentHeatMap {
	type docKey struct {
		listing string
		doc     string
	}
	type pageKey struct {
		docKey
		page int
	}
	pageAgg := map[pageKey]*PageHeat{}
	viewers := map[docKey]map[string]bool{}
	totals := map[docKey]float64{}

	for _, ev := range events {
		dk := docKey{listing: ev.ListingID, doc: ev.DocumentID}
		pk := pageKey{docKey: dk, page: ev.Page}
		ph, ok := pageAgg[pk]
		if !ok {
			ph = &PageHeat{Page: ev.Page}
			pageAgg[pk] = ph
		}
		ph.Views++
		ph.Seconds += ev.Seconds

		if viewers[dk] == nil {
			viewers[dk] = map[string]bool{}
		}
		viewers[dk][ev.ViewerID] = true
		totals[dk] += ev.Seconds
	}

	byDoc := map[docKey][]PageHeat{}
	for pk, ph := range pageAgg {
		byDoc[pk.docKey] = append(byDoc[pk.docKey], *ph)
	}

	var out []DocumentHeatMap
	for dk, pages := range byDoc {
		sort.Slice(pages, func(i, j int) bool { return pages[i].Page < pages[j].Page })

		var hottest float64
		for _, p := range pages {
			if p.Seconds > hottest {
				hottest = p.Seconds
			}
		}
		for i := range pages {
			if hottest > 0 {
				pages[i].Intensity = pages[i].Seconds / hottest
			}
		}

		out = append(out, DocumentHeatMap{
			ListingID:     dk.listing,
			DocumentID:    dk.doc,
			UniqueViewers: len(viewers[dk]),
			TotalSeconds:  totals[dk],
			Pages:         pages,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ListingID != out[j].ListingID {
			return out[i].ListingID < out[j].ListingID
		}
		return out[i].DocumentID < out[j].DocumentID
	})
	return out
}
