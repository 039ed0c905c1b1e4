package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bolagsbron/pkg/core/marketplace"
)

// The marketplace repos follow one pattern: the full record as a JSONB blob
// plus the columns needed for lookups and uniqueness.

// Listing and QAEntry hide contact emails from API responses with json:"-",
// so the storage blobs wrap them to carry the email anyway.

type listingRecord struct {
	*marketplace.Listing
	SellerEmail string `json:"sellerEmail"`
}

func marshalListing(l *marketplace.Listing) ([]byte, error) {
	return json.Marshal(listingRecord{Listing: l, SellerEmail: l.SellerEmail})
}

func unmarshalListing(blob []byte) (*marketplace.Listing, error) {
	rec := listingRecord{Listing: &marketplace.Listing{}}
	if err := json.Unmarshal(blob, &rec); err != nil {
		return nil, err
	}
	rec.Listing.SellerEmail = rec.SellerEmail
	return rec.Listing, nil
}

type qaRecord struct {
	*marketplace.QAEntry
	BuyerEmail string `json:"buyerEmail"`
}

func marshalQAEntry(q *marketplace.QAEntry) ([]byte, error) {
	return json.Marshal(qaRecord{QAEntry: q, BuyerEmail: q.BuyerEmail})
}

func unmarshalQAEntry(blob []byte) (*marketplace.QAEntry, error) {
	rec := qaRecord{QAEntry: &marketplace.QAEntry{}}
	if err := json.Unmarshal(blob, &rec); err != nil {
		return nil, err
	}
	rec.QAEntry.BuyerEmail = rec.BuyerEmail
	return rec.QAEntry, nil
}

func (s *Store) SaveListing(ctx context.Context, l *marketplace.Listing) error {
	blob, err := marshalListing(l)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO listings (id, listing_json, status, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET listing_json = EXCLUDED.listing_json, status = EXCLUDED.status`,
		l.ID, blob, l.Status, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

func (s *Store) GetListing(ctx context.Context, id string) (*marketplace.Listing, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, `SELECT listing_json FROM listings WHERE id = $1`, id).Scan(&blob)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("listing %s not found", id)
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	l, err := unmarshalListing(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing: %w", err)
	}
	return l, nil
}

// ListActiveListings returns listings visible to buyers, newest first.
func (s *Store) ListActiveListings(ctx context.Context) ([]*marketplace.Listing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT listing_json FROM listings
		WHERE status IN ($1, $2)
		ORDER BY created_at DESC`, marketplace.ListingActive, marketplace.ListingUnderLoI)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var out []*marketplace.Listing
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		l, err := unmarshalListing(blob)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal listing: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SaveNDA inserts or refreshes the one signature row per (listing, buyer).
func (s *Store) SaveNDA(ctx context.Context, n *marketplace.NDASignature) error {
	blob, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal nda: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO nda_signatures (id, listing_id, buyer_email, nda_json)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (listing_id, buyer_email) DO UPDATE SET nda_json = EXCLUDED.nda_json`,
		n.ID, n.ListingID, n.BuyerEmail, blob)
	if err != nil {
		return fmt.Errorf("failed to save nda: %w", err)
	}
	return nil
}

func (s *Store) GetNDA(ctx context.Context, listingID, buyerEmail string) (*marketplace.NDASignature, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, `
		SELECT nda_json FROM nda_signatures WHERE listing_id = $1 AND buyer_email = $2`,
		listingID, buyerEmail).Scan(&blob)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no nda for listing %s and buyer %s", listingID, buyerEmail)
		}
		return nil, fmt.Errorf("failed to load nda: %w", err)
	}
	var n marketplace.NDASignature
	if err := json.Unmarshal(blob, &n); err != nil {
		return nil, fmt.Errorf("failed to unmarshal nda: %w", err)
	}
	return &n, nil
}

func (s *Store) SaveDDItem(ctx context.Context, it *marketplace.DDItem) error {
	blob, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("failed to marshal dd item: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO dd_items (id, listing_id, item_json, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET item_json = EXCLUDED.item_json, status = EXCLUDED.status`,
		it.ID, it.ListingID, blob, it.Status)
	if err != nil {
		return fmt.Errorf("failed to save dd item: %w", err)
	}
	return nil
}

func (s *Store) ListDDItems(ctx context.Context, listingID string) ([]*marketplace.DDItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT item_json FROM dd_items WHERE listing_id = $1`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dd items: %w", err)
	}
	defer rows.Close()

	var out []*marketplace.DDItem
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan dd item: %w", err)
		}
		var it marketplace.DDItem
		if err := json.Unmarshal(blob, &it); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dd item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (s *Store) SaveLoI(ctx context.Context, l *marketplace.LoIVersion) error {
	blob, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal loi: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO loi_versions (id, listing_id, version, loi_json, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET loi_json = EXCLUDED.loi_json, status = EXCLUDED.status`,
		l.ID, l.ListingID, l.Version, blob, l.Status)
	if err != nil {
		return fmt.Errorf("failed to save loi: %w", err)
	}
	return nil
}

// LatestLoI returns the highest version for a listing.
func (s *Store) LatestLoI(ctx context.Context, listingID string) (*marketplace.LoIVersion, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, `
		SELECT loi_json FROM loi_versions WHERE listing_id = $1
		ORDER BY version DESC LIMIT 1`, listingID).Scan(&blob)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no loi for listing %s", listingID)
		}
		return nil, fmt.Errorf("failed to load loi: %w", err)
	}
	var l marketplace.LoIVersion
	if err := json.Unmarshal(blob, &l); err != nil {
		return nil, fmt.Errorf("failed to unmarshal loi: %w", err)
	}
	return &l, nil
}

func (s *Store) ListLoIVersions(ctx context.Context, listingID string) ([]*marketplace.LoIVersion, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT loi_json FROM loi_versions WHERE listing_id = $1 ORDER BY version ASC`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loi versions: %w", err)
	}
	defer rows.Close()

	var out []*marketplace.LoIVersion
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan loi: %w", err)
		}
		var l marketplace.LoIVersion
		if err := json.Unmarshal(blob, &l); err != nil {
			return nil, fmt.Errorf("failed to unmarshal loi: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (s *Store) SaveQAEntry(ctx context.Context, q *marketplace.QAEntry) error {
	blob, err := marshalQAEntry(q)
	if err != nil {
		return fmt.Errorf("failed to marshal qa entry: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO qa_entries (id, listing_id, entry_json)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET entry_json = EXCLUDED.entry_json`,
		q.ID, q.ListingID, blob)
	if err != nil {
		return fmt.Errorf("failed to save qa entry: %w", err)
	}
	return nil
}

func (s *Store) ListQAEntries(ctx context.Context, listingID string) ([]*marketplace.QAEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT entry_json FROM qa_entries WHERE listing_id = $1`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list qa entries: %w", err)
	}
	defer rows.Close()

	var out []*marketplace.QAEntry
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan qa entry: %w", err)
		}
		q, err := unmarshalQAEntry(blob)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal qa entry: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *Store) GetQAEntry(ctx context.Context, id string) (*marketplace.QAEntry, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, `SELECT entry_json FROM qa_entries WHERE id = $1`, id).Scan(&blob)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("qa entry %s not found", id)
		}
		return nil, fmt.Errorf("failed to load qa entry: %w", err)
	}
	q, err := unmarshalQAEntry(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal qa entry: %w", err)
	}
	return q, nil
}
