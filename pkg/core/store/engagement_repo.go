package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bolagsbron/pkg/core/engagement"
)

func (s *Store) SaveEngagementEvent(ctx context.Context, ev engagement.ViewEvent) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO engagement_events (listing_id, document_id, viewer_id, page, seconds, viewed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.ListingID, ev.DocumentID, ev.ViewerID, ev.Page, ev.Seconds, ev.ViewedAt)
	if err != nil {
		return fmt.Errorf("failed to save engagement event: %w", err)
	}
	return nil
}

func (s *Store) ListEngagementEventsSince(ctx context.Context, since time.Time) ([]engagement.ViewEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT listing_id, document_id, viewer_id, page, seconds, viewed_at
		FROM engagement_events
		WHERE viewed_at >= $1
		ORDER BY viewed_at ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list engagement events: %w", err)
	}
	defer rows.Close()

	var out []engagement.ViewEvent
	for rows.Next() {
		var ev engagement.ViewEvent
		if err := rows.Scan(&ev.ListingID, &ev.DocumentID, &ev.ViewerID, &ev.Page, &ev.Seconds, &ev.ViewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan engagement event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// SaveEngagementRollup stores one hourly snapshot row per document heat map.
func (s *Store) SaveEngagementRollup(ctx context.Context, periodStart time.Time, maps []engagement.DocumentHeatMap) error {
	periodEnd := periodStart.Add(time.Hour)
	for _, hm := range maps {
		blob, err := json.Marshal(hm)
		if err != nil {
			return fmt.Errorf("failed to marshal heat map: %w", err)
		}
		_, err = s.pool.Exec(ctx, `
			INSERT INTO engagement_rollups (listing_id, rollup_json, window_start, window_end)
			VALUES ($1, $2, $3, $4)`,
			hm.ListingID, blob, periodStart, periodEnd)
		if err != nil {
			return fmt.Errorf("failed to save engagement rollup: %w", err)
		}
	}
	return nil
}

// LatestHeatMaps returns the most recent rollup snapshot for a listing.
func (s *Store) LatestHeatMaps(ctx context.Context, listingID string) ([]engagement.DocumentHeatMap, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT rollup_json FROM engagement_rollups
		WHERE listing_id = $1
		  AND window_start = (
			SELECT MAX(window_start) FROM engagement_rollups WHERE listing_id = $1
		  )`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load heat maps: %w", err)
	}
	defer rows.Close()

	var out []engagement.DocumentHeatMap
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan heat map: %w", err)
		}
		var hm engagement.DocumentHeatMap
		if err := json.Unmarshal(blob, &hm); err != nil {
			return nil, fmt.Errorf("failed to unmarshal heat map: %w", err)
		}
		out = append(out, hm)
	}
	return out, rows.Err()
}
