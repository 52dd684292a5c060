package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveAffiche stores a poster layout keyed by its start date, replacing any
// previous state and images for that date.
func (s *Store) SaveAffiche(ctx context.Context, startDate time.Time, stateJSON string, images []AfficheImage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	key := formatDate(startDate)
	now := time.Now().UTC().Format(time.RFC3339)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO affiches (start_date, state_json, updated_at) VALUES (?, ?, ?)
         ON CONFLICT (start_date) DO UPDATE SET state_json = excluded.state_json,
                                                updated_at = excluded.updated_at`,
		key, stateJSON, now,
	); err != nil {
		return fmt.Errorf("save affiche state: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM affiche_images WHERE start_date = ?`, key); err != nil {
		return fmt.Errorf("clear affiche images: %w", err)
	}

	for _, img := range images {
		if len(img.Data) == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO affiche_images (start_date, slot_type, slot_index, filename, mime, data)
             VALUES (?, ?, ?, ?, ?, ?)`,
			key, img.SlotType, img.SlotIndex, img.Filename, img.Mime, img.Data,
		); err != nil {
			return fmt.Errorf("save affiche image %s/%d: %w", img.SlotType, img.SlotIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit affiche: %w", err)
	}
	return nil
}

// LoadAffiche returns the stored poster layout for a start date, or nil when
// none has been saved.
func (s *Store) LoadAffiche(ctx context.Context, startDate time.Time) (*AfficheRecord, error) {
	key := formatDate(startDate)

	var record AfficheRecord
	var updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT state_json, updated_at FROM affiches WHERE start_date = ?`, key,
	).Scan(&record.StateJSON, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load affiche: %w", err)
	}
	record.StartDate = startDate
	if record.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return nil, fmt.Errorf("parse affiche timestamp: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT slot_type, slot_index, filename, mime, data
         FROM affiche_images WHERE start_date = ?
         ORDER BY slot_type, slot_index`,
		key,
	)
	if err != nil {
		return nil, fmt.Errorf("load affiche images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		img := AfficheImage{StartDate: startDate}
		if err := rows.Scan(&img.SlotType, &img.SlotIndex, &img.Filename, &img.Mime, &img.Data); err != nil {
			return nil, fmt.Errorf("scan affiche image: %w", err)
		}
		record.Images = append(record.Images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListAffiches returns the start dates of stored poster layouts, newest
// first.
func (s *Store) ListAffiches(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT start_date FROM affiches ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list affiches: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan affiche date: %w", err)
		}
		date, err := parseDate(raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}
