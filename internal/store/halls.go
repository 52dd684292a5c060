package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// GetOrCreateHall resolves a hall name to its ID, registering it when new.
// An empty name returns zero, meaning the hall stays unknown.
func (s *Store) GetOrCreateHall(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM zalen WHERE naam = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("get hall: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO zalen (naam) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert hall: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// ListHalls returns all halls ordered by name.
func (s *Store) ListHalls(ctx context.Context) ([]Hall, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, naam FROM zalen ORDER BY naam`)
	if err != nil {
		return nil, fmt.Errorf("list halls: %w", err)
	}
	defer rows.Close()

	var halls []Hall
	for rows.Next() {
		var hall Hall
		if err := rows.Scan(&hall.ID, &hall.Name); err != nil {
			return nil, fmt.Errorf("scan hall: %w", err)
		}
		halls = append(halls, hall)
	}
	return halls, rows.Err()
}
