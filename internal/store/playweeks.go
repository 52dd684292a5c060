package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cinebo/internal/speelweek"
)

func scanPlayWeek(scanner interface{ Scan(dest ...any) error }) (*PlayWeek, error) {
	var week PlayWeek
	var start, end string
	if err := scanner.Scan(&week.ID, &week.WeekNumber, &start, &end); err != nil {
		return nil, err
	}
	var err error
	if week.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if week.EndDate, err = parseDate(end); err != nil {
		return nil, err
	}
	return &week, nil
}

// GetOrCreatePlayWeek resolves the play week containing d, creating it with
// the next week number from the week counter when it does not exist yet.
func (s *Store) GetOrCreatePlayWeek(ctx context.Context, d time.Time) (*PlayWeek, error) {
	startWeekday, err := s.WeekStartWeekday(ctx)
	if err != nil {
		return nil, err
	}
	start, end := speelweek.Range(d, startWeekday)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, weeknummer, start_datum, eind_datum FROM speelweek
         WHERE start_datum = ? AND eind_datum = ?`,
		formatDate(start), formatDate(end),
	)
	week, err := scanPlayWeek(row)
	if err == nil {
		return week, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get play week: %w", err)
	}

	weekNumber, err := s.IntSetting(ctx, SettingWeekCounter, DefaultWeekCounter)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO speelweek (weeknummer, start_datum, eind_datum) VALUES (?, ?, ?)`,
		weekNumber, formatDate(start), formatDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("insert play week: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := s.SetIntSetting(ctx, SettingWeekCounter, weekNumber+1); err != nil {
		return nil, err
	}

	return &PlayWeek{ID: id, WeekNumber: weekNumber, StartDate: start, EndDate: end}, nil
}

// PlayWeekByID fetches a play week by identifier.
func (s *Store) PlayWeekByID(ctx context.Context, id int64) (*PlayWeek, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, weeknummer, start_datum, eind_datum FROM speelweek WHERE id = ?`, id)
	week, err := scanPlayWeek(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get play week: %w", err)
	}
	return week, nil
}

// SetWeekNumber overrides the week number of an existing play week.
func (s *Store) SetWeekNumber(ctx context.Context, id int64, weekNumber int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE speelweek SET weeknummer = ? WHERE id = ?`, weekNumber, id)
	if err != nil {
		return fmt.Errorf("update week number: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("play week %d not found", id)
	}
	return nil
}

// ListPlayWeeks returns play weeks ordered by start date, newest first.
func (s *Store) ListPlayWeeks(ctx context.Context, limit int) ([]*PlayWeek, error) {
	query := `SELECT id, weeknummer, start_datum, eind_datum FROM speelweek
              ORDER BY start_datum DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list play weeks: %w", err)
	}
	defer rows.Close()

	var weeks []*PlayWeek
	for rows.Next() {
		week, err := scanPlayWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("scan play week: %w", err)
		}
		weeks = append(weeks, week)
	}
	return weeks, rows.Err()
}
