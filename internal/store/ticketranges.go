package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TicketEnd computes the last ticket number of a range. A zero quantity
// yields begin minus one so the next range starts at begin again.
func TicketEnd(begin, qty int) int {
	if qty > 0 {
		return begin + qty - 1
	}
	return begin - 1
}

// GetOrCreateTicketRange resolves the first ticket numbers for a combination
// in a play week. Ticket numbers run on across weeks:
//   - an existing row wins,
//   - otherwise the previous play week of the same film and hall continues
//     where its paid quantity left off,
//   - otherwise the global ticket counters seed a fresh range.
//
// The global counters are ratcheted up to the new begins so unrelated films
// never reuse numbers.
func (s *Store) GetOrCreateTicketRange(ctx context.Context, playWeekID, filmID, hallID int64) (*TicketRange, error) {
	existing, err := s.ticketRange(ctx, playWeekID, filmID, hallID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	week, err := s.PlayWeekByID(ctx, playWeekID)
	if err != nil {
		return nil, err
	}
	if week == nil {
		return nil, fmt.Errorf("play week %d not found", playWeekID)
	}

	var adultBegin, childBegin int

	row := s.db.QueryRowContext(ctx,
		`SELECT tr.speelweek_id, tr.begin_volw, tr.begin_kind
         FROM ticket_ranges tr
         JOIN speelweek sw ON sw.id = tr.speelweek_id
         WHERE tr.film_id = ? AND COALESCE(tr.zaal_id, 0) = ? AND sw.start_datum < ?
         ORDER BY sw.start_datum DESC
         LIMIT 1`,
		filmID, hallID, formatDate(week.StartDate),
	)
	var prevWeekID int64
	var prevAdultBegin, prevChildBegin int
	err = row.Scan(&prevWeekID, &prevAdultBegin, &prevChildBegin)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if adultBegin, err = s.IntSetting(ctx, SettingTicketCounterAdult, DefaultTicketCounterAdult); err != nil {
			return nil, err
		}
		if childBegin, err = s.IntSetting(ctx, SettingTicketCounterChild, DefaultTicketCounterChild); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("find previous ticket range: %w", err)
	default:
		prevAdultQty, prevChildQty, sumErr := s.SumPaidQuantities(ctx, prevWeekID, filmID, hallID)
		if sumErr != nil {
			return nil, sumErr
		}
		adultBegin = TicketEnd(prevAdultBegin, prevAdultQty) + 1
		childBegin = TicketEnd(prevChildBegin, prevChildQty) + 1
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO ticket_ranges (speelweek_id, film_id, zaal_id, begin_volw, begin_kind)
         VALUES (?, ?, ?, ?, ?)`,
		playWeekID, filmID, nullableID(hallID), adultBegin, childBegin,
	)
	if err != nil {
		return nil, fmt.Errorf("insert ticket range: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := s.ratchetCounter(ctx, SettingTicketCounterAdult, adultBegin); err != nil {
		return nil, err
	}
	if err := s.ratchetCounter(ctx, SettingTicketCounterChild, childBegin); err != nil {
		return nil, err
	}

	return &TicketRange{
		ID:         id,
		PlayWeekID: playWeekID,
		FilmID:     filmID,
		HallID:     hallID,
		AdultBegin: adultBegin,
		ChildBegin: childBegin,
	}, nil
}

func (s *Store) ticketRange(ctx context.Context, playWeekID, filmID, hallID int64) (*TicketRange, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, begin_volw, begin_kind FROM ticket_ranges
         WHERE speelweek_id = ? AND film_id = ? AND COALESCE(zaal_id, 0) = ?`,
		playWeekID, filmID, hallID,
	)
	rng := TicketRange{PlayWeekID: playWeekID, FilmID: filmID, HallID: hallID}
	err := row.Scan(&rng.ID, &rng.AdultBegin, &rng.ChildBegin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket range: %w", err)
	}
	return &rng, nil
}

func (s *Store) ratchetCounter(ctx context.Context, key string, floor int) error {
	current, err := s.IntSetting(ctx, key, 1)
	if err != nil {
		return err
	}
	if floor > current {
		return s.SetIntSetting(ctx, key, floor)
	}
	return nil
}
