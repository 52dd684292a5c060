package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"
)

const saleColumns = `id, datum, speelweek_id, film_id, zaal_id, is_3d,
    aantal_volw, aantal_kind, gratis_volw, gratis_kind,
    bedrag_volw, bedrag_kind, totaal_aantal, totaal_bedrag,
    source_file, import_id`

func scanSale(scanner interface{ Scan(dest ...any) error }) (*DailySale, error) {
	var sale DailySale
	var datum string
	var hallID sql.NullInt64
	var is3D int
	var sourceFile, importID sql.NullString
	err := scanner.Scan(
		&sale.ID, &datum, &sale.PlayWeekID, &sale.FilmID, &hallID, &is3D,
		&sale.AdultCount, &sale.ChildCount, &sale.FreeAdult, &sale.FreeChild,
		&sale.AdultAmount, &sale.ChildAmount, &sale.TotalCount, &sale.TotalAmount,
		&sourceFile, &importID,
	)
	if err != nil {
		return nil, err
	}
	if sale.Date, err = parseDate(datum); err != nil {
		return nil, err
	}
	sale.HallID = hallID.Int64
	sale.Is3D = is3D != 0
	sale.SourceFile = sourceFile.String
	sale.ImportID = importID.String
	return &sale, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UpsertDailySale inserts or replaces the sales row for the sale's
// (date, film, hall) key. Totals are stored as given; amounts are rounded to
// cents.
func (s *Store) UpsertDailySale(ctx context.Context, sale *DailySale) error {
	if sale == nil {
		return errors.New("sale is nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM daily_sales
         WHERE datum = ? AND film_id = ? AND COALESCE(zaal_id, 0) = ?`,
		formatDate(sale.Date), sale.FilmID, sale.HallID,
	).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, insertErr := tx.ExecContext(ctx,
			`INSERT INTO daily_sales (
                datum, speelweek_id, film_id, zaal_id, is_3d,
                aantal_volw, aantal_kind, gratis_volw, gratis_kind,
                bedrag_volw, bedrag_kind, totaal_aantal, totaal_bedrag,
                source_file, import_id
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			formatDate(sale.Date), sale.PlayWeekID, sale.FilmID, nullableID(sale.HallID),
			boolToInt(sale.Is3D),
			sale.AdultCount, sale.ChildCount, sale.FreeAdult, sale.FreeChild,
			round2(sale.AdultAmount), round2(sale.ChildAmount),
			sale.TotalCount, round2(sale.TotalAmount),
			nullableString(sale.SourceFile), nullableString(sale.ImportID),
		)
		if insertErr != nil {
			return fmt.Errorf("insert daily sale: %w", insertErr)
		}
		if sale.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
	case err != nil:
		return fmt.Errorf("find daily sale: %w", err)
	default:
		_, updateErr := tx.ExecContext(ctx,
			`UPDATE daily_sales
             SET speelweek_id = ?, is_3d = ?,
                 aantal_volw = ?, aantal_kind = ?, gratis_volw = ?, gratis_kind = ?,
                 bedrag_volw = ?, bedrag_kind = ?, totaal_aantal = ?, totaal_bedrag = ?,
                 source_file = ?, import_id = ?
             WHERE id = ?`,
			sale.PlayWeekID, boolToInt(sale.Is3D),
			sale.AdultCount, sale.ChildCount, sale.FreeAdult, sale.FreeChild,
			round2(sale.AdultAmount), round2(sale.ChildAmount),
			sale.TotalCount, round2(sale.TotalAmount),
			nullableString(sale.SourceFile), nullableString(sale.ImportID),
			id,
		)
		if updateErr != nil {
			return fmt.Errorf("update daily sale: %w", updateErr)
		}
		sale.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit daily sale: %w", err)
	}
	return nil
}

// SaleByKey fetches the sales row for (date, film, hall), or nil when absent.
func (s *Store) SaleByKey(ctx context.Context, date time.Time, filmID, hallID int64) (*DailySale, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM daily_sales
         WHERE datum = ? AND film_id = ? AND COALESCE(zaal_id, 0) = ?`,
		formatDate(date), filmID, hallID,
	)
	sale, err := scanSale(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get daily sale: %w", err)
	}
	return sale, nil
}

// SumPaidQuantities returns the paid adult and child quantities sold for a
// combination during one play week.
func (s *Store) SumPaidQuantities(ctx context.Context, playWeekID, filmID, hallID int64) (int, int, error) {
	var adults, children int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(aantal_volw), 0), COALESCE(SUM(aantal_kind), 0)
         FROM daily_sales
         WHERE speelweek_id = ? AND film_id = ? AND COALESCE(zaal_id, 0) = ?`,
		playWeekID, filmID, hallID,
	).Scan(&adults, &children)
	if err != nil {
		return 0, 0, fmt.Errorf("sum paid quantities: %w", err)
	}
	return adults, children, nil
}

// History returns daily sales between from and to (inclusive) joined with
// film, week, and hall context, ordered by date, hall, and title.
func (s *Store) History(ctx context.Context, from, to time.Time) ([]HistoryRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT
            ds.datum, sw.weeknummer, sw.start_datum, sw.eind_datum,
            f.interne_titel, COALESCE(z.naam, ''), ds.is_3d,
            ds.aantal_volw, ds.aantal_kind, ds.gratis_volw, ds.gratis_kind,
            ds.bedrag_volw, ds.bedrag_kind, ds.totaal_aantal, ds.totaal_bedrag
         FROM daily_sales ds
         JOIN films f ON f.id = ds.film_id
         JOIN speelweek sw ON sw.id = ds.speelweek_id
         LEFT JOIN zalen z ON z.id = ds.zaal_id
         WHERE ds.datum BETWEEN ? AND ?
         ORDER BY ds.datum ASC, z.naam ASC, f.interne_titel ASC`,
		formatDate(from), formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer rows.Close()

	var history []HistoryRow
	for rows.Next() {
		var entry HistoryRow
		var datum, weekStart, weekEnd string
		var is3D int
		if err := rows.Scan(
			&datum, &entry.WeekNumber, &weekStart, &weekEnd,
			&entry.FilmTitle, &entry.HallName, &is3D,
			&entry.AdultCount, &entry.ChildCount, &entry.FreeAdult, &entry.FreeChild,
			&entry.AdultAmount, &entry.ChildAmount, &entry.TotalCount, &entry.TotalAmount,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if entry.Date, err = parseDate(datum); err != nil {
			return nil, err
		}
		if entry.WeekStart, err = parseDate(weekStart); err != nil {
			return nil, err
		}
		if entry.WeekEnd, err = parseDate(weekEnd); err != nil {
			return nil, err
		}
		entry.Is3D = is3D != 0
		history = append(history, entry)
	}
	return history, rows.Err()
}

// WeekCombos returns the distinct (play week, film, hall) combinations with
// sales between from and to, in the order settlement reports are generated.
func (s *Store) WeekCombos(ctx context.Context, from, to time.Time) ([]WeekCombo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT
            ds.speelweek_id, sw.weeknummer, sw.start_datum, sw.eind_datum,
            ds.film_id, COALESCE(ds.zaal_id, 0),
            f.interne_titel, COALESCE(f.maccsbox_titel, ''),
            COALESCE(f.distributeur, ''), COALESCE(f.land_herkomst, ''),
            COALESCE(z.naam, '')
         FROM daily_sales ds
         JOIN speelweek sw ON sw.id = ds.speelweek_id
         JOIN films f ON f.id = ds.film_id
         LEFT JOIN zalen z ON z.id = ds.zaal_id
         WHERE ds.datum BETWEEN ? AND ?
         ORDER BY sw.start_datum ASC, COALESCE(z.naam, '') ASC, f.interne_titel ASC`,
		formatDate(from), formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch week combos: %w", err)
	}
	defer rows.Close()

	var combos []WeekCombo
	for rows.Next() {
		var combo WeekCombo
		var weekStart, weekEnd string
		if err := rows.Scan(
			&combo.PlayWeekID, &combo.WeekNumber, &weekStart, &weekEnd,
			&combo.FilmID, &combo.HallID,
			&combo.InternalTitle, &combo.MaccsTitle, &combo.Distributor, &combo.Country,
			&combo.HallName,
		); err != nil {
			return nil, fmt.Errorf("scan week combo: %w", err)
		}
		if combo.WeekStart, err = parseDate(weekStart); err != nil {
			return nil, err
		}
		if combo.WeekEnd, err = parseDate(weekEnd); err != nil {
			return nil, err
		}
		combos = append(combos, combo)
	}
	return combos, rows.Err()
}

// WeekSales returns the daily rows for a combination during one play week,
// ordered by date.
func (s *Store) WeekSales(ctx context.Context, playWeekID, filmID, hallID int64) ([]*DailySale, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM daily_sales
         WHERE speelweek_id = ? AND film_id = ? AND COALESCE(zaal_id, 0) = ?
         ORDER BY datum ASC`,
		playWeekID, filmID, hallID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch week sales: %w", err)
	}
	defer rows.Close()

	var sales []*DailySale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan week sale: %w", err)
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}
