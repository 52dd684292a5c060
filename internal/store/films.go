package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const filmColumns = `id, interne_titel, maccsbox_titel, distributeur, land_herkomst`

func scanFilm(scanner interface{ Scan(dest ...any) error }) (*Film, error) {
	var film Film
	var maccs, distributor, country sql.NullString
	if err := scanner.Scan(&film.ID, &film.InternalTitle, &maccs, &distributor, &country); err != nil {
		return nil, err
	}
	film.MaccsTitle = maccs.String
	film.Distributor = distributor.String
	film.Country = country.String
	return &film, nil
}

// FilmByInternalTitle returns the film registered under the point-of-sale
// title, or nil when unknown.
func (s *Store) FilmByInternalTitle(ctx context.Context, title string) (*Film, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+filmColumns+` FROM films WHERE interne_titel = ?`, title)
	film, err := scanFilm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get film: %w", err)
	}
	return film, nil
}

// FilmByID fetches a film by identifier.
func (s *Store) FilmByID(ctx context.Context, id int64) (*Film, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+filmColumns+` FROM films WHERE id = ?`, id)
	film, err := scanFilm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get film: %w", err)
	}
	return film, nil
}

// CreateFilm registers a new film and returns it with its assigned ID.
func (s *Store) CreateFilm(ctx context.Context, film Film) (*Film, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO films (interne_titel, maccsbox_titel, distributeur, land_herkomst)
         VALUES (?, ?, ?, ?)`,
		film.InternalTitle,
		nullableString(film.MaccsTitle),
		nullableString(film.Distributor),
		nullableString(film.Country),
	)
	if err != nil {
		return nil, fmt.Errorf("insert film: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	film.ID = id
	return &film, nil
}

// UpdateFilm persists changes to an existing film.
func (s *Store) UpdateFilm(ctx context.Context, film *Film) error {
	if film == nil {
		return errors.New("film is nil")
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE films
         SET interne_titel = ?, maccsbox_titel = ?, distributeur = ?, land_herkomst = ?
         WHERE id = ?`,
		film.InternalTitle,
		nullableString(film.MaccsTitle),
		nullableString(film.Distributor),
		nullableString(film.Country),
		film.ID,
	)
	if err != nil {
		return fmt.Errorf("update film: %w", err)
	}
	return nil
}

// ListFilms returns all films ordered by internal title.
func (s *Store) ListFilms(ctx context.Context) ([]*Film, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+filmColumns+` FROM films ORDER BY interne_titel`)
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	defer rows.Close()

	var films []*Film
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan film: %w", err)
		}
		films = append(films, film)
	}
	return films, rows.Err()
}
