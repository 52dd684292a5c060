package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Setting keys. The settings table stores everything as text; the typed
// accessors below parse and write back defaults on first use, so a fresh
// database self-seeds during normal operation.
const (
	SettingWeekStartWeekday   = "week_start_weekday"
	SettingWeekCounter        = "week_counter"
	SettingBTWRate            = "btw_rate"
	SettingAuteursRate        = "auteurs_rate"
	SettingTicketCounterAdult = "ticket_counter_volw"
	SettingTicketCounterChild = "ticket_counter_kind"
)

// Default setting values. Weekday numbering is 0=Monday through 6=Sunday,
// matching the values existing databases carry.
const (
	DefaultWeekStartWeekday   = 1 // dinsdag
	DefaultWeekCounter        = 1
	DefaultBTWRate            = 0.0566
	DefaultAuteursRate        = 0.0120
	DefaultTicketCounterAdult = 1
	DefaultTicketCounterChild = 1
)

// Setting returns the raw value for key. The second return reports whether
// the key exists.
func (s *Store) Setting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores a raw setting value, replacing any existing one.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
         ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// IntSetting reads an integer setting, seeding the default when the key is
// absent or unparseable.
func (s *Store) IntSetting(ctx context.Context, key string, def int) (int, error) {
	raw, ok, err := s.Setting(ctx, key)
	if err != nil {
		return 0, err
	}
	if ok {
		if parsed, parseErr := strconv.Atoi(strings.TrimSpace(raw)); parseErr == nil {
			return parsed, nil
		}
	}
	if err := s.SetSetting(ctx, key, strconv.Itoa(def)); err != nil {
		return 0, err
	}
	return def, nil
}

// FloatSetting reads a float setting, tolerating comma decimals, seeding the
// default when the key is absent or unparseable.
func (s *Store) FloatSetting(ctx context.Context, key string, def float64) (float64, error) {
	raw, ok, err := s.Setting(ctx, key)
	if err != nil {
		return 0, err
	}
	if ok {
		normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
		if parsed, parseErr := strconv.ParseFloat(normalized, 64); parseErr == nil {
			return parsed, nil
		}
	}
	if err := s.SetSetting(ctx, key, strconv.FormatFloat(def, 'f', -1, 64)); err != nil {
		return 0, err
	}
	return def, nil
}

// SetIntSetting stores an integer setting.
func (s *Store) SetIntSetting(ctx context.Context, key string, value int) error {
	return s.SetSetting(ctx, key, strconv.Itoa(value))
}

// SetFloatSetting stores a float setting.
func (s *Store) SetFloatSetting(ctx context.Context, key string, value float64) error {
	return s.SetSetting(ctx, key, strconv.FormatFloat(value, 'f', -1, 64))
}

// WeekStartWeekday returns the configured first weekday of a play week
// (0=Monday through 6=Sunday), clamped to that range.
func (s *Store) WeekStartWeekday(ctx context.Context) (int, error) {
	value, err := s.IntSetting(ctx, SettingWeekStartWeekday, DefaultWeekStartWeekday)
	if err != nil {
		return 0, err
	}
	if value < 0 || value > 6 {
		if err := s.SetIntSetting(ctx, SettingWeekStartWeekday, DefaultWeekStartWeekday); err != nil {
			return 0, err
		}
		return DefaultWeekStartWeekday, nil
	}
	return value, nil
}

// AllSettings returns every stored setting ordered by key.
func (s *Store) AllSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}
