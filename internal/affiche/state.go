package affiche

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Slot limits for the poster strips above and below the schedule table.
const (
	MaxTopPosters    = 5
	MaxBottomPosters = 10
	// CellCount is the fourteen calendar days the poster covers.
	CellCount = 14
)

// FilmRow is one line of the schedule table. Cells hold the showtime text
// per day over the fortnight; empty cells stay blank on the poster.
type FilmRow struct {
	Name       string            `json:"name" toml:"name"`
	Duration   string            `json:"duration,omitempty" toml:"duration,omitempty"`
	Version    string            `json:"version,omitempty" toml:"version,omitempty"`
	Is3D       bool              `json:"is_3d,omitempty" toml:"is_3d,omitempty"`
	GoodIcons  int               `json:"good_icons,omitempty" toml:"good_icons,omitempty"`
	TitleImage string            `json:"title_image,omitempty" toml:"title_image,omitempty"`
	Cells      [CellCount]string `json:"cells" toml:"cells"`
}

// State is the editable description of one two-week poster. Poster fields
// hold image paths when the state lives in a layout file, and stored
// filenames once persisted.
type State struct {
	StartDate     time.Time `json:"start_date" toml:"start_date"`
	Films         []FilmRow `json:"films" toml:"films"`
	TopPosters    []string  `json:"top_posters,omitempty" toml:"top_posters,omitempty"`
	BottomPosters []string  `json:"bottom_posters,omitempty" toml:"bottom_posters,omitempty"`
}

// Validate checks slot limits and that the poster week starts on the day a
// cinema week changes over.
func (s *State) Validate() error {
	if s.StartDate.IsZero() {
		return fmt.Errorf("start_date is required")
	}
	if len(s.Films) == 0 {
		return fmt.Errorf("at least one film row is required")
	}
	if len(s.TopPosters) > MaxTopPosters {
		return fmt.Errorf("at most %d top posters, got %d", MaxTopPosters, len(s.TopPosters))
	}
	if len(s.BottomPosters) > MaxBottomPosters {
		return fmt.Errorf("at most %d bottom posters, got %d", MaxBottomPosters, len(s.BottomPosters))
	}
	for i, film := range s.Films {
		if strings.TrimSpace(film.Name) == "" {
			return fmt.Errorf("film row %d has no name", i+1)
		}
	}
	return nil
}

// StartsOnWednesday reports whether the poster week begins on the customary
// changeover day.
func (s *State) StartsOnWednesday() bool {
	return s.StartDate.Weekday() == time.Wednesday
}

// EndDate returns the last day covered by the poster, thirteen days after
// the start.
func (s *State) EndDate() time.Time {
	return s.StartDate.AddDate(0, 0, 13)
}

// Dates returns the fourteen calendar days the poster covers, one per cell
// column.
func (s *State) Dates() [CellCount]time.Time {
	var days [CellCount]time.Time
	for i := range days {
		days[i] = s.StartDate.AddDate(0, 0, i)
	}
	return days
}

// LoadFile reads a layout document from a TOML file.
func LoadFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	var state State
	if err := toml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveFile writes the layout document as TOML.
func (s *State) SaveFile(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	return nil
}

// MarshalState encodes the state for database storage.
func MarshalState(s *State) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(data), nil
}

// UnmarshalState decodes a stored state.
func UnmarshalState(raw string) (*State, error) {
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}
