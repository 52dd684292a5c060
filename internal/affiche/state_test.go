package affiche

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validState() *State {
	state := &State{
		StartDate: time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
		Films: []FilmRow{
			{Name: "Vaiana 2", Duration: "1u40", Version: "NV", GoodIcons: 3},
			{Name: "Wicked", Duration: "2u40", Version: "OV", Is3D: true},
		},
	}
	state.Films[0].Cells[0] = "14:30"
	state.Films[0].Cells[1] = "20:15"
	state.Films[1].Cells[2] = "20:00"
	return state
}

func TestValidate(t *testing.T) {
	require.NoError(t, validState().Validate())

	state := validState()
	state.StartDate = time.Time{}
	assert.Error(t, state.Validate(), "missing start date")

	state = validState()
	state.Films = nil
	assert.Error(t, state.Validate(), "empty film list")

	state = validState()
	state.Films[1].Name = "  "
	assert.Error(t, state.Validate(), "blank film name")

	state = validState()
	state.TopPosters = make([]string, MaxTopPosters+1)
	assert.Error(t, state.Validate(), "too many top posters")

	state = validState()
	state.BottomPosters = make([]string, MaxBottomPosters+1)
	assert.Error(t, state.Validate(), "too many bottom posters")
}

func TestStartsOnWednesday(t *testing.T) {
	state := validState()
	assert.True(t, state.StartsOnWednesday(), "2026-08-26 is a Wednesday")

	state.StartDate = state.StartDate.AddDate(0, 0, 1)
	assert.False(t, state.StartsOnWednesday(), "Thursday start")
}

func TestEndDateSpansFortnight(t *testing.T) {
	state := validState()
	assert.Equal(t, time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC), state.EndDate())

	days := state.Dates()
	require.Len(t, days, CellCount)
	assert.Equal(t, state.StartDate, days[0])
	assert.Equal(t, state.EndDate(), days[CellCount-1])
	for i := 1; i < CellCount; i++ {
		assert.Equal(t, days[i-1].AddDate(0, 0, 1), days[i])
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.toml")
	state := validState()
	state.TopPosters = []string{"vaiana.jpg"}

	require.NoError(t, state.SaveFile(path))
	loaded, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, loaded.StartDate.Equal(state.StartDate))
	require.Len(t, loaded.Films, 2)
	assert.Equal(t, "20:15", loaded.Films[0].Cells[1])
	assert.True(t, loaded.Films[1].Is3D)
	assert.Equal(t, []string{"vaiana.jpg"}, loaded.TopPosters)
}

func TestStateJSONRoundTrip(t *testing.T) {
	raw, err := MarshalState(validState())
	require.NoError(t, err)

	loaded, err := UnmarshalState(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Films[0].GoodIcons)
}
