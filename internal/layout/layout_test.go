package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/busseat-go/internal/domain"
)

func TestGenerateLimousine22(t *testing.T) {
	seats, err := Generate(22)
	require.NoError(t, err)
	require.Len(t, seats, 22)

	for i, s := range seats {
		assert.Equal(t, fmt.Sprintf("L%d", i+1), s.SeatNumber)
		assert.Equal(t, i/3+1, s.Row)
		assert.Equal(t, i%3+1, s.Column)
	}

	last := seats[len(seats)-1]
	assert.Equal(t, 8, last.Row)
	assert.Equal(t, 1, last.Column)
}

func TestGenerateStandardRowLetters(t *testing.T) {
	seats, err := Generate(45)
	require.NoError(t, err)
	require.Len(t, seats, 45)

	assert.Equal(t, "A1", seats[0].SeatNumber)
	assert.Equal(t, "A4", seats[3].SeatNumber)
	assert.Equal(t, "B1", seats[4].SeatNumber)
	assert.Equal(t, "L1", seats[44].SeatNumber)
	assert.Equal(t, 12, seats[44].Row)
}

func TestGenerateUniqueAndDeterministic(t *testing.T) {
	for c := MinCapacity; c <= MaxCapacity; c++ {
		first, err := Generate(c)
		require.NoError(t, err, "capacity %d", c)
		second, err := Generate(c)
		require.NoError(t, err)

		require.Len(t, first, c)
		assert.Equal(t, first, second, "capacity %d", c)

		seen := make(map[string]struct{}, c)
		for _, s := range first {
			_, dup := seen[s.SeatNumber]
			assert.False(t, dup, "capacity %d: duplicate %s", c, s.SeatNumber)
			seen[s.SeatNumber] = struct{}{}
		}
	}
}

func TestGenerateRejectsOutOfBounds(t *testing.T) {
	for _, c := range []int{-1, 0, MaxCapacity + 1} {
		_, err := Generate(c)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "capacity %d", c)
	}
}

func TestSelectBrackets(t *testing.T) {
	cases := map[int]string{
		1:  "limousine",
		22: "limousine",
		23: "sleeper",
		34: "sleeper",
		35: "standard",
		45: "standard",
		46: "large",
		80: "large",
	}
	for capacity, want := range cases {
		tpl, err := DefaultCatalog.Select(capacity)
		require.NoError(t, err)
		assert.Equal(t, want, tpl.Name, "capacity %d", capacity)
	}
}

func TestGenerateWith(t *testing.T) {
	tpl, seats, err := DefaultCatalog.GenerateWith("sleeper", 5)
	require.NoError(t, err)
	assert.Equal(t, "sleeper", tpl.Name)
	assert.Equal(t, []domain.SeatDescriptor{
		{SeatNumber: "B1", Row: 1, Column: 1},
		{SeatNumber: "B2", Row: 1, Column: 2},
		{SeatNumber: "B3", Row: 1, Column: 3},
		{SeatNumber: "B4", Row: 2, Column: 1},
		{SeatNumber: "B5", Row: 2, Column: 2},
	}, seats)

	_, _, err = DefaultCatalog.GenerateWith("double-decker", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDefaultCatalogValid(t *testing.T) {
	require.NoError(t, DefaultCatalog.Validate())
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]Catalog{
		"empty": {},
		"descending": {Templates: []Template{
			{Name: "a", MaxCapacity: 40, Columns: 4, Scheme: SchemeSequential},
			{Name: "b", MaxCapacity: 30, Columns: 4, Scheme: SchemeSequential},
		}},
		"short": {Templates: []Template{
			{Name: "a", MaxCapacity: 40, Columns: 4, Scheme: SchemeSequential},
		}},
		"too many rows": {Templates: []Template{
			{Name: "a", MaxCapacity: 80, Columns: 2, Scheme: SchemeRowLetter},
		}},
		"unknown scheme": {Templates: []Template{
			{Name: "a", MaxCapacity: 80, Columns: 4, Scheme: "zigzag"},
		}},
	}
	for name, c := range cases {
		assert.Error(t, c.Validate(), name)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	doc := `templates:
  - name: minibus
    max_capacity: 16
    columns: 4
    prefix: M
    scheme: sequential
  - name: coach
    max_capacity: 80
    columns: 4
    scheme: row_letter
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Templates, 2)

	tpl, seats, err := c.Generate(6)
	require.NoError(t, err)
	assert.Equal(t, "minibus", tpl.Name)
	assert.Equal(t, "M6", seats[5].SeatNumber)
	assert.Equal(t, 2, seats[5].Row)
	assert.Equal(t, 2, seats[5].Column)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates: []\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
