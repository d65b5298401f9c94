// Package layout turns a seat capacity into an ordered list of seat
// descriptors. Generation is pure: the same catalog and capacity always
// produce the same seats in the same order.
package layout

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kirinyoku/busseat-go/internal/domain"
)

const (
	MinCapacity = 1
	MaxCapacity = 80
)

type Scheme string

const (
	// SchemeSequential labels seats prefix+1, prefix+2, ... in row-major order.
	SchemeSequential Scheme = "sequential"
	// SchemeRowLetter labels seats prefix+A1, prefix+A2, ... with one letter per row.
	SchemeRowLetter Scheme = "row_letter"
)

// Template fixes the column count and numbering for one capacity bracket.
type Template struct {
	Name        string `yaml:"name"`
	MaxCapacity int    `yaml:"max_capacity"`
	Columns     int    `yaml:"columns"`
	Prefix      string `yaml:"prefix"`
	Scheme      Scheme `yaml:"scheme"`
}

// Label returns the seat number for a 0-based row and column.
func (t Template) Label(row, col int) string {
	switch t.Scheme {
	case SchemeRowLetter:
		return t.Prefix + string(rune('A'+row)) + strconv.Itoa(col+1)
	default:
		return t.Prefix + strconv.Itoa(row*t.Columns+col+1)
	}
}

// Catalog is an ordered list of templates; brackets are ascending by MaxCapacity.
type Catalog struct {
	Templates []Template `yaml:"templates"`
}

var DefaultCatalog = Catalog{
	Templates: []Template{
		{Name: "limousine", MaxCapacity: 22, Columns: 3, Prefix: "L", Scheme: SchemeSequential},
		{Name: "sleeper", MaxCapacity: 34, Columns: 3, Prefix: "B", Scheme: SchemeSequential},
		{Name: "standard", MaxCapacity: 45, Columns: 4, Scheme: SchemeRowLetter},
		{Name: "large", MaxCapacity: MaxCapacity, Columns: 5, Scheme: SchemeRowLetter},
	},
}

// Load reads a YAML catalog from path and validates it.
func Load(path string) (Catalog, error) {
	const op = "layout.Load"

	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

// Validate checks that brackets ascend, cover MaxCapacity, and that every
// row-letter template fits within 26 rows.
func (c Catalog) Validate() error {
	if len(c.Templates) == 0 {
		return fmt.Errorf("catalog has no templates")
	}

	prev := 0
	seen := make(map[string]struct{}, len(c.Templates))
	for _, t := range c.Templates {
		if t.Name == "" {
			return fmt.Errorf("template without name")
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("template %q declared twice", t.Name)
		}
		seen[t.Name] = struct{}{}

		if t.Columns <= 0 {
			return fmt.Errorf("template %q: columns must be positive", t.Name)
		}
		if t.MaxCapacity <= prev {
			return fmt.Errorf("template %q: brackets must ascend", t.Name)
		}
		switch t.Scheme {
		case SchemeSequential:
		case SchemeRowLetter:
			if rows(t.MaxCapacity, t.Columns) > 26 {
				return fmt.Errorf("template %q: more than 26 rows", t.Name)
			}
		default:
			return fmt.Errorf("template %q: unknown scheme %q", t.Name, t.Scheme)
		}
		prev = t.MaxCapacity
	}

	if prev < MaxCapacity {
		return fmt.Errorf("catalog covers capacities up to %d, need %d", prev, MaxCapacity)
	}

	return nil
}

// Select returns the template of the bracket capacity falls into.
func (c Catalog) Select(capacity int) (Template, error) {
	if err := checkCapacity(capacity); err != nil {
		return Template{}, err
	}

	for _, t := range c.Templates {
		if capacity <= t.MaxCapacity {
			return t, nil
		}
	}

	return Template{}, domain.InvalidInputError{
		Field: "capacity",
		Msg:   fmt.Sprintf("no layout template for %d seats", capacity),
	}
}

// Lookup finds a template by name.
func (c Catalog) Lookup(name string) (Template, bool) {
	for _, t := range c.Templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// Generate picks the template for capacity and lays the seats out.
func (c Catalog) Generate(capacity int) (Template, []domain.SeatDescriptor, error) {
	t, err := c.Select(capacity)
	if err != nil {
		return Template{}, nil, err
	}

	return t, Build(t, capacity), nil
}

// GenerateWith lays out capacity seats with an explicitly named template.
func (c Catalog) GenerateWith(name string, capacity int) (Template, []domain.SeatDescriptor, error) {
	if err := checkCapacity(capacity); err != nil {
		return Template{}, nil, err
	}

	t, ok := c.Lookup(name)
	if !ok {
		return Template{}, nil, domain.InvalidInputError{
			Field: "layout",
			Msg:   fmt.Sprintf("unknown layout template %q", name),
		}
	}

	if t.Scheme == SchemeRowLetter && rows(capacity, t.Columns) > 26 {
		return Template{}, nil, domain.InvalidInputError{
			Field: "capacity",
			Msg:   fmt.Sprintf("%d seats do not fit template %q", capacity, name),
		}
	}

	return t, Build(t, capacity), nil
}

// Generate lays out capacity seats using DefaultCatalog.
func Generate(capacity int) ([]domain.SeatDescriptor, error) {
	_, seats, err := DefaultCatalog.Generate(capacity)
	return seats, err
}

// Build assigns rows and columns row-major, stopping exactly at capacity.
// Rows and columns in the output are 1-based.
func Build(t Template, capacity int) []domain.SeatDescriptor {
	out := make([]domain.SeatDescriptor, 0, capacity)
	for i := 0; i < capacity; i++ {
		row, col := i/t.Columns, i%t.Columns
		out = append(out, domain.SeatDescriptor{
			SeatNumber: t.Label(row, col),
			Row:        row + 1,
			Column:     col + 1,
		})
	}
	return out
}

func checkCapacity(capacity int) error {
	if capacity < MinCapacity || capacity > MaxCapacity {
		return domain.InvalidInputError{
			Field: "capacity",
			Msg:   fmt.Sprintf("must be between %d and %d", MinCapacity, MaxCapacity),
		}
	}
	return nil
}

func rows(capacity, columns int) int {
	return (capacity + columns - 1) / columns
}
