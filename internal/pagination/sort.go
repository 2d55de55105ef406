package pagination

import "fmt"

// Direction is the sort arrow shown in a column header.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	case "asc":
		return Up, nil
	case "desc":
		return Down, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

func (d Direction) Opposite() Direction {
	if d == Up {
		return Down
	}
	return Up
}

// Wire returns the value the reporting API expects in sort_type.
func (d Direction) Wire() string {
	if d == Up {
		return "asc"
	}
	return "desc"
}

type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// ClickHeader flips the direction of the active column, or makes field the
// active column with the default direction.
func ClickHeader(current Sort, field string, def Direction) Sort {
	if current.Field == field {
		return Sort{Field: field, Direction: current.Direction.Opposite()}
	}
	if def == "" {
		def = Up
	}
	return Sort{Field: field, Direction: def}
}
