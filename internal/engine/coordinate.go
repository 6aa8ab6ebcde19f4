package engine

import "fmt"

const boardSize = 8

// Coordinate addresses a square by file (0 = a) and rank (0 = rank 1).
// Values outside 0..7 are representable so move generation can produce
// raw offsets and filter them afterwards.
type Coordinate struct {
	File int
	Rank int
}

func (c Coordinate) OnBoard() bool {
	return c.File >= 0 && c.File < boardSize && c.Rank >= 0 && c.Rank < boardSize
}

func (c Coordinate) offset(df, dr int) Coordinate {
	return Coordinate{File: c.File + df, Rank: c.Rank + dr}
}

// FileLetter returns the column letter, e.g. "e".
func (c Coordinate) FileLetter() string {
	return fmt.Sprintf("%c", 'a'+c.File)
}

func (c Coordinate) String() string {
	if !c.OnBoard() {
		return fmt.Sprintf("(%d,%d)", c.File, c.Rank)
	}
	return fmt.Sprintf("%c%d", 'a'+c.File, c.Rank+1)
}

// ParseCoordinate reads algebraic square names such as "a1" or "h8".
func ParseCoordinate(s string) (Coordinate, error) {
	if len(s) != 2 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	c := Coordinate{File: int(s[0] - 'a'), Rank: int(s[1] - '1')}
	if s[0] < 'a' || s[1] < '1' || !c.OnBoard() {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	return c, nil
}

// MustCoordinate is ParseCoordinate for literals known to be valid.
func MustCoordinate(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}

// AllCoordinates lists the 64 squares, a1 through h8 rank by rank.
func AllCoordinates() []Coordinate {
	coords := make([]Coordinate, 0, boardSize*boardSize)
	for rank := 0; rank < boardSize; rank++ {
		for file := 0; file < boardSize; file++ {
			coords = append(coords, Coordinate{File: file, Rank: rank})
		}
	}
	return coords
}
