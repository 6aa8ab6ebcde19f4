package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveFormat(t *testing.T) {
	tests := []struct {
		name string
		move Move
		want string
	}{
		{"quiet pawn", NewMove(Black, Pawn, sq("b7"), sq("b6"), White, Empty), "b6"},
		{"quiet piece", NewMove(White, Knight, sq("g1"), sq("f3"), Black, Empty), "Nf3"},
		{"pawn capture", NewMove(White, Pawn, sq("e4"), sq("d5"), Black, Pawn, Take), "exd5"},
		{"rook capture with check", NewMove(White, Rook, sq("d6"), sq("h8"), Black, Queen, Take, Check), "Rxh8+"},
		{"rook capture", NewMove(White, Rook, sq("d6"), sq("h8"), Black, Queen, Take), "Rxh8"},
		{"rook capture mating", NewMove(White, Rook, sq("d6"), sq("h8"), Black, Queen, Take, Checkmate), "Rxh8#"},
		{"mate wins over check", NewMove(Black, Knight, sq("f3"), sq("a4"), White, Empty, Check, Check, Checkmate), "Na4#"},
		{"pawn capture with check", NewMove(White, Pawn, sq("f2"), sq("g3"), Black, Bishop, Take, Check), "fxg3+"},
		{"king", NewMove(Black, King, sq("e8"), sq("f7"), White, Empty), "Kf7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.move.Format())
		})
	}
}

func TestNewMoveDeduplicatesActions(t *testing.T) {
	m := NewMove(Black, Knight, sq("f3"), sq("a4"), White, Empty, Check, Check, Checkmate)
	assert.Equal(t, []Action{Check, Checkmate}, m.Actions())
	assert.Equal(t, "N", m.PieceID)

	actions := m.Actions()
	actions[0] = Take
	assert.False(t, m.Has(Take), "Actions must return a copy")
}

func TestMoveHistory(t *testing.T) {
	h := NewMoveHistory()
	_, ok := h.Last()
	assert.False(t, ok)

	h.add(NewMove(White, Rook, sq("d6"), sq("h8"), Black, Queen, Take, Check))
	h.add(NewMove(Black, Knight, sq("f3"), sq("a4"), White, King, Checkmate))
	h.add(NewMove(White, Pawn, sq("e2"), sq("e4"), Black, Empty))

	require.Equal(t, 3, h.Len())
	assert.Len(t, h.MovesFor(White), 2)
	assert.Len(t, h.MovesFor(Black), 1)
	assert.Equal(t, []string{"Rxh8+", "Na4#", "e4"}, h.Formatted())
	assert.Equal(t, []string{"Rxh8+", "e4"}, h.Formatted(White))
	assert.Equal(t, []string{"Na4#"}, h.Formatted(Black))

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, "e4", last.Format())
}

func TestMoveHistoryByParity(t *testing.T) {
	b := NewBoard()
	play(t, b, "e2e4", "e7e5", "g1f3", "f8c5", "d2d4", "e5d4")

	black := b.History().MovesFor(Black)
	require.Len(t, black, 3)
	for _, m := range black {
		assert.Equal(t, Black, m.Side)
	}
	assert.Equal(t, []string{"e5", "Bc5", "exd4"}, b.History().Formatted(Black))
	assert.Equal(t, []string{"e4", "Nf3", "d4"}, b.History().Formatted(White))
}

func TestCoordinates(t *testing.T) {
	c, err := ParseCoordinate("e4")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{File: 4, Rank: 3}, c)
	assert.Equal(t, "e4", c.String())
	assert.Equal(t, "e", c.FileLetter())

	for _, bad := range []string{"", "e", "i1", "a9", "a0", "E4", "e44"} {
		_, err := ParseCoordinate(bad)
		assert.ErrorIs(t, err, ErrInvalidCoordinate, bad)
	}

	all := AllCoordinates()
	assert.Equal(t, "a1", all[0].String())
	assert.Equal(t, "h8", all[63].String())
	seen := make(map[Coordinate]bool)
	for _, c := range all {
		seen[c] = true
	}
	assert.Len(t, seen, 64)
}
