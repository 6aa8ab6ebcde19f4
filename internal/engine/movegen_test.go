package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func coords(names ...string) []Coordinate {
	out := make([]Coordinate, 0, len(names))
	for _, n := range names {
		out = append(out, sq(n))
	}
	return out
}

// boardWith places pieces on an empty board. Kings are optional since
// pseudo-legal generation never looks for them.
func boardWith(pieces ...Piece) *Board {
	b := NewEmptyBoard()
	for _, p := range pieces {
		b.SetPiece(p)
	}
	return b
}

func TestPseudoLegalMoves(t *testing.T) {
	tests := []struct {
		name  string
		board *Board
		from  string
		want  []Coordinate
	}{
		{
			name:  "knight in corner",
			board: boardWith(NewPiece(White, Knight, sq("a1"))),
			from:  "a1",
			want:  coords("b3", "c2"),
		},
		{
			name:  "knight in centre",
			board: boardWith(NewPiece(White, Knight, sq("d4"))),
			from:  "d4",
			want:  coords("b3", "b5", "c2", "c6", "e2", "e6", "f3", "f5"),
		},
		{
			name:  "knight skips own pieces",
			board: NewBoard(),
			from:  "g1",
			want:  coords("f3", "h3"),
		},
		{
			name:  "king in corner",
			board: boardWith(NewPiece(White, King, sq("a1"))),
			from:  "a1",
			want:  coords("a2", "b1", "b2"),
		},
		{
			name:  "king on h file",
			board: boardWith(NewPiece(Black, King, sq("h5"))),
			from:  "h5",
			want:  coords("h4", "h6", "g4", "g5", "g6"),
		},
		{
			name: "rook stops at own king",
			board: boardWith(
				NewPiece(White, Rook, sq("a1")),
				NewPiece(White, King, sq("h1")),
				NewPiece(Black, King, sq("h8")),
			),
			from: "a1",
			want: coords("a2", "a3", "a4", "a5", "a6", "a7", "a8", "b1", "c1", "d1", "e1", "f1", "g1"),
		},
		{
			name: "rook ray includes first enemy",
			board: boardWith(
				NewPiece(White, Rook, sq("d4")),
				NewPiece(Black, Pawn, sq("d6")),
				NewPiece(White, Pawn, sq("f4")),
			),
			from: "d4",
			want: coords("d5", "d6", "d3", "d2", "d1", "e4", "c4", "b4", "a4"),
		},
		{
			name: "bishop rays",
			board: boardWith(
				NewPiece(Black, Bishop, sq("c8")),
				NewPiece(White, Pawn, sq("e6")),
			),
			from: "c8",
			want: coords("b7", "a6", "d7", "e6"),
		},
		{
			name:  "queen is rook plus bishop",
			board: boardWith(NewPiece(White, Queen, sq("a1")), NewPiece(White, Pawn, sq("a3")), NewPiece(Black, Pawn, sq("c3"))),
			from:  "a1",
			want:  coords("a2", "b2", "c3", "b1", "c1", "d1", "e1", "f1", "g1", "h1"),
		},
		{
			name:  "queen blocked at start",
			board: NewBoard(),
			from:  "d1",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := tt.board.Piece(sq(tt.from))
			if !ok {
				t.Fatalf("no piece on %s", tt.from)
			}
			assert.ElementsMatch(t, tt.want, p.PseudoLegalMoves(tt.board))
		})
	}
}

func TestPawnMoves(t *testing.T) {
	tests := []struct {
		name  string
		board *Board
		from  string
		want  []Coordinate
	}{
		{
			name:  "white double advance from start",
			board: NewBoard(),
			from:  "e2",
			want:  coords("e3", "e4"),
		},
		{
			name:  "black double advance from start",
			board: NewBoard(),
			from:  "c7",
			want:  coords("c6", "c5"),
		},
		{
			name:  "single advance once moved",
			board: boardWith(Piece{Side: White, Type: Pawn, Position: sq("e3")}),
			from:  "e3",
			want:  coords("e4"),
		},
		{
			name:  "double advance needs empty destination",
			board: boardWith(NewPiece(White, Pawn, sq("e2")), NewPiece(Black, Knight, sq("e4"))),
			from:  "e2",
			want:  coords("e3"),
		},
		{
			name:  "double advance needs empty intermediate",
			board: boardWith(NewPiece(White, Pawn, sq("e2")), NewPiece(Black, Knight, sq("e3"))),
			from:  "e2",
			want:  nil,
		},
		{
			name: "diagonals only when capturing",
			board: boardWith(
				NewPiece(White, Pawn, sq("d2")),
				NewPiece(Black, Rook, sq("c3")),
				NewPiece(White, Knight, sq("e3")),
			),
			from: "d2",
			want: coords("d3", "d4", "c3"),
		},
		{
			name:  "edge file captures one way",
			board: boardWith(NewPiece(Black, Pawn, sq("a7")), NewPiece(White, Bishop, sq("b6"))),
			from:  "a7",
			want:  coords("a6", "a5", "b6"),
		},
		{
			name:  "last rank has nowhere to go",
			board: boardWith(Piece{Side: White, Type: Pawn, Position: sq("g8")}),
			from:  "g8",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := tt.board.Piece(sq(tt.from))
			if !ok {
				t.Fatalf("no piece on %s", tt.from)
			}
			assert.ElementsMatch(t, tt.want, p.PseudoLegalMoves(tt.board))
		})
	}
}

func TestInitialLegalMoveCount(t *testing.T) {
	b := NewBoard()
	total := 0
	for _, c := range b.Occupied(White) {
		total += len(b.LegalMoves(c))
	}
	assert.Equal(t, 20, total)
}
