package engine

type Side int

const (
	White Side = iota
	Black
)

func (s Side) Opposite() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "White"
	}
	return "Black"
}

// forward is the rank direction pawns of this side advance in.
func (s Side) forward() int {
	if s == White {
		return 1
	}
	return -1
}

type PieceType int

const (
	// Empty is the placeholder type recorded for moves that capture nothing.
	Empty PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = map[PieceType]string{
	Empty:  "Empty",
	Pawn:   "Pawn",
	Knight: "Knight",
	Bishop: "Bishop",
	Rook:   "Rook",
	Queen:  "Queen",
	King:   "King",
}

func (p PieceType) String() string {
	if name, ok := pieceTypeNames[p]; ok {
		return name
	}
	return "Unknown"
}

// Notation is the letter used for the piece in algebraic notation.
// Pawns have none.
func (p PieceType) Notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// Piece is a value owned by a Board square. Side and Type never change;
// Position and AtStart are only rewritten by Board.MakeMove.
type Piece struct {
	Side     Side
	Type     PieceType
	Position Coordinate
	// AtStart gates the pawn double advance. Ignored for other types.
	AtStart bool
}

// NewPiece builds a piece at pos. Pawns start eligible for the double advance.
func NewPiece(side Side, typ PieceType, pos Coordinate) Piece {
	return Piece{
		Side:     side,
		Type:     typ,
		Position: pos,
		AtStart:  typ == Pawn,
	}
}

func (p Piece) ID() string {
	return p.Type.Notation()
}

func (p Piece) String() string {
	return p.Side.String() + " " + p.Type.String() + " on " + p.Position.String()
}
