package engine

import "strings"

type Action int

const (
	Take Action = iota
	Check
	Checkmate
)

func (a Action) String() string {
	switch a {
	case Take:
		return "Take"
	case Check:
		return "Check"
	case Checkmate:
		return "Checkmate"
	}
	return "Unknown"
}

// Move is the record of one executed move. Build it with NewMove; the
// action set is copied and never exposed for mutation. Moves are handed out
// by value, so changing a returned Move never reaches a board's history.
type Move struct {
	Side         Side
	PieceType    PieceType
	PieceID      string
	From         Coordinate
	To           Coordinate
	CapturedSide Side
	CapturedType PieceType
	actions      []Action
}

// NewMove records a move. The piece id is derived from pieceType.
func NewMove(side Side, pieceType PieceType, from, to Coordinate, capturedSide Side, capturedType PieceType, actions ...Action) Move {
	m := Move{
		Side:         side,
		PieceType:    pieceType,
		PieceID:      pieceType.Notation(),
		From:         from,
		To:           to,
		CapturedSide: capturedSide,
		CapturedType: capturedType,
	}
	for _, a := range actions {
		if !m.Has(a) {
			m.actions = append(m.actions, a)
		}
	}
	return m
}

// WithPieceID overrides the notation id, for records restored verbatim.
func (m Move) WithPieceID(id string) Move {
	m.PieceID = id
	return m
}

func (m Move) Has(a Action) bool {
	for _, x := range m.actions {
		if x == a {
			return true
		}
	}
	return false
}

// Actions returns a copy of the move's action set in recorded order.
func (m Move) Actions() []Action {
	out := make([]Action, len(m.actions))
	copy(out, m.actions)
	return out
}

// Format renders the move in short algebraic notation, e.g. "e4", "exd5",
// "Rxh8+" or "Qh4#". Pieces of the same type are never disambiguated.
func (m Move) Format() string {
	var sb strings.Builder
	take := m.Has(Take)
	if take && m.PieceType == Pawn {
		sb.WriteString(m.From.FileLetter())
	}
	sb.WriteString(m.PieceID)
	if take {
		sb.WriteString("x")
	}
	sb.WriteString(m.To.String())

	if m.Has(Checkmate) {
		sb.WriteString("#")
	} else if m.Has(Check) {
		sb.WriteString("+")
	}
	return sb.String()
}

func (m Move) String() string {
	return m.Format()
}

// MoveHistory is the append-only list of moves in the order played. Only
// Board.MakeMove and Board.RestoreHistory write to it.
type MoveHistory struct {
	moves []Move
}

func NewMoveHistory() *MoveHistory {
	return &MoveHistory{moves: make([]Move, 0)}
}

func (h *MoveHistory) add(m Move) {
	h.moves = append(h.moves, m)
}

func (h *MoveHistory) Len() int {
	return len(h.moves)
}

// All returns a copy of every move.
func (h *MoveHistory) All() []Move {
	out := make([]Move, len(h.moves))
	copy(out, h.moves)
	return out
}

func (h *MoveHistory) Last() (Move, bool) {
	if len(h.moves) == 0 {
		return Move{}, false
	}
	return h.moves[len(h.moves)-1], true
}

// MovesFor filters by index parity: White owns even indexes, Black odd.
// Play is assumed to alternate starting with White.
func (h *MoveHistory) MovesFor(side Side) []Move {
	parity := 0
	if side == Black {
		parity = 1
	}
	var out []Move
	for i, m := range h.moves {
		if i%2 == parity {
			out = append(out, m)
		}
	}
	return out
}

// Formatted returns the notation of every move, or of one side's moves
// when a side is given.
func (h *MoveHistory) Formatted(side ...Side) []string {
	moves := h.moves
	if len(side) > 0 {
		moves = h.MovesFor(side[0])
	}
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.Format())
	}
	return out
}
