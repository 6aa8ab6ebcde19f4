// Package persistence converts boards to and from a storable snapshot and
// keeps game records in a file directory or a MongoDB collection.
package persistence

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/twochess-backend/internal/engine"
)

var (
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrNotFound          = errors.New("game record not found")
)

// Snapshot is the stored form of a board. Field names and enum spellings
// match the documents written by earlier versions of the game.
type Snapshot struct {
	CurrentTurn string          `json:"currentTurn" bson:"currentTurn"`
	GameOver    bool            `json:"gameOver" bson:"gameOver"`
	MoveList    []MoveSnapshot  `json:"moveList" bson:"moveList"`
	Pieces      []PieceSnapshot `json:"pieces" bson:"pieces"`
}

type MoveSnapshot struct {
	FromSide string   `json:"fromSide" bson:"fromSide"`
	FromType string   `json:"fromType" bson:"fromType"`
	FromPos  string   `json:"fromPos" bson:"fromPos"`
	FromID   string   `json:"fromId" bson:"fromId"`
	Actions  []string `json:"actions" bson:"actions"`
	ToSide   string   `json:"toSide" bson:"toSide"`
	ToType   string   `json:"toType" bson:"toType"`
	ToPos    string   `json:"toPos" bson:"toPos"`
}

type PieceSnapshot struct {
	Side     string `json:"side" bson:"side"`
	Type     string `json:"type" bson:"type"`
	Position string `json:"position" bson:"position"`
	// AtStartPos is only written for pawns.
	AtStartPos *bool `json:"atStartPos,omitempty" bson:"atStartPos,omitempty"`
}

var sideNames = map[engine.Side]string{
	engine.White: "WHITE",
	engine.Black: "BLACK",
}

var typeNames = map[engine.PieceType]string{
	engine.King:   "KING",
	engine.Queen:  "QUEEN",
	engine.Pawn:   "PAWN",
	engine.Rook:   "ROOK",
	engine.Bishop: "BISHOP",
	engine.Knight: "KNIGHT",
	engine.Empty:  "EMPTY",
}

var actionNames = map[engine.Action]string{
	engine.Check:     "CHECK",
	engine.Checkmate: "CHECKMATE",
	engine.Take:      "TAKE",
}

// FromBoard captures turn, game over flag, history and placement of b.
func FromBoard(b *engine.Board) Snapshot {
	snap := Snapshot{
		CurrentTurn: sideNames[b.CurrentTurn()],
		GameOver:    b.GameOver(),
		MoveList:    make([]MoveSnapshot, 0, b.History().Len()),
		Pieces:      make([]PieceSnapshot, 0, 32),
	}

	for _, m := range b.History().All() {
		actions := make([]string, 0, 2)
		for _, a := range m.Actions() {
			actions = append(actions, actionNames[a])
		}
		snap.MoveList = append(snap.MoveList, MoveSnapshot{
			FromSide: sideNames[m.Side],
			FromType: typeNames[m.PieceType],
			FromPos:  m.From.String(),
			FromID:   m.PieceID,
			Actions:  actions,
			ToSide:   sideNames[m.CapturedSide],
			ToType:   typeNames[m.CapturedType],
			ToPos:    m.To.String(),
		})
	}

	for _, p := range b.Pieces() {
		ps := PieceSnapshot{
			Side:     sideNames[p.Side],
			Type:     typeNames[p.Type],
			Position: p.Position.String(),
		}
		if p.Type == engine.Pawn {
			atStart := p.AtStart
			ps.AtStartPos = &atStart
		}
		snap.Pieces = append(snap.Pieces, ps)
	}
	return snap
}

// ToBoard rebuilds a board from snap. Recorded move actions are restored
// as stored.
func (snap Snapshot) ToBoard() (*engine.Board, error) {
	turn, err := parseSide(snap.CurrentTurn)
	if err != nil {
		return nil, malformed("currentTurn", err)
	}

	moves := make([]engine.Move, 0, len(snap.MoveList))
	for i, ms := range snap.MoveList {
		m, err := ms.toMove()
		if err != nil {
			return nil, malformed(fmt.Sprintf("moveList[%d]", i), err)
		}
		moves = append(moves, m)
	}

	b := engine.NewEmptyBoard()
	b.SetTurn(turn)
	b.SetGameOver(snap.GameOver)
	b.RestoreHistory(moves)

	for i, ps := range snap.Pieces {
		p, err := ps.toPiece()
		if err != nil {
			return nil, malformed(fmt.Sprintf("pieces[%d]", i), err)
		}
		if _, taken := b.Piece(p.Position); taken {
			return nil, malformed(fmt.Sprintf("pieces[%d]", i), fmt.Errorf("square %s occupied twice", p.Position))
		}
		b.SetPiece(p)
	}
	return b, nil
}

func (ms MoveSnapshot) toMove() (engine.Move, error) {
	side, err := parseSide(ms.FromSide)
	if err != nil {
		return engine.Move{}, err
	}
	typ, err := parsePieceType(ms.FromType)
	if err != nil {
		return engine.Move{}, err
	}
	if typ == engine.Empty {
		return engine.Move{}, fmt.Errorf("moving piece type %q", ms.FromType)
	}
	from, err := engine.ParseCoordinate(ms.FromPos)
	if err != nil {
		return engine.Move{}, err
	}
	toSide, err := parseSide(ms.ToSide)
	if err != nil {
		return engine.Move{}, err
	}
	toType, err := parsePieceType(ms.ToType)
	if err != nil {
		return engine.Move{}, err
	}
	to, err := engine.ParseCoordinate(ms.ToPos)
	if err != nil {
		return engine.Move{}, err
	}
	actions := make([]engine.Action, 0, len(ms.Actions))
	for _, name := range ms.Actions {
		a, err := parseAction(name)
		if err != nil {
			return engine.Move{}, err
		}
		actions = append(actions, a)
	}
	return engine.NewMove(side, typ, from, to, toSide, toType, actions...).WithPieceID(ms.FromID), nil
}

func (ps PieceSnapshot) toPiece() (engine.Piece, error) {
	side, err := parseSide(ps.Side)
	if err != nil {
		return engine.Piece{}, err
	}
	typ, err := parsePieceType(ps.Type)
	if err != nil {
		return engine.Piece{}, err
	}
	if typ == engine.Empty {
		return engine.Piece{}, fmt.Errorf("piece type %q", ps.Type)
	}
	pos, err := engine.ParseCoordinate(ps.Position)
	if err != nil {
		return engine.Piece{}, err
	}

	p := engine.NewPiece(side, typ, pos)
	if typ == engine.Pawn {
		if ps.AtStartPos == nil {
			return engine.Piece{}, errors.New("pawn without atStartPos")
		}
		p.AtStart = *ps.AtStartPos
	}
	return p, nil
}

func parseSide(s string) (engine.Side, error) {
	for side, name := range sideNames {
		if name == s {
			return side, nil
		}
	}
	return engine.White, fmt.Errorf("unknown side %q", s)
}

func parsePieceType(s string) (engine.PieceType, error) {
	for typ, name := range typeNames {
		if name == s {
			return typ, nil
		}
	}
	return engine.Empty, fmt.Errorf("unknown piece type %q", s)
}

func parseAction(s string) (engine.Action, error) {
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return engine.Take, fmt.Errorf("unknown action %q", s)
}

func malformed(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformedSnapshot, field, err)
}
