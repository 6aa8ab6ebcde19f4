// Package engine holds the rules of the game: board state, per-piece move
// generation, check and checkmate detection, move execution and the move
// history. It performs no I/O.
//
// A Board is not safe for concurrent use. Callers that share one across
// goroutines must hold a lock for the duration of every call.
package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNoPiece           = errors.New("no piece at square")
	ErrIllegalMove       = errors.New("illegal move")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

var backRank = []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

type Board struct {
	// indexed [rank][file]
	squares     [boardSize][boardSize]*Piece
	currentTurn Side
	gameOver    bool
	history     *MoveHistory
	sink        EventSink
}

// NewEmptyBoard returns a board with no pieces, White to move.
func NewEmptyBoard() *Board {
	return &Board{
		currentTurn: White,
		history:     NewMoveHistory(),
	}
}

// NewBoard returns a board set up for a new game.
func NewBoard() *Board {
	b := NewEmptyBoard()
	for file, typ := range backRank {
		b.SetPiece(NewPiece(White, typ, Coordinate{File: file, Rank: 0}))
		b.SetPiece(NewPiece(White, Pawn, Coordinate{File: file, Rank: 1}))
		b.SetPiece(NewPiece(Black, Pawn, Coordinate{File: file, Rank: 6}))
		b.SetPiece(NewPiece(Black, typ, Coordinate{File: file, Rank: 7}))
	}
	return b
}

// SetEventSink attaches an observer for move events. Nil detaches.
func (b *Board) SetEventSink(sink EventSink) {
	b.sink = sink
}

// MakeMove moves the piece on from to to, flips the turn and records the
// move. The move must be one of the piece's legal moves; otherwise an
// error is returned and the board is unchanged.
func (b *Board) MakeMove(from, to Coordinate) (Move, error) {
	piece, ok := b.Piece(from)
	if !ok {
		return Move{}, fmt.Errorf("%w: %s", ErrNoPiece, from)
	}
	if !containsCoordinate(piece.LegalMoves(b), to) {
		return Move{}, fmt.Errorf("%w: %s to %s", ErrIllegalMove, from, to)
	}
	captured, took := b.Piece(to)

	b.movePiece(from, to)
	b.currentTurn = b.currentTurn.Opposite()

	move := b.constructMove(piece, captured, took, to)
	if move.Has(Checkmate) {
		b.gameOver = true
	}
	b.history.add(move)

	b.emit(Event{Kind: EventMoved, Side: piece.Side, From: from, To: to, Text: move.Format()})
	switch {
	case move.Has(Checkmate):
		b.emit(Event{Kind: EventCheckmate, Side: b.currentTurn, From: from, To: to, Text: move.Format()})
	case move.Has(Check):
		b.emit(Event{Kind: EventCheck, Side: b.currentTurn, From: from, To: to, Text: move.Format()})
	}
	return move, nil
}

// movePiece is the only place a piece permanently loses its start status.
func (b *Board) movePiece(from, to Coordinate) {
	p := b.squares[from.Rank][from.File]
	p.Position = to
	p.AtStart = false
	b.squares[to.Rank][to.File] = p
	b.squares[from.Rank][from.File] = nil
}

// constructMove evaluates check and mate against the state after the move,
// with the turn already passed to the opponent.
func (b *Board) constructMove(mover, captured Piece, took bool, to Coordinate) Move {
	var actions []Action
	capturedType := Empty
	if took {
		actions = append(actions, Take)
		capturedType = captured.Type
	}
	if b.IsCheckmate(b.currentTurn) {
		actions = append(actions, Checkmate)
	} else if b.IsInCheck(b.currentTurn) {
		actions = append(actions, Check)
	}
	return NewMove(mover.Side, mover.Type, mover.Position, to, mover.Side.Opposite(), capturedType, actions...)
}

// IsInCheck reports whether any piece on the board pseudo-legally attacks
// the king of side.
func (b *Board) IsInCheck(side Side) bool {
	for _, p := range b.pieces() {
		for _, to := range p.PseudoLegalMoves(b) {
			if target, ok := b.Piece(to); ok && target.Type == King && target.Side == side {
				return true
			}
		}
	}
	return false
}

// HasNoLegalMoves reports whether every piece of side is without a legal move.
func (b *Board) HasNoLegalMoves(side Side) bool {
	for _, p := range b.pieces() {
		if p.Side != side {
			continue
		}
		if len(p.LegalMoves(b)) > 0 {
			return false
		}
	}
	return true
}

// IsCheckmate decides whether side has lost. Any position where side has no
// legal move counts, including positions where it is not in check.
func (b *Board) IsCheckmate(side Side) bool {
	return b.HasNoLegalMoves(side)
}

// WouldViolateCheck reports whether moving the piece on from to to would
// leave that piece's own king attacked. It evaluates a copy and never
// mutates b.
func (b *Board) WouldViolateCheck(from, to Coordinate) bool {
	mover, ok := b.Piece(from)
	if !ok || !to.OnBoard() {
		return false
	}
	return b.afterMove(from, to).IsInCheck(mover.Side)
}

// afterMove copies the square array and applies from->to to the copy. The
// moved piece is copied too, keeping its start status.
func (b *Board) afterMove(from, to Coordinate) *Board {
	next := &Board{squares: b.squares, currentTurn: b.currentTurn}
	moved := *b.squares[from.Rank][from.File]
	moved.Position = to
	next.squares[to.Rank][to.File] = &moved
	next.squares[from.Rank][from.File] = nil
	return next
}

// LegalMoves returns the legal destinations of the piece on from, or nil
// when the square is empty.
func (b *Board) LegalMoves(from Coordinate) []Coordinate {
	p, ok := b.Piece(from)
	if !ok {
		return nil
	}
	return p.LegalMoves(b)
}

// Piece returns a copy of the piece on c.
func (b *Board) Piece(c Coordinate) (Piece, bool) {
	if !c.OnBoard() {
		return Piece{}, false
	}
	p := b.squares[c.Rank][c.File]
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

func (b *Board) isEmpty(c Coordinate) bool {
	return b.squares[c.Rank][c.File] == nil
}

func (b *Board) pieces() []Piece {
	var pieces []Piece
	for rank := range b.squares {
		for file := range b.squares[rank] {
			if p := b.squares[rank][file]; p != nil {
				pieces = append(pieces, *p)
			}
		}
	}
	return pieces
}

// Pieces returns copies of every piece on the board, a1 to h8.
func (b *Board) Pieces() []Piece {
	return b.pieces()
}

// Occupied returns the squares holding pieces of side.
func (b *Board) Occupied(side Side) []Coordinate {
	var coords []Coordinate
	for _, p := range b.pieces() {
		if p.Side == side {
			coords = append(coords, p.Position)
		}
	}
	return coords
}

func (b *Board) CurrentTurn() Side {
	return b.currentTurn
}

func (b *Board) GameOver() bool {
	return b.gameOver
}

func (b *Board) History() *MoveHistory {
	return b.history
}

// Winner is the side that is not to move once the game is over.
func (b *Board) Winner() (Side, bool) {
	if !b.gameOver {
		return White, false
	}
	return b.currentTurn.Opposite(), true
}

// Clear removes every piece. Turn, game over flag and history are kept.
func (b *Board) Clear() {
	b.squares = [boardSize][boardSize]*Piece{}
}

// SetPiece places p on p.Position, replacing whatever was there.
func (b *Board) SetPiece(p Piece) {
	if !p.Position.OnBoard() {
		return
	}
	b.squares[p.Position.Rank][p.Position.File] = &p
}

func (b *Board) RemovePiece(c Coordinate) {
	if c.OnBoard() {
		b.squares[c.Rank][c.File] = nil
	}
}

func (b *Board) SetTurn(side Side) {
	b.currentTurn = side
}

func (b *Board) SetGameOver(over bool) {
	b.gameOver = over
}

// RestoreHistory replaces the history with moves as recorded. Actions are
// taken verbatim and never re-derived.
func (b *Board) RestoreHistory(moves []Move) {
	b.history = NewMoveHistory()
	for _, m := range moves {
		b.history.add(m)
	}
}

func (b *Board) emit(e Event) {
	if b.sink != nil {
		b.sink.Emit(e)
	}
}

func containsCoordinate(coords []Coordinate, c Coordinate) bool {
	for _, x := range coords {
		if x == c {
			return true
		}
	}
	return false
}
