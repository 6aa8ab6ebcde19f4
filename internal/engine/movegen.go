package engine

var (
	rookDirs   = []Coordinate{{File: 1, Rank: 0}, {File: -1, Rank: 0}, {File: 0, Rank: 1}, {File: 0, Rank: -1}}
	bishopDirs = []Coordinate{{File: 1, Rank: 1}, {File: 1, Rank: -1}, {File: -1, Rank: 1}, {File: -1, Rank: -1}}
	knightDirs = []Coordinate{
		{File: 2, Rank: 1}, {File: 2, Rank: -1}, {File: -2, Rank: 1}, {File: -2, Rank: -1},
		{File: 1, Rank: 2}, {File: 1, Rank: -2}, {File: -1, Rank: 2}, {File: -1, Rank: -2},
	}
)

// PseudoLegalMoves returns every square p could move to on b, without
// asking whether the move leaves p's own king attacked.
func (p Piece) PseudoLegalMoves(b *Board) []Coordinate {
	var raw []Coordinate
	switch p.Type {
	case Pawn:
		raw = p.rawPawnMoves(b)
	case Knight:
		raw = p.rawStepMoves(knightDirs)
	case Bishop:
		raw = p.rawRayMoves(b, bishopDirs)
	case Rook:
		raw = p.rawRayMoves(b, rookDirs)
	case Queen:
		raw = append(p.rawRayMoves(b, bishopDirs), p.rawRayMoves(b, rookDirs)...)
	case King:
		raw = p.rawKingMoves()
	default:
		return nil
	}

	moves := removeOutOfBounds(raw)
	return p.removeFriendlyFire(b, moves)
}

// LegalMoves is PseudoLegalMoves minus the moves that would leave p's own
// king in check.
func (p Piece) LegalMoves(b *Board) []Coordinate {
	pseudo := p.PseudoLegalMoves(b)
	legal := make([]Coordinate, 0, len(pseudo))
	for _, to := range pseudo {
		if !b.WouldViolateCheck(p.Position, to) {
			legal = append(legal, to)
		}
	}
	return legal
}

func (p Piece) rawPawnMoves(b *Board) []Coordinate {
	var moves []Coordinate
	dir := p.Side.forward()

	oneForward := p.Position.offset(0, dir)
	if oneForward.OnBoard() && b.isEmpty(oneForward) {
		moves = append(moves, oneForward)
		twoForward := p.Position.offset(0, 2*dir)
		if p.AtStart && twoForward.OnBoard() && b.isEmpty(twoForward) {
			moves = append(moves, twoForward)
		}
	}

	// diagonals are only ever captures
	for _, df := range []int{-1, 1} {
		diag := p.Position.offset(df, dir)
		if !diag.OnBoard() {
			continue
		}
		if target, ok := b.Piece(diag); ok && target.Side != p.Side {
			moves = append(moves, diag)
		}
	}
	return moves
}

func (p Piece) rawStepMoves(dirs []Coordinate) []Coordinate {
	moves := make([]Coordinate, 0, len(dirs))
	for _, dir := range dirs {
		moves = append(moves, p.Position.offset(dir.File, dir.Rank))
	}
	return moves
}

// rawRayMoves extends each direction until the edge or the first occupied
// square, which is included whichever side holds it.
func (p Piece) rawRayMoves(b *Board, dirs []Coordinate) []Coordinate {
	var moves []Coordinate
	for _, dir := range dirs {
		target := p.Position.offset(dir.File, dir.Rank)
		for target.OnBoard() {
			moves = append(moves, target)
			if !b.isEmpty(target) {
				break
			}
			target = target.offset(dir.File, dir.Rank)
		}
	}
	return moves
}

// rawKingMoves never steps past the a or h file; ranks are left to the
// bounds filter.
func (p Piece) rawKingMoves() []Coordinate {
	pos := p.Position
	moves := []Coordinate{pos.offset(0, 1), pos.offset(0, -1)}
	if pos.File > 0 {
		moves = append(moves, pos.offset(-1, 1), pos.offset(-1, 0), pos.offset(-1, -1))
	}
	if pos.File < boardSize-1 {
		moves = append(moves, pos.offset(1, 1), pos.offset(1, 0), pos.offset(1, -1))
	}
	return moves
}

func removeOutOfBounds(moves []Coordinate) []Coordinate {
	kept := moves[:0]
	for _, m := range moves {
		if m.OnBoard() {
			kept = append(kept, m)
		}
	}
	return kept
}

func (p Piece) removeFriendlyFire(b *Board, moves []Coordinate) []Coordinate {
	kept := moves[:0]
	for _, m := range moves {
		if target, ok := b.Piece(m); ok && target.Side == p.Side {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}
