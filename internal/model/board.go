package model

import "github.com/benbeisheim/twochess-backend/internal/engine"

type PieceView struct {
	Type     string `json:"type"`
	Color    string `json:"color"`
	Position string `json:"position"`
	AtStart  bool   `json:"atStart,omitempty"`
}

// BoardView lists rows from rank 8 down to rank 1, files a to h, the way a
// client draws the board from White's side.
type BoardView struct {
	Rows [][]*PieceView `json:"rows"`
}

func newBoardView(b *engine.Board) BoardView {
	view := BoardView{Rows: make([][]*PieceView, 0, 8)}
	for rank := 7; rank >= 0; rank-- {
		row := make([]*PieceView, 8)
		for file := 0; file < 8; file++ {
			p, ok := b.Piece(engine.Coordinate{File: file, Rank: rank})
			if !ok {
				continue
			}
			row[file] = &PieceView{
				Type:     p.Type.String(),
				Color:    string(ColorOf(p.Side)),
				Position: p.Position.String(),
				AtStart:  p.Type == engine.Pawn && p.AtStart,
			}
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}
