package model

import "github.com/benbeisheim/twochess-backend/internal/engine"

// MoveRequest is a move as sent by a client, squares in algebraic form.
type MoveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type SimpleMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type MoveView struct {
	Color    PlayerColor `json:"color"`
	Piece    string      `json:"piece"`
	From     string      `json:"from"`
	To       string      `json:"to"`
	Notation string      `json:"notation"`
	Captured string      `json:"captured,omitempty"`
}

func newMoveView(m engine.Move) MoveView {
	view := MoveView{
		Color:    ColorOf(m.Side),
		Piece:    m.PieceType.String(),
		From:     m.From.String(),
		To:       m.To.String(),
		Notation: m.Format(),
	}
	if m.Has(engine.Take) {
		view.Captured = m.CapturedType.String()
	}
	return view
}
