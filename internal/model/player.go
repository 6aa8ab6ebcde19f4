package model

import "github.com/benbeisheim/twochess-backend/internal/engine"

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func ColorOf(side engine.Side) PlayerColor {
	if side == engine.White {
		return PlayerColorWhite
	}
	return PlayerColorBlack
}

// ParseColor accepts "white" or "black".
func ParseColor(s string) (PlayerColor, bool) {
	switch PlayerColor(s) {
	case PlayerColorWhite, PlayerColorBlack:
		return PlayerColor(s), true
	}
	return "", false
}

func (c PlayerColor) Side() engine.Side {
	if c == PlayerColorBlack {
		return engine.Black
	}
	return engine.White
}

type Player struct {
	ID    string
	Color PlayerColor
}

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color PlayerColor `json:"color"`
}

type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  PlayerColor `json:"color"`
}
