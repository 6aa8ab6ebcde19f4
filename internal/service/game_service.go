package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/benbeisheim/twochess-backend/internal/engine"
	"github.com/benbeisheim/twochess-backend/internal/export"
	"github.com/benbeisheim/twochess-backend/internal/model"
	"github.com/benbeisheim/twochess-backend/internal/render"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(ctx context.Context, gameID string, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(ctx, gameID, playerID)
}

func (gs *GameService) CreateGame(ctx context.Context) (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(ctx, gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) {
	gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(ctx context.Context, gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(ctx, gameID)
}

func (gs *GameService) HandleMove(ctx context.Context, gameID string, playerID string, move model.MoveRequest) (engine.Move, error) {
	return gs.gameManager.MakeMove(ctx, gameID, playerID, move)
}

func (gs *GameService) LegalMoves(ctx context.Context, gameID string, square string) ([]string, error) {
	game, err := gs.gameManager.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(square)
}

// History returns the game's moves in notation. side is "white", "black" or
// empty for both.
func (gs *GameService) History(ctx context.Context, gameID string, side string) ([]string, error) {
	game, err := gs.gameManager.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if side == "" {
		return game.History(), nil
	}
	color, ok := model.ParseColor(side)
	if !ok {
		return nil, ErrInvalidSide
	}
	return game.History(color.Side()), nil
}

// BoardSVG draws the game from perspective's side. When selected names an
// occupied square its legal moves are marked.
func (gs *GameService) BoardSVG(ctx context.Context, gameID string, perspective string, selected string) ([]byte, error) {
	game, err := gs.gameManager.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	opts := render.Options{Perspective: engine.White}
	if perspective != "" {
		color, ok := model.ParseColor(perspective)
		if !ok {
			return nil, ErrInvalidSide
		}
		opts.Perspective = color.Side()
	}

	var square *engine.Coordinate
	if selected != "" {
		c, err := engine.ParseCoordinate(selected)
		if err != nil {
			return nil, err
		}
		square = &c
	}

	var buf bytes.Buffer
	game.View(func(b *engine.Board) {
		if square != nil {
			opts.Marked = b.LegalMoves(*square)
		}
		render.Board(&buf, b, opts)
	})
	return buf.Bytes(), nil
}

// PGN exports the game with the players as tags.
func (gs *GameService) PGN(ctx context.Context, gameID string) (string, error) {
	game, err := gs.gameManager.GetGame(ctx, gameID)
	if err != nil {
		return "", err
	}

	white, black := game.Players()
	tags := map[string]string{
		"Event":  "Casual game",
		"Site":   "twochess",
		"GameId": gameID,
	}
	if white != "" {
		tags["White"] = white
	}
	if black != "" {
		tags["Black"] = black
	}

	var out string
	game.View(func(b *engine.Board) {
		out, err = export.PGN(b, tags)
	})
	return out, err
}

func (gs *GameService) RegisterConnection(ctx context.Context, gameID string, playerID string, client *model.Client) error {
	return gs.gameManager.RegisterConnection(ctx, gameID, playerID, client)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, client *model.Client) {
	gs.gameManager.UnregisterConnection(gameID, playerID, client)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
