package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/twochess-backend/internal/middleware"
	"github.com/benbeisheim/twochess-backend/internal/service"
)

// NewApp returns the fiber app the routes are mounted on. Immutable makes
// request values safe to keep after the handler returns; seat and game ids
// are kept for the life of a game.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "twochess",
		Immutable: true,
	})
}

// RegisterRoutes mounts the REST API under /api and the sockets under /ws.
// origins limits which browser origins may open a socket; empty allows all.
func RegisterRoutes(app *fiber.App, gameService *service.GameService, origins []string) {
	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)

	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	wsRoutes.Get("/game/:gameId", websocket.New(wsController.HandleConnection, wsConfig))
	wsRoutes.Get("/matchmaking", websocket.New(wsController.HandleMatchmaking, wsConfig))

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves/:square", gameController.LegalMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Get("/:gameId/history", gameController.History)
	gameRoutes.Get("/:gameId/board.svg", gameController.BoardSVG)
	gameRoutes.Get("/:gameId/pgn", gameController.PGN)
}
