package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/benbeisheim/twochess-backend/internal/model"
	"github.com/benbeisheim/twochess-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// gameIDParam copies the id out of the request, since it may become a map
// key in the game manager.
func gameIDParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("gameId"))
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := gameIDParam(c)
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(c.UserContext(), gameID, playerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.UserContext(), gameIDParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	square := c.Params("square")
	moves, err := gc.gameService.LegalMoves(c.UserContext(), gameIDParam(c), square)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := gameIDParam(c)
	playerID := c.Locals("playerID").(string)

	var req model.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	move, err := gc.gameService.HandleMove(c.UserContext(), gameID, playerID, req)
	if err != nil {
		return respondError(c, err)
	}
	state, err := gc.gameService.GetGameState(c.UserContext(), gameID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"move":  move.Format(),
		"state": state,
	})
}

func (gc *GameController) History(c *fiber.Ctx) error {
	moves, err := gc.gameService.History(c.UserContext(), gameIDParam(c), c.Query("side"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func (gc *GameController) BoardSVG(c *fiber.Ctx) error {
	out, err := gc.gameService.BoardSVG(c.UserContext(), gameIDParam(c), c.Query("perspective"), c.Query("selected"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(out)
}

func (gc *GameController) PGN(c *fiber.Ctx) error {
	out, err := gc.gameService.PGN(c.UserContext(), gameIDParam(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/x-chess-pgn")
	return c.SendString(out)
}
