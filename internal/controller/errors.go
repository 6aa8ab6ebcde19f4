package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/twochess-backend/internal/engine"
	"github.com/benbeisheim/twochess-backend/internal/export"
	"github.com/benbeisheim/twochess-backend/internal/model"
	"github.com/benbeisheim/twochess-backend/internal/service"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrNotYourPiece),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrWaitingForOpponent),
		errors.Is(err, model.ErrAlreadyQueued):
		return fiber.StatusConflict
	case errors.Is(err, engine.ErrIllegalMove),
		errors.Is(err, engine.ErrNoPiece),
		errors.Is(err, engine.ErrInvalidCoordinate),
		errors.Is(err, service.ErrInvalidSide):
		return fiber.StatusBadRequest
	case errors.Is(err, export.ErrUnexportable):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
