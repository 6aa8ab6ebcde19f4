package service

import (
	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/twochess-backend/internal/engine"
)

// gameEventSink logs board events of one game.
func gameEventSink(gameID string) engine.EventSink {
	return engine.EventSinkFunc(func(e engine.Event) {
		switch e.Kind {
		case engine.EventCheckmate:
			log.Infof("game %s: %s is checkmated after %s", gameID, e.Side, e.Text)
		case engine.EventCheck:
			log.Infof("game %s: %s is in check after %s", gameID, e.Side, e.Text)
		default:
			log.Debugf("game %s: %s played %s", gameID, e.Side, e.Text)
		}
	})
}
