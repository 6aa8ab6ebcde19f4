package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/twochess-backend/internal/model"
	"github.com/benbeisheim/twochess-backend/internal/service"
	"github.com/benbeisheim/twochess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection serves a game socket: the current state is pushed on
// connect and after every move, and move messages from the client are
// played for the connected player.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := utils.CopyString(c.Params("gameId"))
	playerID := c.Locals("playerID").(string)
	ctx := context.Background()

	client := model.NewClient(c)
	if err := wsc.gameService.RegisterConnection(ctx, gameID, playerID, client); err != nil {
		client.Close()
		log.Warnf("game %s: register connection for player %s: %v", gameID, playerID, err)
		if errors.Is(err, model.ErrDuplicateConnection) {
			c.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, err.Error()),
			)
			return
		}
		wsc.writeError(c, err)
		return
	}
	defer client.Close()
	defer wsc.gameService.UnregisterConnection(gameID, playerID, client)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read from player %s: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.queueError(client, fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := wsc.handleMessage(ctx, gameID, playerID, msg); err != nil {
			log.Debugf("game %s: message from player %s: %v", gameID, playerID, err)
			wsc.queueError(client, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(ctx context.Context, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("malformed move: %w", err)
		}
		_, err := wsc.gameService.HandleMove(ctx, gameID, playerID, move)
		return err
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking queues the player and holds the socket open until a
// match is found or the client goes away.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID := c.Locals("playerID").(string)

	ch := make(chan string, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		wsc.writeError(c, err)
		return
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			// replaced by a newer socket for the same player
			return
		}
		if err := c.WriteJSON(ws.Message{
			Type:    ws.MessageTypeMatchFound,
			Payload: json.RawMessage(event),
		}); err != nil {
			log.Warnf("matchmaking: notify player %s: %v", playerID, err)
		}
		c.Close()
		<-gone
	case <-gone:
		wsc.gameService.LeaveMatchmaking(playerID)
		log.Debugf("matchmaking: player %s left", playerID)
	}
}

func errorMessage(err error) (ws.Message, bool) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if merr != nil {
		log.Errorf("marshal error message: %v", merr)
		return ws.Message{}, false
	}
	return msg, true
}

// queueError sends err through the socket's single writer.
func (wsc *WebSocketController) queueError(client *model.Client, err error) {
	if msg, ok := errorMessage(err); ok && !client.Send(msg) {
		log.Debugf("error message dropped: %v", err)
	}
}

// writeError writes err directly. Only for sockets with no Client writing.
func (wsc *WebSocketController) writeError(c *websocket.Conn, err error) {
	msg, ok := errorMessage(err)
	if !ok {
		return
	}
	if werr := c.WriteJSON(msg); werr != nil {
		log.Debugf("send error message: %v", werr)
	}
}
