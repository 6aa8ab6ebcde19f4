package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/twochess-backend/internal/engine"
	"github.com/benbeisheim/twochess-backend/internal/model"
	"github.com/benbeisheim/twochess-backend/internal/persistence"
)

// GameManager owns every live game, the matchmaking queue and the channels
// of players waiting for a match. With a store, games are written through
// after every change and loaded back on a cache miss.
type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	store            persistence.Store
	mu               sync.RWMutex
}

// NewGameManager returns a manager backed by store. A nil store keeps games
// in memory only.
func NewGameManager(store persistence.Store) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		store:            store,
	}
}

func (gm *GameManager) CreateGame(ctx context.Context, gameID string) error {
	gm.mu.Lock()
	if _, exists := gm.games[gameID]; exists {
		gm.mu.Unlock()
		return ErrGameExists
	}
	game := model.NewGame(gameID, gameEventSink(gameID))
	gm.games[gameID] = game
	gm.mu.Unlock()

	log.Infof("game %s: created", gameID)
	return gm.persist(ctx, game)
}

// GetGame returns a live game, loading it from the store if needed.
func (gm *GameManager) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}
	if gm.store == nil {
		return nil, ErrGameNotFound
	}

	record, err := gm.store.Load(ctx, gameID)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	loaded, err := model.RestoreGame(record, gameEventSink(gameID))
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if game, exists := gm.games[gameID]; exists {
		return game, nil
	}
	gm.games[gameID] = loaded
	log.Infof("game %s: restored from store", gameID)
	return loaded, nil
}

func (gm *GameManager) AddPlayerToGame(ctx context.Context, gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return "", err
	}

	color, err := game.AddPlayer(playerID)
	if err != nil {
		return "", err
	}
	log.Infof("game %s: player %s seated as %s", gameID, playerID, color)
	return color, gm.persist(ctx, game)
}

func (gm *GameManager) GetGameState(ctx context.Context, gameID string) (model.GameState, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// MakeMove plays a move and writes the game through to the store. A failed
// write is logged; the move stands.
func (gm *GameManager) MakeMove(ctx context.Context, gameID string, playerID string, req model.MoveRequest) (engine.Move, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return engine.Move{}, err
	}

	move, err := game.MakeMove(playerID, req)
	if err != nil {
		return engine.Move{}, err
	}
	if err := gm.persist(ctx, game); err != nil {
		log.Errorf("game %s: %v", gameID, err)
	}
	return move, nil
}

func (gm *GameManager) persist(ctx context.Context, game *model.Game) error {
	if gm.store == nil {
		return nil
	}
	err := game.Save(func(record persistence.GameRecord) error {
		return gm.store.Save(ctx, record)
	})
	if err != nil {
		return fmt.Errorf("save game %s: %w", game.ID, err)
	}
	return nil
}

func (gm *GameManager) RegisterConnection(ctx context.Context, gameID string, playerID string, client *model.Client) error {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, client)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, client *model.Client) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}
	game.UnregisterConnection(playerID, client)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return err
	}
	log.Debugf("matchmaking: player %s queued", playerID)
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) {
	gm.queue.Remove(playerID)
}

// RegisterMatchmakingChannel makes ch the channel the player's match is sent
// on. A channel registered earlier for the same player is closed.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets ch if it is still the player's
// channel. The channel is not closed here.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, exists := gm.matchingChannels[playerID]; exists && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}

// RunMatchmaking pairs queued players every interval until ctx is done.
func (gm *GameManager) RunMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for gm.matchOnce(ctx) {
			}
		}
	}
}

// matchOnce pairs the two longest waiting players into a new game. It
// reports whether a pair was made.
func (gm *GameManager) matchOnce(ctx context.Context) bool {
	player1, player2, ok := gm.queue.NextPair()
	if !ok {
		return false
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID, gameEventSink(gameID))
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Errorf("matchmaking: seat player %s: %v", player1.ID, err)
		return true
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Errorf("matchmaking: seat player %s: %v", player2.ID, err)
		return true
	}

	gm.mu.Lock()
	gm.games[gameID] = game
	sent1 := gm.sendMatchFound(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
	sent2 := gm.sendMatchFound(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	gm.mu.Unlock()

	if !sent1 || !sent2 {
		log.Warnf("matchmaking: game %s: not every player was notified", gameID)
	}
	log.Infof("matchmaking: game %s: %s vs %s", gameID, player1.ID, player2.ID)

	if err := gm.persist(ctx, game); err != nil {
		log.Errorf("matchmaking: %v", err)
	}
	return true
}

// sendMatchFound delivers event on the player's channel and closes it.
// gm.mu must be held.
func (gm *GameManager) sendMatchFound(playerID string, event model.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	delete(gm.matchingChannels, playerID)
	defer close(ch)

	select {
	case ch <- mustJSON(event):
		return true
	default:
		return false
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}
