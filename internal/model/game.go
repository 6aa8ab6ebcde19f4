package model

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/exp/maps"

	"github.com/benbeisheim/twochess-backend/internal/engine"
	"github.com/benbeisheim/twochess-backend/internal/persistence"
	"github.com/benbeisheim/twochess-backend/internal/ws"
)

var (
	ErrGameFull            = errors.New("game is full")
	ErrNotInGame           = errors.New("player not in game")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrNotYourPiece        = errors.New("piece belongs to the opponent")
	ErrGameOver            = errors.New("game is over")
	ErrWaitingForOpponent  = errors.New("waiting for an opponent")
	ErrDuplicateConnection = errors.New("connection already exists")
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*Client // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*Client),
	}
}

// Game is one board with its two seats and the sockets watching it. The
// board itself is not safe for concurrent use, so every access goes through
// mu. saveMu orders writes to a store.
type Game struct {
	ID          string
	mu          sync.Mutex
	saveMu      sync.Mutex
	board       *engine.Board
	white       string
	black       string
	lastMove    *SimpleMove
	updatedAt   time.Time
	connections *GameConnections
}

type GameState struct {
	ID          string       `json:"id"`
	Board       BoardView    `json:"boardState"`
	ToMove      PlayerColor  `json:"toMove"`
	MoveHistory []MoveView   `json:"moveHistory"`
	WhiteMoves  []string     `json:"whiteMoves"`
	BlackMoves  []string     `json:"blackMoves"`
	IsCheck     bool         `json:"isCheck"`
	GameOver    bool         `json:"gameOver"`
	Winner      *PlayerColor `json:"winner"`
	LastMove    *SimpleMove  `json:"lastMove"`
	Players     struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

func NewGame(id string, sink engine.EventSink) *Game {
	board := engine.NewBoard()
	board.SetEventSink(sink)
	return &Game{
		ID:          id,
		board:       board,
		updatedAt:   time.Now().UTC(),
		connections: NewGameConnections(),
	}
}

// RestoreGame rebuilds a game from a stored record.
func RestoreGame(record persistence.GameRecord, sink engine.EventSink) (*Game, error) {
	board, err := record.Board.ToBoard()
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", record.ID, err)
	}
	board.SetEventSink(sink)

	g := &Game{
		ID:          record.ID,
		board:       board,
		white:       record.WhitePlayer,
		black:       record.BlackPlayer,
		updatedAt:   record.UpdatedAt,
		connections: NewGameConnections(),
	}
	if last, ok := board.History().Last(); ok {
		g.lastMove = &SimpleMove{From: last.From.String(), To: last.To.String()}
	}
	return g, nil
}

// Record captures the game for a Store.
func (g *Game) Record() persistence.GameRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	return persistence.GameRecord{
		ID:          g.ID,
		WhitePlayer: g.white,
		BlackPlayer: g.black,
		Board:       persistence.FromBoard(g.board),
		UpdatedAt:   g.updatedAt,
	}
}

// Save hands a fresh record to save. Calls are serialised, so a store never
// receives an older record after a newer one.
func (g *Game) Save(save func(persistence.GameRecord) error) error {
	g.saveMu.Lock()
	defer g.saveMu.Unlock()

	return save(g.Record())
}

// AddPlayer seats playerID, White first. A player already seated gets their
// colour back.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}
	if g.white == "" {
		g.white = playerID
		g.updatedAt = time.Now().UTC()
		return PlayerColorWhite, nil
	}
	if g.black == "" {
		g.black = playerID
		g.updatedAt = time.Now().UTC()
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

// Players returns the ids seated on each side, empty for an open seat.
func (g *Game) Players() (white, black string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.white, g.black
}

func (g *Game) colorOf(playerID string) (PlayerColor, bool) {
	switch {
	case playerID == "":
		return "", false
	case playerID == g.white:
		return PlayerColorWhite, true
	case playerID == g.black:
		return PlayerColorBlack, true
	}
	return "", false
}

// MakeMove plays from -> to for playerID. Only the player whose side is to
// move may move, and only their own pieces.
func (g *Game) MakeMove(playerID string, req MoveRequest) (engine.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.board.GameOver() {
		return engine.Move{}, ErrGameOver
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return engine.Move{}, ErrNotInGame
	}
	if g.white == "" || g.black == "" {
		return engine.Move{}, ErrWaitingForOpponent
	}
	if color.Side() != g.board.CurrentTurn() {
		return engine.Move{}, ErrNotYourTurn
	}

	from, err := engine.ParseCoordinate(req.From)
	if err != nil {
		return engine.Move{}, err
	}
	to, err := engine.ParseCoordinate(req.To)
	if err != nil {
		return engine.Move{}, err
	}
	if p, ok := g.board.Piece(from); ok && p.Side != color.Side() {
		return engine.Move{}, ErrNotYourPiece
	}

	move, err := g.board.MakeMove(from, to)
	if err != nil {
		return engine.Move{}, err
	}
	g.lastMove = &SimpleMove{From: req.From, To: req.To}
	g.updatedAt = time.Now().UTC()

	g.broadcastLocked()

	return move, nil
}

// LegalMoves lists the destinations of the piece on square, empty when the
// square is empty.
func (g *Game) LegalMoves(square string) ([]string, error) {
	c, err := engine.ParseCoordinate(square)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	moves := g.board.LegalMoves(c)
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	return out, nil
}

// History returns the formatted moves of the given sides, all moves when
// none are given.
func (g *Game) History(sides ...engine.Side) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.History().Formatted(sides...)
}

// View runs fn with the board held under the game lock. fn must not keep
// the board or modify it.
func (g *Game) View(fn func(b *engine.Board)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	fn(g.board)
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

func (g *Game) state() GameState {
	b := g.board
	state := GameState{
		ID:          g.ID,
		Board:       newBoardView(b),
		ToMove:      ColorOf(b.CurrentTurn()),
		MoveHistory: make([]MoveView, 0, b.History().Len()),
		WhiteMoves:  b.History().Formatted(engine.White),
		BlackMoves:  b.History().Formatted(engine.Black),
		IsCheck:     b.IsInCheck(b.CurrentTurn()),
		GameOver:    b.GameOver(),
		LastMove:    g.lastMove,
	}
	for _, m := range b.History().All() {
		state.MoveHistory = append(state.MoveHistory, newMoveView(m))
	}
	if winner, over := b.Winner(); over {
		color := ColorOf(winner)
		state.Winner = &color
	}
	if g.white != "" {
		state.Players.White = ClientPlayer{ID: g.white, Color: PlayerColorWhite}
	}
	if g.black != "" {
		state.Players.Black = ClientPlayer{ID: g.black, Color: PlayerColorBlack}
	}
	return state
}

// RegisterConnection attaches a socket for playerID and queues the current
// state on it. Anyone may watch; only seated players can move. A second
// socket for the same player is refused.
func (g *Game) RegisterConnection(playerID string, client *Client) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	msg, err := g.stateMessage()
	if err != nil {
		return err
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrDuplicateConnection
	}
	g.connections.connections[playerID] = client
	g.connections.mu.Unlock()
	log.Debugf("game %s: registered connection for player %s", g.ID, playerID)

	client.Send(msg)
	go func() {
		<-client.Done()
		g.UnregisterConnection(playerID, client)
	}()
	return nil
}

// UnregisterConnection drops the socket of playerID if client is still the
// registered one.
func (g *Game) UnregisterConnection(playerID string, client *Client) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == client {
		delete(g.connections.connections, playerID)
		log.Debugf("game %s: unregistered connection for player %s", g.ID, playerID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

func (g *Game) stateMessage() (ws.Message, error) {
	return ws.NewMessage(ws.MessageTypeGameState, g.state())
}

// broadcastLocked queues the current state on every socket. g.mu must be
// held, which keeps states in move order on each socket.
func (g *Game) broadcastLocked() {
	msg, err := g.stateMessage()
	if err != nil {
		log.Errorf("game %s: marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.RLock()
	activeConnections := maps.Clone(g.connections.connections)
	g.connections.mu.RUnlock()

	for playerID, client := range activeConnections {
		if !client.Send(msg) {
			select {
			case <-client.Done():
			default:
				log.Warnf("game %s: player %s is not keeping up, dropping connection", g.ID, playerID)
				client.Drop()
			}
		}
	}
}
