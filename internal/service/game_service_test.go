package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/twochess-backend/internal/engine"
	"github.com/benbeisheim/twochess-backend/internal/model"
	"github.com/benbeisheim/twochess-backend/internal/persistence"
)

func newSeatedGame(t *testing.T, gs *GameService) string {
	t.Helper()
	ctx := context.Background()

	gameID, err := gs.CreateGame(ctx)
	require.NoError(t, err)
	_, err = gs.JoinGame(ctx, gameID, "alice")
	require.NoError(t, err)
	_, err = gs.JoinGame(ctx, gameID, "bob")
	require.NoError(t, err)
	return gameID
}

func play(t *testing.T, gs *GameService, gameID string, moves ...string) {
	t.Helper()
	players := []string{"alice", "bob"}
	for i, m := range moves {
		_, err := gs.HandleMove(context.Background(), gameID, players[i%2], model.MoveRequest{From: m[:2], To: m[2:]})
		require.NoError(t, err, "move %s", m)
	}
}

func TestGameLifecycle(t *testing.T) {
	ctx := context.Background()
	gs := NewGameService(NewGameManager(nil))
	gameID := newSeatedGame(t, gs)

	_, err := gs.JoinGame(ctx, gameID, "carol")
	assert.ErrorIs(t, err, model.ErrGameFull)

	play(t, gs, gameID, "e2e4", "e7e5", "g1f3")

	history, err := gs.History(ctx, gameID, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e5", "Nf3"}, history)

	history, err = gs.History(ctx, gameID, "black")
	require.NoError(t, err)
	assert.Equal(t, []string{"e5"}, history)

	_, err = gs.History(ctx, gameID, "purple")
	assert.ErrorIs(t, err, ErrInvalidSide)

	moves, err := gs.LegalMoves(ctx, gameID, "b8")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a6", "c6"}, moves)

	state, err := gs.GetGameState(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, model.PlayerColorBlack, state.ToMove)
}

func TestUnknownGame(t *testing.T) {
	ctx := context.Background()
	gs := NewGameService(NewGameManager(nil))

	_, err := gs.GetGameState(ctx, "nope")
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = gs.JoinGame(ctx, "nope", "alice")
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = gs.HandleMove(ctx, "nope", "alice", model.MoveRequest{From: "e2", To: "e4"})
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = gs.PGN(ctx, "nope")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestCreateGameTwice(t *testing.T) {
	gm := NewGameManager(nil)
	require.NoError(t, gm.CreateGame(context.Background(), "g1"))
	assert.ErrorIs(t, gm.CreateGame(context.Background(), "g1"), ErrGameExists)
}

func TestGamesSurviveRestart(t *testing.T) {
	ctx := context.Background()
	store, err := persistence.NewFileStore(t.TempDir())
	require.NoError(t, err)

	first := NewGameService(NewGameManager(store))
	gameID := newSeatedGame(t, first)
	play(t, first, gameID, "e2e4", "d7d5", "e4d5")

	second := NewGameService(NewGameManager(store))
	history, err := second.History(ctx, gameID, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "d5", "exd5"}, history)

	_, err = second.HandleMove(ctx, gameID, "alice", model.MoveRequest{From: "d1", To: "d4"})
	assert.ErrorIs(t, err, model.ErrNotYourTurn)
	_, err = second.HandleMove(ctx, gameID, "bob", model.MoveRequest{From: "d8", To: "d5"})
	require.NoError(t, err)

	reloaded, err := store.Load(ctx, gameID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Board.MoveList, 4)
	assert.Equal(t, "alice", reloaded.WhitePlayer)
}

func TestBoardSVG(t *testing.T) {
	ctx := context.Background()
	gs := NewGameService(NewGameManager(nil))
	gameID := newSeatedGame(t, gs)

	out, err := gs.BoardSVG(ctx, gameID, "black", "g1")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<svg")
	assert.Equal(t, 2, strings.Count(string(out), "<circle"))

	_, err = gs.BoardSVG(ctx, gameID, "sideways", "")
	assert.ErrorIs(t, err, ErrInvalidSide)
	_, err = gs.BoardSVG(ctx, gameID, "", "z0")
	assert.ErrorIs(t, err, engine.ErrInvalidCoordinate)
}

func TestPGN(t *testing.T) {
	gs := NewGameService(NewGameManager(nil))
	gameID := newSeatedGame(t, gs)
	play(t, gs, gameID, "f2f3", "e7e6", "g2g4", "d8h4")

	out, err := gs.PGN(context.Background(), gameID)
	require.NoError(t, err)
	assert.Contains(t, out, `[White "alice"]`)
	assert.Contains(t, out, `[GameId "`+gameID+`"]`)
	assert.Contains(t, out, "1. f3 e6 2. g4 Qh4# 0-1")
}

func receiveMatch(t *testing.T, ch chan string) model.MatchFoundEvent {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed without a match")
		var event model.MatchFoundEvent
		require.NoError(t, json.Unmarshal([]byte(msg), &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("no match found")
	}
	return model.MatchFoundEvent{}
}

func TestMatchOnce(t *testing.T) {
	ctx := context.Background()
	gm := NewGameManager(nil)

	aliceCh, bobCh := make(chan string, 1), make(chan string, 1)
	gm.RegisterMatchmakingChannel("alice", aliceCh)
	gm.RegisterMatchmakingChannel("bob", bobCh)

	require.NoError(t, gm.JoinMatchmaking("alice"))
	assert.False(t, gm.matchOnce(ctx))
	require.NoError(t, gm.JoinMatchmaking("bob"))
	assert.True(t, gm.matchOnce(ctx))

	alice, bob := receiveMatch(t, aliceCh), receiveMatch(t, bobCh)
	assert.Equal(t, alice.GameID, bob.GameID)
	assert.Equal(t, model.PlayerColorWhite, alice.Color)
	assert.Equal(t, model.PlayerColorBlack, bob.Color)

	_, open := <-aliceCh
	assert.False(t, open, "channel closed after delivery")

	game, err := gm.GetGame(ctx, alice.GameID)
	require.NoError(t, err)
	assert.True(t, game.IsPlayerInGame("bob"))
}

func TestRegisterMatchmakingChannelReplaces(t *testing.T) {
	gm := NewGameManager(nil)
	old, current := make(chan string, 1), make(chan string, 1)

	gm.RegisterMatchmakingChannel("alice", old)
	gm.RegisterMatchmakingChannel("alice", current)
	_, open := <-old
	assert.False(t, open)

	gm.UnregisterMatchmakingChannel("alice", old)
	gm.mu.RLock()
	assert.Equal(t, current, gm.matchingChannels["alice"])
	gm.mu.RUnlock()

	gm.UnregisterMatchmakingChannel("alice", current)
	gm.mu.RLock()
	assert.Empty(t, gm.matchingChannels)
	gm.mu.RUnlock()
}

func TestRunMatchmaking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gm := NewGameManager(nil)

	aliceCh, bobCh := make(chan string, 1), make(chan string, 1)
	gm.RegisterMatchmakingChannel("alice", aliceCh)
	gm.RegisterMatchmakingChannel("bob", bobCh)
	require.NoError(t, gm.JoinMatchmaking("alice"))
	require.NoError(t, gm.JoinMatchmaking("bob"))

	done := make(chan struct{})
	go func() {
		gm.RunMatchmaking(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Equal(t, receiveMatch(t, aliceCh).GameID, receiveMatch(t, bobCh).GameID)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("matchmaking loop did not stop")
	}
}
