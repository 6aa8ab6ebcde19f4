package model

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/twochess-backend/internal/ws"
)

// gatedConn blocks every write until release is closed.
type gatedConn struct {
	release chan struct{}
	mu      sync.Mutex
	writes  int
	closed  bool
}

func (c *gatedConn) WriteJSON(interface{}) error {
	<-c.release
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	return nil
}

func (c *gatedConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *gatedConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestClientSendRefusesWhenBehind(t *testing.T) {
	conn := &gatedConn{release: make(chan struct{})}
	client := NewClient(conn)
	msg := ws.Message{Type: ws.MessageTypeGameState}

	accepted := 0
	for i := 0; i < clientSendBuffer+5; i++ {
		if client.Send(msg) {
			accepted++
		}
	}
	assert.LessOrEqual(t, accepted, clientSendBuffer+1, "one message may be in flight")
	assert.False(t, client.Send(msg))

	client.Drop()
	close(conn.release)
	assert.Eventually(t, conn.isClosed, time.Second, 10*time.Millisecond)
	assert.False(t, client.Send(msg), "dropped client takes no messages")
}

func TestClientCloseLeavesSocketOpen(t *testing.T) {
	conn := &gatedConn{release: make(chan struct{})}
	close(conn.release)
	client := NewClient(conn)

	require.True(t, client.Send(ws.Message{Type: ws.MessageTypeGameState}))
	assert.Eventually(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return conn.writes == 1
	}, time.Second, 10*time.Millisecond)

	client.Close()
	client.Close()
	assert.False(t, conn.isClosed())
	select {
	case <-client.Done():
	default:
		t.Fatal("Done not closed after Close")
	}
}
