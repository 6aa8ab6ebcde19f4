package model

import (
	"sync"
	"sync/atomic"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/twochess-backend/internal/ws"
)

const clientSendBuffer = 16

// Conn is the part of a websocket connection a Client writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client owns every write to one socket. Messages queued with Send are
// written in order by a single goroutine, since the socket allows only one
// writer at a time.
type Client struct {
	conn     Conn
	send     chan ws.Message
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	drop     atomic.Bool
}

func NewClient(conn Conn) *Client {
	c := &Client{
		conn:    conn,
		send:    make(chan ws.Message, clientSendBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go c.writePump()
	return c
}

// Send queues msg. It reports false when the client is closed or too far
// behind to take more.
func (c *Client) Send(msg ws.Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Done is closed once the client stops writing.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close stops the writer and waits for a write in progress to finish.
// Unwritten messages are dropped. The socket stays open, so the owner may
// write to it directly afterwards.
func (c *Client) Close() {
	c.stop()
	<-c.stopped
}

// Drop stops the writer and has it close the socket, which ends the
// reader too.
func (c *Client) Drop() {
	c.drop.Store(true)
	c.stop()
}

func (c *Client) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *Client) writePump() {
	defer close(c.stopped)
	for {
		select {
		case <-c.done:
			c.finish()
			return
		case msg := <-c.send:
			select {
			case <-c.done:
				c.finish()
				return
			default:
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Debugf("write %s message: %v", msg.Type, err)
				c.drop.Store(true)
				c.stop()
				c.finish()
				return
			}
		}
	}
}

func (c *Client) finish() {
	if c.drop.Load() {
		c.conn.Close()
	}
}
