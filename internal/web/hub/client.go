package hub

import (
	"sync"
	"time"
)

// Buffer size for outgoing messages
const sendBufferSize = 256

// Message is one named event ready for a transport to write out
type Message struct {
	Event string
	Data  []byte
}

// Client is a single subscriber. Its send channel carries both room
// broadcasts and messages addressed to it directly, so a connection sees
// them in the order they were queued.
type Client struct {
	id          string
	send        chan Message
	done        chan struct{}
	closeOnce   sync.Once
	connectedAt time.Time
}

// NewClient creates a new Client
func NewClient(id string) *Client {
	return &Client{
		id:          id,
		send:        make(chan Message, sendBufferSize),
		done:        make(chan struct{}),
		connectedAt: time.Now(),
	}
}

// ID returns the subscriber id
func (c *Client) ID() string {
	return c.id
}

// Messages returns the outbound queue
func (c *Client) Messages() <-chan Message {
	return c.send
}

// Done is closed once the client has been shut down
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Deliver queues a message without blocking. It reports false when the
// buffer is full or the client is closed.
func (c *Client) Deliver(msg Message) bool {
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

// Close marks the client as finished. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
