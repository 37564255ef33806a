// Package ws implements the engine's Transport over a single
// gorilla/websocket connection. It does not reconnect: when the
// connection ends the frame channel is closed and the session is over.
package ws

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
	frameBuffer  = 64
)

// Client is a websocket Transport. Call Connect before any other method.
type Client struct {
	url string

	writeMu sync.Mutex // serialises all conn writes (frames and pings)
	conn    *websocket.Conn

	frames    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a client for the given websocket URL.
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		frames: make(chan []byte, frameBuffer),
		done:   make(chan struct{}),
	}
}

// Connect dials the server and starts the read and ping pumps.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	c.conn = conn
	go c.readPump()
	go c.pingPump()
	return nil
}

// Frames returns the inbound frame channel. Closed when the connection
// ends.
func (c *Client) Frames() <-chan []byte {
	return c.frames
}

// Send writes one text frame under a write deadline.
func (c *Client) Send(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// readPump delivers inbound text frames until the connection ends, then
// closes the frame channel so the engine sees the end of the session.
func (c *Client) readPump() {
	defer close(c.frames)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				// Local close, not worth logging.
			default:
				log.Printf("[ws] read: %v", err)
			}
			return
		}
		select {
		case c.frames <- data:
		case <-c.done:
			return
		}
	}
}

// pingPump keeps the connection alive until Close.
func (c *Client) pingPump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
