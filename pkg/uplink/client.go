// Package uplink pushes telemetry envelopes to a remote fleet endpoint
// over an outbound websocket. Delivery is best-effort: the queue is
// bounded and drops the oldest message under pressure, and the client
// reconnects with backoff after failures.
package uplink

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vigilanceai/go-vigilance/internal/log"
	"github.com/vigilanceai/go-vigilance/pkg/protocol"
)

const (
	queueSize        = 64
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
	reconnectMin     = time.Second
	reconnectMax     = 30 * time.Second
)

// Client is an outbound telemetry uplink.
type Client struct {
	url   string
	queue chan []byte
}

// NewClient creates an uplink client for the given ws:// or wss:// URL.
// Run must be started for messages to flow.
func NewClient(url string) *Client {
	return &Client{
		url:   url,
		queue: make(chan []byte, queueSize),
	}
}

// Publish queues a message for delivery, dropping the oldest queued
// message when full. Never blocks.
func (c *Client) Publish(msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		log.Error("encode uplink message", "error", err)
		return
	}
	select {
	case c.queue <- data:
	default:
		select {
		case <-c.queue:
		default:
		}
		select {
		case c.queue <- data:
		default:
		}
	}
}

// Run drains the queue to the remote endpoint until the context is
// cancelled, redialing as needed.
func (c *Client) Run(ctx context.Context) {
	backoff := reconnectMin
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			log.Warn("uplink dial failed", "url", c.url, "error", err, "retry_in", backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > reconnectMax {
				backoff = reconnectMax
			}
			continue
		}

		log.Info("uplink connected", "url", c.url)
		backoff = reconnectMin

		if err := c.pump(ctx, conn); err != nil {
			log.Warn("uplink connection lost", "error", err)
		}
		conn.Close()

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	return conn, err
}

func (c *Client) pump(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return nil
		case data := <-c.queue:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return err
			}
		}
	}
}
