package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// PacificaWSClient handles the WebSocket price stream from Pacifica. It is
// read-only: subscriptions deliver raw JSON to registered handlers with no
// ordering or delivery guarantees beyond what the socket provides.
type PacificaWSClient struct {
	url         string
	conn        *websocket.Conn
	mu          sync.RWMutex
	handlers    map[string]func(json.RawMessage)
	stopCh      chan struct{}
	reconnectCh chan struct{}
}

type PacificaWSMessage struct {
	Method  string            `json:"method,omitempty"`
	Params  *PacificaWSParams `json:"params,omitempty"`
	Channel string            `json:"channel,omitempty"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Time    string            `json:"time,omitempty"`
}

type PacificaWSParams struct {
	Source string `json:"source"`
}

// PacificaPrice is one entry of the "prices" channel payload.
type PacificaPrice struct {
	Symbol    string `json:"symbol"`
	Mid       string `json:"mid"`
	Mark      string `json:"mark"`
	Oracle    string `json:"oracle"`
	Timestamp int64  `json:"timestamp"`
}

func NewPacificaWSClient(url string) *PacificaWSClient {
	return &PacificaWSClient{
		url:         url,
		handlers:    make(map[string]func(json.RawMessage)),
		stopCh:      make(chan struct{}),
		reconnectCh: make(chan struct{}, 1),
	}
}

func (c *PacificaWSClient) Connect(ctx context.Context) error {
	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to Pacifica WebSocket: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	log.Infof("Pacifica WebSocket connected to %s", c.url)

	go c.handleMessages()
	go c.handlePingPong()

	return nil
}

// Subscribe registers a handler for a source channel ("prices" is the one
// the venue documents) and sends the subscribe request.
func (c *PacificaWSClient) Subscribe(source string, handler func(json.RawMessage)) error {
	c.mu.Lock()
	c.handlers[source] = handler
	c.mu.Unlock()

	msg := PacificaWSMessage{
		Method: "subscribe",
		Params: &PacificaWSParams{Source: source},
	}

	return c.sendMessage(msg)
}

func (c *PacificaWSClient) Unsubscribe(source string) error {
	c.mu.Lock()
	delete(c.handlers, source)
	c.mu.Unlock()

	msg := PacificaWSMessage{
		Method: "unsubscribe",
		Params: &PacificaWSParams{Source: source},
	}

	return c.sendMessage(msg)
}

func (c *PacificaWSClient) sendMessage(msg interface{}) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("websocket not connected")
	}

	return conn.WriteJSON(msg)
}

func (c *PacificaWSClient) handleMessages() {
	for {
		select {
		case <-c.stopCh:
			return
		default:
			c.mu.RLock()
			conn := c.conn
			c.mu.RUnlock()

			if conn == nil {
				time.Sleep(time.Second)
				continue
			}

			var msg PacificaWSMessage
			err := conn.ReadJSON(&msg)
			if err != nil {
				log.Warnf("Pacifica WS read error: %v", err)
				// Trigger reconnect
				select {
				case c.reconnectCh <- struct{}{}:
				default:
				}
				time.Sleep(time.Second)
				continue
			}

			switch msg.Method {
			case "ping":
				pong := PacificaWSMessage{Method: "pong", Time: msg.Time}
				c.sendMessage(pong)
				continue
			case "pong":
				continue
			case "subscribed":
				log.Infof("Pacifica WS subscribed: %s", string(msg.Data))
				continue
			case "error":
				log.Errorf("Pacifica WS error: %s", string(msg.Data))
				continue
			}

			if msg.Channel == "" {
				continue
			}

			c.mu.RLock()
			handler, ok := c.handlers[msg.Channel]
			c.mu.RUnlock()

			if ok && handler != nil {
				handler(msg.Data)
			}
		}
	}
}

func (c *PacificaWSClient) handlePingPong() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			ping := PacificaWSMessage{
				Method: "ping",
				Time:   fmt.Sprintf("%d", time.Now().UnixMilli()),
			}
			if err := c.sendMessage(ping); err != nil {
				log.Warnf("Pacifica WS ping error: %v", err)
			}
		}
	}
}

// Reconnects signals read failures; callers decide whether to dial again.
func (c *PacificaWSClient) Reconnects() <-chan struct{} {
	return c.reconnectCh
}

func (c *PacificaWSClient) Close() error {
	close(c.stopCh)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}
