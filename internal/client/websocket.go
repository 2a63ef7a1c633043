// ABOUTME: WebSocket client for the companion service link
// ABOUTME: Handles connection, handshake, and lesson message routing
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/coursely/coursely-go/internal/protocol"
	"github.com/gorilla/websocket"
)

// Config holds client configuration
type Config struct {
	ServerAddr string
	ClientID   string
	Name       string
	Version    int
	DeviceInfo protocol.DeviceInfo
}

// Client maintains the link to the companion service and routes incoming
// lesson content and audio payloads onto typed channels.
type Client struct {
	config Config
	conn   *websocket.Conn
	mu     sync.RWMutex

	// Message channels
	Units  chan protocol.UnitContent
	Audio  chan protocol.AudioPayload
	Errors chan protocol.ServerError

	// State
	connected bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient creates a companion service client
func NewClient(config Config) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		config: config,
		Units:  make(chan protocol.UnitContent, 10),
		Audio:  make(chan protocol.AudioPayload, 4),
		Errors: make(chan protocol.ServerError, 10),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect establishes the WebSocket connection and performs the handshake
func (c *Client) Connect() error {
	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: "/coursely"}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	if err := c.handshake(); err != nil {
		c.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}

	go c.readMessages()

	return nil
}

// handshake performs the protocol handshake
func (c *Client) handshake() error {
	raw, err := protocol.Encode(protocol.TypeClientHello, protocol.ClientHello{
		ClientID:   c.config.ClientID,
		Name:       c.config.Name,
		Version:    c.config.Version,
		DeviceInfo: &c.config.DeviceInfo,
	})
	if err != nil {
		return err
	}
	if err := c.send(raw); err != nil {
		return fmt.Errorf("failed to send client/hello: %w", err)
	}

	// Wait for server/hello (with timeout)
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read server/hello: %w", err)
	}
	c.conn.SetReadDeadline(time.Time{})

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to parse server/hello: %w", err)
	}
	if msg.Type != protocol.TypeServerHello {
		return fmt.Errorf("expected %s, got %s", protocol.TypeServerHello, msg.Type)
	}

	log.Printf("Handshake complete with companion service")
	return nil
}

// RequestGeneration asks the service to generate a unit's materials.
// Fire-and-forget: failures are logged and the player simply waits for
// whatever content eventually arrives.
func (c *Client) RequestGeneration(req protocol.GenerateRequest) {
	raw, err := protocol.Encode(protocol.TypeGenerate, req)
	if err != nil {
		log.Printf("Failed to encode generate request: %v", err)
		return
	}
	if err := c.send(raw); err != nil {
		log.Printf("Failed to send generate request: %v", err)
	}
}

// send writes a raw message to the connection
func (c *Client) send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return fmt.Errorf("not connected")
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// readMessages reads and routes incoming messages
func (c *Client) readMessages() {
	defer c.Close()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Printf("Read error: %v", err)
			return
		}

		c.dispatch(data)
	}
}

// dispatch routes one JSON message to its channel
func (c *Client) dispatch(data []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Failed to parse message: %v", err)
		return
	}

	switch msg.Type {
	case protocol.TypeUnitContent:
		var content protocol.UnitContent
		if err := json.Unmarshal(msg.Payload, &content); err != nil {
			log.Printf("Failed to parse unit content: %v", err)
			return
		}
		select {
		case c.Units <- content:
		case <-c.ctx.Done():
		}

	case protocol.TypeAudioPayload:
		var payload protocol.AudioPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Printf("Failed to parse audio payload: %v", err)
			return
		}
		select {
		case c.Audio <- payload:
		case <-c.ctx.Done():
		}

	case protocol.TypeServerError:
		var serr protocol.ServerError
		if err := json.Unmarshal(msg.Payload, &serr); err != nil {
			log.Printf("Failed to parse server error: %v", err)
			return
		}
		log.Printf("Service error: %s %s", serr.Code, serr.Message)
		select {
		case c.Errors <- serr:
		case <-c.ctx.Done():
		}

	default:
		log.Printf("Unknown message type: %s", msg.Type)
	}
}

// Close shuts down the connection
func (c *Client) Close() {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && c.connected {
		c.conn.Close()
		c.connected = false
	}
}
