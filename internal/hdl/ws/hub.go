package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/JMURv/player-pairing/internal/auth"
	"github.com/JMURv/player-pairing/internal/config"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/notify"
	metrics "github.com/JMURv/player-pairing/internal/observability/metrics/prometheus"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	TypeRegister   = "register"
	TypeHeartbeat  = "heartbeat"
	TypePing       = "ping"
	TypePong       = "pong"
	TypeRegistered = "registered"
	TypeEvent      = "event"
	TypeError      = "error"

	channelDevices   = "devices"
	channelObservers = "observers"

	sendBufferSize = 256
)

// Message is sent to websocket clients.
type Message struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

type inbound struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Hub owns the device and observer connections and delivers notifications
// to them. It implements notify.Publisher.
type Hub struct {
	au   auth.Core
	conf config.PresenceConfig

	mu        sync.RWMutex
	observers map[*client]struct{}
	devices   map[string]*client
	bySerial  map[string]*client
}

func NewHub(au auth.Core, conf config.PresenceConfig) *Hub {
	if conf.WSPingInterval <= 0 {
		conf.WSPingInterval = 30 * time.Second
	}
	if conf.WSPongTimeout <= 0 {
		conf.WSPongTimeout = 10 * time.Second
	}
	if conf.WSMaxMessageSize <= 0 {
		conf.WSMaxMessageSize = 8192
	}

	return &Hub{
		au:        au,
		conf:      conf,
		observers: make(map[*client]struct{}),
		devices:   make(map[string]*client),
		bySerial:  make(map[string]*client),
	}
}

// Run blocks until ctx is done and then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

func (h *Hub) Publish(_ context.Context, e notify.Event) {
	switch e.Type {
	case notify.TypePlayersUpdate:
		devices, _ := e.Payload.([]md.Device)
		h.broadcastSnapshot(e, devices)
	case notify.TypePairingSucceeded:
		data, err := encodeEvent(e, e.Payload)
		if err != nil {
			zap.L().Error("failed to marshal event", zap.String("type", string(e.Type)), zap.Error(err))
			return
		}

		h.toObservers(e.AccountID, data)
		if p, ok := e.Payload.(notify.PairingPayload); ok {
			h.toDevice(p.CPUSerial, data)
		}
	default:
		data, err := encodeEvent(e, e.Payload)
		if err != nil {
			zap.L().Error("failed to marshal event", zap.String("type", string(e.Type)), zap.Error(err))
			return
		}
		h.toObservers(e.AccountID, data)
	}
}

// CloseConn drops the device connection with the given id. It does not
// block and is safe to call from the presence registry.
func (h *Hub) CloseConn(connID string) {
	h.mu.RLock()
	c, ok := h.devices[connID]
	h.mu.RUnlock()

	if ok {
		_ = c.conn.Close()
	}
}

func (h *Hub) Counts() (devices, observers int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.devices), len(h.observers)
}

// broadcastSnapshot encodes one filtered list per distinct observer scope.
func (h *Hub) broadcastSnapshot(e notify.Event, devices []md.Device) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.observers))
	for c := range h.observers {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	encoded := make(map[string][]byte)
	for _, c := range clients {
		scope := c.identity.Scope()
		data, ok := encoded[scope]
		if !ok {
			filter := md.DeviceFilter{AccountID: scope}
			visible := make([]md.Device, 0, len(devices))
			for i := range devices {
				if filter.Match(&devices[i]) {
					visible = append(visible, devices[i])
				}
			}

			var err error
			if data, err = encodeEvent(e, visible); err != nil {
				zap.L().Error("failed to marshal snapshot", zap.Error(err))
				return
			}
			encoded[scope] = data
		}
		c.trySend(data)
	}
}

func (h *Hub) toObservers(accountID string, data []byte) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.observers))
	for c := range h.observers {
		if c.identity.Sees(accountID) {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *Hub) toDevice(cpuSerial string, data []byte) {
	h.mu.RLock()
	c, ok := h.bySerial[cpuSerial]
	h.mu.RUnlock()

	if ok {
		c.trySend(data)
	}
}

func (h *Hub) addObserver(c *client) {
	h.mu.Lock()
	h.observers[c] = struct{}{}
	h.mu.Unlock()
	metrics.AddClients(channelObservers, 1)
}

func (h *Hub) removeObserver(c *client) {
	h.mu.Lock()
	_, existed := h.observers[c]
	delete(h.observers, c)
	h.mu.Unlock()

	if existed {
		close(c.send)
		metrics.AddClients(channelObservers, -1)
	}
}

func (h *Hub) addDevice(c *client) {
	h.mu.Lock()
	h.devices[c.id] = c
	h.mu.Unlock()
	metrics.AddClients(channelDevices, 1)
}

// bindSerial routes pairing events for cpuSerial to c. It reports false when
// c is already gone or a later registration owns cpuSerial.
func (h *Hub) bindSerial(c *client, cpuSerial string, seq uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.devices[c.id] != c {
		return false
	}
	if cur, ok := h.bySerial[cpuSerial]; ok && cur != c && cur.seq > seq {
		return false
	}

	if c.serial != "" && c.serial != cpuSerial && h.bySerial[c.serial] == c {
		delete(h.bySerial, c.serial)
	}
	c.serial, c.seq = cpuSerial, seq
	h.bySerial[cpuSerial] = c
	return true
}

func (h *Hub) removeDevice(c *client) {
	h.mu.Lock()
	_, existed := h.devices[c.id]
	delete(h.devices, c.id)
	if c.serial != "" && h.bySerial[c.serial] == c {
		delete(h.bySerial, c.serial)
	}
	h.mu.Unlock()

	if existed {
		close(c.send)
		metrics.AddClients(channelDevices, -1)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.observers {
		close(c.send)
		_ = c.conn.Close()
		delete(h.observers, c)
		metrics.AddClients(channelObservers, -1)
	}
	for id, c := range h.devices {
		close(c.send)
		_ = c.conn.Close()
		delete(h.devices, id)
		metrics.AddClients(channelDevices, -1)
	}
	clear(h.bySerial)
}

func encodeEvent(e notify.Event, payload any) ([]byte, error) {
	return json.Marshal(
		Message{
			Type:      TypeEvent,
			EventType: string(e.Type),
			Timestamp: e.At.UTC().Format(time.RFC3339),
			Payload:   payload,
		},
	)
}
