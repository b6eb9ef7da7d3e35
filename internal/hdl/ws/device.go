package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/JMURv/player-pairing/internal/presence"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const opTimeout = 10 * time.Second

type Presence interface {
	Register(ctx context.Context, connID, cpuSerial, name string) (presence.RegisterResult, error)
	Heartbeat(ctx context.Context, connID string) error
	Disconnect(ctx context.Context, connID string) error
}

type RegisterPayload struct {
	CPUSerial string `json:"cpu_serial"`
	Name      string `json:"name"`
}

// Devices serves the presence channel of playback devices.
type Devices struct {
	hub      *Hub
	presence Presence
}

func NewDevices(hub *Hub, p Presence) *Devices {
	return &Devices{
		hub:      hub,
		presence: p,
	}
}

// ServeHTTP upgrades the request. Every connection gets its own id; closing
// the transport disconnects the session bound to it.
//
//	@Summary	Device presence channel
//	@Tags		Presence
//	@Success	101
//	@Router		/ws/players [get]
func (d *Devices) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newClient(d.hub, conn, uuid.NewString())
	d.hub.addDevice(c)
	zap.L().Debug("device connected", zap.String("conn", c.id), zap.String("remote", r.RemoteAddr))

	go c.writePump()
	go c.readPump(d.handle, func() { d.drop(c) })
}

func (d *Devices) handle(c *client, data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("", "invalid JSON message")
		return
	}

	switch msg.Type {
	case TypeRegister:
		d.register(c, msg)
	case TypeHeartbeat:
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if err := d.presence.Heartbeat(ctx, c.id); err != nil {
			zap.L().Debug("failed to record heartbeat", zap.String("conn", c.id), zap.Error(err))
		}
	case TypePing:
		c.sendMessage(msg.ID, TypePong, nil)
	default:
		c.sendError(msg.ID, "unknown message type: "+msg.Type)
	}
}

func (d *Devices) register(c *client, msg inbound) {
	const op = "ws.Register.hdl"

	var p RegisterPayload
	if len(msg.Payload) == 0 {
		c.sendError(msg.ID, "register payload is required")
		return
	}
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		c.sendError(msg.ID, "invalid register payload")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := d.presence.Register(ctx, c.id, p.CPUSerial, p.Name)
	if err != nil {
		if errors.Is(err, presence.ErrInvalidArgument) {
			c.sendError(msg.ID, "cpu_serial is required")
			return
		}

		zap.L().Error("failed to register device", zap.String("op", op), zap.String("conn", c.id), zap.Error(err))
		c.sendError(msg.ID, "registration failed")
		return
	}

	if !d.hub.bindSerial(c, res.Device.CPUSerial, res.Seq) {
		zap.L().Debug(
			"stale device registration",
			zap.String("op", op),
			zap.String("cpu_serial", res.Device.CPUSerial),
			zap.String("conn", c.id),
		)
		return
	}
	if res.Superseded != "" {
		zap.L().Info(
			"device connection superseded",
			zap.String("cpu_serial", res.Device.CPUSerial),
			zap.String("old", res.Superseded),
			zap.String("new", c.id),
		)
		d.hub.CloseConn(res.Superseded)
	}

	c.sendMessage(msg.ID, TypeRegistered, res.Device)
}

func (d *Devices) drop(c *client) {
	d.hub.removeDevice(c)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := d.presence.Disconnect(ctx, c.id); err != nil {
		zap.L().Debug("failed to disconnect session", zap.String("conn", c.id), zap.Error(err))
	}
}
