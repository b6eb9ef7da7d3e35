package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JMURv/player-pairing/internal/auth"
	"github.com/JMURv/player-pairing/internal/config"
	"github.com/JMURv/player-pairing/internal/mocks"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/notify"
	"github.com/JMURv/player-pairing/internal/presence"
	"github.com/JMURv/player-pairing/internal/repo/memory"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type received struct {
	Type      string          `json:"type"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

type env struct {
	srv   *httptest.Server
	hub   *Hub
	reg   *presence.Registry
	store *memory.Repository
	au    *mocks.MockCore
}

func setup(t *testing.T) *env {
	t.Helper()

	conf := config.PresenceConfig{
		WSPingInterval:   time.Second,
		WSPongTimeout:    time.Second,
		WSMaxMessageSize: 4096,
	}

	e := &env{
		store: memory.New(),
		au:    mocks.NewMockCore(gomock.NewController(t)),
	}
	e.hub = NewHub(e.au, conf)
	e.reg = presence.New(e.store, e.hub, conf)
	e.reg.OnEvict(e.hub.CloseConn)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		e.reg.Run(ctx)
		close(stopped)
	}()

	mux := http.NewServeMux()
	mux.Handle("/ws/players", NewDevices(e.hub, e.reg))
	mux.HandleFunc("/ws/observers", e.hub.ServeObservers)
	e.srv = httptest.NewServer(mux)

	t.Cleanup(func() {
		e.srv.Close()
		cancel()
		<-stopped
	})
	return e
}

func (e *env) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(e.srv.URL, "http")+path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func (e *env) observer(t *testing.T, id auth.Identity) *websocket.Conn {
	t.Helper()

	_, observers := e.hub.Counts()
	token := uuid.NewString()
	e.au.EXPECT().Authorize(gomock.Any(), token).Return(id, nil)

	conn := e.dial(t, "/ws/observers?token="+token)
	require.Eventually(t, func() bool {
		_, n := e.hub.Counts()
		return n == observers+1
	}, time.Second, 5*time.Millisecond)
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func read(t *testing.T, conn *websocket.Conn) received {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg received
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

// readEvent skips messages until an event of the given type arrives.
func readEvent(t *testing.T, conn *websocket.Conn, typ notify.Type) received {
	t.Helper()

	for {
		msg := read(t, conn)
		if msg.Type == TypeEvent && msg.EventType == string(typ) {
			return msg
		}
	}
}

func register(t *testing.T, conn *websocket.Conn, serial string) md.Device {
	t.Helper()

	send(t, conn, map[string]any{
		"type":    TypeRegister,
		"payload": RegisterPayload{CPUSerial: serial, Name: "Lobby"},
	})

	msg := read(t, conn)
	require.Equal(t, TypeRegistered, msg.Type)

	var d md.Device
	require.NoError(t, json.Unmarshal(msg.Payload, &d))
	return d
}

func TestDevices_Register(t *testing.T) {
	e := setup(t)
	conn := e.dial(t, "/ws/players")

	d := register(t, conn, "CPU-1")
	assert.Equal(t, "CPU-1", d.CPUSerial)
	assert.Equal(t, "Lobby", d.Name)
	assert.Equal(t, md.StatusOnline, d.Status)

	send(t, conn, map[string]any{"type": TypeHeartbeat})
	send(t, conn, map[string]any{"type": TypePing, "id": "1"})
	msg := read(t, conn)
	assert.Equal(t, TypePong, msg.Type)

	tests := []struct {
		name string
		msg  string
	}{
		{"InvalidJSON", `{`},
		{"UnknownType", `{"type":"dance"}`},
		{"MissingPayload", `{"type":"register"}`},
		{"MissingSerial", `{"type":"register","payload":{"cpu_serial":"  "}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.msg)))
			assert.Equal(t, TypeError, read(t, conn).Type)
		})
	}

	n, err := e.reg.Sessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDevices_Supersede(t *testing.T) {
	e := setup(t)
	first := e.dial(t, "/ws/players")
	second := e.dial(t, "/ws/players")

	register(t, first, "CPU-1")
	register(t, second, "CPU-1")

	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			assert.False(t, isTimeout(err), "superseded connection must be closed")
			break
		}
	}

	require.NoError(t, e.reg.Flush(context.Background()))
	online, err := e.store.ListDevices(context.Background(), md.DeviceFilter{Status: md.StatusOnline})
	require.NoError(t, err)
	assert.Len(t, online, 1)

	n, err := e.reg.Sessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDevices_CloseMarksOffline(t *testing.T) {
	e := setup(t)
	conn := e.dial(t, "/ws/players")
	register(t, conn, "CPU-1")

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		if err := e.reg.Flush(context.Background()); err != nil {
			return false
		}
		online, err := e.store.ListDevices(context.Background(), md.DeviceFilter{Status: md.StatusOnline})
		return err == nil && len(online) == 0
	}, 2*time.Second, 10*time.Millisecond)

	devices, _ := e.hub.Counts()
	assert.Equal(t, 0, devices)
}

func TestObservers_Unauthorized(t *testing.T) {
	e := setup(t)
	e.au.EXPECT().Authorize(gomock.Any(), "").Return(auth.Identity{}, auth.ErrMissingToken)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(e.srv.URL, "http")+"/ws/observers", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestObservers_PresenceEvents(t *testing.T) {
	e := setup(t)
	obs := e.observer(t, auth.Identity{UserID: "u", OrgID: "O", EffectiveOrgID: "O", Role: auth.RoleSuperAdmin})

	conn := e.dial(t, "/ws/players")
	d := register(t, conn, "CPU-1")

	msg := readEvent(t, obs, notify.TypePresenceChanged)
	var p notify.PresencePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	assert.Equal(t, d.ID, p.PlayerID)
	assert.Equal(t, md.StatusOnline, p.Status)

	msg = readEvent(t, obs, notify.TypePlayersUpdate)
	var list []md.Device
	require.NoError(t, json.Unmarshal(msg.Payload, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "CPU-1", list[0].CPUSerial)
}

func TestHub_PairingSucceeded(t *testing.T) {
	e := setup(t)
	own := e.observer(t, auth.Identity{UserID: "a", OrgID: "O", EffectiveOrgID: "O", Role: auth.RoleAdmin})
	other := e.observer(t, auth.Identity{UserID: "b", OrgID: "X", EffectiveOrgID: "X", Role: auth.RoleAdmin})

	conn := e.dial(t, "/ws/players")
	d := register(t, conn, "CPU-1")

	acc, at := "O", time.Now()
	d.AccountID, d.PairedAt = &acc, &at
	e.hub.Publish(context.Background(), notify.PairingSucceeded(&d, at))

	for _, c := range []*websocket.Conn{own, conn} {
		msg := readEvent(t, c, notify.TypePairingSucceeded)
		var p notify.PairingPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &p))
		assert.Equal(t, d.ID, p.PlayerID)
		assert.Equal(t, "O", p.AccountID)
	}

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	for {
		_, data, err := other.ReadMessage()
		if err != nil {
			assert.True(t, isTimeout(err))
			break
		}

		var msg received
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.NotEqual(t, string(notify.TypePairingSucceeded), msg.EventType)
	}
}

func TestHub_SnapshotFiltered(t *testing.T) {
	e := setup(t)
	admin := e.observer(t, auth.Identity{UserID: "a", OrgID: "O", EffectiveOrgID: "O", Role: auth.RoleAdmin})
	super := e.observer(t, auth.Identity{UserID: "s", OrgID: "S", EffectiveOrgID: "S", Role: auth.RoleSuperAdmin})

	o, x := "O", "X"
	devices := []md.Device{
		{ID: uuid.New(), CPUSerial: "CPU-O", AccountID: &o},
		{ID: uuid.New(), CPUSerial: "CPU-X", AccountID: &x},
		{ID: uuid.New(), CPUSerial: "CPU-NEW"},
	}
	e.hub.Publish(context.Background(), notify.PlayersUpdate(devices, time.Now()))

	tests := []struct {
		name    string
		conn    *websocket.Conn
		serials []string
	}{
		{"Admin", admin, []string{"CPU-O"}},
		{"SuperAdmin", super, []string{"CPU-O", "CPU-X", "CPU-NEW"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := readEvent(t, tt.conn, notify.TypePlayersUpdate)

			var list []md.Device
			require.NoError(t, json.Unmarshal(msg.Payload, &list))

			serials := make([]string, 0, len(list))
			for _, d := range list {
				serials = append(serials, d.CPUSerial)
			}
			assert.Equal(t, tt.serials, serials)
		})
	}
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	t, ok := err.(timeout)
	return ok && t.Timeout()
}

func TestHub_BindSerial(t *testing.T) {
	h := NewHub(nil, config.PresenceConfig{})
	older := &client{hub: h, id: "a", send: make(chan []byte, 1)}
	newer := &client{hub: h, id: "b", send: make(chan []byte, 1)}
	h.addDevice(older)
	h.addDevice(newer)

	require.True(t, h.bindSerial(newer, "CPU-1", 2))
	assert.False(t, h.bindSerial(older, "CPU-1", 1), "older registration must not take over")
	assert.Same(t, newer, h.bySerial["CPU-1"])

	h.removeDevice(older)
	assert.Same(t, newer, h.bySerial["CPU-1"])

	gone := &client{hub: h, id: "c", send: make(chan []byte, 1)}
	h.addDevice(gone)
	h.removeDevice(gone)
	assert.False(t, h.bindSerial(gone, "CPU-2", 3))
	assert.NotContains(t, h.bySerial, "CPU-2")

	h.removeDevice(newer)
	assert.Empty(t, h.bySerial)
}
