package presence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JMURv/player-pairing/internal/config"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/notify"
	"github.com/JMURv/player-pairing/internal/repo/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Publish(_ context.Context, e notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) ofType(t notify.Type) []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []notify.Event
	for _, e := range r.events {
		if e.Type == t {
			res = append(res, e)
		}
	}
	return res
}

type env struct {
	reg   *Registry
	store *memory.Repository
	pub   *recorder
	clock *clock
}

func start(t *testing.T, store Store, conf config.PresenceConfig, opts ...func(*Registry)) *env {
	t.Helper()

	mem, _ := store.(*memory.Repository)
	if store == nil {
		mem = memory.New()
		store = mem
	}

	e := &env{store: mem, pub: &recorder{}, clock: &clock{t: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}}
	e.reg = New(store, e.pub, conf)
	e.reg.now = e.clock.Now
	for _, opt := range opts {
		opt(e.reg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		e.reg.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	return e
}

func (e *env) device(t *testing.T, serial string) md.Device {
	t.Helper()
	require.NoError(t, e.reg.Flush(context.Background()))

	list, err := e.store.ListDevices(context.Background(), md.DeviceFilter{})
	require.NoError(t, err)
	for _, d := range list {
		if d.CPUSerial == serial {
			return d
		}
	}
	t.Fatalf("device %s not found", serial)
	return md.Device{}
}

func TestRegistry_Register(t *testing.T) {
	ctx := context.Background()
	e := start(t, nil, config.PresenceConfig{})

	_, err := e.reg.Register(ctx, "c1", " ", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	res, err := e.reg.Register(ctx, "c1", "CPU-1", "")
	require.NoError(t, err)
	assert.Empty(t, res.Superseded)
	assert.Equal(t, md.StatusOnline, res.Device.Status)
	assert.Equal(t, config.DefaultPlayerName, res.Device.Name)

	res2, err := e.reg.Register(ctx, "c2", "CPU-1", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "c1", res2.Superseded)
	assert.Equal(t, res.Device.ID, res2.Device.ID)
	assert.Greater(t, res2.Seq, res.Seq)

	list, err := e.store.ListDevices(ctx, md.DeviceFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := e.reg.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	conn, ok, err := e.reg.Connection(ctx, "CPU-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c2", conn)

	require.NoError(t, e.reg.Disconnect(ctx, "c1"))
	assert.Equal(t, md.StatusOnline, e.device(t, "CPU-1").Status, "superseded disconnect is a no-op")

	require.NoError(t, e.reg.Disconnect(ctx, "c2"))
	assert.Equal(t, md.StatusOffline, e.device(t, "CPU-1").Status)
}

func TestRegistry_UnknownConnection(t *testing.T) {
	ctx := context.Background()
	e := start(t, nil, config.PresenceConfig{})

	assert.NoError(t, e.reg.Heartbeat(ctx, "nope"))
	assert.NoError(t, e.reg.Disconnect(ctx, "nope"))
	require.NoError(t, e.reg.Flush(ctx))

	list, err := e.store.ListDevices(ctx, md.DeviceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, e.pub.ofType(notify.TypePresenceChanged))
}

// Scenario C: last_seen keeps the last heartbeat after disconnect.
func TestRegistry_HeartbeatThenDisconnect(t *testing.T) {
	ctx := context.Background()
	e := start(t, nil, config.PresenceConfig{})
	t0 := e.clock.Now()

	_, err := e.reg.Register(ctx, "y", "CPU-1", "")
	require.NoError(t, err)

	e.clock.Set(t0.Add(10 * time.Second))
	require.NoError(t, e.reg.Heartbeat(ctx, "y"))
	e.clock.Set(t0.Add(20 * time.Second))
	require.NoError(t, e.reg.Heartbeat(ctx, "y"))

	e.clock.Set(t0.Add(25 * time.Second))
	require.NoError(t, e.reg.Disconnect(ctx, "y"))

	d := e.device(t, "CPU-1")
	assert.Equal(t, md.StatusOffline, d.Status)
	require.NotNil(t, d.LastSeen)
	assert.True(t, t0.Add(20*time.Second).Equal(*d.LastSeen), "got %v", d.LastSeen)

	changes := e.pub.ofType(notify.TypePresenceChanged)
	require.Len(t, changes, 2)
	assert.Equal(t, md.StatusOnline, changes[0].Payload.(notify.PresencePayload).Status)
	assert.Equal(t, md.StatusOffline, changes[1].Payload.(notify.PresencePayload).Status)

	assert.Eventually(t, func() bool {
		return len(e.pub.ofType(notify.TypePlayersUpdate)) > 0
	}, time.Second, 5*time.Millisecond)
}

func TestRegistry_RebindConnection(t *testing.T) {
	ctx := context.Background()
	e := start(t, nil, config.PresenceConfig{})

	_, err := e.reg.Register(ctx, "c1", "CPU-1", "")
	require.NoError(t, err)
	_, err = e.reg.Register(ctx, "c1", "CPU-2", "")
	require.NoError(t, err)

	assert.Equal(t, md.StatusOffline, e.device(t, "CPU-1").Status)
	assert.Equal(t, md.StatusOnline, e.device(t, "CPU-2").Status)

	_, ok, err := e.reg.Connection(ctx, "CPU-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistry_ReconnectRace(t *testing.T) {
	ctx := context.Background()
	e := start(t, nil, config.PresenceConfig{})

	_, err := e.reg.Register(ctx, "old", "CPU-1", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = e.reg.Register(ctx, "new", "CPU-1", "")
	}()
	go func() {
		defer wg.Done()
		_ = e.reg.Disconnect(ctx, "old")
	}()
	wg.Wait()

	assert.Equal(t, md.StatusOnline, e.device(t, "CPU-1").Status)
}

func TestRegistry_ResetOnStart(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	_, err := mem.UpsertOnline(ctx, "CPU-1", "", time.Now())
	require.NoError(t, err)

	e := start(t, mem, config.PresenceConfig{ResetOnStart: true})
	assert.Equal(t, md.StatusOffline, e.device(t, "CPU-1").Status)
}

func TestRegistry_LivenessSweep(t *testing.T) {
	ctx := context.Background()
	evicted := make(chan string, 1)
	e := start(t, nil, config.PresenceConfig{
		LivenessTimeout: time.Minute,
		SweepInterval:   5 * time.Millisecond,
	}, func(r *Registry) {
		r.OnEvict(func(connID string) { evicted <- connID })
	})

	_, err := e.reg.Register(ctx, "c1", "CPU-1", "")
	require.NoError(t, err)

	e.clock.Set(e.clock.Now().Add(2 * time.Minute))

	select {
	case id := <-evicted:
		assert.Equal(t, "c1", id)
	case <-time.After(time.Second):
		t.Fatal("session was not evicted")
	}
	assert.Equal(t, md.StatusOffline, e.device(t, "CPU-1").Status)
}

type failingStore struct {
	*memory.Repository
}

func (failingStore) UpsertOnline(context.Context, string, string, time.Time) (*md.Device, error) {
	return nil, errors.New("database error")
}

func TestRegistry_WriteFailure(t *testing.T) {
	ctx := context.Background()
	e := start(t, failingStore{memory.New()}, config.PresenceConfig{})

	_, err := e.reg.Register(ctx, "c1", "CPU-1", "")
	assert.Error(t, err)
	assert.NoError(t, e.reg.Disconnect(ctx, "c1"))
	assert.NoError(t, e.reg.Flush(ctx))
}

func TestRegistry_Closed(t *testing.T) {
	reg := New(memory.New(), nil, config.PresenceConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	_, err := reg.Register(context.Background(), "c1", "CPU-1", "")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, reg.Flush(context.Background()), ErrClosed)
}

func TestRegistry_OfflineCarriesCurrentAccount(t *testing.T) {
	ctx := context.Background()
	e := start(t, nil, config.PresenceConfig{})

	res, err := e.reg.Register(ctx, "c1", "CPU-1", "")
	require.NoError(t, err)
	require.NoError(t, e.reg.Flush(ctx))

	events := e.pub.ofType(notify.TypePresenceChanged)
	require.Len(t, events, 1)
	assert.Empty(t, events[0].AccountID)

	now := time.Now()
	require.NoError(t, e.store.RenewCode(ctx, res.Device.ID, "uuid-1", "AB3456", now.Add(time.Hour)))
	_, err = e.store.ClaimDevice(ctx, res.Device.ID, "AB3456", "O", nil, now)
	require.NoError(t, err)

	require.NoError(t, e.reg.Disconnect(ctx, "c1"))
	require.NoError(t, e.reg.Flush(ctx))

	events = e.pub.ofType(notify.TypePresenceChanged)
	require.Len(t, events, 2)
	assert.Equal(t, "O", events[1].AccountID)
	assert.Equal(t, md.StatusOffline, events[1].Payload.(notify.PresencePayload).Status)
}
