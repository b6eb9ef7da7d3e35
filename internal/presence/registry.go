package presence

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/JMURv/player-pairing/internal/config"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/notify"
	metrics "github.com/JMURv/player-pairing/internal/observability/metrics/prometheus"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

var (
	ErrInvalidArgument = errors.New("connection id and cpu_serial are required")
	ErrClosed          = errors.New("presence registry is closed")
)

type Store interface {
	UpsertOnline(ctx context.Context, cpuSerial, name string, at time.Time) (*md.Device, error)
	TouchLastSeen(ctx context.Context, cpuSerial string, at time.Time) error
	SetStatus(ctx context.Context, cpuSerial string, status md.Status) (*md.Device, error)
	MarkAllOffline(ctx context.Context) error
	ListDevices(ctx context.Context, filter md.DeviceFilter) ([]md.Device, error)
}

type RegisterResult struct {
	Device *md.Device
	// Superseded is the connection that held this device before, if any.
	Superseded string
	// Seq orders registrations. A later registration has a greater Seq.
	Seq uint64
}

type session struct {
	cpuSerial string
	lastSeen  time.Time
}

// Registry tracks live device connections. All session state is owned by
// the goroutine running Run; public methods submit closures to it. Store
// writes are queued from that goroutine, so they reach the store in the
// same order the sessions changed.
type Registry struct {
	store Store
	pub   notify.Publisher
	conf  config.PresenceConfig
	now   func() time.Time

	ops     chan func()
	writes  chan write
	trigger chan struct{}
	done    chan struct{}
	once    sync.Once

	onEvict func(connID string)

	byConn   map[string]*session
	byDevice map[string]string
	seq      uint64
}

func New(store Store, pub notify.Publisher, conf config.PresenceConfig) *Registry {
	if pub == nil {
		pub = notify.Nop{}
	}
	if conf.WriteQueueSize <= 0 {
		conf.WriteQueueSize = 1024
	}
	if conf.WriteBatchSize <= 0 {
		conf.WriteBatchSize = 128
	}
	if conf.SweepInterval <= 0 {
		conf.SweepInterval = 30 * time.Second
	}

	return &Registry{
		store:    store,
		pub:      pub,
		conf:     conf,
		now:      time.Now,
		ops:      make(chan func()),
		writes:   make(chan write, conf.WriteQueueSize),
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		byConn:   make(map[string]*session),
		byDevice: make(map[string]string),
	}
}

// OnEvict sets the callback for connections dropped by the liveness sweep.
// It runs on the registry goroutine and must not block or call back into
// the registry. Set it before Run.
func (r *Registry) OnEvict(fn func(connID string)) {
	r.onEvict = fn
}

// Run serves registry operations until ctx is done. Pending writes are
// applied before it returns.
func (r *Registry) Run(ctx context.Context) {
	if r.conf.ResetOnStart {
		if err := r.store.MarkAllOffline(ctx); err != nil {
			zap.L().Error("failed to reset presence on start", zap.Error(err))
		}
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.writeLoop(stop)
	}()
	go func() {
		defer wg.Done()
		r.snapshotLoop(stop)
	}()

	var sweep <-chan time.Time
	if r.conf.LivenessTimeout > 0 {
		t := time.NewTicker(r.conf.SweepInterval)
		defer t.Stop()
		sweep = t.C
	}

	defer func() {
		r.once.Do(func() { close(r.done) })
		close(stop)
		wg.Wait()
		zap.L().Info("Presence registry has been stopped")
	}()

	zap.L().Info(
		"Presence registry has been started",
		zap.Bool("reset_on_start", r.conf.ResetOnStart),
		zap.Duration("liveness_timeout", r.conf.LivenessTimeout),
	)
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-r.ops:
			op()
		case <-sweep:
			r.sweep()
		}
	}
}

func (r *Registry) do(ctx context.Context, op func()) error {
	done := make(chan struct{})
	wrapped := func() {
		op()
		close(done)
	}

	select {
	case r.ops <- wrapped:
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	<-done
	return nil
}

// Register binds connID to the device and marks it online. A previous
// connection of the same device is superseded; a device previously bound to
// connID is released and marked offline.
func (r *Registry) Register(ctx context.Context, connID, cpuSerial, name string) (RegisterResult, error) {
	const op = "presence.Register.registry"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	cpuSerial = strings.TrimSpace(cpuSerial)
	if connID == "" || cpuSerial == "" {
		return RegisterResult{}, ErrInvalidArgument
	}

	res := RegisterResult{}
	reply := make(chan registerReply, 1)
	err := r.do(
		ctx, func() {
			now := r.now()
			if s, ok := r.byConn[connID]; ok && s.cpuSerial != cpuSerial {
				r.release(connID, s, now)
			}

			if prev, ok := r.byDevice[cpuSerial]; ok && prev != connID {
				delete(r.byConn, prev)
				res.Superseded = prev
			}

			r.byConn[connID] = &session{cpuSerial: cpuSerial, lastSeen: now}
			r.byDevice[cpuSerial] = connID
			r.seq++
			res.Seq = r.seq
			metrics.SetSessions(len(r.byConn))

			r.enqueue(write{kind: writeOnline, cpuSerial: cpuSerial, name: strings.TrimSpace(name), at: now, reply: reply})
		},
	)
	if err != nil {
		return res, err
	}

	select {
	case rep := <-reply:
		if rep.err != nil {
			return res, rep.err
		}
		res.Device = rep.device
		return res, nil
	case <-ctx.Done():
		return res, ctx.Err()
	}
}

// Heartbeat refreshes last_seen for the device bound to connID. Unknown
// connections are ignored.
func (r *Registry) Heartbeat(ctx context.Context, connID string) error {
	return r.do(
		ctx, func() {
			s, ok := r.byConn[connID]
			if !ok {
				return
			}

			s.lastSeen = r.now()
			r.enqueue(write{kind: writeTouch, cpuSerial: s.cpuSerial, at: s.lastSeen})
		},
	)
}

// Disconnect marks the device bound to connID offline. Unknown or
// superseded connections are ignored.
func (r *Registry) Disconnect(ctx context.Context, connID string) error {
	return r.do(
		ctx, func() {
			s, ok := r.byConn[connID]
			if !ok {
				return
			}
			r.release(connID, s, r.now())
		},
	)
}

// Flush returns once every write queued before the call has been applied.
func (r *Registry) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if err := r.do(ctx, func() { r.enqueue(write{kind: writeBarrier, done: done}) }); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) Sessions(ctx context.Context) (int, error) {
	n := 0
	err := r.do(ctx, func() { n = len(r.byConn) })
	return n, err
}

// Connection returns the live connection bound to cpuSerial.
func (r *Registry) Connection(ctx context.Context, cpuSerial string) (string, bool, error) {
	var (
		id string
		ok bool
	)
	err := r.do(ctx, func() { id, ok = r.byDevice[cpuSerial] })
	return id, ok, err
}

func (r *Registry) release(connID string, s *session, at time.Time) {
	delete(r.byConn, connID)
	if r.byDevice[s.cpuSerial] == connID {
		delete(r.byDevice, s.cpuSerial)
	}
	metrics.SetSessions(len(r.byConn))

	r.enqueue(write{kind: writeOffline, cpuSerial: s.cpuSerial, at: at})
}

func (r *Registry) enqueue(w write) {
	r.writes <- w
}
