package presence

import (
	"context"
	"time"

	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/notify"
	metrics "github.com/JMURv/player-pairing/internal/observability/metrics/prometheus"
	"go.uber.org/zap"
)

type writeKind int

const (
	writeOnline writeKind = iota
	writeTouch
	writeOffline
	writeBarrier
)

func (k writeKind) String() string {
	switch k {
	case writeOnline:
		return "online"
	case writeTouch:
		return "touch"
	case writeOffline:
		return "offline"
	default:
		return "barrier"
	}
}

type write struct {
	kind      writeKind
	cpuSerial string
	name      string
	at        time.Time
	reply     chan registerReply
	done      chan struct{}
}

type registerReply struct {
	device *md.Device
	err    error
}

// writer applies queued writes in order. Touches are coalesced per device
// within a batch and always land before the next status change of that
// device. It runs on its own goroutine.
type writer struct {
	r       *Registry
	pending map[string]time.Time
	order   []string
}

func (r *Registry) writeLoop(stop <-chan struct{}) {
	w := &writer{
		r:       r,
		pending: make(map[string]time.Time),
	}

	for {
		select {
		case first := <-r.writes:
			w.apply(r.collect(first))
		case <-stop:
			for {
				select {
				case first := <-r.writes:
					w.apply(r.collect(first))
				default:
					return
				}
			}
		}
	}
}

func (r *Registry) collect(first write) []write {
	batch := []write{first}
	for len(batch) < r.conf.WriteBatchSize {
		select {
		case w := <-r.writes:
			batch = append(batch, w)
		default:
			return batch
		}
	}
	return batch
}

func (w *writer) apply(batch []write) {
	ctx := context.Background()
	for _, op := range batch {
		switch op.kind {
		case writeTouch:
			if _, ok := w.pending[op.cpuSerial]; !ok {
				w.order = append(w.order, op.cpuSerial)
			}
			w.pending[op.cpuSerial] = op.at
		case writeOnline:
			w.flushDevice(ctx, op.cpuSerial)
			w.online(ctx, op)
		case writeOffline:
			w.flushDevice(ctx, op.cpuSerial)
			w.offline(ctx, op)
		case writeBarrier:
			w.flushAll(ctx)
			close(op.done)
		}
	}
	w.flushAll(ctx)
}

func (w *writer) online(ctx context.Context, op write) {
	d, err := w.r.store.UpsertOnline(ctx, op.cpuSerial, op.name, op.at)
	metrics.ObserveWrite(op.kind.String(), err)
	op.reply <- registerReply{device: d, err: err}
	if err != nil {
		zap.L().Error("failed to mark device online", zap.String("cpu_serial", op.cpuSerial), zap.Error(err))
		return
	}

	w.changed(ctx, d, op.at)
}

// offline publishes the row as stored, so the delta carries the account the
// device belongs to now.
func (w *writer) offline(ctx context.Context, op write) {
	d, err := w.r.store.SetStatus(ctx, op.cpuSerial, md.StatusOffline)
	metrics.ObserveWrite(op.kind.String(), err)
	if err != nil {
		zap.L().Error("failed to mark device offline", zap.String("cpu_serial", op.cpuSerial), zap.Error(err))
		return
	}

	w.changed(ctx, d, op.at)
}

func (w *writer) flushDevice(ctx context.Context, cpuSerial string) {
	at, ok := w.pending[cpuSerial]
	if !ok {
		return
	}
	delete(w.pending, cpuSerial)
	w.touch(ctx, cpuSerial, at)
}

func (w *writer) flushAll(ctx context.Context) {
	for _, serial := range w.order {
		if at, ok := w.pending[serial]; ok {
			delete(w.pending, serial)
			w.touch(ctx, serial, at)
		}
	}
	w.order = w.order[:0]
}

func (w *writer) touch(ctx context.Context, cpuSerial string, at time.Time) {
	err := w.r.store.TouchLastSeen(ctx, cpuSerial, at)
	metrics.ObserveWrite(writeTouch.String(), err)
	if err != nil {
		zap.L().Warn("failed to record heartbeat", zap.String("cpu_serial", cpuSerial), zap.Error(err))
	}
}

func (w *writer) changed(ctx context.Context, d *md.Device, at time.Time) {
	w.r.pub.Publish(ctx, notify.PresenceChanged(d, at))
	select {
	case w.r.trigger <- struct{}{}:
	default:
	}
}
