package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JMURv/player-pairing/internal/config"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/notify"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"
)

const (
	measurement    = "presence"
	connectTimeout = 10 * time.Second
)

var ErrConnectionFailed = errors.New("influxdb connection failed")

type pointWriter interface {
	WritePoint(point *write.Point)
}

// Recorder writes presence transitions as points for uptime analytics.
type Recorder struct {
	w     pointWriter
	close func()
}

func Connect(conf config.InfluxConfig) (*Recorder, error) {
	cli := influxdb2.NewClient(conf.URL, conf.Token)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	ok, err := cli.Ping(ctx)
	if err != nil {
		cli.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if !ok {
		cli.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	wAPI := cli.WriteAPI(conf.Org, conf.Bucket)
	go func() {
		for err := range wAPI.Errors() {
			zap.L().Warn("influxdb write failed", zap.Error(err))
		}
	}()

	r := New(wAPI)
	r.close = func() {
		wAPI.Flush()
		cli.Close()
	}
	return r, nil
}

func New(w pointWriter) *Recorder {
	return &Recorder{w: w}
}

func (r *Recorder) Publish(_ context.Context, e notify.Event) {
	p, ok := e.Payload.(notify.PresencePayload)
	if !ok || e.Type != notify.TypePresenceChanged {
		return
	}

	online := 0
	if p.Status == md.StatusOnline {
		online = 1
	}

	tags := map[string]string{
		"player_id":  p.PlayerID.String(),
		"cpu_serial": p.CPUSerial,
	}
	if e.AccountID != "" {
		tags["account_id"] = e.AccountID
	}

	r.w.WritePoint(
		write.NewPoint(
			measurement,
			tags,
			map[string]any{"online": online},
			e.At,
		),
	)
}

func (r *Recorder) Close() error {
	if r.close != nil {
		r.close()
	}
	return nil
}
