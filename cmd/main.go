package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JMURv/player-pairing/internal/auth/jwt"
	"github.com/JMURv/player-pairing/internal/cache/redis"
	"github.com/JMURv/player-pairing/internal/config"
	"github.com/JMURv/player-pairing/internal/ctrl"
	hdl "github.com/JMURv/player-pairing/internal/hdl/http"
	"github.com/JMURv/player-pairing/internal/hdl/ws"
	"github.com/JMURv/player-pairing/internal/notify"
	"github.com/JMURv/player-pairing/internal/notify/influx"
	"github.com/JMURv/player-pairing/internal/notify/mqtt"
	"github.com/JMURv/player-pairing/internal/observability/metrics/prometheus"
	"github.com/JMURv/player-pairing/internal/observability/tracing/jaeger"
	"github.com/JMURv/player-pairing/internal/presence"
	"github.com/JMURv/player-pairing/internal/repo/db"
	"github.com/JMURv/player-pairing/internal/repo/memory"
	"go.uber.org/zap"
)

const configPath = ".env"

type store interface {
	ctrl.AppRepo
	presence.Store
	Close(ctx context.Context) error
}

func mustRegisterLogger(mode string) {
	switch mode {
	case "prod":
		zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
	case "dev":
		zap.ReplaceGlobals(zap.Must(zap.NewDevelopment()))
	}
}

func mustOpenStore(conf config.Config) store {
	switch conf.Storage {
	case "memory":
		zap.L().Warn("Using in-memory device store, state is lost on restart")
		return memory.New()
	case "postgres":
		return db.New(conf.DB)
	default:
		zap.L().Fatal("Unknown storage", zap.String("storage", conf.Storage))
		return nil
	}
}

//	@title						Player Pairing API
//	@version					1.0
//	@description				Pairing and presence of playback devices.
//	@BasePath					/
//	@securityDefinitions.apikey	Bearer
//	@in							header
//	@name						Authorization
func main() {
	defer func() {
		if err := recover(); err != nil {
			zap.L().Panic("panic occurred", zap.Any("error", err))
			os.Exit(1)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := config.MustLoad(configPath)
	mustRegisterLogger(conf.Server.Mode)

	go prometheus.New(conf.Server.Port + 5).Start(ctx)
	go jaeger.Start(ctx, conf.ServiceName, conf.Jaeger)

	cache := redis.New(conf.Redis)
	repo := mustOpenStore(conf)
	au := jwt.New(conf.Auth.JWT)

	hub := ws.NewHub(au, conf.Presence)
	pub := notify.Multi{hub}

	var mq *mqtt.Publisher
	if conf.MQTT.Enabled {
		var err error
		if mq, err = mqtt.Connect(conf.MQTT); err != nil {
			zap.L().Error("MQTT is unavailable, events will not be bridged", zap.Error(err))
		} else {
			pub = append(pub, mq)
		}
	}

	var tsdb *influx.Recorder
	if conf.Influx.Enabled {
		var err error
		if tsdb, err = influx.Connect(conf.Influx); err != nil {
			zap.L().Error("InfluxDB is unavailable, presence history will not be recorded", zap.Error(err))
		} else {
			pub = append(pub, tsdb)
		}
	}

	reg := presence.New(repo, pub, conf.Presence)
	reg.OnEvict(hub.CloseConn)

	regDone := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(regDone)
	}()
	go hub.Run(ctx)

	svc := ctrl.New(repo, cache, pub, conf.Pairing)
	h := hdl.New(
		au, svc, cache, hdl.Streams{
			Devices:   ws.NewDevices(hub, reg),
			Observers: http.HandlerFunc(hub.ServeObservers),
		}, conf.Pairing,
	)

	zap.L().Info(
		fmt.Sprintf(
			"Starting server on %v://%v:%v",
			conf.Server.Scheme,
			conf.Server.Domain,
			conf.Server.Port,
		),
	)
	go h.Start(conf.Server)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-c

	zap.L().Info("Shutting down gracefully...")
	shutdown, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := h.Close(shutdown); err != nil {
		zap.L().Warn("Error closing handler", zap.Error(err))
	}

	cancel()
	select {
	case <-regDone:
	case <-shutdown.Done():
		zap.L().Warn("Presence registry did not stop in time")
	}

	if mq != nil {
		if err := mq.Close(); err != nil {
			zap.L().Warn("Error closing MQTT client", zap.Error(err))
		}
	}

	if tsdb != nil {
		if err := tsdb.Close(); err != nil {
			zap.L().Warn("Error closing InfluxDB client", zap.Error(err))
		}
	}

	if err := cache.Close(); err != nil {
		zap.L().Warn("Failed to close connection to Redis: ", zap.Error(err))
	}

	if err := repo.Close(shutdown); err != nil {
		zap.L().Warn("Error closing repository", zap.Error(err))
	}

	os.Exit(0)
}
