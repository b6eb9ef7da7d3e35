package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/JMURv/player-pairing/internal/auth"
	"github.com/JMURv/player-pairing/internal/config"
	"github.com/JMURv/player-pairing/internal/ctrl"
	mid "github.com/JMURv/player-pairing/internal/hdl/http/middleware"
	"github.com/JMURv/player-pairing/internal/hdl/http/utils"
	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Streams serves the websocket channels.
type Streams struct {
	Devices   http.Handler
	Observers http.Handler
}

type Handler struct {
	router  *chi.Mux
	au      auth.Core
	srv     *http.Server
	ctrl    ctrl.AppCtrl
	limiter mid.Limiter
	streams Streams
	conf    config.PairingConfig
}

func New(au auth.Core, ctrl ctrl.AppCtrl, limiter mid.Limiter, streams Streams, conf config.PairingConfig) *Handler {
	r := chi.NewRouter()
	return &Handler{
		router:  r,
		au:      au,
		ctrl:    ctrl,
		limiter: limiter,
		streams: streams,
		conf:    conf,
	}
}

// middlewares builds the common stack. Forwarded client addresses are honored
// only when trustProxy is set, otherwise rate limits key on the socket peer.
func (h *Handler) middlewares(trustProxy bool) []func(http.Handler) http.Handler {
	mws := []func(http.Handler) http.Handler{
		mid.Logger(zap.L()),
		middleware.StripSlashes,
		middleware.RequestID,
	}
	if trustProxy {
		mws = append(mws, middleware.RealIP)
	}
	return append(mws, middleware.Recoverer, mid.Prometheus, mid.OT)
}

func (h *Handler) Start(conf config.ServerConfig) {
	h.router.Use(h.middlewares(conf.TrustProxy)...)

	h.RegisterRoutes()
	h.router.Get(
		"/health", func(w http.ResponseWriter, r *http.Request) {
			utils.SuccessResponse(w, http.StatusOK, "OK")
		},
	)

	h.srv = &http.Server{
		Handler:      h.router,
		Addr:         fmt.Sprintf(":%v", conf.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info(
		"Starting HTTP server",
		zap.String("addr", h.srv.Addr),
	)

	err := h.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		zap.L().Error("Server error", zap.Error(err))
	}
}

func (h *Handler) Close(ctx context.Context) error {
	if h.srv == nil {
		return nil
	}
	return h.srv.Shutdown(ctx)
}
