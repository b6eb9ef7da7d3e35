package http

import (
	_ "github.com/JMURv/player-pairing/api/rest/v1"
	"github.com/JMURv/player-pairing/internal/hdl/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func (h *Handler) RegisterRoutes() {
	limit := middleware.RateLimit(h.limiter, "pairing", h.conf.RateLimit, h.conf.RateWindow)

	h.router.With(limit).Post("/pairing/generate", h.generateCode)
	h.router.With(limit).Get("/pairing/status/{device_uuid}", h.pairingStatus)
	h.router.With(middleware.Auth(h.au)).Post("/pairing/verify", h.verifyCode)

	h.router.With(middleware.Auth(h.au)).Get("/players", h.listPlayers)
	h.router.With(middleware.Auth(h.au)).Get("/players/{id}", h.getPlayer)

	if h.streams.Devices != nil {
		h.router.Handle("/ws/players", h.streams.Devices)
	}
	if h.streams.Observers != nil {
		h.router.Handle("/ws/observers", h.streams.Observers)
	}

	h.router.Get("/swagger/*", httpSwagger.WrapHandler)
}
