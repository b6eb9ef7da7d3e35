package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/JMURv/player-pairing/internal/auth"
	"github.com/JMURv/player-pairing/internal/ctrl"
	"github.com/JMURv/player-pairing/internal/hdl"
	"github.com/JMURv/player-pairing/internal/hdl/http/utils"
	md "github.com/JMURv/player-pairing/internal/models"
	metrics "github.com/JMURv/player-pairing/internal/observability/metrics/prometheus"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	ot "github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// listPlayers godoc
//
//	@Summary		List players
//	@Description	Devices of the caller's organization. Super admins see every device.
//	@Tags			Player
//	@Produce		json
//	@Param			status	query		string	false	"online or offline"
//	@Success		200		{array}		models.Device
//	@Failure		400		{object}	utils.ErrorResponse	"invalid status"
//	@Failure		401		{object}	utils.ErrorResponse	"unauthorized"
//	@Failure		500		{object}	utils.ErrorResponse	"internal error"
//	@Security		Bearer
//	@Router			/players [get]
func (h *Handler) listPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "player.listPlayers.hdl"
	s, c := time.Now(), http.StatusOK
	span, ctx := ot.StartSpanFromContext(r.Context(), op)
	defer func() {
		span.Finish()
		metrics.ObserveRequest(time.Since(s), c, op)
	}()

	id, ok := auth.FromContext(ctx)
	if !ok {
		c = http.StatusUnauthorized
		utils.ErrResponse(w, c, hdl.ErrUnauthorized)
		return
	}

	filter := md.DeviceFilter{AccountID: id.Scope()}
	switch st := md.Status(r.URL.Query().Get("status")); st {
	case "", md.StatusOnline, md.StatusOffline:
		filter.Status = st
	default:
		c = http.StatusBadRequest
		utils.ErrResponse(w, c, hdl.ErrInvalidStatus)
		return
	}

	res, err := h.ctrl.ListDevices(ctx, filter)
	if err != nil {
		c = http.StatusInternalServerError
		zap.L().Error("failed to list players", zap.String("op", op), zap.Error(err))
		utils.ErrResponse(w, c, hdl.ErrInternal)
		return
	}

	utils.SuccessResponse(w, c, res)
}

// getPlayer godoc
//
//	@Summary	Get player by ID
//	@Tags		Player
//	@Produce	json
//	@Param		id	path		string	true	"Player UUID"
//	@Success	200	{object}	models.Device
//	@Failure	400	{object}	utils.ErrorResponse	"invalid UUID"
//	@Failure	401	{object}	utils.ErrorResponse	"unauthorized"
//	@Failure	404	{object}	utils.ErrorResponse	"player not found"
//	@Failure	500	{object}	utils.ErrorResponse	"internal error"
//	@Security	Bearer
//	@Router		/players/{id} [get]
func (h *Handler) getPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "player.getPlayer.hdl"
	s, c := time.Now(), http.StatusOK
	span, ctx := ot.StartSpanFromContext(r.Context(), op)
	defer func() {
		span.Finish()
		metrics.ObserveRequest(time.Since(s), c, op)
	}()

	id, ok := auth.FromContext(ctx)
	if !ok {
		c = http.StatusUnauthorized
		utils.ErrResponse(w, c, hdl.ErrUnauthorized)
		return
	}

	uid, err := uuid.Parse(chi.URLParam(r, "id"))
	if uid == uuid.Nil || err != nil {
		c = http.StatusBadRequest
		zap.L().Debug(hdl.ErrFailedToParseUUID.Error(), zap.String("op", op), zap.String("id", chi.URLParam(r, "id")))
		utils.ErrResponse(w, c, hdl.ErrFailedToParseUUID)
		return
	}

	res, err := h.ctrl.GetDevice(ctx, uid)
	if err != nil {
		if errors.Is(err, ctrl.ErrNotFound) {
			c = http.StatusNotFound
			utils.ErrResponse(w, c, err)
			return
		}

		c = http.StatusInternalServerError
		zap.L().Error("failed to get player", zap.String("op", op), zap.Error(err))
		utils.ErrResponse(w, c, hdl.ErrInternal)
		return
	}

	// Devices of other organizations are reported as missing.
	owner := ""
	if res.AccountID != nil {
		owner = *res.AccountID
	}
	if !id.Sees(owner) {
		c = http.StatusNotFound
		utils.ErrResponse(w, c, ctrl.ErrNotFound)
		return
	}

	utils.SuccessResponse(w, c, res)
}
