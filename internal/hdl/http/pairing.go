package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/JMURv/player-pairing/internal/auth"
	"github.com/JMURv/player-pairing/internal/ctrl"
	"github.com/JMURv/player-pairing/internal/dto"
	"github.com/JMURv/player-pairing/internal/hdl"
	"github.com/JMURv/player-pairing/internal/hdl/http/utils"
	metrics "github.com/JMURv/player-pairing/internal/observability/metrics/prometheus"
	"github.com/go-chi/chi/v5"
	ot "github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// generateCode godoc
//
//	@Summary		Issue or renew a pairing code
//	@Description	Called by an unpaired device on boot. Returns the active code and QR payload.
//	@Tags			Pairing
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.GenerateRequest	true	"Device identity"
//	@Success		200		{object}	dto.GenerateResponse
//	@Failure		400		{object}	utils.ErrorResponse			"missing fields"
//	@Failure		409		{object}	dto.AlreadyPairedResponse	"device already paired"
//	@Failure		429		{object}	utils.ErrorResponse			"too many requests"
//	@Failure		500		{object}	utils.ErrorResponse			"internal error"
//	@Router			/pairing/generate [post]
func (h *Handler) generateCode(w http.ResponseWriter, r *http.Request) {
	const op = "pairing.generateCode.hdl"
	s, c := time.Now(), http.StatusOK
	span, ctx := ot.StartSpanFromContext(r.Context(), op)
	defer func() {
		span.Finish()
		metrics.ObserveRequest(time.Since(s), c, op)
	}()

	req := &dto.GenerateRequest{}
	if ok := utils.ParseAndValidate(w, r, req); !ok {
		c = http.StatusBadRequest
		return
	}

	res, err := h.ctrl.IssueOrRenewCode(ctx, req.CPUSerial, req.DeviceUUID)
	if err != nil {
		var paired *ctrl.AlreadyPairedError
		switch {
		case errors.As(err, &paired):
			c = http.StatusConflict
			utils.RawResponse(
				w, c, &dto.AlreadyPairedResponse{
					Error:     "Player already paired",
					Paired:    true,
					AccountID: paired.AccountID,
				},
			)
		case errors.Is(err, ctrl.ErrInvalidArgument):
			c = http.StatusBadRequest
			utils.ErrResponse(w, c, err)
		case errors.Is(err, ctrl.ErrAlreadyExists):
			c = http.StatusConflict
			utils.ErrResponse(w, c, err)
		default:
			c = http.StatusInternalServerError
			zap.L().Error("failed to issue pairing code", zap.String("op", op), zap.Error(err))
			utils.ErrResponse(w, c, hdl.ErrInternal)
		}
		return
	}

	utils.RawResponse(w, c, res)
}

// verifyCode godoc
//
//	@Summary		Claim a device with its pairing code
//	@Description	account_id defaults to the caller's organization.
//	@Tags			Pairing
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.VerifyRequest	true	"Pairing code"
//	@Success		200		{object}	dto.VerifyResponse
//	@Failure		400		{object}	utils.ErrorResponse	"missing fields"
//	@Failure		401		{object}	utils.ErrorResponse	"unauthorized"
//	@Failure		403		{object}	utils.ErrorResponse	"forbidden"
//	@Failure		404		{object}	utils.ErrorResponse	"invalid pairing code"
//	@Failure		409		{object}	utils.ErrorResponse	"already claimed"
//	@Failure		410		{object}	utils.ErrorResponse	"pairing code expired"
//	@Failure		500		{object}	utils.ErrorResponse	"internal error"
//	@Security		Bearer
//	@Router			/pairing/verify [post]
func (h *Handler) verifyCode(w http.ResponseWriter, r *http.Request) {
	const op = "pairing.verifyCode.hdl"
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

	req := &dto.VerifyRequest{}
	if ok = utils.ParseAndValidate(w, r, req); !ok {
		c = http.StatusBadRequest
		return
	}

	account := strings.TrimSpace(req.AccountID)
	if account == "" {
		account = id.EffectiveOrgID
	}
	if !id.CanActFor(account) {
		c = http.StatusForbidden
		zap.L().Debug(
			"claim for foreign account rejected",
			zap.String("op", op),
			zap.String("user", id.UserID),
			zap.String("account", account),
		)
		utils.ErrResponse(w, c, hdl.ErrForbidden)
		return
	}

	res, err := h.ctrl.VerifyAndClaim(ctx, req.PairingCode, account, req.DeviceName)
	if err != nil {
		switch {
		case errors.Is(err, ctrl.ErrInvalidArgument):
			c = http.StatusBadRequest
		case errors.Is(err, ctrl.ErrNotFound):
			c = http.StatusNotFound
		case errors.Is(err, ctrl.ErrAlreadyClaimed):
			c = http.StatusConflict
		case errors.Is(err, ctrl.ErrCodeExpired):
			c = http.StatusGone
		default:
			c = http.StatusInternalServerError
			zap.L().Error("failed to verify pairing code", zap.String("op", op), zap.Error(err))
			utils.ErrResponse(w, c, hdl.ErrInternal)
			return
		}

		utils.ErrResponse(w, c, err)
		return
	}

	utils.RawResponse(w, c, &dto.VerifyResponse{Success: true, Player: res})
}

// pairingStatus godoc
//
//	@Summary	Pairing status of a device
//	@Tags		Pairing
//	@Produce	json
//	@Param		device_uuid	path		string	true	"Device UUID"
//	@Success	200			{object}	dto.StatusResponse
//	@Failure	400			{object}	utils.ErrorResponse	"missing device uuid"
//	@Failure	404			{object}	utils.ErrorResponse	"player not found"
//	@Failure	429			{object}	utils.ErrorResponse	"too many requests"
//	@Failure	500			{object}	utils.ErrorResponse	"internal error"
//	@Router		/pairing/status/{device_uuid} [get]
func (h *Handler) pairingStatus(w http.ResponseWriter, r *http.Request) {
	const op = "pairing.pairingStatus.hdl"
	s, c := time.Now(), http.StatusOK
	span, ctx := ot.StartSpanFromContext(r.Context(), op)
	defer func() {
		span.Finish()
		metrics.ObserveRequest(time.Since(s), c, op)
	}()

	deviceUUID := chi.URLParam(r, "device_uuid")
	if strings.TrimSpace(deviceUUID) == "" {
		c = http.StatusBadRequest
		utils.ErrResponse(w, c, hdl.ErrToRetrievePathArg)
		return
	}

	res, err := h.ctrl.QueryStatus(ctx, deviceUUID)
	if err != nil {
		switch {
		case errors.Is(err, ctrl.ErrInvalidArgument):
			c = http.StatusBadRequest
			utils.ErrResponse(w, c, err)
		case errors.Is(err, ctrl.ErrNotFound):
			c = http.StatusNotFound
			utils.ErrResponse(w, c, err)
		default:
			c = http.StatusInternalServerError
			zap.L().Error("failed to query pairing status", zap.String("op", op), zap.Error(err))
			utils.ErrResponse(w, c, hdl.ErrInternal)
		}
		return
	}

	utils.RawResponse(w, c, res)
}
