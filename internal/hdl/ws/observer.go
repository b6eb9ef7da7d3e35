package ws

import (
	"errors"
	"net/http"

	"github.com/JMURv/player-pairing/internal/auth"
	"github.com/JMURv/player-pairing/internal/hdl/http/utils"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServeObservers authenticates the caller and streams events visible to
// their organization.
//
//	@Summary	Observer event stream
//	@Tags		Presence
//	@Param		token	query	string	false	"Access token"
//	@Success	101
//	@Failure	401	{object}	utils.ErrorResponse
//	@Router		/ws/observers [get]
func (h *Hub) ServeObservers(w http.ResponseWriter, r *http.Request) {
	id, err := h.au.Authorize(r.Context(), auth.TokenFromRequest(r))
	if err != nil {
		if errors.Is(err, auth.ErrMissingToken) || errors.Is(err, auth.ErrInvalidToken) {
			utils.ErrResponse(w, http.StatusUnauthorized, err)
			return
		}

		zap.L().Error("failed to authorize observer", zap.Error(err))
		utils.ErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newClient(h, conn, uuid.NewString())
	c.identity = id
	h.addObserver(c)
	zap.L().Debug(
		"observer connected",
		zap.String("conn", c.id),
		zap.String("user", id.UserID),
		zap.String("scope", id.Scope()),
	)

	go c.writePump()
	go c.readPump(observe, func() { h.removeObserver(c) })
}

func observe(c *client, data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err == nil && msg.Type == TypePing {
		c.sendMessage(msg.ID, TypePong, nil)
		return
	}
	c.sendError(msg.ID, "observer channel is read-only")
}
