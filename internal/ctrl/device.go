package ctrl

import (
	"context"
	"errors"

	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/repo"
	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

func (c *Controller) ListDevices(ctx context.Context, filter md.DeviceFilter) ([]md.Device, error) {
	const op = "devices.ListDevices.ctrl"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := c.repo.ListDevices(ctx, filter)
	if err != nil {
		zap.L().Error("failed to list devices", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	return res, nil
}

func (c *Controller) GetDevice(ctx context.Context, id uuid.UUID) (*md.Device, error) {
	const op = "devices.GetDevice.ctrl"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := c.repo.GetDeviceByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		zap.L().Error("failed to get device", zap.String("op", op), zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	return res, nil
}
