package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

func buildDeviceListQuery(ctx context.Context, filter md.DeviceFilter) (string, []any, error) {
	const op = "devices.buildDeviceListQuery.repo"

	span, _ := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	query := sq.Select(
		"id",
		"name",
		"cpu_serial",
		"device_uuid",
		"status",
		"last_seen",
		"COALESCE(config, '{}'::jsonb) AS config",
		"playlist_id",
		"created_at",
		"account_id",
		"paired_at",
		"pairing_code",
		"pairing_code_expires_at",
	).
		From("devices").
		OrderBy("created_at", "cpu_serial").
		PlaceholderFormat(sq.Dollar)

	if filter.AccountID != "" {
		query = query.Where(sq.Eq{"account_id": filter.AccountID})
	}

	if filter.Status != "" {
		query = query.Where(sq.Eq{"status": string(filter.Status)})
	}

	q, args, err := query.ToSql()
	if err != nil {
		span.SetTag("error", true)
		zap.L().Error("failed to build device list query", zap.String("op", op), zap.Error(err))
		return "", nil, err
	}

	return q, args, nil
}
