package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/JMURv/player-pairing/internal/config"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/repo"
	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

func (r *Repository) FindByIdentity(ctx context.Context, cpuSerial, deviceUUID string) (*md.Device, error) {
	const op = "devices.FindByIdentity.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	return r.getOne(ctx, op, findDeviceByIdentity, cpuSerial, deviceUUID)
}

func (r *Repository) GetDeviceByID(ctx context.Context, id uuid.UUID) (*md.Device, error) {
	const op = "devices.GetDeviceByID.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	return r.getOne(ctx, op, getDeviceByID, id)
}

func (r *Repository) GetDeviceByCode(ctx context.Context, code string) (*md.Device, error) {
	const op = "devices.GetDeviceByCode.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	return r.getOne(ctx, op, getDeviceByCode, code)
}

func (r *Repository) GetDeviceByUUID(ctx context.Context, deviceUUID string) (*md.Device, error) {
	const op = "devices.GetDeviceByUUID.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	return r.getOne(ctx, op, getDeviceByUUID, deviceUUID)
}

func (r *Repository) CreateDevice(ctx context.Context, d *md.Device) error {
	const op = "devices.CreateDevice.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if _, err := d.PairingState(); err != nil {
		return err
	}

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = md.StatusOffline
	}

	err := r.conn.QueryRowxContext(
		ctx,
		createDevice,
		d.ID,
		d.Name,
		d.CPUSerial,
		d.DeviceUUID,
		d.Status,
		d.PairingCode,
		d.PairingCodeExpiresAt,
	).Scan(&d.CreatedAt)
	if err != nil {
		span.SetTag("error", true)
		return mapWriteErr(err)
	}

	return nil
}

func (r *Repository) RenewCode(
	ctx context.Context,
	id uuid.UUID,
	deviceUUID, code string,
	expiresAt time.Time,
) error {
	const op = "devices.RenewCode.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := r.conn.ExecContext(ctx, renewCode, code, expiresAt, deviceUUID, id)
	if err != nil {
		span.SetTag("error", true)
		return mapWriteErr(err)
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if aff == 0 {
		return repo.ErrConflict
	}

	return nil
}

// ClaimDevice pairs the device in a single conditional update. The row is
// changed only while it still holds code, is unclaimed and the code is
// not expired at now.
func (r *Repository) ClaimDevice(
	ctx context.Context,
	id uuid.UUID,
	code, accountID string,
	name *string,
	now time.Time,
) (*md.Device, error) {
	const op = "devices.ClaimDevice.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res := &md.Device{}
	err := r.conn.QueryRowxContext(ctx, claimDevice, accountID, now, name, id, code).StructScan(res)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrConflict
		}
		span.SetTag("error", true)
		return nil, err
	}

	return res, nil
}

func (r *Repository) ListDevices(ctx context.Context, filter md.DeviceFilter) ([]md.Device, error) {
	const op = "devices.ListDevices.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	q, args, err := buildDeviceListQuery(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]md.Device, 0)
	if err = r.conn.SelectContext(ctx, &res, q, args...); err != nil {
		span.SetTag("error", true)
		zap.L().Error("failed to list devices", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	return res, nil
}

func (r *Repository) UpsertOnline(ctx context.Context, cpuSerial, name string, at time.Time) (*md.Device, error) {
	const op = "devices.UpsertOnline.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if name == "" {
		name = config.DefaultPlayerName
	}

	res := &md.Device{}
	err := r.conn.QueryRowxContext(ctx, upsertOnline, uuid.New(), name, cpuSerial, at).StructScan(res)
	if err != nil {
		span.SetTag("error", true)
		return nil, mapWriteErr(err)
	}

	return res, nil
}

func (r *Repository) TouchLastSeen(ctx context.Context, cpuSerial string, at time.Time) error {
	const op = "devices.TouchLastSeen.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	return r.execOne(ctx, touchLastSeen, at, cpuSerial)
}

func (r *Repository) SetStatus(ctx context.Context, cpuSerial string, status md.Status) (*md.Device, error) {
	const op = "devices.SetStatus.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res := &md.Device{}
	err := r.conn.QueryRowxContext(ctx, setStatus, status, cpuSerial).StructScan(res)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		span.SetTag("error", true)
		return nil, err
	}

	return res, nil
}

func (r *Repository) MarkAllOffline(ctx context.Context) error {
	const op = "devices.MarkAllOffline.repo"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	_, err := r.conn.ExecContext(ctx, markAllOffline)
	return err
}

func (r *Repository) getOne(ctx context.Context, op, q string, args ...any) (*md.Device, error) {
	res := &md.Device{}
	if err := r.conn.GetContext(ctx, res, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		zap.L().Error("failed to get device", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	return res, nil
}

func (r *Repository) execOne(ctx context.Context, q string, args ...any) error {
	res, err := r.conn.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if aff == 0 {
		return repo.ErrNotFound
	}

	return nil
}
