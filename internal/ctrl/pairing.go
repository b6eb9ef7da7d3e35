package ctrl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JMURv/player-pairing/internal/dto"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/notify"
	metrics "github.com/JMURv/player-pairing/internal/observability/metrics/prometheus"
	"github.com/JMURv/player-pairing/internal/repo"
	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// errRetry marks a collision that a new code or a fresh lookup resolves.
var errRetry = errors.New("retry")

func (c *Controller) IssueOrRenewCode(ctx context.Context, cpuSerial, deviceUUID string) (*dto.GenerateResponse, error) {
	const op = "pairing.IssueOrRenewCode.ctrl"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	cpuSerial, deviceUUID = strings.TrimSpace(cpuSerial), strings.TrimSpace(deviceUUID)
	if cpuSerial == "" || deviceUUID == "" {
		return nil, ErrInvalidArgument
	}

	for i := 0; i < maxCodeAttempts; i++ {
		res, err := c.issueOrRenew(ctx, cpuSerial, deviceUUID)
		if errors.Is(err, errRetry) {
			zap.L().Debug(
				"pairing code collision, retrying",
				zap.String("op", op),
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		return res, nil
	}

	zap.L().Error(
		ErrCodeAttemptsExhausted.Error(),
		zap.String("op", op),
		zap.String("cpu_serial", cpuSerial),
	)
	return nil, ErrCodeAttemptsExhausted
}

func (c *Controller) issueOrRenew(ctx context.Context, cpuSerial, deviceUUID string) (*dto.GenerateResponse, error) {
	const op = "pairing.issueOrRenew.ctrl"

	code, err := c.gen()
	if err != nil {
		zap.L().Error("failed to generate pairing code", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	issued := md.CodeIssued{Code: code, ExpiresAt: c.now().Add(c.conf.CodeTTL)}
	event := "renewed"

	d, err := c.repo.FindByIdentity(ctx, cpuSerial, deviceUUID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		event = "issued"
		d = &md.Device{
			Name:       "Device " + code,
			CPUSerial:  cpuSerial,
			DeviceUUID: &deviceUUID,
		}
		if err = d.ApplyPairing(issued); err != nil {
			return nil, err
		}

		if err = c.repo.CreateDevice(ctx, d); err != nil {
			if errors.Is(err, repo.ErrCodeTaken) || errors.Is(err, repo.ErrAlreadyExists) {
				return nil, fmt.Errorf("%w: %w", errRetry, err)
			}
			zap.L().Error("failed to create device", zap.String("op", op), zap.Error(err))
			return nil, err
		}
	case err != nil:
		zap.L().Error("failed to find device", zap.String("op", op), zap.Error(err))
		return nil, err
	default:
		if d.IsPaired() {
			return nil, alreadyPaired(d)
		}

		prevUUID := d.DeviceUUID
		if err = d.ApplyPairing(issued); err != nil {
			return nil, err
		}

		err = c.repo.RenewCode(ctx, d.ID, deviceUUID, code, issued.ExpiresAt)
		switch {
		case errors.Is(err, repo.ErrCodeTaken):
			return nil, fmt.Errorf("%w: %w", errRetry, err)
		case errors.Is(err, repo.ErrAlreadyExists):
			return nil, ErrAlreadyExists
		case errors.Is(err, repo.ErrConflict):
			cur, gerr := c.repo.GetDeviceByID(ctx, d.ID)
			if gerr == nil && cur.IsPaired() {
				return nil, alreadyPaired(cur)
			}
			return nil, fmt.Errorf("%w: %w", errRetry, err)
		case err != nil:
			zap.L().Error("failed to renew pairing code", zap.String("op", op), zap.Error(err))
			return nil, err
		}

		if prevUUID != nil && *prevUUID != deviceUUID {
			c.cache.Delete(ctx, statusCacheKey(*prevUUID))
		}
	}

	c.cache.Delete(ctx, statusCacheKey(deviceUUID))
	metrics.IncPairing(event)

	return &dto.GenerateResponse{
		PairingCode: code,
		ExpiresAt:   issued.ExpiresAt,
		QRData:      c.conf.QRBaseURL + "?code=" + code,
		PlayerID:    d.ID,
	}, nil
}

func alreadyPaired(d *md.Device) error {
	e := &AlreadyPairedError{}
	if d.AccountID != nil {
		e.AccountID = *d.AccountID
	}
	return e
}

// VerifyAndClaim binds the device holding code to accountID. The commit is a
// single conditional update so at most one concurrent caller wins.
func (c *Controller) VerifyAndClaim(ctx context.Context, code, accountID, deviceName string) (*md.Device, error) {
	const op = "pairing.VerifyAndClaim.ctrl"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	code, accountID = normalizeCode(code), strings.TrimSpace(accountID)
	if code == "" || accountID == "" {
		return nil, ErrInvalidArgument
	}

	now := c.now()
	d, err := c.repo.GetDeviceByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		zap.L().Error("failed to get device by code", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	if err = checkClaimable(d, now); err != nil {
		return nil, err
	}

	var name *string
	if n := strings.TrimSpace(deviceName); n != "" {
		name = &n
	}

	res, err := c.repo.ClaimDevice(ctx, d.ID, code, accountID, name, now)
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, c.claimConflict(ctx, d.ID, now)
		}
		zap.L().Error("failed to claim device", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	if res.DeviceUUID != nil {
		c.cache.Delete(ctx, statusCacheKey(*res.DeviceUUID))
	}
	metrics.IncPairing("claimed")
	c.pub.Publish(ctx, notify.PairingSucceeded(res, now))

	zap.L().Info(
		"device paired",
		zap.String("op", op),
		zap.String("player_id", res.ID.String()),
		zap.String("account_id", accountID),
	)
	return res, nil
}

func checkClaimable(d *md.Device, now time.Time) error {
	s, err := d.PairingState()
	if err != nil {
		return err
	}

	switch v := s.(type) {
	case md.Paired:
		return ErrAlreadyClaimed
	case md.CodeIssued:
		if v.Expired(now) {
			metrics.IncPairing("expired")
			return ErrCodeExpired
		}
		return nil
	default:
		return ErrNotFound
	}
}

// claimConflict explains a failed conditional claim from the current row.
func (c *Controller) claimConflict(ctx context.Context, id uuid.UUID, now time.Time) error {
	cur, err := c.repo.GetDeviceByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err = checkClaimable(cur, now); err != nil {
		return err
	}
	return ErrNotFound
}

func (c *Controller) QueryStatus(ctx context.Context, deviceUUID string) (*dto.StatusResponse, error) {
	const op = "pairing.QueryStatus.ctrl"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	deviceUUID = strings.TrimSpace(deviceUUID)
	if deviceUUID == "" {
		return nil, ErrInvalidArgument
	}

	// Only paired responses are cached. Pending state is read from the
	// store so a claim is visible on the next poll.
	key := statusCacheKey(deviceUUID)
	cached := &dto.StatusResponse{}
	if err := c.cache.GetToStruct(ctx, key, cached); err == nil && cached.Paired {
		return cached, nil
	}

	d, err := c.repo.GetDeviceByUUID(ctx, deviceUUID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		zap.L().Error("failed to get device by uuid", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	res, err := statusOf(d)
	if err != nil {
		return nil, err
	}

	if res.Paired {
		c.cache.Set(ctx, c.conf.StatusCacheTTL, key, res)
	}
	return res, nil
}

func statusOf(d *md.Device) (*dto.StatusResponse, error) {
	s, err := d.PairingState()
	if err != nil {
		return nil, err
	}

	res := &dto.StatusResponse{}
	switch v := s.(type) {
	case md.Paired:
		id, cfg := d.ID, d.Config
		res.Paired = true
		res.AccountID = &v.AccountID
		res.PlayerID = &id
		res.Name = d.Name
		res.Config = &cfg
		res.PlaylistID = d.PlaylistID
	case md.CodeIssued:
		res.PairingCode = &v.Code
		res.ExpiresAt = &v.ExpiresAt
	}

	return res, nil
}
