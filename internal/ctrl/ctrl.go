package ctrl

import (
	"context"
	"io"
	"time"

	"github.com/JMURv/player-pairing/internal/config"
	"github.com/JMURv/player-pairing/internal/dto"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/notify"
	"github.com/google/uuid"
)

type AppRepo interface {
	FindByIdentity(ctx context.Context, cpuSerial, deviceUUID string) (*md.Device, error)
	CreateDevice(ctx context.Context, d *md.Device) error
	RenewCode(ctx context.Context, id uuid.UUID, deviceUUID, code string, expiresAt time.Time) error
	ClaimDevice(
		ctx context.Context,
		id uuid.UUID,
		code, accountID string,
		name *string,
		now time.Time,
	) (*md.Device, error)
	GetDeviceByID(ctx context.Context, id uuid.UUID) (*md.Device, error)
	GetDeviceByCode(ctx context.Context, code string) (*md.Device, error)
	GetDeviceByUUID(ctx context.Context, deviceUUID string) (*md.Device, error)
	ListDevices(ctx context.Context, filter md.DeviceFilter) ([]md.Device, error)
}

type AppCtrl interface {
	IssueOrRenewCode(ctx context.Context, cpuSerial, deviceUUID string) (*dto.GenerateResponse, error)
	VerifyAndClaim(ctx context.Context, code, accountID, deviceName string) (*md.Device, error)
	QueryStatus(ctx context.Context, deviceUUID string) (*dto.StatusResponse, error)
	ListDevices(ctx context.Context, filter md.DeviceFilter) ([]md.Device, error)
	GetDevice(ctx context.Context, id uuid.UUID) (*md.Device, error)
}

type CacheService interface {
	io.Closer
	GetToStruct(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, t time.Duration, key string, val any)
	Delete(ctx context.Context, key string)
}

type Controller struct {
	repo  AppRepo
	cache CacheService
	pub   notify.Publisher
	conf  config.PairingConfig
	now   func() time.Time
	gen   func() (string, error)
}

func New(repo AppRepo, cache CacheService, pub notify.Publisher, conf config.PairingConfig) *Controller {
	if pub == nil {
		pub = notify.Nop{}
	}

	return &Controller{
		repo:  repo,
		cache: cache,
		pub:   pub,
		conf:  conf,
		now:   time.Now,
		gen:   generateCode,
	}
}
