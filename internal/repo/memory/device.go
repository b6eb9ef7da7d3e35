package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JMURv/player-pairing/internal/config"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/repo"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

func emptyConfig() types.JSONText {
	return types.JSONText("{}")
}

// Repository keeps devices in process memory. It enforces the same unique
// keys and conditional updates as the SQL repository.
type Repository struct {
	devices map[uuid.UUID]*md.Device
	sync.RWMutex
}

func New() *Repository {
	return &Repository{
		devices: make(map[uuid.UUID]*md.Device),
	}
}

func (r *Repository) Close(_ context.Context) error {
	return nil
}

func (r *Repository) FindByIdentity(_ context.Context, cpuSerial, deviceUUID string) (*md.Device, error) {
	r.RLock()
	defer r.RUnlock()

	var byUUID *md.Device
	for _, d := range r.devices {
		if d.CPUSerial == cpuSerial {
			return clone(d), nil
		}
		if byUUID == nil && d.DeviceUUID != nil && *d.DeviceUUID == deviceUUID {
			byUUID = d
		}
	}

	if byUUID != nil {
		return clone(byUUID), nil
	}
	return nil, repo.ErrNotFound
}

func (r *Repository) CreateDevice(_ context.Context, d *md.Device) error {
	r.Lock()
	defer r.Unlock()

	if _, err := d.PairingState(); err != nil {
		return err
	}

	for _, ex := range r.devices {
		if ex.CPUSerial == d.CPUSerial || sameString(ex.DeviceUUID, d.DeviceUUID) {
			return repo.ErrAlreadyExists
		}
		if sameString(ex.PairingCode, d.PairingCode) {
			return repo.ErrCodeTaken
		}
	}

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = md.StatusOffline
	}
	if len(d.Config) == 0 {
		d.Config = emptyConfig()
	}
	d.CreatedAt = time.Now().UTC()

	r.devices[d.ID] = clone(d)
	return nil
}

func (r *Repository) RenewCode(
	_ context.Context,
	id uuid.UUID,
	deviceUUID, code string,
	expiresAt time.Time,
) error {
	r.Lock()
	defer r.Unlock()

	d, ok := r.devices[id]
	if !ok {
		return repo.ErrNotFound
	}

	if d.AccountID != nil {
		return repo.ErrConflict
	}

	for _, ex := range r.devices {
		if ex.ID == id {
			continue
		}
		if sameString(ex.DeviceUUID, &deviceUUID) {
			return repo.ErrAlreadyExists
		}
		if sameString(ex.PairingCode, &code) {
			return repo.ErrCodeTaken
		}
	}

	d.PairingCode, d.PairingCodeExpiresAt = &code, &expiresAt
	d.DeviceUUID = &deviceUUID
	return nil
}

func (r *Repository) GetDeviceByID(_ context.Context, id uuid.UUID) (*md.Device, error) {
	r.RLock()
	defer r.RUnlock()

	if d, ok := r.devices[id]; ok {
		return clone(d), nil
	}
	return nil, repo.ErrNotFound
}

func (r *Repository) GetDeviceByCode(_ context.Context, code string) (*md.Device, error) {
	return r.findOne(func(d *md.Device) bool {
		return d.PairingCode != nil && *d.PairingCode == code
	})
}

func (r *Repository) GetDeviceByUUID(_ context.Context, deviceUUID string) (*md.Device, error) {
	return r.findOne(func(d *md.Device) bool {
		return d.DeviceUUID != nil && *d.DeviceUUID == deviceUUID
	})
}

func (r *Repository) ClaimDevice(
	_ context.Context,
	id uuid.UUID,
	code, accountID string,
	name *string,
	now time.Time,
) (*md.Device, error) {
	r.Lock()
	defer r.Unlock()

	d, ok := r.devices[id]
	if !ok || d.AccountID != nil || d.PairingCode == nil || *d.PairingCode != code ||
		d.PairingCodeExpiresAt == nil || d.PairingCodeExpiresAt.Before(now) {
		return nil, repo.ErrConflict
	}

	if err := d.ApplyPairing(md.Paired{AccountID: accountID, PairedAt: now}); err != nil {
		return nil, repo.ErrConflict
	}
	if name != nil {
		d.Name = *name
	}

	return clone(d), nil
}

func (r *Repository) ListDevices(_ context.Context, filter md.DeviceFilter) ([]md.Device, error) {
	r.RLock()
	defer r.RUnlock()

	res := make([]md.Device, 0, len(r.devices))
	for _, d := range r.devices {
		if filter.Match(d) {
			res = append(res, *clone(d))
		}
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CPUSerial < res[j].CPUSerial
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (r *Repository) UpsertOnline(_ context.Context, cpuSerial, name string, at time.Time) (*md.Device, error) {
	r.Lock()
	defer r.Unlock()

	for _, d := range r.devices {
		if d.CPUSerial == cpuSerial {
			d.Status = md.StatusOnline
			d.LastSeen = &at
			return clone(d), nil
		}
	}

	if name == "" {
		name = config.DefaultPlayerName
	}

	d := &md.Device{
		ID:        uuid.New(),
		Name:      name,
		CPUSerial: cpuSerial,
		Status:    md.StatusOnline,
		LastSeen:  &at,
		Config:    emptyConfig(),
		CreatedAt: time.Now().UTC(),
	}
	r.devices[d.ID] = d
	return clone(d), nil
}

func (r *Repository) TouchLastSeen(_ context.Context, cpuSerial string, at time.Time) error {
	return r.update(cpuSerial, func(d *md.Device) {
		d.Status = md.StatusOnline
		d.LastSeen = &at
	})
}

func (r *Repository) SetStatus(_ context.Context, cpuSerial string, status md.Status) (*md.Device, error) {
	var res *md.Device
	err := r.update(cpuSerial, func(d *md.Device) {
		d.Status = status
		res = clone(d)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Repository) MarkAllOffline(_ context.Context) error {
	r.Lock()
	defer r.Unlock()

	for _, d := range r.devices {
		d.Status = md.StatusOffline
	}
	return nil
}

func (r *Repository) update(cpuSerial string, fn func(d *md.Device)) error {
	r.Lock()
	defer r.Unlock()

	for _, d := range r.devices {
		if d.CPUSerial == cpuSerial {
			fn(d)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r *Repository) findOne(match func(d *md.Device) bool) (*md.Device, error) {
	r.RLock()
	defer r.RUnlock()

	for _, d := range r.devices {
		if match(d) {
			return clone(d), nil
		}
	}
	return nil, repo.ErrNotFound
}

func clone(d *md.Device) *md.Device {
	c := *d
	return &c
}

func sameString(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
