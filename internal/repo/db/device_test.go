package db

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/repo"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id",
	"name",
	"cpu_serial",
	"device_uuid",
	"status",
	"last_seen",
	"config",
	"playlist_id",
	"created_at",
	"account_id",
	"paired_at",
	"pairing_code",
	"pairing_code_expires_at",
}

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return &Repository{conn: sqlx.NewDb(db, "sqlmock")}, mock
}

func pendingRow(id uuid.UUID, code string, exp time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(
		id.String(),
		"Device "+code,
		"CPU-1",
		"uuid-1",
		"offline",
		nil,
		"{}",
		nil,
		time.Now(),
		nil,
		nil,
		code,
		exp,
	)
}

func TestRepository_FindByIdentity(t *testing.T) {
	r, mock := newMock(t)
	id := uuid.New()
	exp := time.Now().Add(time.Hour)

	tests := []struct {
		name        string
		mock        func()
		expectedErr error
	}{
		{
			name: "Success",
			mock: func() {
				mock.ExpectQuery(regexp.QuoteMeta(findDeviceByIdentity)).
					WithArgs("CPU-1", "uuid-1").
					WillReturnRows(pendingRow(id, "AB3456", exp))
			},
		},
		{
			name: "NotFound",
			mock: func() {
				mock.ExpectQuery(regexp.QuoteMeta(findDeviceByIdentity)).
					WithArgs("CPU-1", "uuid-1").
					WillReturnError(sql.ErrNoRows)
			},
			expectedErr: repo.ErrNotFound,
		},
		{
			name: "DatabaseError",
			mock: func() {
				mock.ExpectQuery(regexp.QuoteMeta(findDeviceByIdentity)).
					WithArgs("CPU-1", "uuid-1").
					WillReturnError(errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mock()

			res, err := r.FindByIdentity(context.Background(), "CPU-1", "uuid-1")
			if tt.expectedErr != nil {
				assert.EqualError(t, err, tt.expectedErr.Error())
				assert.Nil(t, res)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, id, res.ID)
			assert.Equal(t, "AB3456", *res.PairingCode)
			assert.Equal(t, md.StatusOffline, res.Status)
			assert.Nil(t, res.AccountID)
			assert.JSONEq(t, "{}", string(res.Config))
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateDevice(t *testing.T) {
	r, mock := newMock(t)
	exp := time.Now().Add(time.Hour)

	newDevice := func() *md.Device {
		devUUID := "uuid-1"
		d := &md.Device{Name: "Device AB3456", CPUSerial: "CPU-1", DeviceUUID: &devUUID}
		require.NoError(t, d.ApplyPairing(md.CodeIssued{Code: "AB3456", ExpiresAt: exp}))
		return d
	}

	tests := []struct {
		name        string
		mock        func()
		expectedErr error
	}{
		{
			name: "Success",
			mock: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createDevice)).
					WithArgs(sqlmock.AnyArg(), "Device AB3456", "CPU-1", "uuid-1", "offline", "AB3456", exp).
					WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
			},
		},
		{
			name: "CodeTaken",
			mock: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createDevice)).
					WillReturnError(&pgconn.PgError{
						Code:           pgerrcode.UniqueViolation,
						ConstraintName: pairingCodeConstraint,
					})
			},
			expectedErr: repo.ErrCodeTaken,
		},
		{
			name: "IdentityExists",
			mock: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createDevice)).
					WillReturnError(&pgconn.PgError{
						Code:           pgerrcode.UniqueViolation,
						ConstraintName: "devices_cpu_serial_key",
					})
			},
			expectedErr: repo.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mock()

			d := newDevice()
			err := r.CreateDevice(context.Background(), d)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, d.ID)
			assert.False(t, d.CreatedAt.IsZero())
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateDevice_InvalidState(t *testing.T) {
	r, mock := newMock(t)
	now := time.Now()
	code, acc := "AB3456", "O"

	err := r.CreateDevice(context.Background(), &md.Device{
		CPUSerial:   "CPU-1",
		PairingCode: &code,
		AccountID:   &acc,
		PairedAt:    &now,
	})
	assert.ErrorIs(t, err, md.ErrInvalidPairingState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RenewCode(t *testing.T) {
	r, mock := newMock(t)
	id := uuid.New()
	exp := time.Now().Add(time.Hour)

	tests := []struct {
		name        string
		mock        func()
		expectedErr error
	}{
		{
			name: "Success",
			mock: func() {
				mock.ExpectExec(regexp.QuoteMeta(renewCode)).
					WithArgs("CCCCCC", exp, "uuid-2", id).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "AlreadyPaired",
			mock: func() {
				mock.ExpectExec(regexp.QuoteMeta(renewCode)).
					WithArgs("CCCCCC", exp, "uuid-2", id).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedErr: repo.ErrConflict,
		},
		{
			name: "CodeTaken",
			mock: func() {
				mock.ExpectExec(regexp.QuoteMeta(renewCode)).
					WithArgs("CCCCCC", exp, "uuid-2", id).
					WillReturnError(&pgconn.PgError{
						Code:           pgerrcode.UniqueViolation,
						ConstraintName: pairingCodeConstraint,
					})
			},
			expectedErr: repo.ErrCodeTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mock()

			err := r.RenewCode(context.Background(), id, "uuid-2", "CCCCCC", exp)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ClaimDevice(t *testing.T) {
	r, mock := newMock(t)
	id := uuid.New()
	now := time.Now()
	name := "Lobby"

	tests := []struct {
		name        string
		mock        func()
		expectedErr error
	}{
		{
			name: "Success",
			mock: func() {
				rows := sqlmock.NewRows(columns).AddRow(
					id.String(), name, "CPU-1", "uuid-1", "offline", nil, `{"volume":3}`, nil,
					now, "O", now, nil, nil,
				)
				mock.ExpectQuery(regexp.QuoteMeta(claimDevice)).
					WithArgs("O", now, name, id, "AB3456").
					WillReturnRows(rows)
			},
		},
		{
			name: "GuardFailed",
			mock: func() {
				mock.ExpectQuery(regexp.QuoteMeta(claimDevice)).
					WithArgs("O", now, name, id, "AB3456").
					WillReturnError(sql.ErrNoRows)
			},
			expectedErr: repo.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mock()

			res, err := r.ClaimDevice(context.Background(), id, "AB3456", "O", &name, now)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, res)
				return
			}

			require.NoError(t, err)
			assert.True(t, res.IsPaired())
			assert.Nil(t, res.PairingCode)
			assert.Equal(t, name, res.Name)
			assert.JSONEq(t, `{"volume":3}`, string(res.Config))
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListDevices(t *testing.T) {
	r, mock := newMock(t)
	ctx := context.Background()
	filter := md.DeviceFilter{AccountID: "O", Status: md.StatusOnline}

	q, _, err := buildDeviceListQuery(ctx, filter)
	require.NoError(t, err)
	assert.Contains(t, q, "WHERE account_id = $1 AND status = $2")
	assert.Contains(t, q, "COALESCE(config, '{}'::jsonb) AS config")

	rows := sqlmock.NewRows(columns).AddRow(
		uuid.New().String(), "Lobby", "CPU-1", "uuid-1", "online", time.Now(), "{}", "pl-1",
		time.Now(), "O", time.Now(), nil, nil,
	)
	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs("O", "online").
		WillReturnRows(rows)

	res, err := r.ListDevices(ctx, filter)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "pl-1", *res[0].PlaylistID)

	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs("O", "online").
		WillReturnError(errors.New("database error"))

	res, err = r.ListDevices(ctx, filter)
	assert.Error(t, err)
	assert.Nil(t, res)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpsertOnline(t *testing.T) {
	r, mock := newMock(t)
	at := time.Now()
	id := uuid.New()

	rows := sqlmock.NewRows(columns).AddRow(
		id.String(), "Unknown Player", "CPU-1", nil, "online", at, "{}", nil,
		at, nil, nil, nil, nil,
	)
	mock.ExpectQuery(regexp.QuoteMeta(upsertOnline)).
		WithArgs(sqlmock.AnyArg(), "Unknown Player", "CPU-1", at).
		WillReturnRows(rows)

	res, err := r.UpsertOnline(context.Background(), "CPU-1", "", at)
	require.NoError(t, err)
	assert.Equal(t, id, res.ID)
	assert.Equal(t, md.StatusOnline, res.Status)
	assert.JSONEq(t, "{}", string(res.Config))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceColumns_DefaultConfig(t *testing.T) {
	for _, q := range []string{findDeviceByIdentity, getDeviceByID, getDeviceByCode, getDeviceByUUID, claimDevice, upsertOnline, setStatus} {
		assert.Contains(t, q, "COALESCE(config, '{}'::jsonb) AS config")
	}
}

func TestRepository_PresenceWrites(t *testing.T) {
	r, mock := newMock(t)
	ctx := context.Background()
	at := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(touchLastSeen)).
		WithArgs(at, "CPU-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(setStatus)).
		WithArgs("offline", "CPU-1").
		WillReturnRows(
			sqlmock.NewRows(columns).AddRow(
				uuid.New().String(), "Lobby", "CPU-1", "uuid-1", "offline", at, "{}", nil,
				at, "O", at, nil, nil,
			),
		)
	mock.ExpectQuery(regexp.QuoteMeta(setStatus)).
		WithArgs("offline", "CPU-X").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(markAllOffline)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, r.TouchLastSeen(ctx, "CPU-1", at))
	d, err := r.SetStatus(ctx, "CPU-1", md.StatusOffline)
	require.NoError(t, err)
	assert.Equal(t, md.StatusOffline, d.Status)
	assert.Equal(t, "O", *d.AccountID)

	_, err = r.SetStatus(ctx, "CPU-X", md.StatusOffline)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.NoError(t, r.MarkAllOffline(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}
