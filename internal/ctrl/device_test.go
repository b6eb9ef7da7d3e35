package ctrl

import (
	"context"
	"errors"
	"testing"

	"github.com/JMURv/player-pairing/internal/mocks"
	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/repo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestController_ListDevices(t *testing.T) {
	ctrlMock := gomock.NewController(t)
	defer ctrlMock.Finish()

	mockRepo := mocks.NewMockAppRepo(ctrlMock)
	mockCache := mocks.NewMockCacheService(ctrlMock)

	ctx := context.Background()
	ctrl := New(mockRepo, mockCache, nil, testConf)

	filter := md.DeviceFilter{AccountID: "O"}
	testDevices := []md.Device{
		{ID: uuid.New(), CPUSerial: "CPU-1", Status: md.StatusOnline},
		{ID: uuid.New(), CPUSerial: "CPU-2", Status: md.StatusOffline},
	}

	tests := []struct {
		name     string
		setup    func()
		expected []md.Device
		wantErr  bool
	}{
		{
			name: "Success",
			setup: func() {
				mockRepo.EXPECT().ListDevices(gomock.Any(), filter).Return(testDevices, nil)
			},
			expected: testDevices,
		},
		{
			name: "RepositoryError",
			setup: func() {
				mockRepo.EXPECT().ListDevices(gomock.Any(), filter).Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
		{
			name: "NoDevicesFound",
			setup: func() {
				mockRepo.EXPECT().ListDevices(gomock.Any(), filter).Return([]md.Device{}, nil)
			},
			expected: []md.Device{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			result, err := ctrl.ListDevices(ctx, filter)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestController_GetDevice(t *testing.T) {
	ctrlMock := gomock.NewController(t)
	defer ctrlMock.Finish()

	mockRepo := mocks.NewMockAppRepo(ctrlMock)
	mockCache := mocks.NewMockCacheService(ctrlMock)

	ctx := context.Background()
	ctrl := New(mockRepo, mockCache, nil, testConf)

	id := uuid.New()
	testDevice := &md.Device{ID: id, CPUSerial: "CPU-1"}

	tests := []struct {
		name     string
		setup    func()
		expected *md.Device
		wantErr  bool
		err      error
	}{
		{
			name: "Success",
			setup: func() {
				mockRepo.EXPECT().GetDeviceByID(gomock.Any(), id).Return(testDevice, nil)
			},
			expected: testDevice,
		},
		{
			name: "DeviceNotFound",
			setup: func() {
				mockRepo.EXPECT().GetDeviceByID(gomock.Any(), id).Return(nil, repo.ErrNotFound)
			},
			wantErr: true,
			err:     ErrNotFound,
		},
		{
			name: "RepositoryError",
			setup: func() {
				mockRepo.EXPECT().GetDeviceByID(gomock.Any(), id).Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			result, err := ctrl.GetDevice(ctx, id)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.err != nil {
					assert.ErrorIs(t, err, tt.err)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
