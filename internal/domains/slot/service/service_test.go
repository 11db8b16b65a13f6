package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tarmac/config"
	"tarmac/infras/otel/mocks"
	hubMocks "tarmac/internal/domains/hub/mocks"
	slotMocks "tarmac/internal/domains/slot/mocks"
	"tarmac/internal/domains/slot/model"
	"tarmac/internal/domains/slot/service"
	"tarmac/shared/failure"
)

func TestSlotService_ListAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockHubRepo := hubMocks.NewMockHub(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockHubRepo, cfg, mockOtel)

	slots := []model.Slot{
		{
			ID:              "slot-1",
			HubID:           "hub-1",
			StartTime:       time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
			DurationMinutes: 30,
			Status:          model.StatusAvailable,
		},
		{
			ID:              "slot-2",
			HubID:           "hub-1",
			StartTime:       time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			DurationMinutes: 45,
			Status:          model.StatusAvailable,
		},
	}

	tests := []struct {
		name      string
		hubID     string
		date      string
		duration  int
		setupMock func()
		wantErr   bool
		wantCode  int
		wantCount int
	}{
		{
			name:     "successful listing",
			hubID:    "hub-1",
			date:     "2026-09-01",
			duration: 0,
			setupMock: func() {
				mockHubRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					GetAvailable(gomock.Any(), "hub-1", gomock.Any(), 0).
					Return(slots, nil)
			},
			wantErr:   false,
			wantCount: 2,
		},
		{
			name:      "missing hub parameter",
			hubID:     "",
			date:      "2026-09-01",
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "malformed date",
			hubID:     "hub-1",
			date:      "01-09-2026",
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "negative duration",
			hubID:     "hub-1",
			date:      "2026-09-01",
			duration:  -15,
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:  "unknown hub",
			hubID: "missing-hub",
			date:  "2026-09-01",
			setupMock: func() {
				mockHubRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name:  "repository error",
			hubID: "hub-1",
			date:  "2026-09-01",
			setupMock: func() {
				mockHubRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					GetAvailable(gomock.Any(), "hub-1", gomock.Any(), 0).
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.ListAvailable(context.Background(), tt.hubID, tt.date, tt.duration)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.True(t, failure.IsCode(err, tt.wantCode))
				}

				return
			}

			assert.NoError(t, err)
			assert.Len(t, result.Slots, tt.wantCount)

			for _, slot := range result.Slots {
				assert.Equal(t, model.StatusAvailable, slot.Status)
			}
		})
	}
}

func TestSlotService_Calendar(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockHubRepo := hubMocks.NewMockHub(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockHubRepo, &config.Config{}, mockOtel)

	slots := []model.Slot{
		{
			ID:              "slot-1",
			HubID:           "hub-1",
			StartTime:       time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
			DurationMinutes: 30,
			Status:          model.StatusAvailable,
		},
		{
			ID:              "slot-2",
			HubID:           "hub-1",
			StartTime:       time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			DurationMinutes: 30,
			Status:          model.StatusConfirmed,
		},
		{
			ID:              "slot-3",
			HubID:           "hub-1",
			StartTime:       time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
			DurationMinutes: 45,
			Status:          model.StatusHeld,
		},
		{
			ID:              "slot-4",
			HubID:           "hub-1",
			StartTime:       time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC),
			DurationMinutes: 45,
			Status:          model.StatusCancelled,
		},
	}

	t.Run("successful calendar with summary counts", func(t *testing.T) {
		mockHubRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockRepo.EXPECT().
			GetRange(
				gomock.Any(),
				"hub-1",
				time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			).
			Return(slots, nil)

		result, err := svc.Calendar(context.Background(), "hub-1", "2026-09-01", "2026-09-02")

		assert.NoError(t, err)
		assert.Equal(t, "hub-1", result.HubID)
		assert.Equal(t, "2026-09-01", result.StartDate)
		assert.Equal(t, "2026-09-02", result.EndDate)
		assert.Len(t, result.Slots, 4)
		assert.Equal(t, 4, result.Summary.TotalSlots)
		assert.Equal(t, 1, result.Summary.AvailableSlots)
		assert.Equal(t, 1, result.Summary.BookedSlots)
		assert.Equal(t, 1, result.Summary.HeldSlots)
		assert.Equal(t, 1, result.Summary.CancelledSlots)
	})

	t.Run("single day range", func(t *testing.T) {
		mockHubRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockRepo.EXPECT().
			GetRange(gomock.Any(), "hub-1", gomock.Any(), gomock.Any()).
			Return(nil, nil)

		result, err := svc.Calendar(context.Background(), "hub-1", "2026-09-01", "2026-09-01")

		assert.NoError(t, err)
		assert.Empty(t, result.Slots)
		assert.Equal(t, 0, result.Summary.TotalSlots)
	})

	t.Run("missing hub parameter", func(t *testing.T) {
		_, err := svc.Calendar(context.Background(), "", "2026-09-01", "2026-09-02")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})

	t.Run("malformed start date", func(t *testing.T) {
		_, err := svc.Calendar(context.Background(), "hub-1", "01-09-2026", "2026-09-02")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})

	t.Run("malformed end date", func(t *testing.T) {
		_, err := svc.Calendar(context.Background(), "hub-1", "2026-09-01", "someday")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := svc.Calendar(context.Background(), "hub-1", "2026-09-03", "2026-09-01")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})

	t.Run("unknown hub", func(t *testing.T) {
		mockHubRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		_, err := svc.Calendar(context.Background(), "missing-hub", "2026-09-01", "2026-09-02")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})

	t.Run("repository error", func(t *testing.T) {
		mockHubRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockRepo.EXPECT().
			GetRange(gomock.Any(), "hub-1", gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		_, err := svc.Calendar(context.Background(), "hub-1", "2026-09-01", "2026-09-02")

		assert.Error(t, err)
	})
}

func TestSlotService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockHubRepo := hubMocks.NewMockHub(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockHubRepo, &config.Config{}, mockOtel)

	t.Run("existing slot", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Slot{ID: "slot-1", HubID: "hub-1", Status: model.StatusHeld}, nil)

		result, err := svc.Get(context.Background(), "slot-1")

		assert.NoError(t, err)
		assert.Equal(t, "slot-1", result.ID)
		assert.Equal(t, model.StatusHeld, result.Status)
	})

	t.Run("unknown slot", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Slot{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Slot{}, errors.New("database error"))

		_, err := svc.Get(context.Background(), "slot-1")

		assert.Error(t, err)
	})
}
