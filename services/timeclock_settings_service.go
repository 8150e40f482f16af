package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/validation"
	"salonsuite/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OvertimeInput struct {
	DailyThresholdHours   float64 `json:"dailyThresholdHours" validate:"gt=0,lte=24"`
	WeeklyThresholdHours  float64 `json:"weeklyThresholdHours" validate:"gt=0,lte=168"`
	MonthlyThresholdHours float64 `json:"monthlyThresholdHours" validate:"gt=0,lte=744"`
}

type LocationInput struct {
	LocationName string `json:"locationName" validate:"required,max=150"`
	Timezone     string `json:"timezone" validate:"required,timezone"`
	WeekStartDay int    `json:"weekStartDay" validate:"gte=0,lte=6"`
}

// TimeClockSettings iki tek satırlık ayar tablosunun birleşik görünümü.
type TimeClockSettings struct {
	Overtime *models.OvertimeSettings `json:"overtime"`
	Location *models.LocationSettings `json:"location"`
}

type ITimeClockSettingsService interface {
	Get(ctx context.Context) (*TimeClockSettings, error)
	UpdateOvertime(ctx context.Context, actorID uint, input OvertimeInput) (*models.OvertimeSettings, error)
	UpdateLocation(ctx context.Context, actorID uint, input LocationInput) (*models.LocationSettings, error)
}

type TimeClockSettingsService struct {
	settings repositories.ISettingsRepository
}

func NewTimeClockSettingsService(db *gorm.DB) ITimeClockSettingsService {
	return &TimeClockSettingsService{settings: repositories.NewSettingsRepository(db)}
}

func (s *TimeClockSettingsService) Get(ctx context.Context) (*TimeClockSettings, error) {
	overtime, err := s.settings.GetOvertime(ctx)
	if err != nil {
		configslog.Log.Error("Fazla mesai ayarları okunamadı", zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	location, err := s.settings.GetLocation(ctx)
	if err != nil {
		configslog.Log.Error("Lokasyon ayarları okunamadı", zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	return &TimeClockSettings{Overtime: overtime, Location: location}, nil
}

func (s *TimeClockSettingsService) UpdateOvertime(ctx context.Context, actorID uint, input OvertimeInput) (*models.OvertimeSettings, error) {
	if err := validation.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeClockInvalidInput, err)
	}
	current, err := s.settings.GetOvertime(ctx)
	if err != nil {
		return nil, ErrTimeClockFailed
	}
	current.DailyThresholdHours = input.DailyThresholdHours
	current.WeeklyThresholdHours = input.WeeklyThresholdHours
	current.MonthlyThresholdHours = input.MonthlyThresholdHours
	if err := s.settings.SaveOvertime(models.ContextWithUserID(ctx, actorID), current); err != nil {
		configslog.Log.Error("Fazla mesai ayarları kaydedilemedi", zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	return current, nil
}

func (s *TimeClockSettingsService) UpdateLocation(ctx context.Context, actorID uint, input LocationInput) (*models.LocationSettings, error) {
	input.Timezone = strings.TrimSpace(input.Timezone)
	if err := validation.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeClockInvalidInput, err)
	}
	current, err := s.settings.GetLocation(ctx)
	if err != nil {
		return nil, ErrTimeClockFailed
	}
	current.LocationName = strings.TrimSpace(input.LocationName)
	current.Timezone = input.Timezone
	current.WeekStartDay = time.Weekday(input.WeekStartDay)
	if err := s.settings.SaveLocation(models.ContextWithUserID(ctx, actorID), current); err != nil {
		configslog.Log.Error("Lokasyon ayarları kaydedilemedi", zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	return current, nil
}

var _ ITimeClockSettingsService = (*TimeClockSettingsService)(nil)
