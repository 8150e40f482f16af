package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TimeEntryInput yönetici tarafından girilen veya düzeltilen kayıt.
type TimeEntryInput struct {
	EmployeeID uint       `json:"employeeId"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut"`
	JobID      *uint      `json:"jobId"`
	Notes      string     `json:"notes"`
}

type ITimeEntryService interface {
	List(ctx context.Context, filter repositories.TimeEntryFilter) ([]models.TimeEntry, error)
	Create(ctx context.Context, actorID uint, input TimeEntryInput) (*models.TimeEntry, error)
	Update(ctx context.Context, actorID uint, id uint, input TimeEntryInput) (*models.TimeEntry, error)
	Delete(ctx context.Context, actorID uint, id uint) error
}

type TimeEntryService struct {
	db        *gorm.DB
	entries   repositories.ITimeEntryRepository
	employees repositories.IEmployeeRepository
	jobs      repositories.IJobRepository
}

func NewTimeEntryService(db *gorm.DB) ITimeEntryService {
	return &TimeEntryService{
		db:        db,
		entries:   repositories.NewTimeEntryRepository(db),
		employees: repositories.NewEmployeeRepository(db),
		jobs:      repositories.NewJobRepository(db),
	}
}

func (s *TimeEntryService) List(ctx context.Context, filter repositories.TimeEntryFilter) ([]models.TimeEntry, error) {
	entries, err := s.entries.FindAll(ctx, filter)
	if err != nil {
		return nil, ErrTimeClockFailed
	}
	return entries, nil
}

func validateEntryTimes(in, out *time.Time) error {
	if in.IsZero() {
		return fmt.Errorf("%w: clockIn is required", ErrTimeClockInvalidInput)
	}
	if out != nil && !out.After(*in) {
		return fmt.Errorf("%w: clockOut must be after clockIn", ErrTimeClockInvalidInput)
	}
	return nil
}

// ensureSingleOpen açık kalacak bir kayıt için çalışanın başka açık kaydı olmamasını sağlar.
func (s *TimeEntryService) ensureSingleOpen(ctx context.Context, employeeID, entryID uint) error {
	open, err := s.entries.FindOpenByEmployee(ctx, employeeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return ErrTimeClockFailed
	}
	if open.ID != entryID {
		return ErrOpenEntryExists
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (s *TimeEntryService) Create(ctx context.Context, actorID uint, input TimeEntryInput) (*models.TimeEntry, error) {
	if input.EmployeeID == 0 {
		return nil, fmt.Errorf("%w: employeeId is required", ErrTimeClockInvalidInput)
	}
	if err := validateEntryTimes(&input.ClockIn, input.ClockOut); err != nil {
		return nil, err
	}
	if _, err := s.employees.FindByID(ctx, input.EmployeeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, ErrTimeClockFailed
	}
	if input.JobID != nil {
		if err := ensureActiveJob(ctx, s.jobs, *input.JobID); err != nil {
			return nil, err
		}
	}

	ctx = models.ContextWithUserID(ctx, actorID)
	entry := &models.TimeEntry{
		EmployeeID: input.EmployeeID,
		ClockIn:    input.ClockIn.UTC(),
		ClockOut:   utcPtr(input.ClockOut),
		JobID:      input.JobID,
		Notes:      strings.TrimSpace(input.Notes),
		Source:     models.TimeEntrySourceAdmin,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repositories.ContextWithTx(ctx, tx)
		if entry.ClockOut == nil {
			if err := s.ensureSingleOpen(txCtx, entry.EmployeeID, 0); err != nil {
				return err
			}
		}
		return s.entries.Create(txCtx, entry)
	})
	if err != nil {
		return nil, s.wrap(err, "Manuel zaman kaydı oluşturulamadı", actorID)
	}
	return entry, nil
}

func (s *TimeEntryService) Update(ctx context.Context, actorID uint, id uint, input TimeEntryInput) (*models.TimeEntry, error) {
	if err := validateEntryTimes(&input.ClockIn, input.ClockOut); err != nil {
		return nil, err
	}
	if input.JobID != nil && *input.JobID != 0 {
		if err := ensureActiveJob(ctx, s.jobs, *input.JobID); err != nil {
			return nil, err
		}
	}

	ctx = models.ContextWithUserID(ctx, actorID)
	var entry *models.TimeEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repositories.ContextWithTx(ctx, tx)
		var err error
		entry, err = s.entries.FindByID(txCtx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTimeEntryNotFound
		}
		if err != nil {
			return err
		}
		if input.ClockOut == nil {
			if err := s.ensureSingleOpen(txCtx, entry.EmployeeID, entry.ID); err != nil {
				return err
			}
		}
		entry.ClockIn = input.ClockIn.UTC()
		entry.ClockOut = utcPtr(input.ClockOut)
		entry.Notes = strings.TrimSpace(input.Notes)
		if input.JobID != nil {
			if *input.JobID == 0 {
				entry.JobID = nil
			} else {
				entry.JobID = input.JobID
			}
		}
		entry.Employee, entry.Job = nil, nil
		return s.entries.Update(txCtx, entry)
	})
	if err != nil {
		return nil, s.wrap(err, "Zaman kaydı güncellenemedi", actorID)
	}
	return entry, nil
}

func (s *TimeEntryService) Delete(ctx context.Context, actorID uint, id uint) error {
	entry, err := s.entries.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrTimeEntryNotFound
	}
	if err != nil {
		return ErrTimeClockFailed
	}
	if err := s.entries.Delete(models.ContextWithUserID(ctx, actorID), entry); err != nil {
		return s.wrap(err, "Zaman kaydı silinemedi", actorID)
	}
	configslog.Log.Info("Zaman kaydı silindi", zap.Uint("entry_id", id), zap.Uint("actor_id", actorID))
	return nil
}

func (s *TimeEntryService) wrap(err error, msg string, actorID uint) error {
	var svcErr TimeClockServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	configslog.Log.Error(msg, zap.Uint("actor_id", actorID), zap.Error(err))
	return ErrTimeClockFailed
}

var _ ITimeEntryService = (*TimeEntryService)(nil)
