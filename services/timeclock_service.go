package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"salonsuite/configs"
	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/validation"
	"salonsuite/repositories"
	"salonsuite/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type TimeClockServiceError string

func (e TimeClockServiceError) Error() string { return string(e) }

const (
	ErrInvalidPIN            TimeClockServiceError = "invalid PIN"
	ErrPINInUse              TimeClockServiceError = "PIN is already used by another active employee"
	ErrAlreadyClockedIn      TimeClockServiceError = "employee is already clocked in"
	ErrNotClockedIn          TimeClockServiceError = "employee is not clocked in"
	ErrEmployeeNotFound      TimeClockServiceError = "employee not found"
	ErrJobNotFound           TimeClockServiceError = "job not found"
	ErrJobInactive           TimeClockServiceError = "job is not active"
	ErrJobNameTaken          TimeClockServiceError = "a job with this name already exists"
	ErrTimeEntryNotFound     TimeClockServiceError = "time entry not found"
	ErrOpenEntryExists       TimeClockServiceError = "employee already has an open time entry"
	ErrTimeClockInvalidInput TimeClockServiceError = "invalid time clock input"
	ErrTimeClockFailed       TimeClockServiceError = "time clock operation failed"
)

// timeNow testlerde sabitlenebilir.
var timeNow = func() time.Time { return time.Now().UTC() }

// KioskStatus kioskta PIN girildiğinde gösterilen durum.
type KioskStatus struct {
	Employee  *models.Employee  `json:"employee"`
	OpenEntry *models.TimeEntry `json:"openEntry,omitempty"`
	ClockedIn bool              `json:"clockedIn"`
}

// PunchResult Punch'ın hangi yönde işlediğini bildirir.
type PunchResult struct {
	Action string            `json:"action"` // clock_in | clock_out
	Entry  *models.TimeEntry `json:"entry"`
}

type IKioskService interface {
	Identify(ctx context.Context, pin string) (*KioskStatus, error)
	ClockIn(ctx context.Context, pin string, jobID *uint) (*models.TimeEntry, error)
	ClockOut(ctx context.Context, pin string, notes string) (*models.TimeEntry, error)
	Punch(ctx context.Context, pin string) (*PunchResult, error)
}

type KioskService struct {
	db        *gorm.DB
	employees repositories.IEmployeeRepository
	entries   repositories.ITimeEntryRepository
	jobs      repositories.IJobRepository
	mu        sync.Mutex
}

func NewKioskService(db *gorm.DB) IKioskService {
	return &KioskService{
		db:        db,
		employees: repositories.NewEmployeeRepository(db),
		entries:   repositories.NewTimeEntryRepository(db),
		jobs:      repositories.NewJobRepository(db),
	}
}

// HashPIN PIN'i bcrypt ile özetler.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// pinLookupKey PIN arama özetinin anahtarı. Değişirse kayıtlı özetler eşleşmez, PIN'ler yeniden atanmalıdır.
var pinLookupKey = sync.OnceValue(func() []byte {
	key := configs.GetEnv("PIN_LOOKUP_SECRET", configs.GetEnv("SESSION_SECRET", ""))
	if key == "" {
		configslog.Log.Warn("PIN_LOOKUP_SECRET tanımlı değil, geliştirme anahtarı kullanılıyor")
		key = "salonsuite-dev-pin-lookup"
	}
	return []byte(key)
})

func pinDigest(pin string) string {
	return utils.PINDigest(pinLookupKey(), pin)
}

// findEmployeeByPIN arama özetiyle adayları bulur ve PIN'i bcrypt ile doğrular.
func findEmployeeByPIN(ctx context.Context, repo repositories.IEmployeeRepository, pin string, excludeID uint) (*models.Employee, error) {
	candidates, err := repo.FindActiveByPinLookup(ctx, pinDigest(pin))
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].ID == excludeID {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(candidates[i].PinHash), []byte(pin)) == nil {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

func (s *KioskService) employeeForPIN(ctx context.Context, pin string) (*models.Employee, error) {
	pin = strings.TrimSpace(pin)
	if !validation.IsPIN(pin) {
		return nil, ErrInvalidPIN
	}
	emp, err := findEmployeeByPIN(ctx, s.employees, pin, 0)
	if err != nil {
		configslog.Log.Error("Kiosk: çalışanlar yüklenemedi", zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	if emp == nil {
		configslog.Log.Info("Kiosk: bilinmeyen PIN denemesi")
		return nil, ErrInvalidPIN
	}
	return emp, nil
}

func (s *KioskService) openEntry(ctx context.Context, employeeID uint) (*models.TimeEntry, error) {
	entry, err := s.entries.FindOpenByEmployee(ctx, employeeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, ErrTimeClockFailed
	}
	return entry, nil
}

func (s *KioskService) Identify(ctx context.Context, pin string) (*KioskStatus, error) {
	emp, err := s.employeeForPIN(ctx, pin)
	if err != nil {
		return nil, err
	}
	open, err := s.openEntry(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	return &KioskStatus{Employee: emp, OpenEntry: open, ClockedIn: open != nil}, nil
}

func (s *KioskService) ClockIn(ctx context.Context, pin string, jobID *uint) (*models.TimeEntry, error) {
	emp, err := s.employeeForPIN(ctx, pin)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clockIn(ctx, emp, jobID)
}

func (s *KioskService) clockIn(ctx context.Context, emp *models.Employee, jobID *uint) (*models.TimeEntry, error) {
	if jobID == nil {
		jobID = emp.DefaultJobID
	} else if err := ensureActiveJob(ctx, s.jobs, *jobID); err != nil {
		return nil, err
	}

	var entry *models.TimeEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repositories.ContextWithTx(ctx, tx)
		open, err := s.openEntry(txCtx, emp.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return ErrAlreadyClockedIn
		}
		entry = &models.TimeEntry{
			EmployeeID: emp.ID,
			ClockIn:    timeNow(),
			JobID:      jobID,
			Source:     models.TimeEntrySourceKiosk,
		}
		return s.entries.Create(txCtx, entry)
	})
	if err != nil {
		var svcErr TimeClockServiceError
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		configslog.Log.Error("Kiosk: giriş kaydı oluşturulamadı", zap.Uint("employee_id", emp.ID), zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	configslog.Log.Info("Kiosk: giriş yapıldı", zap.Uint("employee_id", emp.ID), zap.Uint("entry_id", entry.ID))
	entry.Employee = emp
	return entry, nil
}

func (s *KioskService) ClockOut(ctx context.Context, pin string, notes string) (*models.TimeEntry, error) {
	emp, err := s.employeeForPIN(ctx, pin)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clockOut(ctx, emp, notes)
}

func (s *KioskService) clockOut(ctx context.Context, emp *models.Employee, notes string) (*models.TimeEntry, error) {
	open, err := s.openEntry(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, ErrNotClockedIn
	}
	now := timeNow()
	if now.Before(open.ClockIn) {
		now = open.ClockIn
	}
	open.ClockOut = &now
	if notes = strings.TrimSpace(notes); notes != "" {
		open.Notes = notes
	}
	if err := s.entries.Update(ctx, open); err != nil {
		configslog.Log.Error("Kiosk: çıkış kaydedilemedi", zap.Uint("entry_id", open.ID), zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	configslog.Log.Info("Kiosk: çıkış yapıldı", zap.Uint("employee_id", emp.ID), zap.Uint("entry_id", open.ID))
	open.Employee = emp
	return open, nil
}

func (s *KioskService) Punch(ctx context.Context, pin string) (*PunchResult, error) {
	emp, err := s.employeeForPIN(ctx, pin)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openEntry(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		entry, err := s.clockOut(ctx, emp, "")
		if err != nil {
			return nil, err
		}
		return &PunchResult{Action: "clock_out", Entry: entry}, nil
	}
	entry, err := s.clockIn(ctx, emp, nil)
	if err != nil {
		return nil, err
	}
	return &PunchResult{Action: "clock_in", Entry: entry}, nil
}

func ensureActiveJob(ctx context.Context, jobs repositories.IJobRepository, id uint) error {
	job, err := jobs.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrJobNotFound
	}
	if err != nil {
		return ErrTimeClockFailed
	}
	if !job.IsActive {
		return ErrJobInactive
	}
	return nil
}

var _ IKioskService = (*KioskService)(nil)
