package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/queryparams"
	"salonsuite/pkg/validation"
	"salonsuite/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EmployeeInput struct {
	FirstName    string `json:"firstName" validate:"required,max=100"`
	LastName     string `json:"lastName" validate:"required,max=100"`
	PIN          string `json:"pin" validate:"omitempty,pin"`
	DefaultJobID *uint  `json:"defaultJobId"`
	IsActive     *bool  `json:"isActive"`
}

type IEmployeeService interface {
	List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	Get(ctx context.Context, id uint) (*models.Employee, error)
	Create(ctx context.Context, actorID uint, input EmployeeInput) (*models.Employee, error)
	Update(ctx context.Context, actorID uint, id uint, input EmployeeInput) (*models.Employee, error)
	Deactivate(ctx context.Context, actorID uint, id uint) error
}

type EmployeeService struct {
	db        *gorm.DB
	employees repositories.IEmployeeRepository
	jobs      repositories.IJobRepository
}

func NewEmployeeService(db *gorm.DB) IEmployeeService {
	return &EmployeeService{
		db:        db,
		employees: repositories.NewEmployeeRepository(db),
		jobs:      repositories.NewJobRepository(db),
	}
}

func (s *EmployeeService) List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	employees, total, err := s.employees.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, ErrTimeClockFailed
	}
	return queryparams.NewPaginatedResult(employees, total, params), nil
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*models.Employee, error) {
	emp, err := s.employees.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, ErrTimeClockFailed
	}
	return emp, nil
}

func (s *EmployeeService) checkPINFree(ctx context.Context, pin string, excludeID uint) error {
	other, err := findEmployeeByPIN(ctx, s.employees, pin, excludeID)
	if err != nil {
		return ErrTimeClockFailed
	}
	if other != nil {
		return ErrPINInUse
	}
	return nil
}

func (s *EmployeeService) Create(ctx context.Context, actorID uint, input EmployeeInput) (*models.Employee, error) {
	if err := validation.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeClockInvalidInput, err)
	}
	if input.PIN == "" {
		return nil, fmt.Errorf("%w: pin is required", ErrTimeClockInvalidInput)
	}
	if input.DefaultJobID != nil {
		if err := ensureActiveJob(ctx, s.jobs, *input.DefaultJobID); err != nil {
			return nil, err
		}
	}
	if err := s.checkPINFree(ctx, input.PIN, 0); err != nil {
		return nil, err
	}
	hash, err := HashPIN(input.PIN)
	if err != nil {
		return nil, ErrTimeClockFailed
	}

	ctx = models.ContextWithUserID(ctx, actorID)
	emp := &models.Employee{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PinHash:      hash,
		PinLookup:    pinDigest(input.PIN),
		IsActive:     true,
		DefaultJobID: input.DefaultJobID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repositories.ContextWithTx(ctx, tx)
		number, err := s.employees.NextEmployeeNumber(txCtx)
		if err != nil {
			return err
		}
		emp.EmployeeNumber = number
		return s.employees.Create(txCtx, emp)
	})
	if err != nil {
		configslog.Log.Error("Çalışan oluşturulamadı", zap.Uint("actor_id", actorID), zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	configslog.Log.Info("Çalışan oluşturuldu", zap.Uint("employee_id", emp.ID), zap.Uint("employee_number", emp.EmployeeNumber))
	return emp, nil
}

func (s *EmployeeService) Update(ctx context.Context, actorID uint, id uint, input EmployeeInput) (*models.Employee, error) {
	if err := validation.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeClockInvalidInput, err)
	}
	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Pasifken eski PIN'i başka bir çalışana verilmiş olabilir; yeniden aktifleşmede yeni PIN istenir.
	reactivating := !emp.IsActive && input.IsActive != nil && *input.IsActive
	if reactivating && input.PIN == "" {
		return nil, fmt.Errorf("%w: a new pin is required when reactivating an employee", ErrTimeClockInvalidInput)
	}

	emp.FirstName = strings.TrimSpace(input.FirstName)
	emp.LastName = strings.TrimSpace(input.LastName)
	if input.IsActive != nil {
		emp.IsActive = *input.IsActive
	}
	if input.DefaultJobID != nil {
		if *input.DefaultJobID == 0 {
			emp.DefaultJobID = nil
		} else {
			if err := ensureActiveJob(ctx, s.jobs, *input.DefaultJobID); err != nil {
				return nil, err
			}
			emp.DefaultJobID = input.DefaultJobID
		}
	}
	emp.DefaultJob = nil

	if input.PIN != "" {
		if err := s.checkPINFree(ctx, input.PIN, emp.ID); err != nil {
			return nil, err
		}
		hash, err := HashPIN(input.PIN)
		if err != nil {
			return nil, ErrTimeClockFailed
		}
		emp.PinHash = hash
		emp.PinLookup = pinDigest(input.PIN)
	}

	if err := s.employees.Update(models.ContextWithUserID(ctx, actorID), emp); err != nil {
		configslog.Log.Error("Çalışan güncellenemedi", zap.Uint("employee_id", id), zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	return emp, nil
}

func (s *EmployeeService) Deactivate(ctx context.Context, actorID uint, id uint) error {
	emp, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !emp.IsActive {
		return nil
	}
	emp.IsActive = false
	emp.DefaultJob = nil
	if err := s.employees.Update(models.ContextWithUserID(ctx, actorID), emp); err != nil {
		configslog.Log.Error("Çalışan pasifleştirilemedi", zap.Uint("employee_id", id), zap.Error(err))
		return ErrTimeClockFailed
	}
	configslog.Log.Info("Çalışan pasifleştirildi", zap.Uint("employee_id", id), zap.Uint("actor_id", actorID))
	return nil
}

var _ IEmployeeService = (*EmployeeService)(nil)
