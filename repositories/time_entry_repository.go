package repositories

import (
	"context"
	"errors"
	"time"

	"salonsuite/configs/configslog"
	"salonsuite/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TimeEntryFilter zaman kayıtlarını listelemek için filtre. Zaman aralığı clock_in'e uygulanır.
type TimeEntryFilter struct {
	EmployeeID *uint
	From       *time.Time
	To         *time.Time // hariç
	OnlyOpen   bool
}

type ITimeEntryRepository interface {
	Create(ctx context.Context, entry *models.TimeEntry) error
	FindByID(ctx context.Context, id uint) (*models.TimeEntry, error)
	FindOpenByEmployee(ctx context.Context, employeeID uint) (*models.TimeEntry, error)
	FindAll(ctx context.Context, filter TimeEntryFilter) ([]models.TimeEntry, error)
	Update(ctx context.Context, entry *models.TimeEntry) error
	Delete(ctx context.Context, entry *models.TimeEntry) error
}

type TimeEntryRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.TimeEntry]
}

func NewTimeEntryRepository(db *gorm.DB) ITimeEntryRepository {
	return &TimeEntryRepository{db: db, base: NewBaseRepository[models.TimeEntry](db)}
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	if entry == nil || entry.EmployeeID == 0 {
		return errors.New("çalışansız zaman kaydı oluşturulamaz")
	}
	return dbFromContext(ctx, r.db).Omit("Employee", "Job").Create(entry).Error
}

func (r *TimeEntryRepository) FindByID(ctx context.Context, id uint) (*models.TimeEntry, error) {
	return r.base.FindByID(ctx, id, "Employee", "Job")
}

// FindOpenByEmployee çalışanın en son açık kaydını döndürür.
func (r *TimeEntryRepository) FindOpenByEmployee(ctx context.Context, employeeID uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := dbFromContext(ctx, r.db).
		Where("employee_id = ? AND clock_out IS NULL", employeeID).
		Order("clock_in desc").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("TimeEntryRepository.FindOpenByEmployee: DB error", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return &entry, nil
}

func (r *TimeEntryRepository) FindAll(ctx context.Context, filter TimeEntryFilter) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	q := dbFromContext(ctx, r.db).Preload("Employee").Preload("Job").Order("clock_in asc")
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		q = q.Where("clock_in >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("clock_in < ?", *filter.To)
	}
	if filter.OnlyOpen {
		q = q.Where("clock_out IS NULL")
	}
	if err := q.Find(&entries).Error; err != nil {
		configslog.Log.Error("TimeEntryRepository.FindAll: DB error", zap.Error(err))
		return nil, err
	}
	return entries, nil
}

func (r *TimeEntryRepository) Update(ctx context.Context, entry *models.TimeEntry) error {
	if entry == nil || entry.ID == 0 {
		return errors.New("güncellenecek zaman kaydı geçerli değil")
	}
	return dbFromContext(ctx, r.db).Omit("Employee", "Job").Save(entry).Error
}

func (r *TimeEntryRepository) Delete(ctx context.Context, entry *models.TimeEntry) error {
	return r.base.Delete(ctx, entry)
}

var _ ITimeEntryRepository = (*TimeEntryRepository)(nil)
