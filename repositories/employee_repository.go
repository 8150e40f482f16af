package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IEmployeeRepository saat kartı çalışanları için arayüz.
type IEmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	FindByID(ctx context.Context, id uint) (*models.Employee, error)
	FindActiveByPinLookup(ctx context.Context, digest string) ([]models.Employee, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Employee, int64, error)
	NextEmployeeNumber(ctx context.Context) (uint, error)
	Update(ctx context.Context, employee *models.Employee) error
}

type EmployeeRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Employee]
}

func NewEmployeeRepository(db *gorm.DB) IEmployeeRepository {
	base := NewBaseRepository[models.Employee](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "employee_number", "first_name", "last_name"})
	return &EmployeeRepository{db: db, base: base}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee == nil || employee.EmployeeNumber == 0 {
		return errors.New("çalışan numarası olmadan kayıt oluşturulamaz")
	}
	return r.base.Create(ctx, employee)
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id uint) (*models.Employee, error) {
	return r.base.FindByID(ctx, id, "DefaultJob")
}

// FindActiveByPinLookup arama özeti eşleşen aktif çalışanları döndürür.
func (r *EmployeeRepository) FindActiveByPinLookup(ctx context.Context, digest string) ([]models.Employee, error) {
	var employees []models.Employee
	if digest == "" {
		return employees, nil
	}
	err := dbFromContext(ctx, r.db).
		Where("pin_lookup = ? AND is_active = ?", digest, true).
		Order("employee_number asc").
		Find(&employees).Error
	if err != nil {
		configslog.Log.Error("EmployeeRepository.FindActiveByPinLookup: DB error", zap.Error(err))
		return nil, err
	}
	return employees, nil
}

func (r *EmployeeRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Employee, int64, error) {
	return r.base.FindPaginated(ctx, params, func(q *gorm.DB) *gorm.DB {
		if params.Name != "" {
			like := "%" + strings.ToLower(params.Name) + "%"
			q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
		}
		if params.Status != "" {
			q = q.Where("is_active = ?", params.Status == "true")
		}
		return q
	})
}

// NextEmployeeNumber silinmişler dahil en büyük numaranın bir fazlasını verir.
func (r *EmployeeRepository) NextEmployeeNumber(ctx context.Context) (uint, error) {
	var max sql.NullInt64
	row := dbFromContext(ctx, r.db).Unscoped().Model(&models.Employee{}).Select("MAX(employee_number)").Row()
	if err := row.Scan(&max); err != nil {
		configslog.Log.Error("EmployeeRepository.NextEmployeeNumber: DB error", zap.Error(err))
		return 0, err
	}
	if !max.Valid {
		return 1, nil
	}
	return uint(max.Int64) + 1, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	if employee == nil || employee.ID == 0 {
		return errors.New("güncellenecek çalışan geçerli değil")
	}
	return dbFromContext(ctx, r.db).Omit("DefaultJob").Save(employee).Error
}

var _ IEmployeeRepository = (*EmployeeRepository)(nil)
