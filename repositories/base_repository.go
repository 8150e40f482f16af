package repositories

import (
	"context"
	"errors"
	"strings"

	"salonsuite/pkg/queryparams"

	"gorm.io/gorm"
)

type txContextKey struct{}

// ContextWithTx işlemi context ile taşır; repository'ler getDB içinde bunu tercih eder.
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// dbFromContext context'te transaction varsa onu, yoksa verilen bağlantıyı döndürür.
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// IBaseRepository basit CRUD işlemleri için generik arayüz.
type IBaseRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uint, preloads ...string) (*T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entity *T) error
	FindPaginated(ctx context.Context, params queryparams.ListParams, scope func(*gorm.DB) *gorm.DB) ([]T, int64, error)
	SetAllowedSortColumns(columns []string)
}

type BaseRepository[T any] struct {
	db                 *gorm.DB
	allowedSortColumns map[string]bool
}

func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db, allowedSortColumns: map[string]bool{"id": true, "created_at": true}}
}

func (r *BaseRepository[T]) SetAllowedSortColumns(columns []string) {
	r.allowedSortColumns = make(map[string]bool, len(columns))
	for _, c := range columns {
		r.allowedSortColumns[c] = true
	}
}

func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	return dbFromContext(ctx, r.db).Create(entity).Error
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint, preloads ...string) (*T, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var entity T
	q := dbFromContext(ctx, r.db)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (r *BaseRepository[T]) Save(ctx context.Context, entity *T) error {
	return dbFromContext(ctx, r.db).Save(entity).Error
}

// Delete soft delete uygular; DeletedBy context'teki kullanıcıdan gelmez, çağıran ayarlamalı.
func (r *BaseRepository[T]) Delete(ctx context.Context, entity *T) error {
	result := dbFromContext(ctx, r.db).Delete(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindPaginated scope ile filtrelenmiş kayıtları sayfalayarak döndürür.
func (r *BaseRepository[T]) FindPaginated(ctx context.Context, params queryparams.ListParams, scope func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	params.Validate()
	var (
		items []T
		total int64
	)
	query := dbFromContext(ctx, r.db).Model(new(T))
	if scope != nil {
		query = scope(query)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []T{}, 0, nil
	}

	sortBy := params.SortBy
	if !r.allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}
	orderBy := strings.ToLower(params.OrderBy)
	query = query.Order(sortBy + " " + orderBy).Limit(params.PerPage).Offset(params.CalculateOffset())
	if err := query.Find(&items).Error; err != nil {
		return nil, total, err
	}
	return items, total, nil
}

var _ IBaseRepository[struct{}] = (*BaseRepository[struct{}])(nil)
