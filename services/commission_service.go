package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/commission"
	"salonsuite/pkg/phorest"
	"salonsuite/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CommissionServiceError string

func (e CommissionServiceError) Error() string { return string(e) }

const (
	ErrCommissionInvalidInput CommissionServiceError = "invalid date range"
	ErrCommissionUpstream     CommissionServiceError = "could not load data from the salon system"
	ErrCommissionCacheFailed  CommissionServiceError = "commission cache is unavailable"
)

const (
	DefaultCommissionCacheTTL = time.Hour
	DefaultCommissionBudget   = 500
)

// SalonDataSource komisyon hesabı için dış salon API'si. *phorest.APIClient bunu uygular.
type SalonDataSource interface {
	ListBranches(ctx context.Context) ([]phorest.Branch, error)
	ListStaff(ctx context.Context, branchID string) ([]phorest.Staff, error)
	ListAppointments(ctx context.Context, branchID string, from, to time.Time) ([]phorest.Appointment, error)
	GetClients(ctx context.Context, clientIDs []string) ([]phorest.Client, error)
}

type ICommissionService interface {
	Calculate(ctx context.Context, startDate, endDate string, refresh bool) (*commission.Result, error)
	ClearExpired(ctx context.Context) (int64, error)
}

type CommissionServiceOptions struct {
	Rate          decimal.Decimal
	CacheTTL      time.Duration
	RequestBudget int
	Now           func() time.Time
}

type CommissionService struct {
	source SalonDataSource
	cache  repositories.ICommissionCacheRepository
	opts   CommissionServiceOptions
}

func NewCommissionService(source SalonDataSource, cache repositories.ICommissionCacheRepository, opts CommissionServiceOptions) ICommissionService {
	if opts.Rate.IsZero() {
		opts.Rate = commission.DefaultRate
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCommissionCacheTTL
	}
	if opts.RequestBudget <= 0 {
		opts.RequestBudget = DefaultCommissionBudget
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &CommissionService{source: source, cache: cache, opts: opts}
}

// CacheKey tarih aralığı için önbellek anahtarı.
func CacheKey(start, end string) string {
	return start + "_" + end
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(phorest.DateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate must be YYYY-MM-DD", ErrCommissionInvalidInput)
	}
	end, err := time.Parse(phorest.DateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endDate must be YYYY-MM-DD", ErrCommissionInvalidInput)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate must not be after endDate", ErrCommissionInvalidInput)
	}
	return start, end, nil
}

func (s *CommissionService) Calculate(ctx context.Context, startDate, endDate string, refresh bool) (*commission.Result, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	key := CacheKey(startDate, endDate)
	now := s.opts.Now()

	if !refresh {
		if cached, ok := s.fromCache(ctx, key, now); ok {
			return cached, nil
		}
	}

	result, err := s.compute(ctx, start, end, now)
	if err != nil {
		return nil, err
	}

	s.store(ctx, key, startDate, endDate, result, now)
	return result, nil
}

// store sonucu önbelleğe yazar. Yazma hatası hesaplanan sonucu geçersiz kılmaz; yalnızca loglanır.
func (s *CommissionService) store(ctx context.Context, key, startDate, endDate string, result *commission.Result, now time.Time) {
	payload, err := json.Marshal(result)
	if err != nil {
		configslog.Log.Warn("Komisyon sonucu serileştirilemedi, önbelleğe yazılmadı", zap.String("key", key), zap.Error(err))
		return
	}
	entry := &models.CommissionCache{
		RangeKey:  key,
		StartDate: startDate,
		EndDate:   endDate,
		Payload:   string(payload),
		ExpiresAt: now.Add(s.opts.CacheTTL),
	}
	if err := s.cache.Upsert(ctx, entry); err != nil {
		configslog.Log.Warn("Komisyon önbelleği yazılamadı", zap.String("key", key), zap.Error(err))
	}
}

// fromCache önbellek okuma hatalarını yutar; hesaplama yeniden yapılır.
func (s *CommissionService) fromCache(ctx context.Context, key string, now time.Time) (*commission.Result, bool) {
	entry, err := s.cache.FindByRangeKey(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			configslog.Log.Warn("Komisyon önbelleği okunamadı", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if !entry.IsFresh(now) {
		return nil, false
	}
	var result commission.Result
	if err := json.Unmarshal([]byte(entry.Payload), &result); err != nil {
		configslog.Log.Warn("Bozuk komisyon önbelleği kaydı", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	result.Cached = true
	return &result, true
}

func (s *CommissionService) compute(ctx context.Context, start, end, now time.Time) (*commission.Result, error) {
	ctx = phorest.WithRequestBudget(ctx, s.opts.RequestBudget)
	upstream := func(msg string, err error, fields ...zap.Field) error {
		configslog.Log.Error(msg, append(fields, zap.Error(err))...)
		return fmt.Errorf("%w: %v", ErrCommissionUpstream, err)
	}

	branches, err := s.source.ListBranches(ctx)
	if err != nil {
		return nil, upstream("Şubeler alınamadı", err)
	}

	staff := make(map[string][]phorest.Staff, len(branches))
	var appointments []phorest.Appointment
	for _, b := range branches {
		list, err := s.source.ListStaff(ctx, b.BranchID)
		if err != nil {
			return nil, upstream("Personel listesi alınamadı", err, zap.String("branchId", b.BranchID))
		}
		staff[b.BranchID] = list

		appts, err := s.source.ListAppointments(ctx, b.BranchID, start, end)
		if err != nil {
			return nil, upstream("Randevular alınamadı", err, zap.String("branchId", b.BranchID))
		}
		for _, a := range appts {
			if commission.Billable(a) {
				appointments = append(appointments, a)
			}
		}
	}

	var clients []phorest.Client
	if ids := distinctClientIDs(appointments); len(ids) > 0 {
		clients, err = s.source.GetClients(ctx, ids)
		if err != nil {
			return nil, upstream("Müşteriler alınamadı", err, zap.Int("clientCount", len(ids)))
		}
	}

	result := commission.Aggregate(commission.Input{
		Start:        start,
		End:          end,
		Rate:         s.opts.Rate,
		Branches:     branches,
		Staff:        staff,
		Appointments: appointments,
		Clients:      clients,
	}, now)
	configslog.Log.Info("Komisyon hesaplandı",
		zap.String("start", result.StartDate),
		zap.String("end", result.EndDate),
		zap.Int("appointments", result.AppointmentCount),
		zap.String("commission", result.Commission.StringFixed(2)),
	)
	return result, nil
}

func distinctClientIDs(appointments []phorest.Appointment) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, a := range appointments {
		if _, ok := seen[a.ClientID]; ok {
			continue
		}
		seen[a.ClientID] = struct{}{}
		ids = append(ids, a.ClientID)
	}
	sort.Strings(ids)
	return ids
}

func (s *CommissionService) ClearExpired(ctx context.Context) (int64, error) {
	n, err := s.cache.DeleteExpired(ctx, s.opts.Now())
	if err != nil {
		return 0, ErrCommissionCacheFailed
	}
	configslog.Log.Info("Süresi dolmuş komisyon önbelleği temizlendi", zap.Int64("rows", n))
	return n, nil
}

var _ SalonDataSource = (*phorest.APIClient)(nil)
