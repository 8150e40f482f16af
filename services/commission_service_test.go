package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonsuite/database/dbtest"
	"salonsuite/models"
	"salonsuite/pkg/phorest"
	"salonsuite/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSalon struct {
	calls        int
	appointments []phorest.Appointment
	clients      []phorest.Client
	failClients  bool
	requestedIDs []string
}

func (f *fakeSalon) ListBranches(ctx context.Context) ([]phorest.Branch, error) {
	f.calls++
	return []phorest.Branch{{BranchID: "b1", Name: "Downtown"}}, nil
}

func (f *fakeSalon) ListStaff(ctx context.Context, branchID string) ([]phorest.Staff, error) {
	return []phorest.Staff{{StaffID: "s1", FirstName: "Lena", LastName: "Cut"}}, nil
}

func (f *fakeSalon) ListAppointments(ctx context.Context, branchID string, from, to time.Time) ([]phorest.Appointment, error) {
	return f.appointments, nil
}

func (f *fakeSalon) GetClients(ctx context.Context, clientIDs []string) ([]phorest.Client, error) {
	f.requestedIDs = clientIDs
	if f.failClients {
		return nil, errors.New("503 from upstream")
	}
	return f.clients, nil
}

func price(v string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(v), Valid: true}
}

func newSalonFixture() *fakeSalon {
	return &fakeSalon{
		appointments: []phorest.Appointment{
			{AppointmentID: "a1", BranchID: "b1", AppointmentDate: "2024-01-05", StaffID: "s1", ClientID: "new", ServiceName: "Cut", Price: price("80.00")},
			{AppointmentID: "a2", BranchID: "b1", AppointmentDate: "2024-01-06", StaffID: "s1", ClientID: "old", ServiceName: "Color", Price: price("120.00")},
			{AppointmentID: "a3", BranchID: "b1", AppointmentDate: "2024-01-07", StaffID: "s1", ClientID: "new", ServiceName: "Blowdry", Price: price("35.50"), ActivationState: "CANCELED"},
			{AppointmentID: "a4", BranchID: "b1", AppointmentDate: "2024-01-07", StaffID: "s1", ClientID: "", ServiceName: "Walk-in", Price: price("20.00")},
		},
		clients: []phorest.Client{
			{ClientID: "new", FirstName: "Nia", LastName: "New", FirstVisit: "2024-01-05"},
			{ClientID: "old", FirstName: "Olga", LastName: "Old", FirstVisit: "2022-06-01"},
		},
	}
}

func TestCommission_CalculateAndCache(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	source := newSalonFixture()
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	svc := NewCommissionService(source, repositories.NewCommissionCacheRepository(db), CommissionServiceOptions{
		CacheTTL: time.Hour,
		Now:      func() time.Time { return now },
	})

	_, err := svc.Calculate(ctx, "2024-01-31", "2024-01-01", false)
	assert.ErrorIs(t, err, ErrCommissionInvalidInput)
	_, err = svc.Calculate(ctx, "01/01/2024", "2024-01-31", false)
	assert.ErrorIs(t, err, ErrCommissionInvalidInput)

	result, err := svc.Calculate(ctx, "2024-01-01", "2024-01-31", false)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, []string{"new", "old"}, source.requestedIDs)
	assert.Equal(t, 1, result.ClientCount)
	assert.Equal(t, 1, result.AppointmentCount)
	assert.Equal(t, "80.00", result.Revenue.StringFixed(2))
	assert.Equal(t, "16.00", result.Commission.StringFixed(2))

	cached, err := svc.Calculate(ctx, "2024-01-01", "2024-01-31", false)
	require.NoError(t, err)
	assert.True(t, cached.Cached)
	assert.Equal(t, 1, source.calls)
	assert.True(t, result.Commission.Equal(cached.Commission))

	refreshed, err := svc.Calculate(ctx, "2024-01-01", "2024-01-31", true)
	require.NoError(t, err)
	assert.False(t, refreshed.Cached)
	assert.Equal(t, 2, source.calls)

	now = now.Add(2 * time.Hour)
	_, err = svc.Calculate(ctx, "2024-01-01", "2024-01-31", false)
	require.NoError(t, err)
	assert.Equal(t, 3, source.calls, "expired entry recomputed")

	now = now.Add(2 * time.Hour)
	removed, err := svc.ClearExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestCommission_UpstreamFailure(t *testing.T) {
	db := dbtest.New(t)
	source := newSalonFixture()
	source.failClients = true
	svc := NewCommissionService(source, repositories.NewCommissionCacheRepository(db), CommissionServiceOptions{})

	_, err := svc.Calculate(context.Background(), "2024-01-01", "2024-01-31", false)
	assert.ErrorIs(t, err, ErrCommissionUpstream)

	_, err = repositories.NewCommissionCacheRepository(db).FindByRangeKey(context.Background(), CacheKey("2024-01-01", "2024-01-31"))
	assert.ErrorIs(t, err, repositories.ErrNotFound, "failed run is not cached")
}

// brokenCache okumada boş döner, yazmada hata verir.
type brokenCache struct {
	upserts int
}

func (c *brokenCache) FindByRangeKey(ctx context.Context, key string) (*models.CommissionCache, error) {
	return nil, repositories.ErrNotFound
}

func (c *brokenCache) Upsert(ctx context.Context, entry *models.CommissionCache) error {
	c.upserts++
	return errors.New("disk full")
}

func (c *brokenCache) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func TestCommission_CacheWriteFailureStillReturnsResult(t *testing.T) {
	source := newSalonFixture()
	cache := &brokenCache{}
	svc := NewCommissionService(source, cache, CommissionServiceOptions{CacheTTL: time.Hour})

	result, err := svc.Calculate(context.Background(), "2024-01-01", "2024-01-31", false)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.upserts)
	assert.False(t, result.Cached)
	assert.Equal(t, "16.00", result.Commission.StringFixed(2))
}
