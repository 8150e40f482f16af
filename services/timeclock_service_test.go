package services

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"salonsuite/database/dbtest"
	"salonsuite/models"
	"salonsuite/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func freezeTime(t *testing.T, at time.Time) *time.Time {
	t.Helper()
	current := at
	prev := timeNow
	timeNow = func() time.Time { return current }
	t.Cleanup(func() { timeNow = prev })
	return &current
}

func createEmployee(t *testing.T, db *gorm.DB, first, pin string) *models.Employee {
	t.Helper()
	emp, err := NewEmployeeService(db).Create(context.Background(), 1, EmployeeInput{FirstName: first, LastName: "Test", PIN: pin})
	require.NoError(t, err)
	return emp
}

func TestKiosk_ClockInOutFlow(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	now := freezeTime(t, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC))
	emp := createEmployee(t, db, "Ana", "1234")
	kiosk := NewKioskService(db)

	status, err := kiosk.Identify(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, status.Employee.ID)
	assert.False(t, status.ClockedIn)

	entry, err := kiosk.ClockIn(ctx, "1234", nil)
	require.NoError(t, err)
	assert.True(t, entry.IsOpen())
	assert.Equal(t, models.TimeEntrySourceKiosk, entry.Source)

	_, err = kiosk.ClockIn(ctx, "1234", nil)
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)

	*now = now.Add(8 * time.Hour)
	closed, err := kiosk.ClockOut(ctx, "1234", " done ")
	require.NoError(t, err)
	require.NotNil(t, closed.ClockOut)
	assert.Equal(t, 8*time.Hour, closed.Duration(*now))
	assert.Equal(t, "done", closed.Notes)

	_, err = kiosk.ClockOut(ctx, "1234", "")
	assert.ErrorIs(t, err, ErrNotClockedIn)
}

func TestKiosk_UnknownOrMalformedPIN(t *testing.T) {
	db := dbtest.New(t)
	createEmployee(t, db, "Ana", "1234")
	kiosk := NewKioskService(db)

	for _, pin := range []string{"9999", "12", "abcd", ""} {
		_, err := kiosk.Identify(context.Background(), pin)
		assert.ErrorIs(t, err, ErrInvalidPIN, pin)
	}
}

func TestKiosk_InactiveEmployeeCannotPunch(t *testing.T) {
	db := dbtest.New(t)
	emp := createEmployee(t, db, "Ana", "1234")
	require.NoError(t, NewEmployeeService(db).Deactivate(context.Background(), 1, emp.ID))

	_, err := NewKioskService(db).Punch(context.Background(), "1234")
	assert.ErrorIs(t, err, ErrInvalidPIN)
}

func TestKiosk_PunchToggles(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	freezeTime(t, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC))
	createEmployee(t, db, "Ana", "123456")
	kiosk := NewKioskService(db)

	first, err := kiosk.Punch(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "clock_in", first.Action)

	second, err := kiosk.Punch(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "clock_out", second.Action)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)

	third, err := kiosk.Punch(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "clock_in", third.Action)
	assert.NotEqual(t, first.Entry.ID, third.Entry.ID)
}

func TestKiosk_ClockInWithJob(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	createEmployee(t, db, "Ana", "1234")
	jobs := NewJobService(db)
	job, err := jobs.Create(ctx, 1, JobInput{Name: "Color"})
	require.NoError(t, err)
	kiosk := NewKioskService(db)

	missing := uint(999)
	_, err = kiosk.ClockIn(ctx, "1234", &missing)
	assert.ErrorIs(t, err, ErrJobNotFound)

	require.NoError(t, jobs.Deactivate(ctx, 1, job.ID))
	_, err = kiosk.ClockIn(ctx, "1234", &job.ID)
	assert.ErrorIs(t, err, ErrJobInactive)
}

func TestEmployeeService_NumbersAndPINUniqueness(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := NewEmployeeService(db)

	a := createEmployee(t, db, "Ana", "1234")
	b := createEmployee(t, db, "Ben", "5678")
	assert.Equal(t, uint(1), a.EmployeeNumber)
	assert.Equal(t, uint(2), b.EmployeeNumber)
	assert.NotEqual(t, "1234", a.PinHash)

	_, err := svc.Create(ctx, 1, EmployeeInput{FirstName: "Cem", LastName: "X", PIN: "1234"})
	assert.ErrorIs(t, err, ErrPINInUse)

	_, err = svc.Update(ctx, 1, b.ID, EmployeeInput{FirstName: "Ben", LastName: "Test", PIN: "1234"})
	assert.ErrorIs(t, err, ErrPINInUse)

	_, err = svc.Create(ctx, 1, EmployeeInput{FirstName: "Cem", LastName: "X"})
	assert.ErrorIs(t, err, ErrTimeClockInvalidInput)

	_, err = svc.Create(ctx, 1, EmployeeInput{FirstName: "Cem", LastName: "X", PIN: "12"})
	assert.ErrorIs(t, err, ErrTimeClockInvalidInput)

	// pasif çalışanın PIN'i yeniden kullanılabilir
	require.NoError(t, svc.Deactivate(ctx, 1, a.ID))
	c, err := svc.Create(ctx, 1, EmployeeInput{FirstName: "Cem", LastName: "X", PIN: "1234"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), c.EmployeeNumber)

	active := true
	_, err = svc.Update(ctx, 1, a.ID, EmployeeInput{FirstName: "Ana", LastName: "Test", IsActive: &active})
	assert.ErrorIs(t, err, ErrTimeClockInvalidInput)
	_, err = svc.Update(ctx, 1, a.ID, EmployeeInput{FirstName: "Ana", LastName: "Test", IsActive: &active, PIN: "4321"})
	require.NoError(t, err)
}

func TestTimeEntryService_ManualEntries(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	emp := createEmployee(t, db, "Ana", "1234")
	svc := NewTimeEntryService(db)

	in := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	out := in.Add(-time.Hour)
	_, err := svc.Create(ctx, 1, TimeEntryInput{EmployeeID: emp.ID, ClockIn: in, ClockOut: &out})
	assert.ErrorIs(t, err, ErrTimeClockInvalidInput)

	open, err := svc.Create(ctx, 1, TimeEntryInput{EmployeeID: emp.ID, ClockIn: in})
	require.NoError(t, err)
	assert.Equal(t, models.TimeEntrySourceAdmin, open.Source)

	_, err = svc.Create(ctx, 1, TimeEntryInput{EmployeeID: emp.ID, ClockIn: in.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrOpenEntryExists)

	closedOut := in.Add(4 * time.Hour)
	closed, err := svc.Create(ctx, 1, TimeEntryInput{EmployeeID: emp.ID, ClockIn: in.AddDate(0, 0, -1), ClockOut: &closedOut})
	require.NoError(t, err)

	// kapalı kaydı açık hale getirmek ikinci bir açık kayıt yaratır
	_, err = svc.Update(ctx, 1, closed.ID, TimeEntryInput{ClockIn: closed.ClockIn})
	assert.ErrorIs(t, err, ErrOpenEntryExists)

	// açık kaydın kendisi açık kalarak güncellenebilir
	_, err = svc.Update(ctx, 1, open.ID, TimeEntryInput{ClockIn: in.Add(30 * time.Minute), Notes: "late"})
	require.NoError(t, err)

	empID := emp.ID
	list, err := svc.List(ctx, repositories.TimeEntryFilter{EmployeeID: &empID})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Delete(ctx, 1, closed.ID))
	assert.ErrorIs(t, svc.Delete(ctx, 1, closed.ID), ErrTimeEntryNotFound)
}

func TestHoursReportService_UsesSettings(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	freezeTime(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	emp := createEmployee(t, db, "Ana", "1234")

	settings := NewTimeClockSettingsService(db)
	_, err := settings.UpdateOvertime(ctx, 1, OvertimeInput{DailyThresholdHours: 6, WeeklyThresholdHours: 40, MonthlyThresholdHours: 160})
	require.NoError(t, err)
	_, err = settings.UpdateLocation(ctx, 1, LocationInput{LocationName: "Main", Timezone: "America/New_York", WeekStartDay: 0})
	require.NoError(t, err)
	_, err = settings.UpdateLocation(ctx, 1, LocationInput{LocationName: "Main", Timezone: "Nowhere/City"})
	assert.ErrorIs(t, err, ErrTimeClockInvalidInput)

	entries := NewTimeEntryService(db)
	// yerel 2024-01-10 22:00 → 2024-01-11 05:00 UTC çıkış
	in := time.Date(2024, 1, 11, 3, 0, 0, 0, time.UTC)
	out := in.Add(7 * time.Hour)
	_, err = entries.Create(ctx, 1, TimeEntryInput{EmployeeID: emp.ID, ClockIn: in, ClockOut: &out})
	require.NoError(t, err)

	report, err := NewHoursReportService(db).HoursReport(ctx, "2024-01-01", "2024-01-10", nil)
	require.NoError(t, err)
	require.Len(t, report.Employees, 1)
	day := report.Employees[0].Daily[0]
	assert.Equal(t, "2024-01-10", day.Key)
	assert.Equal(t, 7.0, day.Hours)
	assert.True(t, day.Overtime)
	assert.Equal(t, 1.0, day.OvertimeHours)
	assert.Equal(t, "2024-01-07", report.Employees[0].Weekly[0].Key, "hafta pazar günü başlar")

	empty, err := NewHoursReportService(db).HoursReport(ctx, "2024-01-11", "2024-01-12", nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Employees)

	_, err = NewHoursReportService(db).HoursReport(ctx, "2024-02-01", "2024-01-01", nil)
	assert.ErrorIs(t, err, ErrTimeClockInvalidInput)

	xlsx, err := NewHoursReportService(db).ExportHoursReport(ctx, "2024-01-01", "2024-01-31", nil)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(xlsx[:2]))
}

func TestJobService_CRUD(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	jobs := NewJobService(db)

	color, err := jobs.Create(ctx, 1, JobInput{Name: " Color "})
	require.NoError(t, err)
	assert.Equal(t, "Color", color.Name)
	assert.True(t, color.IsActive)

	_, err = jobs.Create(ctx, 1, JobInput{Name: "Color"})
	assert.ErrorIs(t, err, ErrJobNameTaken)
	_, err = jobs.Create(ctx, 1, JobInput{Name: ""})
	assert.ErrorIs(t, err, ErrTimeClockInvalidInput)

	cut, err := jobs.Create(ctx, 1, JobInput{Name: "Cut"})
	require.NoError(t, err)
	_, err = jobs.Update(ctx, 1, cut.ID, JobInput{Name: "Color"})
	assert.ErrorIs(t, err, ErrJobNameTaken)

	require.NoError(t, jobs.Deactivate(ctx, 1, color.ID))
	active, err := jobs.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Cut", active[0].Name)

	all, err := jobs.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.ErrorIs(t, jobs.Deactivate(ctx, 1, 999), ErrJobNotFound)
}

func TestTimeClockSettingsService(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	svc := NewTimeClockSettingsService(db)

	current, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8.0, current.Overtime.DailyThresholdHours)
	assert.Equal(t, "UTC", current.Location.Timezone)
	assert.Equal(t, time.Monday, current.Location.WeekStartDay)

	_, err = svc.UpdateOvertime(ctx, 1, OvertimeInput{DailyThresholdHours: 0, WeeklyThresholdHours: 40, MonthlyThresholdHours: 160})
	assert.ErrorIs(t, err, ErrTimeClockInvalidInput)
	_, err = svc.UpdateLocation(ctx, 1, LocationInput{LocationName: "Downtown", Timezone: "Mars/Olympus"})
	assert.ErrorIs(t, err, ErrTimeClockInvalidInput)

	_, err = svc.UpdateOvertime(ctx, 1, OvertimeInput{DailyThresholdHours: 9, WeeklyThresholdHours: 45, MonthlyThresholdHours: 180})
	require.NoError(t, err)
	_, err = svc.UpdateLocation(ctx, 1, LocationInput{LocationName: "Downtown", Timezone: "Europe/Istanbul", WeekStartDay: 0})
	require.NoError(t, err)

	updated, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9.0, updated.Overtime.DailyThresholdHours)
	assert.Equal(t, 45.0, updated.Overtime.WeeklyThresholdHours)
	assert.Equal(t, "Europe/Istanbul", updated.Location.Timezone)
	assert.Equal(t, time.Sunday, updated.Location.WeekStartDay)
}

func TestKiosk_PINLookupUsesDigest(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	kiosk := NewKioskService(db)

	var last *models.Employee
	for i, pin := range []string{"1111", "2222", "3333", "4444", "5555"} {
		last = createEmployee(t, db, "Emp"+string(rune('A'+i)), pin)
	}

	var stored models.Employee
	require.NoError(t, db.First(&stored, last.ID).Error)
	assert.Equal(t, pinDigest("5555"), stored.PinLookup)
	assert.NotEqual(t, "5555", stored.PinLookup)
	assert.NotEqual(t, stored.PinHash, stored.PinLookup)

	status, err := kiosk.Identify(ctx, "5555")
	require.NoError(t, err)
	assert.Equal(t, last.ID, status.Employee.ID)

	// özet eşleşmezse bcrypt doğrulamasına hiç gelinmez
	require.NoError(t, db.Model(&models.Employee{}).Where("id = ?", last.ID).Update("pin_lookup", pinDigest("0000")).Error)
	_, err = kiosk.Identify(ctx, "5555")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	// özet eşleşse bile bcrypt doğrulaması gerekir
	require.NoError(t, db.Model(&models.Employee{}).Where("id = ?", last.ID).Update("pin_lookup", pinDigest("9999")).Error)
	_, err = kiosk.Identify(ctx, "9999")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	updated, err := NewEmployeeService(db).Update(ctx, 1, last.ID, EmployeeInput{FirstName: "EmpE", LastName: "Test", PIN: "6666"})
	require.NoError(t, err)
	assert.Equal(t, pinDigest("6666"), updated.PinLookup)
	status, err = kiosk.Identify(ctx, "6666")
	require.NoError(t, err)
	assert.Equal(t, last.ID, status.Employee.ID)
}
