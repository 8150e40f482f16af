package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

var defaultThresholds = Thresholds{Daily: 8, Weekly: 40, Monthly: 160}

func TestBuild_DailyOvertime(t *testing.T) {
	opts := Options{Location: time.UTC, WeekStartDay: time.Monday, Thresholds: defaultThresholds, Now: at("2024-01-31T00:00:00Z")}
	entries := []Entry{
		{EmployeeID: 1, ClockIn: at("2024-01-08T08:00:00Z"), ClockOut: ptr(at("2024-01-08T12:00:00Z"))},
		{EmployeeID: 1, ClockIn: at("2024-01-08T13:00:00Z"), ClockOut: ptr(at("2024-01-08T18:30:00Z"))},
		{EmployeeID: 1, ClockIn: at("2024-01-09T09:00:00Z"), ClockOut: ptr(at("2024-01-09T17:00:00Z"))},
	}
	r := Build(opts, []Employee{{ID: 1, Number: 1001, Name: "Ana Diaz"}}, entries)

	require.Len(t, r.Employees, 1)
	emp := r.Employees[0]
	assert.Equal(t, "Ana Diaz", emp.Name)
	require.Len(t, emp.Daily, 2)

	assert.Equal(t, "2024-01-08", emp.Daily[0].Key)
	assert.Equal(t, 9.5, emp.Daily[0].Hours)
	assert.True(t, emp.Daily[0].Overtime)
	assert.Equal(t, 1.5, emp.Daily[0].OvertimeHours)
	assert.Equal(t, 2, emp.Daily[0].EntryCount)

	assert.Equal(t, 8.0, emp.Daily[1].Hours)
	assert.False(t, emp.Daily[1].Overtime, "eşiğe eşit olmak fazla mesai değildir")

	require.Len(t, emp.Weekly, 1)
	assert.Equal(t, "2024-01-08", emp.Weekly[0].Start)
	assert.Equal(t, "2024-01-14", emp.Weekly[0].End)
	assert.Equal(t, 17.5, emp.Weekly[0].Hours)

	require.Len(t, emp.Monthly, 1)
	assert.Equal(t, "2024-01", emp.Monthly[0].Key)
	assert.Equal(t, "2024-01-31", emp.Monthly[0].End)
	assert.Equal(t, 17.5, emp.TotalHours)
	assert.Equal(t, 17.5, r.TotalHours)
}

func TestBuild_WeeklyOvertimeAndWeekStart(t *testing.T) {
	var entries []Entry
	// Pazar 2024-01-07'den başlayıp 6 gün boyunca günde 7.5 saat
	for i := 0; i < 6; i++ {
		start := at("2024-01-07T09:00:00Z").AddDate(0, 0, i)
		entries = append(entries, Entry{EmployeeID: 2, ClockIn: start, ClockOut: ptr(start.Add(450 * time.Minute))})
	}

	sunday := Build(Options{Location: time.UTC, WeekStartDay: time.Sunday, Thresholds: defaultThresholds, Now: at("2024-02-01T00:00:00Z")}, nil, entries)
	require.Len(t, sunday.Employees[0].Weekly, 1)
	w := sunday.Employees[0].Weekly[0]
	assert.Equal(t, "2024-01-07", w.Key)
	assert.Equal(t, 45.0, w.Hours)
	assert.True(t, w.Overtime)
	assert.Equal(t, 5.0, w.OvertimeHours)

	monday := Build(Options{Location: time.UTC, WeekStartDay: time.Monday, Thresholds: defaultThresholds, Now: at("2024-02-01T00:00:00Z")}, nil, entries)
	weeks := monday.Employees[0].Weekly
	require.Len(t, weeks, 2)
	assert.Equal(t, "2024-01-01", weeks[0].Key)
	assert.Equal(t, 7.5, weeks[0].Hours)
	assert.Equal(t, "2024-01-08", weeks[1].Key)
	assert.Equal(t, 37.5, weeks[1].Hours)
	assert.False(t, weeks[1].Overtime)
}

func TestBuild_LocalDateAttributionAcrossMidnight(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-01-10 22:00 New York → 2024-01-11 03:00 UTC, ertesi gün 02:00 yerelde çıkış
	entries := []Entry{{EmployeeID: 3, ClockIn: at("2024-01-11T03:00:00Z"), ClockOut: ptr(at("2024-01-11T07:00:00Z"))}}
	r := Build(Options{Location: ny, WeekStartDay: time.Monday, Thresholds: defaultThresholds, Now: at("2024-02-01T00:00:00Z")}, nil, entries)

	require.Len(t, r.Employees[0].Daily, 1)
	assert.Equal(t, "2024-01-10", r.Employees[0].Daily[0].Key)
	assert.Equal(t, 4.0, r.Employees[0].Daily[0].Hours)
	assert.Equal(t, "America/New_York", r.Timezone)
}

func TestBuild_OpenEntryCountsUntilNow(t *testing.T) {
	now := at("2024-01-15T12:20:00Z")
	entries := []Entry{{EmployeeID: 4, ClockIn: at("2024-01-15T09:00:00Z")}}
	r := Build(Options{Location: time.UTC, WeekStartDay: time.Monday, Thresholds: defaultThresholds, Now: now}, nil, entries)

	emp := r.Employees[0]
	assert.True(t, emp.Open)
	assert.True(t, emp.Daily[0].Open)
	assert.Equal(t, 3.33, emp.Daily[0].Hours)
}

func TestBuild_MonthlyOvertimeAndOrdering(t *testing.T) {
	var entries []Entry
	for i := 0; i < 20; i++ {
		start := at("2024-03-01T08:00:00Z").AddDate(0, 0, i)
		entries = append(entries, Entry{EmployeeID: 9, ClockIn: start, ClockOut: ptr(start.Add(8*time.Hour + 30*time.Minute))})
	}
	entries = append(entries, Entry{EmployeeID: 5, ClockIn: at("2024-03-01T08:00:00Z"), ClockOut: ptr(at("2024-03-01T09:00:00Z"))})

	employees := []Employee{{ID: 9, Number: 1001, Name: "First"}, {ID: 5, Number: 1002, Name: "Second"}}
	r := Build(Options{Location: time.UTC, WeekStartDay: time.Monday, Thresholds: defaultThresholds, Now: at("2024-04-01T00:00:00Z")}, employees, entries)

	require.Len(t, r.Employees, 2)
	assert.Equal(t, uint(1001), r.Employees[0].EmployeeNumber)
	month := r.Employees[0].Monthly[0]
	assert.Equal(t, 170.0, month.Hours)
	assert.True(t, month.Overtime)
	assert.Equal(t, 10.0, month.OvertimeHours)
	assert.Equal(t, 171.0, r.TotalHours)
}

func TestWeekStart(t *testing.T) {
	wed := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), WeekStart(wed, time.Monday))
	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), WeekStart(wed, time.Sunday))
	assert.Equal(t, wed, WeekStart(wed, time.Wednesday))
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), WeekStart(wed, time.Thursday))
}
