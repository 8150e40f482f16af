package services

import (
	"context"
	"fmt"
	"time"

	"salonsuite/configs/configslog"
	"salonsuite/pkg/hours"
	"salonsuite/pkg/xlsxexport"
	"salonsuite/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const reportDateLayout = "2006-01-02"

// maxReportDays tek raporda izin verilen en uzun aralık.
const maxReportDays = 366

type IHoursReportService interface {
	HoursReport(ctx context.Context, from, to string, employeeID *uint) (*hours.Report, error)
	ExportHoursReport(ctx context.Context, from, to string, employeeID *uint) ([]byte, error)
}

type HoursReportService struct {
	entries  repositories.ITimeEntryRepository
	settings repositories.ISettingsRepository
}

func NewHoursReportService(db *gorm.DB) IHoursReportService {
	return &HoursReportService{
		entries:  repositories.NewTimeEntryRepository(db),
		settings: repositories.NewSettingsRepository(db),
	}
}

// HoursReport [from, to] yerel günleri arasındaki girişleri raporlar.
func (s *HoursReportService) HoursReport(ctx context.Context, from, to string, employeeID *uint) (*hours.Report, error) {
	overtime, err := s.settings.GetOvertime(ctx)
	if err != nil {
		return nil, ErrTimeClockFailed
	}
	location, err := s.settings.GetLocation(ctx)
	if err != nil {
		return nil, ErrTimeClockFailed
	}
	loc := location.Location()

	start, err := time.ParseInLocation(reportDateLayout, from, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrTimeClockInvalidInput)
	}
	end, err := time.ParseInLocation(reportDateLayout, to, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrTimeClockInvalidInput)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrTimeClockInvalidInput)
	}
	if end.Sub(start) > maxReportDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range may not exceed %d days", ErrTimeClockInvalidInput, maxReportDays)
	}

	fromUTC := start.UTC()
	toUTC := end.AddDate(0, 0, 1).UTC()
	entries, err := s.entries.FindAll(ctx, repositories.TimeEntryFilter{EmployeeID: employeeID, From: &fromUTC, To: &toUTC})
	if err != nil {
		configslog.Log.Error("Rapor için zaman kayıtları okunamadı", zap.Error(err))
		return nil, ErrTimeClockFailed
	}

	seen := make(map[uint]bool)
	var employees []hours.Employee
	input := make([]hours.Entry, 0, len(entries))
	for _, e := range entries {
		input = append(input, hours.Entry{EmployeeID: e.EmployeeID, ClockIn: e.ClockIn, ClockOut: e.ClockOut})
		if e.Employee != nil && !seen[e.EmployeeID] {
			seen[e.EmployeeID] = true
			employees = append(employees, hours.Employee{ID: e.EmployeeID, Number: e.Employee.EmployeeNumber, Name: e.Employee.FullName()})
		}
	}

	return hours.Build(hours.Options{
		Location:     loc,
		WeekStartDay: location.WeekStartDay,
		Thresholds: hours.Thresholds{
			Daily:   overtime.DailyThresholdHours,
			Weekly:  overtime.WeeklyThresholdHours,
			Monthly: overtime.MonthlyThresholdHours,
		},
		Now: timeNow(),
	}, employees, input), nil
}

func (s *HoursReportService) ExportHoursReport(ctx context.Context, from, to string, employeeID *uint) ([]byte, error) {
	report, err := s.HoursReport(ctx, from, to, employeeID)
	if err != nil {
		return nil, err
	}
	data, err := xlsxexport.HoursReport(report)
	if err != nil {
		configslog.Log.Error("Saat raporu XLSX'e yazılamadı", zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	return data, nil
}

var _ IHoursReportService = (*HoursReportService)(nil)
