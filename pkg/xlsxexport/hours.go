// Package xlsxexport saat raporlarını excelize ile XLSX çalışma kitabına yazar.
package xlsxexport

import (
	"bytes"
	"fmt"

	"salonsuite/pkg/hours"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	SheetDaily   = "Daily"
	SheetWeekly  = "Weekly"
	SheetMonthly = "Monthly"
)

var header = []interface{}{"Employee #", "Employee", "Period", "Start", "End", "Entries", "Hours", "Overtime", "Overtime Hours", "Open"}

// HoursReport raporu Daily, Weekly ve Monthly sayfalarıyla yazar.
func HoursReport(report *hours.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetDaily); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetWeekly); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetMonthly); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	sheets := []struct {
		name   string
		bucket func(hours.EmployeeReport) []hours.Bucket
	}{
		{SheetDaily, func(e hours.EmployeeReport) []hours.Bucket { return e.Daily }},
		{SheetWeekly, func(e hours.EmployeeReport) []hours.Bucket { return e.Weekly }},
		{SheetMonthly, func(e hours.EmployeeReport) []hours.Bucket { return e.Monthly }},
	}
	for _, sheet := range sheets {
		if err := writeSheet(f, sheet.name, bold, report, sheet.bucket); err != nil {
			return nil, fmt.Errorf("xlsxexport: %s sheet: %w", sheet.name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, report *hours.Report, buckets func(hours.EmployeeReport) []hours.Bucket) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	row := 2
	for _, emp := range report.Employees {
		for _, b := range buckets(emp) {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			values := []interface{}{
				emp.EmployeeNumber, emp.Name, b.Key, b.Start, b.End, b.EntryCount,
				b.Hours, yesNo(b.Overtime), b.OvertimeHours, yesNo(b.Open),
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}

	totalCell, _ := excelize.CoordinatesToCellName(6, row+1)
	if err := f.SetCellValue(sheet, totalCell, "Total"); err != nil {
		return err
	}
	valueCell, _ := excelize.CoordinatesToCellName(7, row+1)
	if err := f.SetCellValue(sheet, valueCell, report.TotalHours); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 28)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
