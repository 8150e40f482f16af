package xlsxexport

import (
	"bytes"
	"testing"

	"salonsuite/pkg/hours"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestHoursReport_WritesThreeSheets(t *testing.T) {
	report := &hours.Report{
		TotalHours: 9.5,
		Employees: []hours.EmployeeReport{{
			EmployeeID: 1, EmployeeNumber: 1001, Name: "Ana Diaz", TotalHours: 9.5,
			Daily:   []hours.Bucket{{Key: "2024-01-08", Start: "2024-01-08", End: "2024-01-08", Hours: 9.5, Overtime: true, OvertimeHours: 1.5, EntryCount: 2}},
			Weekly:  []hours.Bucket{{Key: "2024-01-08", Start: "2024-01-08", End: "2024-01-14", Hours: 9.5, EntryCount: 2}},
			Monthly: []hours.Bucket{{Key: "2024-01", Start: "2024-01-01", End: "2024-01-31", Hours: 9.5, EntryCount: 2}},
		}},
	}

	data, err := HoursReport(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetDaily, SheetWeekly, SheetMonthly}, f.GetSheetList())

	rows, err := f.GetRows(SheetDaily)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, "Employee #", rows[0][0])
	assert.Equal(t, "Ana Diaz", rows[1][1])
	assert.Equal(t, "2024-01-08", rows[1][2])
	assert.Equal(t, "yes", rows[1][7])
	assert.Equal(t, "1.5", rows[1][8])

	monthly, err := f.GetRows(SheetMonthly)
	require.NoError(t, err)
	assert.Equal(t, "2024-01", monthly[1][2])
}
