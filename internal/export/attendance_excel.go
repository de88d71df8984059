package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/shyamxrana/Attendance-System-College/internal/model"
)

var attendanceHeader = []string{"Date", "Roll No", "Name", "Status"}

// AttendanceWorkbook renders attendance entries into a single-sheet
// workbook, newest date first, one row per student per day.
func AttendanceWorkbook(entries []model.AttendanceEntry) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Attendance"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for col, title := range attendanceHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellStr(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", bold); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i, entry := range entries {
		row := i + 2
		values := []string{
			entry.Date.Format(time.DateOnly),
			entry.StudentRollNo,
			entry.StudentName,
			string(entry.Status),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "C", 20)
	_ = f.SetColWidth(sheet, "D", "D", 12)
	return f, nil
}
