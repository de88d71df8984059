package http

import (
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shyamxrana/Attendance-System-College/internal/export"
	"github.com/shyamxrana/Attendance-System-College/internal/model"
	"github.com/shyamxrana/Attendance-System-College/internal/observability"
)

type studentReportView struct {
	studentView
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	Percentage float64 `json:"percentage"`
}

// handleReportSummary aggregates the whole attendance table per student.
func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := s.store.ListAllAttendance(r.Context())
	if err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	type counts struct{ total, present, absent, late int }
	perStudent := make(map[string]*counts, len(students))
	for _, entry := range entries {
		c := perStudent[entry.StudentID]
		if c == nil {
			c = &counts{}
			perStudent[entry.StudentID] = c
		}
		c.total++
		switch entry.Status {
		case model.StatusPresent:
			c.present++
		case model.StatusAbsent:
			c.absent++
		case model.StatusLate:
			c.late++
		}
	}

	reports := make([]studentReportView, 0, len(students))
	for _, student := range students {
		report := studentReportView{studentView: toStudentView(student)}
		if c := perStudent[student.ID]; c != nil {
			report.Total = c.total
			report.Present = c.present
			report.Absent = c.absent
			report.Late = c.late
			report.Percentage = math.Round(float64(c.present)/float64(c.total)*1000) / 10
		}
		reports = append(reports, report)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"students":     reports,
			"totalRecords": len(entries),
		},
	})
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListAllAttendance(r.Context())
	if err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	workbook, err := export.AttendanceWorkbook(entries)
	if err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer workbook.Close()

	filename := "attendance-" + time.Now().UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := workbook.Write(w); err != nil {
		s.logger.Error("report export write failed", zap.Error(err))
	}
}
