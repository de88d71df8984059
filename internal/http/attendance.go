package http

import (
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shyamxrana/Attendance-System-College/internal/auth"
	"github.com/shyamxrana/Attendance-System-College/internal/model"
	"github.com/shyamxrana/Attendance-System-College/internal/observability"
)

type markAttendanceRequest struct {
	Date    string `json:"date"`
	Records []struct {
		StudentID string `json:"studentId"`
		Status    string `json:"status"`
	} `json:"records"`
}

func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid data format")
		return
	}
	if req.Date == "" || req.Records == nil {
		writeError(w, http.StatusBadRequest, "Invalid data format")
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid date")
		return
	}

	now := time.Now().UTC()
	records := make([]model.AttendanceRecord, 0, len(req.Records))
	for _, entry := range req.Records {
		status, ok := model.ParseAttendanceStatus(entry.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		if entry.StudentID == "" {
			writeError(w, http.StatusBadRequest, "Invalid data format")
			return
		}
		records = append(records, model.AttendanceRecord{
			ID:        uuid.NewString(),
			StudentID: entry.StudentID,
			Date:      date,
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.store.UpsertAttendance(r.Context(), records); err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Attendance marked successfully",
	})
}

type attendanceEntryView struct {
	ID      string `json:"id"`
	Student struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		RollNo string `json:"rollNo"`
	} `json:"student"`
	Date   string                 `json:"date"`
	Status model.AttendanceStatus `json:"status"`
}

func toEntryView(entry model.AttendanceEntry) attendanceEntryView {
	var view attendanceEntryView
	view.ID = entry.ID
	view.Student.ID = entry.StudentID
	view.Student.Name = entry.StudentName
	view.Student.RollNo = entry.StudentRollNo
	view.Date = entry.Date.Format(time.DateOnly)
	view.Status = entry.Status
	return view
}

func (s *Server) handleGetAttendance(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": []attendanceEntryView{}})
		return
	}
	date, ok := parseDate(dateStr)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid date")
		return
	}

	entries, err := s.store.ListAttendanceByDate(r.Context(), date)
	if err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	views := make([]attendanceEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, toEntryView(entry))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": views})
}

type historyView struct {
	Date   string                 `json:"date"`
	Status model.AttendanceStatus `json:"status"`
}

// handleDashboard serves role-aware stats: global counts for teachers
// (and anonymous callers, as the original does), personal percentage and
// history for students.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	claims := auth.IdentityFromContext(r.Context())
	if claims == nil {
		if cookie, err := r.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
			claims, _ = auth.ParseSessionToken(s.cfg.JWTSecret, cookie.Value)
		}
	}

	if claims != nil && claims.Role == model.RoleStudent {
		s.studentDashboard(w, r, claims)
		return
	}
	s.teacherDashboard(w, r)
}

func (s *Server) teacherDashboard(w http.ResponseWriter, r *http.Request) {
	totalStudents, err := s.store.CountStudents(r.Context())
	if err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	today := time.Now().UTC()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	entries, err := s.store.ListAttendanceByDate(r.Context(), today)
	if err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var present, absent int
	for _, entry := range entries {
		switch entry.Status {
		case model.StatusPresent:
			present++
		case model.StatusAbsent:
			absent++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"role":             model.RoleTeacher,
			"totalStudents":    totalStudents,
			"presentToday":     present,
			"absentToday":      absent,
			"totalMarkedToday": len(entries),
		},
	})
}

func (s *Server) studentDashboard(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	if claims.StudentProfileID == nil {
		writeError(w, http.StatusBadRequest, "No linked student profile found")
		return
	}

	records, err := s.store.ListAttendanceByStudent(r.Context(), *claims.StudentProfileID)
	if err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var present, absent int
	for _, record := range records {
		switch record.Status {
		case model.StatusPresent:
			present++
		case model.StatusAbsent:
			absent++
		}
	}
	percentage := 0.0
	if len(records) > 0 {
		percentage = math.Round(float64(present)/float64(len(records))*1000) / 10
	}

	history := make([]historyView, 0, 5)
	for i, record := range records {
		if i == 5 {
			break
		}
		history = append(history, historyView{
			Date:   record.Date.Format(time.DateOnly),
			Status: record.Status,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"role":                 model.RoleStudent,
			"totalClasses":         len(records),
			"presentClasses":       present,
			"absentClasses":        absent,
			"attendancePercentage": percentage,
			"history":              history,
		},
	})
}
