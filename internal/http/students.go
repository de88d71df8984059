package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shyamxrana/Attendance-System-College/internal/model"
	"github.com/shyamxrana/Attendance-System-College/internal/observability"
)

type studentView struct {
	ID     string `json:"id"`
	RollNo string `json:"rollNo"`
	Name   string `json:"name"`
	Course string `json:"course"`
	Year   int    `json:"year"`
}

func toStudentView(student model.Student) studentView {
	return studentView{
		ID:     student.ID,
		RollNo: student.RollNo,
		Name:   student.Name,
		Course: student.Course,
		Year:   student.Year,
	}
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	views := make([]studentView, 0, len(students))
	for _, student := range students {
		views = append(views, toStudentView(student))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": views})
}

type createStudentRequest struct {
	RollNo string `json:"rollNo"`
	Name   string `json:"name"`
	Course string `json:"course"`
	Year   int    `json:"year"`
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.RollNo = strings.TrimSpace(req.RollNo)
	if req.RollNo == "" || req.Name == "" || req.Course == "" || req.Year == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if _, err := s.store.GetStudentByRollNo(r.Context(), req.RollNo); err == nil {
		writeError(w, http.StatusBadRequest, "Roll number already exists")
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	student := model.Student{
		ID:        uuid.NewString(),
		RollNo:    req.RollNo,
		Name:      req.Name,
		Course:    req.Course,
		Year:      req.Year,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateStudent(r.Context(), student); err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "data": toStudentView(student)})
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("id")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "ID required")
		return
	}

	// Deleting a profile a user account still references leaves that
	// reference dangling; identity reads null-check it.
	deleted, err := s.store.DeleteStudent(r.Context(), studentID)
	if err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Student not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{}})
}
