package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shyamxrana/Attendance-System-College/internal/auth"
	"github.com/shyamxrana/Attendance-System-College/internal/config"
	"github.com/shyamxrana/Attendance-System-College/internal/metrics"
	"github.com/shyamxrana/Attendance-System-College/internal/model"
	"github.com/shyamxrana/Attendance-System-College/internal/ratelimit"
)

// Store is the persistence surface the handlers need. Lookups report a
// missing row with pgx.ErrNoRows, matching the repository implementation.
type Store interface {
	Ping(ctx context.Context) error

	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	CreateUser(ctx context.Context, user model.User) error

	GetStudentByRollNo(ctx context.Context, rollNo string) (model.Student, error)
	GetStudentByID(ctx context.Context, studentID string) (model.Student, error)
	ListStudents(ctx context.Context) ([]model.Student, error)
	CreateStudent(ctx context.Context, student model.Student) error
	DeleteStudent(ctx context.Context, studentID string) (bool, error)
	CountStudents(ctx context.Context) (int, error)

	UpsertAttendance(ctx context.Context, records []model.AttendanceRecord) error
	ListAttendanceByDate(ctx context.Context, date time.Time) ([]model.AttendanceEntry, error)
	ListAttendanceByStudent(ctx context.Context, studentID string) ([]model.AttendanceRecord, error)
	ListAllAttendance(ctx context.Context) ([]model.AttendanceEntry, error)
}

type Server struct {
	cfg     config.Config
	store   Store
	issuer  *auth.Issuer
	gate    *auth.Gate
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

func NewServer(cfg config.Config, store Store, limiter *ratelimit.Limiter, logger *zap.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, config.ErrMissingJWTSecret
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		store:   store,
		issuer:  auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL, cfg.Production()),
		gate:    auth.NewGate(cfg.JWTSecret, auth.DefaultPolicies()),
		limiter: limiter,
		logger:  logger,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.gate.Middleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/me", s.handleMe)

		r.Get("/students", s.handleListStudents)
		r.Post("/students", s.handleCreateStudent)
		r.Delete("/students", s.handleDeleteStudent)

		r.Get("/attendance", s.handleGetAttendance)
		r.Post("/attendance", s.handleMarkAttendance)

		r.Get("/dashboard", s.handleDashboard)
	})

	// Page-data routes behind the gate's protected prefixes. The gate has
	// already enforced authentication and the teacher role by the time
	// these run.
	r.Get("/students", s.handleListStudents)
	r.Get("/attendance", s.handleGetAttendance)
	r.Get("/reports", s.handleReportSummary)
	r.Get("/reports/export", s.handleReportExport)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := s.store.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": message})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}

// parseDate accepts the date-only wire format the UI sends, plus full
// RFC 3339 for clients that send timestamps; either way the result is
// normalized to midnight UTC so (student, date) stays unique per day.
func parseDate(value string) (time.Time, bool) {
	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return parsed.UTC(), true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		parsed = parsed.UTC()
		return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
