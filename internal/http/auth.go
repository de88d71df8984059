package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/shyamxrana/Attendance-System-College/internal/auth"
	"github.com/shyamxrana/Attendance-System-College/internal/crypto"
	"github.com/shyamxrana/Attendance-System-College/internal/metrics"
	"github.com/shyamxrana/Attendance-System-College/internal/model"
	"github.com/shyamxrana/Attendance-System-College/internal/observability"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	allowed, err := s.limiter.Allow(r.Context(), req.Email+"|"+clientIP(r))
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
	}
	if !allowed {
		metrics.LoginAttempts.WithLabelValues("throttled").Inc()
		writeError(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Same body as a wrong password, so callers cannot probe
			// which emails exist.
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error("user lookup failed", zap.Error(err))
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	_, cookie, err := s.issuer.Issue(user)
	if err != nil {
		s.logger.Error("token issue failed", zap.Error(err))
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": map[string]interface{}{
			"name": user.Name,
			"role": user.Role,
		},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, s.issuer.ClearCookie())
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	RollNo   string `json:"rollNo"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	if _, err := s.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusBadRequest, "Email already in use")
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// A student account must link a pre-existing roll-call record.
	var studentProfileID *string
	if role == model.RoleStudent {
		if req.RollNo == "" {
			writeError(w, http.StatusBadRequest, "Student Roll No is required")
			return
		}
		student, err := s.store.GetStudentByRollNo(r.Context(), req.RollNo)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeError(w, http.StatusNotFound, "Roll No not found in records")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		studentProfileID = &student.ID
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("password hash failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	user := model.User{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Email:            req.Email,
		PasswordHash:     hash,
		Role:             role,
		StudentProfileID: studentProfileID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		observability.CaptureErr(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User registered successfully",
	})
}

// handleMe re-validates the cookie itself rather than trusting gate
// context: the /api prefix is outside the gate's protected set.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	claims, err := auth.ParseSessionToken(s.cfg.JWTSecret, cookie.Value)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	// Claims may be stale; read the store for the current profile.
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": map[string]interface{}{
			"userId":           user.ID,
			"name":             user.Name,
			"email":            user.Email,
			"role":             user.Role,
			"studentProfileId": user.StudentProfileID,
		},
	})
}
