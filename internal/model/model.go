package model

import "time"

// Role of an authenticated user. The system knows exactly two.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleTeacher, RoleStudent:
		return Role(value), true
	default:
		return "", false
	}
}

// User is a login identity. StudentProfileID links a student-role user to
// the students record it was registered against; the link may dangle if
// the profile is later deleted, so readers must tolerate a missing profile.
type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	Role             Role
	StudentProfileID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Student is the roll-call record teachers manage. It exists independently
// of any login account.
type Student struct {
	ID        string
	RollNo    string
	Name      string
	Course    string
	Year      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
	StatusLate    AttendanceStatus = "Late"
)

func ParseAttendanceStatus(value string) (AttendanceStatus, bool) {
	switch AttendanceStatus(value) {
	case StatusPresent, StatusAbsent, StatusLate:
		return AttendanceStatus(value), true
	default:
		return "", false
	}
}

// AttendanceRecord is one student's status on one date. (student_id, date)
// is unique; re-marking a day overwrites the status.
type AttendanceRecord struct {
	ID        string
	StudentID string
	Date      time.Time
	Status    AttendanceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttendanceEntry is a record joined with the student it belongs to, for
// the per-date views.
type AttendanceEntry struct {
	AttendanceRecord
	StudentName   string
	StudentRollNo string
}
