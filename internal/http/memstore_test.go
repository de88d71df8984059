package http

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shyamxrana/Attendance-System-College/internal/model"
)

// memStore is an in-memory Store for handler tests. It mirrors the
// repository contract, including pgx.ErrNoRows for missing rows.
type memStore struct {
	mu         sync.Mutex
	users      map[string]model.User
	students   map[string]model.Student
	attendance map[string]model.AttendanceRecord // keyed by studentID+date
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]model.User),
		students:   make(map[string]model.Student),
		attendance: make(map[string]model.AttendanceRecord),
	}
}

func attendanceKey(studentID string, date time.Time) string {
	return studentID + "|" + date.Format(time.DateOnly)
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, pgx.ErrNoRows
}

func (m *memStore) GetUserByID(_ context.Context, userID string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return model.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *memStore) CreateUser(_ context.Context, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memStore) deleteUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
}

func (m *memStore) GetStudentByRollNo(_ context.Context, rollNo string) (model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, student := range m.students {
		if student.RollNo == rollNo {
			return student, nil
		}
	}
	return model.Student{}, pgx.ErrNoRows
}

func (m *memStore) GetStudentByID(_ context.Context, studentID string) (model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	student, ok := m.students[studentID]
	if !ok {
		return model.Student{}, pgx.ErrNoRows
	}
	return student, nil
}

func (m *memStore) ListStudents(context.Context) ([]model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	students := make([]model.Student, 0, len(m.students))
	for _, student := range m.students {
		students = append(students, student)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].RollNo < students[j].RollNo })
	return students, nil
}

func (m *memStore) CreateStudent(_ context.Context, student model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[student.ID] = student
	return nil
}

func (m *memStore) DeleteStudent(_ context.Context, studentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[studentID]; !ok {
		return false, nil
	}
	delete(m.students, studentID)
	for key, record := range m.attendance {
		if record.StudentID == studentID {
			delete(m.attendance, key)
		}
	}
	return true, nil
}

func (m *memStore) CountStudents(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.students), nil
}

func (m *memStore) UpsertAttendance(_ context.Context, records []model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range records {
		key := attendanceKey(record.StudentID, record.Date)
		if existing, ok := m.attendance[key]; ok {
			existing.Status = record.Status
			existing.UpdatedAt = record.UpdatedAt
			m.attendance[key] = existing
			continue
		}
		m.attendance[key] = record
	}
	return nil
}

func (m *memStore) ListAttendanceByDate(_ context.Context, date time.Time) ([]model.AttendanceEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []model.AttendanceEntry
	for _, record := range m.attendance {
		if record.Date.Equal(date) {
			entries = append(entries, m.toEntry(record))
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StudentRollNo < entries[j].StudentRollNo })
	return entries, nil
}

func (m *memStore) ListAttendanceByStudent(_ context.Context, studentID string) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var records []model.AttendanceRecord
	for _, record := range m.attendance {
		if record.StudentID == studentID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
	return records, nil
}

func (m *memStore) ListAllAttendance(context.Context) ([]model.AttendanceEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []model.AttendanceEntry
	for _, record := range m.attendance {
		entries = append(entries, m.toEntry(record))
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].StudentRollNo < entries[j].StudentRollNo
	})
	return entries, nil
}

func (m *memStore) toEntry(record model.AttendanceRecord) model.AttendanceEntry {
	entry := model.AttendanceEntry{AttendanceRecord: record}
	if student, ok := m.students[record.StudentID]; ok {
		entry.StudentName = student.Name
		entry.StudentRollNo = student.RollNo
	}
	return entry
}
