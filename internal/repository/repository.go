package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shyamxrana/Attendance-System-College/internal/model"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, student_profile_id, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.StudentProfileID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, student_profile_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID)
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.StudentProfileID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, student_profile_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.StudentProfileID, user.CreatedAt, user.UpdatedAt)
	return err
}

func (s *Store) GetStudentByRollNo(ctx context.Context, rollNo string) (model.Student, error) {
	return s.getStudent(ctx, `roll_no = $1`, rollNo)
}

func (s *Store) GetStudentByID(ctx context.Context, studentID string) (model.Student, error) {
	return s.getStudent(ctx, `id = $1`, studentID)
}

func (s *Store) getStudent(ctx context.Context, where string, arg string) (model.Student, error) {
	var student model.Student
	row := s.pool.QueryRow(ctx, `
		SELECT id, roll_no, name, course, year, created_at, updated_at
		FROM students
		WHERE `+where, arg)
	err := row.Scan(
		&student.ID,
		&student.RollNo,
		&student.Name,
		&student.Course,
		&student.Year,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	return student, err
}

func (s *Store) ListStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, roll_no, name, course, year, created_at, updated_at
		FROM students
		ORDER BY roll_no
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var student model.Student
		if err := rows.Scan(
			&student.ID,
			&student.RollNo,
			&student.Name,
			&student.Course,
			&student.Year,
			&student.CreatedAt,
			&student.UpdatedAt,
		); err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func (s *Store) CreateStudent(ctx context.Context, student model.Student) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO students (id, roll_no, name, course, year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, student.ID, student.RollNo, student.Name, student.Course, student.Year, student.CreatedAt, student.UpdatedAt)
	return err
}

func (s *Store) DeleteStudent(ctx context.Context, studentID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, studentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CountStudents(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	return count, err
}

// UpsertAttendance writes one day's roll call in a single transaction.
// Re-submitting a day overwrites each student's status.
func (s *Store) UpsertAttendance(ctx context.Context, records []model.AttendanceRecord) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, record := range records {
		if _, err := tx.Exec(ctx, `
			INSERT INTO attendance (id, student_id, date, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (student_id, date)
			DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		`, record.ID, record.StudentID, record.Date, record.Status, record.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) ListAttendanceByDate(ctx context.Context, date time.Time) ([]model.AttendanceEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.student_id, a.date, a.status, a.created_at, a.updated_at, s.name, s.roll_no
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.date = $1
		ORDER BY s.roll_no
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *Store) ListAttendanceByStudent(ctx context.Context, studentID string) ([]model.AttendanceRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, student_id, date, status, created_at, updated_at
		FROM attendance
		WHERE student_id = $1
		ORDER BY date DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var record model.AttendanceRecord
		if err := rows.Scan(
			&record.ID,
			&record.StudentID,
			&record.Date,
			&record.Status,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *Store) ListAllAttendance(ctx context.Context) ([]model.AttendanceEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.student_id, a.date, a.status, a.created_at, a.updated_at, s.name, s.roll_no
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		ORDER BY a.date DESC, s.roll_no
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]model.AttendanceEntry, error) {
	var entries []model.AttendanceEntry
	for rows.Next() {
		var entry model.AttendanceEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.StudentID,
			&entry.Date,
			&entry.Status,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.StudentName,
			&entry.StudentRollNo,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
