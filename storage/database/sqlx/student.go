package sqlxrepos

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/student"
)

type dbStudent struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Age           int             `db:"age"`
	Gender        string          `db:"gender"`
	DateOfBirth   time.Time       `db:"date_of_birth"`
	ParentID      string          `db:"parent_id"`
	Class         string          `db:"class"`
	AdmissionDate time.Time       `db:"admission_date"`
	Photo         string          `db:"photo"`
	Attendance    json.RawMessage `db:"attendance"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (s dbStudent) toCore() (student.Student, error) {
	var attendance []student.AttendanceEntry
	if len(s.Attendance) > 0 {
		if err := json.Unmarshal(s.Attendance, &attendance); err != nil {
			return student.Student{}, errors.Wrap(err, "decoding attendance")
		}
	}
	return student.Student{
		ID:            s.ID,
		Name:          s.Name,
		Age:           s.Age,
		Gender:        s.Gender,
		DateOfBirth:   s.DateOfBirth,
		ParentID:      s.ParentID,
		Class:         s.Class,
		AdmissionDate: s.AdmissionDate,
		Photo:         s.Photo,
		Attendance:    attendance,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}, nil
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	attendance, err := json.Marshal(std.Attendance)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "encoding attendance")
	}
	if std.Attendance == nil {
		attendance = []byte("[]")
	}
	_, err = repo.db.ExecContext(ctx, `
		INSERT INTO students (id, name, age, gender, date_of_birth, parent_id, class, admission_date, photo, attendance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		std.ID, std.Name, std.Age, std.Gender, std.DateOfBirth, std.ParentID, std.Class,
		std.AdmissionDate, std.Photo, attendance, std.CreatedAt, std.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context) ([]student.Student, error) {
	var dbStudents []dbStudent
	if err := repo.db.SelectContext(ctx, &dbStudents, `SELECT * FROM students ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(dbStudents))
	for _, s := range dbStudents {
		std, err := s.toCore()
		if err != nil {
			return nil, err
		}
		students = append(students, std)
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var s dbStudent
	if err := repo.db.GetContext(ctx, &s, `SELECT * FROM students WHERE id = $1`, id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student by ID")
	}
	return s.toCore()
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	var sets []string
	var args []interface{}

	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if std.Name != "" {
		set("name", std.Name)
	}
	if std.Age != 0 {
		set("age", std.Age)
	}
	if std.Gender != "" {
		set("gender", std.Gender)
	}
	if std.Class != "" {
		set("class", std.Class)
	}
	if std.Photo != "" {
		set("photo", std.Photo)
	}
	set("updated_at", std.UpdatedAt)

	args = append(args, std.ID)
	query := fmt.Sprintf("UPDATE students SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(ctx, std.ID)
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM students WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}

func (repo *studentRepository) AddStudentAttendance(ctx context.Context, id string, entry student.AttendanceEntry) (student.Student, error) {
	std, err := repo.GetStudentByID(ctx, id)
	if err != nil {
		return student.Student{}, err
	}
	std.Attendance = append(std.Attendance, entry)

	attendance, err := json.Marshal(std.Attendance)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "encoding attendance")
	}
	if _, err = repo.db.ExecContext(ctx,
		`UPDATE students SET attendance = $1, updated_at = $2 WHERE id = $3`,
		attendance, time.Now().UTC(), id,
	); err != nil {
		return student.Student{}, errors.Wrap(err, "updating attendance")
	}
	return repo.GetStudentByID(ctx, id)
}
