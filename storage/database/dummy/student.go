package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std.ID = uuid.New().String()
	if std.Attendance == nil {
		std.Attendance = []student.AttendanceEntry{}
	}
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	origStd, ok := repo.db.table[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	if std.Name != "" {
		origStd.Name = std.Name
	}
	if std.Age != 0 {
		origStd.Age = std.Age
	}
	if std.Gender != "" {
		origStd.Gender = std.Gender
	}
	if std.Class != "" {
		origStd.Class = std.Class
	}
	if std.Photo != "" {
		origStd.Photo = std.Photo
	}
	origStd.UpdatedAt = std.UpdatedAt

	repo.db.table[std.ID] = origStd
	return *origStd, nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *studentRepository) AddStudentAttendance(_ context.Context, id string, entry student.AttendanceEntry) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std, ok := repo.db.table[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	std.Attendance = append(std.Attendance, entry)
	return *std, nil
}
