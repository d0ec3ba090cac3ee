package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/teacher"
)

type teacherRepository struct {
	db *teacherTable
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db.teacher}
}

func (repo *teacherRepository) CreateTeacher(_ context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tch.ID = uuid.New().String()
	if tch.Classes == nil {
		tch.Classes = []string{}
	}
	repo.db.table[tch.ID] = &tch
	return tch, nil
}

func (repo *teacherRepository) QueryTeachers(_ context.Context) ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := make([]teacher.Teacher, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		teachers = append(teachers, *t)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].JoinDate.Before(teachers[j].JoinDate) })
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(_ context.Context, id string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tch, ok := repo.db.table[id]; ok {
		return *tch, nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpdateTeacher(_ context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	origTch, ok := repo.db.table[tch.ID]
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	if tch.Qualification != "" {
		origTch.Qualification = tch.Qualification
	}
	if tch.Experience != 0 {
		origTch.Experience = tch.Experience
	}
	if tch.Specialization != "" {
		origTch.Specialization = tch.Specialization
	}
	if tch.Photo != "" {
		origTch.Photo = tch.Photo
	}
	if tch.Bio != "" {
		origTch.Bio = tch.Bio
	}
	if tch.Classes != nil {
		origTch.Classes = tch.Classes
	}
	origTch.UpdatedAt = tch.UpdatedAt

	repo.db.table[tch.ID] = origTch
	return *origTch, nil
}

func (repo *teacherRepository) DeleteTeachersByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
