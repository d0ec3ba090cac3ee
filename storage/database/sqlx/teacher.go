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

	"github.com/trezcool/shule/core/teacher"
)

type dbTeacher struct {
	ID             string          `db:"id"`
	UserID         string          `db:"user_id"`
	Qualification  string          `db:"qualification"`
	Experience     int             `db:"experience"`
	Specialization string          `db:"specialization"`
	Photo          string          `db:"photo"`
	Bio            string          `db:"bio"`
	Classes        json.RawMessage `db:"classes"`
	JoinDate       time.Time       `db:"join_date"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func (t dbTeacher) toCore() (teacher.Teacher, error) {
	var classes []string
	if len(t.Classes) > 0 {
		if err := json.Unmarshal(t.Classes, &classes); err != nil {
			return teacher.Teacher{}, errors.Wrap(err, "decoding classes")
		}
	}
	return teacher.Teacher{
		ID:             t.ID,
		UserID:         t.UserID,
		Qualification:  t.Qualification,
		Experience:     t.Experience,
		Specialization: t.Specialization,
		Photo:          t.Photo,
		Bio:            t.Bio,
		Classes:        classes,
		JoinDate:       t.JoinDate,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}, nil
}

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	tch.ID = uuid.New().String()
	classes, err := json.Marshal(tch.Classes)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "encoding classes")
	}
	if tch.Classes == nil {
		classes = []byte("[]")
	}
	_, err = repo.db.ExecContext(ctx, `
		INSERT INTO teachers (id, user_id, qualification, experience, specialization, photo, bio, classes, join_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		tch.ID, tch.UserID, tch.Qualification, tch.Experience, tch.Specialization,
		tch.Photo, tch.Bio, classes, tch.JoinDate, tch.CreatedAt, tch.UpdatedAt,
	)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tch, nil
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	var dbTeachers []dbTeacher
	if err := repo.db.SelectContext(ctx, &dbTeachers, `SELECT * FROM teachers ORDER BY join_date`); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]teacher.Teacher, 0, len(dbTeachers))
	for _, t := range dbTeachers {
		tch, err := t.toCore()
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, tch)
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	var t dbTeacher
	if err := repo.db.GetContext(ctx, &t, `SELECT * FROM teachers WHERE id = $1`, id); err != nil {
		return teacher.Teacher{}, trapNoRowsErr(err, teacher.ErrNotFound, "getting teacher by ID")
	}
	return t.toCore()
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	var sets []string
	var args []interface{}

	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if tch.Qualification != "" {
		set("qualification", tch.Qualification)
	}
	if tch.Experience != 0 {
		set("experience", tch.Experience)
	}
	if tch.Specialization != "" {
		set("specialization", tch.Specialization)
	}
	if tch.Photo != "" {
		set("photo", tch.Photo)
	}
	if tch.Bio != "" {
		set("bio", tch.Bio)
	}
	if tch.Classes != nil {
		classes, err := json.Marshal(tch.Classes)
		if err != nil {
			return teacher.Teacher{}, errors.Wrap(err, "encoding classes")
		}
		set("classes", classes)
	}
	set("updated_at", tch.UpdatedAt)

	args = append(args, tch.ID)
	query := fmt.Sprintf("UPDATE teachers SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return repo.GetTeacherByID(ctx, tch.ID)
}

func (repo *teacherRepository) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM teachers WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting teachers")
	}
	return nil
}
