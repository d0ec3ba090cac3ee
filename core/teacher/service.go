package teacher

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("teacher not found")

type (
	Repository interface {
		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		DeleteTeachersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher, photo string) (Teacher, error) {
	now := time.Now().UTC()
	tch := Teacher{
		UserID:         nt.UserID,
		Qualification:  nt.Qualification,
		Experience:     nt.Experience,
		Specialization: nt.Specialization,
		Photo:          photo,
		Bio:            nt.Bio,
		Classes:        nt.Classes,
		JoinDate:       now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateTeacher(ctx, tch)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTeacher, photo string) (Teacher, error) {
	tch := Teacher{
		ID:             id,
		Qualification:  ut.Qualification,
		Experience:     ut.Experience,
		Specialization: ut.Specialization,
		Photo:          photo,
		Bio:            ut.Bio,
		Classes:        ut.Classes,
		UpdatedAt:      time.Now().UTC(),
	}
	return svc.repo.UpdateTeacher(ctx, tch)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTeachersByID(ctx, ids...)
}
