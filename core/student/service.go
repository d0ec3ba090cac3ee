package student

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var ErrNotFound = errors.New("student not found")

var (
	attendanceStatusTag  = "attendance_status"
	attendanceStatusText = "invalid attendance status"
)

// InitValidators registers the student app's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(attendanceStatusTag, func(fl validator.FieldLevel) bool {
		return AttendanceStatus(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, attendanceStatusTag, attendanceStatusText)
}

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
		AddStudentAttendance(ctx context.Context, id string, entry AttendanceEntry) (Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent, photo string) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		Name:          ns.Name,
		Age:           ns.Age,
		Gender:        ns.Gender,
		DateOfBirth:   ns.DateOfBirth,
		ParentID:      ns.ParentID,
		Class:         ns.Class,
		AdmissionDate: now,
		Photo:         photo,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent, photo string) (Student, error) {
	std := Student{
		ID:        id,
		Name:      us.Name,
		Age:       us.Age,
		Gender:    us.Gender,
		Class:     us.Class,
		Photo:     photo,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

func (svc *Service) AddAttendance(ctx context.Context, id string, na NewAttendance) (Student, error) {
	return svc.repo.AddStudentAttendance(ctx, id, AttendanceEntry{Date: na.Date, Status: na.Status})
}
