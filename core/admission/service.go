package admission

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var ErrNotFound = errors.New("admission application not found")

var (
	admissionStatusTag  = "admission_status"
	admissionStatusText = "invalid admission status"
)

// InitValidators registers the admission app's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(admissionStatusTag, func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, admissionStatusTag, admissionStatusText)
}

type (
	Repository interface {
		CreateApplication(ctx context.Context, app Application) (Application, error)
		// QueryApplications returns all applications, most recent first.
		QueryApplications(ctx context.Context) ([]Application, error)
		GetApplicationByID(ctx context.Context, id string) (Application, error)
		UpdateApplicationStatus(ctx context.Context, id string, status Status, notes string) (Application, error)
		CountApplicationsCreatedSince(ctx context.Context, since time.Time) (int, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

// Submit files a new application and emails the parent a confirmation.
func (svc *Service) Submit(ctx context.Context, na NewApplication, documents []string) (Application, error) {
	now := time.Now().UTC()
	app := Application{
		ChildName:    na.ChildName,
		ChildAge:     na.ChildAge,
		ChildGender:  na.ChildGender,
		ChildDOB:     na.ChildDOB,
		ParentName:   na.ParentName,
		ParentEmail:  na.ParentEmail,
		ParentPhone:  na.ParentPhone,
		Address:      na.Address,
		ClassApplied: na.ClassApplied,
		Status:       StatusPending,
		Documents:    documents,
		Notes:        "",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	app, err := svc.repo.CreateApplication(ctx, app)
	if err != nil {
		return Application{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: app.ParentName, Address: app.ParentEmail}},
		Subject: "Admission Application Received",
		BodyStr: fmt.Sprintf(
			"Dear %s,\n\nWe have received the admission application for %s (class %s). "+
				"The school office will review it and get back to you.\n",
			app.ParentName, app.ChildName, app.ClassApplied,
		),
	})
	return app, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Application, error) {
	return svc.repo.QueryApplications(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Application, error) {
	return svc.repo.GetApplicationByID(ctx, id)
}

// Review records an admin decision and notifies the parent.
func (svc *Service) Review(ctx context.Context, id string, rv Review) (Application, error) {
	app, err := svc.repo.UpdateApplicationStatus(ctx, id, rv.Status, rv.Notes)
	if err != nil {
		return Application{}, err
	}

	if app.Status != StatusPending {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Name: app.ParentName, Address: app.ParentEmail}},
			Subject: "Admission Application " + capitalize(string(app.Status)),
			BodyStr: fmt.Sprintf(
				"Dear %s,\n\nThe admission application for %s has been %s.\n%s\n",
				app.ParentName, app.ChildName, app.Status, app.Notes,
			),
		})
	}
	return app, nil
}

// CountRecent counts applications filed within the given window.
func (svc *Service) CountRecent(ctx context.Context, window time.Duration) (int, error) {
	return svc.repo.CountApplicationsCreatedSince(ctx, time.Now().UTC().Add(-window))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
