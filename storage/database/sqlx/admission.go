package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/admission"
)

type dbApplication struct {
	ID           string          `db:"id"`
	ChildName    string          `db:"child_name"`
	ChildAge     int             `db:"child_age"`
	ChildGender  string          `db:"child_gender"`
	ChildDOB     time.Time       `db:"child_dob"`
	ParentName   string          `db:"parent_name"`
	ParentEmail  string          `db:"parent_email"`
	ParentPhone  string          `db:"parent_phone"`
	Address      string          `db:"address"`
	ClassApplied string          `db:"class_applied"`
	Status       string          `db:"status"`
	Documents    json.RawMessage `db:"documents"`
	Notes        string          `db:"notes"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (a dbApplication) toCore() (admission.Application, error) {
	var docs []string
	if len(a.Documents) > 0 {
		if err := json.Unmarshal(a.Documents, &docs); err != nil {
			return admission.Application{}, errors.Wrap(err, "decoding documents")
		}
	}
	return admission.Application{
		ID:           a.ID,
		ChildName:    a.ChildName,
		ChildAge:     a.ChildAge,
		ChildGender:  a.ChildGender,
		ChildDOB:     a.ChildDOB,
		ParentName:   a.ParentName,
		ParentEmail:  a.ParentEmail,
		ParentPhone:  a.ParentPhone,
		Address:      a.Address,
		ClassApplied: a.ClassApplied,
		Status:       admission.Status(a.Status),
		Documents:    docs,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}, nil
}

type admissionRepository struct {
	db *sqlx.DB
}

var _ admission.Repository = (*admissionRepository)(nil) // interface compliance check

func NewAdmissionRepository(db *sqlx.DB) *admissionRepository {
	return &admissionRepository{db: db}
}

func (repo *admissionRepository) CreateApplication(ctx context.Context, app admission.Application) (admission.Application, error) {
	app.ID = uuid.New().String()
	docs, err := json.Marshal(app.Documents)
	if err != nil {
		return admission.Application{}, errors.Wrap(err, "encoding documents")
	}
	if app.Documents == nil {
		docs = []byte("[]")
	}
	_, err = repo.db.ExecContext(ctx, `
		INSERT INTO admissions (id, child_name, child_age, child_gender, child_dob, parent_name, parent_email,
			parent_phone, address, class_applied, status, documents, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		app.ID, app.ChildName, app.ChildAge, app.ChildGender, app.ChildDOB, app.ParentName, app.ParentEmail,
		app.ParentPhone, app.Address, app.ClassApplied, app.Status, docs, app.Notes, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return admission.Application{}, errors.Wrap(err, "inserting application")
	}
	return app, nil
}

func (repo *admissionRepository) QueryApplications(ctx context.Context) ([]admission.Application, error) {
	var dbApps []dbApplication
	if err := repo.db.SelectContext(ctx, &dbApps, `SELECT * FROM admissions ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying applications")
	}
	apps := make([]admission.Application, 0, len(dbApps))
	for _, a := range dbApps {
		app, err := a.toCore()
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (repo *admissionRepository) GetApplicationByID(ctx context.Context, id string) (admission.Application, error) {
	var a dbApplication
	if err := repo.db.GetContext(ctx, &a, `SELECT * FROM admissions WHERE id = $1`, id); err != nil {
		return admission.Application{}, trapNoRowsErr(err, admission.ErrNotFound, "getting application by ID")
	}
	return a.toCore()
}

func (repo *admissionRepository) UpdateApplicationStatus(ctx context.Context, id string, status admission.Status, notes string) (admission.Application, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE admissions SET status = $1, notes = $2, updated_at = $3 WHERE id = $4`,
		status, notes, time.Now().UTC(), id,
	)
	if err != nil {
		return admission.Application{}, errors.Wrap(err, "updating application status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return admission.Application{}, admission.ErrNotFound
	}
	return repo.GetApplicationByID(ctx, id)
}

func (repo *admissionRepository) CountApplicationsCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM admissions WHERE created_at >= $1`, since); err != nil {
		return 0, errors.Wrap(err, "counting applications")
	}
	return count, nil
}
