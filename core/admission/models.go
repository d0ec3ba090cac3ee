package admission

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Status is the closed set of review states for an application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	ID           string    `json:"id"`
	ChildName    string    `json:"child_name"`
	ChildAge     int       `json:"child_age"`
	ChildGender  string    `json:"child_gender"`
	ChildDOB     time.Time `json:"child_dob"`
	ParentName   string    `json:"parent_name"`
	ParentEmail  string    `json:"parent_email"`
	ParentPhone  string    `json:"parent_phone"`
	Address      string    `json:"address"`
	ClassApplied string    `json:"class_applied"`
	Status       Status    `json:"status"`
	Documents    []string  `json:"documents"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// NewApplication contains the admission form fields; supporting documents
// arrive as multipart uploads alongside.
type NewApplication struct {
	ChildName    string    `json:"child_name" form:"child_name" validate:"required"`
	ChildAge     int       `json:"child_age" form:"child_age" validate:"required,min=1"`
	ChildGender  string    `json:"child_gender" form:"child_gender" validate:"required"`
	ChildDOB     time.Time `json:"child_dob" form:"child_dob" validate:"required"`
	ParentName   string    `json:"parent_name" form:"parent_name" validate:"required"`
	ParentEmail  string    `json:"parent_email" form:"parent_email" validate:"required,email"`
	ParentPhone  string    `json:"parent_phone" form:"parent_phone" validate:"required"`
	Address      string    `json:"address" form:"address" validate:"required"`
	ClassApplied string    `json:"class_applied" form:"class_applied" validate:"required"`
}

func (na *NewApplication) Validate(validate *validator.Validate) error {
	na.ChildName = core.CleanString(na.ChildName)
	na.ParentName = core.CleanString(na.ParentName)
	na.ParentEmail = core.CleanString(na.ParentEmail, true /* lower */)
	return validate.Struct(na)
}

// Review carries an admin's decision on an application.
type Review struct {
	Status Status `json:"status" validate:"required,admission_status"`
	Notes  string `json:"notes"`
}

func (r *Review) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
