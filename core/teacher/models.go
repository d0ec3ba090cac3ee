package teacher

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Teacher is the public staff profile attached to a teacher account.
type Teacher struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Qualification  string    `json:"qualification"`
	Experience     int       `json:"experience"` // years
	Specialization string    `json:"specialization"`
	Photo          string    `json:"photo"`
	Bio            string    `json:"bio"`
	Classes        []string  `json:"classes"`
	JoinDate       time.Time `json:"join_date"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

// NewTeacher contains information needed to create a new Teacher profile.
type NewTeacher struct {
	UserID         string   `json:"user_id" form:"user_id" validate:"required"`
	Qualification  string   `json:"qualification" form:"qualification" validate:"required"`
	Experience     int      `json:"experience" form:"experience" validate:"min=0"`
	Specialization string   `json:"specialization" form:"specialization" validate:"required"`
	Bio            string   `json:"bio" form:"bio" validate:"required"`
	Classes        []string `json:"classes" form:"classes"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.Qualification = core.CleanString(nt.Qualification)
	nt.Specialization = core.CleanString(nt.Specialization)
	return validate.Struct(nt)
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
type UpdateTeacher struct {
	Qualification  string   `json:"qualification" form:"qualification"`
	Experience     int      `json:"experience" form:"experience" validate:"omitempty,min=0"`
	Specialization string   `json:"specialization" form:"specialization"`
	Bio            string   `json:"bio" form:"bio"`
	Classes        []string `json:"classes" form:"classes"`
}

func (ut *UpdateTeacher) Validate(validate *validator.Validate) error {
	ut.Qualification = core.CleanString(ut.Qualification)
	ut.Specialization = core.CleanString(ut.Specialization)
	return validate.Struct(ut)
}
