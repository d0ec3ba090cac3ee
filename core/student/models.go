package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// AttendanceStatus is the closed set of per-day attendance marks.
type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
	Late    AttendanceStatus = "late"
)

func (s AttendanceStatus) IsValid() bool {
	switch s {
	case Present, Absent, Late:
		return true
	}
	return false
}

type AttendanceEntry struct {
	Date   time.Time        `json:"date"`
	Status AttendanceStatus `json:"status"`
}

type Student struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Age           int               `json:"age"`
	Gender        string            `json:"gender"`
	DateOfBirth   time.Time         `json:"date_of_birth"`
	ParentID      string            `json:"parent_id"`
	Class         string            `json:"class"`
	AdmissionDate time.Time         `json:"admission_date"`
	Photo         string            `json:"photo"`
	Attendance    []AttendanceEntry `json:"attendance"`
	CreatedAt     time.Time         `json:"created_at"` // UTC
	UpdatedAt     time.Time         `json:"updated_at"` // UTC
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name        string    `json:"name" form:"name" validate:"required"`
	Age         int       `json:"age" form:"age" validate:"required,min=1"`
	Gender      string    `json:"gender" form:"gender" validate:"required"`
	DateOfBirth time.Time `json:"date_of_birth" form:"date_of_birth" validate:"required"`
	ParentID    string    `json:"parent_id" form:"parent_id" validate:"required"`
	Class       string    `json:"class" form:"class" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Class = core.CleanString(ns.Class)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name   string `json:"name" form:"name"`
	Age    int    `json:"age" form:"age" validate:"omitempty,min=1"`
	Gender string `json:"gender" form:"gender"`
	Class  string `json:"class" form:"class"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	us.Class = core.CleanString(us.Class)
	return validate.Struct(us)
}

// NewAttendance records one attendance mark for a student.
type NewAttendance struct {
	Date   time.Time        `json:"date" validate:"required"`
	Status AttendanceStatus `json:"status" validate:"required,attendance_status"`
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	return validate.Struct(na)
}
