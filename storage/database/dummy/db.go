package dummydb

import (
	"sync"

	"github.com/trezcool/shule/core/admission"
	"github.com/trezcool/shule/core/event"
	"github.com/trezcool/shule/core/gallery"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
)

type (
	DB struct {
		user      *userTable
		student   *studentTable
		teacher   *teacherTable
		event     *eventTable
		gallery   *galleryTable
		admission *admissionTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	teacherTable struct {
		sync.RWMutex
		table map[string]*teacher.Teacher
	}

	eventTable struct {
		sync.RWMutex
		table map[string]*event.Event
	}

	galleryTable struct {
		sync.RWMutex
		table map[string]*gallery.Item
	}

	admissionTable struct {
		sync.RWMutex
		table map[string]*admission.Application
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:      &userTable{table: make(map[string]*user.User)},
		student:   &studentTable{table: make(map[string]*student.Student)},
		teacher:   &teacherTable{table: make(map[string]*teacher.Teacher)},
		event:     &eventTable{table: make(map[string]*event.Event)},
		gallery:   &galleryTable{table: make(map[string]*gallery.Item)},
		admission: &admissionTable{table: make(map[string]*admission.Application)},
	}
	return db, nil
}
