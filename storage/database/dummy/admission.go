package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/admission"
)

type admissionRepository struct {
	db *admissionTable
}

var _ admission.Repository = (*admissionRepository)(nil) // interface compliance check

func NewAdmissionRepository(db *DB) admission.Repository {
	return &admissionRepository{db: db.admission}
}

func (repo *admissionRepository) CreateApplication(_ context.Context, app admission.Application) (admission.Application, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	app.ID = uuid.New().String()
	if app.Documents == nil {
		app.Documents = []string{}
	}
	repo.db.table[app.ID] = &app
	return app, nil
}

func (repo *admissionRepository) QueryApplications(_ context.Context) ([]admission.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	apps := make([]admission.Application, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		apps = append(apps, *a)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.After(apps[j].CreatedAt) })
	return apps, nil
}

func (repo *admissionRepository) GetApplicationByID(_ context.Context, id string) (admission.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if app, ok := repo.db.table[id]; ok {
		return *app, nil
	}
	return admission.Application{}, admission.ErrNotFound
}

func (repo *admissionRepository) UpdateApplicationStatus(_ context.Context, id string, status admission.Status, notes string) (admission.Application, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	app, ok := repo.db.table[id]
	if !ok {
		return admission.Application{}, admission.ErrNotFound
	}
	app.Status = status
	app.Notes = notes
	app.UpdatedAt = time.Now().UTC()
	return *app, nil
}

func (repo *admissionRepository) CountApplicationsCreatedSince(_ context.Context, since time.Time) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, a := range repo.db.table {
		if !a.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
