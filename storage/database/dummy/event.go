package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/event"
)

type eventRepository struct {
	db *eventTable
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) CreateEvent(_ context.Context, evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	evt.ID = uuid.New().String()
	repo.db.table[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) QueryEvents(_ context.Context) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]event.Event, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		events = append(events, *e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

func (repo *eventRepository) GetEventByID(_ context.Context, id string) (event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if evt, ok := repo.db.table[id]; ok {
		return *evt, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) UpdateEvent(_ context.Context, evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	origEvt, ok := repo.db.table[evt.ID]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	if evt.Title != "" {
		origEvt.Title = evt.Title
	}
	if evt.Description != "" {
		origEvt.Description = evt.Description
	}
	if !evt.Date.IsZero() {
		origEvt.Date = evt.Date
	}
	if evt.Location != "" {
		origEvt.Location = evt.Location
	}
	if evt.Image != "" {
		origEvt.Image = evt.Image
	}
	origEvt.UpdatedAt = evt.UpdatedAt

	repo.db.table[evt.ID] = origEvt
	return *origEvt, nil
}

func (repo *eventRepository) DeleteEventsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *eventRepository) CountEventsFrom(_ context.Context, from time.Time) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, e := range repo.db.table {
		if !e.Date.Before(from) {
			count++
		}
	}
	return count, nil
}
