package sqlxrepos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/event"
)

type dbEvent struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Date        time.Time `db:"date"`
	Location    string    `db:"location"`
	Image       string    `db:"image"`
	CreatedBy   string    `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (e dbEvent) toCore() event.Event {
	return event.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		Image:       e.Image,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) *eventRepository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	evt.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO events (id, title, description, date, location, image, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		evt.ID, evt.Title, evt.Description, evt.Date, evt.Location, evt.Image,
		evt.CreatedBy, evt.CreatedAt, evt.UpdatedAt,
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo *eventRepository) QueryEvents(ctx context.Context) ([]event.Event, error) {
	var dbEvents []dbEvent
	if err := repo.db.SelectContext(ctx, &dbEvents, `SELECT * FROM events ORDER BY date`); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]event.Event, 0, len(dbEvents))
	for _, e := range dbEvents {
		events = append(events, e.toCore())
	}
	return events, nil
}

func (repo *eventRepository) GetEventByID(ctx context.Context, id string) (event.Event, error) {
	var e dbEvent
	if err := repo.db.GetContext(ctx, &e, `SELECT * FROM events WHERE id = $1`, id); err != nil {
		return event.Event{}, trapNoRowsErr(err, event.ErrNotFound, "getting event by ID")
	}
	return e.toCore(), nil
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	var sets []string
	var args []interface{}

	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if evt.Title != "" {
		set("title", evt.Title)
	}
	if evt.Description != "" {
		set("description", evt.Description)
	}
	if !evt.Date.IsZero() {
		set("date", evt.Date)
	}
	if evt.Location != "" {
		set("location", evt.Location)
	}
	if evt.Image != "" {
		set("image", evt.Image)
	}
	set("updated_at", evt.UpdatedAt)

	args = append(args, evt.ID)
	query := fmt.Sprintf("UPDATE events SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "updating event")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return repo.GetEventByID(ctx, evt.ID)
}

func (repo *eventRepository) DeleteEventsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM events WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting events")
	}
	return nil
}

func (repo *eventRepository) CountEventsFrom(ctx context.Context, from time.Time) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM events WHERE date >= $1`, from); err != nil {
		return 0, errors.Wrap(err, "counting events")
	}
	return count, nil
}
