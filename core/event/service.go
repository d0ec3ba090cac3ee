package event

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("event not found")

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		// QueryEvents returns all events sorted by date, soonest first.
		QueryEvents(ctx context.Context) ([]Event, error)
		GetEventByID(ctx context.Context, id string) (Event, error)
		UpdateEvent(ctx context.Context, evt Event) (Event, error)
		DeleteEventsByID(ctx context.Context, ids ...string) error
		CountEventsFrom(ctx context.Context, from time.Time) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ne NewEvent, image, createdBy string) (Event, error) {
	now := time.Now().UTC()
	evt := Event{
		Title:       ne.Title,
		Description: ne.Description,
		Date:        ne.Date,
		Location:    ne.Location,
		Image:       image,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateEvent(ctx, evt)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryEvents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEventByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ue UpdateEvent, image string) (Event, error) {
	evt := Event{
		ID:          id,
		Title:       ue.Title,
		Description: ue.Description,
		Date:        ue.Date,
		Location:    ue.Location,
		Image:       image,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateEvent(ctx, evt)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteEventsByID(ctx, ids...)
}

// CountUpcoming counts events scheduled from now on.
func (svc *Service) CountUpcoming(ctx context.Context) (int, error) {
	return svc.repo.CountEventsFrom(ctx, time.Now().UTC())
}
