package gallery

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("gallery item not found")

type (
	Repository interface {
		CreateItem(ctx context.Context, item Item) (Item, error)
		// QueryItems returns all items, most recent first. A non-empty category
		// restricts the result to that category.
		QueryItems(ctx context.Context, category string) ([]Item, error)
		GetItemByID(ctx context.Context, id string) (Item, error)
		DeleteItemsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ni NewItem, image, uploadedBy string) (Item, error) {
	item := Item{
		Title:      ni.Title,
		Category:   ni.Category,
		Image:      image,
		UploadedBy: uploadedBy,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateItem(ctx, item)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Item, error) {
	return svc.repo.QueryItems(ctx, "")
}

func (svc *Service) QueryByCategory(ctx context.Context, category string) ([]Item, error) {
	return svc.repo.QueryItems(ctx, category)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Item, error) {
	return svc.repo.GetItemByID(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteItemsByID(ctx, ids...)
}
