package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/gallery"
)

type galleryRepository struct {
	db *galleryTable
}

var _ gallery.Repository = (*galleryRepository)(nil) // interface compliance check

func NewGalleryRepository(db *DB) gallery.Repository {
	return &galleryRepository{db: db.gallery}
}

func (repo *galleryRepository) CreateItem(_ context.Context, item gallery.Item) (gallery.Item, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	item.ID = uuid.New().String()
	repo.db.table[item.ID] = &item
	return item, nil
}

func (repo *galleryRepository) QueryItems(_ context.Context, category string) ([]gallery.Item, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	items := make([]gallery.Item, 0, len(repo.db.table))
	for _, i := range repo.db.table {
		if category != "" && i.Category != category {
			continue
		}
		items = append(items, *i)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (repo *galleryRepository) GetItemByID(_ context.Context, id string) (gallery.Item, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if item, ok := repo.db.table[id]; ok {
		return *item, nil
	}
	return gallery.Item{}, gallery.ErrNotFound
}

func (repo *galleryRepository) DeleteItemsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
