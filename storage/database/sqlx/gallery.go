package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/gallery"
)

type dbGalleryItem struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	Category   string    `db:"category"`
	Image      string    `db:"image"`
	UploadedBy string    `db:"uploaded_by"`
	CreatedAt  time.Time `db:"created_at"`
}

func (i dbGalleryItem) toCore() gallery.Item {
	return gallery.Item{
		ID:         i.ID,
		Title:      i.Title,
		Category:   i.Category,
		Image:      i.Image,
		UploadedBy: i.UploadedBy,
		CreatedAt:  i.CreatedAt,
	}
}

type galleryRepository struct {
	db *sqlx.DB
}

var _ gallery.Repository = (*galleryRepository)(nil) // interface compliance check

func NewGalleryRepository(db *sqlx.DB) *galleryRepository {
	return &galleryRepository{db: db}
}

func (repo *galleryRepository) CreateItem(ctx context.Context, item gallery.Item) (gallery.Item, error) {
	item.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO gallery_items (id, title, category, image, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.Title, item.Category, item.Image, item.UploadedBy, item.CreatedAt,
	)
	if err != nil {
		return gallery.Item{}, errors.Wrap(err, "inserting gallery item")
	}
	return item, nil
}

func (repo *galleryRepository) QueryItems(ctx context.Context, category string) ([]gallery.Item, error) {
	query := `SELECT * FROM gallery_items`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	var dbItems []dbGalleryItem
	if err := repo.db.SelectContext(ctx, &dbItems, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying gallery items")
	}
	items := make([]gallery.Item, 0, len(dbItems))
	for _, i := range dbItems {
		items = append(items, i.toCore())
	}
	return items, nil
}

func (repo *galleryRepository) GetItemByID(ctx context.Context, id string) (gallery.Item, error) {
	var i dbGalleryItem
	if err := repo.db.GetContext(ctx, &i, `SELECT * FROM gallery_items WHERE id = $1`, id); err != nil {
		return gallery.Item{}, trapNoRowsErr(err, gallery.ErrNotFound, "getting gallery item by ID")
	}
	return i.toCore(), nil
}

func (repo *galleryRepository) DeleteItemsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM gallery_items WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting gallery items")
	}
	return nil
}
