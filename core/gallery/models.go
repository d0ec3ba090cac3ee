package gallery

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

type Item struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Image      string    `json:"image"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// NewItem contains information needed to publish a new gallery Item.
// The image itself arrives as a multipart upload alongside these fields.
type NewItem struct {
	Title    string `json:"title" form:"title" validate:"required"`
	Category string `json:"category" form:"category" validate:"required"`
}

func (ni *NewItem) Validate(validate *validator.Validate) error {
	ni.Title = core.CleanString(ni.Title)
	ni.Category = core.CleanString(ni.Category, true /* lower */)
	return validate.Struct(ni)
}
