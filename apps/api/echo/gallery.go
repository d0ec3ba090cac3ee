package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/gallery"
	"github.com/trezcool/shule/core/user"
	uploadsvc "github.com/trezcool/shule/services/upload"
)

const galleryUploadDir = "gallery"

type galleryApi struct {
	logger    core.Logger
	svc       *gallery.Service
	uploadSvc *uploadsvc.Service
	validate  *validator.Validate
}

func registerGalleryAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := galleryApi{
		logger:    deps.Logger,
		svc:       deps.GallerySvc,
		uploadSvc: deps.UploadSvc,
		validate:  deps.Validate,
	}

	gg := g.Group("/gallery")

	// public gallery
	gg.GET("", api.query)
	gg.GET("/:id", api.retrieve)

	gg.POST("", api.create, jwt, rolesMiddleware(api.logger, user.RoleAdmin, user.RoleTeacher))
	gg.DELETE("/:id", api.destroy, jwt, rolesMiddleware(api.logger, user.RoleAdmin))
}

func (api *galleryApi) query(ctx echo.Context) error {
	items, err := api.svc.QueryByCategory(ctx.Request().Context(), core.CleanString(ctx.QueryParam("category"), true /* lower */))
	if err != nil {
		return errors.Wrap(err, "querying gallery items")
	}
	if items == nil {
		items = []gallery.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *galleryApi) retrieve(ctx echo.Context) error {
	item, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == gallery.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding gallery item by ID")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *galleryApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data gallery.NewItem
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewItem")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	fh, err := ctx.FormFile("image")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "image", Error: "image is required"})
	}
	image, err := api.uploadSvc.SaveImage(fh, galleryUploadDir)
	if err != nil {
		return errors.Wrap(err, "saving gallery image")
	}

	item, err := api.svc.Create(ctx.Request().Context(), data, image, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "creating gallery item")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *galleryApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting gallery item")
	}
	return ctx.NoContent(http.StatusNoContent)
}
