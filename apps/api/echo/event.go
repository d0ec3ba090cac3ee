package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/event"
	"github.com/trezcool/shule/core/user"
	uploadsvc "github.com/trezcool/shule/services/upload"
)

const eventUploadDir = "events"

type eventApi struct {
	logger    core.Logger
	svc       *event.Service
	uploadSvc *uploadsvc.Service
	validate  *validator.Validate
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := eventApi{
		logger:    deps.Logger,
		svc:       deps.EventSvc,
		uploadSvc: deps.UploadSvc,
		validate:  deps.Validate,
	}

	eg := g.Group("/events")

	// public calendar
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)

	eg.POST("", api.create, jwt, rolesMiddleware(api.logger, user.RoleAdmin))
	eg.PUT("/:id", api.update, jwt, rolesMiddleware(api.logger, user.RoleAdmin))
	eg.DELETE("/:id", api.destroy, jwt, rolesMiddleware(api.logger, user.RoleAdmin))
}

func (api *eventApi) query(ctx echo.Context) error {
	events, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	evt, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding event by ID")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data event.NewEvent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	var image string
	if fh, err := ctx.FormFile("image"); err == nil {
		if image, err = api.uploadSvc.SaveImage(fh, eventUploadDir); err != nil {
			return errors.Wrap(err, "saving event image")
		}
	}

	evt, err := api.svc.Create(ctx.Request().Context(), data, image, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *eventApi) update(ctx echo.Context) error {
	var data event.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var image string
	if fh, err := ctx.FormFile("image"); err == nil {
		if image, err = api.uploadSvc.SaveImage(fh, eventUploadDir); err != nil {
			return errors.Wrap(err, "saving event image")
		}
	}

	evt, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data, image)
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating event")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
