package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
	uploadsvc "github.com/trezcool/shule/services/upload"
)

const teacherUploadDir = "teachers"

type teacherApi struct {
	logger    core.Logger
	svc       *teacher.Service
	uploadSvc *uploadsvc.Service
	validate  *validator.Validate
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := teacherApi{
		logger:    deps.Logger,
		svc:       deps.TeacherSvc,
		uploadSvc: deps.UploadSvc,
		validate:  deps.Validate,
	}

	tg := g.Group("/teachers")

	// public profiles
	tg.GET("", api.query)
	tg.GET("/:id", api.retrieve)

	tg.POST("", api.create, jwt, rolesMiddleware(api.logger, user.RoleAdmin))
	tg.PUT("/:id", api.update, jwt)
	tg.DELETE("/:id", api.destroy, jwt, rolesMiddleware(api.logger, user.RoleAdmin))
}

func (api *teacherApi) query(ctx echo.Context) error {
	teachers, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []teacher.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	tch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding teacher by ID")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var photo string
	if fh, err := ctx.FormFile("photo"); err == nil {
		if photo, err = api.uploadSvc.SaveImage(fh, teacherUploadDir); err != nil {
			return errors.Wrap(err, "saving teacher photo")
		}
	}

	tch, err := api.svc.Create(ctx.Request().Context(), data, photo)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, tch)
}

// update is allowed for an admin, or for a teacher editing their own profile.
func (api *teacherApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	tch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding teacher by ID")
	}
	if claims.Role != user.RoleAdmin && !(claims.Role == user.RoleTeacher && tch.UserID == claims.Subject) {
		api.logger.Info("access denied: user " + claims.Subject + " on teacher profile " + tch.ID)
		return errHttpForbidden
	}

	var data teacher.UpdateTeacher
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	var photo string
	if fh, err := ctx.FormFile("photo"); err == nil {
		if photo, err = api.uploadSvc.SaveImage(fh, teacherUploadDir); err != nil {
			return errors.Wrap(err, "saving teacher photo")
		}
	}

	tch, err = api.svc.Update(ctx.Request().Context(), tch.ID, data, photo)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}
