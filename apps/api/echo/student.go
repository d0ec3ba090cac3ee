package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
	uploadsvc "github.com/trezcool/shule/services/upload"
)

const studentUploadDir = "students"

type studentApi struct {
	logger    core.Logger
	svc       *student.Service
	uploadSvc *uploadsvc.Service
	validate  *validator.Validate
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		logger:    deps.Logger,
		svc:       deps.StudentSvc,
		uploadSvc: deps.UploadSvc,
		validate:  deps.Validate,
	}

	sg := g.Group("/students", jwt)
	sg.GET("", api.query, rolesMiddleware(api.logger, user.RoleAdmin, user.RoleTeacher))
	sg.POST("", api.create, rolesMiddleware(api.logger, user.RoleAdmin))
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update, rolesMiddleware(api.logger, user.RoleAdmin))
	sg.DELETE("/:id", api.destroy, rolesMiddleware(api.logger, user.RoleAdmin))
	sg.POST("/:id/attendance", api.addAttendance, rolesMiddleware(api.logger, user.RoleAdmin, user.RoleTeacher))
}

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var photo string
	if fh, err := ctx.FormFile("photo"); err == nil {
		if photo, err = api.uploadSvc.SaveImage(fh, studentUploadDir); err != nil {
			return errors.Wrap(err, "saving student photo")
		}
	}

	std, err := api.svc.Create(ctx.Request().Context(), data, photo)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

// retrieve is open to any authenticated user, but a parent can only see
// their own children.
func (api *studentApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	std, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}

	if claims.Role == user.RoleParent && std.ParentID != claims.Subject {
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var photo string
	if fh, err := ctx.FormFile("photo"); err == nil {
		if photo, err = api.uploadSvc.SaveImage(fh, studentUploadDir); err != nil {
			return errors.Wrap(err, "saving student photo")
		}
	}

	std, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data, photo)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) addAttendance(ctx echo.Context) error {
	var data student.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.AddAttendance(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding attendance")
	}
	return ctx.JSON(http.StatusOK, std)
}
