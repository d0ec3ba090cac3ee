package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/admission"
	"github.com/trezcool/shule/core/user"
	uploadsvc "github.com/trezcool/shule/services/upload"
)

const admissionUploadDir = "admissions"

type admissionApi struct {
	logger    core.Logger
	svc       *admission.Service
	uploadSvc *uploadsvc.Service
	validate  *validator.Validate
}

func registerAdmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := admissionApi{
		logger:    deps.Logger,
		svc:       deps.AdmissionSvc,
		uploadSvc: deps.UploadSvc,
		validate:  deps.Validate,
	}

	adg := g.Group("/admissions")

	// prospective parents have no account yet
	adg.POST("", api.submit)

	adg.GET("", api.query, jwt, rolesMiddleware(api.logger, user.RoleAdmin))
	adg.GET("/:id", api.retrieve, jwt, rolesMiddleware(api.logger, user.RoleAdmin))
	adg.PUT("/:id/review", api.review, jwt, rolesMiddleware(api.logger, user.RoleAdmin))
}

func (api *admissionApi) submit(ctx echo.Context) error {
	var data admission.NewApplication
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewApplication")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var documents []string
	if form, err := ctx.MultipartForm(); err == nil {
		for _, fh := range form.File["documents"] {
			doc, err := api.uploadSvc.SaveDocument(fh, admissionUploadDir)
			if err != nil {
				return errors.Wrap(err, "saving admission document")
			}
			documents = append(documents, doc)
		}
	}

	app, err := api.svc.Submit(ctx.Request().Context(), data, documents)
	if err != nil {
		return errors.Wrap(err, "submitting application")
	}
	return ctx.JSON(http.StatusCreated, app)
}

func (api *admissionApi) query(ctx echo.Context) error {
	apps, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	if apps == nil {
		apps = []admission.Application{}
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *admissionApi) retrieve(ctx echo.Context) error {
	app, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == admission.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding application by ID")
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *admissionApi) review(ctx echo.Context) error {
	var data admission.Review
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Review")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	app, err := api.svc.Review(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == admission.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "reviewing application")
	}
	return ctx.JSON(http.StatusOK, app)
}
