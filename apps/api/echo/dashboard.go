package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/admission"
	"github.com/trezcool/shule/core/event"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
)

// recentAdmissionsWindow bounds the "recent applications" stat.
const recentAdmissionsWindow = 30 * 24 * time.Hour

type dashboardApi struct {
	logger       core.Logger
	userSvc      *user.Service
	studentSvc   *student.Service
	teacherSvc   *teacher.Service
	eventSvc     *event.Service
	admissionSvc *admission.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := dashboardApi{
		logger:       deps.Logger,
		userSvc:      deps.UserSvc,
		studentSvc:   deps.StudentSvc,
		teacherSvc:   deps.TeacherSvc,
		eventSvc:     deps.EventSvc,
		admissionSvc: deps.AdmissionSvc,
	}

	dg := g.Group("/dashboard", jwt)
	dg.GET("/stats", api.stats, rolesMiddleware(api.logger, user.RoleAdmin))
	dg.GET("/teacher", api.teacherBoard, rolesMiddleware(api.logger, user.RoleTeacher))
	dg.GET("/parent", api.parentBoard, rolesMiddleware(api.logger, user.RoleParent))
}

type statsResponse struct {
	Students         int `json:"students"`
	Teachers         int `json:"teachers"`
	UpcomingEvents   int `json:"upcoming_events"`
	RecentAdmissions int `json:"recent_admissions"`
}

func (api *dashboardApi) stats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	students, err := api.studentSvc.QueryAll(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	teachers, err := api.userSvc.CountByRole(reqCtx, user.RoleTeacher)
	if err != nil {
		return errors.Wrap(err, "counting teachers")
	}
	upcoming, err := api.eventSvc.CountUpcoming(reqCtx)
	if err != nil {
		return errors.Wrap(err, "counting upcoming events")
	}
	recent, err := api.admissionSvc.CountRecent(reqCtx, recentAdmissionsWindow)
	if err != nil {
		return errors.Wrap(err, "counting recent admissions")
	}

	return ctx.JSON(http.StatusOK, statsResponse{
		Students:         len(students),
		Teachers:         teachers,
		UpcomingEvents:   upcoming,
		RecentAdmissions: recent,
	})
}

type teacherBoardResponse struct {
	Profile  *teacher.Teacher  `json:"profile"`
	Students []student.Student `json:"students"`
}

// teacherBoard returns the teacher's own profile and the students enrolled in
// their classes.
func (api *dashboardApi) teacherBoard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	teachers, err := api.teacherSvc.QueryAll(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	var profile *teacher.Teacher
	classes := make(map[string]struct{})
	for i := range teachers {
		if teachers[i].UserID == claims.Subject {
			profile = &teachers[i]
			for _, c := range teachers[i].Classes {
				classes[c] = struct{}{}
			}
			break
		}
	}

	students := []student.Student{}
	if len(classes) > 0 {
		all, err := api.studentSvc.QueryAll(reqCtx)
		if err != nil {
			return errors.Wrap(err, "querying students")
		}
		for _, std := range all {
			if _, ok := classes[std.Class]; ok {
				students = append(students, std)
			}
		}
	}

	return ctx.JSON(http.StatusOK, teacherBoardResponse{Profile: profile, Students: students})
}

type parentBoardResponse struct {
	Children       []student.Student `json:"children"`
	UpcomingEvents []event.Event     `json:"upcoming_events"`
}

// parentBoard returns the parent's children (with attendance) and the
// upcoming school events.
func (api *dashboardApi) parentBoard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	all, err := api.studentSvc.QueryAll(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	children := []student.Student{}
	for _, std := range all {
		if std.ParentID == claims.Subject {
			children = append(children, std)
		}
	}

	events, err := api.eventSvc.QueryAll(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	now := time.Now().UTC()
	upcoming := []event.Event{}
	for _, evt := range events {
		if !evt.Date.Before(now) {
			upcoming = append(upcoming, evt)
		}
	}

	return ctx.JSON(http.StatusOK, parentBoardResponse{Children: children, UpcomingEvents: upcoming})
}
