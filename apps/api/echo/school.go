package echoapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/soma/core"
	"github.com/trezcool/soma/core/school"
	"github.com/trezcool/soma/core/user"
)

var (
	errClassNotCreated    = echo.NewHTTPError(http.StatusInternalServerError, "failed to create class")
	errExamNotScheduled   = echo.NewHTTPError(http.StatusInternalServerError, "failed to schedule exam")
	errResourceNotCreated = echo.NewHTTPError(http.StatusInternalServerError, "failed to publish resource")

	errNotAStudent = core.NewValidationError(errors.New("only student profiles go through the approval workflow"))
)

type (
	SuccessResponse struct {
		Success bool `json:"success"`
	}

	StatusUpdateRequest struct {
		Status string `json:"status" validate:"required,approvalstatus"`
	}

	LinkStudentRequest struct {
		StudentCode string `json:"studentCode" validate:"required"`
	}
)

func (sur *StatusUpdateRequest) Validate(validate *validator.Validate) error {
	sur.Status = strings.ToUpper(core.CleanString(sur.Status))
	return validate.Struct(sur)
}

func (lsr *LinkStudentRequest) Validate(validate *validator.Validate) error {
	lsr.StudentCode = core.CleanString(lsr.StudentCode)
	return validate.Struct(lsr)
}

type schoolApi struct {
	svc      *school.Service
	usrSvc   *user.Service
	validate *validator.Validate
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, usrSvc *user.Service, validate *validator.Validate) {
	api := schoolApi{svc: svc, usrSvc: usrSvc, validate: validate}

	sg := g.Group("/school", jwt)

	academic := roleMiddleware(user.RoleAcademic, user.RoleAdmin)
	teacher := roleMiddleware(user.RoleTeacher)
	parent := roleMiddleware(user.RoleParent)
	student := roleMiddleware(user.RoleStudent)
	admin := roleMiddleware(user.RoleAdmin)

	// academic director portal
	sg.GET("/students/pending", api.pendingStudents, academic)
	sg.PUT("/students/:id/status", api.updateStudentStatus, academic)
	sg.GET("/classes", api.queryClasses, academic)
	sg.POST("/classes", api.createClass, academic)
	sg.GET("/teachers", api.queryTeachers, academic)
	sg.POST("/teachers/:id/courses", api.assignCourse, academic)

	// teacher portal
	sg.GET("/teachers/:id/courses", api.teacherCourses)
	sg.GET("/progress", api.studentProgress, teacher)
	sg.GET("/progress/export", api.exportProgress, teacher)
	sg.POST("/feedback", api.sendFeedback, teacher)
	sg.POST("/exams", api.scheduleExam, teacher)
	sg.POST("/resources", api.publishResource, teacher)

	// student portal
	sg.GET("/feedback", api.studentFeedback, student)

	// shared reads
	sg.GET("/exams", api.upcomingExams)
	sg.GET("/resources", api.classResources)

	// parent portal
	sg.POST("/link-student", api.linkStudent, parent)

	// admin portal
	sg.GET("/health", api.health, admin)
}

// Handlers

func (api *schoolApi) pendingStudents(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	students := api.usrSvc.PendingStudents(ctx.Request().Context(), claims.SchoolID)
	return ctx.JSON(http.StatusOK, students)
}

func (api *schoolApi) updateStudentStatus(ctx echo.Context) error {
	var data StatusUpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	// the approval workflow only applies to students; rejecting other
	// roles here keeps SetStudentStatus fail-soft for store errors.
	if prof, err := api.usrSvc.GetByID(ctx.Request().Context(), ctx.Param("id")); err == nil && !prof.IsStudent() {
		return errNotAStudent
	}

	ok := api.usrSvc.SetStudentStatus(ctx.Request().Context(), ctx.Param("id"), data.Status)
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: ok})
}

func (api *schoolApi) queryClasses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	classes := api.svc.Classes(ctx.Request().Context(), claims.SchoolID)
	return ctx.JSON(http.StatusOK, classes)
}

func (api *schoolApi) createClass(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data school.NewClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	class := api.svc.CreateClass(ctx.Request().Context(), claims.SchoolID, data)
	if class == nil {
		return errClassNotCreated
	}
	return ctx.JSON(http.StatusCreated, class)
}

func (api *schoolApi) queryTeachers(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	teachers := api.usrSvc.Teachers(ctx.Request().Context(), claims.SchoolID)
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *schoolApi) teacherCourses(ctx echo.Context) error {
	courses := api.svc.TeacherCourses(ctx.Request().Context(), ctx.Param("id"))
	return ctx.JSON(http.StatusOK, courses)
}

func (api *schoolApi) assignCourse(ctx echo.Context) error {
	var data struct {
		Subject string `json:"subject"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding assign course request")
	}
	ok := api.svc.AssignCourse(ctx.Request().Context(), ctx.Param("id"), data.Subject)
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: ok})
}

func (api *schoolApi) studentProgress(ctx echo.Context) error {
	progress := api.svc.StudentProgress(ctx.Request().Context(), ctx.QueryParam("subject"))
	return ctx.JSON(http.StatusOK, progress)
}

func (api *schoolApi) exportProgress(ctx echo.Context) error {
	subject := ctx.QueryParam("subject")
	buff, err := api.svc.ExportProgress(ctx.Request().Context(), subject)
	if err != nil {
		return errors.Wrap(err, "exporting progress")
	}

	filename := fmt.Sprintf("progress-%s.xlsx", subject)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+filename)
	return ctx.Blob(
		http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buff.Bytes(),
	)
}

func (api *schoolApi) sendFeedback(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data school.NewFeedback
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ok := api.svc.SendFeedback(ctx.Request().Context(), claims.Subject, data.StudentID, data.Subject, data.Message)
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: ok})
}

func (api *schoolApi) studentFeedback(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	feedback := api.svc.StudentFeedback(ctx.Request().Context(), claims.Subject)
	return ctx.JSON(http.StatusOK, feedback)
}

func (api *schoolApi) scheduleExam(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data school.NewExam
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	exam := api.svc.ScheduleExam(ctx.Request().Context(), data, claims.SchoolID)
	if exam == nil {
		return errExamNotScheduled
	}
	return ctx.JSON(http.StatusCreated, exam)
}

func (api *schoolApi) upcomingExams(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	exams := api.svc.UpcomingExams(ctx.Request().Context(), claims.SchoolID, ctx.QueryParam("subject"))
	return ctx.JSON(http.StatusOK, exams)
}

func (api *schoolApi) publishResource(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data school.NewResource
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	resource := api.svc.PublishResource(ctx.Request().Context(), data, claims.SchoolID, claims.Subject)
	if resource == nil {
		return errResourceNotCreated
	}
	return ctx.JSON(http.StatusCreated, resource)
}

func (api *schoolApi) classResources(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	resources := api.svc.ClassResources(ctx.Request().Context(), claims.SchoolID, ctx.QueryParam("subject"))
	return ctx.JSON(http.StatusOK, resources)
}

func (api *schoolApi) linkStudent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data LinkStudentRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LinkStudentRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	res := api.usrSvc.LinkStudentByCode(ctx.Request().Context(), claims.Subject, data.StudentCode)
	return ctx.JSON(http.StatusOK, res)
}

func (api *schoolApi) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Health(ctx.Request().Context()))
}
