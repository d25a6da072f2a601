package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Yayabtw/ishak-school-new/internal/dto"
	"github.com/Yayabtw/ishak-school-new/internal/middleware"
	"github.com/Yayabtw/ishak-school-new/internal/models"
	"github.com/Yayabtw/ishak-school-new/internal/service"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
	"github.com/Yayabtw/ishak-school-new/pkg/response"
)

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses *service.CourseService
	metrics *service.MetricsService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *service.CourseService, metrics *service.MetricsService) *CourseHandler {
	return &CourseHandler{courses: courses, metrics: metrics}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param search query string false "Search by name or code"
// @Param semester query string false "Filter by semester"
// @Param year query int false "Filter by year"
// @Param teacherId query int false "Filter by teacher"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var filter models.CourseFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Semester = c.Query("semester")
	filter.Year = queryInt(c, "year", 0)
	filter.TeacherID = queryInt64(c, "teacherId")
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	courses, pagination, hit, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	h.metrics.RecordCacheOperation(hit)
	response.JSON(c, http.StatusOK, dto.NewCourseResponses(courses), pagination, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewCourseResponse(course)
	response.JSON(c, http.StatusOK, view, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Le corps de la requête est invalide"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewCourseResponse(course)
	response.Created(c, view)
}

// Update godoc
// @Summary Partially update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body service.CourseRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Le corps de la requête est invalide"))
		return
	}
	course, err := h.courses.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewCourseResponse(course)
	response.JSON(c, http.StatusOK, view, nil)
}

// Delete godoc
// @Summary Delete course and its enrollments
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
