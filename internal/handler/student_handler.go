package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Yayabtw/ishak-school-new/internal/dto"
	"github.com/Yayabtw/ishak-school-new/internal/models"
	"github.com/Yayabtw/ishak-school-new/internal/service"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
	"github.com/Yayabtw/ishak-school-new/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students *service.StudentService
	now      func() time.Time
}

// NewStudentHandler constructs StudentHandler. The now function feeds age
// computation on the views; nil defaults to the UTC wall clock.
func NewStudentHandler(students *service.StudentService, now func() time.Time) *StudentHandler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &StudentHandler{students: students, now: now}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Search by name, email or student number"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var filter models.StudentFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewStudentResponses(students, h.now()), pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewStudentResponse(student, h.now())
	response.JSON(c, http.StatusOK, view, nil)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.StudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Le corps de la requête est invalide"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewStudentResponse(student, h.now())
	response.Created(c, view)
}

// Update godoc
// @Summary Partially update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.StudentRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Le corps de la requête est invalide"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewStudentResponse(student, h.now())
	response.JSON(c, http.StatusOK, view, nil)
}

// Delete godoc
// @Summary Delete student and its enrollments
// @Tags Students
// @Param id path int true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListEnrollments godoc
// @Summary List enrollments of a student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/enrollments [get]
func (h *StudentHandler) ListEnrollments(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollments, err := h.students.ListEnrollments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewEnrollmentResponses(enrollments), nil)
}
