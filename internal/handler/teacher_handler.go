package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Yayabtw/ishak-school-new/internal/dto"
	"github.com/Yayabtw/ishak-school-new/internal/models"
	"github.com/Yayabtw/ishak-school-new/internal/service"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
	"github.com/Yayabtw/ishak-school-new/pkg/response"
)

// TeacherHandler exposes teacher endpoints.
type TeacherHandler struct {
	teachers *service.TeacherService
}

// NewTeacherHandler constructs TeacherHandler.
func NewTeacherHandler(teachers *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param search query string false "Search by name, email or speciality"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	var filter models.TeacherFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	teachers, pagination, err := h.teachers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTeacherResponses(teachers), pagination)
}

// Get godoc
// @Summary Get teacher detail
// @Tags Teachers
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	teacher, err := h.teachers.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewTeacherResponse(teacher)
	response.JSON(c, http.StatusOK, view, nil)
}

// Create godoc
// @Summary Create teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body service.TeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req service.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Le corps de la requête est invalide"))
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewTeacherResponse(teacher)
	response.Created(c, view)
}

// Update godoc
// @Summary Partially update teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path int true "Teacher ID"
// @Param payload body service.TeacherRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Le corps de la requête est invalide"))
		return
	}
	teacher, err := h.teachers.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewTeacherResponse(teacher)
	response.JSON(c, http.StatusOK, view, nil)
}

// Delete godoc
// @Summary Delete teacher
// @Tags Teachers
// @Param id path int true "Teacher ID"
// @Success 204
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.teachers.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListCourses godoc
// @Summary List courses taught by a teacher
// @Tags Teachers
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/courses [get]
func (h *TeacherHandler) ListCourses(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	courses, err := h.teachers.ListCourses(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewCourseResponses(courses), nil)
}
