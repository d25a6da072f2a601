package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yayabtw/ishak-school-new/internal/dto"
	"github.com/Yayabtw/ishak-school-new/internal/middleware"
	"github.com/Yayabtw/ishak-school-new/internal/models"
	"github.com/Yayabtw/ishak-school-new/internal/service"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
	"github.com/Yayabtw/ishak-school-new/pkg/response"
)

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	metrics     *service.MetricsService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, metrics *service.MetricsService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, metrics: metrics}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param studentId query int false "Filter by student"
// @Param courseId query int false "Filter by course"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var filter models.EnrollmentFilter
	filter.StudentID = queryInt64(c, "studentId")
	filter.CourseID = queryInt64(c, "courseId")
	filter.Status = c.Query("status")
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	enrollments, pagination, hit, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	h.metrics.RecordCacheOperation(hit)
	response.JSON(c, http.StatusOK, dto.NewEnrollmentResponses(enrollments), pagination, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get enrollment detail
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.enrollments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewEnrollmentResponse(enrollment)
	response.JSON(c, http.StatusOK, view, nil)
}

// Create godoc
// @Summary Enroll a student in a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.EnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Le corps de la requête est invalide"))
		return
	}
	enrollment, err := h.enrollments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewEnrollmentResponse(enrollment)
	response.Created(c, view)
}

// Update godoc
// @Summary Partially update enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.EnrollmentRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [put]
func (h *EnrollmentHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Le corps de la requête est invalide"))
		return
	}
	enrollment, err := h.enrollments.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := dto.NewEnrollmentResponse(enrollment)
	response.JSON(c, http.StatusOK, view, nil)
}

// Delete godoc
// @Summary Delete enrollment
// @Tags Enrollments
// @Param id path int true "Enrollment ID"
// @Success 204
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.enrollments.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
