package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yayabtw/ishak-school-new/internal/service"
	"github.com/Yayabtw/ishak-school-new/pkg/response"
)

// ExportHandler exposes the entity export endpoint.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download godoc
// @Summary Download an entity listing as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param entity path string true "Entity" Enums(teachers, students, courses, enrollments)
// @Param format query string false "Format" Enums(csv, pdf) default(csv)
// @Success 200 {file} file
// @Router /exports/{entity} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	entity := c.Param("entity")
	format := c.DefaultQuery("format", service.ExportFormatCSV)

	result, err := h.exports.Generate(c.Request.Context(), entity, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
