package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yayabtw/ishak-school-new/internal/models"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
)

// Envelope is the single response shape every endpoint writes. Exactly one
// of Data or Error is set.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// JSON writes a success envelope. The optional trailing map becomes the meta
// block (processing time, cache hit).
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	env := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 {
		env.Meta = meta[0]
	}
	write(c, status, env)
}

// Created writes a 201 envelope around the freshly stored resource.
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, Envelope{Data: data})
}

// Error normalises err into the envelope's error block and writes it with
// the matching HTTP status.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	write(c, appErr.Status, Envelope{Error: appErr})
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func write(c *gin.Context, status int, env Envelope) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, env)
}
