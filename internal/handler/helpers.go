// Package handler exposes the HTTP endpoints over gin. Handlers bind and
// normalise input, delegate to the services, and shape the response views.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
)

// pathID parses the numeric id path parameter.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "L'identifiant doit être un entier positif")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter, returning the fallback
// on absence or garbage.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// queryInt64 parses an optional int64 query parameter.
func queryInt64(c *gin.Context, name string) int64 {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}
