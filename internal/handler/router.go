package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Handlers groups every endpoint handler wired by the router.
type Handlers struct {
	Teachers    *TeacherHandler
	Students    *StudentHandler
	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
	Exports     *ExportHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts every API route under the given prefix, plus the
// operational endpoints at the root.
func RegisterRoutes(router *gin.Engine, prefix string, h Handlers, db *sqlx.DB) {
	router.GET("/health", h.Metrics.Health)
	router.GET("/ready", readiness(db))
	router.GET("/metrics", h.Metrics.Prometheus)

	api := router.Group(prefix)

	teachers := api.Group("/teachers")
	teachers.GET("", h.Teachers.List)
	teachers.POST("", h.Teachers.Create)
	teachers.GET("/:id", h.Teachers.Get)
	teachers.PUT("/:id", h.Teachers.Update)
	teachers.DELETE("/:id", h.Teachers.Delete)
	teachers.GET("/:id/courses", h.Teachers.ListCourses)

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)
	students.GET("/:id/enrollments", h.Students.ListEnrollments)

	courses := api.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", h.Courses.Update)
	courses.DELETE("/:id", h.Courses.Delete)

	enrollments := api.Group("/enrollments")
	enrollments.GET("", h.Enrollments.List)
	enrollments.POST("", h.Enrollments.Create)
	enrollments.GET("/:id", h.Enrollments.Get)
	enrollments.PUT("/:id", h.Enrollments.Update)
	enrollments.DELETE("/:id", h.Enrollments.Delete)

	api.GET("/exports/:entity", h.Exports.Download)
}

// readiness reports whether the database connection is usable.
func readiness(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unconfigured"})
			return
		}
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
