package models

import (
	"fmt"
	"time"
)

// Semester values are stored verbatim; the admin UI and historical data use
// the French literals as keys, not display strings.
const (
	SemesterFall   = "Automne"
	SemesterWinter = "Hiver"
	SemesterSpring = "Printemps"
	SemesterSummer = "Été"
)

// Semesters lists the accepted semester literals.
func Semesters() []string {
	return []string{SemesterFall, SemesterWinter, SemesterSpring, SemesterSummer}
}

// Course represents a teachable unit owned by exactly one teacher.
type Course struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required,min=3,max=200"`
	Description *string   `db:"description" json:"description,omitempty"`
	Code        string    `db:"code" json:"code" validate:"required,coursecode"`
	Credits     int       `db:"credits" json:"credits" validate:"required,gt=0,lte=10"`
	MaxCapacity *int      `db:"max_capacity" json:"maxCapacity,omitempty" validate:"omitnil,gt=0"`
	Semester    string    `db:"semester" json:"semester" validate:"required,semester"`
	Year        int       `db:"year" json:"year" validate:"required,gte=2020,lte=2030"`
	TeacherID   int64     `db:"teacher_id" json:"teacherId" validate:"required"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// CourseDetail enriches Course with teacher identity and the enrollment count.
type CourseDetail struct {
	Course
	TeacherFirstName string `db:"teacher_first_name" json:"-"`
	TeacherLastName  string `db:"teacher_last_name" json:"-"`
	TeacherEmail     string `db:"teacher_email" json:"-"`
	EnrollmentCount  int    `db:"enrollment_count" json:"enrollmentCount"`
}

// TeacherFullName joins the assigned teacher's first and last name.
func (c *CourseDetail) TeacherFullName() string {
	return c.TeacherFirstName + " " + c.TeacherLastName
}

// IsFull reports whether the course reached its capacity. A course without a
// configured capacity is never full.
func (c *CourseDetail) IsFull() bool {
	if c.MaxCapacity == nil {
		return false
	}
	return c.EnrollmentCount >= *c.MaxCapacity
}

// FullDisplay renders the course banner line shown in rosters.
func (c *CourseDetail) FullDisplay() string {
	teacher := "Aucun enseignant"
	if c.TeacherFirstName != "" || c.TeacherLastName != "" {
		teacher = c.TeacherFullName()
	}
	return fmt.Sprintf("%s - %s (%s %d) - %s", c.Code, c.Name, c.Semester, c.Year, teacher)
}

// CourseFilter provides filters for listing courses.
type CourseFilter struct {
	Search    string
	Semester  string
	Year      int
	TeacherID int64
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
