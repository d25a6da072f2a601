// Package dto holds the JSON views returned by the API. Views embed the
// stored entity and add the derived fields computed at read time, so the
// persistence structs never carry presentation state.
package dto

import (
	"time"

	"github.com/Yayabtw/ishak-school-new/internal/models"
)

// TeacherResponse is the API view of a teacher.
type TeacherResponse struct {
	models.Teacher
	FullName string `json:"fullName"`
}

// NewTeacherResponse builds the view for a stored teacher.
func NewTeacherResponse(t *models.Teacher) TeacherResponse {
	return TeacherResponse{Teacher: *t, FullName: t.FullName()}
}

// NewTeacherResponses builds views for a teacher list.
func NewTeacherResponses(teachers []models.Teacher) []TeacherResponse {
	out := make([]TeacherResponse, 0, len(teachers))
	for i := range teachers {
		out = append(out, NewTeacherResponse(&teachers[i]))
	}
	return out
}

// StudentResponse is the API view of a student. Age is recomputed on every
// read and omitted when no birth date is recorded.
type StudentResponse struct {
	models.Student
	FullName string `json:"fullName"`
	Age      *int   `json:"age,omitempty"`
}

// NewStudentResponse builds the view for a stored student.
func NewStudentResponse(s *models.Student, now time.Time) StudentResponse {
	return StudentResponse{Student: *s, FullName: s.FullName(), Age: s.Age(now)}
}

// NewStudentResponses builds views for a student list.
func NewStudentResponses(students []models.Student, now time.Time) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, NewStudentResponse(&students[i], now))
	}
	return out
}

// TeacherSummary is the embedded teacher block on a course view.
type TeacherSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
}

// CourseResponse is the API view of a course with its assigned teacher and
// occupancy figures.
type CourseResponse struct {
	models.Course
	Teacher         TeacherSummary `json:"teacher"`
	EnrollmentCount int            `json:"enrollmentCount"`
	IsFull          bool           `json:"isFull"`
	FullDisplay     string         `json:"fullDisplay"`
}

// NewCourseResponse builds the view for a course detail row.
func NewCourseResponse(c *models.CourseDetail) CourseResponse {
	return CourseResponse{
		Course: c.Course,
		Teacher: TeacherSummary{
			ID:        c.TeacherID,
			FirstName: c.TeacherFirstName,
			LastName:  c.TeacherLastName,
			FullName:  c.TeacherFullName(),
			Email:     c.TeacherEmail,
		},
		EnrollmentCount: c.EnrollmentCount,
		IsFull:          c.IsFull(),
		FullDisplay:     c.FullDisplay(),
	}
}

// NewCourseResponses builds views for a course list.
func NewCourseResponses(courses []models.CourseDetail) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, NewCourseResponse(&courses[i]))
	}
	return out
}

// StudentSummary is the embedded student block on an enrollment view.
type StudentSummary struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	StudentNumber string `json:"studentNumber"`
}

// CourseSummary is the embedded course block on an enrollment view.
type CourseSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Credits  int    `json:"credits"`
	Semester string `json:"semester"`
	Year     int    `json:"year"`
}

// EnrollmentResponse is the API view of an enrollment with both sides of the
// relation and the grade-derived fields.
type EnrollmentResponse struct {
	models.Enrollment
	Student     StudentSummary `json:"student"`
	Course      CourseSummary  `json:"course"`
	Mention     *string        `json:"mention,omitempty"`
	IsPassed    bool           `json:"isPassed"`
	FullDisplay string         `json:"fullDisplay"`
}

// NewEnrollmentResponse builds the view for an enrollment detail row.
func NewEnrollmentResponse(e *models.EnrollmentDetail) EnrollmentResponse {
	return EnrollmentResponse{
		Enrollment: e.Enrollment,
		Student: StudentSummary{
			ID:            e.StudentID,
			FirstName:     e.StudentFirstName,
			LastName:      e.StudentLastName,
			FullName:      e.StudentFullName(),
			Email:         e.StudentEmail,
			StudentNumber: e.StudentNumber,
		},
		Course: CourseSummary{
			ID:       e.CourseID,
			Name:     e.CourseName,
			Code:     e.CourseCode,
			Credits:  e.CourseCredits,
			Semester: e.CourseSemester,
			Year:     e.CourseYear,
		},
		Mention:     e.Mention(),
		IsPassed:    e.IsPassed(),
		FullDisplay: e.FullDisplay(),
	}
}

// NewEnrollmentResponses builds views for an enrollment list.
func NewEnrollmentResponses(enrollments []models.EnrollmentDetail) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		out = append(out, NewEnrollmentResponse(&enrollments[i]))
	}
	return out
}
