package models

import (
	"fmt"
	"time"
)

// Enrollment status literals, stored verbatim.
const (
	EnrollmentStatusActive    = "Actif"
	EnrollmentStatusCompleted = "Terminé"
	EnrollmentStatusDropped   = "Abandonné"
	EnrollmentStatusPending   = "En attente"
)

// EnrollmentStatuses lists the accepted status literals.
func EnrollmentStatuses() []string {
	return []string{EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusDropped, EnrollmentStatusPending}
}

// Grade thresholds for the mention bands, inclusive at the lower bound.
const (
	gradeExcellent  = 16
	gradeGood       = 14
	gradeFairlyGood = 12
	gradePass       = 10
)

// Enrollment captures a student's registration to a course.
type Enrollment struct {
	ID             int64     `db:"id" json:"id"`
	StudentID      int64     `db:"student_id" json:"studentId" validate:"required"`
	CourseID       int64     `db:"course_id" json:"courseId" validate:"required"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollmentDate"`
	Status         string    `db:"status" json:"status" validate:"required,enrollstatus"`
	Grade          *float64  `db:"grade" json:"grade,omitempty" validate:"omitnil,gte=0,lte=20"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// IsActive reports whether the enrollment is currently running.
func (e *Enrollment) IsActive() bool { return e.Status == EnrollmentStatusActive }

// IsCompleted reports whether the enrollment finished.
func (e *Enrollment) IsCompleted() bool { return e.Status == EnrollmentStatusCompleted }

// IsDropped reports whether the student abandoned the course.
func (e *Enrollment) IsDropped() bool { return e.Status == EnrollmentStatusDropped }

// IsPending reports whether the enrollment awaits confirmation.
func (e *Enrollment) IsPending() bool { return e.Status == EnrollmentStatusPending }

// Mention maps the grade to its academic distinction band, nil when ungraded.
func (e *Enrollment) Mention() *string {
	if e.Grade == nil {
		return nil
	}
	var mention string
	switch g := *e.Grade; {
	case g >= gradeExcellent:
		mention = "Très bien"
	case g >= gradeGood:
		mention = "Bien"
	case g >= gradeFairlyGood:
		mention = "Assez bien"
	case g >= gradePass:
		mention = "Passable"
	default:
		mention = "Insuffisant"
	}
	return &mention
}

// IsPassed reports whether the student validated the course.
func (e *Enrollment) IsPassed() bool {
	return e.Grade != nil && *e.Grade >= gradePass
}

// EnrollmentDetail enriches Enrollment with student and course info.
type EnrollmentDetail struct {
	Enrollment
	StudentFirstName string `db:"student_first_name" json:"-"`
	StudentLastName  string `db:"student_last_name" json:"-"`
	StudentEmail     string `db:"student_email" json:"-"`
	StudentNumber    string `db:"student_number" json:"-"`
	CourseName       string `db:"course_name" json:"-"`
	CourseCode       string `db:"course_code" json:"-"`
	CourseCredits    int    `db:"course_credits" json:"-"`
	CourseSemester   string `db:"course_semester" json:"-"`
	CourseYear       int    `db:"course_year" json:"-"`
}

// StudentFullName joins the enrolled student's first and last name.
func (e *EnrollmentDetail) StudentFullName() string {
	return e.StudentFirstName + " " + e.StudentLastName
}

// FullDisplay renders the one-line enrollment summary.
func (e *EnrollmentDetail) FullDisplay() string {
	display := fmt.Sprintf("%s inscrit à %s (%s) - Statut: %s",
		e.StudentFullName(), e.CourseName, e.CourseCode, e.Status)
	if e.Grade != nil {
		display += fmt.Sprintf(" - Note: %.1f/20", *e.Grade)
	}
	return display
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID int64
	CourseID  int64
	Status    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
