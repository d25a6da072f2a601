package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Yayabtw/ishak-school-new/internal/models"
)

// enrollmentSelect joins both sides of the enrollment relation.
const enrollmentSelect = `SELECT e.id, e.student_id, e.course_id, e.enrollment_date, e.status, e.grade, e.notes, e.created_at, e.updated_at,
        s.first_name AS student_first_name, s.last_name AS student_last_name, s.email AS student_email, s.student_number,
        c.name AS course_name, c.code AS course_code, c.credits AS course_credits, c.semester AS course_semester, c.year AS course_year`

const enrollmentFrom = `FROM enrollments e JOIN students s ON s.id = e.student_id JOIN courses c ON c.id = e.course_id`

// EnrollmentRepository manages persistence for enrollment records.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollment details matching the provided filters.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.StudentID != 0 {
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.CourseID != 0 {
		conditions = append(conditions, fmt.Sprintf("e.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	base := fmt.Sprintf("%s WHERE %s", enrollmentFrom, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"enrollment_date": "e.enrollment_date",
		"status":          "e.status",
		"grade":           "e.grade",
		"created_at":      "e.created_at",
	}
	column, order, page, size := listClauses(filter.SortBy, filter.SortOrder, filter.Page, filter.PageSize, allowedSorts, "e.created_at")
	offset := (page - 1) * size

	query := fmt.Sprintf(`%s %s ORDER BY %s %s LIMIT %d OFFSET %d`, enrollmentSelect, base, column, order, size, offset)

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindDetailByID fetches an enrollment detail by ID.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	query := fmt.Sprintf(`%s %s WHERE e.id = $1`, enrollmentSelect, enrollmentFrom)
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsForStudentCourse checks if the student is already enrolled in the
// course, optionally excluding an enrollment ID.
func (r *EnrollmentRepository) ExistsForStudentCourse(ctx context.Context, studentID, courseID, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2"
	args := []interface{}{studentID, courseID}
	if excludeID != 0 {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment pair: %w", err)
	}
	return true, nil
}

// ListByStudent returns the enrollment details of a student.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	query := fmt.Sprintf(`%s %s WHERE e.student_id = $1 ORDER BY e.enrollment_date DESC`, enrollmentSelect, enrollmentFrom)
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}

// Create inserts a new enrollment record and fills the generated ID.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	now := time.Now().UTC()
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = now
	}
	enrollment.UpdatedAt = now
	const query = `INSERT INTO enrollments (student_id, course_id, enrollment_date, status, grade, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		enrollment.StudentID, enrollment.CourseID, enrollment.EnrollmentDate, enrollment.Status,
		enrollment.Grade, enrollment.Notes, enrollment.CreatedAt, enrollment.UpdatedAt).Scan(&enrollment.ID); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update modifies an existing enrollment.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `UPDATE enrollments SET student_id = :student_id, course_id = :course_id, enrollment_date = :enrollment_date, status = :status, grade = :grade, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment record.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM enrollments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}
