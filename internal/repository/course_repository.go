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

// courseSelect joins the owning teacher and counts enrollments per course.
const courseSelect = `SELECT c.id, c.name, c.description, c.code, c.credits, c.max_capacity, c.semester, c.year, c.teacher_id, c.created_at, c.updated_at,
        t.first_name AS teacher_first_name, t.last_name AS teacher_last_name, t.email AS teacher_email,
        COUNT(e.id) AS enrollment_count`

const courseGroupBy = `GROUP BY c.id, t.first_name, t.last_name, t.email`

// CourseRepository manages persistence for course records.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns course details matching the provided filters.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	base := "FROM courses c JOIN teachers t ON t.id = c.teacher_id LEFT JOIN enrollments e ON e.course_id = c.id"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.name) LIKE $%d OR LOWER(c.code) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("c.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("c.year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.TeacherID != 0 {
		conditions = append(conditions, fmt.Sprintf("c.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"name":       "c.name",
		"code":       "c.code",
		"year":       "c.year",
		"credits":    "c.credits",
		"created_at": "c.created_at",
	}
	column, order, page, size := listClauses(filter.SortBy, filter.SortOrder, filter.Page, filter.PageSize, allowedSorts, "c.created_at")
	offset := (page - 1) * size

	query := fmt.Sprintf(`%s %s %s ORDER BY %s %s LIMIT %d OFFSET %d`, courseSelect, base, courseGroupBy, column, order, size, offset)

	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT c.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// FindDetailByID fetches a course detail by ID.
func (r *CourseRepository) FindDetailByID(ctx context.Context, id int64) (*models.CourseDetail, error) {
	query := fmt.Sprintf(`%s
        FROM courses c JOIN teachers t ON t.id = c.teacher_id LEFT JOIN enrollments e ON e.course_id = c.id
        WHERE c.id = $1 %s`, courseSelect, courseGroupBy)
	var detail models.CourseDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByCode checks if a course with the given code exists, optionally excluding an ID.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM courses WHERE code = $1"
	args := []interface{}{code}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// CountByTeacher returns how many courses are assigned to a teacher.
func (r *CourseRepository) CountByTeacher(ctx context.Context, teacherID int64) (int, error) {
	const query = "SELECT COUNT(*) FROM courses WHERE teacher_id = $1"
	var count int
	if err := r.db.GetContext(ctx, &count, query, teacherID); err != nil {
		return 0, fmt.Errorf("count teacher courses: %w", err)
	}
	return count, nil
}

// ListByTeacher returns the course details taught by a teacher.
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]models.CourseDetail, error) {
	query := fmt.Sprintf(`%s
        FROM courses c JOIN teachers t ON t.id = c.teacher_id LEFT JOIN enrollments e ON e.course_id = c.id
        WHERE c.teacher_id = $1 %s ORDER BY c.year DESC, c.semester ASC`, courseSelect, courseGroupBy)
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher courses: %w", err)
	}
	return courses, nil
}

// Create inserts a new course record and fills the generated ID.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (name, description, code, credits, max_capacity, semester, year, teacher_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		course.Name, course.Description, course.Code, course.Credits, course.MaxCapacity,
		course.Semester, course.Year, course.TeacherID, course.CreatedAt, course.UpdatedAt).Scan(&course.ID); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies an existing course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	const query = `UPDATE courses SET name = :name, description = :description, code = :code, credits = :credits, max_capacity = :max_capacity, semester = :semester, year = :year, teacher_id = :teacher_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course together with its enrollments.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete course: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE course_id = $1`, id); err != nil {
		return fmt.Errorf("delete course enrollments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return tx.Commit()
}
