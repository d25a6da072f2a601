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

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students s"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.first_name) LIKE $%d OR LOWER(s.last_name) LIKE $%d OR LOWER(s.email) LIKE $%d OR LOWER(s.student_number) LIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"last_name":      "s.last_name",
		"email":          "s.email",
		"student_number": "s.student_number",
		"created_at":     "s.created_at",
	}
	column, order, page, size := listClauses(filter.SortBy, filter.SortOrder, filter.Page, filter.PageSize, allowedSorts, "s.created_at")
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.first_name, s.last_name, s.email, s.phone, s.birth_date, s.address, s.student_number, s.created_at, s.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT id, first_name, last_name, email, phone, birth_date, address, student_number, created_at, updated_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmail checks if a student with the given email exists, optionally excluding an ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM students WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student email: %w", err)
	}
	return true, nil
}

// ExistsByStudentNumber checks if the generated student number is already taken.
func (r *StudentRepository) ExistsByStudentNumber(ctx context.Context, number string) (bool, error) {
	const query = "SELECT 1 FROM students WHERE student_number = $1 LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, number); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student number: %w", err)
	}
	return true, nil
}

// Create inserts a new student record and fills the generated ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (first_name, last_name, email, phone, birth_date, address, student_number, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		student.FirstName, student.LastName, student.Email, student.Phone, student.BirthDate,
		student.Address, student.StudentNumber, student.CreatedAt, student.UpdatedAt).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone, birth_date = :birth_date, address = :address, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student together with its enrollments.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE student_id = $1`, id); err != nil {
		return fmt.Errorf("delete student enrollments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return tx.Commit()
}
