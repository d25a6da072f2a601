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

// TeacherRepository manages persistence for teacher records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers matching the provided filters.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	base := "FROM teachers t"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(t.first_name) LIKE $%d OR LOWER(t.last_name) LIKE $%d OR LOWER(t.email) LIKE $%d OR LOWER(t.speciality) LIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"last_name":  "t.last_name",
		"email":      "t.email",
		"speciality": "t.speciality",
		"created_at": "t.created_at",
	}
	column, order, page, size := listClauses(filter.SortBy, filter.SortOrder, filter.Page, filter.PageSize, allowedSorts, "t.created_at")
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT t.id, t.first_name, t.last_name, t.email, t.phone, t.speciality, t.created_at, t.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}
	return teachers, total, nil
}

// FindByID fetches a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	const query = `SELECT id, first_name, last_name, email, phone, speciality, created_at, updated_at FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// ExistsByEmail checks if a teacher with the given email exists, optionally excluding an ID.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM teachers WHERE LOWER(email) = LOWER($1)"
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
		return false, fmt.Errorf("check teacher email: %w", err)
	}
	return true, nil
}

// Create inserts a new teacher record and fills the generated ID.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now
	const query = `INSERT INTO teachers (first_name, last_name, email, phone, speciality, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		teacher.FirstName, teacher.LastName, teacher.Email, teacher.Phone, teacher.Speciality,
		teacher.CreatedAt, teacher.UpdatedAt).Scan(&teacher.ID); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update modifies an existing teacher.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	const query = `UPDATE teachers SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone, speciality = :speciality, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return nil
}

// Delete removes a teacher record.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM teachers WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return nil
}
