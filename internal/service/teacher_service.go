package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/Yayabtw/ishak-school-new/internal/models"
	"github.com/Yayabtw/ishak-school-new/internal/validation"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id int64) error
}

type teacherCourseRepository interface {
	CountByTeacher(ctx context.Context, teacherID int64) (int, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.CourseDetail, error)
}

// TeacherRequest holds the payload for creating or partially updating a
// teacher. Nil fields are absent: on update they keep the stored value.
type TeacherRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Speciality *string `json:"speciality"`
}

// TeacherService handles teacher use-cases.
type TeacherService struct {
	repo      teacherRepository
	courses   teacherCourseRepository
	validator *validation.EntityValidator
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo teacherRepository, courses teacherCourseRepository, validator *validation.EntityValidator, logger *zap.Logger) *TeacherService {
	if validator == nil {
		validator = validation.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, courses: courses, validator: validator, logger: logger}
}

// List returns teachers and pagination metadata.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a teacher by ID.
func (s *TeacherService) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Enseignant non trouvé")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create registers a new teacher.
func (s *TeacherService) Create(ctx context.Context, req TeacherRequest) (*models.Teacher, error) {
	teacher := &models.Teacher{Phone: normalizeOptional(req.Phone)}
	if req.FirstName != nil {
		teacher.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		teacher.LastName = *req.LastName
	}
	if req.Email != nil {
		teacher.Email = *req.Email
	}
	if req.Speciality != nil {
		teacher.Speciality = *req.Speciality
	}

	if violations := s.validator.Check(teacher); violations != nil {
		return nil, appErrors.NewValidation("Le payload enseignant est invalide", violations)
	}
	exists, err := s.repo.ExistsByEmail(ctx, teacher.Email, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate teacher email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Un enseignant avec cet email existe déjà")
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	s.logger.Info("teacher created", zap.Int64("id", teacher.ID))
	return teacher, nil
}

// Update applies the present request fields to an existing teacher. When no
// field changes the stored record is returned untouched.
func (s *TeacherService) Update(ctx context.Context, id int64, req TeacherRequest) (*models.Teacher, error) {
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.FirstName != nil && *req.FirstName != teacher.FirstName {
		teacher.FirstName = *req.FirstName
		changed = true
	}
	if req.LastName != nil && *req.LastName != teacher.LastName {
		teacher.LastName = *req.LastName
		changed = true
	}
	if req.Email != nil && *req.Email != teacher.Email {
		teacher.Email = *req.Email
		changed = true
	}
	if req.Phone != nil {
		phone := normalizeOptional(req.Phone)
		if !equalOptional(phone, teacher.Phone) {
			teacher.Phone = phone
			changed = true
		}
	}
	if req.Speciality != nil && *req.Speciality != teacher.Speciality {
		teacher.Speciality = *req.Speciality
		changed = true
	}

	if violations := s.validator.Check(teacher); violations != nil {
		return nil, appErrors.NewValidation("Le payload enseignant est invalide", violations)
	}
	if !changed {
		return teacher, nil
	}

	exists, err := s.repo.ExistsByEmail(ctx, teacher.Email, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate teacher email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Un enseignant avec cet email existe déjà")
	}

	teacher.UpdatedAt = defaultNow()
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return teacher, nil
}

// Delete removes a teacher. Teachers with assigned courses cannot be removed.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.courses.CountByTeacher(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teacher courses")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "Impossible de supprimer un enseignant avec des cours assignés")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	s.logger.Info("teacher deleted", zap.Int64("id", id))
	return nil
}

// ListCourses returns the courses taught by a teacher.
func (s *TeacherService) ListCourses(ctx context.Context, id int64) ([]models.CourseDetail, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	courses, err := s.courses.ListByTeacher(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher courses")
	}
	return courses, nil
}

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
