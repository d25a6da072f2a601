package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Yayabtw/ishak-school-new/internal/models"
	"github.com/Yayabtw/ishak-school-new/internal/validation"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error)
	FindDetailByID(ctx context.Context, id int64) (*models.CourseDetail, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

type courseTeacherRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
}

// CourseRequest holds the payload for creating or partially updating a
// course. Nil fields are absent: on update they keep the stored value.
type CourseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Code        *string `json:"code"`
	Credits     *int    `json:"credits"`
	MaxCapacity *int    `json:"maxCapacity"`
	Semester    *string `json:"semester"`
	Year        *int    `json:"year"`
	TeacherID   *int64  `json:"teacherId"`
}

// courseListPayload is the cached shape of a course listing.
type courseListPayload struct {
	Items      []models.CourseDetail `json:"items"`
	Pagination *models.Pagination    `json:"pagination"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo      courseRepository
	teachers  courseTeacherRepository
	cache     *CacheService
	validator *validation.EntityValidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, teachers courseTeacherRepository, cache *CacheService, validator *validation.EntityValidator, logger *zap.Logger, now func() time.Time) *CourseService {
	if validator == nil {
		validator = validation.New(now)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NewCacheService(nil, false, 0, logger)
	}
	if now == nil {
		now = defaultNow
	}
	return &CourseService{repo: repo, teachers: teachers, cache: cache, validator: validator, logger: logger, now: now}
}

// List returns course details with pagination metadata. The boolean reports
// whether the payload came from the cache.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, bool, error) {
	key := courseListKey(filter)
	var cached courseListPayload
	if s.cache.Lookup(ctx, key, &cached) {
		return cached.Items, cached.Pagination, true, nil
	}

	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	pagination := paginationFor(filter.Page, filter.PageSize, total)
	s.cache.Store(ctx, key, courseListPayload{Items: courses, Pagination: pagination})
	return courses, pagination, false, nil
}

// Get returns a course detail by ID.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.CourseDetail, error) {
	course, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Cours non trouvé")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a new course assigned to an existing teacher.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.CourseDetail, error) {
	course := &models.Course{Description: normalizeOptional(req.Description)}
	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		course.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.MaxCapacity != nil {
		capacity := *req.MaxCapacity
		course.MaxCapacity = &capacity
	}
	if req.Semester != nil {
		course.Semester = *req.Semester
	}
	if req.Year != nil {
		course.Year = *req.Year
	} else {
		course.Year = s.now().Year()
	}
	if req.TeacherID != nil {
		course.TeacherID = *req.TeacherID
	}

	if violations := s.validator.Check(course); violations != nil {
		return nil, appErrors.NewValidation("Le payload cours est invalide", violations)
	}
	if err := s.ensureTeacherExists(ctx, course.TeacherID); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByCode(ctx, course.Code, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Un cours avec ce code existe déjà")
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.cache.Invalidate(ctx, "courses:*")
	s.logger.Info("course created", zap.Int64("id", course.ID), zap.String("code", course.Code))
	return s.Get(ctx, course.ID)
}

// Update applies the present request fields to an existing course.
func (s *CourseService) Update(ctx context.Context, id int64, req CourseRequest) (*models.CourseDetail, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	course := detail.Course

	changed := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != course.Name {
			course.Name = name
			changed = true
		}
	}
	if req.Description != nil {
		description := normalizeOptional(req.Description)
		if !equalOptional(description, course.Description) {
			course.Description = description
			changed = true
		}
	}
	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code != course.Code {
			course.Code = code
			changed = true
		}
	}
	if req.Credits != nil && *req.Credits != course.Credits {
		course.Credits = *req.Credits
		changed = true
	}
	if req.MaxCapacity != nil {
		if course.MaxCapacity == nil || *course.MaxCapacity != *req.MaxCapacity {
			capacity := *req.MaxCapacity
			course.MaxCapacity = &capacity
			changed = true
		}
	}
	if req.Semester != nil && *req.Semester != course.Semester {
		course.Semester = *req.Semester
		changed = true
	}
	if req.Year != nil && *req.Year != course.Year {
		course.Year = *req.Year
		changed = true
	}
	if req.TeacherID != nil && *req.TeacherID != course.TeacherID {
		course.TeacherID = *req.TeacherID
		changed = true
	}

	if violations := s.validator.Check(&course); violations != nil {
		return nil, appErrors.NewValidation("Le payload cours est invalide", violations)
	}
	if !changed {
		return detail, nil
	}

	if req.TeacherID != nil {
		if err := s.ensureTeacherExists(ctx, course.TeacherID); err != nil {
			return nil, err
		}
	}
	exists, err := s.repo.ExistsByCode(ctx, course.Code, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Un cours avec ce code existe déjà")
	}

	course.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, &course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.cache.Invalidate(ctx, "courses:*")
	return s.Get(ctx, id)
}

// Delete removes a course together with its enrollments.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.cache.Invalidate(ctx, "courses:*")
	s.cache.Invalidate(ctx, "enrollments:*")
	s.logger.Info("course deleted", zap.Int64("id", id))
	return nil
}

func (s *CourseService) ensureTeacherExists(ctx context.Context, teacherID int64) error {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrReferenceNotFound, "L'enseignant spécifié n'existe pas")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return nil
}
