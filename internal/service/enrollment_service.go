package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/Yayabtw/ishak-school-new/internal/models"
	"github.com/Yayabtw/ishak-school-new/internal/validation"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	ExistsForStudentCourse(ctx context.Context, studentID, courseID, excludeID int64) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
}

type enrollmentStudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type enrollmentCourseRepository interface {
	FindDetailByID(ctx context.Context, id int64) (*models.CourseDetail, error)
}

// EnrollmentRequest holds the payload for creating or partially updating an
// enrollment. Nil fields are absent: on update they keep the stored value.
type EnrollmentRequest struct {
	StudentID      *int64     `json:"studentId"`
	CourseID       *int64     `json:"courseId"`
	EnrollmentDate *time.Time `json:"enrollmentDate"`
	Status         *string    `json:"status"`
	Grade          *float64   `json:"grade"`
	Notes          *string    `json:"notes"`
}

// enrollmentListPayload is the cached shape of an enrollment listing.
type enrollmentListPayload struct {
	Items      []models.EnrollmentDetail `json:"items"`
	Pagination *models.Pagination        `json:"pagination"`
}

// EnrollmentService handles enrollment use-cases.
type EnrollmentService struct {
	repo      enrollmentRepository
	students  enrollmentStudentRepository
	courses   enrollmentCourseRepository
	cache     *CacheService
	validator *validation.EntityValidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, students enrollmentStudentRepository, courses enrollmentCourseRepository, cache *CacheService, validator *validation.EntityValidator, logger *zap.Logger, now func() time.Time) *EnrollmentService {
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
	return &EnrollmentService{repo: repo, students: students, courses: courses, cache: cache, validator: validator, logger: logger, now: now}
}

// List returns enrollment details with pagination metadata. The boolean
// reports whether the payload came from the cache.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, bool, error) {
	key := enrollmentListKey(filter)
	var cached enrollmentListPayload
	if s.cache.Lookup(ctx, key, &cached) {
		return cached.Items, cached.Pagination, true, nil
	}

	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	pagination := paginationFor(filter.Page, filter.PageSize, total)
	s.cache.Store(ctx, key, enrollmentListPayload{Items: enrollments, Pagination: pagination})
	return enrollments, pagination, false, nil
}

// Get returns an enrollment detail by ID.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	enrollment, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Inscription non trouvée")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// Create registers a student to a course. The date defaults to now and the
// status to Actif when absent.
func (s *EnrollmentService) Create(ctx context.Context, req EnrollmentRequest) (*models.EnrollmentDetail, error) {
	enrollment := &models.Enrollment{
		Status: models.EnrollmentStatusActive,
		Notes:  normalizeOptional(req.Notes),
	}
	if req.StudentID != nil {
		enrollment.StudentID = *req.StudentID
	}
	if req.CourseID != nil {
		enrollment.CourseID = *req.CourseID
	}
	if req.EnrollmentDate != nil {
		enrollment.EnrollmentDate = req.EnrollmentDate.UTC()
	} else {
		enrollment.EnrollmentDate = s.now()
	}
	if req.Status != nil {
		enrollment.Status = *req.Status
	}
	if req.Grade != nil {
		grade := *req.Grade
		enrollment.Grade = &grade
	}

	if violations := s.validator.Check(enrollment); violations != nil {
		return nil, appErrors.NewValidation("Le payload inscription est invalide", violations)
	}
	if err := s.ensureStudentExists(ctx, enrollment.StudentID); err != nil {
		return nil, err
	}
	course, err := s.loadCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForStudentCourse(ctx, enrollment.StudentID, enrollment.CourseID, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment pair")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "L'étudiant est déjà inscrit à ce cours")
	}
	if course.IsFull() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Le cours a atteint sa capacité maximale")
	}

	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	s.invalidate(ctx)
	s.logger.Info("enrollment created",
		zap.Int64("id", enrollment.ID),
		zap.Int64("student_id", enrollment.StudentID),
		zap.Int64("course_id", enrollment.CourseID))
	return s.Get(ctx, enrollment.ID)
}

// Update applies the present request fields to an existing enrollment.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req EnrollmentRequest) (*models.EnrollmentDetail, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	enrollment := detail.Enrollment

	changed := false
	pairChanged := false
	if req.StudentID != nil && *req.StudentID != enrollment.StudentID {
		enrollment.StudentID = *req.StudentID
		changed, pairChanged = true, true
	}
	if req.CourseID != nil && *req.CourseID != enrollment.CourseID {
		enrollment.CourseID = *req.CourseID
		changed, pairChanged = true, true
	}
	if req.EnrollmentDate != nil {
		date := req.EnrollmentDate.UTC()
		if !date.Equal(enrollment.EnrollmentDate) {
			enrollment.EnrollmentDate = date
			changed = true
		}
	}
	if req.Status != nil && *req.Status != enrollment.Status {
		enrollment.Status = *req.Status
		changed = true
	}
	if req.Grade != nil {
		if enrollment.Grade == nil || *enrollment.Grade != *req.Grade {
			grade := *req.Grade
			enrollment.Grade = &grade
			changed = true
		}
	}
	if req.Notes != nil {
		notes := normalizeOptional(req.Notes)
		if !equalOptional(notes, enrollment.Notes) {
			enrollment.Notes = notes
			changed = true
		}
	}

	if violations := s.validator.Check(&enrollment); violations != nil {
		return nil, appErrors.NewValidation("Le payload inscription est invalide", violations)
	}
	if !changed {
		return detail, nil
	}

	if pairChanged {
		if err := s.ensureStudentExists(ctx, enrollment.StudentID); err != nil {
			return nil, err
		}
		if _, err := s.loadCourse(ctx, enrollment.CourseID); err != nil {
			return nil, err
		}
		exists, err := s.repo.ExistsForStudentCourse(ctx, enrollment.StudentID, enrollment.CourseID, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment pair")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "L'étudiant est déjà inscrit à ce cours")
		}
	}

	enrollment.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, &enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	s.invalidate(ctx)
	s.logger.Info("enrollment deleted", zap.Int64("id", id))
	return nil
}

// invalidate drops both enrollment and course listings: occupancy figures on
// course views depend on enrollments.
func (s *EnrollmentService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, "enrollments:*")
	s.cache.Invalidate(ctx, "courses:*")
}

func (s *EnrollmentService) ensureStudentExists(ctx context.Context, studentID int64) error {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrReferenceNotFound, "L'étudiant spécifié n'existe pas")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return nil
}

func (s *EnrollmentService) loadCourse(ctx context.Context, courseID int64) (*models.CourseDetail, error) {
	course, err := s.courses.FindDetailByID(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrReferenceNotFound, "Le cours spécifié n'existe pas")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}
