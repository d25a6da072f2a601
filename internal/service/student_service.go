package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/Yayabtw/ishak-school-new/internal/models"
	"github.com/Yayabtw/ishak-school-new/internal/validation"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	ExistsByStudentNumber(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type studentEnrollmentRepository interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error)
}

// StudentRequest holds the payload for creating or partially updating a
// student. Nil fields are absent: on update they keep the stored value.
// The student number is always generated server side.
type StudentRequest struct {
	FirstName *string    `json:"firstName"`
	LastName  *string    `json:"lastName"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	BirthDate *time.Time `json:"birthDate"`
	Address   *string    `json:"address"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo        studentRepository
	enrollments studentEnrollmentRepository
	validator   *validation.EntityValidator
	logger      *zap.Logger
	now         func() time.Time
	randInt     func(n int) int
}

// NewStudentService constructs the student service. The now and randInt
// functions feed student number generation; nil picks the wall clock and
// math/rand.
func NewStudentService(repo studentRepository, enrollments studentEnrollmentRepository, validator *validation.EntityValidator, logger *zap.Logger, now func() time.Time, randInt func(n int) int) *StudentService {
	if validator == nil {
		validator = validation.New(now)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = defaultNow
	}
	if randInt == nil {
		randInt = rand.Intn
	}
	return &StudentService{repo: repo, enrollments: enrollments, validator: validator, logger: logger, now: now, randInt: randInt}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a student by ID.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Étudiant non trouvé")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student with a generated student number.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	student := &models.Student{
		Phone:   normalizeOptional(req.Phone),
		Address: normalizeOptional(req.Address),
	}
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.BirthDate != nil {
		birth := req.BirthDate.UTC()
		student.BirthDate = &birth
	}

	if violations := s.validator.Check(student); violations != nil {
		return nil, appErrors.NewValidation("Le payload étudiant est invalide", violations)
	}
	exists, err := s.repo.ExistsByEmail(ctx, student.Email, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Un étudiant avec cet email existe déjà")
	}

	number, err := s.generateStudentNumber(ctx)
	if err != nil {
		return nil, err
	}
	student.StudentNumber = number

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.Int64("id", student.ID), zap.String("student_number", student.StudentNumber))
	return student, nil
}

// Update applies the present request fields to an existing student. The
// student number never changes after creation.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.FirstName != nil && *req.FirstName != student.FirstName {
		student.FirstName = *req.FirstName
		changed = true
	}
	if req.LastName != nil && *req.LastName != student.LastName {
		student.LastName = *req.LastName
		changed = true
	}
	if req.Email != nil && *req.Email != student.Email {
		student.Email = *req.Email
		changed = true
	}
	if req.Phone != nil {
		phone := normalizeOptional(req.Phone)
		if !equalOptional(phone, student.Phone) {
			student.Phone = phone
			changed = true
		}
	}
	if req.BirthDate != nil {
		birth := req.BirthDate.UTC()
		if student.BirthDate == nil || !student.BirthDate.Equal(birth) {
			student.BirthDate = &birth
			changed = true
		}
	}
	if req.Address != nil {
		address := normalizeOptional(req.Address)
		if !equalOptional(address, student.Address) {
			student.Address = address
			changed = true
		}
	}

	if violations := s.validator.Check(student); violations != nil {
		return nil, appErrors.NewValidation("Le payload étudiant est invalide", violations)
	}
	if !changed {
		return student, nil
	}

	exists, err := s.repo.ExistsByEmail(ctx, student.Email, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Un étudiant avec cet email existe déjà")
	}

	student.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes a student together with its enrollments.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.logger.Info("student deleted", zap.Int64("id", id))
	return nil
}

// ListEnrollments returns the enrollments of a student.
func (s *StudentService) ListEnrollments(ctx context.Context, id int64) ([]models.EnrollmentDetail, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	enrollments, err := s.enrollments.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student enrollments")
	}
	return enrollments, nil
}

// generateStudentNumber produces STU + year + a 4 digit suffix, retrying on
// the rare collision.
func (s *StudentService) generateStudentNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	for attempt := 0; attempt < 10; attempt++ {
		number := fmt.Sprintf("STU%d%04d", year, s.randInt(9999)+1)
		taken, err := s.repo.ExistsByStudentNumber(ctx, number)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student number")
		}
		if !taken {
			return number, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrInternal, "could not allocate a unique student number")
}
