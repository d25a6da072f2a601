package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yayabtw/ishak-school-new/internal/models"
	"github.com/Yayabtw/ishak-school-new/internal/validation"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
)

func newEnrollmentServiceForTest() (*EnrollmentService, *mockEnrollmentRepo, *mockStudentRepo, *mockCourseRepo) {
	enrollments := newMockEnrollmentRepo()
	students := newMockStudentRepo()
	courses := newMockCourseRepo()
	students.students[1] = models.Student{ID: 1, FirstName: "Lucas", LastName: "Martin", Email: "lucas.martin@example.com", StudentNumber: "STU20250042"}
	capacity := 2
	courses.courses[1] = models.CourseDetail{Course: models.Course{
		ID: 1, Name: "Algèbre linéaire", Code: "MATH101", Credits: 6,
		MaxCapacity: &capacity, Semester: models.SemesterFall, Year: 2025, TeacherID: 1,
	}}
	validator := validation.New(testNow)
	svc := NewEnrollmentService(enrollments, students, courses, nil, validator, nil, testNow)
	return svc, enrollments, students, courses
}

func TestEnrollmentServiceCreateDefaults(t *testing.T) {
	svc, _, _, _ := newEnrollmentServiceForTest()

	enrollment, err := svc.Create(context.Background(), EnrollmentRequest{
		StudentID: int64Ptr(1),
		CourseID:  int64Ptr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.True(t, enrollment.EnrollmentDate.Equal(testNow()))
	assert.Nil(t, enrollment.Grade)
}

func TestEnrollmentServiceCreateUnknownReferences(t *testing.T) {
	svc, _, _, _ := newEnrollmentServiceForTest()

	_, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: int64Ptr(99), CourseID: int64Ptr(1)})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrReferenceNotFound.Code, appErr.Code)
	assert.Equal(t, "L'étudiant spécifié n'existe pas", appErr.Message)

	_, err = svc.Create(context.Background(), EnrollmentRequest{StudentID: int64Ptr(1), CourseID: int64Ptr(99)})
	require.Error(t, err)
	appErr, ok = err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, "Le cours spécifié n'existe pas", appErr.Message)
}

func TestEnrollmentServiceCreateDuplicatePair(t *testing.T) {
	svc, _, _, _ := newEnrollmentServiceForTest()

	_, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: int64Ptr(1), CourseID: int64Ptr(1)})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), EnrollmentRequest{StudentID: int64Ptr(1), CourseID: int64Ptr(1)})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "L'étudiant est déjà inscrit à ce cours", appErr.Message)
}

func TestEnrollmentServiceCreateFullCourse(t *testing.T) {
	svc, _, students, courses := newEnrollmentServiceForTest()
	students.students[2] = models.Student{ID: 2, FirstName: "Emma", LastName: "Bernard", Email: "emma.bernard@example.com", StudentNumber: "STU20250043"}

	detail := courses.courses[1]
	detail.EnrollmentCount = 2
	courses.courses[1] = detail

	_, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: int64Ptr(2), CourseID: int64Ptr(1)})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Le cours a atteint sa capacité maximale", appErr.Message)
}

func TestEnrollmentServiceCreateInvalidGrade(t *testing.T) {
	svc, _, _, _ := newEnrollmentServiceForTest()

	_, err := svc.Create(context.Background(), EnrollmentRequest{
		StudentID: int64Ptr(1),
		CourseID:  int64Ptr(1),
		Grade:     floatPtr(20.5),
	})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Details, "La note doit être au maximum 20")
}

func TestEnrollmentServiceUpdateGradeAndStatus(t *testing.T) {
	svc, _, _, _ := newEnrollmentServiceForTest()
	created, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: int64Ptr(1), CourseID: int64Ptr(1)})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, EnrollmentRequest{
		Status: strPtr(models.EnrollmentStatusCompleted),
		Grade:  floatPtr(15.5),
	})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted())
	require.NotNil(t, updated.Grade)
	assert.InDelta(t, 15.5, *updated.Grade, 0.001)
	assert.Equal(t, created.StudentID, updated.StudentID)
}

func TestEnrollmentServiceUpdatePairReverifies(t *testing.T) {
	svc, _, students, courses := newEnrollmentServiceForTest()
	students.students[2] = models.Student{ID: 2, FirstName: "Emma", LastName: "Bernard", Email: "emma.bernard@example.com", StudentNumber: "STU20250043"}
	courses.courses[2] = models.CourseDetail{Course: models.Course{
		ID: 2, Name: "Histoire moderne", Code: "HIST201", Credits: 4,
		Semester: models.SemesterWinter, Year: 2025, TeacherID: 1,
	}}

	first, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: int64Ptr(1), CourseID: int64Ptr(1)})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), EnrollmentRequest{StudentID: int64Ptr(2), CourseID: int64Ptr(2)})
	require.NoError(t, err)

	// Moving the first enrollment onto the second pair duplicates it.
	_, err = svc.Update(context.Background(), first.ID, EnrollmentRequest{StudentID: int64Ptr(2), CourseID: int64Ptr(2)})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	// Moving it to a free pair succeeds.
	moved, err := svc.Update(context.Background(), first.ID, EnrollmentRequest{CourseID: int64Ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved.CourseID)
}

func TestEnrollmentServiceUpdateKeepsDateWhenAbsent(t *testing.T) {
	svc, _, _, _ := newEnrollmentServiceForTest()
	date := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(context.Background(), EnrollmentRequest{
		StudentID:      int64Ptr(1),
		CourseID:       int64Ptr(1),
		EnrollmentDate: &date,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, EnrollmentRequest{Notes: strPtr("Bon début")})
	require.NoError(t, err)
	assert.True(t, updated.EnrollmentDate.Equal(date))
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "Bon début", *updated.Notes)
}

func TestEnrollmentServiceDelete(t *testing.T) {
	svc, enrollments, _, _ := newEnrollmentServiceForTest()
	created, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: int64Ptr(1), CourseID: int64Ptr(1)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, ok := enrollments.enrollments[created.ID]
	assert.False(t, ok)
}
