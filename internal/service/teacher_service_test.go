package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yayabtw/ishak-school-new/internal/models"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
)

func newTeacherServiceForTest() (*TeacherService, *mockTeacherRepo, *mockCourseRepo) {
	teachers := newMockTeacherRepo()
	courses := newMockCourseRepo()
	return NewTeacherService(teachers, courses, nil, nil), teachers, courses
}

func teacherPayload() TeacherRequest {
	return TeacherRequest{
		FirstName:  strPtr("Marie"),
		LastName:   strPtr("Dupont"),
		Email:      strPtr("marie.dupont@example.com"),
		Speciality: strPtr("Mathématiques"),
	}
}

func TestTeacherServiceCreate(t *testing.T) {
	svc, _, _ := newTeacherServiceForTest()

	teacher, err := svc.Create(context.Background(), teacherPayload())
	require.NoError(t, err)
	assert.Equal(t, int64(1), teacher.ID)
	assert.Equal(t, "Marie Dupont", teacher.FullName())
	assert.Nil(t, teacher.Phone)
}

func TestTeacherServiceCreateValidation(t *testing.T) {
	svc, _, _ := newTeacherServiceForTest()

	_, err := svc.Create(context.Background(), TeacherRequest{FirstName: strPtr("M")})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Details, "Le prénom doit contenir au moins 2 caractères")
	assert.Contains(t, appErr.Details, "Le nom est obligatoire")
}

func TestTeacherServiceCreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newTeacherServiceForTest()

	_, err := svc.Create(context.Background(), teacherPayload())
	require.NoError(t, err)

	payload := teacherPayload()
	payload.FirstName = strPtr("Jeanne")
	_, err = svc.Create(context.Background(), payload)
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Un enseignant avec cet email existe déjà", appErr.Message)
}

func TestTeacherServiceUpdatePartial(t *testing.T) {
	svc, _, _ := newTeacherServiceForTest()
	created, err := svc.Create(context.Background(), teacherPayload())
	require.NoError(t, err)

	phone := "+33 1 23 45 67 89"
	updated, err := svc.Update(context.Background(), created.ID, TeacherRequest{Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.FirstName, updated.FirstName)
}

func TestTeacherServiceUpdateNoChangeKeepsTimestamp(t *testing.T) {
	svc, _, _ := newTeacherServiceForTest()
	created, err := svc.Create(context.Background(), teacherPayload())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, TeacherRequest{Email: strPtr(created.Email)})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.Equal(created.UpdatedAt))
}

func TestTeacherServiceUpdateNotFound(t *testing.T) {
	svc, _, _ := newTeacherServiceForTest()

	_, err := svc.Update(context.Background(), 999, teacherPayload())
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Enseignant non trouvé", appErr.Message)
}

func TestTeacherServiceDeleteWithCoursesConflicts(t *testing.T) {
	svc, _, courses := newTeacherServiceForTest()
	created, err := svc.Create(context.Background(), teacherPayload())
	require.NoError(t, err)

	require.NoError(t, courses.Create(context.Background(), &models.Course{
		Name: "Algèbre linéaire", Code: "MATH101", Credits: 6,
		Semester: models.SemesterFall, Year: 2025, TeacherID: created.ID,
	}))

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Impossible de supprimer un enseignant avec des cours assignés", appErr.Message)

	// Removing the course unblocks the teacher.
	require.NoError(t, courses.Delete(context.Background(), 1))
	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	require.Error(t, err)
}

func TestTeacherServiceListCourses(t *testing.T) {
	svc, _, courses := newTeacherServiceForTest()
	created, err := svc.Create(context.Background(), teacherPayload())
	require.NoError(t, err)

	require.NoError(t, courses.Create(context.Background(), &models.Course{
		Name: "Algèbre linéaire", Code: "MATH101", Credits: 6,
		Semester: models.SemesterFall, Year: 2025, TeacherID: created.ID,
	}))

	taught, err := svc.ListCourses(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, taught, 1)
	assert.Equal(t, "MATH101", taught[0].Code)
}
