package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yayabtw/ishak-school-new/internal/models"
)

var courseColumns = []string{
	"id", "name", "description", "code", "credits", "max_capacity", "semester", "year", "teacher_id", "created_at", "updated_at",
	"teacher_first_name", "teacher_last_name", "teacher_email", "enrollment_count",
}

func TestCourseRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows(courseColumns).
		AddRow(int64(1), "Algèbre linéaire", nil, "MATH101", 6, 30, models.SemesterFall, 2025, int64(2),
			time.Now(), time.Now(), "Marie", "Dupont", "marie.dupont@example.com", 12)
	mock.ExpectQuery("SELECT c.id, c.name").
		WithArgs(models.SemesterFall, 2025, int64(2)).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(models.SemesterFall, 2025, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{
		Semester:  models.SemesterFall,
		Year:      2025,
		TeacherID: 2,
	})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "MATH101", courses[0].Code)
	assert.Equal(t, 12, courses[0].EnrollmentCount)
	assert.Equal(t, "Marie Dupont", courses[0].TeacherFullName())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindDetailByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows(courseColumns).
		AddRow(int64(5), "Histoire moderne", "Survol du XIXe", "HIST201", 4, nil, models.SemesterWinter, 2026, int64(3),
			time.Now(), time.Now(), "Paul", "Bernard", "paul.bernard@example.com", 0)
	mock.ExpectQuery("SELECT c.id, c.name").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	detail, err := repo.FindDetailByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "HIST201", detail.Code)
	assert.Nil(t, detail.MaxCapacity)
	assert.False(t, detail.IsFull())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateFillsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("INSERT INTO courses").
		WithArgs("Algèbre linéaire", nil, "MATH101", 6, nil, models.SemesterFall, 2025, int64(2), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	course := models.Course{
		Name:      "Algèbre linéaire",
		Code:      "MATH101",
		Credits:   6,
		Semester:  models.SemesterFall,
		Year:      2025,
		TeacherID: 2,
	}
	require.NoError(t, repo.Create(context.Background(), &course))
	assert.Equal(t, int64(9), course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDeleteCascadesEnrollments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM enrollments WHERE course_id").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM courses WHERE id").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCountByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByTeacher(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
