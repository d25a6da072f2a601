package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yayabtw/ishak-school-new/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "speciality", "created_at", "updated_at"}).
		AddRow(int64(1), "Marie", "Dupont", "marie.dupont@example.com", nil, "Mathématiques", time.Now(), time.Now())
	mock.ExpectQuery("SELECT t.id, t.first_name").WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teachers t WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	teachers, total, err := repo.List(context.Background(), models.TeacherFilter{})
	require.NoError(t, err)
	assert.Len(t, teachers, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListSearchFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("SELECT t.id, t.first_name").
		WithArgs("%dupont%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "speciality", "created_at", "updated_at"}))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%dupont%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	teachers, total, err := repo.List(context.Background(), models.TeacherFilter{Search: "Dupont"})
	require.NoError(t, err)
	assert.Empty(t, teachers)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreateFillsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("INSERT INTO teachers").
		WithArgs("Marie", "Dupont", "marie.dupont@example.com", nil, "Mathématiques", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	teacher := models.Teacher{FirstName: "Marie", LastName: "Dupont", Email: "marie.dupont@example.com", Speciality: "Mathématiques"}
	require.NoError(t, repo.Create(context.Background(), &teacher))
	assert.Equal(t, int64(42), teacher.ID)
	assert.False(t, teacher.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("SELECT 1 FROM teachers").
		WithArgs("marie.dupont@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "marie.dupont@example.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM teachers").
		WithArgs("libre@example.com", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))

	exists, err = repo.ExistsByEmail(context.Background(), "libre@example.com", 7)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("DELETE FROM teachers").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
