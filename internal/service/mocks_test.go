package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/Yayabtw/ishak-school-new/internal/models"
)

type mockTeacherRepo struct {
	teachers map[int64]models.Teacher
	nextID   int64
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: map[int64]models.Teacher{}, nextID: 1}
}

func (m *mockTeacherRepo) List(_ context.Context, _ models.TeacherFilter) ([]models.Teacher, int, error) {
	out := make([]models.Teacher, 0, len(m.teachers))
	for _, t := range m.teachers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockTeacherRepo) FindByID(_ context.Context, id int64) (*models.Teacher, error) {
	t, ok := m.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (m *mockTeacherRepo) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, t := range m.teachers {
		if strings.EqualFold(t.Email, email) && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *models.Teacher) error {
	teacher.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	teacher.CreatedAt, teacher.UpdatedAt = now, now
	m.teachers[teacher.ID] = *teacher
	return nil
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *models.Teacher) error {
	m.teachers[teacher.ID] = *teacher
	return nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id int64) error {
	delete(m.teachers, id)
	return nil
}

type mockCourseRepo struct {
	courses map[int64]models.CourseDetail
	nextID  int64
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: map[int64]models.CourseDetail{}, nextID: 1}
}

func (m *mockCourseRepo) List(_ context.Context, _ models.CourseFilter) ([]models.CourseDetail, int, error) {
	out := make([]models.CourseDetail, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockCourseRepo) FindDetailByID(_ context.Context, id int64) (*models.CourseDetail, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (m *mockCourseRepo) ExistsByCode(_ context.Context, code string, excludeID int64) (bool, error) {
	for _, c := range m.courses {
		if c.Code == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) CountByTeacher(_ context.Context, teacherID int64) (int, error) {
	count := 0
	for _, c := range m.courses {
		if c.TeacherID == teacherID {
			count++
		}
	}
	return count, nil
}

func (m *mockCourseRepo) ListByTeacher(_ context.Context, teacherID int64) ([]models.CourseDetail, error) {
	var out []models.CourseDetail
	for _, c := range m.courses {
		if c.TeacherID == teacherID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	course.CreatedAt, course.UpdatedAt = now, now
	m.courses[course.ID] = models.CourseDetail{Course: *course}
	return nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *models.Course) error {
	detail := m.courses[course.ID]
	detail.Course = *course
	m.courses[course.ID] = detail
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id int64) error {
	delete(m.courses, id)
	return nil
}

type mockStudentRepo struct {
	students map[int64]models.Student
	nextID   int64
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: map[int64]models.Student{}, nextID: 1}
}

func (m *mockStudentRepo) List(_ context.Context, _ models.StudentFilter) ([]models.Student, int, error) {
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockStudentRepo) FindByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockStudentRepo) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, s := range m.students {
		if strings.EqualFold(s.Email, email) && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) ExistsByStudentNumber(_ context.Context, number string) (bool, error) {
	for _, s := range m.students {
		if s.StudentNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(_ context.Context, student *models.Student) error {
	student.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	student.CreatedAt, student.UpdatedAt = now, now
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id int64) error {
	delete(m.students, id)
	return nil
}

type mockEnrollmentRepo struct {
	enrollments map[int64]models.EnrollmentDetail
	nextID      int64
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: map[int64]models.EnrollmentDetail{}, nextID: 1}
}

func (m *mockEnrollmentRepo) List(_ context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	var out []models.EnrollmentDetail
	for _, e := range m.enrollments {
		if filter.StudentID != 0 && e.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != 0 && e.CourseID != filter.CourseID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockEnrollmentRepo) FindDetailByID(_ context.Context, id int64) (*models.EnrollmentDetail, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &e, nil
}

func (m *mockEnrollmentRepo) ExistsForStudentCourse(_ context.Context, studentID, courseID, excludeID int64) (bool, error) {
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentRepo) ListByStudent(_ context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	var out []models.EnrollmentDetail
	for _, e := range m.enrollments {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	enrollment.CreatedAt, enrollment.UpdatedAt = now, now
	m.enrollments[enrollment.ID] = models.EnrollmentDetail{Enrollment: *enrollment}
	return nil
}

func (m *mockEnrollmentRepo) Update(_ context.Context, enrollment *models.Enrollment) error {
	detail := m.enrollments[enrollment.ID]
	detail.Enrollment = *enrollment
	m.enrollments[enrollment.ID] = detail
	return nil
}

func (m *mockEnrollmentRepo) Delete(_ context.Context, id int64) error {
	delete(m.enrollments, id)
	return nil
}

// ptr helpers for request literals.
func strPtr(v string) *string       { return &v }
func intPtr(v int) *int             { return &v }
func int64Ptr(v int64) *int64       { return &v }
func floatPtr(v float64) *float64   { return &v }
func timePtr(v time.Time) *time.Time { return &v }
