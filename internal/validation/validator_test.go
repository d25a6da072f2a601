package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yayabtw/ishak-school-new/internal/models"
)

var fixedNow = func() time.Time {
	return time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
}

func validTeacher() models.Teacher {
	return models.Teacher{
		FirstName:  "Marie",
		LastName:   "Dupont",
		Email:      "marie.dupont@example.com",
		Speciality: "Mathématiques",
	}
}

func validCourse() models.Course {
	return models.Course{
		Name:      "Algèbre linéaire",
		Code:      "MATH101",
		Credits:   6,
		Semester:  models.SemesterFall,
		Year:      2025,
		TeacherID: 1,
	}
}

func TestCheckValidTeacher(t *testing.T) {
	ev := New(fixedNow)
	assert.Nil(t, ev.Check(validTeacher()))
}

func TestCheckTeacherMissingFields(t *testing.T) {
	ev := New(fixedNow)
	violations := ev.Check(models.Teacher{})
	assert.Contains(t, violations, "Le prénom est obligatoire")
	assert.Contains(t, violations, "Le nom est obligatoire")
	assert.Contains(t, violations, "L'email est obligatoire")
	assert.Contains(t, violations, "La spécialité est obligatoire")
}

func TestCheckEmailMessageIncludesValue(t *testing.T) {
	ev := New(fixedNow)
	teacher := validTeacher()
	teacher.Email = "not-an-email"
	violations := ev.Check(teacher)
	require.Len(t, violations, 1)
	assert.Equal(t, `L'email "not-an-email" n'est pas valide`, violations[0])
}

func TestCheckPhoneFormat(t *testing.T) {
	ev := New(fixedNow)

	good := "+33 (0)1 23-45-67"
	teacher := validTeacher()
	teacher.Phone = &good
	assert.Nil(t, ev.Check(teacher))

	bad := "01.23.45.67"
	teacher.Phone = &bad
	violations := ev.Check(teacher)
	require.Len(t, violations, 1)
	assert.Equal(t, "Le téléphone ne doit contenir que des chiffres, espaces, +, - et parenthèses", violations[0])
}

func TestCheckStudentBirthDate(t *testing.T) {
	ev := New(fixedNow)
	student := models.Student{
		FirstName: "Lucas",
		LastName:  "Martin",
		Email:     "lucas.martin@example.com",
	}

	past := time.Date(2000, time.June, 1, 0, 0, 0, 0, time.UTC)
	student.BirthDate = &past
	assert.Nil(t, ev.Check(student))

	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	student.BirthDate = &today
	violations := ev.Check(student)
	require.Len(t, violations, 1)
	assert.Equal(t, "La date de naissance doit être antérieure à aujourd'hui", violations[0])
}

func TestCheckCourseCode(t *testing.T) {
	ev := New(fixedNow)

	for _, code := range []string{"MATH101", "CS1001", "HIST2024", "IN204"} {
		course := validCourse()
		course.Code = code
		assert.Nil(t, ev.Check(course), "code %s should be accepted", code)
	}

	for _, code := range []string{"math101", "M101", "MATHS12345", "MATH1", "MATH10155"} {
		course := validCourse()
		course.Code = code
		violations := ev.Check(course)
		require.Len(t, violations, 1, "code %s should be rejected", code)
		assert.Equal(t, "Le code doit être au format : 2-4 lettres majuscules suivies de 3-4 chiffres (ex: MATH101)", violations[0])
	}
}

func TestCheckCourseBounds(t *testing.T) {
	ev := New(fixedNow)

	course := validCourse()
	course.Credits = 11
	assert.Contains(t, ev.Check(course), "Le nombre de crédits ne peut pas dépasser 10")

	course = validCourse()
	course.Year = 2019
	assert.Contains(t, ev.Check(course), "L'année doit être entre 2020 et 2030")

	course = validCourse()
	course.Semester = "Printemps2"
	assert.Contains(t, ev.Check(course), "Le semestre doit être l'un des suivants : Automne, Hiver, Printemps, Été")

	zero := 0
	course = validCourse()
	course.MaxCapacity = &zero
	assert.Contains(t, ev.Check(course), "La capacité maximale doit être positive")
}

func TestCheckEnrollment(t *testing.T) {
	ev := New(fixedNow)

	enrollment := models.Enrollment{
		StudentID: 1,
		CourseID:  2,
		Status:    models.EnrollmentStatusActive,
	}
	assert.Nil(t, ev.Check(enrollment))

	enrollment.Status = "Inconnu"
	assert.Contains(t, ev.Check(enrollment), "Le statut doit être l'un des suivants : Actif, Terminé, Abandonné, En attente")

	over := 20.5
	enrollment.Status = models.EnrollmentStatusCompleted
	enrollment.Grade = &over
	assert.Contains(t, ev.Check(enrollment), "La note doit être au maximum 20")

	negative := -0.5
	enrollment.Grade = &negative
	assert.Contains(t, ev.Check(enrollment), "La note doit être au minimum 0")

	boundary := 20.0
	enrollment.Grade = &boundary
	assert.Nil(t, ev.Check(enrollment))
}

func TestCheckMissingReferences(t *testing.T) {
	ev := New(fixedNow)

	course := validCourse()
	course.TeacherID = 0
	assert.Contains(t, ev.Check(course), "Un enseignant doit être assigné au cours")

	violations := ev.Check(models.Enrollment{Status: models.EnrollmentStatusActive})
	assert.Contains(t, violations, "Un étudiant doit être assigné à l'inscription")
	assert.Contains(t, violations, "Un cours doit être assigné à l'inscription")
}
