package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentAge(t *testing.T) {
	now := time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)

	birth := time.Date(2004, time.May, 12, 0, 0, 0, 0, time.UTC)
	student := Student{BirthDate: &birth}
	age := student.Age(now)
	require.NotNil(t, age)
	assert.Equal(t, 21, *age)

	// Birthday later in the year: one year less.
	birthLater := time.Date(2004, time.October, 3, 0, 0, 0, 0, time.UTC)
	student.BirthDate = &birthLater
	age = student.Age(now)
	require.NotNil(t, age)
	assert.Equal(t, 20, *age)

	// Birthday today counts the full year.
	birthToday := time.Date(2004, time.September, 1, 0, 0, 0, 0, time.UTC)
	student.BirthDate = &birthToday
	age = student.Age(now)
	require.NotNil(t, age)
	assert.Equal(t, 21, *age)
}

func TestStudentAgeNilWithoutBirthDate(t *testing.T) {
	student := Student{}
	assert.Nil(t, student.Age(time.Now()))
}

func TestStudentFullName(t *testing.T) {
	student := Student{FirstName: "Lucas", LastName: "Martin"}
	assert.Equal(t, "Lucas Martin", student.FullName())
}
