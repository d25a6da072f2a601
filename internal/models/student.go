package models

import "time"

// Student represents a learner registered in the institution.
type Student struct {
	ID            int64      `db:"id" json:"id"`
	FirstName     string     `db:"first_name" json:"firstName" validate:"required,min=2,max=100"`
	LastName      string     `db:"last_name" json:"lastName" validate:"required,min=2,max=100"`
	Email         string     `db:"email" json:"email" validate:"required,email"`
	Phone         *string    `db:"phone" json:"phone,omitempty" validate:"omitnil,phone"`
	BirthDate     *time.Time `db:"birth_date" json:"birthDate,omitempty" validate:"omitnil,beforetoday"`
	Address       *string    `db:"address" json:"address,omitempty"`
	StudentNumber string     `db:"student_number" json:"studentNumber"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// FullName joins first and last name for display.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Age returns whole years between the birth date and the reference instant,
// or nil when no birth date is recorded.
func (s *Student) Age(now time.Time) *int {
	if s.BirthDate == nil {
		return nil
	}
	birth := s.BirthDate.UTC()
	now = now.UTC()
	years := now.Year() - birth.Year()
	anniversary := time.Date(now.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if now.Before(anniversary) {
		years--
	}
	return &years
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
