package models

import "time"

// Teacher represents an instructor record.
type Teacher struct {
	ID         int64     `db:"id" json:"id"`
	FirstName  string    `db:"first_name" json:"firstName" validate:"required,min=2,max=100"`
	LastName   string    `db:"last_name" json:"lastName" validate:"required,min=2,max=100"`
	Email      string    `db:"email" json:"email" validate:"required,email"`
	Phone      *string   `db:"phone" json:"phone,omitempty" validate:"omitnil,phone"`
	Speciality string    `db:"speciality" json:"speciality" validate:"required"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// FullName joins first and last name for display.
func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
