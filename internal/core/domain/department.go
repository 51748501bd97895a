package domain

import "time"

// Department is a government unit managed through the administrative API.
// Code is stored upper-cased and is globally unique, including soft-deleted
// rows: a trashed department still reserves its code.
type Department struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// Trashed reports whether the department is soft-deleted.
func (d *Department) Trashed() bool {
	return d != nil && d.DeletedAt != nil
}
