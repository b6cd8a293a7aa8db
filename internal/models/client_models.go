package models

import "time"

// Client represents an animal owner registered with the clinic.
// Invoices reference clients by ID and copy Address/Phone into the
// invoice at composition time.
type Client struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name" binding:"required"`
	LastName  string    `json:"last_name" db:"last_name" binding:"required"`
	Address   string    `json:"address" db:"address"`
	Phone     string    `json:"phone" db:"phone" binding:"required"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
