package domain

import "time"

// User Model
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`      // Opaque identifier
	Name      string    `gorm:"size:100;not null" json:"name"`              // Display name
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"` // Unique, lower-cased
	Password  string    `gorm:"size:255;not null" json:"-"`                 // Bcrypt hash
	CreatedAt time.Time `json:"created_at"`                                 // Set on insert
	UpdatedAt time.Time `json:"updated_at"`                                 // Set on every save
}
