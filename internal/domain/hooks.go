package domain

import (
	"github.com/google/uuid" // Primary key generation
	"gorm.io/gorm"           // GORM ORM library
)

// BeforeCreate assigns an opaque id to new users
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns an opaque id to new categories
func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns an opaque id to new expenses and income
func (e *Entry) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
