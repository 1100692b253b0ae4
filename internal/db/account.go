package db

import (
	"context"                  // Request scoped cancellation
	"ledgerly/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// CreateAccount inserts the user and its default categories atomically.
// If seeding fails the user row is rolled back with it.
func CreateAccount(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err // Duplicate email lands here
		}
		categories := domain.DefaultCategories()
		for i := range categories {
			categories[i].UserID = user.ID
		}
		return tx.Create(&categories).Error
	})
}

// DeleteAccount removes every record owned by the user and then the user itself.
// Returns gorm.ErrRecordNotFound when the user does not exist.
func DeleteAccount(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.Category{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&domain.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&domain.Income{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", userID).Delete(&domain.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
