package domain

import "time"

// CategoryType separates income categories from expense categories
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// DefaultCategoryColor is used when a category is created without a color
const DefaultCategoryColor = "#000000"

// Labels shown for entries whose category cannot be resolved to a name
const (
	CategoryLabelNone    = "Other"   // Entry was saved without a category
	CategoryLabelDeleted = "Unknown" // Referenced category no longer exists
)

// Category Model. (user_id, name, type) is unique at the store level.
type Category struct {
	ID        string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_categories_owner_name_type,priority:1" json:"user_id"`
	Name      string       `gorm:"size:100;not null;uniqueIndex:idx_categories_owner_name_type,priority:2" json:"name"`
	Type      CategoryType `gorm:"size:16;not null;uniqueIndex:idx_categories_owner_name_type,priority:3" json:"type"`
	Color     string       `gorm:"size:16" json:"color"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ParseCategoryType accepts exactly "income" or "expense"
func ParseCategoryType(s string) (CategoryType, error) {
	switch CategoryType(s) {
	case CategoryTypeIncome, CategoryTypeExpense:
		return CategoryType(s), nil
	default:
		return "", ErrInvalidCategoryType
	}
}

// DefaultCategories are seeded for every new account
func DefaultCategories() []Category {
	return []Category{
		{Name: "Food", Type: CategoryTypeExpense, Color: "#FF5733"},
		{Name: "Transport", Type: CategoryTypeExpense, Color: "#33FF57"},
		{Name: "Entertainment", Type: CategoryTypeExpense, Color: "#3357FF"},
		{Name: "Salary", Type: CategoryTypeIncome, Color: "#57FF33"},
		{Name: "Freelance", Type: CategoryTypeIncome, Color: "#FF33F6"},
	}
}
