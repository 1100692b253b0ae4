package domain

import "time"

// Entry is the shape shared by expenses and income. Both live in their own
// table; handlers address them through Kind.Table.
type Entry struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Amount      float64   `gorm:"not null" json:"amount"`
	CategoryID  *string   `gorm:"type:varchar(36)" json:"category_id"`
	Category    string    `gorm:"-" json:"category"` // Resolved name, never stored
	Description string    `gorm:"size:1000" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Expense Model
type Expense struct {
	Entry
}

// TableName pins the expenses table
func (Expense) TableName() string { return "expenses" }

// Income Model
type Income struct {
	Entry
}

// TableName pins the income table
func (Income) TableName() string { return "income" }

// Kind describes one of the two entry tables
type Kind struct {
	Table        string       // Backing table
	Singular     string       // Name used in messages and response keys
	Title        string       // Capitalised name for messages
	CategoryType CategoryType // Categories an entry of this kind may reference
}

var (
	ExpenseKind = Kind{Table: "expenses", Singular: "expense", Title: "Expense", CategoryType: CategoryTypeExpense}
	IncomeKind  = Kind{Table: "income", Singular: "income", Title: "Income", CategoryType: CategoryTypeIncome}
)

// KindOf returns the entry kind that references categories of type ct
func KindOf(ct CategoryType) Kind {
	if ct == CategoryTypeIncome {
		return IncomeKind
	}
	return ExpenseKind
}

// ResolveCategory fills Category from the caller's categories keyed by id
func (e *Entry) ResolveCategory(names map[string]string) {
	switch {
	case e.CategoryID == nil || *e.CategoryID == "":
		e.Category = CategoryLabelNone
	default:
		if name, ok := names[*e.CategoryID]; ok {
			e.Category = name
		} else {
			e.Category = CategoryLabelDeleted
		}
	}
}
