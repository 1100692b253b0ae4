package report

import (
	"time" // Month buckets

	"github.com/shopspring/decimal" // Exact money sums
)

// Item types
const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// TopCategoryNone is reported when a side has no entries in the window
const TopCategoryNone = "None"

// MonthLabel formats month buckets, e.g. "Jan 2024"
const MonthLabel = "Jan 2006"

// Item is one expense or income entry as seen by the aggregation
type Item struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	CategoryID  string    `json:"category_id,omitempty"`
	Category    string    `json:"category"` // Resolved label
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

// Summary holds the headline figures of a report
type Summary struct {
	TotalExpense       float64 `json:"total_expense"`
	TotalIncome        float64 `json:"total_income"`
	NetBalance         float64 `json:"net_balance"`
	AverageExpense     float64 `json:"average_expense"`
	AverageIncome      float64 `json:"average_income"`
	ExpenseCount       int     `json:"expense_count"`
	IncomeCount        int     `json:"income_count"`
	TopExpenseCategory string  `json:"top_expense_category"`
	TopIncomeCategory  string  `json:"top_income_category"`
}

// CategoryTotal is one slice of a per-category breakdown
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// MonthTotal is one bucket of the monthly series
type MonthTotal struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Report is the computed view over a window. Expenses and Incomes carry the
// filtered rows for export.
type Report struct {
	Window           Window          `json:"window"`
	Summary          Summary         `json:"summary"`
	ExpenseBreakdown []CategoryTotal `json:"expense_breakdown"`
	IncomeBreakdown  []CategoryTotal `json:"income_breakdown"`
	Monthly          []MonthTotal    `json:"monthly"`
	Expenses         []Item          `json:"-"`
	Incomes          []Item          `json:"-"`
}

// Empty reports whether the window selected no rows at all
func (r *Report) Empty() bool {
	return len(r.Expenses) == 0 && len(r.Incomes) == 0
}

// Build filters expenses and income to the window and aggregates them.
// Income is never filtered by category. The result depends only on its inputs.
func Build(expenses, incomes []Item, w Window) *Report {
	r := &Report{Window: w, Expenses: []Item{}, Incomes: []Item{}}
	for _, e := range expenses {
		if w.Contains(e.Date) && (w.CategoryID == "" || e.CategoryID == w.CategoryID) {
			r.Expenses = append(r.Expenses, e)
		}
	}
	for _, i := range incomes {
		if w.Contains(i.Date) {
			r.Incomes = append(r.Incomes, i)
		}
	}

	expenseTotal, expenseBreakdown := breakdown(r.Expenses)
	incomeTotal, incomeBreakdown := breakdown(r.Incomes)

	r.Summary = Summary{
		TotalExpense:       expenseTotal.InexactFloat64(),
		TotalIncome:        incomeTotal.InexactFloat64(),
		NetBalance:         incomeTotal.Sub(expenseTotal).InexactFloat64(),
		AverageExpense:     average(expenseTotal, len(r.Expenses)),
		AverageIncome:      average(incomeTotal, len(r.Incomes)),
		ExpenseCount:       len(r.Expenses),
		IncomeCount:        len(r.Incomes),
		TopExpenseCategory: top(expenseBreakdown),
		TopIncomeCategory:  top(incomeBreakdown),
	}
	r.ExpenseBreakdown = expenseBreakdown
	r.IncomeBreakdown = incomeBreakdown
	r.Monthly = Monthly(r.Expenses, r.Incomes, w.From, w.To)
	return r
}

// breakdown sums items per category label, keeping first-seen order
func breakdown(items []Item) (decimal.Decimal, []CategoryTotal) {
	total := decimal.Zero
	sums := map[string]decimal.Decimal{}
	var order []string
	for _, it := range items {
		amount := decimal.NewFromFloat(it.Amount)
		total = total.Add(amount)
		if _, seen := sums[it.Category]; !seen {
			order = append(order, it.Category)
		}
		sums[it.Category] = sums[it.Category].Add(amount)
	}
	out := make([]CategoryTotal, 0, len(order))
	for _, label := range order {
		out = append(out, CategoryTotal{Category: label, Amount: sums[label].InexactFloat64()})
	}
	return total, out
}

// average divides by count floored at one; exports round it to cents
func average(total decimal.Decimal, count int) float64 {
	return total.Div(decimal.NewFromInt(int64(max(count, 1)))).InexactFloat64()
}

// top returns the largest slice; the first one wins a tie
func top(totals []CategoryTotal) string {
	if len(totals) == 0 {
		return TopCategoryNone
	}
	best := totals[0]
	for _, t := range totals[1:] {
		if t.Amount > best.Amount {
			best = t
		}
	}
	return best.Category
}

// Monthly buckets items into every calendar month between from and to
func Monthly(expenses, incomes []Item, from, to time.Time) []MonthTotal {
	buckets := months(from, to)
	index := make(map[string]int, len(buckets))
	expenseSums := make([]decimal.Decimal, len(buckets))
	incomeSums := make([]decimal.Decimal, len(buckets))
	for i, m := range buckets {
		index[m.Format(MonthLabel)] = i
	}

	add := func(items []Item, sums []decimal.Decimal) {
		for _, it := range items {
			if it.Date.Before(from) || it.Date.After(to) {
				continue
			}
			if i, ok := index[it.Date.UTC().Format(MonthLabel)]; ok {
				sums[i] = sums[i].Add(decimal.NewFromFloat(it.Amount))
			}
		}
	}
	add(expenses, expenseSums)
	add(incomes, incomeSums)

	out := make([]MonthTotal, len(buckets))
	for i, m := range buckets {
		out[i] = MonthTotal{
			Month:   m.Format(MonthLabel),
			Income:  incomeSums[i].InexactFloat64(),
			Expense: expenseSums[i].InexactFloat64(),
		}
	}
	return out
}
