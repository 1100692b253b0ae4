package report

import (
	"sort" // Newest-first ordering
	"time" // Trailing month series

	"github.com/shopspring/decimal" // Exact money sums
)

// Dashboard sizing
const (
	RecentCount     = 5
	DashboardMonths = 6
)

// Dashboard is the overview over all of a user's records
type Dashboard struct {
	TotalIncome  float64      `json:"total_income"`
	TotalExpense float64      `json:"total_expense"`
	Balance      float64      `json:"balance"`
	Recent       []Item       `json:"recent"`
	Monthly      []MonthTotal `json:"monthly"`
}

// BuildDashboard totals every record, lists the latest entries of both kinds
// and buckets the trailing months ending in the month of now.
func BuildDashboard(expenses, incomes []Item, now time.Time) *Dashboard {
	incomeTotal, expenseTotal := decimal.Zero, decimal.Zero
	for _, e := range expenses {
		expenseTotal = expenseTotal.Add(decimal.NewFromFloat(e.Amount))
	}
	for _, i := range incomes {
		incomeTotal = incomeTotal.Add(decimal.NewFromFloat(i.Amount))
	}

	all := make([]Item, 0, len(expenses)+len(incomes))
	all = append(all, expenses...)
	all = append(all, incomes...)
	sort.SliceStable(all, func(a, b int) bool { return all[a].Date.After(all[b].Date) })
	if len(all) > RecentCount {
		all = all[:RecentCount]
	}

	now = now.UTC()
	from := startOfMonth(now).AddDate(0, -(DashboardMonths - 1), 0)
	return &Dashboard{
		TotalIncome:  incomeTotal.InexactFloat64(),
		TotalExpense: expenseTotal.InexactFloat64(),
		Balance:      incomeTotal.Sub(expenseTotal).InexactFloat64(),
		Recent:       all,
		Monthly:      Monthly(expenses, incomes, from, endOfMonth(now)),
	}
}
