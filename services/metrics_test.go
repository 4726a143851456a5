package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/models"
	"fintrack/utils"
)

func TestExpenseCount(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "counter")
	other := createUser(t, db, "other")
	m := NewMetrics(db)

	count, err := m.ExpenseCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	addExpense(t, db, user.ID, "10.00", day(2024, time.March, 1))
	addExpense(t, db, user.ID, "20.00", day(2024, time.March, 2))
	addExpense(t, db, other.ID, "99.00", day(2024, time.March, 2))

	count, err = m.ExpenseCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestExpenseStreak_FullWindow(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "streaker")
	m := NewMetrics(db)

	today := day(2024, time.March, 10)
	for i := 0; i < 7; i++ {
		addExpense(t, db, user.ID, "5.00", today.AddDate(0, 0, -i))
	}

	ok, err := m.HasExpenseOnEachOfLastNDays(user.ID, 7, today)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExpenseStreak_GapFailsWholeStreak(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "gapped")
	m := NewMetrics(db)

	today := day(2024, time.March, 10)
	// Only one expense, three days back: every other day is a gap.
	addExpense(t, db, user.ID, "5.00", today.AddDate(0, 0, -3))

	ok, err := m.HasExpenseOnEachOfLastNDays(user.ID, 7, today)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpenseStreak_MissingToday(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "stale")
	m := NewMetrics(db)

	today := day(2024, time.March, 10)
	for i := 1; i <= 7; i++ {
		addExpense(t, db, user.ID, "5.00", today.AddDate(0, 0, -i))
	}

	// Seven consecutive days, but the streak must end today.
	ok, err := m.HasExpenseOnEachOfLastNDays(user.ID, 7, today)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpenseStreak_MultipleExpensesSameDayCountOnce(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "doubled")
	m := NewMetrics(db)

	today := day(2024, time.March, 10)
	addExpense(t, db, user.ID, "5.00", today)
	addExpense(t, db, user.ID, "6.00", today)

	ok, err := m.HasExpenseOnEachOfLastNDays(user.ID, 2, today)
	require.NoError(t, err)
	assert.False(t, ok, "two expenses today do not cover yesterday")

	ok, err = m.HasExpenseOnEachOfLastNDays(user.ID, 1, today)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMonthlyTotals(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "totals")
	m := NewMetrics(db)

	addExpense(t, db, user.ID, "100.50", day(2024, time.March, 5))
	addExpense(t, db, user.ID, "49.50", day(2024, time.March, 31))
	addExpense(t, db, user.ID, "999.00", day(2024, time.April, 1)) // next month
	addIncome(t, db, user.ID, "200.00", day(2024, time.March, 15))

	expenses, err := m.MonthlyExpenseTotal(user.ID, 2024, time.March)
	require.NoError(t, err)
	assert.True(t, expenses.Equal(mustDecimal(t, "150.00")), "got %s", expenses)

	income, err := m.MonthlyIncomeTotal(user.ID, 2024, time.March)
	require.NoError(t, err)
	assert.True(t, income.Equal(mustDecimal(t, "200.00")), "got %s", income)

	empty, err := m.MonthlyExpenseTotal(user.ID, 2023, time.March)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestBudgetForMonth(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "budgeted")
	m := NewMetrics(db)

	budget, err := m.BudgetForMonth(user.ID, 2024, time.March)
	require.NoError(t, err)
	assert.Nil(t, budget)

	b := models.Budget{
		UserID:    user.ID,
		Amount:    mustDecimal(t, "1000.00"),
		StartDate: day(2024, time.March, 1),
		EndDate:   day(2024, time.March, 31),
	}
	require.NoError(t, db.Create(&b).Error)

	budget, err = m.BudgetForMonth(user.ID, 2024, time.March)
	require.NoError(t, err)
	require.NotNil(t, budget)
	assert.Equal(t, b.ID, budget.ID)

	budget, err = m.BudgetForMonth(user.ID, 2024, time.May)
	require.NoError(t, err)
	assert.Nil(t, budget)
}

func TestTaskWindowCounts(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "tasker")
	m := NewMetrics(db)

	addCompletedTask(t, db, user.ID, day(2024, time.March, 5))
	addCompletedTask(t, db, user.ID, day(2024, time.March, 6))
	addCompletedTask(t, db, user.ID, day(2024, time.April, 1))

	start, end := utils.MonthWindow(2024, time.March)
	count, err := m.CompletedTaskCountInWindow(user.ID, start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	total, err := m.TaskCompletedCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestTasksWithDeadlineInWindow(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dueToday")
	m := NewMetrics(db)

	deadline := day(2024, time.March, 10)
	done := day(2024, time.March, 10)
	tasks := []models.Task{
		{UserID: user.ID, Title: "due done", Deadline: &deadline, Completed: true, CompletedAt: &done},
		{UserID: user.ID, Title: "due open", Deadline: &deadline},
		{UserID: user.ID, Title: "no deadline"},
	}
	require.NoError(t, db.Create(&tasks).Error)

	start := utils.StartOfDay(deadline)
	end := utils.EndOfDay(deadline)

	due, err := m.TasksWithDeadlineInWindow(user.ID, start, end)
	require.NoError(t, err)
	assert.Len(t, due, 2)

	completed, err := m.CompletedTasksWithDeadlineInWindow(user.ID, start, end)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestExpenseCountOnDay(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "daily")
	m := NewMetrics(db)

	today := day(2024, time.March, 10)
	addExpense(t, db, user.ID, "1.00", today.AddDate(0, 0, -1))

	count, err := m.ExpenseCountOnDay(user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	addExpense(t, db, user.ID, "1.00", today)
	count, err = m.ExpenseCountOnDay(user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
