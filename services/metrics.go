// services/metrics.go - Read-only metric queries over a user's history
//
// Every query is scoped by user id and, where relevant, a half-open UTC
// window [start, end). Empty data is zero/false, never an error; only a
// store failure surfaces, wrapped as *StorageError.
package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/models"
	"fintrack/utils"
)

// Metrics answers numeric and boolean questions about stored financial and
// task history. It holds no state beyond the database handle.
type Metrics struct {
	db *gorm.DB
}

func NewMetrics(db *gorm.DB) *Metrics {
	return &Metrics{db: db}
}

// ExpenseCount returns the number of expenses the user has ever recorded.
func (m *Metrics) ExpenseCount(userID uint) (int64, error) {
	var count int64
	err := m.db.Model(&models.Expense{}).Where("user_id = ?", userID).Count(&count).Error
	return count, storageErr("expense count", err)
}

// ExpenseCountOnDay returns the number of expenses dated on the given UTC day.
func (m *Metrics) ExpenseCountOnDay(userID uint, day time.Time) (int64, error) {
	start := utils.StartOfDay(day)
	end := utils.EndOfDay(day)

	var count int64
	err := m.db.Model(&models.Expense{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Count(&count).Error
	return count, storageErr("expense count on day", err)
}

// HasExpenseOnEachOfLastNDays reports whether the user recorded at least one
// expense on every one of the n calendar days ending today. The scan walks
// backward from today and stops at the first missing day, so a single gap
// fails the whole streak.
func (m *Metrics) HasExpenseOnEachOfLastNDays(userID uint, n int, today time.Time) (bool, error) {
	if n <= 0 {
		return false, nil
	}

	start := utils.StartOfDay(today).AddDate(0, 0, -(n - 1))
	end := utils.EndOfDay(today)

	var dates []time.Time
	err := m.db.Model(&models.Expense{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Pluck("date", &dates).Error
	if err != nil {
		return false, storageErr("expense streak", err)
	}

	return coversEveryDay(dates, n, today), nil
}

// HasTaskCompletedOnEachOfLastNDays is the task-side twin of the expense
// streak, keyed on completion timestamps.
func (m *Metrics) HasTaskCompletedOnEachOfLastNDays(userID uint, n int, today time.Time) (bool, error) {
	if n <= 0 {
		return false, nil
	}

	start := utils.StartOfDay(today).AddDate(0, 0, -(n - 1))
	end := utils.EndOfDay(today)

	var dates []time.Time
	err := m.db.Model(&models.Task{}).
		Where("user_id = ? AND completed = ? AND completed_at >= ? AND completed_at < ?",
			userID, true, start, end).
		Pluck("completed_at", &dates).Error
	if err != nil {
		return false, storageErr("task streak", err)
	}

	return coversEveryDay(dates, n, today), nil
}

// coversEveryDay checks that the timestamps hit all n calendar days ending
// today, scanning from today backward.
func coversEveryDay(dates []time.Time, n int, today time.Time) bool {
	seen := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		seen[utils.StartOfDay(d)] = true
	}

	day := utils.StartOfDay(today)
	for i := 0; i < n; i++ {
		if !seen[day] {
			return false
		}
		day = day.AddDate(0, 0, -1)
	}
	return true
}

// MonthlyExpenseTotal sums expense amounts dated within the calendar month.
func (m *Metrics) MonthlyExpenseTotal(userID uint, year int, month time.Month) (decimal.Decimal, error) {
	start, end := utils.MonthWindow(year, month)

	var expenses []models.Expense
	err := m.db.Select("amount").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Find(&expenses).Error
	if err != nil {
		return decimal.Zero, storageErr("monthly expense total", err)
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// MonthlyIncomeTotal sums income amounts dated within the calendar month.
func (m *Metrics) MonthlyIncomeTotal(userID uint, year int, month time.Month) (decimal.Decimal, error) {
	start, end := utils.MonthWindow(year, month)

	var incomes []models.Income
	err := m.db.Select("amount").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Find(&incomes).Error
	if err != nil {
		return decimal.Zero, storageErr("monthly income total", err)
	}

	total := decimal.Zero
	for _, i := range incomes {
		total = total.Add(i.Amount)
	}
	return total, nil
}

// BudgetForMonth returns the budget whose [start_date, end_date] overlaps
// the calendar month, or nil when the user has none.
func (m *Metrics) BudgetForMonth(userID uint, year int, month time.Month) (*models.Budget, error) {
	start, end := utils.MonthWindow(year, month)

	var budget models.Budget
	err := m.db.Where("user_id = ? AND start_date < ? AND end_date >= ?", userID, end, start).
		Order("start_date DESC").
		First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("budget for month", err)
	}
	return &budget, nil
}

// TaskCompletedCount returns the number of tasks the user has ever completed.
func (m *Metrics) TaskCompletedCount(userID uint) (int64, error) {
	var count int64
	err := m.db.Model(&models.Task{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, storageErr("task completed count", err)
}

// CompletedTaskCountInWindow counts tasks completed within [start, end).
func (m *Metrics) CompletedTaskCountInWindow(userID uint, start, end time.Time) (int64, error) {
	var count int64
	err := m.db.Model(&models.Task{}).
		Where("user_id = ? AND completed = ? AND completed_at >= ? AND completed_at < ?",
			userID, true, start, end).
		Count(&count).Error
	return count, storageErr("completed task count in window", err)
}

// TaskCountCreatedInWindow counts tasks created within [start, end).
func (m *Metrics) TaskCountCreatedInWindow(userID uint, start, end time.Time) (int64, error) {
	var count int64
	err := m.db.Model(&models.Task{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Count(&count).Error
	return count, storageErr("task count created in window", err)
}

// TasksWithDeadlineInWindow lists the user's tasks whose deadline falls in
// [start, end), completed or not.
func (m *Metrics) TasksWithDeadlineInWindow(userID uint, start, end time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := m.db.Where("user_id = ? AND deadline >= ? AND deadline < ?", userID, start, end).
		Find(&tasks).Error
	return tasks, storageErr("tasks with deadline in window", err)
}

// CompletedTasksWithDeadlineInWindow lists completed tasks with a deadline
// in [start, end).
func (m *Metrics) CompletedTasksWithDeadlineInWindow(userID uint, start, end time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := m.db.Where("user_id = ? AND completed = ? AND deadline >= ? AND deadline < ?",
		userID, true, start, end).
		Find(&tasks).Error
	return tasks, storageErr("completed tasks with deadline in window", err)
}

// CompletedTasksInWindow lists tasks completed within [start, end).
func (m *Metrics) CompletedTasksInWindow(userID uint, start, end time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := m.db.Where("user_id = ? AND completed = ? AND completed_at >= ? AND completed_at < ?",
		userID, true, start, end).
		Find(&tasks).Error
	return tasks, storageErr("completed tasks in window", err)
}

// TaskByID fetches one of the user's tasks, or nil when it does not exist.
func (m *Metrics) TaskByID(userID, taskID uint) (*models.Task, error) {
	var task models.Task
	err := m.db.Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("task by id", err)
	}
	return &task, nil
}
