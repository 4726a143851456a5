// services/evaluators.go - One evaluator per requirement type
//
// Evaluators are pure given (user, parameters, now, event data) and the
// stored records. They return false on unmet conditions, missing event
// data, and zero denominators; an error only surfaces on store failure.
package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/models"
	"fintrack/utils"
)

// EventData carries the optional payload of a triggering domain event.
// Fields are zero-valued when the event has no payload.
type EventData struct {
	TaskID         uint
	CompletionTime *time.Time
}

// EvaluatorFunc decides whether one requirement is met.
type EvaluatorFunc func(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error)

// perfectBalanceTolerance is how close income and expenses must be for
// PERFECT_BALANCE, in currency units. A difference of exactly one cent
// already misses.
var perfectBalanceTolerance = decimal.NewFromFloat(0.01)

// evaluators maps each requirement type to its evaluator. The resolver
// treats a missing entry as a malformed requirement and skips it.
var evaluators = map[models.RequirementType]EvaluatorFunc{
	models.ExpenseCount:           evalExpenseCount,
	models.ExpenseStreak:          evalExpenseStreak,
	models.BudgetAccuracy:         evalBudgetAccuracy,
	models.PerfectBalance:         evalPerfectBalance,
	models.IncomeExceedsExpenses:  evalIncomeExceedsExpenses,
	models.ExpenseReduction:       evalExpenseReduction,
	models.ZeroExpenseDay:         evalZeroExpenseDay,
	models.TaskCompleted:          evalTaskCompleted,
	models.TaskStreak:             evalTaskStreak,
	models.DeadlineMet:            evalDeadlineMet,
	models.FastTaskCompletion:     evalFastTaskCompletion,
	models.TasksPerDay:            evalTasksPerDay,
	models.TasksPerWeek:           evalTasksPerWeek,
	models.TasksPerMonth:          evalTasksPerMonth,
	models.TasksCompletionRate:    evalTasksCompletionRate,
	models.TasksCompletionRateDay: evalTasksCompletionRateDay,
	models.DeadlineStreakMonth:    evalDeadlineStreakMonth,
}

// EvaluatorFor returns the evaluator registered for a requirement type.
func EvaluatorFor(t models.RequirementType) (EvaluatorFunc, bool) {
	fn, ok := evaluators[t]
	return fn, ok
}

func evalExpenseCount(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	count, err := m.ExpenseCount(userID)
	if err != nil {
		return false, err
	}
	return count >= int64(req.Count), nil
}

func evalExpenseStreak(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	return m.HasExpenseOnEachOfLastNDays(userID, req.Days, now)
}

func evalBudgetAccuracy(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	budget, err := m.BudgetForMonth(userID, now.Year(), now.Month())
	if err != nil {
		return false, err
	}
	if budget == nil || !budget.Amount.IsPositive() {
		return false, nil
	}

	actual, err := m.MonthlyExpenseTotal(userID, now.Year(), now.Month())
	if err != nil {
		return false, err
	}

	deviation := actual.Sub(budget.Amount).Abs().
		Div(budget.Amount).
		Mul(decimal.NewFromInt(100))
	return deviation.LessThanOrEqual(decimal.NewFromFloat(req.Threshold)), nil
}

func evalPerfectBalance(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	income, err := m.MonthlyIncomeTotal(userID, now.Year(), now.Month())
	if err != nil {
		return false, err
	}
	expenses, err := m.MonthlyExpenseTotal(userID, now.Year(), now.Month())
	if err != nil {
		return false, err
	}

	if !income.IsPositive() || !expenses.IsPositive() {
		return false, nil
	}
	return income.Sub(expenses).Abs().LessThan(perfectBalanceTolerance), nil
}

func evalIncomeExceedsExpenses(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	if req.Months <= 0 {
		return false, nil
	}

	year, month := now.Year(), now.Month()
	for i := 0; i < req.Months; i++ {
		income, err := m.MonthlyIncomeTotal(userID, year, month)
		if err != nil {
			return false, err
		}
		expenses, err := m.MonthlyExpenseTotal(userID, year, month)
		if err != nil {
			return false, err
		}
		if !income.GreaterThan(expenses) {
			return false, nil
		}
		year, month = utils.PreviousMonth(year, month)
	}
	return true, nil
}

func evalExpenseReduction(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	prevYear, prevMonth := utils.PreviousMonth(now.Year(), now.Month())
	previous, err := m.MonthlyExpenseTotal(userID, prevYear, prevMonth)
	if err != nil {
		return false, err
	}
	// Zero previous spend means no baseline, not a 100% cut.
	if !previous.IsPositive() {
		return false, nil
	}

	current, err := m.MonthlyExpenseTotal(userID, now.Year(), now.Month())
	if err != nil {
		return false, err
	}

	reduction := previous.Sub(current).
		Div(previous).
		Mul(decimal.NewFromInt(100))
	return reduction.GreaterThanOrEqual(decimal.NewFromFloat(req.Percentage)), nil
}

func evalZeroExpenseDay(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	count, err := m.ExpenseCountOnDay(userID, now)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func evalTaskCompleted(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	count, err := m.TaskCompletedCount(userID)
	if err != nil {
		return false, err
	}
	return count >= int64(req.Count), nil
}

func evalTaskStreak(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	return m.HasTaskCompletedOnEachOfLastNDays(userID, req.Days, now)
}

func evalDeadlineMet(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	if ev.TaskID == 0 {
		return false, nil
	}
	task, err := m.TaskByID(userID, ev.TaskID)
	if err != nil {
		return false, err
	}
	if task == nil || task.Deadline == nil {
		return false, nil
	}

	completedAt := ev.CompletionTime
	if completedAt == nil {
		completedAt = task.CompletedAt
	}
	if completedAt == nil {
		return false, nil
	}
	return !completedAt.After(*task.Deadline), nil
}

func evalFastTaskCompletion(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	if ev.TaskID == 0 || req.Minutes <= 0 {
		return false, nil
	}
	task, err := m.TaskByID(userID, ev.TaskID)
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}

	completedAt := ev.CompletionTime
	if completedAt == nil {
		completedAt = task.CompletedAt
	}
	if completedAt == nil {
		return false, nil
	}

	elapsed := completedAt.Sub(task.CreatedAt)
	return elapsed >= 0 && elapsed <= time.Duration(req.Minutes)*time.Minute, nil
}

func evalTasksPerDay(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	return tasksInWindowReached(m, userID, req.Count, utils.StartOfDay(now), utils.EndOfDay(now))
}

func evalTasksPerWeek(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	start := utils.StartOfWeek(now)
	return tasksInWindowReached(m, userID, req.Count, start, start.AddDate(0, 0, 7))
}

func evalTasksPerMonth(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	start, end := utils.MonthWindow(now.Year(), now.Month())
	return tasksInWindowReached(m, userID, req.Count, start, end)
}

func tasksInWindowReached(m *Metrics, userID uint, target int, start, end time.Time) (bool, error) {
	if target <= 0 {
		return false, nil
	}
	count, err := m.CompletedTaskCountInWindow(userID, start, end)
	if err != nil {
		return false, err
	}
	return count >= int64(target), nil
}

func evalTasksCompletionRate(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	start, end := utils.MonthWindow(now.Year(), now.Month())

	created, err := m.TaskCountCreatedInWindow(userID, start, end)
	if err != nil {
		return false, err
	}
	if created == 0 {
		return false, nil
	}

	completed, err := m.CompletedTaskCountInWindow(userID, start, end)
	if err != nil {
		return false, err
	}

	rate := float64(completed) / float64(created) * 100
	return rate >= req.Percentage, nil
}

func evalTasksCompletionRateDay(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	start := utils.StartOfDay(now)
	end := utils.EndOfDay(now)

	due, err := m.TasksWithDeadlineInWindow(userID, start, end)
	if err != nil {
		return false, err
	}
	// No tasks due today is not a perfect day, it is no day at all.
	if len(due) == 0 {
		return false, nil
	}

	completed := 0
	for _, t := range due {
		if t.Completed {
			completed++
		}
	}

	rate := float64(completed) / float64(len(due)) * 100
	return rate >= req.Percentage, nil
}

func evalDeadlineStreakMonth(m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	start, end := utils.MonthWindow(now.Year(), now.Month())

	completions, err := m.CompletedTasksInWindow(userID, start, end)
	if err != nil {
		return false, err
	}
	if len(completions) == 0 {
		return false, nil
	}

	onTime := 0
	for _, t := range completions {
		// A task without a deadline cannot be late.
		if t.Deadline == nil || (t.CompletedAt != nil && !t.CompletedAt.After(*t.Deadline)) {
			onTime++
		}
	}

	rate := float64(onTime) / float64(len(completions)) * 100
	return rate >= req.Percentage, nil
}
