// handlers/stats.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/services"
	"fintrack/utils"
)

// GetMonthlyStats aggregates a month's finances: totals, balance, and budget
// deviation. Defaults to the current UTC month.
func GetMonthlyStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	now := time.Now().UTC()
	year, month := parseYearMonth(c, now)

	m := services.NewMetrics(database.GetDB())

	expenses, err := m.MonthlyExpenseTotal(userID, year, month)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute stats"})
	}
	income, err := m.MonthlyIncomeTotal(userID, year, month)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute stats"})
	}

	response := fiber.Map{
		"success":  true,
		"year":     year,
		"month":    int(month),
		"expenses": expenses,
		"income":   income,
		"balance":  income.Sub(expenses),
	}

	budget, err := m.BudgetForMonth(userID, year, month)
	if err == nil && budget != nil && budget.Amount.IsPositive() {
		deviation := expenses.Sub(budget.Amount).
			Div(budget.Amount).
			Mul(decimal.NewFromInt(100))
		response["budget"] = budget.Amount
		response["budget_deviation_percent"] = deviation
	}

	return c.JSON(response)
}

// GetTaskStats aggregates this month's task discipline: completion rate and
// on-time rate.
func GetTaskStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	now := time.Now().UTC()
	year, month := parseYearMonth(c, now)
	start, end := utils.MonthWindow(year, month)

	m := services.NewMetrics(database.GetDB())

	created, err := m.TaskCountCreatedInWindow(userID, start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute stats"})
	}
	completed, err := m.CompletedTaskCountInWindow(userID, start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute stats"})
	}

	completionRate := 0.0
	if created > 0 {
		completionRate = float64(completed) / float64(created) * 100
	}

	completions, err := m.CompletedTasksInWindow(userID, start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute stats"})
	}

	onTime := 0
	for _, t := range completions {
		if t.Deadline == nil || (t.CompletedAt != nil && !t.CompletedAt.After(*t.Deadline)) {
			onTime++
		}
	}
	onTimeRate := 0.0
	if len(completions) > 0 {
		onTimeRate = float64(onTime) / float64(len(completions)) * 100
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"year":            year,
		"month":           int(month),
		"created":         created,
		"completed":       completed,
		"completion_rate": completionRate,
		"on_time_rate":    onTimeRate,
	})
}

func parseYearMonth(c *fiber.Ctx, now time.Time) (int, time.Month) {
	year := now.Year()
	month := now.Month()

	if y := c.Query("year"); y != "" {
		if n, err := strconv.Atoi(y); err == nil && n > 2000 && n < 2200 {
			year = n
		}
	}
	if mo := c.Query("month"); mo != "" {
		if n, err := strconv.Atoi(mo); err == nil && n >= 1 && n <= 12 {
			month = time.Month(n)
		}
	}
	return year, month
}
