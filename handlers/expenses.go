// handlers/expenses.go
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/services"
)

type ExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        *time.Time      `json:"date,omitempty"`
}

// CreateExpense records an expense and re-checks expense achievements.
// The achievement check runs after the write and can never fail the request.
func CreateExpense(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !req.Amount.IsPositive() {
		return c.Status(400).JSON(fiber.Map{"error": "Amount must be positive"})
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	db := database.GetDB()
	expense := models.Expense{
		UserID:      userID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	}

	if err := db.Create(&expense).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create expense"})
	}

	unlocked := services.NewResolver(db).
		CheckAchievements(userID, models.EventExpenseCreated, services.EventData{})

	maybeBudgetAlert(c, userID)

	return c.Status(201).JSON(fiber.Map{
		"success":          true,
		"expense":          expense,
		"new_achievements": unlocked,
	})
}

// maybeBudgetAlert notifies the user the first time a month's spending
// crosses its budget.
func maybeBudgetAlert(c *fiber.Ctx, userID uint) {
	db := database.GetDB()
	m := services.NewMetrics(db)
	now := time.Now().UTC()

	budget, err := m.BudgetForMonth(userID, now.Year(), now.Month())
	if err != nil || budget == nil || !budget.Amount.IsPositive() {
		return
	}

	spent, err := m.MonthlyExpenseTotal(userID, now.Year(), now.Month())
	if err != nil || !spent.GreaterThan(budget.Amount) {
		return
	}

	// Only alert once per budget period.
	var existing int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND created_at >= ?", userID, "budget_alert", budget.StartDate).
		Count(&existing)
	if existing > 0 {
		return
	}

	CreateNotification(db, userID, "budget_alert",
		"Budget exceeded",
		"This month's spending has passed your budget of "+budget.Amount.StringFixed(2))
}

// GetExpenses lists the user's expenses, optionally windowed by from/to.
func GetExpenses(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", userID)

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("date >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("date < ?", t.AddDate(0, 0, 1))
		}
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var expenses []models.Expense
	if err := query.Order("date DESC").Find(&expenses).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch expenses"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"expenses": expenses,
		"count":    len(expenses),
	})
}

// UpdateExpense modifies one of the user's expenses
func UpdateExpense(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var expense models.Expense
	if err := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).First(&expense).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Expense not found"})
	}

	var req ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Amount.IsPositive() {
		expense.Amount = req.Amount
	}
	if req.Category != "" {
		expense.Category = req.Category
	}
	if req.Description != "" {
		expense.Description = req.Description
	}
	if req.Date != nil {
		expense.Date = req.Date.UTC()
	}

	if err := db.Save(&expense).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update expense"})
	}

	return c.JSON(fiber.Map{"success": true, "expense": expense})
}

// DeleteExpense removes one of the user's expenses
func DeleteExpense(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	result := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).Delete(&models.Expense{})
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete expense"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Expense not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}
