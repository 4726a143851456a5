// handlers/budgets.go
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"
)

type BudgetRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category,omitempty"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
}

// CreateBudget sets a spending target for a date range
func CreateBudget(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req BudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !req.Amount.IsPositive() {
		return c.Status(400).JSON(fiber.Map{"error": "Amount must be positive"})
	}
	if !req.EndDate.After(req.StartDate) {
		return c.Status(400).JSON(fiber.Map{"error": "End date must be after start date"})
	}

	db := database.GetDB()
	budget := models.Budget{
		UserID:    userID,
		Amount:    req.Amount,
		Category:  req.Category,
		StartDate: req.StartDate.UTC(),
		EndDate:   req.EndDate.UTC(),
	}

	if err := db.Create(&budget).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create budget"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "budget": budget})
}

// GetBudgets lists the user's budgets
func GetBudgets(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var budgets []models.Budget
	if err := db.Where("user_id = ?", userID).Order("start_date DESC").Find(&budgets).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch budgets"})
	}

	return c.JSON(fiber.Map{"success": true, "budgets": budgets})
}

// UpdateBudget modifies one of the user's budgets
func UpdateBudget(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var budget models.Budget
	if err := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).First(&budget).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Budget not found"})
	}

	var req BudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Amount.IsPositive() {
		budget.Amount = req.Amount
	}
	if req.Category != "" {
		budget.Category = req.Category
	}
	if !req.StartDate.IsZero() {
		budget.StartDate = req.StartDate.UTC()
	}
	if !req.EndDate.IsZero() {
		budget.EndDate = req.EndDate.UTC()
	}
	if !budget.EndDate.After(budget.StartDate) {
		return c.Status(400).JSON(fiber.Map{"error": "End date must be after start date"})
	}

	if err := db.Save(&budget).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update budget"})
	}

	return c.JSON(fiber.Map{"success": true, "budget": budget})
}

// DeleteBudget removes one of the user's budgets
func DeleteBudget(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	result := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).Delete(&models.Budget{})
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete budget"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Budget not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}
