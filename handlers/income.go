// handlers/income.go
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"
)

type IncomeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
	Description string          `json:"description"`
	Date        *time.Time      `json:"date,omitempty"`
}

// CreateIncome records an income entry
func CreateIncome(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req IncomeRequest
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
	income := models.Income{
		UserID:      userID,
		Amount:      req.Amount,
		Source:      req.Source,
		Description: req.Description,
		Date:        date,
	}

	if err := db.Create(&income).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create income"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "income": income})
}

// GetIncomes lists the user's income entries, optionally windowed by from/to.
func GetIncomes(c *fiber.Ctx) error {
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

	var incomes []models.Income
	if err := query.Order("date DESC").Find(&incomes).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch incomes"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"incomes": incomes,
		"count":   len(incomes),
	})
}

// UpdateIncome modifies one of the user's income entries
func UpdateIncome(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var income models.Income
	if err := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).First(&income).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Income not found"})
	}

	var req IncomeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Amount.IsPositive() {
		income.Amount = req.Amount
	}
	if req.Source != "" {
		income.Source = req.Source
	}
	if req.Description != "" {
		income.Description = req.Description
	}
	if req.Date != nil {
		income.Date = req.Date.UTC()
	}

	if err := db.Save(&income).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update income"})
	}

	return c.JSON(fiber.Map{"success": true, "income": income})
}

// DeleteIncome removes one of the user's income entries
func DeleteIncome(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	result := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).Delete(&models.Income{})
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete income"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Income not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}
