package admin

import (
	"github.com/gofiber/fiber/v2"

	"fintrack/database"
	"fintrack/models"
	"fintrack/services"
)

// GetTemplates returns the achievement template catalog
func GetTemplates(c *fiber.Ctx) error {
	db := database.GetDB()

	var templates []models.AchievementTemplate
	if err := db.Find(&templates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch templates"})
	}

	return c.JSON(fiber.Map{"success": true, "templates": templates})
}

// CreateTemplate adds a template to the catalog. New users will receive an
// instance of it at registration; existing users are unaffected.
func CreateTemplate(c *fiber.Ctx) error {
	db := database.GetDB()

	var template models.AchievementTemplate
	if err := c.BodyParser(&template); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if template.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title is required"})
	}
	if _, ok := services.EvaluatorFor(template.Requirement.Type); !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown requirement type"})
	}

	if err := db.Create(&template).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create template"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "template": template})
}

// UpdateTemplate edits a catalog template. Instances already provisioned
// keep their copied fields.
func UpdateTemplate(c *fiber.Ctx) error {
	db := database.GetDB()

	var template models.AchievementTemplate
	if err := db.First(&template, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Template not found"})
	}

	if err := c.BodyParser(&template); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if _, ok := services.EvaluatorFor(template.Requirement.Type); !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown requirement type"})
	}

	if err := db.Save(&template).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update template"})
	}

	return c.JSON(fiber.Map{"success": true, "template": template})
}

// DeleteTemplate removes a template from the catalog
func DeleteTemplate(c *fiber.Ctx) error {
	db := database.GetDB()

	if err := db.Delete(&models.AchievementTemplate{}, c.Params("id")).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete template"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Template deleted successfully",
	})
}

// RunBatch triggers a scheduler batch by hand: period is day, week, or month.
func RunBatch(c *fiber.Ctx) error {
	s := services.GetScheduler()
	if s == nil {
		return c.Status(503).JSON(fiber.Map{"error": "Scheduler not running"})
	}

	asOf := c.Context().Time().UTC()
	switch c.Params("period") {
	case "day":
		s.RunDaily(asOf)
	case "week":
		s.RunWeekly(asOf)
	case "month":
		s.RunMonthly(asOf)
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Unknown batch period"})
	}

	return c.JSON(fiber.Map{"success": true, "period": c.Params("period")})
}
