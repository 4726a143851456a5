// handlers/achievements.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/services"
)

// translator resolves locale overrides for achievement text. Swappable so
// tests can install fixtures.
var translator services.Translator = services.NewStaticTranslator()

// SetTranslator substitutes the translation source.
func SetTranslator(t services.Translator) {
	translator = t
}

// achievementView is an instance with translated text applied.
type achievementView struct {
	models.AchievementInstance
	Category string `json:"category"`
}

func viewOf(instance models.AchievementInstance, language string) achievementView {
	if instance.TranslationKey != "" && language != "en" {
		if tr, ok := translator.Translate(instance.TranslationKey, language); ok {
			instance.Title = tr.Title
			instance.Description = tr.Description
		}
	}
	return achievementView{
		AchievementInstance: instance,
		Category:            instance.Category(),
	}
}

// GetUserAchievements lists all of the user's achievement instances
func GetUserAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var instances []models.AchievementInstance
	if err := db.Where("user_id = ?", userID).Order("completed DESC, completed_at DESC").Find(&instances).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	language := middleware.GetLanguage(c)
	completed := 0
	views := make([]achievementView, 0, len(instances))
	for _, in := range instances {
		if in.Completed {
			completed++
		}
		views = append(views, viewOf(in, language))
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": views,
		"total":        len(instances),
		"completed":    completed,
	})
}

// GetAchievementByID returns one of the user's achievement instances
func GetAchievementByID(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var instance models.AchievementInstance
	if err := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).First(&instance).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"achievement": viewOf(instance, middleware.GetLanguage(c)),
	})
}

// GetAchievementsByCategory filters achievements by the icon-derived category
func GetAchievementsByCategory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	category := c.Params("category")

	db := database.GetDB()
	var instances []models.AchievementInstance
	if err := db.Where("user_id = ?", userID).Find(&instances).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	language := middleware.GetLanguage(c)
	views := make([]achievementView, 0)
	for _, in := range instances {
		if in.Category() == category {
			views = append(views, viewOf(in, language))
		}
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"category":     category,
		"achievements": views,
	})
}

// GetProgressSummary returns unlock totals and the most recent unlocks
func GetProgressSummary(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var total int64
	if err := db.Model(&models.AchievementInstance{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	var completed int64
	db.Model(&models.AchievementInstance{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&completed)

	var recent []models.AchievementInstance
	db.Where("user_id = ? AND completed = ?", userID, true).
		Order("completed_at DESC").
		Limit(5).
		Find(&recent)

	language := middleware.GetLanguage(c)
	recentViews := make([]achievementView, 0, len(recent))
	for _, in := range recent {
		recentViews = append(recentViews, viewOf(in, language))
	}

	percent := 0.0
	if total > 0 {
		percent = float64(completed) / float64(total) * 100
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"total":          total,
		"completed":      completed,
		"percent":        percent,
		"recent_unlocks": recentViews,
	})
}
