package admin

import (
	"github.com/gofiber/fiber/v2"

	"fintrack/database"
	"fintrack/models"
)

// GetUsers returns all users with pagination
func GetUsers(c *fiber.Ctx) error {
	db := database.GetDB()

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	search := c.Query("search", "")

	offset := (page - 1) * limit

	var users []models.User
	var total int64

	query := db.Model(&models.User{})
	if search != "" {
		query = query.Where("username LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	query.Count(&total)

	if err := query.Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUser returns a single user by ID
func GetUser(c *fiber.Ctx) error {
	db := database.GetDB()

	var user models.User
	if err := db.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(user)
}

// DeleteUser removes a user and everything they own
func DeleteUser(c *fiber.Ctx) error {
	db := database.GetDB()

	var user models.User
	if err := db.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	db.Where("user_id = ?", user.ID).Delete(&models.Expense{})
	db.Where("user_id = ?", user.ID).Delete(&models.Income{})
	db.Where("user_id = ?", user.ID).Delete(&models.Budget{})
	db.Where("user_id = ?", user.ID).Delete(&models.TaskTimeLog{})
	db.Where("user_id = ?", user.ID).Delete(&models.Task{})
	db.Where("user_id = ?", user.ID).Delete(&models.AchievementInstance{})
	db.Where("user_id = ?", user.ID).Delete(&models.Notification{})

	if err := db.Delete(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}
