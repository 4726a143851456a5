// handlers/tasks.go
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/services"
)

type TaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type TimeLogRequest struct {
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// CreateTask adds a new task
func CreateTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title is required"})
	}

	db := database.GetDB()
	task := models.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Deadline != nil {
		deadline := req.Deadline.UTC()
		task.Deadline = &deadline
	}

	if err := db.Create(&task).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create task"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "task": task})
}

// GetTasks lists the user's tasks
func GetTasks(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", userID)

	switch c.Query("status") {
	case "open":
		query = query.Where("completed = ?", false)
	case "completed":
		query = query.Where("completed = ?", true)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}

	return c.JSON(fiber.Map{"success": true, "tasks": tasks, "count": len(tasks)})
}

// CompleteTask marks a task complete and re-checks task achievements.
// Completing is one-way; completing an already completed task is a no-op.
func CompleteTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).First(&task).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	if !task.Completed {
		now := time.Now().UTC()
		task.Completed = true
		task.CompletedAt = &now
		if err := db.Save(&task).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to complete task"})
		}
	}

	unlocked := services.NewResolver(db).CheckAchievements(userID, models.EventTaskCompleted, services.EventData{
		TaskID:         task.ID,
		CompletionTime: task.CompletedAt,
	})

	return c.JSON(fiber.Map{
		"success":          true,
		"task":             task,
		"new_achievements": unlocked,
	})
}

// UpdateTask modifies a task's title, description, or deadline
func UpdateTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).First(&task).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.Deadline != nil {
		deadline := req.Deadline.UTC()
		task.Deadline = &deadline
	}

	if err := db.Save(&task).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update task"})
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

// DeleteTask removes a task and its time logs
func DeleteTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).First(&task).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	db.Where("task_id = ?", task.ID).Delete(&models.TaskTimeLog{})
	if err := db.Delete(&task).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete task"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// AddTimeLog records a stretch of work on a task
func AddTimeLog(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).First(&task).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	var req TimeLogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !req.EndedAt.After(req.StartedAt) {
		return c.Status(400).JSON(fiber.Map{"error": "End time must be after start time"})
	}

	entry := models.TaskTimeLog{
		TaskID:    task.ID,
		UserID:    userID,
		StartedAt: req.StartedAt.UTC(),
		EndedAt:   req.EndedAt.UTC(),
		Minutes:   int(req.EndedAt.Sub(req.StartedAt).Minutes()),
	}

	if err := db.Create(&entry).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record time log"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "time_log": entry})
}

// GetTimeLogs lists a task's time logs
func GetTimeLogs(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.Where("user_id = ? AND id = ?", userID, c.Params("id")).First(&task).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	var logs []models.TaskTimeLog
	if err := db.Where("task_id = ?", task.ID).Order("started_at").Find(&logs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch time logs"})
	}

	totalMinutes := 0
	for _, l := range logs {
		totalMinutes += l.Minutes
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"time_logs":     logs,
		"total_minutes": totalMinutes,
	})
}
