package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fintrack/database"
	"fintrack/models"
	"fintrack/services"
)

// newTestApp wires a fiber app over an in-memory database with a stub
// auth layer that pins the caller's identity.
func newTestApp(t *testing.T, userID uint, language string) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Expense{},
		&models.Income{},
		&models.Budget{},
		&models.Task{},
		&models.TaskTimeLog{},
		&models.AchievementTemplate{},
		&models.AchievementInstance{},
		&models.Notification{},
	))
	database.SetDB(db)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		c.Locals("language", language)
		return c.Next()
	})
	app.Get("/api/achievements", GetUserAchievements)
	app.Get("/api/achievements/summary", GetProgressSummary)
	app.Get("/api/achievements/:id", GetAchievementByID)
	app.Post("/api/expenses", CreateExpense)
	app.Post("/api/tasks", CreateTask)
	app.Post("/api/tasks/:id/complete", CompleteTask)

	return app, db
}

func decodeBody(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func seedUserWithTemplate(t *testing.T, db *gorm.DB) (models.User, models.AchievementInstance) {
	t.Helper()
	user := models.User{Username: "tester", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	tpl := models.AchievementTemplate{
		Title:          "First Note",
		Icon:           "💰",
		TranslationKey: "financial.first_note",
		Requirement:    models.Requirement{Type: models.ExpenseCount, Count: 1},
	}
	require.NoError(t, db.Create(&tpl).Error)

	require.NoError(t, services.NewProvisioner(db).CreateUserAchievements(user.ID))

	var instance models.AchievementInstance
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&instance).Error)
	return user, instance
}

func TestCreateExpenseUnlocksAchievement(t *testing.T) {
	app, db := newTestApp(t, 1, "en")
	_, instance := seedUserWithTemplate(t, db)

	payload := bytes.NewBufferString(`{"amount":"12.50","category":"food"}`)
	req := httptest.NewRequest("POST", "/api/expenses", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["success"])

	unlocked, ok := body["new_achievements"].([]interface{})
	require.True(t, ok, "new_achievements present")
	require.Len(t, unlocked, 1)

	var stored models.AchievementInstance
	require.NoError(t, db.First(&stored, instance.ID).Error)
	assert.True(t, stored.Completed)
}

func TestGetUserAchievements(t *testing.T) {
	app, db := newTestApp(t, 1, "en")
	seedUserWithTemplate(t, db)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/achievements", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(0), body["completed"])

	list := body["achievements"].([]interface{})
	require.Len(t, list, 1)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "First Note", first["title"])
	assert.Equal(t, "financial", first["category"])
}

func TestGetUserAchievementsTranslated(t *testing.T) {
	app, db := newTestApp(t, 1, "es")
	seedUserWithTemplate(t, db)

	SetTranslator(services.NewFixtureTranslator(map[string]map[string]services.Translation{
		"es": {
			"financial.first_note": {Title: "Primera Nota", Description: "Registra tu primer gasto"},
		},
	}))
	t.Cleanup(func() { SetTranslator(services.NewStaticTranslator()) })

	resp, err := app.Test(httptest.NewRequest("GET", "/api/achievements", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	first := body["achievements"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Primera Nota", first["title"])
}

func TestCompleteTaskIsOneWay(t *testing.T) {
	app, db := newTestApp(t, 1, "en")
	user := models.User{Username: "tasker", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	task := models.Task{UserID: user.ID, Title: "write report"}
	require.NoError(t, db.Create(&task).Error)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/tasks/1/complete", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	require.True(t, stored.Completed)
	require.NotNil(t, stored.CompletedAt)
	firstCompletion := *stored.CompletedAt

	// Completing again is a no-op and must not move the completion time.
	resp, err = app.Test(httptest.NewRequest("POST", "/api/tasks/1/complete", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.True(t, stored.CompletedAt.Equal(firstCompletion))
}

func TestGetProgressSummary(t *testing.T) {
	app, db := newTestApp(t, 1, "en")
	_, instance := seedUserWithTemplate(t, db)

	now := time.Now().UTC()
	require.NoError(t, db.Model(&instance).Updates(map[string]interface{}{
		"completed": true, "completed_at": now, "progress": 100,
	}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/achievements/summary", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(1), body["completed"])
	assert.Equal(t, float64(100), body["percent"])
}
