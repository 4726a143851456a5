package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fintrack/models"
)

// newTestDB opens an isolated in-memory database. A single connection
// keeps the memory store alive for the test's lifetime.
func newTestDB(t *testing.T) *gorm.DB {
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

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func addExpense(t *testing.T, db *gorm.DB, userID uint, amount string, date time.Time) models.Expense {
	t.Helper()
	e := models.Expense{
		UserID: userID,
		Amount: mustDecimal(t, amount),
		Date:   date,
	}
	require.NoError(t, db.Create(&e).Error)
	return e
}

func addIncome(t *testing.T, db *gorm.DB, userID uint, amount string, date time.Time) models.Income {
	t.Helper()
	i := models.Income{
		UserID: userID,
		Amount: mustDecimal(t, amount),
		Date:   date,
	}
	require.NoError(t, db.Create(&i).Error)
	return i
}

func addCompletedTask(t *testing.T, db *gorm.DB, userID uint, completedAt time.Time) models.Task {
	t.Helper()
	task := models.Task{
		UserID:      userID,
		Title:       "done",
		Completed:   true,
		CompletedAt: &completedAt,
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}
