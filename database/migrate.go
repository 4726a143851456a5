// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"fintrack/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Expense{},
		&models.Income{},
		&models.Budget{},
		&models.Task{},
		&models.TaskTimeLog{},
		&models.AchievementTemplate{},
		&models.AchievementInstance{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("All migrations completed successfully")
}

// createIndexes creates composite indexes the models' tags don't cover
func createIndexes() {
	db := GetDB()

	// Expense/income lookups are always user + date window
	db.Exec("CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses(user_id, date)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_incomes_user_date ON incomes(user_id, date)")

	// Task windows key on completion and deadline per user
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_user_completed_at ON tasks(user_id, completed_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_user_deadline ON tasks(user_id, deadline)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_user_created ON tasks(user_id, created_at)")

	// The resolver's hot query: incomplete instances per user
	db.Exec("CREATE INDEX IF NOT EXISTS idx_instances_user_incomplete ON achievement_instances(user_id, completed)")

	db.Exec("CREATE INDEX IF NOT EXISTS idx_budgets_user_range ON budgets(user_id, start_date, end_date)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, read)")
}
