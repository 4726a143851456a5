// database/seed.go - Achievement catalog seeding
package database

import (
	"log"

	"fintrack/models"
)

// defaultTemplates is the fixed achievement catalog. Every requirement type
// has at least one entry; count-based types come in tiers.
var defaultTemplates = []models.AchievementTemplate{
	// Financial
	{
		Title:       "First Note",
		Description: "Record your first expense",
		Icon:        "💰",
		Image:       "badges/first_note.png",
		Requirement: models.Requirement{Type: models.ExpenseCount, Count: 1},
	},
	{
		Title:       "Bookkeeper",
		Description: "Record 50 expenses",
		Icon:        "💰",
		Image:       "badges/bookkeeper.png",
		Requirement: models.Requirement{Type: models.ExpenseCount, Count: 50},
	},
	{
		Title:       "Ledger Master",
		Description: "Record 500 expenses",
		Icon:        "💰",
		Image:       "badges/ledger_master.png",
		Requirement: models.Requirement{Type: models.ExpenseCount, Count: 500},
	},
	{
		Title:       "Week of Diligence",
		Description: "Record expenses 7 days in a row",
		Icon:        "🔥",
		Image:       "badges/week_diligence.png",
		Requirement: models.Requirement{Type: models.ExpenseStreak, Days: 7},
	},
	{
		Title:       "Iron Habit",
		Description: "Record expenses 30 days in a row",
		Icon:        "🔥",
		Image:       "badges/iron_habit.png",
		Requirement: models.Requirement{Type: models.ExpenseStreak, Days: 30},
	},
	{
		Title:       "Sharp Shooter",
		Description: "Stay within 15% of your monthly budget",
		Icon:        "📊",
		Image:       "badges/sharp_shooter.png",
		Requirement: models.Requirement{Type: models.BudgetAccuracy, Threshold: 15},
	},
	{
		Title:       "Bullseye",
		Description: "Stay within 5% of your monthly budget",
		Icon:        "📊",
		Image:       "badges/bullseye.png",
		Requirement: models.Requirement{Type: models.BudgetAccuracy, Threshold: 5},
	},
	{
		Title:       "Perfect Balance",
		Description: "End a month with income exactly matching expenses",
		Icon:        "⚖️",
		Image:       "badges/perfect_balance.png",
		Requirement: models.Requirement{Type: models.PerfectBalance},
	},
	{
		Title:       "In the Black",
		Description: "Earn more than you spend 3 months in a row",
		Icon:        "📊",
		Image:       "badges/in_the_black.png",
		Requirement: models.Requirement{Type: models.IncomeExceedsExpenses, Months: 3},
	},
	{
		Title:       "Belt Tightener",
		Description: "Cut monthly spending by 20% versus last month",
		Icon:        "📉",
		Image:       "badges/belt_tightener.png",
		Requirement: models.Requirement{Type: models.ExpenseReduction, Percentage: 20},
	},
	{
		Title:       "No-Spend Day",
		Description: "Get through a whole day without spending",
		Icon:        "🚫",
		Image:       "badges/no_spend_day.png",
		Requirement: models.Requirement{Type: models.ZeroExpenseDay},
	},

	// Tasks
	{
		Title:       "First Done",
		Description: "Complete your first task",
		Icon:        "✅",
		Image:       "badges/first_done.png",
		Requirement: models.Requirement{Type: models.TaskCompleted, Count: 1},
	},
	{
		Title:       "Finisher",
		Description: "Complete 100 tasks",
		Icon:        "✅",
		Image:       "badges/finisher.png",
		Requirement: models.Requirement{Type: models.TaskCompleted, Count: 100},
	},
	{
		Title:       "Task Streak",
		Description: "Complete a task every day for 7 days",
		Icon:        "🔥",
		Image:       "badges/task_streak.png",
		Requirement: models.Requirement{Type: models.TaskStreak, Days: 7},
	},
	{
		Title:       "Right on Time",
		Description: "Complete a task before its deadline",
		Icon:        "⏱️",
		Image:       "badges/right_on_time.png",
		Requirement: models.Requirement{Type: models.DeadlineMet},
	},
	{
		Title:       "Quick Draw",
		Description: "Complete a task within 30 minutes of creating it",
		Icon:        "⏱️",
		Image:       "badges/quick_draw.png",
		Requirement: models.Requirement{Type: models.FastTaskCompletion, Minutes: 30},
	},
	{
		Title:       "Productive Day",
		Description: "Complete 5 tasks in one day",
		Icon:        "📅",
		Image:       "badges/productive_day.png",
		Requirement: models.Requirement{Type: models.TasksPerDay, Count: 5},
	},
	{
		Title:       "Productive Week",
		Description: "Complete 20 tasks in one week",
		Icon:        "📅",
		Image:       "badges/productive_week.png",
		Requirement: models.Requirement{Type: models.TasksPerWeek, Count: 20},
	},
	{
		Title:       "Productive Month",
		Description: "Complete 60 tasks in one month",
		Icon:        "📅",
		Image:       "badges/productive_month.png",
		Requirement: models.Requirement{Type: models.TasksPerMonth, Count: 60},
	},
	{
		Title:       "Closer",
		Description: "Finish 80% of the tasks you create in a month",
		Icon:        "🎯",
		Image:       "badges/closer.png",
		Requirement: models.Requirement{Type: models.TasksCompletionRate, Percentage: 80},
	},
	{
		Title:       "Clean Slate",
		Description: "Finish every task due today",
		Icon:        "🎯",
		Image:       "badges/clean_slate.png",
		Requirement: models.Requirement{Type: models.TasksCompletionRateDay, Percentage: 100},
	},
	{
		Title:       "Deadline Keeper",
		Description: "Finish 90% of this month's completions on time",
		Icon:        "🎯",
		Image:       "badges/deadline_keeper.png",
		Requirement: models.Requirement{Type: models.DeadlineStreakMonth, Percentage: 90},
	},
}

// SeedAchievementTemplates inserts the catalog if it has not been seeded
// yet. Existing rows are left untouched so admin edits survive restarts.
func SeedAchievementTemplates() {
	db := GetDB()

	var count int64
	if err := db.Model(&models.AchievementTemplate{}).Count(&count).Error; err != nil {
		log.Printf("Failed to count achievement templates: %v", err)
		return
	}
	if count > 0 {
		return
	}

	if err := db.Create(&defaultTemplates).Error; err != nil {
		log.Printf("Failed to seed achievement templates: %v", err)
		return
	}

	log.Printf("Seeded %d achievement templates", len(defaultTemplates))
}
