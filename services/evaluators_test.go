package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/models"
)

func evaluate(t *testing.T, m *Metrics, userID uint, req models.Requirement, now time.Time, ev EventData) bool {
	t.Helper()
	fn, ok := EvaluatorFor(req.Type)
	require.True(t, ok, "no evaluator for %s", req.Type)
	met, err := fn(m, userID, req, now, ev)
	require.NoError(t, err)
	return met
}

func TestEvalExpenseCount(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "u")
	m := NewMetrics(db)
	now := day(2024, time.March, 10)

	req := models.Requirement{Type: models.ExpenseCount, Count: 2}
	assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))

	addExpense(t, db, user.ID, "1.00", now)
	assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))

	addExpense(t, db, user.ID, "1.00", now)
	assert.True(t, evaluate(t, m, user.ID, req, now, EventData{}), "threshold is inclusive")
}

func TestEvalPerfectBalance(t *testing.T) {
	db := newTestDB(t)
	m := NewMetrics(db)
	now := day(2024, time.March, 20)

	t.Run("exact match", func(t *testing.T) {
		user := createUser(t, db, "balanced")
		addIncome(t, db, user.ID, "500.00", now)
		addExpense(t, db, user.ID, "500.00", now)

		req := models.Requirement{Type: models.PerfectBalance}
		assert.True(t, evaluate(t, m, user.ID, req, now, EventData{}))
	})

	t.Run("one cent off", func(t *testing.T) {
		user := createUser(t, db, "offByOne")
		addIncome(t, db, user.ID, "500.00", now)
		addExpense(t, db, user.ID, "500.01", now)

		req := models.Requirement{Type: models.PerfectBalance}
		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))
	})

	t.Run("zero on both sides", func(t *testing.T) {
		user := createUser(t, db, "emptyMonth")
		req := models.Requirement{Type: models.PerfectBalance}
		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}), "0 == 0 is not a balance")
	})
}

func TestEvalBudgetAccuracy(t *testing.T) {
	db := newTestDB(t)
	m := NewMetrics(db)
	now := day(2024, time.March, 31)
	req := models.Requirement{Type: models.BudgetAccuracy, Threshold: 15}

	setup := func(t *testing.T, name, actual string) uint {
		user := createUser(t, db, name)
		budget := models.Budget{
			UserID:    user.ID,
			Amount:    mustDecimal(t, "1000.00"),
			StartDate: day(2024, time.March, 1),
			EndDate:   day(2024, time.March, 31),
		}
		require.NoError(t, db.Create(&budget).Error)
		addExpense(t, db, user.ID, actual, day(2024, time.March, 15))
		return user.ID
	}

	t.Run("14.9 percent over passes", func(t *testing.T) {
		userID := setup(t, "close", "1149.00")
		assert.True(t, evaluate(t, m, userID, req, now, EventData{}))
	})

	t.Run("15.1 percent over fails", func(t *testing.T) {
		userID := setup(t, "far", "1151.00")
		assert.False(t, evaluate(t, m, userID, req, now, EventData{}))
	})

	t.Run("no budget fails", func(t *testing.T) {
		user := createUser(t, db, "noBudget")
		addExpense(t, db, user.ID, "100.00", day(2024, time.March, 15))
		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))
	})
}

func TestEvalExpenseReduction(t *testing.T) {
	db := newTestDB(t)
	m := NewMetrics(db)
	now := day(2024, time.March, 31)
	req := models.Requirement{Type: models.ExpenseReduction, Percentage: 20}

	t.Run("zero previous month fails regardless", func(t *testing.T) {
		user := createUser(t, db, "freshStart")
		addExpense(t, db, user.ID, "10.00", day(2024, time.March, 5))
		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))
	})

	t.Run("sufficient cut passes", func(t *testing.T) {
		user := createUser(t, db, "cutter")
		addExpense(t, db, user.ID, "1000.00", day(2024, time.February, 10))
		addExpense(t, db, user.ID, "800.00", day(2024, time.March, 10))
		assert.True(t, evaluate(t, m, user.ID, req, now, EventData{}), "exactly 20% is inclusive")
	})

	t.Run("insufficient cut fails", func(t *testing.T) {
		user := createUser(t, db, "nibbler")
		addExpense(t, db, user.ID, "1000.00", day(2024, time.February, 10))
		addExpense(t, db, user.ID, "900.00", day(2024, time.March, 10))
		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))
	})
}

func TestEvalIncomeExceedsExpenses(t *testing.T) {
	db := newTestDB(t)
	m := NewMetrics(db)
	now := day(2024, time.March, 31)
	req := models.Requirement{Type: models.IncomeExceedsExpenses, Months: 3}

	user := createUser(t, db, "earner")
	for _, mo := range []time.Month{time.January, time.February, time.March} {
		addIncome(t, db, user.ID, "2000.00", day(2024, mo, 10))
		addExpense(t, db, user.ID, "1500.00", day(2024, mo, 12))
	}
	assert.True(t, evaluate(t, m, user.ID, req, now, EventData{}))

	// Breaking one month in the run breaks the whole requirement.
	addExpense(t, db, user.ID, "600.00", day(2024, time.February, 20))
	assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))
}

func TestEvalZeroExpenseDay(t *testing.T) {
	db := newTestDB(t)
	m := NewMetrics(db)
	now := day(2024, time.March, 10)
	req := models.Requirement{Type: models.ZeroExpenseDay}

	user := createUser(t, db, "frugal")
	addExpense(t, db, user.ID, "1.00", now.AddDate(0, 0, -1))
	assert.True(t, evaluate(t, m, user.ID, req, now, EventData{}))

	addExpense(t, db, user.ID, "1.00", now)
	assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))
}

func TestEvalDeadlineMet(t *testing.T) {
	db := newTestDB(t)
	m := NewMetrics(db)
	req := models.Requirement{Type: models.DeadlineMet}
	now := day(2024, time.January, 10)

	deadline := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

	t.Run("completed one minute early", func(t *testing.T) {
		user := createUser(t, db, "punctual")
		done := deadline.Add(-time.Minute)
		task := models.Task{UserID: user.ID, Title: "t", Deadline: &deadline, Completed: true, CompletedAt: &done}
		require.NoError(t, db.Create(&task).Error)

		assert.True(t, evaluate(t, m, user.ID, req, now, EventData{TaskID: task.ID, CompletionTime: &done}))
	})

	t.Run("completed one minute late", func(t *testing.T) {
		user := createUser(t, db, "tardy")
		done := deadline.Add(time.Minute)
		task := models.Task{UserID: user.ID, Title: "t", Deadline: &deadline, Completed: true, CompletedAt: &done}
		require.NoError(t, db.Create(&task).Error)

		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{TaskID: task.ID, CompletionTime: &done}))
	})

	t.Run("missing event data is false, not an error", func(t *testing.T) {
		user := createUser(t, db, "noEvent")
		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))
	})

	t.Run("task without deadline is false", func(t *testing.T) {
		user := createUser(t, db, "freeform")
		done := deadline
		task := models.Task{UserID: user.ID, Title: "t", Completed: true, CompletedAt: &done}
		require.NoError(t, db.Create(&task).Error)

		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{TaskID: task.ID, CompletionTime: &done}))
	})
}

func TestEvalFastTaskCompletion(t *testing.T) {
	db := newTestDB(t)
	m := NewMetrics(db)
	req := models.Requirement{Type: models.FastTaskCompletion, Minutes: 30}
	now := day(2024, time.January, 10)

	user := createUser(t, db, "sprinter")

	task := models.Task{UserID: user.ID, Title: "quick", Completed: true}
	require.NoError(t, db.Create(&task).Error)

	within := task.CreatedAt.Add(20 * time.Minute)
	assert.True(t, evaluate(t, m, user.ID, req, now, EventData{TaskID: task.ID, CompletionTime: &within}))

	over := task.CreatedAt.Add(40 * time.Minute)
	assert.False(t, evaluate(t, m, user.ID, req, now, EventData{TaskID: task.ID, CompletionTime: &over}))

	assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}), "missing task id")
}

func TestEvalTasksPerWindow(t *testing.T) {
	db := newTestDB(t)
	m := NewMetrics(db)
	now := day(2024, time.March, 13) // a Wednesday

	user := createUser(t, db, "steady")
	addCompletedTask(t, db, user.ID, now)
	addCompletedTask(t, db, user.ID, now)
	addCompletedTask(t, db, user.ID, now.AddDate(0, 0, -2)) // Monday, same week
	addCompletedTask(t, db, user.ID, now.AddDate(0, 0, -8)) // previous week

	perDay := models.Requirement{Type: models.TasksPerDay, Count: 2}
	assert.True(t, evaluate(t, m, user.ID, perDay, now, EventData{}))

	perDay3 := models.Requirement{Type: models.TasksPerDay, Count: 3}
	assert.False(t, evaluate(t, m, user.ID, perDay3, now, EventData{}))

	perWeek := models.Requirement{Type: models.TasksPerWeek, Count: 3}
	assert.True(t, evaluate(t, m, user.ID, perWeek, now, EventData{}))

	perMonth := models.Requirement{Type: models.TasksPerMonth, Count: 4}
	assert.True(t, evaluate(t, m, user.ID, perMonth, now, EventData{}))
}

func TestEvalTasksCompletionRate(t *testing.T) {
	db := newTestDB(t)
	m := NewMetrics(db)
	req := models.Requirement{Type: models.TasksCompletionRate, Percentage: 80}

	// The rate compares created_at with completed_at, and created_at is
	// assigned on insert, so the scenario runs in the current month.
	now := time.Now().UTC()

	t.Run("no tasks created is false", func(t *testing.T) {
		user := createUser(t, db, "idle")
		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))
	})

	t.Run("four of five completed passes", func(t *testing.T) {
		user := createUser(t, db, "closer")
		for i := 0; i < 4; i++ {
			addCompletedTask(t, db, user.ID, now)
		}
		open := models.Task{UserID: user.ID, Title: "open"}
		require.NoError(t, db.Create(&open).Error)

		assert.True(t, evaluate(t, m, user.ID, req, now, EventData{}))
	})
}

func TestEvalTasksCompletionRateDay(t *testing.T) {
	db := newTestDB(t)
	m := NewMetrics(db)
	now := day(2024, time.March, 10)
	req := models.Requirement{Type: models.TasksCompletionRateDay, Percentage: 100}

	t.Run("nothing due today is false", func(t *testing.T) {
		user := createUser(t, db, "clear")
		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))
	})

	t.Run("all due tasks done passes", func(t *testing.T) {
		user := createUser(t, db, "diligent")
		deadline := now
		done := now
		task := models.Task{UserID: user.ID, Title: "due", Deadline: &deadline, Completed: true, CompletedAt: &done}
		require.NoError(t, db.Create(&task).Error)

		assert.True(t, evaluate(t, m, user.ID, req, now, EventData{}))

		open := models.Task{UserID: user.ID, Title: "also due", Deadline: &deadline}
		require.NoError(t, db.Create(&open).Error)

		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))
	})
}

func TestEvalDeadlineStreakMonth(t *testing.T) {
	db := newTestDB(t)
	m := NewMetrics(db)
	now := day(2024, time.March, 31)
	req := models.Requirement{Type: models.DeadlineStreakMonth, Percentage: 90}

	t.Run("no completions is false", func(t *testing.T) {
		user := createUser(t, db, "quiet")
		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}))
	})

	t.Run("late completion drags the rate down", func(t *testing.T) {
		user := createUser(t, db, "mixed")
		deadline := day(2024, time.March, 10)

		early := deadline.Add(-time.Hour)
		onTime := models.Task{UserID: user.ID, Title: "on time", Deadline: &deadline, Completed: true, CompletedAt: &early}
		require.NoError(t, db.Create(&onTime).Error)

		assert.True(t, evaluate(t, m, user.ID, req, now, EventData{}))

		lateAt := deadline.Add(time.Hour)
		late := models.Task{UserID: user.ID, Title: "late", Deadline: &deadline, Completed: true, CompletedAt: &lateAt}
		require.NoError(t, db.Create(&late).Error)

		assert.False(t, evaluate(t, m, user.ID, req, now, EventData{}), "1 of 2 on time is 50%")
	})
}
