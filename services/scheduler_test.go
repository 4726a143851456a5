package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/models"
	"fintrack/utils"
)

func TestRunDailyBatchCoversAllUsers(t *testing.T) {
	db := newTestDB(t)
	asOf := day(2024, time.March, 10)

	saver := createUser(t, db, "saver")
	spender := createUser(t, db, "spender")

	saverInstance := addInstance(t, db, saver.ID, "No-Spend Day",
		models.Requirement{Type: models.ZeroExpenseDay})
	spenderInstance := addInstance(t, db, spender.ID, "No-Spend Day",
		models.Requirement{Type: models.ZeroExpenseDay})

	addExpense(t, db, spender.ID, "12.00", asOf)

	NewScheduler(db).RunDaily(asOf)

	assert.True(t, reload(t, db, saverInstance.ID).Completed)
	assert.False(t, reload(t, db, spenderInstance.ID).Completed)
}

func TestRunMonthlyBatch(t *testing.T) {
	db := newTestDB(t)
	asOf := day(2024, time.March, 31)

	user := createUser(t, db, "balanced")
	instance := addInstance(t, db, user.ID, "Perfect Balance",
		models.Requirement{Type: models.PerfectBalance})

	addIncome(t, db, user.ID, "1500.00", day(2024, time.March, 1))
	addExpense(t, db, user.ID, "1500.00", day(2024, time.March, 20))

	NewScheduler(db).RunMonthly(asOf)

	assert.True(t, reload(t, db, instance.ID).Completed)
}

func TestTickFiresOnDayRollover(t *testing.T) {
	db := newTestDB(t)

	user := createUser(t, db, "nightowl")
	instance := addInstance(t, db, user.ID, "No-Spend Day",
		models.Requirement{Type: models.ZeroExpenseDay})

	s := NewScheduler(db)

	// Still the same day: nothing fires.
	s.lastDay = utils.StartOfDay(day(2024, time.March, 10))
	s.tick(time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC))
	assert.False(t, reload(t, db, instance.ID).Completed)

	// Just past midnight: the completed day is evaluated as of its end.
	s.tick(time.Date(2024, time.March, 11, 0, 0, 30, 0, time.UTC))
	assert.True(t, reload(t, db, instance.ID).Completed)
}

func TestTickMonthRollover(t *testing.T) {
	db := newTestDB(t)

	user := createUser(t, db, "monthend")
	instance := addInstance(t, db, user.ID, "Perfect Balance",
		models.Requirement{Type: models.PerfectBalance})

	addIncome(t, db, user.ID, "200.00", day(2024, time.February, 5))
	addExpense(t, db, user.ID, "200.00", day(2024, time.February, 25))

	s := NewScheduler(db)
	s.lastDay = utils.StartOfDay(day(2024, time.February, 29))
	s.tick(time.Date(2024, time.March, 1, 0, 1, 0, 0, time.UTC))

	// asOf lands on Feb 29 23:59:59, so February is the evaluated month.
	assert.True(t, reload(t, db, instance.ID).Completed)

	require.Equal(t, utils.StartOfDay(day(2024, time.March, 1)), s.lastDay)
}
