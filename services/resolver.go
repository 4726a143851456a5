// services/resolver.go - Achievement resolver
//
// The resolver reacts to domain events by re-checking the subset of a
// user's incomplete achievements whose requirement type the event can
// affect, and persisting unlocks. Unlocking is one-way and idempotent:
// only completed = false instances are ever loaded, and evaluators are
// pure over stored data.
package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"fintrack/models"
)

// eventRequirements is the fixed event -> requirement-type mapping. It
// determines which achievements any given action can ever unlock.
var eventRequirements = map[models.EventTag][]models.RequirementType{
	models.EventExpenseCreated: {
		models.ExpenseCount,
		models.ExpenseStreak,
	},
	models.EventTaskCompleted: {
		models.TaskCompleted,
		models.TaskStreak,
		models.DeadlineMet,
		models.FastTaskCompletion,
		models.TasksPerDay,
		models.TasksPerWeek,
		models.TasksPerMonth,
	},
	models.EventDayCompleted: {
		models.ExpenseStreak,
		models.ZeroExpenseDay,
		models.TaskStreak,
		models.TasksCompletionRateDay,
	},
	models.EventWeekCompleted: {
		models.TasksPerWeek,
	},
	models.EventMonthCompleted: {
		models.BudgetAccuracy,
		models.PerfectBalance,
		models.IncomeExceedsExpenses,
		models.ExpenseReduction,
		models.TasksCompletionRate,
		models.TasksPerMonth,
		models.DeadlineStreakMonth,
	},
}

// Resolver orchestrates evaluation and unlock persistence.
type Resolver struct {
	db      *gorm.DB
	metrics *Metrics
	now     func() time.Time
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{
		db:      db,
		metrics: NewMetrics(db),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock substitutes the time source. Tests use it to pin "now".
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// CheckAchievements re-evaluates the user's incomplete achievements that
// the event can affect and unlocks the ones whose requirement now holds.
// One achievement's failure never blocks its siblings; errors are logged
// and evaluation continues. The newly unlocked instances are returned so
// callers can surface them in the response.
func (r *Resolver) CheckAchievements(userID uint, tag models.EventTag, ev EventData) []models.AchievementInstance {
	types, ok := eventRequirements[tag]
	if !ok {
		log.Printf("achievements: unknown event tag %q for user %d", tag, userID)
		return nil
	}

	now := r.now()
	var unlocked []models.AchievementInstance

	for _, t := range types {
		instances, err := r.incompleteInstances(userID, t)
		if err != nil {
			log.Printf("achievements: loading %s instances for user %d: %v", t, userID, err)
			continue
		}

		for _, instance := range instances {
			met, err := r.evaluate(userID, instance.Requirement, now, ev)
			if err != nil {
				log.Printf("achievements: evaluating %q (id %d) for user %d: %v",
					instance.Title, instance.ID, userID, err)
				continue
			}
			if !met {
				continue
			}

			if err := r.unlock(&instance, now); err != nil {
				log.Printf("achievements: unlocking %q (id %d) for user %d: %v",
					instance.Title, instance.ID, userID, err)
				continue
			}
			unlocked = append(unlocked, instance)
		}
	}

	return unlocked
}

func (r *Resolver) incompleteInstances(userID uint, t models.RequirementType) ([]models.AchievementInstance, error) {
	var instances []models.AchievementInstance
	err := r.db.Where("user_id = ? AND completed = ?", userID, false).
		Find(&instances).Error
	if err != nil {
		return nil, storageErr("incomplete instances", err)
	}

	// Requirement type lives inside the JSON column, so filter here.
	matched := instances[:0]
	for _, in := range instances {
		if in.Requirement.Type == t {
			matched = append(matched, in)
		}
	}
	return matched, nil
}

func (r *Resolver) evaluate(userID uint, req models.Requirement, now time.Time, ev EventData) (bool, error) {
	fn, ok := EvaluatorFor(req.Type)
	if !ok {
		// Unknown type: malformed requirement, skip rather than fail.
		return false, &ValidationError{Reason: "no evaluator for requirement type " + string(req.Type)}
	}
	return fn(r.metrics, userID, req, now, ev)
}

// unlock flips the instance to its terminal state. The completed = false
// guard in the WHERE clause keeps a concurrent double-trigger from
// rewriting completed_at on an instance another call just unlocked.
func (r *Resolver) unlock(instance *models.AchievementInstance, now time.Time) error {
	res := r.db.Model(&models.AchievementInstance{}).
		Where("id = ? AND completed = ?", instance.ID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": now,
			"progress":     100,
		})
	if res.Error != nil {
		return storageErr("unlock", res.Error)
	}

	instance.Completed = true
	instance.CompletedAt = &now
	instance.Progress = 100
	return nil
}
