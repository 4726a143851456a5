// services/provision.go - Per-user achievement provisioning
package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"fintrack/models"
)

// translationKeys resolves a requirement to a locale key by its type and
// distinguishing parameter. Templates with no entry stay untranslated.
var translationKeys = map[string]string{
	keyFor(models.ExpenseCount, 1):            "financial.first_note",
	keyFor(models.ExpenseCount, 50):           "financial.bookkeeper",
	keyFor(models.ExpenseCount, 500):          "financial.ledger_master",
	keyFor(models.ExpenseStreak, 7):           "financial.week_of_diligence",
	keyFor(models.ExpenseStreak, 30):          "financial.iron_habit",
	keyFor(models.BudgetAccuracy, 15):         "financial.sharp_shooter",
	keyFor(models.BudgetAccuracy, 5):          "financial.bullseye",
	keyFor(models.PerfectBalance, 0):          "financial.perfect_balance",
	keyFor(models.IncomeExceedsExpenses, 3):   "financial.in_the_black",
	keyFor(models.ExpenseReduction, 20):       "financial.belt_tightener",
	keyFor(models.ZeroExpenseDay, 0):          "financial.no_spend_day",
	keyFor(models.TaskCompleted, 1):           "tasks.first_done",
	keyFor(models.TaskCompleted, 100):         "tasks.finisher",
	keyFor(models.TaskStreak, 7):              "tasks.week_streak",
	keyFor(models.DeadlineMet, 0):             "tasks.right_on_time",
	keyFor(models.FastTaskCompletion, 30):     "tasks.quick_draw",
	keyFor(models.TasksPerDay, 5):             "tasks.productive_day",
	keyFor(models.TasksPerWeek, 20):           "tasks.productive_week",
	keyFor(models.TasksPerMonth, 60):          "tasks.productive_month",
	keyFor(models.TasksCompletionRate, 80):    "tasks.closer",
	keyFor(models.TasksCompletionRateDay, 100): "tasks.clean_slate",
	keyFor(models.DeadlineStreakMonth, 90):    "tasks.deadline_keeper",
}

func keyFor(t models.RequirementType, param int) string {
	return fmt.Sprintf("%s:%d", t, param)
}

// distinguishingParam picks the parameter that tells tiers of the same
// requirement type apart.
func distinguishingParam(req models.Requirement) int {
	switch req.Type {
	case models.ExpenseCount, models.TaskCompleted,
		models.TasksPerDay, models.TasksPerWeek, models.TasksPerMonth:
		return req.Count
	case models.ExpenseStreak, models.TaskStreak:
		return req.Days
	case models.IncomeExceedsExpenses:
		return req.Months
	case models.FastTaskCompletion:
		return req.Minutes
	case models.BudgetAccuracy:
		return int(req.Threshold)
	case models.ExpenseReduction, models.TasksCompletionRate,
		models.TasksCompletionRateDay, models.DeadlineStreakMonth:
		return int(req.Percentage)
	default:
		return 0
	}
}

// TranslationKeyFor returns the locale key for a requirement, or "".
func TranslationKeyFor(req models.Requirement) string {
	return translationKeys[keyFor(req.Type, distinguishingParam(req))]
}

// Provisioner clones the template catalog into per-user instances.
type Provisioner struct {
	db *gorm.DB
}

func NewProvisioner(db *gorm.DB) *Provisioner {
	return &Provisioner{db: db}
}

// CreateUserAchievements creates one locked instance per catalog template
// for the user. Calling it again for the same user is a no-op: existing
// instances short-circuit the call, and the unique (user_id, template_id)
// index backstops a racing double registration.
func (p *Provisioner) CreateUserAchievements(userID uint) error {
	var existing int64
	if err := p.db.Model(&models.AchievementInstance{}).
		Where("user_id = ?", userID).
		Count(&existing).Error; err != nil {
		return storageErr("count user achievements", err)
	}
	if existing > 0 {
		return nil
	}

	var templates []models.AchievementTemplate
	if err := p.db.Find(&templates).Error; err != nil {
		return storageErr("load achievement templates", err)
	}
	if len(templates) == 0 {
		return nil
	}

	instances := make([]models.AchievementInstance, 0, len(templates))
	for _, tpl := range templates {
		key := tpl.TranslationKey
		if key == "" {
			key = TranslationKeyFor(tpl.Requirement)
		}

		instances = append(instances, models.AchievementInstance{
			UserID:         userID,
			TemplateID:     tpl.ID,
			Title:          tpl.Title,
			Description:    tpl.Description,
			Icon:           tpl.Icon,
			Image:          tpl.Image,
			TranslationKey: key,
			Requirement:    tpl.Requirement,
			Progress:       0,
			Completed:      false,
		})
	}

	if err := p.db.Create(&instances).Error; err != nil {
		return storageErr("create user achievements", err)
	}

	log.Printf("Provisioned %d achievements for user %d", len(instances), userID)
	return nil
}
