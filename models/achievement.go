// models/achievement.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RequirementType identifies the condition a requirement encodes.
// The set is closed; the resolver skips unknown values.
type RequirementType string

const (
	ExpenseCount           RequirementType = "EXPENSE_COUNT"
	ExpenseStreak          RequirementType = "EXPENSE_STREAK"
	BudgetAccuracy         RequirementType = "BUDGET_ACCURACY"
	PerfectBalance         RequirementType = "PERFECT_BALANCE"
	IncomeExceedsExpenses  RequirementType = "INCOME_EXCEEDS_EXPENSES"
	ExpenseReduction       RequirementType = "EXPENSE_REDUCTION"
	ZeroExpenseDay         RequirementType = "ZERO_EXPENSE_DAY"
	TaskCompleted          RequirementType = "TASK_COMPLETED"
	TaskStreak             RequirementType = "TASK_STREAK"
	DeadlineMet            RequirementType = "DEADLINE_MET"
	FastTaskCompletion     RequirementType = "FAST_TASK_COMPLETION"
	TasksPerDay            RequirementType = "TASKS_PER_DAY"
	TasksPerWeek           RequirementType = "TASKS_PER_WEEK"
	TasksPerMonth          RequirementType = "TASKS_PER_MONTH"
	TasksCompletionRate    RequirementType = "TASKS_COMPLETION_RATE"
	TasksCompletionRateDay RequirementType = "TASKS_COMPLETION_RATE_DAY"
	DeadlineStreakMonth    RequirementType = "DEADLINE_STREAK_MONTH"
)

// EventTag names a domain event that triggers achievement re-evaluation.
type EventTag string

const (
	EventExpenseCreated EventTag = "EXPENSE_CREATED"
	EventTaskCompleted  EventTag = "TASK_COMPLETED"
	EventDayCompleted   EventTag = "DAY_COMPLETED"
	EventWeekCompleted  EventTag = "WEEK_COMPLETED"
	EventMonthCompleted EventTag = "MONTH_COMPLETED"
)

// Requirement is the typed condition attached to a template and copied onto
// each instance. Only the fields relevant to Type carry meaning; the rest
// stay at their zero values.
type Requirement struct {
	Type       RequirementType `json:"type"`
	Count      int             `json:"count,omitempty"`
	Days       int             `json:"days,omitempty"`
	Months     int             `json:"months,omitempty"`
	Minutes    int             `json:"minutes,omitempty"`
	Threshold  float64         `json:"threshold,omitempty"`
	Percentage float64         `json:"percentage,omitempty"`
}

// Value implements driver.Valuer so GORM stores the requirement as JSON.
func (r Requirement) Value() (driver.Value, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (r *Requirement) Scan(value interface{}) error {
	if value == nil {
		*r = Requirement{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported requirement column type %T", value)
	}
}

// AchievementTemplate is a global catalog entry. Seeded once at startup,
// managed afterwards only through the admin API.
type AchievementTemplate struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	Title          string      `gorm:"not null;uniqueIndex" json:"title"`
	Description    string      `gorm:"not null" json:"description"`
	Icon           string      `gorm:"size:20" json:"icon"`
	Image          string      `gorm:"size:255" json:"image"`
	TranslationKey string      `gorm:"size:100" json:"translation_key,omitempty"`
	Requirement    Requirement `gorm:"type:text" json:"requirement"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AchievementInstance is one user's unlock record for one template.
// Completed transitions false -> true exactly once; the resolver only ever
// loads instances with completed = false, so re-checks are no-ops.
type AchievementInstance struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	UserID     uint `gorm:"not null;index;uniqueIndex:idx_instance_user_template" json:"user_id"`
	TemplateID uint `gorm:"not null;index;uniqueIndex:idx_instance_user_template" json:"template_id"`

	Title          string      `gorm:"not null" json:"title"`
	Description    string      `gorm:"not null" json:"description"`
	Icon           string      `gorm:"size:20" json:"icon"`
	Image          string      `gorm:"size:255" json:"image"`
	TranslationKey string      `gorm:"size:100" json:"translation_key,omitempty"`
	Requirement    Requirement `gorm:"type:text" json:"requirement"`

	Progress    int        `gorm:"default:0" json:"progress"`
	Completed   bool       `gorm:"default:false;index" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User     *User                `gorm:"foreignKey:UserID" json:"-"`
	Template *AchievementTemplate `gorm:"foreignKey:TemplateID" json:"-"`
}

// Category buckets achievements for the client. It is derived from the icon
// glyph, not stored.
func (a AchievementInstance) Category() string {
	switch a.Icon {
	case "💰", "📊", "⚖️", "📉", "🚫":
		return "financial"
	case "✅", "⏱️", "📅", "🎯":
		return "tasks"
	case "🔥":
		return "streaks"
	default:
		return "general"
	}
}

func (AchievementTemplate) TableName() string {
	return "achievement_templates"
}

func (AchievementInstance) TableName() string {
	return "achievement_instances"
}
