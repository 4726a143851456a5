// models/user.go
package models

import (
	"time"
)

type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Email    *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password string  `gorm:"not null" json:"-"`
	IsAdmin  bool    `gorm:"default:false" json:"is_admin"`

	// Preferences
	Currency string `gorm:"size:3;default:'USD'" json:"currency"`
	Language string `gorm:"size:5;default:'en'" json:"language"`

	// Timestamps
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    time.Time  `json:"last_login"`
	LastActivity *time.Time `json:"last_activity,omitempty"`

	// Relationships
	Expenses     []Expense             `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
	Incomes      []Income              `gorm:"foreignKey:UserID" json:"incomes,omitempty"`
	Budgets      []Budget              `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
	Tasks        []Task                `gorm:"foreignKey:UserID" json:"tasks,omitempty"`
	Achievements []AchievementInstance `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
}

func (User) TableName() string {
	return "users"
}
