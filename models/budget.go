// models/budget.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a spending target over [StartDate, EndDate]. Category empty
// means the budget covers all spending.
type Budget struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Category  string          `gorm:"size:50" json:"category,omitempty"`
	StartDate time.Time       `gorm:"not null;index" json:"start_date"`
	EndDate   time.Time       `gorm:"not null;index" json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Budget) TableName() string {
	return "budgets"
}
