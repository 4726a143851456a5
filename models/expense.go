// models/expense.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spending record. Date is the accounting day the
// expense belongs to, which may differ from CreatedAt.
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Category    string          `gorm:"size:50;index" json:"category"`
	Description string          `gorm:"size:255" json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// Income mirrors Expense for money coming in.
type Income struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Source      string          `gorm:"size:50;index" json:"source"`
	Description string          `gorm:"size:255" json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Expense) TableName() string {
	return "expenses"
}

func (Income) TableName() string {
	return "incomes"
}
