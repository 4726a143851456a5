// models/task.go
package models

import (
	"time"
)

// Task is a to-do item with an optional deadline. CompletedAt is set once
// when the task is marked complete and never cleared afterwards.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"not null;size:200" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Deadline    *time.Time `gorm:"index" json:"deadline,omitempty"`
	Completed   bool       `gorm:"default:false;index" json:"completed"`
	CompletedAt *time.Time `gorm:"index" json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User     *User         `gorm:"foreignKey:UserID" json:"-"`
	TimeLogs []TaskTimeLog `gorm:"foreignKey:TaskID" json:"time_logs,omitempty"`
}

// TaskTimeLog records one stretch of work on a task.
type TaskTimeLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;index" json:"task_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
	EndedAt   time.Time `gorm:"not null" json:"ended_at"`
	Minutes   int       `gorm:"not null" json:"minutes"`

	CreatedAt time.Time `json:"created_at"`

	Task *Task `gorm:"foreignKey:TaskID" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

func (TaskTimeLog) TableName() string {
	return "task_time_logs"
}
