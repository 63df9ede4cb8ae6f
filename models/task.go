package models

import (
	"time"

	"gorm.io/gorm"
)

// Task belongs to one deal
type Task struct {
	gorm.Model
	DealID      uint      `gorm:"not null;index:ix_tasks_deal_id" json:"deal_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `gorm:"type:date;index:ix_tasks_due_date" json:"due_date"`
	IsDone      bool      `gorm:"not null;default:false;index:ix_tasks_is_done" json:"is_done"`

	// Relations
	Deal Deal `json:"-"`
}

// MarkDone flags the task as completed
func (t *Task) MarkDone() {
	t.IsDone = true
}
