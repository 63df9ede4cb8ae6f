package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ActivityType classifies audit records on a deal
type ActivityType string

const (
	ActivityComment      ActivityType = "comment"
	ActivityStatusChange ActivityType = "status_change"
	ActivityStageChange  ActivityType = "stage_change"
	ActivityTaskCreated  ActivityType = "task_created"
	ActivitySystem       ActivityType = "system"
)

// JSONMap stores a free-form payload as JSONB
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for JSONMap")
	}
	return json.Unmarshal(data, m)
}

func (JSONMap) GormDataType() string {
	return "jsonb"
}

// Activity is an immutable audit record tied to a deal. Rows are only ever
// inserted; there is no update or delete path.
type Activity struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	DealID    uint         `gorm:"not null;index" json:"deal_id"`
	AuthorID  *uint        `gorm:"index" json:"author_id"` // nil for system-generated records
	Type      ActivityType `gorm:"size:20;not null;default:'status_change'" json:"type"`
	Payload   JSONMap      `json:"payload"`
	CreatedAt time.Time    `json:"created_at"`

	// Relations
	Deal   Deal  `json:"-"`
	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}
