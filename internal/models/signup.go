package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Signup is one newsletter form submission. Email is unique; redelivered
// submissions update the existing row.
type Signup struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FormName  string         `gorm:"size:100" json:"form_name"`
	Payload   datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
