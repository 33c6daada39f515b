package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subject is the topic or course a study session is tied to
type Subject struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`

	// Relationships
	Sessions []StudySession `gorm:"foreignKey:SubjectID" json:"-"`
}

// BeforeCreate assigns a uuid when none was provided
func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
