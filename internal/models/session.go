package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudySession is the server-owned record bounding one study interval.
// EndTime is set exactly once; once set the record is closed.
type StudySession struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UpdatedAt time.Time `json:"-"`

	SubjectID            string     `gorm:"not null;index" json:"subjectId"`
	StartTime            time.Time  `gorm:"not null" json:"startTime"`
	EndTime              *time.Time `gorm:"index" json:"endTime,omitempty"`
	BreakDurationSeconds int        `gorm:"not null;default:0" json:"breakDurationSeconds"`
	Notes                string     `json:"notes,omitempty"`

	// Relationships
	Subject *Subject `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"subject,omitempty"`
}

// BeforeCreate assigns a uuid when none was provided
func (s *StudySession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Active reports whether the session has not been ended yet
func (s *StudySession) Active() bool {
	return s.EndTime == nil
}
