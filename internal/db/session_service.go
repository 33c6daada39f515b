package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/studyclock/internal/models"
)

// StartSession opens a new study session for a subject
func (s *Store) StartSession(subjectID, notes string) (*models.StudySession, error) {
	var session models.StudySession

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Check if subject exists
		var subject models.Subject
		if err := tx.First(&subject, "id = ?", subjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("subject %s: %w", subjectID, ErrNotFound)
			}
			return err
		}

		// Check if there's already an active session for it
		var active int64
		if err := tx.Model(&models.StudySession{}).
			Where("subject_id = ? AND end_time IS NULL", subjectID).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("subject %q: %w", subject.Name, ErrSessionActive)
		}

		session = models.StudySession{
			SubjectID: subjectID,
			StartTime: s.now().UTC(),
			Notes:     strings.TrimSpace(notes),
		}
		return tx.Create(&session).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("subject %s: %w", subjectID, ErrSessionActive)
	}
	if err != nil {
		return nil, err
	}

	return s.GetSession(session.ID)
}

// GetSession returns a session with its subject loaded
func (s *Store) GetSession(id string) (*models.StudySession, error) {
	var session models.StudySession
	err := s.db.Preload("Subject").First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetActiveSession returns the open session for a subject
func (s *Store) GetActiveSession(subjectID string) (*models.StudySession, error) {
	var session models.StudySession
	err := s.db.Where("subject_id = ? AND end_time IS NULL", subjectID).
		Preload("Subject").
		Order("start_time DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no active session for subject %s: %w", subjectID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AddBreakTime accumulates break seconds on an open session
func (s *Store) AddBreakTime(sessionID string, seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("break seconds must not be negative: %w", ErrInvalid)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		session, err := lockOpenSession(tx, sessionID)
		if err != nil {
			return err
		}
		return tx.Model(session).
			UpdateColumn("break_duration_seconds", gorm.Expr("break_duration_seconds + ?", seconds)).Error
	})
}

// EndSession closes an open session; it cannot be mutated afterwards
func (s *Store) EndSession(sessionID, notes string) (*models.StudySession, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		session, err := lockOpenSession(tx, sessionID)
		if err != nil {
			return err
		}

		updates := map[string]any{"end_time": s.now().UTC()}
		if notes = strings.TrimSpace(notes); notes != "" {
			updates["notes"] = notes
		}
		return tx.Model(session).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetSession(sessionID)
}

// GetSessionsInRange returns all ended sessions started within the range
func (s *Store) GetSessionsInRange(startTime, endTime time.Time) ([]models.StudySession, error) {
	var sessions []models.StudySession

	err := s.db.Where("start_time >= ? AND start_time <= ? AND end_time IS NOT NULL", startTime.UTC(), endTime.UTC()).
		Preload("Subject").
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func lockOpenSession(tx *gorm.DB, sessionID string) (*models.StudySession, error) {
	var session models.StudySession
	err := tx.First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionEnded)
	}
	return &session, nil
}
