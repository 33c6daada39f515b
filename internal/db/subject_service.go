package db

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/studyclock/internal/models"
)

// CreateSubject registers a new subject with a unique name
func (s *Store) CreateSubject(name string) (*models.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("subject name is required: %w", ErrInvalid)
	}

	var existing models.Subject
	err := s.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("subject %q: %w", name, ErrSubjectExists)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	subject := models.Subject{Name: name}
	if err := s.db.Create(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("subject %q: %w", name, ErrSubjectExists)
		}
		return nil, err
	}
	return &subject, nil
}

// GetSubject retrieves a subject by id
func (s *Store) GetSubject(id string) (*models.Subject, error) {
	var subject models.Subject
	err := s.db.First(&subject, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("subject %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// FindSubject resolves a subject by id or, failing that, by name
func (s *Store) FindSubject(ref string) (*models.Subject, error) {
	var subject models.Subject
	err := s.db.Where("id = ? OR name = ?", ref, ref).First(&subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("subject %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListSubjects returns all subjects ordered by name
func (s *Store) ListSubjects() ([]models.Subject, error) {
	var subjects []models.Subject
	if err := s.db.Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}
