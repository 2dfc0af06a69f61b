package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kota-mizu/skill-builder/internal/models"
	"github.com/kota-mizu/skill-builder/internal/suggestion"
	"gorm.io/gorm"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

// SuggestionService generates suggestions and stores each one with the
// submission it was generated from.
type SuggestionService struct {
	DB    *gorm.DB
	Delay time.Duration
}

func NewSuggestionService(db *gorm.DB, delay time.Duration) *SuggestionService {
	return &SuggestionService{DB: db, Delay: delay}
}

// Generate builds the suggestion for sub and persists the profile and its
// project in one transaction. After a successful write it waits s.Delay
// before returning, unless ctx is cancelled first.
func (s *SuggestionService) Generate(ctx context.Context, sub suggestion.Submission) (suggestion.Suggestion, error) {
	sg := suggestion.Generate(sub)
	profile := suggestion.Profile(sub, sg)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&profile).Error
	})
	if err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("save user profile: %w", err)
	}

	s.wait(ctx)
	return sg, nil
}

func (s *SuggestionService) wait(ctx context.Context) {
	if s.Delay <= 0 {
		return
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Recent returns the latest projects, newest first, with their owning profile.
// limit is clamped to [1, MaxRecentLimit]; zero or less means DefaultRecentLimit.
func (s *SuggestionService) Recent(ctx context.Context, limit int) ([]models.Project, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}
	var projects []models.Project
	err := s.DB.WithContext(ctx).
		Preload("UserProfile").
		Order("id DESC").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}
