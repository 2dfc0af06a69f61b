package models

import "time"

// Project is a generated suggestion. It always belongs to exactly one
// UserProfile, fixed when both rows are created together.
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserProfileID uint         `gorm:"index;not null" json:"user_profile_id"`
	UserProfile   *UserProfile `gorm:"foreignKey:UserProfileID" json:"user_profile,omitempty"`

	Title              string `gorm:"type:text;not null" json:"title"`
	Description        string `gorm:"type:text;not null" json:"description"`
	BusinessGoal       string `gorm:"type:text;not null" json:"business_goal"`
	TechnicalChallenge string `gorm:"type:text;not null" json:"technical_challenge"`
	WinningDecision    string `gorm:"type:text;not null" json:"winning_decision"`
}

// All lists every model for AutoMigrate, parents first.
func All() []any {
	return []any{&UserProfile{}, &Project{}}
}
