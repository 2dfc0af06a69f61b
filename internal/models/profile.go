package models

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultExperience is recorded on every submission until the wizard asks for it.
const DefaultExperience = "初学者"

// UserProfile is one wizard submission.
// It owns the projects generated for it; deleting it cascades to them.
type UserProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TechSkills datatypes.JSONSlice[string] `gorm:"not null" json:"tech_skills"`
	BizSkills  datatypes.JSONSlice[string] `gorm:"not null" json:"biz_skills"`
	Interests  datatypes.JSONSlice[string] `gorm:"not null" json:"interests"`
	Experience string                      `gorm:"size:100;not null" json:"experience"`

	Projects []Project `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE" json:"projects,omitempty"`
}

// NewUserProfile copies the tag lists so later mutation of the caller's
// slices cannot leak into the stored row. Nil lists are stored as [].
func NewUserProfile(techSkills, bizSkills, interests []string) UserProfile {
	return UserProfile{
		TechSkills: cloneTags(techSkills),
		BizSkills:  cloneTags(bizSkills),
		Interests:  cloneTags(interests),
		Experience: DefaultExperience,
	}
}

func cloneTags(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], len(in))
	copy(out, in)
	return out
}
