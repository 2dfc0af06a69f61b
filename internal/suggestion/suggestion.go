// Package suggestion derives a project suggestion from a set of skill tags.
// Generation is a fixed template fill; it never fails and never calls out.
package suggestion

import (
	"strings"

	"github.com/kota-mizu/skill-builder/internal/models"
)

const (
	FallbackTech     = "技術"
	FallbackInterest = "新規"

	BusinessGoal       = "KPIを10%改善する。"
	TechnicalChallenge = "GORMによるデータ構造の最適化。"
	WinningDecision    = "MVPを何にするか決めること。"
)

// Submission is the tag selection sent with one generate request.
type Submission struct {
	TechSkills []string `json:"techSkills"`
	BizSkills  []string `json:"bizSkills"`
	Interests  []string `json:"interests"`
}

// Suggestion is the five-field record returned to the user.
type Suggestion struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	BusinessGoal       string `json:"businessGoal"`
	TechnicalChallenge string `json:"technicalChallenge"`
	WinningDecision    string `json:"winningDecision"`
}

// Generate fills the suggestion template for s.
func Generate(s Submission) Suggestion {
	return Suggestion{
		Title:              firstOr(s.TechSkills, FallbackTech) + "を活用した" + firstOr(s.Interests, FallbackInterest) + "プロダクト",
		Description:        "現在の" + strings.Join(s.TechSkills, ", ") + "のスキルを活かしつつ...",
		BusinessGoal:       BusinessGoal,
		TechnicalChallenge: TechnicalChallenge,
		WinningDecision:    WinningDecision,
	}
}

func firstOr(tags []string, fallback string) string {
	if len(tags) == 0 || tags[0] == "" {
		return fallback
	}
	return tags[0]
}

// Profile builds the rows persisted for one submission: the profile with its
// single generated project nested under it.
func Profile(s Submission, sg Suggestion) models.UserProfile {
	p := models.NewUserProfile(s.TechSkills, s.BizSkills, s.Interests)
	p.Projects = []models.Project{FromSuggestion(sg)}
	return p
}

// FromSuggestion maps a suggestion onto an unsaved project row.
func FromSuggestion(sg Suggestion) models.Project {
	return models.Project{
		Title:              sg.Title,
		Description:        sg.Description,
		BusinessGoal:       sg.BusinessGoal,
		TechnicalChallenge: sg.TechnicalChallenge,
		WinningDecision:    sg.WinningDecision,
	}
}

// FromProject is the inverse of FromSuggestion.
func FromProject(p models.Project) Suggestion {
	return Suggestion{
		Title:              p.Title,
		Description:        p.Description,
		BusinessGoal:       p.BusinessGoal,
		TechnicalChallenge: p.TechnicalChallenge,
		WinningDecision:    p.WinningDecision,
	}
}
