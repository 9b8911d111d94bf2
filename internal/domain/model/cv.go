package model

import (
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
)

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	Degree      string `json:"degree"`
	School      string `json:"school"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

type Skill struct {
	Name  string           `json:"name"`
	Level enums.SkillLevel `json:"level"`
}

type Language struct {
	Name  string              `json:"name"`
	Level enums.LanguageLevel `json:"level"`
}

// CV is one per user. List fields are ordered; mutations address items by
// position, so order must survive storage round trips.
type CV struct {
	ID             int64        `json:"id"`
	UserID         int64        `json:"user_id"`
	FirstName      string       `json:"first_name,omitempty"`
	LastName       string       `json:"last_name,omitempty"`
	Title          string       `json:"title,omitempty"`
	Objective      string       `json:"objective,omitempty"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Address        string       `json:"address,omitempty"`
	Summary        string       `json:"summary,omitempty"`
	Experiences    []Experience `json:"experiences"`
	Education      []Education  `json:"education"`
	Skills         []Skill      `json:"skills"`
	Languages      []Language   `json:"languages"`
	Hobbies        []string     `json:"hobbies"`
	PortfolioURL   string       `json:"portfolio_url,omitempty"`
	LinkedinURL    string       `json:"linkedin_url,omitempty"`
	PreferredTheme string       `json:"preferred_theme,omitempty"`
	CVLanguage     string       `json:"cv_language,omitempty"`
	IsPublic       bool         `json:"is_public"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
