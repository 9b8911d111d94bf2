package dto

type CVBasicsRequest struct {
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Title          string   `json:"title"`
	Objective      string   `json:"objective"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	Summary        string   `json:"summary"`
	Hobbies        []string `json:"hobbies"`
	PortfolioURL   string   `json:"portfolio_url"`
	LinkedinURL    string   `json:"linkedin_url"`
	PreferredTheme string   `json:"preferred_theme"`
	CVLanguage     string   `json:"cv_language"`
}
