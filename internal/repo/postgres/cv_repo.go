package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
)

var ErrCVNotFound = errors.New("cv not found")

type CVRepo struct {
	pool *pgxpool.Pool
}

func NewCVRepo(pool *pgxpool.Pool) *CVRepo {
	return &CVRepo{pool: pool}
}

// cvBasics is the storage shape of the CV header fields. List sections get
// their own columns so ordering survives without touching the header blob.
type cvBasics struct {
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Title          string `json:"title,omitempty"`
	Objective      string `json:"objective,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	Summary        string `json:"summary,omitempty"`
	PortfolioURL   string `json:"portfolio_url,omitempty"`
	LinkedinURL    string `json:"linkedin_url,omitempty"`
	PreferredTheme string `json:"preferred_theme,omitempty"`
	CVLanguage     string `json:"cv_language,omitempty"`
}

func basicsFromCV(cv model.CV) cvBasics {
	return cvBasics{
		FirstName:      cv.FirstName,
		LastName:       cv.LastName,
		Title:          cv.Title,
		Objective:      cv.Objective,
		Email:          cv.Email,
		Phone:          cv.Phone,
		Address:        cv.Address,
		Summary:        cv.Summary,
		PortfolioURL:   cv.PortfolioURL,
		LinkedinURL:    cv.LinkedinURL,
		PreferredTheme: cv.PreferredTheme,
		CVLanguage:     cv.CVLanguage,
	}
}

func (b cvBasics) applyTo(cv *model.CV) {
	cv.FirstName = b.FirstName
	cv.LastName = b.LastName
	cv.Title = b.Title
	cv.Objective = b.Objective
	cv.Email = b.Email
	cv.Phone = b.Phone
	cv.Address = b.Address
	cv.Summary = b.Summary
	cv.PortfolioURL = b.PortfolioURL
	cv.LinkedinURL = b.LinkedinURL
	cv.PreferredTheme = b.PreferredTheme
	cv.CVLanguage = b.CVLanguage
}

const cvColumns = `
	id,
	user_id,
	basics,
	experiences,
	educations,
	skills,
	languages,
	hobbies,
	is_public,
	updated_at`

func scanCV(row pgx.Row) (model.CV, error) {
	var (
		cv          model.CV
		basics      []byte
		experiences []byte
		educations  []byte
		skills      []byte
		languages   []byte
		hobbies     []byte
	)

	err := row.Scan(
		&cv.ID,
		&cv.UserID,
		&basics,
		&experiences,
		&educations,
		&skills,
		&languages,
		&hobbies,
		&cv.IsPublic,
		&cv.UpdatedAt,
	)
	if err != nil {
		return model.CV{}, err
	}

	if len(basics) > 0 {
		var b cvBasics
		if err := json.Unmarshal(basics, &b); err != nil {
			return model.CV{}, fmt.Errorf("unmarshal cv basics: %w", err)
		}
		b.applyTo(&cv)
	}

	sections := []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"experiences", experiences, &cv.Experiences},
		{"educations", educations, &cv.Education},
		{"skills", skills, &cv.Skills},
		{"languages", languages, &cv.Languages},
		{"hobbies", hobbies, &cv.Hobbies},
	}
	for _, section := range sections {
		if len(section.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(section.raw, section.dst); err != nil {
			return model.CV{}, fmt.Errorf("unmarshal cv %s: %w", section.name, err)
		}
	}

	return cv, nil
}

func (r *CVRepo) GetByUserID(ctx context.Context, userID int64) (model.CV, error) {
	if r.pool == nil {
		return model.CV{}, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT` + cvColumns + `
FROM cvs
WHERE user_id = $1`

	cv, err := scanCV(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CV{}, ErrCVNotFound
		}
		return model.CV{}, fmt.Errorf("get cv by user id: %w", err)
	}

	return cv, nil
}

// Upsert writes the whole document. CV mutations are load-modify-save; the
// one-row-per-user constraint makes last-writer-wins acceptable here.
func (r *CVRepo) Upsert(ctx context.Context, cv model.CV) (model.CV, error) {
	if r.pool == nil {
		return model.CV{}, fmt.Errorf("postgres pool is nil")
	}

	basics, err := json.Marshal(basicsFromCV(cv))
	if err != nil {
		return model.CV{}, fmt.Errorf("marshal cv basics: %w", err)
	}

	var experiences, educations, skills, languages, hobbies string
	sections := []struct {
		name string
		src  any
		dst  *string
	}{
		{"experiences", cv.Experiences, &experiences},
		{"educations", cv.Education, &educations},
		{"skills", cv.Skills, &skills},
		{"languages", cv.Languages, &languages},
		{"hobbies", cv.Hobbies, &hobbies},
	}
	for _, section := range sections {
		raw, err := json.Marshal(section.src)
		if err != nil {
			return model.CV{}, fmt.Errorf("marshal cv %s: %w", section.name, err)
		}
		*section.dst = string(raw)
	}

	query := `
INSERT INTO cvs (
	user_id,
	basics,
	experiences,
	educations,
	skills,
	languages,
	hobbies,
	is_public,
	updated_at
) VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb, $5::jsonb, $6::jsonb, $7::jsonb, $8, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	basics = EXCLUDED.basics,
	experiences = EXCLUDED.experiences,
	educations = EXCLUDED.educations,
	skills = EXCLUDED.skills,
	languages = EXCLUDED.languages,
	hobbies = EXCLUDED.hobbies,
	is_public = EXCLUDED.is_public,
	updated_at = NOW()
RETURNING` + cvColumns

	row := r.pool.QueryRow(
		ctx,
		query,
		cv.UserID,
		string(basics),
		experiences,
		educations,
		skills,
		languages,
		hobbies,
		cv.IsPublic,
	)

	saved, err := scanCV(row)
	if err != nil {
		return model.CV{}, fmt.Errorf("upsert cv: %w", err)
	}

	return saved, nil
}
