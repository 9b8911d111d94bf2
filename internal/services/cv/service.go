package cv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/rules"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/pkg/validate"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidArgument = errors.New("invalid argument")
)

type CVStore interface {
	GetByUserID(ctx context.Context, userID int64) (model.CV, error)
	Upsert(ctx context.Context, cv model.CV) (model.CV, error)
}

// Service owns the one-CV-per-user document. Every write lazily creates
// the CV if the caller has none yet; reads of an absent CV stay not-found.
type Service struct {
	store CVStore
	now   func() time.Time
}

func NewService(store CVStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) GetMine(ctx context.Context, callerID int64) (model.CV, error) {
	if callerID <= 0 {
		return model.CV{}, fmt.Errorf("invalid caller id: %w", ErrValidation)
	}
	return s.store.GetByUserID(ctx, callerID)
}

// Get returns another user's CV. Owners and staff always see it; anyone
// else only when the owner has made it public. A private CV reads as
// absent so its existence does not leak.
func (s *Service) Get(ctx context.Context, callerID int64, callerRole string, userID int64) (model.CV, error) {
	cv, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return model.CV{}, err
	}

	if cv.UserID == callerID || rules.IsStaff(callerRole) || cv.IsPublic {
		return cv, nil
	}

	return model.CV{}, pgrepo.ErrCVNotFound
}

type BasicsInput struct {
	FirstName      string
	LastName       string
	Title          string
	Objective      string
	Email          string
	Phone          string
	Address        string
	Summary        string
	Hobbies        []string
	PortfolioURL   string
	LinkedinURL    string
	PreferredTheme string
	CVLanguage     string
}

func (s *Service) UpdateBasics(ctx context.Context, callerID int64, in BasicsInput) (model.CV, error) {
	if in.Email != "" && !validate.Email(in.Email) {
		return model.CV{}, fmt.Errorf("malformed email: %w", ErrValidation)
	}

	cv, err := s.loadOrInit(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}

	cv.FirstName = strings.TrimSpace(in.FirstName)
	cv.LastName = strings.TrimSpace(in.LastName)
	cv.Title = strings.TrimSpace(in.Title)
	cv.Objective = in.Objective
	cv.Email = strings.TrimSpace(in.Email)
	cv.Phone = strings.TrimSpace(in.Phone)
	cv.Address = strings.TrimSpace(in.Address)
	cv.Summary = in.Summary
	cv.Hobbies = in.Hobbies
	cv.PortfolioURL = strings.TrimSpace(in.PortfolioURL)
	cv.LinkedinURL = strings.TrimSpace(in.LinkedinURL)
	cv.PreferredTheme = strings.TrimSpace(in.PreferredTheme)
	cv.CVLanguage = strings.TrimSpace(in.CVLanguage)

	return s.store.Upsert(ctx, cv)
}

func (s *Service) ToggleVisibility(ctx context.Context, callerID int64) (model.CV, error) {
	cv, err := s.loadOrInit(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}

	cv.IsPublic = !cv.IsPublic

	return s.store.Upsert(ctx, cv)
}

func (s *Service) AddExperience(ctx context.Context, callerID int64, exp model.Experience) (model.CV, error) {
	if err := validateExperience(exp); err != nil {
		return model.CV{}, err
	}

	cv, err := s.loadOrInit(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}

	cv.Experiences = append(cv.Experiences, exp)

	return s.store.Upsert(ctx, cv)
}

func (s *Service) UpdateExperience(ctx context.Context, callerID int64, index int, exp model.Experience) (model.CV, error) {
	if err := validateExperience(exp); err != nil {
		return model.CV{}, err
	}

	cv, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}
	if !validate.IndexInRange(index, len(cv.Experiences)) {
		return model.CV{}, fmt.Errorf("experience index %d out of range: %w", index, ErrInvalidArgument)
	}

	cv.Experiences[index] = exp

	return s.store.Upsert(ctx, cv)
}

func (s *Service) RemoveExperience(ctx context.Context, callerID int64, index int) (model.CV, error) {
	cv, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}
	if !validate.IndexInRange(index, len(cv.Experiences)) {
		return model.CV{}, fmt.Errorf("experience index %d out of range: %w", index, ErrInvalidArgument)
	}

	cv.Experiences = append(cv.Experiences[:index], cv.Experiences[index+1:]...)

	return s.store.Upsert(ctx, cv)
}

func (s *Service) AddEducation(ctx context.Context, callerID int64, edu model.Education) (model.CV, error) {
	if err := validateEducation(edu); err != nil {
		return model.CV{}, err
	}

	cv, err := s.loadOrInit(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}

	cv.Education = append(cv.Education, edu)

	return s.store.Upsert(ctx, cv)
}

func (s *Service) UpdateEducation(ctx context.Context, callerID int64, index int, edu model.Education) (model.CV, error) {
	if err := validateEducation(edu); err != nil {
		return model.CV{}, err
	}

	cv, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}
	if !validate.IndexInRange(index, len(cv.Education)) {
		return model.CV{}, fmt.Errorf("education index %d out of range: %w", index, ErrInvalidArgument)
	}

	cv.Education[index] = edu

	return s.store.Upsert(ctx, cv)
}

func (s *Service) RemoveEducation(ctx context.Context, callerID int64, index int) (model.CV, error) {
	cv, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}
	if !validate.IndexInRange(index, len(cv.Education)) {
		return model.CV{}, fmt.Errorf("education index %d out of range: %w", index, ErrInvalidArgument)
	}

	cv.Education = append(cv.Education[:index], cv.Education[index+1:]...)

	return s.store.Upsert(ctx, cv)
}

// AddSkill appends a skill. Skill names are unique per CV, compared
// case-insensitively.
func (s *Service) AddSkill(ctx context.Context, callerID int64, skill model.Skill) (model.CV, error) {
	if err := validateSkill(skill); err != nil {
		return model.CV{}, err
	}

	cv, err := s.loadOrInit(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}

	if indexOfSkill(cv.Skills, skill.Name) >= 0 {
		return model.CV{}, fmt.Errorf("skill %q already present: %w", skill.Name, ErrInvalidArgument)
	}

	cv.Skills = append(cv.Skills, skill)

	return s.store.Upsert(ctx, cv)
}

func (s *Service) UpdateSkill(ctx context.Context, callerID int64, index int, skill model.Skill) (model.CV, error) {
	if err := validateSkill(skill); err != nil {
		return model.CV{}, err
	}

	cv, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}
	if !validate.IndexInRange(index, len(cv.Skills)) {
		return model.CV{}, fmt.Errorf("skill index %d out of range: %w", index, ErrInvalidArgument)
	}
	if dup := indexOfSkill(cv.Skills, skill.Name); dup >= 0 && dup != index {
		return model.CV{}, fmt.Errorf("skill %q already present: %w", skill.Name, ErrInvalidArgument)
	}

	cv.Skills[index] = skill

	return s.store.Upsert(ctx, cv)
}

func (s *Service) RemoveSkill(ctx context.Context, callerID int64, index int) (model.CV, error) {
	cv, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}
	if !validate.IndexInRange(index, len(cv.Skills)) {
		return model.CV{}, fmt.Errorf("skill index %d out of range: %w", index, ErrInvalidArgument)
	}

	cv.Skills = append(cv.Skills[:index], cv.Skills[index+1:]...)

	return s.store.Upsert(ctx, cv)
}

// AddLanguage appends a language. Language names are unique per CV,
// compared case-insensitively.
func (s *Service) AddLanguage(ctx context.Context, callerID int64, lang model.Language) (model.CV, error) {
	if err := validateLanguage(lang); err != nil {
		return model.CV{}, err
	}

	cv, err := s.loadOrInit(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}

	if indexOfLanguage(cv.Languages, lang.Name) >= 0 {
		return model.CV{}, fmt.Errorf("language %q already present: %w", lang.Name, ErrInvalidArgument)
	}

	cv.Languages = append(cv.Languages, lang)

	return s.store.Upsert(ctx, cv)
}

func (s *Service) UpdateLanguage(ctx context.Context, callerID int64, index int, lang model.Language) (model.CV, error) {
	if err := validateLanguage(lang); err != nil {
		return model.CV{}, err
	}

	cv, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}
	if !validate.IndexInRange(index, len(cv.Languages)) {
		return model.CV{}, fmt.Errorf("language index %d out of range: %w", index, ErrInvalidArgument)
	}
	if dup := indexOfLanguage(cv.Languages, lang.Name); dup >= 0 && dup != index {
		return model.CV{}, fmt.Errorf("language %q already present: %w", lang.Name, ErrInvalidArgument)
	}

	cv.Languages[index] = lang

	return s.store.Upsert(ctx, cv)
}

func (s *Service) RemoveLanguage(ctx context.Context, callerID int64, index int) (model.CV, error) {
	cv, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.CV{}, err
	}
	if !validate.IndexInRange(index, len(cv.Languages)) {
		return model.CV{}, fmt.Errorf("language index %d out of range: %w", index, ErrInvalidArgument)
	}

	cv.Languages = append(cv.Languages[:index], cv.Languages[index+1:]...)

	return s.store.Upsert(ctx, cv)
}

func (s *Service) loadOrInit(ctx context.Context, callerID int64) (model.CV, error) {
	if callerID <= 0 {
		return model.CV{}, fmt.Errorf("invalid caller id: %w", ErrValidation)
	}

	cv, err := s.store.GetByUserID(ctx, callerID)
	if errors.Is(err, pgrepo.ErrCVNotFound) {
		return model.CV{UserID: callerID}, nil
	}
	if err != nil {
		return model.CV{}, err
	}
	return cv, nil
}

func indexOfSkill(skills []model.Skill, name string) int {
	for i, skill := range skills {
		if strings.EqualFold(skill.Name, name) {
			return i
		}
	}
	return -1
}

func indexOfLanguage(languages []model.Language, name string) int {
	for i, lang := range languages {
		if strings.EqualFold(lang.Name, name) {
			return i
		}
	}
	return -1
}

func validateExperience(exp model.Experience) error {
	if !validate.Required(exp.Title) || !validate.Required(exp.Company) {
		return fmt.Errorf("experience title and company are required: %w", ErrValidation)
	}
	return nil
}

func validateEducation(edu model.Education) error {
	if !validate.Required(edu.Degree) || !validate.Required(edu.School) {
		return fmt.Errorf("education degree and school are required: %w", ErrValidation)
	}
	return nil
}

func validateSkill(skill model.Skill) error {
	if !validate.Required(skill.Name) {
		return fmt.Errorf("skill name is required: %w", ErrValidation)
	}
	if skill.Level != "" && !skill.Level.Valid() {
		return fmt.Errorf("unknown skill level %q: %w", skill.Level, ErrInvalidArgument)
	}
	return nil
}

func validateLanguage(lang model.Language) error {
	if !validate.Required(lang.Name) {
		return fmt.Errorf("language name is required: %w", ErrValidation)
	}
	if lang.Level != "" && !lang.Level.Valid() {
		return fmt.Errorf("unknown language level %q: %w", lang.Level, ErrInvalidArgument)
	}
	return nil
}
