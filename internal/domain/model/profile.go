package model

import (
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
)

// Identity is the civil-status section shared by adult and child profiles.
type Identity struct {
	FirstName              string                       `json:"first_name"`
	LastName               string                       `json:"last_name"`
	NIP                    string                       `json:"nip,omitempty"`
	BirthDate              *time.Time                   `json:"birth_date"`
	BirthPlace             string                       `json:"birth_place"`
	BirthCountry           string                       `json:"birth_country"`
	Gender                 enums.Gender                 `json:"gender"`
	Nationality            string                       `json:"nationality"`
	NationalityAcquisition enums.NationalityAcquisition `json:"nationality_acquisition,omitempty"`
}

type PassportInfo struct {
	Number           string     `json:"number"`
	IssueDate        *time.Time `json:"issue_date"`
	ExpiryDate       *time.Time `json:"expiry_date"`
	IssuingAuthority string     `json:"issuing_authority"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Addresses struct {
	Residence *Address `json:"residence"`
	Homeland  *Address `json:"homeland"`
}

type Contacts struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type EmergencyContact struct {
	FirstName string                     `json:"first_name"`
	LastName  string                     `json:"last_name"`
	Phone     string                     `json:"phone"`
	Email     string                     `json:"email"`
	Type      enums.EmergencyContactType `json:"type"`
}

type FamilyMember struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Family struct {
	MaritalStatus enums.MaritalStatus `json:"marital_status,omitempty"`
	Father        *FamilyMember       `json:"father"`
	Mother        *FamilyMember       `json:"mother"`
	Spouse        *FamilyMember       `json:"spouse"`
}

type Profession struct {
	Status          enums.WorkStatus `json:"status,omitempty"`
	Title           string           `json:"title"`
	Employer        string           `json:"employer"`
	EmployerAddress string           `json:"employer_address"`
}

// Profile is the adult consular record, one per user. The completion score
// is derived state: it is recomputed on every scored write and never taken
// from client input.
type Profile struct {
	ID                 int64               `json:"id"`
	UserID             int64               `json:"user_id"`
	ProfileType        enums.ProfileType   `json:"profile_type"`
	Status             enums.ProfileStatus `json:"status"`
	IsNational         bool                `json:"is_national"`
	CountryOfResidence string              `json:"country_of_residence"`
	Identity           Identity            `json:"identity"`
	PassportInfo       PassportInfo        `json:"passport_info"`
	Addresses          Addresses           `json:"addresses"`
	Contacts           Contacts            `json:"contacts"`
	EmergencyContacts  []EmergencyContact  `json:"emergency_contacts"`
	Family             Family              `json:"family"`
	Profession         Profession          `json:"profession"`
	Documents          map[string][]int64  `json:"documents"`
	CompletionScore    int                 `json:"completion_score"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}
