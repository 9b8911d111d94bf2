package model

import (
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
)

type ParentInfo struct {
	Role      enums.ParentalRole `json:"role"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	ProfileID *int64             `json:"profile_id,omitempty"`
}

type ConsularCard struct {
	CardNumber string     `json:"card_number"`
	IssuedAt   *time.Time `json:"issued_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// ChildProfile is a minor's consular record. AuthorUserID is set at creation
// and is the sole authorization key for every mutation.
type ChildProfile struct {
	ID                 int64                               `json:"id"`
	AuthorUserID       int64                               `json:"author_user_id"`
	Status             enums.ChildProfileStatus            `json:"status"`
	Identity           Identity                            `json:"identity"`
	PassportInfo       PassportInfo                        `json:"passport_info"`
	ConsularCard       ConsularCard                        `json:"consular_card"`
	CountryOfResidence string                              `json:"country_of_residence"`
	NIPCode            string                              `json:"nip_code,omitempty"`
	Parents            []ParentInfo                        `json:"parents"`
	Documents          map[enums.ChildDocumentType]int64   `json:"documents"`
	CreatedAt          time.Time                           `json:"created_at"`
	UpdatedAt          time.Time                           `json:"updated_at"`
}
